package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/oakwood-commons/tabler/pkg/tabular"
)

// Format is an output format for the table.
type Format string

const (
	FormatTable Format = "table"
	FormatCSV   Format = "csv"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

// ValidFormats lists the accepted --output values.
var ValidFormats = []Format{FormatTable, FormatCSV, FormatJSON, FormatYAML}

// ParseFormat validates an --output value. Matching is case-insensitive and
// "yml" is accepted for yaml.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatTable, nil
	case "yml":
		return FormatYAML, nil
	case FormatTable, FormatCSV, FormatJSON, FormatYAML:
		return f, nil
	}
	return "", fmt.Errorf("invalid output format %q: valid values are table, csv, json, yaml", s)
}

// Encode writes d to w in a machine-readable format. Cells are written
// unwrapped.
func Encode(w io.Writer, d tabular.Data, f Format, sentinel string) error {
	switch f {
	case FormatCSV:
		return EncodeCSV(w, d, sentinel)
	case FormatJSON:
		return EncodeJSON(w, d)
	case FormatYAML:
		return EncodeYAML(w, d)
	default:
		return fmt.Errorf("format %q is not an encoder format", f)
	}
}

// EncodeCSV writes a header record and one record per row. Missing cells are
// written as sentinel.
func EncodeCSV(w io.Writer, d tabular.Data, sentinel string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(d.Columns); err != nil {
		return err
	}
	for i := range d.Rows {
		if err := cw.Write(d.Values(i, sentinel)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// orderedRow marshals a row as a JSON object whose keys follow the column
// order. Missing cells are omitted.
type orderedRow struct {
	columns []string
	row     tabular.Row
}

func (o orderedRow) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	for _, col := range o.columns {
		v, ok := o.row[col]
		if !ok {
			continue
		}
		if !first {
			buf.WriteByte(',')
		}
		first = false
		k, err := json.Marshal(col)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// EncodeJSON writes the rows as an indented JSON array of objects.
func EncodeJSON(w io.Writer, d tabular.Data) error {
	out := make([]orderedRow, 0, d.Len())
	for _, row := range d.Rows {
		out = append(out, orderedRow{columns: d.Columns, row: row})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// EncodeYAML writes the rows as a YAML sequence of mappings in column order.
// Multi-line cells are emitted as literal blocks.
func EncodeYAML(w io.Writer, d tabular.Data) error {
	seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
	for _, row := range d.Rows {
		m := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, col := range d.Columns {
			v, ok := row[col]
			if !ok {
				continue
			}
			m.Content = append(m.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: col},
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v},
			)
		}
		seq.Content = append(seq.Content, m)
	}
	applyLiteralStyle(seq)

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(seq); err != nil {
		return err
	}
	return enc.Close()
}

func applyLiteralStyle(n *yaml.Node) {
	if n == nil {
		return
	}
	if n.Kind == yaml.ScalarNode && n.Tag == "!!str" && strings.Contains(n.Value, "\n") {
		n.Style = yaml.LiteralStyle
	}
	for _, c := range n.Content {
		applyLiteralStyle(c)
	}
}
