// Package tabular defines the uniform row/column model that every input
// family is normalized into before rendering.
package tabular

import "fmt"

// Sentinel is substituted at render time for a cell missing from a row.
const Sentinel = "NaN"

// Family is the structural shape of an input file.
type Family int

const (
	// Delimited is flat comma-separated text with a header line.
	Delimited Family = iota
	// Tree is a nested JSON document.
	Tree
	// Range is a 2-D spreadsheet range whose first row is the header.
	Range
)

func (f Family) String() string {
	switch f {
	case Delimited:
		return "delimited"
	case Tree:
		return "tree"
	case Range:
		return "range"
	default:
		return fmt.Sprintf("family(%d)", int(f))
	}
}

// Row maps column names to cell text. A key absent from the map is a
// missing cell, not an error.
type Row map[string]string

// Data is the normalized table: ordered unique column names plus rows keyed
// by those names. Columns order is display order.
type Data struct {
	Columns []string
	Rows    []Row
}

// Len returns the number of rows.
func (d Data) Len() int {
	return len(d.Rows)
}

// Cell returns the text for column col in row i, or Sentinel when the row
// has no value for it.
func (d Data) Cell(i int, col string) string {
	if i < 0 || i >= len(d.Rows) {
		return Sentinel
	}
	if v, ok := d.Rows[i][col]; ok {
		return v
	}
	return Sentinel
}

// Values returns row i laid out in column order with missing cells replaced
// by sentinel.
func (d Data) Values(i int, sentinel string) []string {
	out := make([]string, len(d.Columns))
	row := d.Rows[i]
	for j, col := range d.Columns {
		if v, ok := row[col]; ok {
			out[j] = v
		} else {
			out[j] = sentinel
		}
	}
	return out
}

// Select narrows the column list to the requested names, in request order.
// Names not present in d are returned as unmatched. When none of the
// requested names match, the original column set is kept. Rows are shared
// with d; only the column list changes.
func (d Data) Select(names []string) (Data, []string) {
	if len(names) == 0 {
		return d, nil
	}
	known := make(map[string]bool, len(d.Columns))
	for _, c := range d.Columns {
		known[c] = true
	}

	var selected, unmatched []string
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		if seen[n] {
			continue
		}
		seen[n] = true
		if known[n] {
			selected = append(selected, n)
		} else {
			unmatched = append(unmatched, n)
		}
	}

	if len(selected) == 0 {
		return d, unmatched
	}
	return Data{Columns: selected, Rows: d.Rows}, unmatched
}

// WithRows returns a copy of d that shares the column list but carries rows.
func (d Data) WithRows(rows []Row) Data {
	return Data{Columns: d.Columns, Rows: rows}
}
