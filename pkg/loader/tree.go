package loader

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"iter"

	"github.com/oakwood-commons/tabler/pkg/tabular"
)

// RootLeafKey names the column of a leaf reached without any object key,
// e.g. a scalar document or an array of scalars at the root.
const RootLeafKey = "value"

// Kind is the shape of a JSON value.
type Kind int

// Value kinds. Only KindObject and KindArray carry children; the others
// keep their source text in Value.Text.
const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindObject
	KindArray
)

// Member is one key/value pair of an object, in document order.
type Member struct {
	Key   string
	Value Value
}

// Value is a decoded JSON value that keeps object keys in document order
// and numbers as written.
type Value struct {
	Kind     Kind
	Text     string   // scalar text: unquoted string, number literal, true/false, null
	Members  []Member // KindObject
	Elements []Value  // KindArray
}

// IsScalar reports whether v is neither an object nor an array.
func (v Value) IsScalar() bool {
	return v.Kind != KindObject && v.Kind != KindArray
}

func loadTree(path string) (tabular.Data, error) {
	f, err := openFile(path)
	if err != nil {
		return tabular.Data{}, err
	}
	defer f.Close()

	data, err := ReadTree(f)
	if err != nil {
		return tabular.Data{}, wrapReadError(path, err)
	}
	return data, nil
}

// LoadTreeValue reads the JSON document at path without flattening it.
func LoadTreeValue(path string) (Value, error) {
	f, err := openFile(path)
	if err != nil {
		return Value{}, err
	}
	defer f.Close()

	v, err := ReadTreeValue(f)
	if err != nil {
		return Value{}, wrapReadError(path, err)
	}
	return v, nil
}

// ReadTree decodes a JSON document and flattens it into one single-key row
// per scalar leaf. Columns are the distinct leaf paths in first-seen order.
func ReadTree(r io.Reader) (tabular.Data, error) {
	v, err := ReadTreeValue(r)
	if err != nil {
		return tabular.Data{}, err
	}
	data := Flatten(v)
	if data.Len() == 0 {
		return tabular.Data{}, &FileError{Kind: ErrEmptyFile}
	}
	return data, nil
}

// ReadTreeValue decodes exactly one JSON document from r.
func ReadTreeValue(r io.Reader) (Value, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	tok, err := dec.Token()
	if errors.Is(err, io.EOF) {
		return Value{}, &FileError{Kind: ErrEmptyFile}
	}
	if err != nil {
		return Value{}, &FileError{Kind: ErrInvalidFile, Err: err}
	}
	v, err := decodeFrom(dec, tok)
	if err != nil {
		return Value{}, &FileError{Kind: ErrInvalidFile, Err: err}
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return Value{}, &FileError{Kind: ErrInvalidFile, Err: errors.New("unexpected data after top-level value")}
	}
	return v, nil
}

func decodeValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Value{}, io.ErrUnexpectedEOF
		}
		return Value{}, err
	}
	return decodeFrom(dec, tok)
}

func decodeFrom(dec *json.Decoder, tok json.Token) (Value, error) {
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return decodeObject(dec)
		case '[':
			return decodeArray(dec)
		}
		return Value{}, fmt.Errorf("unexpected delimiter %q", rune(t))
	case string:
		return Value{Kind: KindString, Text: t}, nil
	case json.Number:
		return Value{Kind: KindNumber, Text: t.String()}, nil
	case bool:
		if t {
			return Value{Kind: KindBool, Text: "true"}, nil
		}
		return Value{Kind: KindBool, Text: "false"}, nil
	case nil:
		return Value{Kind: KindNull, Text: "null"}, nil
	default:
		return Value{}, fmt.Errorf("unexpected token %v", tok)
	}
}

func decodeObject(dec *json.Decoder) (Value, error) {
	v := Value{Kind: KindObject}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return Value{}, err
		}
		key, ok := tok.(string)
		if !ok {
			return Value{}, fmt.Errorf("object key is %T, not a string", tok)
		}
		child, err := decodeValue(dec)
		if err != nil {
			return Value{}, err
		}
		v.Members = append(v.Members, Member{Key: key, Value: child})
	}
	if _, err := dec.Token(); err != nil {
		return Value{}, err
	}
	return v, nil
}

func decodeArray(dec *json.Decoder) (Value, error) {
	v := Value{Kind: KindArray}
	for dec.More() {
		child, err := decodeValue(dec)
		if err != nil {
			return Value{}, err
		}
		v.Elements = append(v.Elements, child)
	}
	if _, err := dec.Token(); err != nil {
		return Value{}, err
	}
	return v, nil
}

// Leaves yields every scalar leaf of v as (dotted path, text) in depth-first
// document order. Object keys extend the path; array elements do not, so
// sibling elements with the same shape yield the same path repeatedly.
func Leaves(v Value) iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		walkLeaves(v, "", yield)
	}
}

func walkLeaves(v Value, prefix string, yield func(string, string) bool) bool {
	switch v.Kind {
	case KindObject:
		for _, m := range v.Members {
			path := m.Key
			if prefix != "" {
				path = prefix + "." + m.Key
			}
			if !walkLeaves(m.Value, path, yield) {
				return false
			}
		}
	case KindArray:
		for _, e := range v.Elements {
			if !walkLeaves(e, prefix, yield) {
				return false
			}
		}
	default:
		key := prefix
		if key == "" {
			key = RootLeafKey
		}
		return yield(key, v.Text)
	}
	return true
}

// Flatten turns every leaf of v into its own one-key row. Records are not
// reconstructed from arrays of objects: {"a":[{"x":1},{"x":2}]} yields two
// rows keyed "a.x".
func Flatten(v Value) tabular.Data {
	var (
		columns []string
		rows    []tabular.Row
	)
	seen := make(map[string]bool)
	for path, text := range Leaves(v) {
		if !seen[path] {
			seen[path] = true
			columns = append(columns, path)
		}
		rows = append(rows, tabular.Row{path: text})
	}
	return tabular.Data{Columns: columns, Rows: rows}
}
