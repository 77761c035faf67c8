package loader

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/oakwood-commons/tabler/pkg/logger"
	"github.com/oakwood-commons/tabler/pkg/tabular"
)

const utf8BOM = "\ufeff"

func loadDelimited(ctx context.Context, path string) (tabular.Data, error) {
	f, err := openFile(path)
	if err != nil {
		return tabular.Data{}, err
	}
	defer f.Close()

	data, err := ReadDelimited(ctx, f)
	if err != nil {
		return tabular.Data{}, wrapReadError(path, err)
	}
	return data, nil
}

// ReadDelimited parses comma-separated text whose first record is the
// header. Short records omit the missing keys; fields beyond the header are
// dropped; records the csv reader cannot parse are skipped.
func ReadDelimited(ctx context.Context, r io.Reader) (tabular.Data, error) {
	lgr := logger.FromContext(ctx)

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return tabular.Data{}, &FileError{Kind: ErrEmptyFile}
	}
	if err != nil {
		return tabular.Data{}, &FileError{Kind: ErrInvalidFile, Err: fmt.Errorf("read header: %w", err)}
	}
	columns := headerColumns(header)

	var rows []tabular.Row
	skipped := 0
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		var perr *csv.ParseError
		if errors.As(err, &perr) {
			skipped++
			lgr.V(1).Info("skipping unparsable record", "line", perr.StartLine, "error", perr.Err.Error())
			continue
		}
		if err != nil {
			return tabular.Data{}, &FileError{Kind: ErrInvalidFile, Err: err}
		}

		row := make(tabular.Row, len(columns))
		for i, field := range record {
			if i >= len(columns) {
				break
			}
			row[columns[i]] = field
		}
		rows = append(rows, row)
	}

	if skipped > 0 {
		lgr.Info("skipped unparsable records", "count", skipped)
	}
	if len(rows) == 0 {
		return tabular.Data{}, &FileError{Kind: ErrEmptyFile}
	}
	return tabular.Data{Columns: columns, Rows: rows}, nil
}

// headerColumns trims header names and makes them unique so each one can
// key a row map.
func headerColumns(header []string) []string {
	columns := make([]string, len(header))
	seen := make(map[string]int, len(header))
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, utf8BOM)
		}
		name = strings.TrimSpace(name)
		if name == "" {
			name = fmt.Sprintf("column_%d", i+1)
		}
		columns[i] = uniqueName(name, seen)
	}
	return columns
}

// uniqueName returns name, or name_N when name was already used.
func uniqueName(name string, seen map[string]int) string {
	seen[name]++
	if seen[name] == 1 {
		return name
	}
	for {
		candidate := fmt.Sprintf("%s_%d", name, seen[name])
		if seen[candidate] == 0 {
			seen[candidate] = 1
			return candidate
		}
		seen[name]++
	}
}
