package loader

import (
	"context"
	"errors"
	"io/fs"
	"slices"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/oakwood-commons/tabler/pkg/logger"
	"github.com/oakwood-commons/tabler/pkg/tabular"
)

func loadWorkbook(ctx context.Context, path, sheet, preferred string) (tabular.Data, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return tabular.Data{}, newFileError(ErrFileNotFound, path, nil)
		}
		return tabular.Data{}, newFileError(ErrInvalidFile, path, err)
	}
	defer f.Close()

	data, err := ReadWorkbook(ctx, f, sheet, preferred)
	if err != nil {
		return tabular.Data{}, wrapReadError(path, err)
	}
	return data, nil
}

// ReadWorkbook reads one sheet of an open workbook. An empty sheet name
// selects preferred, or DefaultSheet when preferred is empty; the selected
// sheet must exist. The first row of the range is the header and is dropped
// from the data rows.
func ReadWorkbook(ctx context.Context, f *excelize.File, sheet, preferred string) (tabular.Data, error) {
	lgr := logger.FromContext(ctx)

	name, err := resolveSheet(f.GetSheetList(), sheet, preferred)
	if err != nil {
		return tabular.Data{}, err
	}
	lgr.V(1).Info("reading sheet", logger.SheetKey, name)

	// GetRows returns the displayed text of each cell, so numbers, dates and
	// booleans arrive already coerced to strings.
	records, err := f.GetRows(name)
	if err != nil {
		return tabular.Data{}, &FileError{Kind: ErrInvalidFile, Err: err}
	}
	if len(records) == 0 {
		return tabular.Data{}, &FileError{Kind: ErrEmptyFile}
	}

	columns := sheetColumns(records[0])
	rows := make([]tabular.Row, 0, len(records))
	for _, record := range records {
		row := make(tabular.Row, len(columns))
		for i, cell := range record {
			if i >= len(columns) {
				break
			}
			row[columns[i]] = cell
		}
		rows = append(rows, row)
	}

	// The range re-emits its header as the first row.
	rows = rows[1:]
	if len(rows) == 0 {
		return tabular.Data{}, &FileError{Kind: ErrEmptyFile}
	}
	return tabular.Data{Columns: columns, Rows: rows}, nil
}

func resolveSheet(available []string, requested, preferred string) (string, error) {
	if requested != "" {
		if slices.Contains(available, requested) {
			return requested, nil
		}
		return "", &SheetNotFoundError{Sheet: requested, Available: available}
	}
	if preferred == "" {
		preferred = DefaultSheet
	}
	if slices.Contains(available, preferred) {
		return preferred, nil
	}
	return "", &SheetNotFoundError{Sheet: preferred, Available: available}
}

// sheetColumns names blank header cells after their column letter and
// makes duplicates unique.
func sheetColumns(header []string) []string {
	columns := make([]string, len(header))
	seen := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if name == "" {
			letter, err := excelize.ColumnNumberToName(i + 1)
			if err != nil {
				letter = "column"
			}
			name = letter
		}
		columns[i] = uniqueName(name, seen)
	}
	return columns
}
