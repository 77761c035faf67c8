package loader

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/oakwood-commons/tabler/pkg/tabular"
)

type sheetFixture struct {
	name string
	rows [][]any
}

// writeWorkbook saves an .xlsx containing the given sheets, in order.
func writeWorkbook(t *testing.T, dir string, sheets ...sheetFixture) string {
	t.Helper()
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	keepDefault := false
	for _, s := range sheets {
		if s.name == "Sheet1" {
			keepDefault = true
		} else {
			_, err := f.NewSheet(s.name)
			require.NoError(t, err)
		}
		for i, row := range s.rows {
			cell, err := excelize.CoordinatesToCellName(1, i+1)
			require.NoError(t, err)
			r := row
			require.NoError(t, f.SetSheetRow(s.name, cell, &r))
		}
	}
	if !keepDefault {
		require.NoError(t, f.DeleteSheet("Sheet1"))
	}

	path := filepath.Join(dir, "book.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestLoadWorkbookDropsHeaderRow(t *testing.T) {
	path := writeWorkbook(t, t.TempDir(), sheetFixture{
		name: "Sheet1",
		rows: [][]any{
			{"name", "age", "city"},
			{"Alice", 30, "Paris"},
			{"Bob", 25.5},
		},
	})

	data, err := LoadFile(context.Background(), path, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "age", "city"}, data.Columns)
	require.Len(t, data.Rows, 2, "header must not appear as a data row")
	assert.Equal(t, tabular.Row{"name": "Alice", "age": "30", "city": "Paris"}, data.Rows[0])
	assert.Equal(t, "25.5", data.Rows[1]["age"])
	assert.Equal(t, tabular.Sentinel, data.Cell(1, "city"))
}

func TestLoadWorkbookHeaderOnly(t *testing.T) {
	path := writeWorkbook(t, t.TempDir(), sheetFixture{
		name: "Sheet1",
		rows: [][]any{{"a", "b"}},
	})

	_, err := LoadFile(context.Background(), path, Options{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrEmptyFile), "got %v", err)
}

func TestLoadWorkbookEmptySheet(t *testing.T) {
	path := writeWorkbook(t, t.TempDir(), sheetFixture{name: "Sheet1"})

	_, err := LoadFile(context.Background(), path, Options{})
	assert.True(t, errors.Is(err, ErrEmptyFile), "got %v", err)
}

func TestLoadWorkbookNamedSheet(t *testing.T) {
	path := writeWorkbook(t, t.TempDir(),
		sheetFixture{name: "Sheet1", rows: [][]any{{"x"}, {"1"}}},
		sheetFixture{name: "Totals", rows: [][]any{{"region", "sum"}, {"north", 10}, {"south", 20}}},
	)

	data, err := LoadFile(context.Background(), path, Options{Sheet: "Totals"})
	require.NoError(t, err)
	assert.Equal(t, []string{"region", "sum"}, data.Columns)
	assert.Equal(t, 2, data.Len())

	data, err = LoadFile(context.Background(), path, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"x"}, data.Columns)
}

func TestLoadWorkbookSheetNotFound(t *testing.T) {
	path := writeWorkbook(t, t.TempDir(), sheetFixture{name: "Sheet1", rows: [][]any{{"x"}, {"1"}}})

	_, err := LoadFile(context.Background(), path, Options{Sheet: "Missing"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSheetNotFound))
	assert.False(t, errors.Is(err, ErrInvalidFile))

	var se *SheetNotFoundError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "Missing", se.Sheet)
	assert.Equal(t, []string{"Sheet1"}, se.Available)
}

func TestLoadWorkbookMissingDefaultSheet(t *testing.T) {
	path := writeWorkbook(t, t.TempDir(), sheetFixture{name: "Data", rows: [][]any{{"k"}, {"v"}}})

	_, err := LoadFile(context.Background(), path, Options{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSheetNotFound), "got %v", err)

	var se *SheetNotFoundError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, DefaultSheet, se.Sheet)
	assert.Equal(t, []string{"Data"}, se.Available)

	data, err := LoadFile(context.Background(), path, Options{Sheet: "Data"})
	require.NoError(t, err)
	assert.Equal(t, []tabular.Row{{"k": "v"}}, data.Rows)
}

func TestLoadWorkbookBlankHeaderCell(t *testing.T) {
	path := writeWorkbook(t, t.TempDir(), sheetFixture{
		name: "Sheet1",
		rows: [][]any{{"id", "", "id"}, {"1", "2", "3"}},
	})

	data, err := LoadFile(context.Background(), path, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "B", "id_2"}, data.Columns)
	assert.Equal(t, tabular.Row{"id": "1", "B": "2", "id_2": "3"}, data.Rows[0])
}

func TestLoadWorkbookFileErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadFile(context.Background(), filepath.Join(dir, "none.xlsx"), Options{})
	assert.True(t, errors.Is(err, ErrFileNotFound), "got %v", err)

	corrupt := filepath.Join(dir, "corrupt.xlsx")
	require.NoError(t, os.WriteFile(corrupt, []byte("not a zip archive"), 0o600))
	_, err = LoadFile(context.Background(), corrupt, Options{})
	assert.True(t, errors.Is(err, ErrInvalidFile), "got %v", err)
}

func TestResolveSheet(t *testing.T) {
	name, err := resolveSheet([]string{"A", "B"}, "B", "")
	require.NoError(t, err)
	assert.Equal(t, "B", name)

	name, err = resolveSheet([]string{"A", "Main"}, "", "Main")
	require.NoError(t, err)
	assert.Equal(t, "Main", name)

	name, err = resolveSheet([]string{"A", "Sheet1"}, "", "")
	require.NoError(t, err)
	assert.Equal(t, "Sheet1", name)

	_, err = resolveSheet([]string{"A", "B"}, "", "")
	assert.True(t, errors.Is(err, ErrSheetNotFound))

	_, err = resolveSheet([]string{"A", "B"}, "", "Main")
	assert.True(t, errors.Is(err, ErrSheetNotFound))

	_, err = resolveSheet(nil, "", "")
	assert.True(t, errors.Is(err, ErrSheetNotFound))
}
