// Package loader detects the structural family of an input file and
// normalizes it into tabular.Data.
//
// Supported families:
//   - Delimited: .csv, first line is the header
//   - Tree: .json, flattened into dotted-path leaves
//   - Range: .xlsx/.xls workbooks, first row of the sheet is the header
//
// Every failure is returned as an error matching one of the Err* kinds; the
// loader never exits the process.
package loader

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/oakwood-commons/tabler/pkg/logger"
	"github.com/oakwood-commons/tabler/pkg/tabular"
)

// Options tunes how a source is read.
type Options struct {
	// Sheet names the workbook sheet to read; it must exist. Empty means the
	// source's preferred sheet (DefaultSheet unless overridden).
	Sheet string
}

// LoadFile detects the family of path and loads it.
func LoadFile(ctx context.Context, path string, opts Options) (tabular.Data, error) {
	src, err := Detect(path)
	if err != nil {
		return tabular.Data{}, err
	}
	return Load(ctx, src, opts)
}

// Load normalizes src according to its family.
func Load(ctx context.Context, src Source, opts Options) (tabular.Data, error) {
	lgr := logger.FromContext(ctx).WithValues(logger.FileKey, src.Path, logger.FamilyKey, src.Family.String())
	ctx = logger.WithLogger(ctx, &lgr)

	var (
		data tabular.Data
		err  error
	)
	switch src.Family {
	case tabular.Delimited:
		data, err = loadDelimited(ctx, src.Path)
	case tabular.Tree:
		data, err = loadTree(src.Path)
	case tabular.Range:
		data, err = loadWorkbook(ctx, src.Path, opts.Sheet, src.Sheet)
	default:
		return tabular.Data{}, fmt.Errorf("unknown source family %v", src.Family)
	}
	if err != nil {
		return tabular.Data{}, err
	}

	lgr.V(1).Info("loaded file", "columns", len(data.Columns), "rows", data.Len())
	return data, nil
}

// openFile opens path and maps failures to loader error kinds.
func openFile(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, classifyOpenError(path, err)
	}
	return f, nil
}

func classifyOpenError(path string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return newFileError(ErrFileNotFound, path, nil)
	}
	return newFileError(ErrInvalidFile, path, err)
}

// wrapReadError attaches path to an error produced by one of the Read*
// functions, which have no path of their own.
func wrapReadError(path string, err error) error {
	var fe *FileError
	if errors.As(err, &fe) {
		fe.Path = path
		return fe
	}
	var se *SheetNotFoundError
	if errors.As(err, &se) {
		return fmt.Errorf("%s: %w", path, err)
	}
	return newFileError(ErrInvalidFile, path, err)
}
