package loader

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds returned by the loader. Match them with errors.Is.
var (
	// ErrFileNotFound indicates the input path does not resolve.
	ErrFileNotFound = errors.New("file not found")
	// ErrEmptyFile indicates the file parsed but produced zero rows.
	ErrEmptyFile = errors.New("file contains no rows")
	// ErrInvalidFile indicates the content could not be parsed as its family.
	ErrInvalidFile = errors.New("invalid file")
	// ErrUnsupportedExtension indicates the extension is not recognized.
	ErrUnsupportedExtension = errors.New("unsupported file extension")
	// ErrSheetNotFound indicates the requested sheet is absent from the workbook.
	ErrSheetNotFound = errors.New("sheet not found")
)

// FileError reports a failure tied to one input file.
type FileError struct {
	Kind error // one of the Err* kinds
	Path string
	Err  error // underlying cause, may be nil
}

func (e *FileError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %v", e.Path, e.Kind)
	}
	return fmt.Sprintf("%s: %v: %v", e.Path, e.Kind, e.Err)
}

// Unwrap exposes both the kind and the cause to errors.Is / errors.As.
func (e *FileError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func newFileError(kind error, path string, err error) *FileError {
	return &FileError{Kind: kind, Path: path, Err: err}
}

// UnsupportedExtensionError carries the offending extension, without the
// leading dot. Extension is empty when the path has none.
type UnsupportedExtensionError struct {
	Extension string
}

func (e *UnsupportedExtensionError) Error() string {
	if e.Extension == "" {
		return "unsupported file extension: file has no extension"
	}
	return fmt.Sprintf("unsupported file extension: %q", e.Extension)
}

func (e *UnsupportedExtensionError) Is(target error) bool {
	return target == ErrUnsupportedExtension
}

// SheetNotFoundError reports a missing sheet together with the sheets the
// workbook does have.
type SheetNotFoundError struct {
	Sheet     string
	Available []string
}

func (e *SheetNotFoundError) Error() string {
	if len(e.Available) == 0 {
		return fmt.Sprintf("sheet not found: %q", e.Sheet)
	}
	return fmt.Sprintf("sheet not found: %q (available: %s)", e.Sheet, strings.Join(e.Available, ", "))
}

func (e *SheetNotFoundError) Is(target error) bool {
	return target == ErrSheetNotFound
}
