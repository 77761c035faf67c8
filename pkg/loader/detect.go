package loader

import (
	"path/filepath"
	"strings"

	"github.com/oakwood-commons/tabler/pkg/tabular"
)

// DefaultSheet is the workbook sheet read when the caller names none.
const DefaultSheet = "Sheet1"

// Source is a classified input file.
type Source struct {
	Path      string
	Family    tabular.Family
	Extension string // as written in the path, without the dot
	Sheet     string // Range only
}

// Detect classifies path by its extension alone. It performs no I/O.
func Detect(path string) (Source, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	src := Source{Path: path, Extension: ext}

	switch strings.ToLower(ext) {
	case "json":
		src.Family = tabular.Tree
	case "csv":
		src.Family = tabular.Delimited
	case "xlsx", "xls":
		src.Family = tabular.Range
		src.Sheet = DefaultSheet
	default:
		return Source{}, &UnsupportedExtensionError{Extension: ext}
	}
	return src, nil
}
