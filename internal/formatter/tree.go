package formatter

import (
	"fmt"
	"strconv"

	"github.com/mattn/go-runewidth"
	"github.com/xlab/treeprint"

	"github.com/oakwood-commons/tabler/pkg/loader"
)

const defaultMaxStringLen = 60

// TreeOptions controls tree output formatting.
type TreeOptions struct {
	// MaxDepth limits tree depth (0 = unlimited).
	MaxDepth int
	// MaxStringLen is the display width after which inline strings are
	// truncated with "...". 0 selects the default; negative disables it.
	MaxStringLen int
	// NoValues hides values at leaf nodes (structure only).
	NoValues bool
}

// FormatTree renders a parsed JSON document as an ASCII tree. Objects become
// branches labeled by key in document order, array elements become [i]
// branches and scalars are shown inline.
func FormatTree(v loader.Value, opts TreeOptions) string {
	if opts.MaxStringLen == 0 {
		opts.MaxStringLen = defaultMaxStringLen
	}
	tree := treeprint.New()
	if v.IsScalar() {
		tree.AddNode(formatScalar(v, opts))
	} else {
		addChildren(tree, v, opts, 0)
	}
	return tree.String()
}

func addChildren(branch treeprint.Tree, v loader.Value, opts TreeOptions, depth int) {
	switch v.Kind {
	case loader.KindObject:
		for _, m := range v.Members {
			addNode(branch, m.Key, m.Value, opts, depth)
		}
	case loader.KindArray:
		for i, elem := range v.Elements {
			addNode(branch, "["+strconv.Itoa(i)+"]", elem, opts, depth)
		}
	}
}

func addNode(branch treeprint.Tree, key string, v loader.Value, opts TreeOptions, depth int) {
	if opts.MaxDepth > 0 && depth >= opts.MaxDepth {
		branch.AddNode(key + ": ...")
		return
	}

	switch {
	case v.Kind == loader.KindObject && len(v.Members) == 0:
		branch.AddNode(keyValue(key, "{}", opts))
	case v.Kind == loader.KindArray && len(v.Elements) == 0:
		branch.AddNode(keyValue(key, "[]", opts))
	case v.IsScalar():
		branch.AddNode(keyValue(key, formatScalar(v, opts), opts))
	default:
		addChildren(branch.AddBranch(key), v, opts, depth+1)
	}
}

func keyValue(key, value string, opts TreeOptions) string {
	if opts.NoValues {
		return key
	}
	return key + ": " + value
}

func formatScalar(v loader.Value, opts TreeOptions) string {
	s := v.Text
	if v.Kind == loader.KindString {
		s = fmt.Sprintf("%q", v.Text)
	}
	if opts.MaxStringLen > 0 && runewidth.StringWidth(s) > opts.MaxStringLen {
		if opts.MaxStringLen <= 3 {
			return "..."
		}
		return runewidth.Truncate(s, opts.MaxStringLen, "...")
	}
	return s
}
