package formatter

import (
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"

	"github.com/oakwood-commons/tabler/internal/cellfmt"
	"github.com/oakwood-commons/tabler/internal/layout"
	"github.com/oakwood-commons/tabler/pkg/tabular"
)

var (
	defaultHeaderFG = lipgloss.Color("6")
	defaultBorderFG = lipgloss.Color("8")
)

// TableColors controls the rendered colors of the bordered table.
// Nil fields fall back to the defaults; Cell nil means terminal default.
type TableColors struct {
	Header color.Color
	Border color.Color
	Cell   color.Color
}

// ColorsFromStrings parses lipgloss color strings ("6", "#00afaf"). Empty
// strings leave the field nil.
func ColorsFromStrings(header, border, cell string) TableColors {
	parse := func(s string) color.Color {
		if s == "" {
			return nil
		}
		return lipgloss.Color(s)
	}
	return TableColors{Header: parse(header), Border: parse(border), Cell: parse(cell)}
}

// TableOptions configures RenderTable.
type TableOptions struct {
	// Sentinel replaces cells a row does not carry. Empty means tabular.Sentinel.
	Sentinel string
	// Wrap passes every data cell through cellfmt.Wrap.
	Wrap    bool
	NoColor bool
	Colors  TableColors
}

// DefaultTableOptions returns the options used when no configuration applies.
func DefaultTableOptions() TableOptions {
	return TableOptions{Sentinel: tabular.Sentinel, Wrap: true}
}

// RenderTable renders d as a bordered table with centered cells, shifted
// right by lay.Indent spaces. Rows are rendered as given; windowing is the
// caller's job.
func RenderTable(d tabular.Data, lay layout.Layout, opts TableOptions) string {
	if len(d.Columns) == 0 {
		return ""
	}
	sentinel := opts.Sentinel
	if sentinel == "" {
		sentinel = tabular.Sentinel
	}

	rows := make([][]string, 0, d.Len())
	for i := range d.Rows {
		vals := d.Values(i, sentinel)
		if opts.Wrap {
			for j, v := range vals {
				vals[j] = cellfmt.Wrap(v)
			}
		}
		rows = append(rows, vals)
	}

	headerStyle, cellStyle, borderStyle := tableStyles(opts)
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers(d.Columns...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	return indentLines(t.String(), lay.Indent)
}

func tableStyles(opts TableOptions) (header, cell, border lipgloss.Style) {
	base := lipgloss.NewStyle().Padding(0, 1).Align(lipgloss.Center)
	header = base
	cell = base
	border = lipgloss.NewStyle()
	if opts.NoColor {
		return header, cell, border
	}
	header = header.Bold(true)

	hfg, bfg := opts.Colors.Header, opts.Colors.Border
	if hfg == nil {
		hfg = defaultHeaderFG
	}
	if bfg == nil {
		bfg = defaultBorderFG
	}
	header = header.Foreground(hfg)
	border = border.Foreground(bfg)
	if opts.Colors.Cell != nil {
		cell = cell.Foreground(opts.Colors.Cell)
	}
	return header, cell, border
}

func indentLines(s string, indent int) string {
	if indent <= 0 || s == "" {
		return s
	}
	pad := strings.Repeat(" ", indent)
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = pad + line
		}
	}
	return strings.Join(lines, "\n")
}
