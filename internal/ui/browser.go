// Package ui provides the interactive table browser.
package ui

import (
	"fmt"
	"image/color"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/mattn/go-runewidth"

	"github.com/oakwood-commons/tabler/internal/ui/table"
	"github.com/oakwood-commons/tabler/pkg/tabular"
)

// MaxColumnWidth caps the width of a browser column in terminal cells.
const MaxColumnWidth = 40

const (
	defaultWidth  = 80
	defaultHeight = 24
	// title line plus status line
	chromeLines = 2
)

// BrowserOptions configures a Browser.
type BrowserOptions struct {
	// Title is shown above the table, usually the file name.
	Title    string
	Sentinel string
	NoColor  bool
	HeaderFG color.Color
	Width    int
	Height   int
}

// Browser is a bubbletea model that scrolls through a table and filters its
// rows by substring.
type Browser struct {
	table *table.Model[tabular.Row]
	opts  BrowserOptions

	filtering bool
	input     string
	quitting  bool
}

// NewBrowser builds a browser over d. The rows are displayed in order and
// never modified.
func NewBrowser(d tabular.Data, opts BrowserOptions) *Browser {
	if opts.Sentinel == "" {
		opts.Sentinel = tabular.Sentinel
	}
	widths := ColumnWidths(d, opts.Sentinel, MaxColumnWidth)
	cols := make([]table.Column, len(d.Columns))
	for i, name := range d.Columns {
		cols[i] = table.Column{Title: name, Width: widths[i]}
	}

	toRow := func(r tabular.Row) table.Row { return rowCells(d.Columns, r, opts.Sentinel) }
	keyFunc := func(r tabular.Row) string { return strings.Join(rowCells(d.Columns, r, opts.Sentinel), " ") }

	t := table.NewModel(cols, toRow, keyFunc)
	t.SetNoColor(opts.NoColor)
	if !opts.NoColor && opts.HeaderFG != nil {
		t.SetColors(opts.HeaderFG, nil, nil)
	}
	t.SetRows(d.Rows)

	b := &Browser{table: t, opts: opts}
	w, h := opts.Width, opts.Height
	if w <= 0 {
		w = defaultWidth
	}
	if h <= 0 {
		h = defaultHeight
	}
	b.setSize(w, h)
	return b
}

// rowCells lays a row out in column order. Line breaks are flattened so each
// row stays on one terminal line.
func rowCells(columns []string, r tabular.Row, sentinel string) table.Row {
	out := make(table.Row, len(columns))
	for i, col := range columns {
		v, ok := r[col]
		if !ok {
			v = sentinel
		}
		out[i] = strings.ReplaceAll(v, "\n", " ")
	}
	return out
}

// ColumnWidths returns the display width of each column: the widest of its
// header and cells, capped at maxWidth.
func ColumnWidths(d tabular.Data, sentinel string, maxWidth int) []int {
	widths := make([]int, len(d.Columns))
	for i, col := range d.Columns {
		widths[i] = runewidth.StringWidth(col)
	}
	for _, r := range d.Rows {
		for i, cell := range rowCells(d.Columns, r, sentinel) {
			if w := runewidth.StringWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}
	for i, w := range widths {
		switch {
		case maxWidth > 0 && w > maxWidth:
			widths[i] = maxWidth
		case w < 1:
			widths[i] = 1
		}
	}
	return widths
}

func (b *Browser) setSize(width, height int) {
	b.table.SetSize(width, max(height-chromeLines, 3))
}

// Filter returns the active row filter text.
func (b *Browser) Filter() string {
	return b.table.Filter()
}

// Filtering reports whether the filter prompt has focus.
func (b *Browser) Filtering() bool {
	return b.filtering
}

// Visible returns the rows that pass the filter.
func (b *Browser) Visible() []tabular.Row {
	return b.table.Rows()
}

// Selected returns the row under the cursor, or nil.
func (b *Browser) Selected() tabular.Row {
	if r := b.table.SelectedRow(); r != nil {
		return *r
	}
	return nil
}

func (b *Browser) Init() tea.Cmd {
	return nil
}

func (b *Browser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		b.setSize(msg.Width, msg.Height)
		return b, nil
	case tea.KeyPressMsg:
		if b.filtering {
			return b.updateFilter(msg)
		}
		switch msg.String() {
		case "q", "ctrl+c":
			b.quitting = true
			return b, tea.Quit
		case "/":
			b.filtering = true
			b.input = b.table.Filter()
			b.table.Blur()
			return b, nil
		case "esc":
			b.table.ClearFilter()
			return b, nil
		}
	}

	_, cmd := b.table.Update(msg)
	return b, cmd
}

func (b *Browser) updateFilter(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		b.quitting = true
		return b, tea.Quit
	case "enter":
		b.filtering = false
		b.table.Focus()
		return b, nil
	case "esc":
		b.filtering = false
		b.table.Focus()
		b.input = ""
		b.table.ClearFilter()
		return b, nil
	case "backspace":
		if r := []rune(b.input); len(r) > 0 {
			b.input = string(r[:len(r)-1])
		}
	default:
		if msg.Text == "" {
			return b, nil
		}
		b.input += msg.Text
	}
	b.table.SetFilter(b.input)
	return b, nil
}

func (b *Browser) View() tea.View {
	if b.quitting {
		return tea.NewView("")
	}

	title := fmt.Sprintf("%s  %d/%d rows", b.opts.Title, len(b.table.Rows()), len(b.table.AllRows()))
	title = strings.TrimSpace(title)

	var status string
	switch {
	case b.filtering:
		status = "/" + b.input + "_"
	case b.table.Filter() != "":
		status = fmt.Sprintf("filter: %s  (/ edit, esc clear, q quit)", b.table.Filter())
	default:
		status = "↑/↓ j/k move  / filter  q quit"
	}

	if !b.opts.NoColor {
		title = lipgloss.NewStyle().Bold(true).Render(title)
		status = lipgloss.NewStyle().Faint(true).Render(status)
	}

	v := tea.NewView(title + "\n" + b.table.View() + "\n" + status)
	v.AltScreen = true
	return v
}

// RunBrowser runs an interactive browser over d until the user quits.
func RunBrowser(d tabular.Data, opts BrowserOptions, progOpts ...tea.ProgramOption) error {
	b := NewBrowser(d, opts)
	if _, err := tea.NewProgram(b, progOpts...).Run(); err != nil {
		return fmt.Errorf("run browser: %w", err)
	}
	return nil
}
