// Package table wraps the bubbles table with typed rows and a text filter.
package table

import (
	"fmt"
	"image/color"
	"strings"

	bubtable "charm.land/bubbles/v2/table"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
)

type Column = bubtable.Column
type Row = bubtable.Row

const (
	defaultWidth  = 80
	defaultHeight = 10
)

// Model displays values of type V. Filtering matches the filter text as a
// case-insensitive substring of the text returned by keyFunc.
type Model[V any] struct {
	table    bubtable.Model
	styles   bubtable.Styles
	rows     []V
	filter   string
	filtered []V

	toRow   func(V) Row
	keyFunc func(V) string

	noColor bool

	headerFG   color.Color
	selectedFG color.Color
	selectedBG color.Color
}

// NewModel creates a table with the given columns. toRow lays a value out
// as cells; keyFunc returns the text the filter searches.
func NewModel[V any](columns []Column, toRow func(V) Row, keyFunc func(V) string) *Model[V] {
	t := bubtable.New(
		bubtable.WithColumns(columns),
		bubtable.WithFocused(true),
		bubtable.WithWidth(defaultWidth),
		bubtable.WithHeight(defaultHeight),
	)

	s := bubtable.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderTop(false).
		BorderLeft(false).
		BorderRight(false).
		Bold(true)
	s.Cell = lipgloss.NewStyle().Padding(0, 1)
	t.SetStyles(s)

	return &Model[V]{
		table:   t,
		styles:  s,
		toRow:   toRow,
		keyFunc: keyFunc,
	}
}

// SetRows replaces the values and reapplies the filter.
func (m *Model[V]) SetRows(rows []V) {
	m.rows = rows
	m.applyFilter()
}

// Rows returns the values that pass the filter.
func (m *Model[V]) Rows() []V {
	return m.filtered
}

// AllRows returns every value, ignoring the filter.
func (m *Model[V]) AllRows() []V {
	return m.rows
}

func (m *Model[V]) SetFilter(filter string) {
	m.filter = filter
	m.applyFilter()
}

func (m *Model[V]) Filter() string {
	return m.filter
}

func (m *Model[V]) ClearFilter() {
	m.filter = ""
	m.applyFilter()
}

func (m *Model[V]) applyFilter() {
	if m.filter == "" {
		m.filtered = m.rows
	} else {
		needle := strings.ToLower(m.filter)
		m.filtered = make([]V, 0, len(m.rows))
		for _, row := range m.rows {
			if strings.Contains(strings.ToLower(m.keyFunc(row)), needle) {
				m.filtered = append(m.filtered, row)
			}
		}
	}

	tableRows := make([]Row, len(m.filtered))
	for i, row := range m.filtered {
		tableRows[i] = m.toRow(row)
	}
	m.table.SetRows(tableRows)

	if len(m.filtered) > 0 && (m.Cursor() < 0 || m.Cursor() >= len(m.filtered)) {
		m.SetCursor(0)
	}
}

func (m *Model[V]) Cursor() int {
	return m.table.Cursor()
}

func (m *Model[V]) SetCursor(pos int) {
	m.table.SetCursor(pos)
}

// SelectedRow returns the value under the cursor, or nil when no rows pass
// the filter.
func (m *Model[V]) SelectedRow() *V {
	cursor := m.Cursor()
	if cursor < 0 || cursor >= len(m.filtered) {
		return nil
	}
	return &m.filtered[cursor]
}

// SetSize sets the viewport dimensions. Height counts the header.
func (m *Model[V]) SetSize(width, height int) {
	m.table.SetWidth(width)
	m.table.SetHeight(height)
}

// Focus lets the table react to navigation keys again.
func (m *Model[V]) Focus() {
	m.table.Focus()
}

// Blur makes the table ignore key messages.
func (m *Model[V]) Blur() {
	m.table.Blur()
}

func (m *Model[V]) Focused() bool {
	return m.table.Focused()
}

// SetNoColor switches between themed colors and reverse-video selection.
func (m *Model[V]) SetNoColor(noColor bool) {
	m.noColor = noColor
	m.applyColorScheme()
}

// SetColors sets theme colors. Nil values keep the bubbles defaults.
func (m *Model[V]) SetColors(headerFG, selectedFG, selectedBG color.Color) {
	m.headerFG = headerFG
	m.selectedFG = selectedFG
	m.selectedBG = selectedBG
	m.applyColorScheme()
}

func (m *Model[V]) applyColorScheme() {
	s := m.styles
	if m.noColor {
		s.Header = s.Header.UnsetForeground().UnsetBackground()
		s.Selected = s.Selected.UnsetForeground().UnsetBackground().Reverse(true)
		s.Cell = s.Cell.UnsetForeground().UnsetBackground()
	} else {
		if m.headerFG != nil {
			s.Header = s.Header.Foreground(m.headerFG)
		}
		if m.selectedFG != nil {
			s.Selected = s.Selected.Foreground(m.selectedFG)
		}
		if m.selectedBG != nil {
			s.Selected = s.Selected.Background(m.selectedBG)
		}
	}
	m.table.SetStyles(s)
	m.styles = s
}

// Update forwards navigation messages to the bubbles table.
func (m *Model[V]) Update(msg tea.Msg) (*Model[V], tea.Cmd) {
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m *Model[V]) View() string {
	return m.table.View()
}

func (m *Model[V]) String() string {
	return fmt.Sprintf("Table[rows=%d, filtered=%d, cursor=%d, filter=%q]",
		len(m.rows), len(m.filtered), m.Cursor(), m.filter)
}
