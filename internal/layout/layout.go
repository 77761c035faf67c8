// Package layout decides how much of a table to show and how far to indent
// it. The result depends only on the table's shape and caller preferences.
package layout

import "fmt"

// Config holds the tuning constants of the indent heuristic and the default
// row cap.
type Config struct {
	// DefaultCap is the row cap applied when Preferences.DefaultRowCap is set.
	DefaultCap int
	// Base is the indent before any column-count adjustment.
	Base int
	// WideStep is added for each threshold in [WideFrom, WideTo] that the
	// column count is <= to.
	WideStep int
	WideFrom int
	WideTo   int
	// NarrowStep is subtracted for each threshold in [NarrowFrom, NarrowTo]
	// that the column count is >= to.
	NarrowStep int
	NarrowFrom int
	NarrowTo   int
}

// DefaultConfig returns the built-in tuning.
func DefaultConfig() Config {
	return Config{
		DefaultCap: 200,
		Base:       40,
		WideStep:   5,
		WideFrom:   2,
		WideTo:     7,
		NarrowStep: 10,
		NarrowFrom: 6,
		NarrowTo:   14,
	}
}

// Preferences are the caller's requests for one render.
type Preferences struct {
	// DefaultRowCap caps the table at Config.DefaultCap rows.
	DefaultRowCap bool
	// RowCap is an explicit cap; 0 means none. It wins over DefaultRowCap.
	RowCap int
	// FlattenIndent forces the indent to 0.
	FlattenIndent bool
}

// Layout is the derived row cap and indentation for one render.
type Layout struct {
	// RowLimit is the number of rows to show when Capped is true.
	RowLimit int
	Capped   bool
	Indent   int
	// Notices are human-readable diagnostics for the caller to report.
	Notices []string
}

// Compute derives the layout for a table with the given column and row
// counts.
func Compute(columns, rows int, p Preferences, c Config) Layout {
	l := Layout{Indent: Indent(columns, p.FlattenIndent, c)}

	switch {
	case p.RowCap > 0:
		if rows >= p.RowCap {
			l.RowLimit = p.RowCap
			l.Capped = true
		} else {
			l.Notices = append(l.Notices, fmt.Sprintf("only %d rows are available", rows))
		}
	case p.DefaultRowCap:
		if c.DefaultCap > 0 && rows >= c.DefaultCap {
			l.RowLimit = c.DefaultCap
			l.Capped = true
		}
	}
	return l
}

// Indent returns the horizontal indent for a table of the given width in
// columns. Fewer columns indent further; many columns saturate at 0.
func Indent(columns int, flatten bool, c Config) int {
	if flatten {
		return 0
	}
	indent := c.Base
	for t := c.WideFrom; t <= c.WideTo; t++ {
		if columns <= t {
			indent += c.WideStep
		}
	}
	for t := c.NarrowFrom; t <= c.NarrowTo; t++ {
		if columns >= t {
			indent -= c.NarrowStep
		}
	}
	if indent < 0 {
		return 0
	}
	return indent
}
