package limiter

import (
	"fmt"

	"github.com/oakwood-commons/tabler/internal/layout"
	"github.com/oakwood-commons/tabler/pkg/tabular"
)

// Config holds the row window parameters.
type Config struct {
	Limit  int // Show only this many rows (0 = unlimited)
	Offset int // Skip the first N rows (0 = no skip)
	Tail   int // Show only the last N rows (0 = disabled); mutually exclusive with Limit
}

// Validate checks for conflicting flag combinations and returns an error if invalid.
// Rules:
// - Limit and Tail are mutually exclusive
// - If Tail is set, Offset is ignored
// - All numeric values must be non-negative
func (c Config) Validate() error {
	if c.Limit < 0 {
		return fmt.Errorf("--rows must be non-negative, got %d", c.Limit)
	}
	if c.Offset < 0 {
		return fmt.Errorf("--offset must be non-negative, got %d", c.Offset)
	}
	if c.Tail < 0 {
		return fmt.Errorf("--tail must be non-negative, got %d", c.Tail)
	}
	if c.Limit > 0 && c.Tail > 0 {
		return fmt.Errorf("row caps and --tail are mutually exclusive")
	}
	return nil
}

// IsActive returns true if any windowing is configured.
func (c Config) IsActive() bool {
	return c.Limit > 0 || c.Offset > 0 || c.Tail > 0
}

// Available returns how many of length items remain once the offset is
// skipped. Row caps are applied to this count.
func (c Config) Available(length int) int {
	if c.Tail > 0 {
		return length
	}
	return length - min(max(c.Offset, 0), length)
}

// WithLayout returns c with Limit taken from the layout's row cap, if any.
func (c Config) WithLayout(l layout.Layout) Config {
	if l.Capped {
		c.Limit = l.RowLimit
	}
	return c
}

// Apply returns the window of rows selected by c. The result shares the
// backing array of rows.
func (c Config) Apply(rows []tabular.Row) []tabular.Row {
	return Slice(c, rows)
}

// Slice applies c to any slice.
func Slice[T any](c Config, items []T) []T {
	if !c.IsActive() {
		return items
	}
	start, end := c.bounds(len(items))
	return items[start:end]
}

func (c Config) bounds(length int) (int, int) {
	// --tail wins over --offset
	if c.Tail > 0 {
		return max(length-c.Tail, 0), length
	}

	start := min(c.Offset, length)
	end := length
	if c.Limit > 0 {
		end = min(start+c.Limit, length)
	}
	return start, end
}
