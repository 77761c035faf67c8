// Package cellfmt splits long cell text into fixed-width lines so a table
// cell never grows wider than a few dozen terminal columns.
package cellfmt

import "strings"

const (
	// SegmentWidth is the number of characters per wrapped line.
	SegmentWidth = 20
	// ThreeWayThreshold is the length from which text splits into three lines.
	ThreeWayThreshold = 35
	// ContinuationMarker ends every wrapped line that has a successor.
	ContinuationMarker = "-"
)

// Segments trims s and cuts it into at most three character segments:
// 20/20/rest when it has 35 or more characters, 20/rest from 20, and a
// single segment below that. Lengths count runes, not bytes. Between 35 and
// 40 characters the second segment is short and the third is empty.
func Segments(s string) []string {
	s = strings.TrimSpace(s)
	runes := []rune(s)
	n := len(runes)

	switch {
	case n >= ThreeWayThreshold:
		mid := min(2*SegmentWidth, n)
		return []string{
			string(runes[:SegmentWidth]),
			string(runes[SegmentWidth:mid]),
			string(runes[mid:]),
		}
	case n >= SegmentWidth:
		return []string{
			string(runes[:SegmentWidth]),
			string(runes[SegmentWidth:]),
		}
	default:
		return []string{s}
	}
}

// Wrap returns s ready for a fixed-width table cell: every segment except
// the last carries ContinuationMarker and segments are joined by newlines.
// Text shorter than SegmentWidth is returned trimmed.
func Wrap(s string) string {
	segs := Segments(s)
	if len(segs) == 1 {
		return segs[0]
	}
	var b strings.Builder
	for i, seg := range segs {
		b.WriteString(seg)
		if i < len(segs)-1 {
			b.WriteString(ContinuationMarker)
			b.WriteByte('\n')
		}
	}
	return b.String()
}
