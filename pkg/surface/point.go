package surface

import "fmt"

// Point is a position in the surface text. Line and Col are 0-indexed;
// Col is a byte offset within the line.
type Point struct {
	Line int
	Col  int
}

// String returns a human-readable representation of the point.
func (p Point) String() string {
	return fmt.Sprintf("(%d:%d)", p.Line, p.Col)
}

// Compare returns -1 if p < other, 0 if equal, 1 if p > other.
func (p Point) Compare(other Point) int {
	if p.Line != other.Line {
		if p.Line < other.Line {
			return -1
		}
		return 1
	}
	if p.Col != other.Col {
		if p.Col < other.Col {
			return -1
		}
		return 1
	}
	return 0
}

// Before returns true if p comes before other.
func (p Point) Before(other Point) bool { return p.Compare(other) < 0 }

// After returns true if p comes after other.
func (p Point) After(other Point) bool { return p.Compare(other) > 0 }

// Equal returns true if the points coincide.
func (p Point) Equal(other Point) bool { return p == other }

// Span is a text region. Start is inclusive, Stop exclusive.
type Span struct {
	Start Point
	Stop  Point
}

// String returns a human-readable representation of the span.
func (s Span) String() string {
	return fmt.Sprintf("[%s:%s)", s.Start, s.Stop)
}

// IsEmpty returns true if the span covers no text. Inverted spans
// (Start after Stop) count as empty: they can occur transiently after
// concurrent edits and must behave like "no text", never error.
func (s Span) IsEmpty() bool {
	return s.Start.Compare(s.Stop) >= 0
}

// Contains reports whether p lies inside the span. When inclusiveStop
// is true a point exactly at Stop counts as inside (thin-cursor
// semantics); otherwise it does not (block-cursor semantics).
func (s Span) Contains(p Point, inclusiveStop bool) bool {
	if s.Start.After(s.Stop) {
		return false
	}
	if p.Before(s.Start) {
		return false
	}
	if inclusiveStop {
		return p.Compare(s.Stop) <= 0
	}
	return p.Before(s.Stop)
}

// Overlaps reports whether two spans share any region. Empty spans
// overlap a region that contains their position.
func (s Span) Overlaps(other Span) bool {
	if s.Start.After(s.Stop) || other.Start.After(other.Stop) {
		return false
	}
	return s.Start.Compare(other.Stop) <= 0 && other.Start.Compare(s.Stop) <= 0
}

// Extent returns a comparable measure of the span's size, lines first.
// Used to order overlapping spans innermost-first.
func (s Span) Extent() (lines, cols int) {
	lines = s.Stop.Line - s.Start.Line
	if lines == 0 {
		cols = s.Stop.Col - s.Start.Col
	} else {
		cols = s.Stop.Col
	}
	if lines < 0 {
		return 0, 0
	}
	return lines, cols
}
