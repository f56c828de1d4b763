package surface

import "testing"

func TestPointCompare(t *testing.T) {
	cases := []struct {
		a, b Point
		want int
	}{
		{Point{0, 0}, Point{0, 0}, 0},
		{Point{0, 1}, Point{0, 2}, -1},
		{Point{1, 0}, Point{0, 9}, 1},
		{Point{2, 3}, Point{2, 3}, 0},
	}
	for _, c := range cases {
		if got := c.a.Compare(c.b); got != c.want {
			t.Errorf("%+v.Compare(%+v) = %d, want %d", c.a, c.b, got, c.want)
		}
	}
}

func TestSpanIsEmpty(t *testing.T) {
	if !(Span{Start: Point{1, 2}, Stop: Point{1, 2}}).IsEmpty() {
		t.Error("zero-width span should be empty")
	}
	if (Span{Start: Point{1, 0}, Stop: Point{1, 5}}).IsEmpty() {
		t.Error("non-empty span reported empty")
	}
	// Inverted spans read as empty rather than erroring.
	if !(Span{Start: Point{2, 0}, Stop: Point{1, 0}}).IsEmpty() {
		t.Error("inverted span should read as empty")
	}
}

func TestSpanContains(t *testing.T) {
	s := Span{Start: Point{1, 2}, Stop: Point{1, 6}}

	if !s.Contains(Point{1, 2}, false) {
		t.Error("start position should be inside")
	}
	if !s.Contains(Point{1, 4}, false) {
		t.Error("interior position should be inside")
	}
	if s.Contains(Point{1, 6}, false) {
		t.Error("stop edge should be outside with exclusive semantics")
	}
	if !s.Contains(Point{1, 6}, true) {
		t.Error("stop edge should be inside with inclusive semantics")
	}
	if s.Contains(Point{1, 7}, true) {
		t.Error("position past stop should be outside either way")
	}
	if s.Contains(Point{0, 4}, false) {
		t.Error("position on earlier line should be outside")
	}
}

func TestSpanOverlaps(t *testing.T) {
	a := Span{Start: Point{0, 0}, Stop: Point{0, 5}}
	b := Span{Start: Point{0, 3}, Stop: Point{0, 8}}
	c := Span{Start: Point{0, 5}, Stop: Point{0, 9}}

	if !a.Overlaps(b) || !b.Overlaps(a) {
		t.Error("overlapping spans reported disjoint")
	}
	// Boundaries are inclusive so zero-width spans stay discoverable.
	if !a.Overlaps(c) {
		t.Error("touching spans should overlap")
	}
	empty := Span{Start: Point{0, 3}, Stop: Point{0, 3}}
	if !empty.Overlaps(a) {
		t.Error("empty span inside a region should overlap it")
	}
	inverted := Span{Start: Point{0, 4}, Stop: Point{0, 1}}
	if inverted.Overlaps(a) {
		t.Error("inverted span should overlap nothing")
	}
}
