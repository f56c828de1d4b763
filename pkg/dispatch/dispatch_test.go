package dispatch

import (
	"testing"

	"github.com/weft-ui/weft/pkg/marks"
	"github.com/weft-ui/weft/pkg/surface"
	"github.com/weft-ui/weft/pkg/tree"
)

func span(sl, sc, el, ec int) surface.Span {
	return surface.Span{
		Start: surface.Point{Line: sl, Col: sc},
		Stop:  surface.Point{Line: el, Col: ec},
	}
}

func keymapTag(mode string, handlers map[string]any) *tree.Node {
	return tree.Span(tree.Attrs{tree.AttrKeymapPrefix + mode: handlers})
}

func TestRangesAtInnermostFirst(t *testing.T) {
	b := surface.NewBuffer()
	b.SetLines(0, 1, []string{"0123456789"})
	tr := marks.NewTracker(b)
	d := New(b, tr, nil)

	outer := tr.Track(span(0, 0, 0, 10), tree.Span(nil))
	inner := tr.Track(span(0, 2, 0, 6), tree.Span(nil))

	got := d.RangesAt(surface.Point{Line: 0, Col: 3}, CursorBlock)
	if len(got) != 2 || got[0] != inner || got[1] != outer {
		t.Errorf("RangesAt = %v, want [inner outer]", got)
	}
}

func TestRangesAtEqualExtentLaterFirst(t *testing.T) {
	b := surface.NewBuffer()
	b.SetLines(0, 1, []string{"0123456789"})
	tr := marks.NewTracker(b)
	d := New(b, tr, nil)

	first := tr.Track(span(0, 0, 0, 5), tree.Span(nil))
	second := tr.Track(span(0, 0, 0, 5), tree.Span(nil))

	got := d.RangesAt(surface.Point{Line: 0, Col: 1}, CursorBlock)
	if len(got) != 2 || got[0] != second || got[1] != first {
		t.Errorf("RangesAt = %v, want later-created range first", got)
	}
}

func TestRangesAtStopBoundary(t *testing.T) {
	b := surface.NewBuffer()
	b.SetLines(0, 1, []string{"abcde"})
	tr := marks.NewTracker(b)
	d := New(b, tr, nil)

	tr.Track(span(0, 0, 0, 3), tree.Span(nil))
	edge := surface.Point{Line: 0, Col: 3}

	if got := d.RangesAt(edge, CursorBlock); len(got) != 0 {
		t.Errorf("block cursor at stop edge: RangesAt = %v, want none", got)
	}
	if got := d.RangesAt(edge, CursorInsert); len(got) != 1 {
		t.Errorf("insert cursor at stop edge: RangesAt = %v, want one", got)
	}
}

func TestDispatchConsume(t *testing.T) {
	b := surface.NewBuffer()
	b.SetLines(0, 1, []string{"abcde"})
	tr := marks.NewTracker(b)
	d := New(b, tr, nil)

	fired := 0
	tag := keymapTag("n", map[string]any{
		"x": KeyHandler(func(ev Event) Outcome {
			fired++
			if ev.Mode != "n" || ev.Seq != "x" {
				t.Errorf("Event = %+v, want mode n seq x", ev)
			}
			return Outcome{Result: Consume}
		}),
	})
	tr.Track(span(0, 0, 0, 5), tag)
	d.Sync(tr.All())

	b.SetCursor(surface.Point{Line: 0, Col: 2})
	res, ok := b.Press("n", "x")
	if !ok {
		t.Fatal("binding not registered on the host")
	}
	if !res.Suppress {
		t.Error("Consume should suppress the host default")
	}
	if fired != 1 {
		t.Errorf("handler fired %d times, want 1", fired)
	}
}

func TestDispatchBubbles(t *testing.T) {
	b := surface.NewBuffer()
	b.SetLines(0, 1, []string{"0123456789"})
	tr := marks.NewTracker(b)
	d := New(b, tr, nil)

	var order []string
	handler := func(name string, result Result) KeyHandler {
		return func(Event) Outcome {
			order = append(order, name)
			return Outcome{Result: result}
		}
	}

	outer := keymapTag("n", map[string]any{"x": handler("outer", Consume)})
	inner := keymapTag("n", map[string]any{"x": handler("inner", Bubble)})
	tr.Track(span(0, 0, 0, 10), outer)
	tr.Track(span(0, 2, 0, 6), inner)
	d.Sync(tr.All())

	b.SetCursor(surface.Point{Line: 0, Col: 3})
	res, _ := b.Press("n", "x")
	if len(order) != 2 || order[0] != "inner" || order[1] != "outer" {
		t.Errorf("dispatch order = %v, want [inner outer]", order)
	}
	if !res.Suppress {
		t.Error("outer Consume should suppress")
	}
}

func TestDispatchUnconsumedPassesThrough(t *testing.T) {
	b := surface.NewBuffer()
	b.SetLines(0, 1, []string{"abcde"})
	tr := marks.NewTracker(b)
	d := New(b, tr, nil)

	tag := keymapTag("n", map[string]any{
		"x": KeyHandler(func(Event) Outcome { return Outcome{Result: Bubble} }),
	})
	tr.Track(span(0, 0, 0, 5), tag)
	d.Sync(tr.All())

	b.SetCursor(surface.Point{Line: 0, Col: 1})
	res, _ := b.Press("n", "x")
	if res.Suppress {
		t.Error("event nobody consumed must pass through to the host")
	}
}

func TestDispatchReplace(t *testing.T) {
	b := surface.NewBuffer()
	b.SetLines(0, 1, []string{"abcde"})
	tr := marks.NewTracker(b)
	d := New(b, tr, nil)

	tag := keymapTag("n", map[string]any{
		"x": KeyHandler(func(Event) Outcome { return Outcome{Result: Replace, Action: "dd"} }),
	})
	tr.Track(span(0, 0, 0, 5), tag)
	d.Sync(tr.All())

	b.SetCursor(surface.Point{})
	res, _ := b.Press("n", "x")
	if !res.Suppress || res.Replace != "dd" {
		t.Errorf("KeyResult = %+v, want suppressed with replacement dd", res)
	}
}

func TestDispatchPlainFuncHandler(t *testing.T) {
	b := surface.NewBuffer()
	b.SetLines(0, 1, []string{"abcde"})
	tr := marks.NewTracker(b)
	d := New(b, tr, nil)

	fired := false
	tag := keymapTag("n", map[string]any{
		"x": func(Event) Outcome { fired = true; return Outcome{Result: Consume} },
	})
	tr.Track(span(0, 0, 0, 5), tag)
	d.Sync(tr.All())

	b.SetCursor(surface.Point{})
	b.Press("n", "x")
	if !fired {
		t.Error("untyped func(Event) Outcome handler did not fire")
	}
}

func TestDispatchOutsideRange(t *testing.T) {
	b := surface.NewBuffer()
	b.SetLines(0, 1, []string{"0123456789"})
	tr := marks.NewTracker(b)
	d := New(b, tr, nil)

	fired := false
	tag := keymapTag("n", map[string]any{
		"x": KeyHandler(func(Event) Outcome { fired = true; return Outcome{Result: Consume} }),
	})
	tr.Track(span(0, 0, 0, 3), tag)
	d.Sync(tr.All())

	b.SetCursor(surface.Point{Line: 0, Col: 8})
	res, ok := b.Press("n", "x")
	if !ok {
		t.Fatal("binding should exist host-wide even when cursor is elsewhere")
	}
	if fired {
		t.Error("handler fired with the cursor outside its range")
	}
	if res.Suppress {
		t.Error("event outside every range must pass through")
	}
}

func TestSyncRemovesStaleBindings(t *testing.T) {
	b := surface.NewBuffer()
	b.SetLines(0, 1, []string{"abcde"})
	tr := marks.NewTracker(b)
	d := New(b, tr, nil)

	tag := keymapTag("n", map[string]any{
		"x": KeyHandler(func(Event) Outcome { return Outcome{Result: Consume} }),
	})
	tr.Track(span(0, 0, 0, 5), tag)
	d.Sync(tr.All())

	// Next pass renders no keymaps at all.
	tr.Clear()
	d.Sync(tr.All())

	if _, ok := b.Press("n", "x"); ok {
		t.Error("stale binding survived Sync")
	}
}

func TestSyncLeavesForeignBindingsAlone(t *testing.T) {
	b := surface.NewBuffer()
	tr := marks.NewTracker(b)
	d := New(b, tr, nil)

	b.Bind("n", "q", func() surface.KeyResult { return surface.KeyResult{Suppress: true} })
	d.Sync(nil)
	d.Clear()

	if _, ok := b.Press("n", "q"); !ok {
		t.Error("binding registered outside the dispatcher was removed")
	}
}

func TestDefaultModeCursor(t *testing.T) {
	if DefaultModeCursor("i") != CursorInsert || DefaultModeCursor("insert") != CursorInsert {
		t.Error("insert modes should map to the thin cursor")
	}
	if DefaultModeCursor("n") != CursorBlock {
		t.Error("normal mode should map to the block cursor")
	}
}
