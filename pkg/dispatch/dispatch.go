// Package dispatch routes host key events into component handlers via
// tracked ranges. Lookup is innermost-to-outermost over the ranges
// containing the cursor; handlers decide whether an event bubbles,
// stops, or is rewritten into a different action.
package dispatch

import (
	"sort"

	"github.com/weft-ui/weft/pkg/marks"
	"github.com/weft-ui/weft/pkg/surface"
)

// CursorMode selects boundary-inclusion semantics for range lookup.
type CursorMode uint8

const (
	// CursorBlock is a block cursor: a position exactly at a range's
	// stop edge is outside the range.
	CursorBlock CursorMode = iota
	// CursorInsert is a thin insertion-point cursor: a position exactly
	// at a range's stop edge is inside the range.
	CursorInsert
)

// Result is a handler's verdict on an event.
type Result uint8

const (
	// Bubble continues dispatch to the next (outer) candidate.
	Bubble Result = iota
	// Consume stops dispatch and suppresses the host's default action.
	Consume
	// Replace stops dispatch and substitutes a different action.
	Replace
)

// Outcome is what a key handler returns.
type Outcome struct {
	Result Result
	// Action is the replacement key sequence for Replace.
	Action string
}

// Event describes the key event being dispatched.
type Event struct {
	Mode  string
	Seq   string
	Range *marks.Tracked
}

// KeyHandler is the handler type stored in a tag's keymap attributes.
type KeyHandler func(Event) Outcome

// ModeCursorFunc maps an input mode name to its cursor shape.
type ModeCursorFunc func(mode string) CursorMode

// DefaultModeCursor treats insert-style modes as thin cursors and
// everything else as block cursors.
func DefaultModeCursor(mode string) CursorMode {
	switch mode {
	case "i", "insert":
		return CursorInsert
	default:
		return CursorBlock
	}
}

// Dispatcher owns the host key bindings for one surface.
type Dispatcher struct {
	surf       surface.Surface
	tracker    *marks.Tracker
	modeCursor ModeCursorFunc

	bound map[[2]string]bool // {mode, seq} pairs currently bound on the host
}

// New creates a Dispatcher over a surface and its range tracker.
func New(s surface.Surface, t *marks.Tracker, modeCursor ModeCursorFunc) *Dispatcher {
	if modeCursor == nil {
		modeCursor = DefaultModeCursor
	}
	return &Dispatcher{
		surf:       s,
		tracker:    t,
		modeCursor: modeCursor,
		bound:      make(map[[2]string]bool),
	}
}

// RangesAt returns the tracked ranges containing pos, innermost first.
// Smaller extents win; equal extents order by creation, later (deeper)
// ranges first.
func (d *Dispatcher) RangesAt(pos surface.Point, mode CursorMode) []*marks.Tracked {
	inclusive := mode == CursorInsert
	var out []*marks.Tracked
	spans := make(map[*marks.Tracked]surface.Span)
	for _, tr := range d.tracker.All() {
		span, ok := d.tracker.Span(tr)
		if !ok {
			continue
		}
		if span.Contains(pos, inclusive) {
			out = append(out, tr)
			spans[tr] = span
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		li, ci := spans[out[i]].Extent()
		lj, cj := spans[out[j]].Extent()
		if li != lj {
			return li < lj
		}
		if ci != cj {
			return ci < cj
		}
		return out[i].Seq() > out[j].Seq()
	})
	return out
}

// Sync reconciles host key bindings with the keymaps present on the
// given tracked ranges. Called after every render pass; stale bindings
// are removed so unmounted handlers can never fire.
func (d *Dispatcher) Sync(tracked []*marks.Tracked) {
	want := make(map[[2]string]bool)
	for _, tr := range tracked {
		if tr.Tag == nil || tr.Tag.Attrs == nil {
			continue
		}
		for _, mode := range tr.Tag.Attrs.Modes() {
			for seq := range tr.Tag.Attrs.Keymap(mode) {
				want[[2]string{mode, seq}] = true
			}
		}
	}

	for key := range d.bound {
		if !want[key] {
			d.surf.Unbind(key[0], key[1])
			delete(d.bound, key)
		}
	}
	for key := range want {
		if d.bound[key] {
			continue
		}
		mode, seq := key[0], key[1]
		d.surf.Bind(mode, seq, func() surface.KeyResult {
			return d.Dispatch(mode, seq)
		})
		d.bound[key] = true
	}
}

// Dispatch walks the ranges under the cursor, innermost first, invoking
// the first handler registered for (mode, seq) on each candidate until
// one stops the walk. An event nobody consumes passes through to the
// host's default action.
func (d *Dispatcher) Dispatch(mode, seq string) surface.KeyResult {
	pos := d.surf.Cursor()
	for _, tr := range d.RangesAt(pos, d.modeCursor(mode)) {
		keymap := tr.Tag.Attrs.Keymap(mode)
		if keymap == nil {
			continue
		}
		raw, ok := keymap[seq]
		if !ok {
			continue
		}
		handler, ok := raw.(KeyHandler)
		if !ok {
			if fn, plain := raw.(func(Event) Outcome); plain {
				handler = fn
			} else {
				continue
			}
		}
		outcome := handler(Event{Mode: mode, Seq: seq, Range: tr})
		switch outcome.Result {
		case Bubble:
			continue
		case Consume:
			return surface.KeyResult{Suppress: true}
		case Replace:
			return surface.KeyResult{Suppress: true, Replace: outcome.Action}
		}
	}
	return surface.KeyResult{}
}

// Clear unbinds everything this dispatcher registered on the host.
func (d *Dispatcher) Clear() {
	for key := range d.bound {
		d.surf.Unbind(key[0], key[1])
	}
	d.bound = make(map[[2]string]bool)
}
