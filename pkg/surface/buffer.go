package surface

import "fmt"

type mark struct {
	id    MarkID
	start Point
	stop  Point
	opts  MarkOptions
}

// Buffer is the in-memory Surface implementation. It is the reference
// host for tests and backs the terminal adapter. Not safe for
// concurrent use.
type Buffer struct {
	lines []string

	marks    []*mark
	nextMark MarkID

	locked   bool
	draining bool
	deferred []func()

	external []func()

	bindings map[string]KeyFunc // keyed by mode + "\x00" + seq

	cursor Point
}

// NewBuffer creates an empty Buffer containing a single empty line.
func NewBuffer() *Buffer {
	return &Buffer{
		lines:    []string{""},
		bindings: make(map[string]KeyFunc),
	}
}

// Lines returns a copy of the current content.
func (b *Buffer) Lines() []string {
	out := make([]string, len(b.lines))
	copy(out, b.lines)
	return out
}

// LineCount returns the number of lines.
func (b *Buffer) LineCount() int { return len(b.lines) }

// Line returns a single line, or "" if out of range.
func (b *Buffer) Line(i int) string {
	if i < 0 || i >= len(b.lines) {
		return ""
	}
	return b.lines[i]
}

// SetLines replaces the line range [start, end) with repl.
func (b *Buffer) SetLines(start, end int, repl []string) {
	start, end = b.clampLineRange(start, end)
	rs := Point{Line: start}
	re := Point{Line: end}
	newEnd := Point{Line: start + len(repl)}
	b.spliceLines(start, end, repl)
	b.adjustMarks(rs, re, newEnd)
}

// SetText replaces the character region [start, end) with repl lines.
func (b *Buffer) SetText(startLine, startCol, endLine, endCol int, repl []string) {
	rs := b.clampPoint(Point{Line: startLine, Col: startCol})
	re := b.clampPoint(Point{Line: endLine, Col: endCol})
	if re.Before(rs) {
		rs, re = re, rs
	}

	prefix := b.lines[rs.Line][:rs.Col]
	suffix := b.lines[re.Line][re.Col:]

	var newEnd Point
	var newLines []string
	switch len(repl) {
	case 0:
		newEnd = Point{Line: rs.Line, Col: len(prefix)}
		newLines = []string{prefix + suffix}
	case 1:
		newEnd = Point{Line: rs.Line, Col: len(prefix) + len(repl[0])}
		newLines = []string{prefix + repl[0] + suffix}
	default:
		newLines = make([]string, len(repl))
		newLines[0] = prefix + repl[0]
		copy(newLines[1:], repl[1:])
		last := len(newLines) - 1
		newEnd = Point{Line: rs.Line + last, Col: len(newLines[last])}
		newLines[last] += suffix
	}

	b.spliceLines(rs.Line, re.Line+1, newLines)
	b.adjustMarks(rs, re, newEnd)
}

// ExternalSetText applies a text edit as if it came from outside the
// engine (user typing, another plugin) and fires the external-change
// callbacks afterwards.
func (b *Buffer) ExternalSetText(startLine, startCol, endLine, endCol int, repl []string) {
	b.SetText(startLine, startCol, endLine, endCol, repl)
	for _, fn := range b.external {
		fn()
	}
}

// ExternalSetLines applies a line edit from outside the engine and
// fires the external-change callbacks afterwards.
func (b *Buffer) ExternalSetLines(start, end int, repl []string) {
	b.SetLines(start, end, repl)
	for _, fn := range b.external {
		fn()
	}
}

func (b *Buffer) spliceLines(start, end int, repl []string) {
	out := make([]string, 0, len(b.lines)-(end-start)+len(repl))
	out = append(out, b.lines[:start]...)
	out = append(out, repl...)
	out = append(out, b.lines[end:]...)
	if len(out) == 0 {
		out = []string{""}
	}
	b.lines = out
}

func (b *Buffer) clampLineRange(start, end int) (int, int) {
	if start < 0 {
		start = 0
	}
	if start > len(b.lines) {
		start = len(b.lines)
	}
	if end < start {
		end = start
	}
	if end > len(b.lines) {
		end = len(b.lines)
	}
	return start, end
}

func (b *Buffer) clampPoint(p Point) Point {
	if p.Line < 0 {
		return Point{}
	}
	if p.Line >= len(b.lines) {
		last := len(b.lines) - 1
		return Point{Line: last, Col: len(b.lines[last])}
	}
	if p.Col < 0 {
		p.Col = 0
	}
	if p.Col > len(b.lines[p.Line]) {
		p.Col = len(b.lines[p.Line])
	}
	return p
}

// End returns the last valid position in the buffer.
func (b *Buffer) End() Point {
	last := len(b.lines) - 1
	return Point{Line: last, Col: len(b.lines[last])}
}

// CreateMark places a tracking mark over [start, stop).
func (b *Buffer) CreateMark(start, stop Point, opts MarkOptions) MarkID {
	b.nextMark++
	m := &mark{
		id:    b.nextMark,
		start: b.clampPoint(start),
		stop:  b.clampPoint(stop),
		opts:  opts,
	}
	b.marks = append(b.marks, m)
	return m.id
}

// MarkSpan returns a mark's current raw span.
func (b *Buffer) MarkSpan(id MarkID) (Span, bool) {
	for _, m := range b.marks {
		if m.id == id {
			return Span{Start: m.start, Stop: m.stop}, true
		}
	}
	return Span{}, false
}

// DeleteMark removes a single mark.
func (b *Buffer) DeleteMark(id MarkID) {
	for i, m := range b.marks {
		if m.id == id {
			b.marks = append(b.marks[:i], b.marks[i+1:]...)
			return
		}
	}
}

// ClearMarks removes every mark.
func (b *Buffer) ClearMarks() {
	b.marks = nil
}

// MarksOverlapping returns marks overlapping region, in creation order.
func (b *Buffer) MarksOverlapping(region Span) []MarkID {
	var out []MarkID
	for _, m := range b.marks {
		if (Span{Start: m.start, Stop: m.stop}).Overlaps(region) {
			out = append(out, m.id)
		}
	}
	return out
}

// adjustMarks repositions every mark anchor after the region [rs, re)
// was replaced by text ending at newEnd.
func (b *Buffer) adjustMarks(rs, re, newEnd Point) {
	for _, m := range b.marks {
		m.start = adjustAnchor(m.start, rs, re, newEnd, m.opts.RightGravity)
		m.stop = adjustAnchor(m.stop, rs, re, newEnd, m.opts.EndRightGravity)
	}
	b.cursor = b.clampPoint(adjustAnchor(b.cursor, rs, re, newEnd, false))
}

// adjustAnchor computes an anchor's new position after the edit
// replacing [rs, re) with text ending at newEnd. gravity selects the
// behavior for an insertion landing exactly on the anchor: with right
// gravity the anchor moves past the inserted text, without it the
// anchor stays at its old position (the inserted text lands after it).
func adjustAnchor(p, rs, re, newEnd Point, gravity bool) Point {
	switch {
	case p.Before(rs):
		return p
	case p.Equal(rs) && rs.Equal(re):
		// Pure insertion exactly at the anchor.
		if gravity {
			return newEnd
		}
		return p
	case p.Equal(rs):
		// At the start of a replaced region: the anchor stays put.
		return p
	case p.After(re):
		return translate(p, re, newEnd)
	case p.Equal(re):
		return newEnd
	default:
		// Strictly inside the replaced region.
		if gravity {
			return newEnd
		}
		return rs
	}
}

// translate shifts a position that trailed the replaced region so it
// keeps its offset relative to the new end of the edit.
func translate(p, re, newEnd Point) Point {
	if p.Line == re.Line {
		return Point{Line: newEnd.Line, Col: newEnd.Col + (p.Col - re.Col)}
	}
	return Point{Line: p.Line + newEnd.Line - re.Line, Col: p.Col}
}

// Locked reports whether mutation is currently forbidden.
func (b *Buffer) Locked() bool { return b.locked }

// SetLocked toggles the mutation lock. Unlocking drains the deferred
// queue in registration order; callbacks queued while draining join the
// back of the same drain, after the callback that queued them returns.
func (b *Buffer) SetLocked(locked bool) {
	b.locked = locked
	if locked || b.draining {
		return
	}
	b.draining = true
	defer func() { b.draining = false }()
	for !b.locked && len(b.deferred) > 0 {
		fn := b.deferred[0]
		b.deferred = b.deferred[1:]
		fn()
	}
}

// WhenUnlocked runs fn now, or queues it until the lock clears. While a
// drain is in progress fn queues too, so it never interleaves with a
// still-running deferred callback.
func (b *Buffer) WhenUnlocked(fn func()) {
	if !b.locked && !b.draining {
		fn()
		return
	}
	b.deferred = append(b.deferred, fn)
}

// OnExternalChange registers an external-change callback.
func (b *Buffer) OnExternalChange(fn func()) {
	b.external = append(b.external, fn)
}

func bindingKey(mode, seq string) string { return mode + "\x00" + seq }

// Bind registers a key binding.
func (b *Buffer) Bind(mode, seq string, fn KeyFunc) {
	b.bindings[bindingKey(mode, seq)] = fn
}

// Unbind removes a key binding.
func (b *Buffer) Unbind(mode, seq string) {
	delete(b.bindings, bindingKey(mode, seq))
}

// Press simulates the host delivering a key sequence in a mode. The
// bound callback runs with the surface locked, matching hosts that
// forbid mutation inside synchronous input handlers. Returns the
// callback's KeyResult and whether a binding existed.
func (b *Buffer) Press(mode, seq string) (KeyResult, bool) {
	fn, ok := b.bindings[bindingKey(mode, seq)]
	if !ok {
		return KeyResult{}, false
	}
	b.locked = true
	res := fn()
	b.SetLocked(false)
	return res, true
}

// Cursor returns the current cursor position.
func (b *Buffer) Cursor() Point { return b.cursor }

// SetCursor moves the cursor, clamping to valid positions.
func (b *Buffer) SetCursor(p Point) {
	b.cursor = b.clampPoint(p)
}

// String renders the buffer content for debugging.
func (b *Buffer) String() string {
	return fmt.Sprintf("Buffer(%d lines, %d marks)", len(b.lines), len(b.marks))
}
