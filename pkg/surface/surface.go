// Package surface defines the host text-surface contract the engine
// renders into, plus an in-memory implementation. A Surface is a mutable
// sequence of lines with range-based replacement, position-tracking
// marks, key bindings, and a mutation lock the engine must respect.
package surface

// MarkID identifies a position-tracking mark on a Surface.
type MarkID int64

// NoMark is the zero MarkID, never returned by CreateMark.
const NoMark MarkID = 0

// MarkOptions controls how a mark's anchors react to text inserted
// exactly at them.
type MarkOptions struct {
	// RightGravity moves the start anchor past text inserted exactly at
	// it, so a sibling inserted just before the range is not absorbed.
	RightGravity bool
	// EndRightGravity moves the stop anchor past text inserted exactly
	// at it, so content appended to the range stays inside it. Without
	// it the stop anchor stays put and the appended text falls outside.
	EndRightGravity bool
}

// KeyResult tells the host what to do after a bound key fired.
type KeyResult struct {
	// Suppress stops the host's default action for the key.
	Suppress bool
	// Replace, when non-empty, is a key sequence the host should feed
	// in place of the original input. Implies Suppress.
	Replace string
}

// KeyFunc is a host key binding callback.
type KeyFunc func() KeyResult

// Surface is the host text surface. Implementations are not safe for
// concurrent use: the engine is single-threaded and re-entrant by
// design, all calls happen on the host's event loop.
type Surface interface {
	// Lines returns the current content. A surface always has at least
	// one (possibly empty) line.
	Lines() []string

	// LineCount returns the number of lines.
	LineCount() int

	// SetLines replaces the line range [start, end) with repl.
	SetLines(start, end int, repl []string)

	// SetText replaces the character region from (startLine, startCol)
	// up to but excluding (endLine, endCol) with repl, given as lines.
	SetText(startLine, startCol, endLine, endCol int, repl []string)

	// CreateMark places a tracking mark over [start, stop).
	CreateMark(start, stop Point, opts MarkOptions) MarkID

	// MarkSpan returns a mark's current span. The raw anchors are
	// reported as stored; callers normalize (see the marks package).
	MarkSpan(id MarkID) (Span, bool)

	// DeleteMark removes a single mark.
	DeleteMark(id MarkID)

	// ClearMarks removes every mark.
	ClearMarks()

	// MarksOverlapping returns marks whose span overlaps region, in
	// creation order.
	MarksOverlapping(region Span) []MarkID

	// Locked reports whether surface mutation is currently forbidden
	// (for example inside a synchronous input callback).
	Locked() bool

	// WhenUnlocked runs fn at the next point mutation is safe. If the
	// surface is not locked, fn runs immediately.
	WhenUnlocked(fn func())

	// OnExternalChange registers a callback fired when the text changes
	// through some path other than SetLines/SetText above.
	OnExternalChange(fn func())

	// Bind registers a key binding for an input mode. The callback's
	// KeyResult distinguishes consume-silently from pass-through.
	Bind(mode, seq string, fn KeyFunc)

	// Unbind removes a key binding.
	Unbind(mode, seq string)

	// Cursor returns the current cursor position.
	Cursor() Point
}
