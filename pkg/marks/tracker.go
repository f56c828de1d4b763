// Package marks correlates rendered tags with their live location in
// the surface text. It wraps the host's mark primitive and normalizes
// whatever the host reports: positions past the end of the text are
// clamped, inverted spans read as empty. Tracked ranges are rebuilt
// wholesale on every render pass rather than patched incrementally, so
// they can never drift.
package marks

import (
	"github.com/weft-ui/weft/pkg/surface"
	"github.com/weft-ui/weft/pkg/tree"
)

// Tracked ties a rendered tag to a host mark.
type Tracked struct {
	ID  surface.MarkID
	Tag *tree.Node

	// ExternalID is the tag's stable "id" attribute, "" if none.
	ExternalID string

	seq int
}

// Tracker owns the tracked ranges for one surface.
type Tracker struct {
	surf    surface.Surface
	tracked []*Tracked
	byMark  map[surface.MarkID]*Tracked
	nextSeq int
}

// NewTracker creates a Tracker over a surface.
func NewTracker(s surface.Surface) *Tracker {
	return &Tracker{
		surf:   s,
		byMark: make(map[surface.MarkID]*Tracked),
	}
}

// Track creates a tracked range for a tag over span. Both anchors take
// right gravity: a sibling inserted just before the range is not
// absorbed into it, and content appended at the stop stays inside it.
func (t *Tracker) Track(span surface.Span, tag *tree.Node) *Tracked {
	id := t.surf.CreateMark(span.Start, span.Stop, surface.MarkOptions{
		RightGravity:    true,
		EndRightGravity: true,
	})
	t.nextSeq++
	tr := &Tracked{
		ID:         id,
		Tag:        tag,
		ExternalID: tag.ID(),
		seq:        t.nextSeq,
	}
	t.tracked = append(t.tracked, tr)
	t.byMark[id] = tr
	return tr
}

// Span returns a tracked range's current, normalized span. A span whose
// anchors drifted past the end of the text is clamped to the last valid
// position; an inverted span collapses to an empty one at its start.
// These are expected outcomes of concurrent host edits, not errors.
func (t *Tracker) Span(tr *Tracked) (surface.Span, bool) {
	raw, ok := t.surf.MarkSpan(tr.ID)
	if !ok {
		return surface.Span{}, false
	}
	return t.normalize(raw), true
}

func (t *Tracker) normalize(s surface.Span) surface.Span {
	end := t.textEnd()
	if s.Start.After(end) {
		s.Start = end
	}
	if s.Stop.After(end) {
		s.Stop = end
	}
	if s.Start.After(s.Stop) {
		s.Stop = s.Start
	}
	return s
}

func (t *Tracker) textEnd() surface.Point {
	lines := t.surf.Lines()
	last := len(lines) - 1
	if last < 0 {
		return surface.Point{}
	}
	return surface.Point{Line: last, Col: len(lines[last])}
}

// Text returns the live text currently covered by a tracked range,
// empty when the range is empty or gone.
func (t *Tracker) Text(tr *Tracked) string {
	span, ok := t.Span(tr)
	if !ok || span.IsEmpty() {
		return ""
	}
	lines := t.surf.Lines()
	if span.Start.Line == span.Stop.Line {
		line := lines[span.Start.Line]
		return line[span.Start.Col:span.Stop.Col]
	}
	out := lines[span.Start.Line][span.Start.Col:]
	for i := span.Start.Line + 1; i < span.Stop.Line; i++ {
		out += "\n" + lines[i]
	}
	return out + "\n" + lines[span.Stop.Line][:span.Stop.Col]
}

// All returns every tracked range in creation order.
func (t *Tracker) All() []*Tracked {
	out := make([]*Tracked, len(t.tracked))
	copy(out, t.tracked)
	return out
}

// Overlapping returns tracked ranges overlapping region, creation order.
func (t *Tracker) Overlapping(region surface.Span) []*Tracked {
	var out []*Tracked
	for _, id := range t.surf.MarksOverlapping(region) {
		if tr, ok := t.byMark[id]; ok {
			out = append(out, tr)
		}
	}
	return out
}

// ByID looks a tracked range up by its stable external id.
func (t *Tracker) ByID(externalID string) (*Tracked, bool) {
	if externalID == "" {
		return nil, false
	}
	for _, tr := range t.tracked {
		if tr.ExternalID == externalID {
			return tr, true
		}
	}
	return nil, false
}

// Seq returns the tracked range's creation order, lower is earlier.
func (tr *Tracked) Seq() int { return tr.seq }

// Clear drops every tracked range, host marks included.
func (t *Tracker) Clear() {
	t.surf.ClearMarks()
	t.tracked = nil
	t.byMark = make(map[surface.MarkID]*Tracked)
	t.nextSeq = 0
}
