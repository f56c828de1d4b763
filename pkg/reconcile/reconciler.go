// Package reconcile correlates a declarative tree against its previous
// rendering, drives component lifecycle, and patches the host surface
// with minimal edits. One Reconciler owns one surface.
package reconcile

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/weft-ui/weft/pkg/dispatch"
	"github.com/weft-ui/weft/pkg/marks"
	"github.com/weft-ui/weft/pkg/seqdiff"
	"github.com/weft-ui/weft/pkg/surface"
	"github.com/weft-ui/weft/pkg/textpatch"
	"github.com/weft-ui/weft/pkg/tree"
)

// Substitution costs for the keyed array diff. Equality is disabled so
// every surviving pair shows up as a change edge; matching identity
// keys cost less than a delete+add pair (2), mismatched keys cost far
// more, so the diff prefers "same logical item, updated" whenever
// identity is preservable and falls back to delete+insert otherwise.
const (
	identityMatchCost    = 0.5
	identityMismatchCost = 1000.0
)

// Option configures a Reconciler.
type Option func(*Reconciler)

// WithLogger sets the structured logger. Defaults to slog.Default().
func WithLogger(log *slog.Logger) Option {
	return func(r *Reconciler) {
		r.log = log
	}
}

// WithMetrics registers render metrics on reg. Without this option no
// metrics are collected.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(r *Reconciler) {
		r.metrics = newMetrics(reg)
	}
}

// WithModeCursor overrides the input-mode to cursor-shape mapping used
// for range lookup during dispatch.
func WithModeCursor(fn dispatch.ModeCursorFunc) Option {
	return func(r *Reconciler) {
		r.modeCursor = fn
	}
}

// Reconciler drives rendering for a single host surface. It is
// single-threaded and re-entrant: updates requested while a render is
// in flight, or while the host forbids mutation, are queued and each
// run to completion in the order requested.
type Reconciler struct {
	surf       surface.Surface
	tracker    *marks.Tracker
	disp       *dispatch.Dispatcher
	log        *slog.Logger
	tracer     trace.Tracer
	metrics    *metrics
	modeCursor dispatch.ModeCursorFunc

	mounted bool
	closed  bool

	// root is the previous fully reconciled tree; lines is the content
	// the surface held after the last pass (nil forces a fresh read,
	// used after external edits).
	root  *tree.Node
	lines []string

	rendering   bool
	queue       []func()
	afterRender []func()

	// baseline maps tracked ranges with an on_change callback to their
	// last known content.
	baseline map[*marks.Tracked]string
}

// New creates a Reconciler for a surface.
func New(s surface.Surface, opts ...Option) *Reconciler {
	r := &Reconciler{
		surf:   s,
		log:    slog.Default(),
		tracer: otel.Tracer("weft"),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.tracker = marks.NewTracker(s)
	r.disp = dispatch.New(s, r.tracker, r.modeCursor)
	return r
}

// Tracker exposes the reconciler's range tracker.
func (r *Reconciler) Tracker() *marks.Tracker { return r.tracker }

// RangesAt returns the tracked ranges containing pos, innermost first.
func (r *Reconciler) RangesAt(pos surface.Point, mode dispatch.CursorMode) []*marks.Tracked {
	return r.disp.RangesAt(pos, mode)
}

// RangeByID looks a tracked range up by its stable external id.
func (r *Reconciler) RangeByID(id string) (*marks.Tracked, bool) {
	return r.tracker.ByID(id)
}

// Render performs a one-shot, stateless flatten and patch: components
// in the tree are expanded with throwaway contexts and no lifecycle is
// retained. Calling Render on a mounted reconciler is a contract
// violation.
func (r *Reconciler) Render(root *tree.Node) error {
	if r.closed {
		return ErrClosed
	}
	if r.mounted {
		panic(panicRenderAfterMount)
	}
	expanded := r.expandEphemeral(root)
	lines, spans := Flatten(expanded)
	textpatch.Patch(r.surf, nil, lines)
	r.retrack(spans)
	return nil
}

// Mount performs the first lifecycle-aware render and wires the
// reconciler to the surface's external-change notifications. It may be
// called at most once per surface; a second call panics.
func (r *Reconciler) Mount(root *tree.Node) error {
	if r.closed {
		return ErrClosed
	}
	if r.mounted {
		panic(panicMountTwice)
	}
	r.mounted = true
	r.surf.OnExternalChange(r.onExternalChange)
	r.pump(func() { r.renderTree(root) })
	return nil
}

// Close tears the reconciler down. Tracked ranges and key bindings are
// removed; updates already deferred become no-ops, never raising.
func (r *Reconciler) Close() {
	if r.closed {
		return
	}
	r.closed = true
	r.queue = nil
	r.afterRender = nil
	r.disp.Clear()
	r.tracker.Clear()
}

// pump is the deferred-work queue at the center of the re-entrancy
// model. Work arriving while the surface is locked waits for the host's
// unlock signal; work arriving mid-render queues behind the current
// pass. Each queued item runs to completion, in order, with its
// after-render callbacks drained before the next item starts.
func (r *Reconciler) pump(work func()) {
	if r.closed {
		return
	}
	if r.surf.Locked() {
		r.surf.WhenUnlocked(func() { r.pump(work) })
		return
	}
	if r.rendering {
		r.queue = append(r.queue, work)
		return
	}
	r.rendering = true
	defer func() { r.rendering = false }()
	for {
		if r.closed {
			return
		}
		work()
		for len(r.afterRender) > 0 {
			fn := r.afterRender[0]
			r.afterRender = r.afterRender[1:]
			fn()
		}
		if len(r.queue) == 0 {
			return
		}
		work = r.queue[0]
		r.queue = r.queue[1:]
	}
}

// requestUpdate re-renders a single component instance. Called by
// Context.Update outside the mount phase.
func (r *Reconciler) requestUpdate(c *Context) {
	r.pump(func() {
		if c.phase == PhaseUnmount {
			return
		}
		out := c.invoke()
		c.node.Rendered = r.reconcile(c.node.Rendered, out)
		r.commit()
	})
}

// renderTree reconciles a new root tree against the previous one.
func (r *Reconciler) renderTree(root *tree.Node) {
	r.root = r.reconcile(r.root, root)
	r.commit()
}

// commit flattens the reconciled tree, patches the surface, rebuilds
// every tracked range from fresh positions, and re-syncs key bindings.
func (r *Reconciler) commit() {
	start := time.Now()
	_, span := r.tracer.Start(context.Background(), "weft.render")
	defer span.End()

	lines, spans := Flatten(r.root)
	edits := textpatch.Patch(r.surf, r.lines, lines)
	r.lines = lines
	r.retrack(spans)

	span.SetAttributes(
		attribute.Int("weft.edit_count", edits),
		attribute.Int("weft.span_count", len(spans)),
		attribute.Int("weft.line_count", len(lines)),
	)
	r.metrics.recordPass(time.Since(start).Seconds(), edits)
}

// retrack discards all tracked ranges and re-derives them from the
// flatten result. Recreating wholesale instead of patching avoids any
// possibility of positional drift.
func (r *Reconciler) retrack(spans []TagSpan) {
	r.tracker.Clear()
	r.baseline = make(map[*marks.Tracked]string)
	for _, ts := range spans {
		tr := r.tracker.Track(ts.Span, ts.Tag)
		if ts.Tag.Attrs.OnChange() != nil {
			r.baseline[tr] = ts.Text
		}
	}
	r.disp.Sync(r.tracker.All())
}

// onExternalChange resynchronizes after the host text changed behind
// the engine's back: cached content is dropped so the next patch reads
// fresh, and spans whose live text diverged fire their on_change. A
// handler may itself trigger a synchronous render, which rebuilds every
// tracked range mid-sweep; the sweep therefore walks a snapshot and
// skips entries whose mark no longer resolves, since the rebuilt
// baselines already reflect the live text.
func (r *Reconciler) onExternalChange() {
	if r.closed {
		return
	}
	r.lines = nil

	type divergence struct {
		tr       *marks.Tracked
		expected string
	}
	snapshot := make([]divergence, 0, len(r.baseline))
	for tr, expected := range r.baseline {
		snapshot = append(snapshot, divergence{tr: tr, expected: expected})
	}
	for _, d := range snapshot {
		if r.closed {
			return
		}
		if _, ok := r.tracker.Span(d.tr); !ok {
			continue
		}
		live := r.tracker.Text(d.tr)
		if live == d.expected {
			continue
		}
		r.baseline[d.tr] = live
		if fn := d.tr.Tag.Attrs.OnChange(); fn != nil {
			fn(live)
		}
	}
}

// reconcile correlates an old and a new node, dispatching on the new
// node's kind. A kind change unmounts the old subtree first, then
// treats the new one as fresh.
func (r *Reconciler) reconcile(old, new *tree.Node) *tree.Node {
	if new == nil {
		new = tree.Empty()
	}
	if old != nil && old.Kind != new.Kind {
		r.unmount(old)
		old = nil
	}
	switch new.Kind {
	case tree.KindEmpty, tree.KindBool, tree.KindText:
		return new
	case tree.KindTag, tree.KindArray:
		var oldKids []*tree.Node
		if old != nil {
			oldKids = old.Children
		}
		new.Children = r.reconcileArray(oldKids, new.Children)
		return new
	case tree.KindComponent:
		return r.reconcileComponent(old, new)
	default:
		return new
	}
}

// reconcileComponent correlates a component invocation with its
// previous instance. Identity holds when the old node at the same tree
// position invoked the same function; the array layer has already
// matched explicit keys. On a match the existing Context is reused with
// phase update; otherwise the old subtree is unmounted and a fresh
// Context mounts.
func (r *Reconciler) reconcileComponent(old, new *tree.Node) *tree.Node {
	var c *Context
	if old != nil && tree.SameComponent(old.Comp, new.Comp) {
		if inst, ok := old.Inst.(*Context); ok && inst.phase != PhaseUnmount {
			c = inst
		}
	}
	if c == nil {
		if old != nil {
			r.unmount(old)
			old = nil
		}
		c = &Context{phase: PhaseMount, rec: r}
		r.metrics.recordMount()
	} else {
		c.phase = PhaseUpdate
	}

	// Props and children are overwritten every pass; only state
	// survives untouched.
	c.comp = new.Comp
	c.props = new.Attrs
	c.children = new.Child()
	c.node = new
	new.Inst = c

	out := c.invoke()
	var prev *tree.Node
	if old != nil {
		prev = old.Rendered
	}
	new.Rendered = r.reconcile(prev, out)

	// Advance to update even on a fresh mount, so an Update call during
	// the next pass behaves normally.
	c.phase = PhaseUpdate
	return new
}

// identity is the key used to match old and new array elements.
type identity struct {
	kind     tree.Kind
	comp     uintptr
	key      string
	explicit bool
}

func identityOf(n *tree.Node, idx int) identity {
	id := identity{kind: n.Kind, comp: tree.ComponentID(n.Comp)}
	if key := n.Key(); key != "" {
		id.key = key
		id.explicit = true
	} else {
		id.key = strconv.Itoa(idx)
	}
	return id
}

type keyed struct {
	node *tree.Node
	id   identity
}

// reconcileArray correlates two node sequences. Identity keys are
// computed for every element, then the sequence diff runs with equality
// disabled so every surviving pair is visited, and with a substitution
// cost that prefers identity-preserving matches. Deletes whose identity
// reappears among the adds are treated as moves and keep their
// instance. All unmounts complete before any mount that could reuse
// the vacated text region.
func (r *Reconciler) reconcileArray(olds, news []*tree.Node) []*tree.Node {
	if len(olds) == 0 && len(news) == 0 {
		return news
	}

	okeyed := make([]keyed, len(olds))
	for i, n := range olds {
		okeyed[i] = keyed{node: n, id: identityOf(n, i)}
	}
	nkeyed := make([]keyed, len(news))
	for i, n := range news {
		nkeyed[i] = keyed{node: n, id: identityOf(n, i)}
	}

	edits := seqdiff.Diff(okeyed, nkeyed,
		seqdiff.WithEqual[keyed](nil),
		seqdiff.WithSubstCost(func(a, b keyed) float64 {
			if a.id == b.id {
				return identityMatchCost
			}
			return identityMismatchCost
		}),
	)

	// First pass: figure out which deleted elements are really moves
	// (an add elsewhere carries the same explicit identity), then
	// unmount everything that is genuinely gone.
	addedIDs := make(map[identity]int)
	for _, e := range edits {
		if e.Op == seqdiff.OpAdd && nkeyed[e.To].id.explicit {
			addedIDs[nkeyed[e.To].id]++
		}
	}
	moved := make(map[identity][]*tree.Node)
	mismatched := make(map[int]bool)
	for _, e := range edits {
		switch e.Op {
		case seqdiff.OpDelete:
			id := okeyed[e.From].id
			if id.explicit && addedIDs[id] > 0 {
				addedIDs[id]--
				moved[id] = append(moved[id], olds[e.From])
				continue
			}
			r.unmount(olds[e.From])
		case seqdiff.OpChange:
			if okeyed[e.From].id != nkeyed[e.To].id {
				// Should be unreachable given the cost function; flag
				// it and fall back to a clean unmount+mount rather
				// than silently coercing.
				r.log.Warn("weft: identity key mismatch on change edge",
					"old_key", okeyed[e.From].id.key,
					"new_key", nkeyed[e.To].id.key,
					"old_kind", okeyed[e.From].id.kind.String(),
					"new_kind", nkeyed[e.To].id.kind.String(),
				)
				r.metrics.recordKeyMismatch()
				mismatched[e.From] = true
				r.unmount(olds[e.From])
			}
		}
	}

	// Second pass: build the merged sequence, mounting and updating.
	out := make([]*tree.Node, len(news))
	for _, e := range edits {
		switch e.Op {
		case seqdiff.OpAdd:
			id := nkeyed[e.To].id
			if prev := moved[id]; len(prev) > 0 {
				moved[id] = prev[1:]
				out[e.To] = r.reconcile(prev[0], news[e.To])
				continue
			}
			out[e.To] = r.reconcile(nil, news[e.To])
		case seqdiff.OpChange:
			if mismatched[e.From] {
				out[e.To] = r.reconcile(nil, news[e.To])
				continue
			}
			out[e.To] = r.reconcile(olds[e.From], news[e.To])
		}
	}
	return out
}

// unmount destroys a subtree depth-first, components innermost-first,
// so no lifecycle callback ever observes a partially destroyed tree.
func (r *Reconciler) unmount(n *tree.Node) {
	if n == nil {
		return
	}
	switch n.Kind {
	case tree.KindTag, tree.KindArray:
		for _, child := range n.Children {
			r.unmount(child)
		}
	case tree.KindComponent:
		r.unmount(n.Rendered)
		if c, ok := n.Inst.(*Context); ok && c.phase != PhaseUnmount {
			c.phase = PhaseUnmount
			// Final invocation so the component observes its own
			// unmount; the output is discarded.
			c.invoke()
			r.metrics.recordUnmount()
		}
	}
}

// expandEphemeral invokes components with throwaway contexts for the
// stateless Render path.
func (r *Reconciler) expandEphemeral(n *tree.Node) *tree.Node {
	if n == nil {
		return tree.Empty()
	}
	switch n.Kind {
	case tree.KindComponent:
		c := &Context{phase: PhaseMount, rec: r, comp: n.Comp, props: n.Attrs, children: n.Child(), node: n}
		n.Rendered = r.expandEphemeral(c.invoke())
		return n
	case tree.KindTag, tree.KindArray:
		for i, child := range n.Children {
			n.Children[i] = r.expandEphemeral(child)
		}
		return n
	default:
		return n
	}
}
