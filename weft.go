// Package weft provides the public API for the Weft text-surface
// reconciliation engine.
//
// This is the recommended import for most applications:
//
//	import "github.com/weft-ui/weft"
//
// Usage:
//
//	counter := func(ctx weft.Context) *weft.Node {
//	    n, _ := ctx.State().(int)
//	    return weft.Group(
//	        weft.Text("Value: "),
//	        weft.TextAny(n),
//	    )
//	}
//	r := weft.New(surf)
//	r.Mount(weft.C(counter, nil))
package weft

import (
	"github.com/weft-ui/weft/pkg/dispatch"
	"github.com/weft-ui/weft/pkg/reconcile"
	"github.com/weft-ui/weft/pkg/surface"
	"github.com/weft-ui/weft/pkg/tree"
)

// Node is a single node in a declarative tree.
type Node = tree.Node

// Attrs holds a tag's attributes.
type Attrs = tree.Attrs

// Component is a render function from Context to tree.
type Component = tree.Component

// Context is the persistent per-component-instance record.
type Context = tree.Context

// Reconciler drives rendering for a single host surface.
type Reconciler = reconcile.Reconciler

// Surface is the host text-surface contract.
type Surface = surface.Surface

// Point is a line/column position in the surface text.
type Point = surface.Point

// Span is a text region, start inclusive, stop exclusive.
type Span = surface.Span

// Event is a key event delivered to a tag handler.
type Event = dispatch.Event

// Outcome is a key handler's verdict.
type Outcome = dispatch.Outcome

// KeyHandler is the handler type stored in keymap attributes.
type KeyHandler = dispatch.KeyHandler

// Node constructors, re-exported from pkg/tree.
var (
	Empty   = tree.Empty
	Bool    = tree.Bool
	Text    = tree.Text
	TextAny = tree.TextAny
	C       = tree.C
	Group   = tree.Group
	List    = tree.List
	If      = tree.If
)

// Tag creates a styled/interactive span node.
func Tag(attrs Attrs, children ...*Node) *Node {
	return tree.Span(attrs, children...)
}

// New creates a Reconciler for a surface.
func New(s Surface, opts ...reconcile.Option) *Reconciler {
	return reconcile.New(s, opts...)
}

// Handler outcomes for key dispatch.
const (
	Bubble  = dispatch.Bubble
	Consume = dispatch.Consume
	Replace = dispatch.Replace
)

// Cursor modes for range queries.
const (
	CursorBlock  = dispatch.CursorBlock
	CursorInsert = dispatch.CursorInsert
)

// Reconciler options, re-exported.
var (
	WithLogger     = reconcile.WithLogger
	WithMetrics    = reconcile.WithMetrics
	WithModeCursor = reconcile.WithModeCursor
)
