package reconcile

import "github.com/weft-ui/weft/pkg/tree"

// Phase is a component instance's lifecycle stage. Transitions only
// move forward: mount, then update on every later pass, then unmount
// exactly once. Unmount is terminal.
type Phase uint8

const (
	PhaseMount Phase = iota
	PhaseUpdate
	PhaseUnmount
)

// String returns the string representation of the Phase.
func (p Phase) String() string {
	switch p {
	case PhaseMount:
		return "mount"
	case PhaseUpdate:
		return "update"
	case PhaseUnmount:
		return "unmount"
	default:
		return "unknown"
	}
}

// Context is the persistent per-component-instance record. It is
// created on first mount, survives as long as the instance's identity
// matches across renders, and is discarded after unmount. A Context is
// never shared between two live instances.
type Context struct {
	phase    Phase
	props    tree.Attrs
	children *tree.Node
	state    any

	comp tree.Component
	node *tree.Node // the mounted component node, updated each pass

	rec *Reconciler
}

var _ tree.Context = (*Context)(nil)

// Phase returns the instance's current lifecycle stage.
func (c *Context) Phase() Phase { return c.phase }

// Props returns the attributes the parent passed on the latest render.
func (c *Context) Props() tree.Attrs { return c.props }

// Children returns the nested content the parent passed.
func (c *Context) Children() *tree.Node { return c.children }

// State returns the component-owned state, nil before the first Update.
func (c *Context) State() any { return c.state }

// Update overwrites the state and re-renders the component. During the
// initial mount only the state is recorded: the mount call's own return
// value is about to be used, so re-rendering there would recurse
// forever. While the host surface is locked the re-render is deferred
// to the next safe point; otherwise it runs synchronously. After
// unmount, Update is a no-op.
func (c *Context) Update(state any) {
	c.state = state
	switch c.phase {
	case PhaseMount, PhaseUnmount:
		return
	}
	c.rec.requestUpdate(c)
}

// Refresh re-renders the component with its current state.
func (c *Context) Refresh() {
	c.Update(c.state)
}

// AfterRender registers fn to run once the in-flight render pass has
// fully patched the surface and re-established tracked ranges.
// Callbacks run in registration order, even if one of them triggers a
// further update. Outside a render pass, fn runs after the next one.
func (c *Context) AfterRender(fn func()) {
	c.rec.afterRender = append(c.rec.afterRender, fn)
}

// invoke runs the component function against this context.
func (c *Context) invoke() *tree.Node {
	out := c.comp(c)
	if out == nil {
		out = tree.Empty()
	}
	return out
}
