package tree

import (
	"fmt"
	"reflect"
	"strconv"
)

// Kind is the node type discriminator.
type Kind uint8

const (
	KindEmpty     Kind = iota // Absent node, renders nothing
	KindBool                  // Conditional-expression residue, renders nothing
	KindText                  // Plain text, rendered verbatim
	KindTag                   // Styled/interactive span
	KindComponent             // Component invocation
	KindArray                 // Ordered sequence of nodes
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "Empty"
	case KindBool:
		return "Bool"
	case KindText:
		return "Text"
	case KindTag:
		return "Tag"
	case KindComponent:
		return "Component"
	case KindArray:
		return "Array"
	default:
		return "Unknown"
	}
}

// Node is a single node in a declarative tree. A tree is rebuilt from
// scratch on every render; identity across renders is derived from
// (Kind, component reference, explicit key or position), never from
// pointer equality.
type Node struct {
	Kind     Kind
	Text     string    // For KindText
	Attrs    Attrs     // For KindTag and KindComponent
	Children []*Node   // Tag/Component nested content, Array elements
	Comp     Component // For KindComponent

	// Rendered is the component's output from its most recent
	// invocation. Owned by the reconciler; nil until first mount.
	Rendered *Node

	// Inst is the per-instance lifecycle record carried across renders.
	// Owned by the reconciler, opaque to everything else.
	Inst any
}

// Component is a render function: it receives its persistent Context and
// returns the tree it wants shown. Component identity for reconciliation
// is the function pointer itself.
type Component func(Context) *Node

// Context is the per-instance record a component renders against.
// The concrete implementation lives in the reconcile package.
type Context interface {
	// Props returns the attributes the parent passed on this render.
	Props() Attrs
	// Children returns the nested content the parent passed.
	Children() *Node
	// State returns the component-owned state, nil before the first Update.
	State() any
	// Update overwrites the state and schedules a re-render. During the
	// initial mount it only records the state; while the host surface is
	// locked the re-render is deferred to the next safe point.
	Update(state any)
	// Refresh re-renders with the current state.
	Refresh()
	// AfterRender registers fn to run once the surface has been patched
	// and tracked ranges re-established for the in-flight render.
	AfterRender(fn func())
}

// Empty returns the absent node.
func Empty() *Node {
	return &Node{Kind: KindEmpty}
}

// Bool wraps a boolean; it renders nothing either way. It exists so
// conditional expressions can produce a Node without special cases.
func Bool(v bool) *Node {
	n := &Node{Kind: KindBool}
	if v {
		n.Text = "true"
	}
	return n
}

// Text creates a plain text node.
func Text(s string) *Node {
	return &Node{Kind: KindText, Text: s}
}

// TextAny creates a text node from a string or number. Numbers are
// converted to their textual form eagerly; the node stores only strings.
func TextAny(v any) *Node {
	return &Node{Kind: KindText, Text: Stringify(v)}
}

// Span creates a styled/interactive tag node.
func Span(attrs Attrs, children ...*Node) *Node {
	return &Node{Kind: KindTag, Attrs: attrs, Children: children}
}

// C creates a component invocation node.
func C(comp Component, attrs Attrs, children ...*Node) *Node {
	return &Node{Kind: KindComponent, Comp: comp, Attrs: attrs, Children: children}
}

// Group creates an array node from its arguments.
func Group(children ...*Node) *Node {
	return &Node{Kind: KindArray, Children: children}
}

// List creates an array node from a slice.
func List(children []*Node) *Node {
	return &Node{Kind: KindArray, Children: children}
}

// If returns node when cond is true and the absent node otherwise.
func If(cond bool, node *Node) *Node {
	if cond {
		return node
	}
	return Empty()
}

// Key returns the node's explicit reconciliation key, or "" if none.
func (n *Node) Key() string {
	if n == nil || n.Attrs == nil {
		return ""
	}
	if key, ok := n.Attrs[AttrKey].(string); ok {
		return key
	}
	return ""
}

// ID returns the node's stable external id, or "" if none.
func (n *Node) ID() string {
	if n == nil || n.Attrs == nil {
		return ""
	}
	if id, ok := n.Attrs[AttrID].(string); ok {
		return id
	}
	return ""
}

// Child returns the node's single logical child: the first child if one
// exists, the absent node otherwise. Multiple children are wrapped in an
// array so downstream code sees exactly one node.
func (n *Node) Child() *Node {
	switch len(n.Children) {
	case 0:
		return Empty()
	case 1:
		return n.Children[0]
	default:
		return List(n.Children)
	}
}

// SameComponent reports whether two component references are the same
// function. Nil components are only the same as other nils.
func SameComponent(a, b Component) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return reflect.ValueOf(a).Pointer() == reflect.ValueOf(b).Pointer()
}

// ComponentID returns a stable identifier for a component reference.
func ComponentID(c Component) uintptr {
	if c == nil {
		return 0
	}
	return reflect.ValueOf(c).Pointer()
}

// Stringify converts a text value to its rendered form.
func Stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case uint64:
		return strconv.FormatUint(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}
