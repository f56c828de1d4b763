// Package seqdiff implements a generic minimal-edit-distance diff with
// pluggable equality and substitution cost. It backs both the keyed
// structural reconciliation and the line/character text patching.
package seqdiff

import "reflect"

// Op is the edit operation discriminator.
type Op uint8

const (
	OpAdd    Op = iota // Insert to[To] into from
	OpDelete           // Remove from[From]
	OpChange           // Replace from[From] with to[To]
)

// String returns the string representation of the Op.
func (o Op) String() string {
	switch o {
	case OpAdd:
		return "add"
	case OpDelete:
		return "delete"
	case OpChange:
		return "change"
	default:
		return "unknown"
	}
}

// Edit is a single step in an edit script. From indexes the source
// sequence for OpDelete and OpChange; for OpAdd it is the insertion
// point in source coordinates (the elements from[:From] precede the
// inserted element). To indexes the target sequence for OpAdd and
// OpChange, and is -1 for OpDelete.
type Edit struct {
	Op   Op
	From int
	To   int
}

// EqualFunc reports whether a source and a target element are equal.
type EqualFunc[T any] func(from, to T) bool

// CostFunc returns the substitution cost for replacing a source element
// with a target element. Only consulted when the pair is not equal.
type CostFunc[T any] func(from, to T) float64

// Option configures a diff run.
type Option[T any] func(*config[T])

type config[T any] struct {
	equal EqualFunc[T]
	cost  CostFunc[T]
}

// WithEqual sets the equality predicate. Passing nil disables equality
// entirely, so every pair is costed as a substitution; combined with
// WithSubstCost this is how keyed matching visits every pair.
func WithEqual[T any](eq EqualFunc[T]) Option[T] {
	return func(c *config[T]) {
		c.equal = eq
		if eq == nil {
			c.equal = func(T, T) bool { return false }
		}
	}
}

// WithSubstCost sets the substitution cost function. The default cost is
// a flat 1 per substitution.
func WithSubstCost[T any](cost CostFunc[T]) Option[T] {
	return func(c *config[T]) {
		c.cost = cost
	}
}

const unitCost = 1.0

// Diff computes an ordered, minimal-cost edit script transforming from
// into to. Adds and deletes cost 1 each; equal pairs cost 0; unequal
// pairs cost the substitution cost. When several operations achieve the
// same minimum at a cell, deletes win over adds, adds over
// substitutions: removing a now-absent item reads better than
// reinterpreting it as a changed neighbor.
//
// The returned edits are ordered by source position; an add that lands
// where an element is also deleted precedes that delete, so consumers
// coalescing adjacent edits see one contiguous block. Empty (or nil)
// sequences are fine.
func Diff[T any](from, to []T, opts ...Option[T]) []Edit {
	cfg := config[T]{
		equal: func(a, b T) bool { return reflect.DeepEqual(a, b) },
		cost:  func(T, T) float64 { return unitCost },
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	n, m := len(from), len(to)

	// d[i][j] = minimal cost to turn from[:i] into to[:j].
	d := make([][]float64, n+1)
	for i := range d {
		d[i] = make([]float64, m+1)
	}
	for i := 1; i <= n; i++ {
		d[i][0] = float64(i) * unitCost
	}
	for j := 1; j <= m; j++ {
		d[0][j] = float64(j) * unitCost
	}
	for i := 1; i <= n; i++ {
		for j := 1; j <= m; j++ {
			del := d[i-1][j] + unitCost
			add := d[i][j-1] + unitCost
			diag := d[i-1][j-1]
			if !cfg.equal(from[i-1], to[j-1]) {
				diag += cfg.cost(from[i-1], to[j-1])
			}
			best := del
			if add < best {
				best = add
			}
			if diag < best {
				best = diag
			}
			d[i][j] = best
		}
	}

	// Backtrack, re-verifying at each cell which operation actually
	// achieved the minimum. The substitution cost is not constant, so
	// comparing neighbor cells alone would misattribute steps.
	var edits []Edit
	i, j := n, m
	for i > 0 || j > 0 {
		switch {
		case i > 0 && d[i][j] == d[i-1][j]+unitCost:
			edits = append(edits, Edit{Op: OpDelete, From: i - 1, To: -1})
			i--
		case j > 0 && d[i][j] == d[i][j-1]+unitCost:
			edits = append(edits, Edit{Op: OpAdd, From: i, To: j - 1})
			j--
		default:
			if cfg.equal(from[i-1], to[j-1]) {
				// Keep: no edit emitted.
				i--
				j--
				continue
			}
			edits = append(edits, Edit{Op: OpChange, From: i - 1, To: j - 1})
			i--
			j--
		}
	}

	// Reverse into forward order.
	for a, b := 0, len(edits)-1; a < b; a, b = a+1, b-1 {
		edits[a], edits[b] = edits[b], edits[a]
	}
	return edits
}

// Strings diffs two string sequences with plain == equality.
func Strings(from, to []string) []Edit {
	return Diff(from, to, WithEqual(func(a, b string) bool { return a == b }))
}
