package reconcile

import "errors"

// ErrClosed is returned by operations on a torn-down Reconciler.
var ErrClosed = errors.New("weft: reconciler is closed")

// Contract violations panic with a bracketed code so broken invariants
// surface immediately instead of corrupting later renders:
//
//	[WEFT E001] Mount called twice on the same surface
//	[WEFT E002] Render called on a mounted reconciler
//
// Host-boundary races (stale positions, inverted ranges) are by
// contrast normalized silently in the marks package; they are expected
// under concurrent external edits and must never crash interactive use.
const (
	panicMountTwice       = "[WEFT E001] Mount called twice on the same surface"
	panicRenderAfterMount = "[WEFT E002] Render called on a mounted reconciler; use component updates instead"
)
