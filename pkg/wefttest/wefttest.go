// Package wefttest provides a scripted in-memory host surface and
// assertion helpers for testing engine behavior: edit logging, lock
// toggling, external-edit injection, and readable text diffs on
// failure.
package wefttest

import (
	"fmt"
	"strings"
	"testing"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/weft-ui/weft/pkg/surface"
)

// Surface wraps the in-memory buffer and records every engine-issued
// edit, so tests can assert on edit counts and shapes, not just final
// content.
type Surface struct {
	*surface.Buffer

	// Edits is a human-readable log of engine edits, in order.
	Edits []string
}

// New creates a scripted test surface.
func New() *Surface {
	return &Surface{Buffer: surface.NewBuffer()}
}

// SetLines records the edit and forwards to the buffer.
func (s *Surface) SetLines(start, end int, repl []string) {
	s.Edits = append(s.Edits, fmt.Sprintf("lines[%d:%d]=%q", start, end, repl))
	s.Buffer.SetLines(start, end, repl)
}

// SetText records the edit and forwards to the buffer.
func (s *Surface) SetText(startLine, startCol, endLine, endCol int, repl []string) {
	s.Edits = append(s.Edits, fmt.Sprintf("text[%d:%d-%d:%d]=%q", startLine, startCol, endLine, endCol, repl))
	s.Buffer.SetText(startLine, startCol, endLine, endCol, repl)
}

// EditCount returns the number of engine edits since the last Reset.
func (s *Surface) EditCount() int { return len(s.Edits) }

// Reset clears the edit log.
func (s *Surface) Reset() { s.Edits = nil }

// AssertLines fails the test when the surface content differs from
// want, printing a character-level diff of the joined text.
func AssertLines(t testing.TB, s surface.Surface, want []string) {
	t.Helper()
	got := s.Lines()
	if len(got) == len(want) {
		same := true
		for i := range got {
			if got[i] != want[i] {
				same = false
				break
			}
		}
		if same {
			return
		}
	}
	t.Errorf("surface content mismatch:\n%s", DiffText(strings.Join(want, "\n"), strings.Join(got, "\n")))
}

// AssertEditCount fails the test when the edit log length differs.
func AssertEditCount(t testing.TB, s *Surface, want int) {
	t.Helper()
	if len(s.Edits) != want {
		t.Errorf("edit count = %d, want %d\nedits:\n  %s", len(s.Edits), want, strings.Join(s.Edits, "\n  "))
	}
}

// DiffText renders a readable character-level diff from want to got.
func DiffText(want, got string) string {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(want, got, false)
	var b strings.Builder
	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			fmt.Fprintf(&b, "[-%s]", d.Text)
		case diffmatchpatch.DiffInsert:
			fmt.Fprintf(&b, "[+%s]", d.Text)
		default:
			b.WriteString(d.Text)
		}
	}
	return b.String()
}
