package wefttest

import (
	"strings"
	"testing"
)

func TestSurfaceRecordsEdits(t *testing.T) {
	s := New()
	s.SetLines(0, 1, []string{"a", "b"})
	s.SetText(0, 0, 0, 1, []string{"x"})

	if s.EditCount() != 2 {
		t.Fatalf("EditCount = %d, want 2\n%v", s.EditCount(), s.Edits)
	}
	if s.Edits[0] != `lines[0:1]=["a" "b"]` {
		t.Errorf("Edits[0] = %s", s.Edits[0])
	}
	if s.Edits[1] != `text[0:0-0:1]=["x"]` {
		t.Errorf("Edits[1] = %s", s.Edits[1])
	}

	s.Reset()
	if s.EditCount() != 0 {
		t.Error("Reset did not clear the log")
	}
}

func TestDiffText(t *testing.T) {
	out := DiffText("Value: 1", "Value: 2")
	if !strings.Contains(out, "[-1]") || !strings.Contains(out, "[+2]") {
		t.Errorf("DiffText = %q, want the changed digit marked", out)
	}
	if !strings.Contains(out, "Value: ") {
		t.Errorf("DiffText = %q, want unchanged text kept verbatim", out)
	}
}
