// Package textpatch transforms a surface's content into a target line
// sequence through minimal range replacements. Lines are diffed first;
// lines classified as changed get a second, grapheme-level pass so an
// edit inside a line touches only the characters that differ. Unrelated
// text is never rewritten, which is what preserves the host's cursor
// and scroll position across renders.
package textpatch

import (
	"strings"

	"github.com/rivo/uniseg"

	"github.com/weft-ui/weft/pkg/seqdiff"
	"github.com/weft-ui/weft/pkg/surface"
)

// Patch edits s in place until its content equals target. cur is the
// content s is assumed to hold; pass nil to read it fresh from the
// surface. Returns the number of range replacements issued; patching
// identical content issues zero.
func Patch(s surface.Surface, cur, target []string) int {
	if cur == nil {
		cur = s.Lines()
	}
	if len(target) == 0 {
		target = []string{""}
	}

	edits := seqdiff.Strings(cur, target)
	if len(edits) == 0 {
		return 0
	}

	type lineBlock struct {
		start, end int      // replaced line range [start, end) in cur
		repl       []string // replacement lines from target
		change     bool     // single changed line, gets a char-level pass
		to         int      // target index for change blocks
	}

	var blocks []lineBlock
	var pending *lineBlock
	flush := func() {
		if pending != nil {
			blocks = append(blocks, *pending)
			pending = nil
		}
	}
	for _, e := range edits {
		switch e.Op {
		case seqdiff.OpChange:
			flush()
			blocks = append(blocks, lineBlock{start: e.From, end: e.From + 1, change: true, to: e.To})
		case seqdiff.OpDelete:
			if pending != nil && pending.end == e.From {
				pending.end++
				continue
			}
			flush()
			pending = &lineBlock{start: e.From, end: e.From + 1}
		case seqdiff.OpAdd:
			if pending != nil && pending.end == e.From {
				pending.repl = append(pending.repl, target[e.To])
				continue
			}
			flush()
			pending = &lineBlock{start: e.From, end: e.From, repl: []string{target[e.To]}}
		}
	}
	flush()

	// Apply right to left so earlier block positions stay valid.
	count := 0
	for i := len(blocks) - 1; i >= 0; i-- {
		b := blocks[i]
		if b.change {
			count += patchLine(s, b.start, cur[b.start], target[b.to])
			continue
		}
		s.SetLines(b.start, b.end, b.repl)
		count++
	}
	return count
}

// patchLine rewrites only the differing character regions of one line.
// Columns are byte offsets; the diff itself runs over grapheme clusters
// so a multi-byte character is never split mid-sequence.
func patchLine(s surface.Surface, line int, old, new string) int {
	oldG, oldOff := graphemes(old)
	newG, _ := graphemes(new)

	edits := seqdiff.Diff(oldG, newG, seqdiff.WithEqual(func(a, b string) bool { return a == b }))
	if len(edits) == 0 {
		return 0
	}

	type charBlock struct {
		start, end int // grapheme range [start, end) in old
		repl       strings.Builder
	}

	var blocks []*charBlock
	var pending *charBlock
	flush := func() {
		if pending != nil {
			blocks = append(blocks, pending)
			pending = nil
		}
	}
	for _, e := range edits {
		switch e.Op {
		case seqdiff.OpChange:
			if pending == nil || pending.end != e.From {
				flush()
				pending = &charBlock{start: e.From, end: e.From}
			}
			pending.end++
			pending.repl.WriteString(newG[e.To])
		case seqdiff.OpDelete:
			if pending == nil || pending.end != e.From {
				flush()
				pending = &charBlock{start: e.From, end: e.From}
			}
			pending.end++
		case seqdiff.OpAdd:
			if pending == nil || pending.end != e.From {
				flush()
				pending = &charBlock{start: e.From, end: e.From}
			}
			pending.repl.WriteString(newG[e.To])
		}
	}
	flush()

	for i := len(blocks) - 1; i >= 0; i-- {
		b := blocks[i]
		s.SetText(line, oldOff[b.start], line, oldOff[b.end], []string{b.repl.String()})
	}
	return len(blocks)
}

// graphemes splits a string into grapheme clusters and returns, per
// cluster boundary, the byte offset it starts at. offsets has one extra
// entry holding len(s).
func graphemes(s string) (clusters []string, offsets []int) {
	state := -1
	rest := s
	off := 0
	for len(rest) > 0 {
		var cluster string
		cluster, rest, _, state = uniseg.StepString(rest, state)
		clusters = append(clusters, cluster)
		offsets = append(offsets, off)
		off += len(cluster)
	}
	offsets = append(offsets, len(s))
	return clusters, offsets
}
