package reconcile

import (
	"strings"

	"github.com/weft-ui/weft/pkg/surface"
	"github.com/weft-ui/weft/pkg/tree"
)

// TagSpan is a tag's region in the flattened text, plus the text it
// covered at flatten time (the on_change baseline).
type TagSpan struct {
	Tag  *tree.Node
	Span surface.Span
	Text string
}

// Flatten walks a fully reconciled tree (components expanded into their
// Rendered output) and produces the target line sequence together with
// the tag spans to track. Spans are listed outermost-first in document
// order, so a parent tag always precedes the tags it contains.
func Flatten(root *tree.Node) ([]string, []TagSpan) {
	f := &flattener{lines: []string{""}}
	f.walk(root)
	for i := range f.spans {
		f.spans[i].Text = textBetween(f.lines, f.spans[i].Span)
	}
	return f.lines, f.spans
}

type flattener struct {
	lines []string
	spans []TagSpan
}

func (f *flattener) pos() surface.Point {
	last := len(f.lines) - 1
	return surface.Point{Line: last, Col: len(f.lines[last])}
}

func (f *flattener) write(text string) {
	if text == "" {
		return
	}
	parts := strings.Split(text, "\n")
	f.lines[len(f.lines)-1] += parts[0]
	for _, part := range parts[1:] {
		f.lines = append(f.lines, part)
	}
}

func (f *flattener) walk(n *tree.Node) {
	if n == nil {
		return
	}
	switch n.Kind {
	case tree.KindEmpty, tree.KindBool:
		// Renders nothing.
	case tree.KindText:
		f.write(n.Text)
	case tree.KindArray:
		for _, child := range n.Children {
			f.walk(child)
		}
	case tree.KindTag:
		idx := len(f.spans)
		f.spans = append(f.spans, TagSpan{Tag: n, Span: surface.Span{Start: f.pos()}})
		for _, child := range n.Children {
			f.walk(child)
		}
		f.spans[idx].Span.Stop = f.pos()
	case tree.KindComponent:
		f.walk(n.Rendered)
	}
}

// textBetween extracts the text a span covers from a line sequence.
func textBetween(lines []string, span surface.Span) string {
	if span.IsEmpty() {
		return ""
	}
	if span.Start.Line == span.Stop.Line {
		return lines[span.Start.Line][span.Start.Col:span.Stop.Col]
	}
	var b strings.Builder
	b.WriteString(lines[span.Start.Line][span.Start.Col:])
	for i := span.Start.Line + 1; i < span.Stop.Line; i++ {
		b.WriteString("\n")
		b.WriteString(lines[i])
	}
	b.WriteString("\n")
	b.WriteString(lines[span.Stop.Line][:span.Stop.Col])
	return b.String()
}
