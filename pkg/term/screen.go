// Package term adapts the engine's host-surface contract to a real
// terminal via tcell. The in-memory buffer stays the source of truth;
// the screen is redrawn from it after every event.
package term

import (
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"

	"github.com/weft-ui/weft/pkg/surface"
)

// Highlight styles a text region when the screen is drawn.
type Highlight struct {
	Span  surface.Span
	Style string
}

// Screen is a tcell-backed Surface. It embeds the in-memory buffer, so
// the engine edits text and marks exactly as it would against any
// other host; the terminal is purely a view.
type Screen struct {
	*surface.Buffer

	screen tcell.Screen
	theme  Theme
	mode   string

	// Highlights is re-read on every draw; typically wired to the
	// reconciler's tracked ranges.
	Highlights func() []Highlight
}

// NewScreen initializes the terminal.
func NewScreen(theme Theme) (*Screen, error) {
	ts, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := ts.Init(); err != nil {
		return nil, err
	}
	return &Screen{
		Buffer: surface.NewBuffer(),
		screen: ts,
		theme:  theme,
		mode:   "n",
	}, nil
}

// Mode returns the current input mode.
func (s *Screen) Mode() string { return s.mode }

// SetMode switches the input mode used for key dispatch.
func (s *Screen) SetMode(mode string) { s.mode = mode }

// Draw repaints the terminal from the buffer. Cells advance by display
// width per grapheme cluster, so wide glyphs keep columns aligned;
// highlight lookup stays in byte columns, matching tracked spans.
func (s *Screen) Draw() {
	s.screen.Clear()
	var highlights []Highlight
	if s.Highlights != nil {
		highlights = s.Highlights()
	}
	for y, line := range s.Lines() {
		x, off := 0, 0
		state := -1
		rest := line
		for len(rest) > 0 {
			var cluster string
			var boundaries int
			cluster, rest, boundaries, state = uniseg.StepString(rest, state)
			runes := []rune(cluster)
			style := s.styleAt(highlights, surface.Point{Line: y, Col: off})
			s.screen.SetContent(x, y, runes[0], runes[1:], style)
			x += boundaries >> uniseg.ShiftWidth
			off += len(cluster)
		}
	}
	cur := s.Cursor()
	curLine := s.Line(cur.Line)
	col := cur.Col
	if col > len(curLine) {
		col = len(curLine)
	}
	s.screen.ShowCursor(uniseg.StringWidth(curLine[:col]), cur.Line)
	s.screen.Show()
}

func (s *Screen) styleAt(highlights []Highlight, p surface.Point) tcell.Style {
	style := tcell.StyleDefault
	for _, h := range highlights {
		if h.Span.Contains(p, false) {
			style = s.theme.Style(h.Style)
		}
	}
	return style
}

// Run polls terminal events, feeding key presses through the bound
// handlers until quit returns true for an event. Fini is called on
// exit.
func (s *Screen) Run(quit func(ev *tcell.EventKey) bool) {
	defer s.screen.Fini()
	s.Draw()
	for {
		ev := s.screen.PollEvent()
		switch ev := ev.(type) {
		case *tcell.EventKey:
			if quit != nil && quit(ev) {
				return
			}
			seq := KeyName(ev)
			if res, ok := s.Press(s.mode, seq); ok && res.Replace != "" {
				// A handler substituted a different action; feed it
				// back through dispatch.
				s.Press(s.mode, res.Replace)
			}
			s.Draw()
		case *tcell.EventResize:
			s.screen.Sync()
			s.Draw()
		}
	}
}
