package term

import (
	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
)

// Theme maps style names used in tag attributes to terminal styles.
type Theme struct {
	// Colors maps a style name to a hex foreground color ("#rrggbb").
	Colors map[string]string `yaml:"colors"`
}

// DefaultTheme returns a small usable palette.
func DefaultTheme() Theme {
	return Theme{Colors: map[string]string{
		"title":  "#8be9fd",
		"accent": "#50fa7b",
		"error":  "#ff5555",
		"muted":  "#6272a4",
	}}
}

// Style resolves a style name to a tcell style. Unknown names and
// malformed colors fall back to the default style.
func (t Theme) Style(name string) tcell.Style {
	hex, ok := t.Colors[name]
	if !ok {
		return tcell.StyleDefault
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return tcell.StyleDefault
	}
	r, g, b := c.RGB255()
	return tcell.StyleDefault.Foreground(tcell.NewRGBColor(int32(r), int32(g), int32(b)))
}
