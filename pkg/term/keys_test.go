package term

import (
	"testing"

	"github.com/gdamore/tcell/v2"
)

func TestKeyNameRunes(t *testing.T) {
	ev := tcell.NewEventKey(tcell.KeyRune, 'a', tcell.ModNone)
	if got := KeyName(ev); got != "a" {
		t.Errorf("KeyName = %q, want a", got)
	}
	ev = tcell.NewEventKey(tcell.KeyRune, '+', tcell.ModNone)
	if got := KeyName(ev); got != "+" {
		t.Errorf("KeyName = %q, want +", got)
	}
}

func TestKeyNameSpecials(t *testing.T) {
	cases := []struct {
		key  tcell.Key
		want string
	}{
		{tcell.KeyEnter, "<CR>"},
		{tcell.KeyEsc, "<Esc>"},
		{tcell.KeyTab, "<Tab>"},
		{tcell.KeyBacktab, "<S-Tab>"},
		{tcell.KeyBackspace2, "<BS>"},
		{tcell.KeyDelete, "<Del>"},
		{tcell.KeyUp, "<Up>"},
		{tcell.KeyDown, "<Down>"},
		{tcell.KeyLeft, "<Left>"},
		{tcell.KeyRight, "<Right>"},
		{tcell.KeyHome, "<Home>"},
		{tcell.KeyEnd, "<End>"},
	}
	for _, c := range cases {
		ev := tcell.NewEventKey(c.key, 0, tcell.ModNone)
		if got := KeyName(ev); got != c.want {
			t.Errorf("KeyName(%v) = %q, want %q", c.key, got, c.want)
		}
	}
}

func TestKeyNameCtrl(t *testing.T) {
	ev := tcell.NewEventKey(tcell.KeyCtrlX, 0, tcell.ModCtrl)
	if got := KeyName(ev); got != "<C-x>" {
		t.Errorf("KeyName = %q, want <C-x>", got)
	}
}

func TestThemeStyle(t *testing.T) {
	theme := Theme{Colors: map[string]string{"accent": "#50fa7b"}}

	if theme.Style("accent") == tcell.StyleDefault {
		t.Error("known style should differ from the default")
	}
	if theme.Style("missing") != tcell.StyleDefault {
		t.Error("unknown style should fall back to the default")
	}

	bad := Theme{Colors: map[string]string{"broken": "notacolor"}}
	if bad.Style("broken") != tcell.StyleDefault {
		t.Error("malformed color should fall back to the default")
	}
}

func TestDefaultThemeHasPalette(t *testing.T) {
	theme := DefaultTheme()
	for _, name := range []string{"title", "accent", "error", "muted"} {
		if _, ok := theme.Colors[name]; !ok {
			t.Errorf("default theme missing %q", name)
		}
	}
}
