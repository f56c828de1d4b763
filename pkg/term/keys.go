package term

import "github.com/gdamore/tcell/v2"

// KeyName translates a tcell key event into the literal key-sequence
// notation used in tag keymaps ("a", "<CR>", "<Esc>", "<C-x>").
func KeyName(ev *tcell.EventKey) string {
	switch ev.Key() {
	case tcell.KeyRune:
		return string(ev.Rune())
	case tcell.KeyEnter:
		return "<CR>"
	case tcell.KeyEsc:
		return "<Esc>"
	case tcell.KeyTab:
		return "<Tab>"
	case tcell.KeyBacktab:
		return "<S-Tab>"
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return "<BS>"
	case tcell.KeyDelete:
		return "<Del>"
	case tcell.KeyUp:
		return "<Up>"
	case tcell.KeyDown:
		return "<Down>"
	case tcell.KeyLeft:
		return "<Left>"
	case tcell.KeyRight:
		return "<Right>"
	case tcell.KeyHome:
		return "<Home>"
	case tcell.KeyEnd:
		return "<End>"
	default:
		if ev.Key() >= tcell.KeyCtrlA && ev.Key() <= tcell.KeyCtrlZ {
			return "<C-" + string(rune('a'+ev.Key()-tcell.KeyCtrlA)) + ">"
		}
		return ev.Name()
	}
}
