package ui

import (
	"time"

	"github.com/gdamore/tcell/v2"
)

// Pointer is a mouse event translated to virtual pixels.
type Pointer struct {
	X, Y    float64
	At      time.Time
	Pressed bool
	Wheel   int // rows to scroll, negative is up
}

// wheelRows is how far one wheel notch scrolls.
const wheelRows = 3

// PointerFromMouse converts a tcell mouse event. The position is the center
// of the cell under the pointer.
func PointerFromMouse(ev *tcell.EventMouse, page *Page) Pointer {
	col, row := ev.Position()
	x, y := page.CellCenter(col, row)

	btn := ev.Buttons()
	p := Pointer{
		X:       x,
		Y:       y,
		At:      ev.When(),
		Pressed: btn&tcell.Button1 != 0,
	}
	if btn&tcell.WheelUp != 0 {
		p.Wheel = -wheelRows
	} else if btn&tcell.WheelDown != 0 {
		p.Wheel = wheelRows
	}
	return p
}

// IsQuitKey returns true if the key should quit the application
func IsQuitKey(key tcell.Key, r rune) bool {
	if key == tcell.KeyEscape || key == tcell.KeyCtrlC {
		return true
	}
	if key == tcell.KeyRune && (r == 'q' || r == 'Q') {
		return true
	}
	return false
}

// ScrollKey maps navigation keys to a scroll delta in rows. page is the
// number of visible document rows.
func ScrollKey(key tcell.Key, r rune, page int) (int, bool) {
	switch key {
	case tcell.KeyUp:
		return -1, true
	case tcell.KeyDown:
		return 1, true
	case tcell.KeyPgUp:
		return -max(1, page-1), true
	case tcell.KeyPgDn:
		return max(1, page-1), true
	case tcell.KeyHome:
		return -1 << 20, true
	case tcell.KeyEnd:
		return 1 << 20, true
	case tcell.KeyRune:
		switch r {
		case 'k', 'K':
			return -1, true
		case 'j', 'J':
			return 1, true
		case ' ':
			return max(1, page-1), true
		}
	}
	return 0, false
}
