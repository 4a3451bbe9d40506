package ui

import (
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"
)

// Palette used across the page
var (
	NavStyle    = tcell.StyleDefault.Background(tcell.ColorDarkSlateGray).Foreground(tcell.ColorWhite)
	BodyStyle   = tcell.StyleDefault.Foreground(tcell.ColorSilver)
	HeadStyle   = tcell.StyleDefault.Foreground(tcell.ColorTeal).Bold(true)
	FooterStyle = tcell.StyleDefault.Background(tcell.ColorDarkGray).Foreground(tcell.ColorWhite)
	HintStyle   = tcell.StyleDefault.Foreground(tcell.ColorGray)
)

type Screen struct {
	screen tcell.Screen
}

func NewScreen(s tcell.Screen) *Screen {
	return &Screen{screen: s}
}

// InitScreen opens the terminal with mouse motion and focus reporting on.
func InitScreen() (*Screen, error) {
	s, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := s.Init(); err != nil {
		return nil, err
	}
	s.EnableMouse(tcell.MouseMotionEvents)
	s.EnableFocus()
	s.HideCursor()
	return NewScreen(s), nil
}

func (s *Screen) Size() (int, int) {
	return s.screen.Size()
}

// HasMouse reports whether the terminal can deliver pointer events.
func (s *Screen) HasMouse() bool {
	return s.screen.HasMouse()
}

func (s *Screen) Clear() {
	s.screen.Clear()
}

func (s *Screen) Show() {
	s.screen.Show()
}

// Sync redraws everything, used after a resize.
func (s *Screen) Sync() {
	s.screen.Sync()
}

func (s *Screen) Fini() {
	s.screen.Fini()
}

func (s *Screen) SetCell(x, y int, style tcell.Style, r rune) {
	s.screen.SetContent(x, y, r, nil, style)
}

// DrawText writes text grapheme by grapheme and returns the columns used.
func (s *Screen) DrawText(x, y int, text string, style tcell.Style) int {
	col := x
	g := uniseg.NewGraphemes(text)
	for g.Next() {
		runes := g.Runes()
		s.screen.SetContent(col, y, runes[0], runes[1:], style)
		col += g.Width()
	}
	return col - x
}

// DrawCentered writes text centered on row y.
func (s *Screen) DrawCentered(y int, text string, style tcell.Style) {
	w, _ := s.Size()
	s.DrawText((w-TextWidth(text))/2, y, text, style)
}

func (s *Screen) FillRect(x, y, w, h int, style tcell.Style, r rune) {
	for dy := 0; dy < h; dy++ {
		for dx := 0; dx < w; dx++ {
			s.screen.SetContent(x+dx, y+dy, r, nil, style)
		}
	}
}

func (s *Screen) PollEvent() tcell.Event {
	return s.screen.PollEvent()
}

// TextWidth returns the display width of text in columns.
func TextWidth(text string) int {
	return uniseg.StringWidth(text)
}
