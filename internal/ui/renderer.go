package ui

import (
	"fmt"
	"math"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/diegok/pixball/internal/protocol"
)

// BallChar fills the cells covered by the ball.
const BallChar = '█'

// Status is the short line shown on the right of the navbar.
type Status struct {
	Text  string
	Style tcell.Style
}

// Renderer handles rendering all screens
type Renderer struct {
	screen *Screen
}

// NewRenderer creates a new renderer with the given screen
func NewRenderer(screen *Screen) *Renderer {
	return &Renderer{screen: screen}
}

// RenderPage draws the page with the local ball on top.
func (r *Renderer) RenderPage(page *Page, ball *BallSprite, status Status) {
	r.screen.Clear()
	r.drawPage(page, status)

	if ball.Visible() {
		x, y := ball.Center()
		r.drawBall(page, x, y, ball.Radius*ball.Scale(), ball.Color())
	}

	r.screen.Show()
}

// RenderWatch draws the page with a remote ball scaled to this viewport.
func (r *Renderer) RenderWatch(page *Page, snap protocol.BallSnapshot, ok bool, status Status) {
	r.screen.Clear()
	r.drawPage(page, status)

	if ok {
		w, h := page.Viewport()
		x, y := snap.Scaled(w, h)
		radius := snap.Radius
		if snap.ViewportWidth > 0 {
			radius *= w / snap.ViewportWidth
		}
		color := tcell.NewRGBColor(238, 92, 64)
		if snap.Dragging {
			radius *= GrabScale
			color = tcell.NewRGBColor(255, 199, 51)
		}
		r.drawBall(page, x, y, radius, color)
	}

	r.screen.Show()
}

func (r *Renderer) drawPage(page *Page, status Status) {
	cols, rows := page.Size()

	// Navbar
	r.screen.FillRect(0, 0, cols, min(NavRows, rows), NavStyle, ' ')
	r.screen.DrawText(2, 1, page.Title, NavStyle.Bold(true))
	x := 2 + TextWidth(page.Title) + 4
	for _, item := range page.NavItems {
		x += r.screen.DrawText(x, 1, item, NavStyle) + 3
	}
	if status.Text != "" {
		r.screen.DrawText(cols-TextWidth(status.Text)-2, 1, status.Text, status.Style.Background(tcell.ColorDarkSlateGray))
	}

	// Body and footer, scrolled under the navbar
	footerRow := page.FooterRow()
	for row := NavRows; row < rows; row++ {
		doc := row - NavRows + page.ScrollOffset()
		switch {
		case doc < len(page.Body):
			line := page.Body[doc]
			style := BodyStyle
			if line.Heading {
				style = HeadStyle
			}
			r.screen.DrawText(4, row, line.Text, style)
		case row >= footerRow && row-footerRow < len(page.Footer):
			r.screen.FillRect(0, row, cols, 1, FooterStyle, ' ')
			text := page.Footer[row-footerRow]
			r.screen.DrawText((cols-TextWidth(text))/2, row, text, FooterStyle)
		}
	}
}

// drawBall fills every cell whose center lies inside the circle.
func (r *Renderer) drawBall(page *Page, cx, cy, radius float64, color tcell.Color) {
	minCol, minRow := page.ToCell(cx-radius, cy-radius)
	maxCol, maxRow := page.ToCell(cx+radius, cy+radius)
	style := tcell.StyleDefault.Foreground(color)

	for row := minRow; row <= maxRow; row++ {
		for col := minCol; col <= maxCol; col++ {
			x, y := page.CellCenter(col, row)
			if math.Hypot(x-cx, y-cy) <= radius {
				r.screen.SetCell(col, row, style, BallChar)
			}
		}
	}
}

// RenderConnecting displays the connecting screen
func (r *Renderer) RenderConnecting(addr string) {
	r.screen.Clear()
	_, screenH := r.screen.Size()

	r.screen.DrawCentered(screenH/2-3, "PIXBALL", tcell.StyleDefault.Bold(true).Foreground(tcell.ColorTeal))
	r.screen.DrawCentered(screenH/2, fmt.Sprintf("Connecting to %s...", addr), tcell.StyleDefault.Foreground(tcell.ColorYellow))
	r.screen.DrawCentered(screenH/2+3, "Press 'q' to cancel", HintStyle)

	r.screen.Show()
}

// RenderError displays an error screen
func (r *Renderer) RenderError(err string) {
	r.screen.Clear()
	screenW, screenH := r.screen.Size()

	r.screen.DrawCentered(screenH/2-2, "ERROR", tcell.StyleDefault.Bold(true).Foreground(tcell.ColorRed))

	// Truncate if too long
	maxErrLen := screenW - 4
	errMsg := strings.ReplaceAll(err, "\n", " ")
	if maxErrLen > 3 && TextWidth(errMsg) > maxErrLen {
		errMsg = string([]rune(errMsg)[:maxErrLen-3]) + "..."
	}
	r.screen.DrawCentered(screenH/2, errMsg, tcell.StyleDefault.Foreground(tcell.ColorWhite))

	r.screen.DrawCentered(screenH/2+3, "Press any key to continue", HintStyle)

	r.screen.Show()
}
