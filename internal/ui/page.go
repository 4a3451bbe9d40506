package ui

import (
	"math"

	"github.com/diegok/pixball/internal/game"
)

// NavRows is the height of the fixed navigation bar.
const NavRows = 3

// Page is the scrollable portfolio document the ball floats over. It
// implements game.Geometry: the navbar is the top obstacle, the footer at
// the end of the document is the bottom obstacle.
type Page struct {
	CellWidth  int
	CellHeight int

	Title    string
	NavItems []string
	Body     []Line
	Footer   []string

	cols, rows int
	scroll     int
}

// Line is one row of the document body.
type Line struct {
	Text    string
	Heading bool
}

// NewPage creates the default portfolio page.
func NewPage(cellW, cellH int) *Page {
	return &Page{
		CellWidth:  cellW,
		CellHeight: cellH,
		Title:      "pixball",
		NavItems:   []string{"About", "Experience", "Projects", "Contact"},
		Body:       defaultBody(),
		Footer: []string{
			"",
			"Built in the terminal. Drag the ball, throw it, watch it bounce.",
			"q to quit | wheel or arrows to scroll",
			"",
		},
	}
}

// SetSize updates the terminal size in cells and keeps the scroll valid.
func (p *Page) SetSize(cols, rows int) {
	p.cols, p.rows = cols, rows
	p.scroll = clampInt(p.scroll, 0, p.MaxScroll())
}

func (p *Page) Size() (cols, rows int) {
	return p.cols, p.rows
}

// ViewRows is the number of document rows visible below the navbar.
func (p *Page) ViewRows() int {
	return max(0, p.rows-NavRows)
}

// DocRows is the document length in rows, footer included.
func (p *Page) DocRows() int {
	return len(p.Body) + len(p.Footer)
}

func (p *Page) MaxScroll() int {
	return max(0, p.DocRows()-p.ViewRows())
}

func (p *Page) ScrollOffset() int {
	return p.scroll
}

// Scroll moves the document by delta rows and reports whether it moved.
func (p *Page) Scroll(delta int) bool {
	next := clampInt(p.scroll+delta, 0, p.MaxScroll())
	if next == p.scroll {
		return false
	}
	p.scroll = next
	return true
}

// Viewport implements game.Geometry.
func (p *Page) Viewport() (w, h float64) {
	return float64(p.cols * p.CellWidth), float64(p.rows * p.CellHeight)
}

// TopObstacle implements game.Geometry.
func (p *Page) TopObstacle() (game.Rect, bool) {
	w, _ := p.Viewport()
	return game.Rect{Width: w, Height: float64(NavRows * p.CellHeight)}, true
}

// BottomObstacle implements game.Geometry. The footer's Y is past the
// viewport while it is scrolled out of view.
func (p *Page) BottomObstacle() (game.Rect, bool) {
	if len(p.Footer) == 0 {
		return game.Rect{}, false
	}
	w, _ := p.Viewport()
	return game.Rect{
		Y:      float64(p.FooterRow() * p.CellHeight),
		Width:  w,
		Height: float64(len(p.Footer) * p.CellHeight),
	}, true
}

// FooterRow is the screen row where the footer starts.
func (p *Page) FooterRow() int {
	return NavRows + len(p.Body) - p.scroll
}

// CellCenter converts a cell to the virtual pixel at its center.
func (p *Page) CellCenter(col, row int) (x, y float64) {
	return (float64(col) + 0.5) * float64(p.CellWidth), (float64(row) + 0.5) * float64(p.CellHeight)
}

// ToCell converts a virtual pixel position to the cell containing it.
func (p *Page) ToCell(x, y float64) (col, row int) {
	return int(math.Floor(x / float64(p.CellWidth))), int(math.Floor(y / float64(p.CellHeight)))
}

func clampInt(v, lo, hi int) int {
	return max(lo, min(hi, v))
}

func defaultBody() []Line {
	text := []string{
		"# About",
		"",
		"I build small, sturdy tools: network services, terminal programs,",
		"and the occasional toy that bounces around the screen.",
		"",
		"# Experience",
		"",
		"2023 - now    Platform engineer. Event pipelines and deploy tooling.",
		"2019 - 2023   Backend developer. APIs, queues and the pager that came with them.",
		"2016 - 2019   Support engineer. Learned to read logs before reading code.",
		"",
		"# Projects",
		"",
		"pixpong       Multiplayer pong in the terminal, over TCP.",
		"pixball       This page. A ball that never quite stops.",
		"tidewatch     Tide tables scraped, cached and served as JSON.",
		"notes-sync    Markdown notes mirrored between machines.",
		"",
		"# Skills",
		"",
		"Go, SQL, shell, a little C. Linux, containers, TCP and friends.",
		"",
		"# Contact",
		"",
		"Mail is best. Replies within a day, usually.",
		"",
	}

	lines := make([]Line, len(text))
	for i, t := range text {
		if len(t) > 2 && t[:2] == "# " {
			lines[i] = Line{Text: t[2:], Heading: true}
			continue
		}
		lines[i] = Line{Text: t}
	}
	return lines
}
