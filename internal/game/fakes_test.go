package game

import "math/rand"

type fakeGeometry struct {
	w, h   float64
	top    *Rect
	bottom *Rect
}

func (g *fakeGeometry) Viewport() (float64, float64) {
	return g.w, g.h
}

func (g *fakeGeometry) TopObstacle() (Rect, bool) {
	if g.top == nil {
		return Rect{}, false
	}
	return *g.top, true
}

func (g *fakeGeometry) BottomObstacle() (Rect, bool) {
	if g.bottom == nil {
		return Rect{}, false
	}
	return *g.bottom, true
}

type fakeSurface struct {
	left, top float64
	placed    int
	grabbed   bool
	hidden    bool
}

func (s *fakeSurface) Place(left, top float64) {
	s.left = left
	s.top = top
	s.placed++
}

func (s *fakeSurface) SetGrabbed(grabbed bool) {
	s.grabbed = grabbed
}

func (s *fakeSurface) Hide() {
	s.hidden = true
}

// pageGeometry is a 1024x768 viewport with a 48px navbar and no footer in view.
func pageGeometry() *fakeGeometry {
	return &fakeGeometry{
		w:   1024,
		h:   768,
		top: &Rect{X: 0, Y: 0, Width: 1024, Height: 48},
	}
}

func newTestController(seed int64) (*Controller, *fakeGeometry, *fakeSurface) {
	geom := pageGeometry()
	surf := &fakeSurface{}
	c := Mount(DefaultParams(), Device{ViewportWidth: geom.w}, geom, surf, rand.New(rand.NewSource(seed)))
	return c, geom, surf
}

// place puts the ball at (x, y) with velocity (vx, vy) in free mode.
func place(c *Controller, x, y, vx, vy float64) {
	c.ball.X, c.ball.Y = x, y
	c.ball.VX, c.ball.VY = vx, vy
}
