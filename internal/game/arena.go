package game

import "math"

// Rect is an axis-aligned rectangle in viewport space.
type Rect struct {
	X, Y          float64
	Width, Height float64
}

func (r Rect) Bottom() float64 {
	return r.Y + r.Height
}

// Geometry is the live layout the ball is confined by. It is queried on
// every frame, drag move and correction because the page can reflow.
type Geometry interface {
	// Viewport returns the visible width and height.
	Viewport() (w, h float64)
	// TopObstacle returns the fixed bar at the top, if any.
	TopObstacle() (Rect, bool)
	// BottomObstacle returns the bar below the arena, if any. Its Y may be
	// past the viewport when it is scrolled out of view.
	BottomObstacle() (Rect, bool)
}

// Bounds are the limits for the ball's center.
type Bounds struct {
	MinX, MaxX float64
	MinY, MaxY float64
}

// ComputeBounds derives the center limits for a ball of the given radius.
// A missing top obstacle counts as zero height; a missing bottom obstacle
// leaves the viewport edge as the floor.
func ComputeBounds(g Geometry, radius float64) Bounds {
	w, h := g.Viewport()

	top := 0.0
	if r, ok := g.TopObstacle(); ok {
		top = r.Bottom()
	}

	bottom := h
	if r, ok := g.BottomObstacle(); ok {
		bottom = math.Min(h, r.Y)
	}

	return Bounds{
		MinX: radius,
		MaxX: w - radius,
		MinY: top + radius,
		MaxY: bottom - radius,
	}
}

// Clamp pulls (x, y) inside the bounds. When the arena is narrower than the
// ball the minimum wins.
func (b Bounds) Clamp(x, y float64) (float64, float64) {
	return clamp(x, b.MinX, b.MaxX), clamp(y, b.MinY, b.MaxY)
}

// Contains reports whether (x, y) is inside the bounds.
func (b Bounds) Contains(x, y float64) bool {
	cx, cy := b.Clamp(x, y)
	return cx == x && cy == y
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
