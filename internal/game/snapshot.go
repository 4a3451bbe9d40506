package game

// Snapshot is a read-only copy of the ball, taken between frames.
type Snapshot struct {
	Frame          int
	X, Y           float64
	VX, VY         float64
	Radius         float64
	Mode           Mode
	ViewportWidth  float64
	ViewportHeight float64
}

// Snapshot copies the current state. frame is the caller's frame counter.
func (c *Controller) Snapshot(frame int) Snapshot {
	w, h := c.geom.Viewport()
	return Snapshot{
		Frame:          frame,
		X:              c.ball.X,
		Y:              c.ball.Y,
		VX:             c.ball.VX,
		VY:             c.ball.VY,
		Radius:         c.params.Radius,
		Mode:           c.mode,
		ViewportWidth:  w,
		ViewportHeight: h,
	}
}
