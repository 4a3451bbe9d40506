package game

import (
	"math"
	"math/rand"
	"time"
)

// DefaultMinViewportWidth is the narrowest viewport the ball runs on.
const DefaultMinViewportWidth = 768.0

// Params are the controller's tuning values. They are fixed for the
// lifetime of a controller.
type Params struct {
	Radius           float64
	Damping          float64
	BounceDamping    float64
	MinVelocity      float64
	MaxThrow         float64
	MinViewportWidth float64
}

// DefaultParams returns the stock tuning.
func DefaultParams() Params {
	return Params{
		Radius:           DefaultRadius,
		Damping:          DefaultDamping,
		BounceDamping:    DefaultBounceDamping,
		MinVelocity:      DefaultMinVelocity,
		MaxThrow:         DefaultMaxThrow,
		MinViewportWidth: DefaultMinViewportWidth,
	}
}

// Device describes the display the ball would run on.
type Device struct {
	ViewportWidth float64
	// NoPointer is set when the display cannot deliver pointer presses and
	// motion (the terminal equivalent of a touch-primary device).
	NoPointer bool
}

// Small reports whether the ball should stay disabled on this device.
func (d Device) Small(minWidth float64) bool {
	return d.NoPointer || d.ViewportWidth < minWidth
}

// Surface is where the ball is drawn.
type Surface interface {
	// Place moves the ball's top-left corner.
	Place(left, top float64)
	SetGrabbed(grabbed bool)
	Hide()
}

// Wall identifies an arena edge.
type Wall int

const (
	WallLeft Wall = iota
	WallRight
	WallTop
	WallBottom
)

func (w Wall) String() string {
	switch w {
	case WallLeft:
		return "left"
	case WallRight:
		return "right"
	case WallTop:
		return "top"
	default:
		return "bottom"
	}
}

// Sample is a pointer position at a point in time.
type Sample struct {
	X, Y float64
	At   time.Time
}

// Controller owns the ball and switches it between free motion and drag.
// It is not safe for concurrent use; the caller's event loop is the only
// goroutine that may call it.
type Controller struct {
	params Params
	geom   Geometry
	surf   Surface
	rng    *rand.Rand

	ball     *Ball
	mode     Mode
	anchor   *Sample
	last     *Sample
	disposed bool

	// OnBounce, if set, is called after every wall reflection.
	OnBounce func(Wall)
}

// Mount creates a controller and places the ball at a random spot with a
// random velocity. It returns nil without error when there is no surface,
// and hides the surface and returns nil when the device is too small.
func Mount(p Params, dev Device, geom Geometry, surf Surface, rng *rand.Rand) *Controller {
	if surf == nil || geom == nil {
		return nil
	}
	if dev.Small(p.MinViewportWidth) {
		surf.Hide()
		return nil
	}

	c := &Controller{
		params: p,
		geom:   geom,
		surf:   surf,
		rng:    rng,
		ball:   NewBall(0, 0, p.Radius),
	}

	b := c.Bounds()
	c.ball.X = b.MinX + rng.Float64()*math.Max(0, b.MaxX-b.MinX)
	c.ball.Y = b.MinY + rng.Float64()*math.Max(0, b.MaxY-b.MinY)
	c.ball.X, c.ball.Y = b.Clamp(c.ball.X, c.ball.Y)

	c.ball.Launch(rng)
	c.floorVelocity()

	c.commit()
	return c
}

// Bounds returns the current center limits from live geometry.
func (c *Controller) Bounds() Bounds {
	return ComputeBounds(c.geom, c.params.Radius)
}

// Frame runs one animation frame. It returns false once the controller has
// been disposed, which ends the caller's frame loop. While dragging the
// frame is a no-op but the loop keeps going.
func (c *Controller) Frame() bool {
	if c.disposed {
		return false
	}
	if c.mode == ModeDragging {
		return true
	}

	b := c.Bounds()

	c.ball.Damp(c.params.Damping)
	c.floorVelocity()

	c.ball.Move()

	if c.ball.X <= b.MinX {
		c.ball.X = b.MinX
		c.ball.VX = c.reflect(c.ball.VX, 1, WallLeft)
	} else if c.ball.X >= b.MaxX {
		c.ball.X = b.MaxX
		c.ball.VX = c.reflect(c.ball.VX, -1, WallRight)
	}

	if c.ball.Y <= b.MinY {
		c.ball.Y = b.MinY
		c.ball.VY = c.reflect(c.ball.VY, 1, WallTop)
	} else if c.ball.Y >= b.MaxY {
		c.ball.Y = b.MaxY
		c.ball.VY = c.reflect(c.ball.VY, -1, WallBottom)
	}

	c.commit()
	return true
}

// reflect bounces v off a wall whose inward direction has the sign of
// inward. A velocity already heading inward (the arena moved under the
// ball) is left alone.
func (c *Controller) reflect(v, inward float64, w Wall) float64 {
	if v*inward < 0 {
		v = -v * c.params.BounceDamping
		if c.OnBounce != nil {
			c.OnBounce(w)
		}
	}
	return FloorSpeed(v, c.params.MinVelocity, c.rng)
}

// Hit reports whether (x, y) lands on the ball.
func (c *Controller) Hit(x, y float64) bool {
	r := c.params.Radius
	return math.Abs(x-c.ball.X) <= r && math.Abs(y-c.ball.Y) <= r
}

// StartDrag grabs the ball if the pointer is on it. It reports whether a
// drag started.
func (c *Controller) StartDrag(s Sample) bool {
	if c.disposed || c.mode == ModeDragging || !c.Hit(s.X, s.Y) {
		return false
	}

	c.mode = ModeDragging
	anchor, last := s, s
	c.anchor = &anchor
	c.last = &last
	c.ball.Stop()
	c.surf.SetGrabbed(true)
	return true
}

// DragMove follows the pointer and estimates the throw velocity from the
// last two samples.
func (c *Controller) DragMove(s Sample) {
	if c.mode != ModeDragging {
		return
	}

	b := c.Bounds()
	x, y := b.Clamp(s.X, s.Y)

	elapsed := math.Max(1, float64(s.At.Sub(c.last.At))/float64(time.Millisecond))
	c.ball.VX = ClampSpeed((x-c.last.X)/elapsed*ThrowScale, c.params.MaxThrow)
	c.ball.VY = ClampSpeed((y-c.last.Y)/elapsed*ThrowScale, c.params.MaxThrow)

	c.ball.X, c.ball.Y = x, y
	c.last = &Sample{X: x, Y: y, At: s.At}

	c.commit()
}

// EndDrag releases the ball with the last estimated velocity. A release
// that would leave the ball resting gets the minimum speed instead.
func (c *Controller) EndDrag() {
	if c.mode != ModeDragging {
		return
	}

	c.mode = ModeFree
	c.anchor = nil
	c.last = nil
	c.surf.SetGrabbed(false)
	c.floorVelocity()
}

// Reclamp pulls the ball back inside the arena after the viewport was
// resized or scrolled. Velocity is kept.
func (c *Controller) Reclamp() {
	if c.disposed {
		return
	}
	b := c.Bounds()
	c.ball.X, c.ball.Y = b.Clamp(c.ball.X, c.ball.Y)
	c.commit()
}

// Dispose stops the controller. Later frames report false.
func (c *Controller) Dispose() {
	c.disposed = true
}

func (c *Controller) Mode() Mode {
	return c.mode
}

func (c *Controller) Position() (x, y float64) {
	return c.ball.X, c.ball.Y
}

func (c *Controller) Velocity() (vx, vy float64) {
	return c.ball.VX, c.ball.VY
}

func (c *Controller) Radius() float64 {
	return c.params.Radius
}

// DragAnchor returns where the current drag started.
func (c *Controller) DragAnchor() (Sample, bool) {
	if c.anchor == nil {
		return Sample{}, false
	}
	return *c.anchor, true
}

func (c *Controller) floorVelocity() {
	c.ball.VX = FloorSpeed(c.ball.VX, c.params.MinVelocity, c.rng)
	c.ball.VY = FloorSpeed(c.ball.VY, c.params.MinVelocity, c.rng)
}

func (c *Controller) commit() {
	r := c.params.Radius
	c.surf.Place(c.ball.X-r, c.ball.Y-r)
}
