package game

import (
	"math"
	"math/rand"
)

// Tuning constants, in virtual pixels and pixels per frame.
const (
	DefaultRadius        = 24.0
	DefaultDamping       = 0.998 // continuous, applied every frame
	DefaultBounceDamping = 0.85  // applied on wall contact
	DefaultMinVelocity   = 0.15
	DefaultMaxThrow      = 12.0
	ThrowScale           = 16.0 // ms per frame at ~60fps
	InitialSpeedMin      = 2.0
	InitialSpeedSpread   = 4.0
)

// Mode is the ball's control mode.
type Mode int

const (
	ModeFree Mode = iota
	ModeDragging
)

func (m Mode) String() string {
	if m == ModeDragging {
		return "dragging"
	}
	return "free"
}

// Ball is the simulated body. X, Y is the center.
type Ball struct {
	X, Y   float64
	VX, VY float64
	Radius float64
}

func NewBall(x, y, radius float64) *Ball {
	return &Ball{X: x, Y: y, Radius: radius}
}

// Move advances the ball by its velocity
func (b *Ball) Move() {
	b.X += b.VX
	b.Y += b.VY
}

// Damp multiplies both velocity components by factor
func (b *Ball) Damp(factor float64) {
	b.VX *= factor
	b.VY *= factor
}

// Stop zeroes the velocity
func (b *Ball) Stop() {
	b.VX = 0
	b.VY = 0
}

// Speed returns current speed
func (b *Ball) Speed() float64 {
	return math.Sqrt(b.VX*b.VX + b.VY*b.VY)
}

// Launch sets a random velocity with magnitude in
// [InitialSpeedMin, InitialSpeedMin+InitialSpeedSpread) and a random sign per axis.
func (b *Ball) Launch(rng *rand.Rand) {
	b.VX = randomSign(rng) * (InitialSpeedMin + rng.Float64()*InitialSpeedSpread)
	b.VY = randomSign(rng) * (InitialSpeedMin + rng.Float64()*InitialSpeedSpread)
}

// FloorSpeed keeps v at least floor in magnitude. The sign is preserved; an
// exact zero (either sign) gets a random one.
func FloorSpeed(v, floor float64, rng *rand.Rand) float64 {
	if v == 0 {
		return randomSign(rng) * floor
	}
	if math.Abs(v) < floor {
		return math.Copysign(floor, v)
	}
	return v
}

// ClampSpeed limits v to [-limit, limit].
func ClampSpeed(v, limit float64) float64 {
	return math.Max(-limit, math.Min(limit, v))
}

func randomSign(rng *rand.Rand) float64 {
	if rng.Intn(2) == 0 {
		return -1
	}
	return 1
}
