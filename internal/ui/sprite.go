package ui

import (
	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

const (
	GrabScale    = 1.2
	grabDuration = 0.15 // seconds
)

var (
	ballColor    = colorful.Color{R: 0.93, G: 0.36, B: 0.25}
	grabbedColor = colorful.Color{R: 1.0, G: 0.78, B: 0.2}
)

// BallSprite is the ball as the terminal shows it. It implements
// game.Surface.
type BallSprite struct {
	Radius float64

	left, top float64
	placed    bool
	hidden    bool
	grabbed   bool

	scale float64
	tween *gween.Tween
}

func NewBallSprite(radius float64) *BallSprite {
	return &BallSprite{Radius: radius, scale: 1}
}

// Place implements game.Surface.
func (s *BallSprite) Place(left, top float64) {
	s.left, s.top = left, top
	s.placed = true
}

// SetGrabbed implements game.Surface. The ball grows while held.
func (s *BallSprite) SetGrabbed(grabbed bool) {
	if grabbed == s.grabbed {
		return
	}
	s.grabbed = grabbed

	to := float32(1)
	fn := ease.OutQuad
	if grabbed {
		to = GrabScale
		fn = ease.OutBack
	}
	s.tween = gween.New(float32(s.scale), to, grabDuration, fn)
}

// Hide implements game.Surface.
func (s *BallSprite) Hide() {
	s.hidden = true
}

// Update advances the grab animation by dt seconds.
func (s *BallSprite) Update(dt float32) {
	if s.tween == nil {
		return
	}
	v, done := s.tween.Update(dt)
	s.scale = float64(v)
	if done {
		s.tween = nil
	}
}

func (s *BallSprite) Visible() bool {
	return s.placed && !s.hidden
}

func (s *BallSprite) Grabbed() bool {
	return s.grabbed
}

func (s *BallSprite) Scale() float64 {
	return s.scale
}

// Center returns the ball center in virtual pixels.
func (s *BallSprite) Center() (x, y float64) {
	return s.left + s.Radius, s.top + s.Radius
}

// Color blends from the resting to the grabbed color as the ball grows.
func (s *BallSprite) Color() tcell.Color {
	t := (s.scale - 1) / (GrabScale - 1)
	t = max(0, min(1, t))
	r, g, b := ballColor.BlendLab(grabbedColor, t).Clamped().RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}
