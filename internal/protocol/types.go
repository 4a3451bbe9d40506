package protocol

import (
	"encoding/gob"

	"github.com/diegok/pixball/internal/game"
)

// MessageType identifies the type of network message
type MessageType int

const (
	MsgWatchRequest MessageType = iota
	MsgWatchResponse
	MsgSnapshot
	MsgBye
)

func (t MessageType) String() string {
	switch t {
	case MsgWatchRequest:
		return "watch-request"
	case MsgWatchResponse:
		return "watch-response"
	case MsgSnapshot:
		return "snapshot"
	case MsgBye:
		return "bye"
	default:
		return "unknown"
	}
}

// Message is the wrapper for all network messages
type Message struct {
	Type    MessageType
	Payload interface{}
}

// WatchRequest is sent by a client wanting to mirror the ball
type WatchRequest struct {
	Name           string
	TerminalWidth  int
	TerminalHeight int
}

// WatchResponse is sent by the server in response to a watch request
type WatchResponse struct {
	WatcherID string
	Accepted  bool
	Reason    string
	HostName  string
}

// BallSnapshot is one frame of the shared ball
type BallSnapshot struct {
	Frame          int
	X              float64
	Y              float64
	VX             float64
	VY             float64
	Radius         float64
	Dragging       bool
	ViewportWidth  float64
	ViewportHeight float64
}

// Bye tells watchers the sharing side is going away
type Bye struct {
	Reason string
}

// FromSnapshot converts a controller snapshot for the wire
func FromSnapshot(s game.Snapshot) BallSnapshot {
	return BallSnapshot{
		Frame:          s.Frame,
		X:              s.X,
		Y:              s.Y,
		VX:             s.VX,
		VY:             s.VY,
		Radius:         s.Radius,
		Dragging:       s.Mode == game.ModeDragging,
		ViewportWidth:  s.ViewportWidth,
		ViewportHeight: s.ViewportHeight,
	}
}

// Scaled maps the ball center into a viewport of the given size
func (b BallSnapshot) Scaled(width, height float64) (x, y float64) {
	if b.ViewportWidth <= 0 || b.ViewportHeight <= 0 {
		return b.X, b.Y
	}
	return b.X * width / b.ViewportWidth, b.Y * height / b.ViewportHeight
}

func init() {
	// Register all payload types with gob for network serialization
	gob.Register(WatchRequest{})
	gob.Register(WatchResponse{})
	gob.Register(BallSnapshot{})
	gob.Register(Bye{})
}
