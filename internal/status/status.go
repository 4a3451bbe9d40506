// Package status serves a small read-only HTTP view of a shared ball.
package status

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"github.com/diegok/pixball/internal/protocol"
)

// Source is what the share server exposes to the status endpoint.
type Source interface {
	Latest() (protocol.BallSnapshot, bool)
	WatcherCount() int
}

// Ball is the JSON shape of GET /ball.
type Ball struct {
	Frame    int        `json:"frame"`
	X        float64    `json:"x"`
	Y        float64    `json:"y"`
	VX       float64    `json:"vx"`
	VY       float64    `json:"vy"`
	Radius   float64    `json:"radius"`
	Mode     string     `json:"mode"`
	Viewport [2]float64 `json:"viewport"`
	Watchers int        `json:"watchers"`
}

// NewHandler builds the gin router.
func NewHandler(src Source) http.Handler {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.LoggerWithWriter(log.Writer()), gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ball", func(c *gin.Context) {
		snap, ok := src.Latest()
		if !ok {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no frame yet"})
			return
		}

		mode := "free"
		if snap.Dragging {
			mode = "dragging"
		}
		c.JSON(http.StatusOK, Ball{
			Frame:    snap.Frame,
			X:        snap.X,
			Y:        snap.Y,
			VX:       snap.VX,
			VY:       snap.VY,
			Radius:   snap.Radius,
			Mode:     mode,
			Viewport: [2]float64{snap.ViewportWidth, snap.ViewportHeight},
			Watchers: src.WatcherCount(),
		})
	})

	return r
}

// Server runs the status handler on its own port.
type Server struct {
	port     int
	src      Source
	srv      *http.Server
	listener net.Listener
}

func NewServer(port int, src Source) *Server {
	return &Server{port: port, src: src}
}

// Start listens and serves in the background.
func (s *Server) Start() error {
	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", s.port))
	if err != nil {
		return errors.Wrap(err, "failed to start status server")
	}
	s.listener = listener
	s.srv = &http.Server{
		Handler:           NewHandler(s.src),
		ReadHeaderTimeout: 5 * time.Second,
	}
	log.Printf("status: listening on %s", listener.Addr())

	go func() {
		if err := s.srv.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Printf("status: %v", err)
		}
	}()
	return nil
}

// Addr returns the listening address, or nil before Start.
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Stop shuts the server down, waiting up to a second for open requests.
func (s *Server) Stop() error {
	if s.srv == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	return errors.Wrap(s.srv.Shutdown(ctx), "failed to stop status server")
}
