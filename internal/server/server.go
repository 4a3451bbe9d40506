package server

import (
	"fmt"
	"log"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/diegok/pixball/internal/protocol"
)

// Server constants
const (
	MaxWatchers      = 16
	MinTermWidth     = 40
	MinTermHeight    = 12
	handshakeTimeout = 5 * time.Second
)

// Server shares the local ball with watchers over TCP
type Server struct {
	port      int
	hostName  string
	listener  net.Listener
	mu        sync.RWMutex
	watchers  map[int]*Watcher
	nextID    int
	latest    protocol.BallSnapshot
	hasLatest bool
	done      chan struct{}
}

// NewServer creates a server for the given port. Port 0 picks a free one.
func NewServer(port int, hostName string) *Server {
	return &Server{
		port:     port,
		hostName: hostName,
		watchers: make(map[int]*Watcher),
		nextID:   1,
		done:     make(chan struct{}),
	}
}

// Start begins listening for connections
func (s *Server) Start() error {
	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", s.port))
	if err != nil {
		return errors.Wrap(err, "failed to start share server")
	}
	s.listener = listener
	log.Printf("share: listening on %s", listener.Addr())

	go s.acceptLoop()

	return nil
}

// Addr returns the listening address, or nil before Start.
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Stop says goodbye to every watcher and shuts down
func (s *Server) Stop() {
	s.mu.Lock()
	select {
	case <-s.done:
		s.mu.Unlock()
		return
	default:
		close(s.done)
	}
	watchers := make([]*Watcher, 0, len(s.watchers))
	for _, w := range s.watchers {
		watchers = append(watchers, w)
	}
	s.watchers = make(map[int]*Watcher)
	s.mu.Unlock()

	if s.listener != nil {
		s.listener.Close()
	}

	for _, w := range watchers {
		w.Goodbye("share stopped")
		w.Close()
	}
}

// Publish records the latest snapshot and broadcasts it
func (s *Server) Publish(snap protocol.BallSnapshot) {
	s.mu.Lock()
	s.latest = snap
	s.hasLatest = true
	s.mu.Unlock()

	s.broadcast(&protocol.Message{Type: protocol.MsgSnapshot, Payload: snap})
}

// Latest returns the most recently published snapshot
func (s *Server) Latest() (protocol.BallSnapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest, s.hasLatest
}

// WatcherCount returns the number of connected watchers
func (s *Server) WatcherCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.watchers)
}

// GetServerAddresses returns all local IPv4 addresses with the share port
func (s *Server) GetServerAddresses() []string {
	var addresses []string

	port := s.port
	if addr, ok := s.Addr().(*net.TCPAddr); ok {
		port = addr.Port
	}

	interfaces, err := net.Interfaces()
	if err != nil {
		return addresses
	}

	for _, iface := range interfaces {
		// Skip loopback and down interfaces
		if iface.Flags&net.FlagLoopback != 0 || iface.Flags&net.FlagUp == 0 {
			continue
		}

		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}

		for _, addr := range addrs {
			var ip net.IP
			switch v := addr.(type) {
			case *net.IPNet:
				ip = v.IP
			case *net.IPAddr:
				ip = v.IP
			}

			if ip != nil && ip.To4() != nil {
				addresses = append(addresses, net.JoinHostPort(ip.String(), strconv.Itoa(port)))
			}
		}
	}

	return addresses
}

// acceptLoop accepts incoming connections
func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-s.done:
				return
			default:
				continue
			}
		}

		go s.handleConnection(conn)
	}
}

// handleConnection runs the handshake and then waits for the watcher to
// hang up
func (s *Server) handleConnection(conn net.Conn) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.mu.Unlock()

	w := NewWatcher(id, conn)

	conn.SetReadDeadline(time.Now().Add(handshakeTimeout))
	msg, err := w.Codec.Decode()
	if err != nil {
		conn.Close()
		return
	}
	conn.SetReadDeadline(time.Time{})

	if msg.Type != protocol.MsgWatchRequest {
		conn.Close()
		return
	}

	req, ok := msg.Payload.(protocol.WatchRequest)
	if !ok {
		conn.Close()
		return
	}

	if reason := s.admit(req); reason != "" {
		w.SendDirect(&protocol.Message{
			Type:    protocol.MsgWatchResponse,
			Payload: protocol.WatchResponse{Accepted: false, Reason: reason},
		})
		conn.Close()
		return
	}

	w.Name = req.Name
	if w.Name == "" {
		w.Name = fmt.Sprintf("Watcher%d", id)
	}
	w.Width = req.TerminalWidth
	w.Height = req.TerminalHeight

	err = w.SendDirect(&protocol.Message{
		Type: protocol.MsgWatchResponse,
		Payload: protocol.WatchResponse{
			WatcherID: strconv.Itoa(id),
			Accepted:  true,
			HostName:  s.hostName,
		},
	})
	if err != nil {
		conn.Close()
		return
	}

	s.mu.Lock()
	select {
	case <-s.done:
		s.mu.Unlock()
		w.Close()
		return
	default:
	}
	s.watchers[id] = w
	latest, hasLatest := s.latest, s.hasLatest
	s.mu.Unlock()

	log.Printf("share: %s joined (%dx%d)", w.Name, w.Width, w.Height)

	w.StartWriter()
	if hasLatest {
		w.Send(&protocol.Message{Type: protocol.MsgSnapshot, Payload: latest})
	}

	// Watchers only ever say goodbye; any read ends the session.
	for {
		msg, err := w.Codec.Decode()
		if err != nil || msg.Type == protocol.MsgBye {
			s.removeWatcher(id)
			return
		}
	}
}

// admit returns a rejection reason, or "" to accept
func (s *Server) admit(req protocol.WatchRequest) string {
	if req.TerminalWidth < MinTermWidth || req.TerminalHeight < MinTermHeight {
		return fmt.Sprintf("Terminal too small. Minimum: %dx%d", MinTermWidth, MinTermHeight)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.watchers) >= MaxWatchers {
		return fmt.Sprintf("Too many watchers (max %d)", MaxWatchers)
	}
	return ""
}

// broadcast sends a message to all connected watchers
func (s *Server) broadcast(msg *protocol.Message) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, w := range s.watchers {
		w.Send(msg)
	}
}

// removeWatcher drops a watcher from the server
func (s *Server) removeWatcher(id int) {
	s.mu.Lock()
	w, exists := s.watchers[id]
	delete(s.watchers, id)
	s.mu.Unlock()

	if !exists {
		return
	}
	w.Close()
	log.Printf("share: %s left", w.Name)
}
