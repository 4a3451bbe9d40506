package server

import (
	"net"
	"sync"
	"time"

	"github.com/diegok/pixball/internal/protocol"
)

const (
	sendBufferSize = 64
	goodbyeTimeout = 200 * time.Millisecond
)

// Watcher is a connected mirror of the shared ball
type Watcher struct {
	ID     int
	Name   string
	Width  int
	Height int
	conn   net.Conn
	Codec  *protocol.Codec
	sendCh chan *protocol.Message
	done   chan struct{}
	mu     sync.Mutex
}

// NewWatcher creates a watcher for the given connection
func NewWatcher(id int, conn net.Conn) *Watcher {
	return &Watcher{
		ID:     id,
		conn:   conn,
		Codec:  protocol.NewCodec(conn),
		sendCh: make(chan *protocol.Message, sendBufferSize),
		done:   make(chan struct{}),
	}
}

// StartWriter starts the goroutine that writes messages to the connection
func (w *Watcher) StartWriter() {
	go func() {
		for {
			select {
			case <-w.done:
				return
			case msg := <-w.sendCh:
				if err := w.Codec.Encode(msg); err != nil {
					w.Close()
					return
				}
			}
		}
	}()
}

// Send queues a message (non-blocking). Snapshots are sent every frame, so
// a slow watcher just misses some.
func (w *Watcher) Send(msg *protocol.Message) bool {
	select {
	case w.sendCh <- msg:
		return true
	default:
		return false
	}
}

// SendDirect sends a message immediately (for handshake)
func (w *Watcher) SendDirect(msg *protocol.Message) error {
	return w.Codec.Encode(msg)
}

// Goodbye tells the watcher the share is ending, without waiting long for a
// stuck peer.
func (w *Watcher) Goodbye(reason string) {
	w.conn.SetWriteDeadline(time.Now().Add(goodbyeTimeout))
	w.SendDirect(&protocol.Message{Type: protocol.MsgBye, Payload: protocol.Bye{Reason: reason}})
}

// Done is closed when the watcher is closed
func (w *Watcher) Done() <-chan struct{} {
	return w.done
}

// Close closes the watcher connection
func (w *Watcher) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()

	select {
	case <-w.done:
		return
	default:
		close(w.done)
	}

	if w.conn != nil {
		w.conn.Close()
	}
}
