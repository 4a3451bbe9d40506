package client

import (
	"io"
	"net"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/diegok/pixball/internal/protocol"
)

const (
	channelBufferSize = 16
	connectTimeout    = 5 * time.Second
)

// Client mirrors the ball of a sharing pixball.
type Client struct {
	Name      string
	Width     int
	Height    int
	WatcherID string
	HostName  string
	conn      net.Conn
	codec     *protocol.Codec
	mu        sync.Mutex
	connected bool
	closeOnce sync.Once
	Snapshots chan protocol.BallSnapshot
	Bye       chan protocol.Bye
	Error     chan error
	done      chan struct{}
}

// NewClient creates a new client with the given name and terminal dimensions.
func NewClient(name string, width, height int) *Client {
	return &Client{
		Name:      name,
		Width:     width,
		Height:    height,
		Snapshots: make(chan protocol.BallSnapshot, channelBufferSize),
		Bye:       make(chan protocol.Bye, 1),
		Error:     make(chan error, channelBufferSize),
		done:      make(chan struct{}),
	}
}

// Connect establishes a connection to the server at the given address.
// It sends a WatchRequest and waits for a WatchResponse before returning.
func (c *Client) Connect(addr string) error {
	conn, err := net.DialTimeout("tcp", addr, connectTimeout)
	if err != nil {
		return errors.Wrap(err, "failed to connect to share")
	}

	c.conn = conn
	c.codec = protocol.NewCodec(conn)

	req := protocol.Message{
		Type: protocol.MsgWatchRequest,
		Payload: protocol.WatchRequest{
			Name:           c.Name,
			TerminalWidth:  c.Width,
			TerminalHeight: c.Height,
		},
	}
	if err := c.codec.Encode(&req); err != nil {
		c.conn.Close()
		return errors.Wrap(err, "failed to send watch request")
	}

	c.conn.SetReadDeadline(time.Now().Add(connectTimeout))

	msg, err := c.codec.Decode()
	if err != nil {
		c.conn.Close()
		return errors.Wrap(err, "failed to receive watch response")
	}

	c.conn.SetReadDeadline(time.Time{})

	if msg.Type != protocol.MsgWatchResponse {
		c.conn.Close()
		return errors.Errorf("expected watch response, got %s", msg.Type)
	}

	resp, ok := msg.Payload.(protocol.WatchResponse)
	if !ok {
		c.conn.Close()
		return errors.New("invalid watch response payload")
	}

	if !resp.Accepted {
		c.conn.Close()
		return errors.Errorf("watch request rejected: %s", resp.Reason)
	}

	c.WatcherID = resp.WatcherID
	c.HostName = resp.HostName
	c.mu.Lock()
	c.connected = true
	c.mu.Unlock()

	go c.receiveLoop()

	return nil
}

// Close says goodbye if still connected and closes the connection.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		close(c.done)

		c.mu.Lock()
		wasConnected := c.connected
		c.connected = false
		c.mu.Unlock()

		if wasConnected {
			c.codec.Encode(&protocol.Message{Type: protocol.MsgBye, Payload: protocol.Bye{Reason: "watcher left"}})
		}
		if c.conn != nil {
			c.conn.Close()
		}
	})
}

// IsConnected returns true if the client is connected to the server.
func (c *Client) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

// receiveLoop continuously reads messages from the server and dispatches them.
func (c *Client) receiveLoop() {
	defer func() {
		c.mu.Lock()
		c.connected = false
		c.mu.Unlock()
	}()

	for {
		msg, err := c.codec.Decode()
		if err != nil {
			select {
			case <-c.done:
				return
			default:
			}
			if err == io.EOF {
				err = errors.New("share closed the connection")
			}
			select {
			case c.Error <- errors.Wrap(err, "receive error"):
			default:
				// Drop error if channel is full
			}
			return
		}

		if c.dispatchMessage(msg) {
			return
		}
	}
}

// dispatchMessage routes a message to the appropriate channel. It reports
// whether the session is over.
func (c *Client) dispatchMessage(msg *protocol.Message) bool {
	switch msg.Type {
	case protocol.MsgSnapshot:
		if snap, ok := msg.Payload.(protocol.BallSnapshot); ok {
			select {
			case c.Snapshots <- snap:
			default:
				// Drop the oldest frame if the channel is full
				select {
				case <-c.Snapshots:
				default:
				}
				c.Snapshots <- snap
			}
		}

	case protocol.MsgBye:
		bye, _ := msg.Payload.(protocol.Bye)
		select {
		case c.Bye <- bye:
		default:
		}
		return true
	}
	return false
}
