package protocol

import (
	"encoding/gob"
	"io"
	"sync"

	"github.com/pkg/errors"
)

// Codec reads and writes gob framed messages. Encode may be called from
// several goroutines; Decode must have a single reader.
type Codec struct {
	mu  sync.Mutex
	enc *gob.Encoder
	dec *gob.Decoder
}

// NewCodec creates a codec for the given read/writer
func NewCodec(rw io.ReadWriter) *Codec {
	return &Codec{
		enc: gob.NewEncoder(rw),
		dec: gob.NewDecoder(rw),
	}
}

// NewEncoder creates an encoder-only codec
func NewEncoder(w io.Writer) *Codec {
	return &Codec{enc: gob.NewEncoder(w)}
}

// NewDecoder creates a decoder-only codec
func NewDecoder(r io.Reader) *Codec {
	return &Codec{dec: gob.NewDecoder(r)}
}

// Encode writes a message
func (c *Codec) Encode(msg *Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.enc.Encode(msg); err != nil {
		return errors.Wrapf(err, "encode %s", msg.Type)
	}
	return nil
}

// Decode reads a message. io.EOF is returned unwrapped so callers can tell a
// clean hang-up from a broken stream.
func (c *Codec) Decode() (*Message, error) {
	var msg Message
	if err := c.dec.Decode(&msg); err != nil {
		if err == io.EOF {
			return nil, err
		}
		return nil, errors.Wrap(err, "decode message")
	}
	return &msg, nil
}
