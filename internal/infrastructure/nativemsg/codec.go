// Package nativemsg implements the browser native messaging wire protocol:
// JSON frames prefixed with a 4-byte native-endian length, which is little
// endian on every platform the host browser ships for.
package nativemsg

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"
)

// MaxFrameSize bounds a single frame. The browser itself rejects messages
// to the host above 4 GB and from the host above 1 MB; mirroring the
// outbound limit on both directions keeps a corrupt length prefix from
// triggering a huge allocation.
const MaxFrameSize = 1 << 20

var ErrFrameTooLarge = errors.New("frame exceeds maximum size")

// Codec reads and writes length-prefixed JSON frames. Reads are expected
// from a single goroutine (the host read loop); writes are serialized
// internally so concurrent request handlers can reply safely.
type Codec struct {
	r io.Reader

	wmu sync.Mutex
	w   io.Writer
}

// NewCodec wraps a stream pair, typically stdin and stdout.
func NewCodec(r io.Reader, w io.Writer) *Codec {
	return &Codec{r: r, w: w}
}

// Read returns the next frame body. io.EOF means the browser closed the
// channel and the host should shut down.
func (c *Codec) Read() (json.RawMessage, error) {
	var header [4]byte
	if _, err := io.ReadFull(c.r, header[:]); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("read frame header: %w", err)
	}

	size := binary.LittleEndian.Uint32(header[:])
	if size > MaxFrameSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrFrameTooLarge, size)
	}

	body := make([]byte, size)
	if _, err := io.ReadFull(c.r, body); err != nil {
		return nil, fmt.Errorf("read frame body: %w", err)
	}
	return body, nil
}

// Write marshals v and sends it as one frame. Header and body go out in a
// single write so interleaved replies cannot corrupt the stream.
func (c *Codec) Write(v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal frame: %w", err)
	}
	if len(body) > MaxFrameSize {
		return fmt.Errorf("%w: %d bytes", ErrFrameTooLarge, len(body))
	}

	frame := make([]byte, 4+len(body))
	binary.LittleEndian.PutUint32(frame[:4], uint32(len(body)))
	copy(frame[4:], body)

	c.wmu.Lock()
	defer c.wmu.Unlock()
	if _, err := c.w.Write(frame); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	return nil
}
