// Package binary layers byte-oriented reads over any chunked
// river.Reader[[]byte] (the array, string/buffer, or network-adapter
// devices), per spec §4.8.
package binary

import (
	"context"

	"github.com/drborges/river"
)

// Reader wraps a chunk reader into a sliding-buffer byte reader: Read
// returns exactly n bytes unless upstream ends first, Peek inspects ahead
// without consuming, and Unread pushes bytes back onto the front of the
// buffer.
type Reader struct {
	upstream river.Reader[[]byte]
	buf      []byte
	pos      int
	ended    bool
}

// NewReader wraps upstream into a Reader.
func NewReader(upstream river.Reader[[]byte]) *Reader {
	return &Reader{upstream: upstream}
}

// fill ensures at least n unread bytes are buffered, pulling further
// chunks from upstream until satisfied or upstream ends.
func (r *Reader) fill(ctx context.Context, n int) error {
	for !r.ended && len(r.buf)-r.pos < n {
		item, err := r.upstream.Read(ctx)
		if err != nil {
			return err
		}
		if item.End {
			r.ended = true
			break
		}
		if r.pos > 0 {
			r.buf = append(r.buf[:0], r.buf[r.pos:]...)
			r.pos = 0
		}
		r.buf = append(r.buf, item.Value...)
	}
	return nil
}

// Read returns exactly n bytes, or fewer only once upstream has ended.
func (r *Reader) Read(ctx context.Context, n int) ([]byte, error) {
	if err := r.fill(ctx, n); err != nil {
		return nil, err
	}
	avail := len(r.buf) - r.pos
	if avail > n {
		avail = n
	}
	out := make([]byte, avail)
	copy(out, r.buf[r.pos:r.pos+avail])
	r.pos += avail
	return out, nil
}

// Peek returns up to n bytes without consuming them.
func (r *Reader) Peek(ctx context.Context, n int) ([]byte, error) {
	if err := r.fill(ctx, n); err != nil {
		return nil, err
	}
	avail := len(r.buf) - r.pos
	if avail > n {
		avail = n
	}
	out := make([]byte, avail)
	copy(out, r.buf[r.pos:r.pos+avail])
	return out, nil
}

// PeekAll drains upstream fully and returns every remaining buffered byte
// without consuming it.
func (r *Reader) PeekAll(ctx context.Context) ([]byte, error) {
	for !r.ended {
		item, err := r.upstream.Read(ctx)
		if err != nil {
			return nil, err
		}
		if item.End {
			r.ended = true
			break
		}
		if r.pos > 0 {
			r.buf = append(r.buf[:0], r.buf[r.pos:]...)
			r.pos = 0
		}
		r.buf = append(r.buf, item.Value...)
	}
	out := make([]byte, len(r.buf)-r.pos)
	copy(out, r.buf[r.pos:])
	return out, nil
}

// Unread pushes n bytes back onto the front of the buffer. It fails with
// ErrUnreadTooMuch only when n exceeds the bytes consumed since the buffer
// was last compacted; n is not checked against the size of the last Read.
func (r *Reader) Unread(n int) error {
	if n > r.pos {
		return river.ErrUnreadTooMuch
	}
	r.pos -= n
	return nil
}
