package binary

import (
	"context"
	"encoding/binary"
	"math"

	"github.com/drborges/river"
	"github.com/drborges/river/binary/bo"
)

// DefaultBufSize is the buffering threshold a Writer flushes at when none
// is given explicitly.
const DefaultBufSize = 16384

// Writer buffers bytes written to it and flushes to the wrapped
// river.Writer[[]byte] once BufSize bytes have accumulated, or on Flush /
// Stop.
type Writer struct {
	downstream river.Writer[[]byte]
	order      binary.ByteOrder
	bufSize    int
	buf        []byte
}

// NewWriter wraps downstream, buffering up to bufSize bytes (0 selects
// DefaultBufSize) before flushing. A nil order defaults to bo.Native().
func NewWriter(downstream river.Writer[[]byte], bufSize int, order binary.ByteOrder) *Writer {
	if bufSize <= 0 {
		bufSize = DefaultBufSize
	}
	if order == nil {
		order = bo.Native()
	}
	return &Writer{downstream: downstream, order: order, bufSize: bufSize}
}

// Write appends b to the internal buffer, flushing whenever it reaches
// BufSize.
func (w *Writer) Write(ctx context.Context, b []byte) error {
	w.buf = append(w.buf, b...)
	if len(w.buf) >= w.bufSize {
		return w.Flush(ctx)
	}
	return nil
}

// Flush pushes any buffered bytes downstream immediately.
func (w *Writer) Flush(ctx context.Context) error {
	if len(w.buf) == 0 {
		return nil
	}
	chunk := w.buf
	w.buf = nil
	return w.downstream.Write(ctx, river.Of(chunk))
}

func (w *Writer) Uint8(ctx context.Context, v uint8) error {
	return w.Write(ctx, []byte{v})
}

func (w *Writer) Int8(ctx context.Context, v int8) error {
	return w.Uint8(ctx, uint8(v))
}

func (w *Writer) Uint16(ctx context.Context, v uint16) error {
	b := make([]byte, 2)
	w.order.PutUint16(b, v)
	return w.Write(ctx, b)
}

func (w *Writer) Int16(ctx context.Context, v int16) error {
	return w.Uint16(ctx, uint16(v))
}

func (w *Writer) Uint32(ctx context.Context, v uint32) error {
	b := make([]byte, 4)
	w.order.PutUint32(b, v)
	return w.Write(ctx, b)
}

func (w *Writer) Int32(ctx context.Context, v int32) error {
	return w.Uint32(ctx, uint32(v))
}

func (w *Writer) Uint64(ctx context.Context, v uint64) error {
	b := make([]byte, 8)
	w.order.PutUint64(b, v)
	return w.Write(ctx, b)
}

func (w *Writer) Int64(ctx context.Context, v int64) error {
	return w.Uint64(ctx, uint64(v))
}

func (w *Writer) Float32(ctx context.Context, v float32) error {
	return w.Uint32(ctx, math.Float32bits(v))
}

func (w *Writer) Float64(ctx context.Context, v float64) error {
	return w.Uint64(ctx, math.Float64bits(v))
}

// Stop flushes any remaining bytes, then stops the downstream writer.
func (w *Writer) Stop(ctx context.Context, reason river.StopReason) error {
	if err := w.Flush(ctx); err != nil {
		return err
	}
	return w.downstream.Stop(reason)
}
