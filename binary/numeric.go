package binary

import (
	"context"
	"encoding/binary"
	"io"
	"math"

	"github.com/drborges/river/binary/bo"
)

// NumericReader layers fixed-width numeric reads over a Reader, in either
// a caller-chosen or the machine's native byte order.
type NumericReader struct {
	r     *Reader
	order binary.ByteOrder
}

// NewNumericReader wraps r using order. A nil order defaults to
// bo.Native().
func NewNumericReader(r *Reader, order binary.ByteOrder) *NumericReader {
	if order == nil {
		order = bo.Native()
	}
	return &NumericReader{r: r, order: order}
}

func (n *NumericReader) bytes(ctx context.Context, width int) ([]byte, error) {
	b, err := n.r.Read(ctx, width)
	if err != nil {
		return nil, err
	}
	if len(b) < width {
		return nil, io.ErrUnexpectedEOF
	}
	return b, nil
}

func (n *NumericReader) Uint8(ctx context.Context) (uint8, error) {
	b, err := n.bytes(ctx, 1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (n *NumericReader) Int8(ctx context.Context) (int8, error) {
	v, err := n.Uint8(ctx)
	return int8(v), err
}

func (n *NumericReader) Uint16(ctx context.Context) (uint16, error) {
	b, err := n.bytes(ctx, 2)
	if err != nil {
		return 0, err
	}
	return n.order.Uint16(b), nil
}

func (n *NumericReader) Int16(ctx context.Context) (int16, error) {
	v, err := n.Uint16(ctx)
	return int16(v), err
}

func (n *NumericReader) Uint32(ctx context.Context) (uint32, error) {
	b, err := n.bytes(ctx, 4)
	if err != nil {
		return 0, err
	}
	return n.order.Uint32(b), nil
}

func (n *NumericReader) Int32(ctx context.Context) (int32, error) {
	v, err := n.Uint32(ctx)
	return int32(v), err
}

func (n *NumericReader) Uint64(ctx context.Context) (uint64, error) {
	b, err := n.bytes(ctx, 8)
	if err != nil {
		return 0, err
	}
	return n.order.Uint64(b), nil
}

func (n *NumericReader) Int64(ctx context.Context) (int64, error) {
	v, err := n.Uint64(ctx)
	return int64(v), err
}

func (n *NumericReader) Float32(ctx context.Context) (float32, error) {
	v, err := n.Uint32(ctx)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(v), nil
}

func (n *NumericReader) Float64(ctx context.Context) (float64, error) {
	v, err := n.Uint64(ctx)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(v), nil
}
