package device

import (
	"bytes"
	"context"
	"strings"

	"github.com/drborges/river"
)

// ChunkSize is either a fixed positive int or a func() int returning a
// (possibly randomized) size per call, per spec §4.7's "chunkSize may be a
// closure for randomized sizes".
type ChunkSize any

func resolveChunkSize(cs ChunkSize) func() int {
	switch v := cs.(type) {
	case nil:
		return func() int { return river.Apply().ChunkSize }
	case int:
		if v <= 0 {
			v = river.Apply().ChunkSize
		}
		return func() int { return v }
	case func() int:
		return v
	default:
		return func() int { return river.Apply().ChunkSize }
	}
}

// NewStringReader slices s into chunks of the given size (default 1024,
// spec §4.7), returned in order.
func NewStringReader(s string, chunkSize ChunkSize) river.Reader[string] {
	size := resolveChunkSize(chunkSize)
	pos := 0
	return river.NewReader[string](func(ctx context.Context) (river.Item[string], error) {
		if pos >= len(s) {
			return river.Item[string]{End: true}, nil
		}
		n := size()
		end := pos + n
		if end > len(s) {
			end = len(s)
		}
		chunk := s[pos:end]
		pos = end
		return river.Of(chunk), nil
	}, nil, nil)
}

// NewBufferReader is NewStringReader's []byte counterpart.
func NewBufferReader(b []byte, chunkSize ChunkSize) river.Reader[[]byte] {
	size := resolveChunkSize(chunkSize)
	pos := 0
	return river.NewReader[[]byte](func(ctx context.Context) (river.Item[[]byte], error) {
		if pos >= len(b) {
			return river.Item[[]byte]{End: true}, nil
		}
		n := size()
		end := pos + n
		if end > len(b) {
			end = len(b)
		}
		chunk := make([]byte, end-pos)
		copy(chunk, b[pos:end])
		pos = end
		return river.Of(chunk), nil
	}, nil, nil)
}

// NewStringWriter is a concatenating sink over string chunks.
func NewStringWriter() river.Writer[string] {
	var sb strings.Builder
	return river.NewWriter[string](func(ctx context.Context, item river.Item[string]) error {
		if !item.End {
			sb.WriteString(item.Value)
		}
		return nil
	}, nil, func() any { return sb.String() })
}

// NewBufferWriter is a concatenating sink over []byte chunks.
func NewBufferWriter() river.Writer[[]byte] {
	var buf bytes.Buffer
	return river.NewWriter[[]byte](func(ctx context.Context, item river.Item[[]byte]) error {
		if !item.End {
			buf.Write(item.Value)
		}
		return nil
	}, nil, func() any { return buf.Bytes() })
}
