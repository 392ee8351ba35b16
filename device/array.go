// Package device provides the concrete reader/writer endpoints spec §4.7
// names: array, string/buffer, generic, empty, and queue.
package device

import (
	"context"

	"github.com/drborges/river"
)

type arrayConfig struct {
	sync bool
}

// ArrayOption configures NewArrayReader.
type ArrayOption func(*arrayConfig)

// Sync disables the default async tick between reads, delivering every
// value as fast as the consumer pulls with no forced goroutine handoff.
func Sync() ArrayOption {
	return func(c *arrayConfig) { c.sync = true }
}

// NewArrayReader copies values and yields them one per Read. By default
// (sync: false) each Read hands off through a tick channel fed by a
// background goroutine, so the reader behaves like a genuinely
// asynchronous source even over in-memory data — matching spec §4.7's
// "optional async-tick between reads".
func NewArrayReader[T any](values []T, opts ...ArrayOption) river.Reader[T] {
	cfg := arrayConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	items := append([]T(nil), values...)
	idx := 0

	var tick chan struct{}
	if !cfg.sync {
		tick = make(chan struct{})
		go func() {
			defer close(tick)
			for range items {
				tick <- struct{}{}
			}
		}()
	}

	return river.NewReader[T](func(ctx context.Context) (river.Item[T], error) {
		if idx >= len(items) {
			return river.Item[T]{End: true}, nil
		}
		if tick != nil {
			select {
			case <-tick:
			case <-ctx.Done():
				return river.Item[T]{End: true}, ctx.Err()
			}
		}
		v := items[idx]
		idx++
		return river.Of(v), nil
	}, nil, nil)
}

// NewArrayWriter is an accumulating sink: every non-end write appends to
// an internal slice, retrievable via Result().
func NewArrayWriter[T any]() river.Writer[T] {
	var values []T
	return river.NewWriter[T](func(ctx context.Context, item river.Item[T]) error {
		if !item.End {
			values = append(values, item.Value)
		}
		return nil
	}, nil, func() any { return values })
}
