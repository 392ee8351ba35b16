package river

import (
	"context"
	"sync"
)

// Writer is the push side of the protocol. write(end) closes it; once
// closed, writing a non-end value fails (invariant end-stickiness, writer
// side).
type Writer[T any] interface {
	// Write consumes an item. Writing the end item closes the writer.
	Write(ctx context.Context, item Item[T]) error

	// Stop aborts the writer. The default device behavior is equivalent
	// to Write(end); devices that hold unflushed resources may override
	// this to release without flushing.
	Stop(reason StopReason) error

	// Result exposes accumulated data for sinks that collect it (array,
	// string, buffer writers). Returns nil for non-accumulating writers.
	Result() any
}

// WriteAll writes v then the end item in a single call, per spec §4.2.
func WriteAll[T any](ctx context.Context, w Writer[T], v T) error {
	if err := w.Write(ctx, Of(v)); err != nil {
		return err
	}
	return w.Write(ctx, EndOf[T]())
}

type writeFunc[T any] func(ctx context.Context, item Item[T]) error
type writerStopFunc func(StopReason) error
type resultFunc func() any

// genericWriter is the writer-side counterpart of genericReader: it wraps
// a write closure with the end-stickiness and error-latch behaviors spec
// §4.2 requires.
type genericWriter[T any] struct {
	writeFn  writeFunc[T]
	stopFn   writerStopFunc
	resultFn resultFunc

	// mu guards ended/stopped/failed the same way genericReader's does:
	// Write and Stop are called from different goroutines wherever a
	// combinator pumps into this writer on one goroutine while the
	// consumer stops it from another.
	mu      sync.Mutex
	ended   bool
	stopped bool
	failed  error
}

// NewWriter builds a Writer from a write closure, an optional stop
// closure, and an optional result accessor.
func NewWriter[T any](writeFn writeFunc[T], stopFn writerStopFunc, resultFn resultFunc) Writer[T] {
	return &genericWriter[T]{writeFn: writeFn, stopFn: stopFn, resultFn: resultFn}
}

func (w *genericWriter[T]) Write(ctx context.Context, item Item[T]) error {
	w.mu.Lock()
	if w.failed != nil {
		err := w.failed
		w.mu.Unlock()
		return err
	}
	if w.ended || w.stopped {
		w.mu.Unlock()
		if item.End {
			return nil
		}
		return ErrWriteAfterEnd
	}
	w.mu.Unlock()

	if err := w.writeFn(ctx, item); err != nil {
		w.mu.Lock()
		w.failed = err
		w.mu.Unlock()
		return err
	}
	if item.End {
		w.mu.Lock()
		w.ended = true
		w.mu.Unlock()
	}
	return nil
}

func (w *genericWriter[T]) Stop(reason StopReason) error {
	w.mu.Lock()
	if w.stopped || w.ended {
		w.mu.Unlock()
		return nil
	}
	w.stopped = true
	if reason.IsErr() {
		w.failed = reason.Err()
	}
	fn := w.stopFn
	w.stopFn = nil
	w.mu.Unlock()

	if fn != nil {
		return fn(reason)
	}

	w.mu.Lock()
	if w.ended {
		w.mu.Unlock()
		return nil
	}
	w.ended = true
	w.mu.Unlock()
	return w.writeFn(context.Background(), EndOf[T]())
}

func (w *genericWriter[T]) Result() any {
	if w.resultFn == nil {
		return nil
	}
	return w.resultFn()
}
