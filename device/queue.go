package device

import (
	"context"
	"sync"

	"github.com/drborges/river"
)

// Queue is the bounded producer-consumer device of spec §4.7 and §6: a
// writer side with both a lossy Put and a lossless (suspending) Write, and
// a reader side that drains FIFO and yields end once End has been called
// and the buffer is exhausted.
type Queue[T any] struct {
	ch        chan T
	closeSig  chan struct{}
	closeOnce sync.Once
}

// NewQueue creates a Queue sized by WithBufferSize (river.DefaultConfig's
// BufferSize otherwise).
func NewQueue[T any](opts ...river.Option) *Queue[T] {
	cfg := river.Apply(opts...)
	max := cfg.BufferSize
	if max <= 0 {
		max = 1
	}
	return &Queue[T]{ch: make(chan T, max), closeSig: make(chan struct{})}
}

// Put is non-suspending: it returns true if v was accepted, false if the
// queue is full or already ended (lossy).
func (q *Queue[T]) Put(v T) bool {
	select {
	case <-q.closeSig:
		return false
	default:
	}
	select {
	case q.ch <- v:
		return true
	default:
		return false
	}
}

// Write suspends until space is available, ctx is canceled, or the queue
// has been ended (lossless).
func (q *Queue[T]) Write(ctx context.Context, v T) error {
	select {
	case q.ch <- v:
		return nil
	case <-q.closeSig:
		return river.ErrWriteAfterEnd
	case <-ctx.Done():
		return ctx.Err()
	}
}

// End closes the producer side. Safe to call more than once. Already
// buffered values are still delivered to the reader before it sees end.
func (q *Queue[T]) End() {
	q.closeOnce.Do(func() { close(q.closeSig) })
}

// Reader returns the standard river.Reader[T] view that drains the queue
// FIFO and yields end once End has been called and the buffer drains.
func (q *Queue[T]) Reader() river.Reader[T] {
	return river.NewReader[T](func(ctx context.Context) (river.Item[T], error) {
		select {
		case v, ok := <-q.ch:
			if ok {
				return river.Of(v), nil
			}
			return river.Item[T]{End: true}, nil
		default:
		}

		select {
		case v, ok := <-q.ch:
			if ok {
				return river.Of(v), nil
			}
			return river.Item[T]{End: true}, nil
		case <-q.closeSig:
			select {
			case v, ok := <-q.ch:
				if ok {
					return river.Of(v), nil
				}
			default:
			}
			return river.Item[T]{End: true}, nil
		case <-ctx.Done():
			return river.Item[T]{End: true}, ctx.Err()
		}
	}, func(river.StopReason) error {
		q.End()
		return nil
	}, nil)
}
