// Package handshake implements the single-slot rendezvous primitive spec
// §5 calls for: "a wake-one signal primitive... notifier sets the value,
// waiter consumes and resets." It backs Transform's inner-task/downstream
// rendezvous.
package handshake

import "context"

// Handshake is a single-slot, repeatedly-resettable rendezvous between
// exactly one notifier and one waiter. It stores no value of its own: each
// Put blocks until a waiter has taken that value.
type Handshake[T any] struct {
	slot   chan T
	closed chan struct{}
}

// New creates an empty Handshake.
func New[T any]() *Handshake[T] {
	return &Handshake[T]{
		slot:   make(chan T),
		closed: make(chan struct{}),
	}
}

// Put blocks until the value is taken by a waiter, ctx is canceled, or the
// handshake is closed. Returns ctx.Err() or ErrClosed on those paths.
func (h *Handshake[T]) Put(ctx context.Context, v T) error {
	select {
	case h.slot <- v:
		return nil
	case <-h.closed:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Take blocks until a value is available, ctx is canceled, or the
// handshake is closed.
func (h *Handshake[T]) Take(ctx context.Context) (T, error) {
	var zero T
	select {
	case v := <-h.slot:
		return v, nil
	case <-h.closed:
		return zero, ErrClosed
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

// Close unblocks any pending Put/Take with ErrClosed. Safe to call more
// than once.
func (h *Handshake[T]) Close() {
	select {
	case <-h.closed:
	default:
		close(h.closed)
	}
}

// ErrClosed is returned by Put/Take once the handshake has been closed.
var ErrClosed = handshakeClosedError{}

type handshakeClosedError struct{}

func (handshakeClosedError) Error() string { return "handshake: closed" }
