package river

import (
	"context"
	"sync"
)

// Reader is the pull side of the protocol: a handle a downstream consumer
// calls Read on to obtain the next value. At most one Read may be in
// flight at a time — callers must sequence their pulls (invariant
// at-most-one-live-read).
type Reader[T any] interface {
	// Read awaits and returns the next item, or the end sentinel.
	// Cancellable via ctx and via a concurrent Stop.
	Read(ctx context.Context) (Item[T], error)

	// Stop signals upstream to release resources. Safe to call at any
	// time, from any stage, any number of times — only the first call
	// propagates (stop-idempotence).
	Stop(reason StopReason) error

	// Headers returns the opaque metadata attached by the device at the
	// root of this chain, passed through unchanged by combinators.
	Headers() Headers
}

// readFunc/stopFunc are the two effectful closures accepted by NewReader,
// matching spec §4.1's "Construction (generic)".
type readFunc[T any] func(ctx context.Context) (Item[T], error)
type stopFunc func(StopReason) error

// genericReader is the wrapper every device and combinator is built on. It
// owns nothing but a pair of closures and layers the three cross-cutting
// behaviors spec §4.1 requires: end-stickiness, stop-idempotence, and an
// error latch (once Read fails, every subsequent Read returns end without
// re-invoking readFn).
type genericReader[T any] struct {
	readFn  readFunc[T]
	stopFn  stopFunc
	headers Headers

	// mu guards every field below. Read and Stop are called from different
	// goroutines whenever a combinator hands the same upstream reader to a
	// background pump and also stops it from the consumer's goroutine (the
	// fanout/fanin and Buffer/Transform pump-then-cancel pattern) — without
	// this, those are a genuine data race, not just a logic race.
	mu      sync.Mutex
	ended   bool
	stopped bool
	failed  error // a read from readFn itself failed; reads after it go quiet
	stopErr error // Stop(Err(e)) was called; reads after it keep raising e
}

// NewReader builds a Reader from a read closure and an optional stop
// closure (nil means "no resource to release"). This is the primitive
// every device in river/device is implemented in terms of.
func NewReader[T any](readFn readFunc[T], stopFn stopFunc, headers Headers) Reader[T] {
	return &genericReader[T]{readFn: readFn, stopFn: stopFn, headers: headers}
}

func (r *genericReader[T]) Read(ctx context.Context) (Item[T], error) {
	r.mu.Lock()
	if r.stopErr != nil {
		err := r.stopErr
		r.mu.Unlock()
		return Item[T]{End: true}, err
	}
	if r.failed != nil || r.ended || r.stopped {
		r.mu.Unlock()
		return Item[T]{End: true}, nil
	}
	r.mu.Unlock()

	// readFn runs without the lock held: it may block for as long as
	// upstream takes, and a concurrent Stop must still be able to record
	// its reason in the meantime.
	item, err := r.readFn(ctx)
	if err != nil {
		r.mu.Lock()
		r.failed = err
		r.mu.Unlock()
		return Item[T]{End: true}, err
	}
	if item.End {
		r.mu.Lock()
		r.ended = true
		r.mu.Unlock()
		_ = r.release(StopNone())
	}
	return item, nil
}

func (r *genericReader[T]) Stop(reason StopReason) error {
	r.mu.Lock()
	if reason.IsErr() {
		r.stopErr = reason.Err()
	}
	if r.stopped || r.ended {
		r.mu.Unlock()
		return nil
	}
	r.stopped = true
	if reason.IsErr() {
		r.failed = reason.Err()
	}
	r.mu.Unlock()
	return r.release(reason)
}

func (r *genericReader[T]) release(reason StopReason) error {
	r.mu.Lock()
	fn := r.stopFn
	r.stopFn = nil
	r.mu.Unlock()
	if fn == nil {
		return nil
	}
	return fn(reason)
}

func (r *genericReader[T]) Headers() Headers { return r.headers }

// Empty returns a reader that yields end immediately, for type T.
func Empty[T any]() Reader[T] {
	return NewReader[T](func(context.Context) (Item[T], error) {
		return Item[T]{End: true}, nil
	}, nil, nil)
}
