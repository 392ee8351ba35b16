package river

import (
	"context"
	"sync"

	"github.com/drborges/river/internal/handshake"
)

// TransformFunc is the cooperative task Transform runs concurrently with
// the downstream puller. Writing to out via out.Write makes that value the
// next one Transform's composite reader returns; returning (nil or error)
// ends the composite stream.
type TransformFunc[T, U any] func(ctx context.Context, in Reader[T], out Writer[U]) error

type transformMsg[U any] struct {
	item Item[U]
	err  error
}

// Transform is the most general combinator: fn is started lazily on the
// first Read, runs concurrently with the downstream puller, and hands off
// at most one buffered value at a time via a rendezvous handshake (spec
// §4.3 transform).
func Transform[T, U any](r Reader[T], fn TransformFunc[T, U]) Reader[U] {
	hs := handshake.New[transformMsg[U]]()

	var mu sync.Mutex
	var cancel context.CancelFunc
	started := false
	stopped := false

	start := func(parentCtx context.Context) {
		ctx, c := context.WithCancel(parentCtx)
		cancel = c

		w := NewWriter[U](func(wctx context.Context, item Item[U]) error {
			return hs.Put(wctx, transformMsg[U]{item: item})
		}, func(StopReason) error {
			hs.Close()
			return nil
		}, nil)

		go func() {
			err := fn(ctx, r, w)
			_ = hs.Put(context.Background(), transformMsg[U]{item: Item[U]{End: true}, err: err})
			hs.Close()
		}()
	}

	return NewReader[U](func(ctx context.Context) (Item[U], error) {
		mu.Lock()
		if stopped {
			mu.Unlock()
			return Item[U]{End: true}, nil
		}
		if !started {
			started = true
			start(ctx)
		}
		mu.Unlock()

		msg, err := hs.Take(ctx)
		if err != nil {
			return Item[U]{End: true}, nil
		}
		if msg.err != nil {
			return Item[U]{End: true}, msg.err
		}
		return msg.item, nil
	}, func(reason StopReason) error {
		mu.Lock()
		stopped = true
		c := cancel
		mu.Unlock()

		if c != nil {
			c()
		}
		hs.Close()
		return r.Stop(reason)
	}, r.Headers())
}
