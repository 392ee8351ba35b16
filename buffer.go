package river

import "context"

type bufMsg[T any] struct {
	item Item[T]
	err  error
}

// Buffer eagerly pulls values ahead of consumer demand into a bounded
// FIFO sized by WithBufferSize (DefaultConfig.BufferSize otherwise);
// upstream errors are surfaced in FIFO order, after any values already
// buffered ahead of them (spec §4.3 buffer).
func Buffer[T any](r Reader[T], opts ...Option) Reader[T] {
	cfg := Apply(opts...)
	max := cfg.BufferSize
	if max <= 0 {
		max = 1
	}

	ch := make(chan bufMsg[T], max)
	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		defer close(ch)
		for {
			item, err := r.Read(ctx)
			select {
			case ch <- bufMsg[T]{item: item, err: err}:
			case <-ctx.Done():
				return
			}
			if err != nil || item.End {
				return
			}
		}
	}()

	return NewReader[T](func(readCtx context.Context) (Item[T], error) {
		select {
		case msg, ok := <-ch:
			if !ok {
				return Item[T]{End: true}, nil
			}
			if msg.err != nil {
				return Item[T]{End: true}, msg.err
			}
			return msg.item, nil
		case <-readCtx.Done():
			return Item[T]{End: true}, readCtx.Err()
		}
	}, func(reason StopReason) error {
		cancel()
		return r.Stop(reason)
	}, r.Headers())
}
