package river

import "context"

// Concat exhausts r, then each of others in order. Stopping the composite
// releases every upstream that has not yet exhausted itself: the one
// currently active, plus every one still waiting its turn — an already
// exhausted upstream (ended naturally) is never stopped again. This
// resolves an ambiguity in the component description via spec scenario 2,
// where s3 (never started) is still observed stopped at position 0
// alongside the active s2: unstarted upstreams are released, not ignored.
func Concat[T any](r Reader[T], others ...Reader[T]) Reader[T] {
	all := append([]Reader[T]{r}, others...)
	idx := 0
	stopped := false

	advance := func(ctx context.Context) (Item[T], error) {
		for idx < len(all) {
			item, err := all[idx].Read(ctx)
			if err != nil {
				return Item[T]{End: true}, err
			}
			if !item.End {
				return item, nil
			}
			idx++
		}
		return Item[T]{End: true}, nil
	}

	return NewReader[T](func(ctx context.Context) (Item[T], error) {
		if stopped {
			return Item[T]{End: true}, nil
		}
		return advance(ctx)
	}, func(reason StopReason) error {
		if stopped || idx >= len(all) {
			return nil
		}
		stopped = true
		var firstErr error
		for i := idx; i < len(all); i++ {
			if err := all[i].Stop(reason); err != nil && firstErr == nil {
				firstErr = err
			}
		}
		return firstErr
	}, r.Headers())
}
