package river

import "context"

// Limit returns a reader that delivers at most n values, then stops
// upstream with stopArg (default StopNone) and ends the stream. Per spec
// scenario 1, Stop is issued exactly once, at the position right after the
// nth value is delivered.
func Limit[T any](r Reader[T], n int, stopArg ...StopReason) Reader[T] {
	reason := resolveStopArg(stopArg)
	delivered := 0
	stopped := false
	return NewReader[T](func(ctx context.Context) (Item[T], error) {
		if delivered >= n {
			if !stopped {
				stopped = true
				if err := r.Stop(reason); err != nil {
					return Item[T]{End: true}, err
				}
			}
			return Item[T]{End: true}, nil
		}
		item, err := r.Read(ctx)
		if err != nil {
			return Item[T]{End: true}, err
		}
		if item.End {
			return Item[T]{End: true}, nil
		}
		delivered++
		return item, nil
	}, func(reason StopReason) error {
		if !stopped {
			stopped = true
			return r.Stop(reason)
		}
		return nil
	}, r.Headers())
}

// Skip returns a reader that lazily consumes and discards the first n
// values on the first Read.
func Skip[T any](r Reader[T], n int) Reader[T] {
	skipped := false
	return NewReader[T](func(ctx context.Context) (Item[T], error) {
		if !skipped {
			skipped = true
			for i := 0; i < n; i++ {
				item, err := r.Read(ctx)
				if err != nil {
					return Item[T]{End: true}, err
				}
				if item.End {
					return Item[T]{End: true}, nil
				}
			}
		}
		return r.Read(ctx)
	}, func(reason StopReason) error {
		return r.Stop(reason)
	}, r.Headers())
}
