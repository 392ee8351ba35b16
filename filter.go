package river

import "context"

// Filter returns a reader that drops values for which pred is false. pred
// may be a func(T) bool or a query.Doc (spec §4.3). pred receives the value
// only; unlike Map, Filter passes no index.
func Filter[T any](r Reader[T], pred PredicateArg[T]) Reader[T] {
	p, err := ResolvePredicate(pred)
	if err != nil {
		return failingReader[T](err)
	}
	return NewReader[T](func(ctx context.Context) (Item[T], error) {
		for {
			item, err := r.Read(ctx)
			if err != nil {
				return Item[T]{End: true}, err
			}
			if item.End {
				return Item[T]{End: true}, nil
			}
			if p(item.Value) {
				return item, nil
			}
		}
	}, func(reason StopReason) error {
		return r.Stop(reason)
	}, r.Headers())
}

// failingReader returns a Reader[T] whose first Read immediately fails
// with err, used when predicate/mapper construction fails eagerly.
func failingReader[T any](err error) Reader[T] {
	return NewReader[T](func(context.Context) (Item[T], error) {
		return Item[T]{End: true}, err
	}, nil, nil)
}
