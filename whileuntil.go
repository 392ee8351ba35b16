package river

import "context"

// While returns a reader that ends the stream the first time pred becomes
// false. If stopArg is given, upstream is stopped with it when While
// terminates the stream; otherwise StopNone is used.
func While[T any](r Reader[T], pred PredicateArg[T], stopArg ...StopReason) Reader[T] {
	p, err := ResolvePredicate(pred)
	if err != nil {
		return failingReader[T](err)
	}
	reason := resolveStopArg(stopArg)
	done := false
	return NewReader[T](func(ctx context.Context) (Item[T], error) {
		if done {
			return Item[T]{End: true}, nil
		}
		item, err := r.Read(ctx)
		if err != nil {
			return Item[T]{End: true}, err
		}
		if item.End || !p(item.Value) {
			done = true
			return Item[T]{End: true}, r.Stop(reason)
		}
		return item, nil
	}, func(reason StopReason) error {
		return r.Stop(reason)
	}, r.Headers())
}

// Until returns a reader that ends the stream the first time pred becomes
// true. See While for stopArg semantics.
func Until[T any](r Reader[T], pred PredicateArg[T], stopArg ...StopReason) Reader[T] {
	p, err := ResolvePredicate(pred)
	if err != nil {
		return failingReader[T](err)
	}
	reason := resolveStopArg(stopArg)
	done := false
	return NewReader[T](func(ctx context.Context) (Item[T], error) {
		if done {
			return Item[T]{End: true}, nil
		}
		item, err := r.Read(ctx)
		if err != nil {
			return Item[T]{End: true}, err
		}
		if item.End || p(item.Value) {
			done = true
			return Item[T]{End: true}, r.Stop(reason)
		}
		return item, nil
	}, func(reason StopReason) error {
		return r.Stop(reason)
	}, r.Headers())
}

func resolveStopArg(args []StopReason) StopReason {
	if len(args) == 0 {
		return StopNone()
	}
	return args[0]
}
