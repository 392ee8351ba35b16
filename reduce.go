package river

import "context"

// Each pulls r to exhaustion, invoking fn(value, inputIndex) for every
// value, and returns the count of values seen. ForEach is an alias, per
// spec §4.6 (the source treats the two names as identical).
func Each[T any](ctx context.Context, r Reader[T], fn func(value T, index int) error) (int, error) {
	count := 0
	for {
		item, err := r.Read(ctx)
		if err != nil {
			return count, err
		}
		if item.End {
			return count, nil
		}
		if err := fn(item.Value, count); err != nil {
			_ = r.Stop(StopErr(err))
			return count, err
		}
		count++
	}
}

// ForEach is an alias for Each.
func ForEach[T any](ctx context.Context, r Reader[T], fn func(value T, index int) error) (int, error) {
	return Each(ctx, r, fn)
}

// Reduce performs a strictly sequential left fold over r.
func Reduce[T, A any](ctx context.Context, r Reader[T], init A, fn func(acc A, value T, index int) (A, error)) (A, error) {
	acc := init
	index := 0
	for {
		item, err := r.Read(ctx)
		if err != nil {
			return acc, err
		}
		if item.End {
			return acc, nil
		}
		acc, err = fn(acc, item.Value, index)
		if err != nil {
			_ = r.Stop(StopErr(err))
			return acc, err
		}
		index++
	}
}

// Every short-circuits and stops r with StopNone as soon as pred is false
// for some value, returning false; returns true if r ends with pred true
// for every value.
func Every[T any](ctx context.Context, r Reader[T], pred PredicateArg[T]) (bool, error) {
	p, err := ResolvePredicate(pred)
	if err != nil {
		return false, err
	}
	for {
		item, err := r.Read(ctx)
		if err != nil {
			return false, err
		}
		if item.End {
			return true, nil
		}
		if !p(item.Value) {
			_ = r.Stop(StopNone())
			return false, nil
		}
	}
}

// Some short-circuits and stops r with StopNone as soon as pred is true
// for some value, returning true; returns false if r ends without a match.
func Some[T any](ctx context.Context, r Reader[T], pred PredicateArg[T]) (bool, error) {
	p, err := ResolvePredicate(pred)
	if err != nil {
		return false, err
	}
	for {
		item, err := r.Read(ctx)
		if err != nil {
			return false, err
		}
		if item.End {
			return false, nil
		}
		if p(item.Value) {
			_ = r.Stop(StopNone())
			return true, nil
		}
	}
}

// Find returns the first value matching pred, stopping r with StopNone on
// a match. ok is false if r ends without a match.
func Find[T any](ctx context.Context, r Reader[T], pred PredicateArg[T]) (value T, ok bool, err error) {
	p, err := ResolvePredicate(pred)
	if err != nil {
		return value, false, err
	}
	for {
		item, rerr := r.Read(ctx)
		if rerr != nil {
			return value, false, rerr
		}
		if item.End {
			return value, false, nil
		}
		if p(item.Value) {
			_ = r.Stop(StopNone())
			return item.Value, true, nil
		}
	}
}

// ToArray materializes r into a slice.
func ToArray[T any](ctx context.Context, r Reader[T]) ([]T, error) {
	var out []T
	for {
		item, err := r.Read(ctx)
		if err != nil {
			return out, err
		}
		if item.End {
			return out, nil
		}
		out = append(out, item.Value)
	}
}

// Chunk is the constraint ReadAll accepts: string or byte-slice streams,
// whose elements are concatenated in order.
type Chunk interface {
	~string | ~[]byte
}

// ReadAll materializes a string/buffer stream by concatenating its chunks
// in order, per spec §4.6 readAll.
func ReadAll[T Chunk](ctx context.Context, r Reader[T]) (T, error) {
	var out T
	for {
		item, err := r.Read(ctx)
		if err != nil {
			return out, err
		}
		if item.End {
			return out, nil
		}
		out = out + item.Value
	}
}

// Compare pulls a and b lock-step, returning -1/0/+1 on the first
// difference (via the supplied less/equal test) or on length mismatch
// (the shorter stream compares less).
func Compare[T any](ctx context.Context, a, b Reader[T], equal func(x, y T) bool, less func(x, y T) bool) (int, error) {
	for {
		ai, aerr := a.Read(ctx)
		if aerr != nil {
			return 0, aerr
		}
		bi, berr := b.Read(ctx)
		if berr != nil {
			return 0, berr
		}
		switch {
		case ai.End && bi.End:
			return 0, nil
		case ai.End:
			return -1, nil
		case bi.End:
			return 1, nil
		case equal(ai.Value, bi.Value):
			continue
		case less(ai.Value, bi.Value):
			return -1, nil
		default:
			return 1, nil
		}
	}
}
