package river

import "context"

// MapFunc transforms a value and its zero-based input index. An error
// returned here surfaces as the composite reader's next Read error (spec
// §4.3 map).
type MapFunc[T, U any] func(value T, index int) (U, error)

// Map returns a reader that applies fn to every value of r, one to one,
// preserving r's headers and forwarding Stop to r.
func Map[T, U any](r Reader[T], fn MapFunc[T, U]) Reader[U] {
	index := 0
	return NewReader[U](func(ctx context.Context) (Item[U], error) {
		item, err := r.Read(ctx)
		if err != nil {
			return Item[U]{End: true}, err
		}
		if item.End {
			return Item[U]{End: true}, nil
		}
		out, err := fn(item.Value, index)
		index++
		if err != nil {
			return Item[U]{End: true}, err
		}
		return Of(out), nil
	}, func(reason StopReason) error {
		return r.Stop(reason)
	}, r.Headers())
}
