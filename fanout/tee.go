package fanout

import (
	"context"

	"github.com/drborges/river"
)

// Tee returns a reader whose Read pulls from r, writes a copy to secondary,
// then returns the value. If secondary.Write fails, the error propagates
// to the downstream reader and r is stopped with that error. secondary is
// not stopped on a natural end of stream unless the downstream reader
// fully drains it — in that case it receives Write(end); on any earlier
// termination it is stopped with whatever reason Tee itself was stopped
// with (spec §4.4.1).
func Tee[T any](r river.Reader[T], secondary river.Writer[T]) river.Reader[T] {
	drained := false

	return river.NewReader[T](func(ctx context.Context) (river.Item[T], error) {
		item, err := r.Read(ctx)
		if err != nil {
			_ = secondary.Stop(river.StopErr(err))
			return river.Item[T]{End: true}, err
		}
		if item.End {
			drained = true
			_ = secondary.Write(ctx, item)
			return item, nil
		}
		if werr := secondary.Write(ctx, item); werr != nil {
			_ = r.Stop(river.StopErr(werr))
			return river.Item[T]{End: true}, werr
		}
		return item, nil
	}, func(reason river.StopReason) error {
		if !drained {
			_ = secondary.Stop(reason)
		}
		return r.Stop(reason)
	}, r.Headers())
}
