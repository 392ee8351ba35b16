package fanin

import (
	"context"

	"github.com/drborges/river"
)

// RR merges readers by strict round robin, skipping branches that have
// already ended. Ends once every branch has ended (spec §4.5.2).
func RR[T any](readers []river.Reader[T]) river.Reader[T] {
	n := len(readers)
	ended := make([]bool, n)
	next := 0

	return river.NewReader[T](func(ctx context.Context) (river.Item[T], error) {
		if n == 0 {
			return river.Item[T]{End: true}, nil
		}
		for tries := 0; tries < n; tries++ {
			i := next
			next = (next + 1) % n
			if ended[i] {
				continue
			}
			item, err := readers[i].Read(ctx)
			if err != nil {
				return river.Item[T]{End: true}, err
			}
			if item.End {
				ended[i] = true
				continue
			}
			return item, nil
		}
		return river.Item[T]{End: true}, nil
	}, func(reason river.StopReason) error {
		return stopAll(readers, reason)
	}, headersOf(readers))
}
