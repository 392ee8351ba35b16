package fanin

import (
	"context"
	"sync"

	"github.com/drborges/river"
)

// JoinSlot carries one branch's value for a join cycle. The joiner clears
// Present on whichever slots it consumes; any slot left Present keeps its
// value for the next cycle instead of being re-pulled.
type JoinSlot[T any] struct {
	Value   T
	Present bool
}

// JoinFunc inspects the current cycle's slots (one per branch, in branch
// order) and either produces a value to emit or declines. It must clear
// Present on every slot it consumes.
type JoinFunc[T, O any] func(slots []*JoinSlot[T]) (out O, emit bool)

// Join pulls one value from every branch that still needs a fresh value,
// waits for all of them, then asks fn to combine whatever is available. A
// branch whose slot fn leaves Present is not re-pulled; everything else is
// re-pulled next cycle. Ends once every branch has ended and no slot holds
// an unconsumed value (spec §4.5.3).
func Join[T, O any](readers []river.Reader[T], fn JoinFunc[T, O]) river.Reader[O] {
	n := len(readers)
	slots := make([]*JoinSlot[T], n)
	for i := range slots {
		slots[i] = &JoinSlot[T]{}
	}
	ended := make([]bool, n)
	needPull := make([]bool, n)
	for i := range needPull {
		needPull[i] = true
	}

	return river.NewReader[O](func(ctx context.Context) (river.Item[O], error) {
		for {
			var wg sync.WaitGroup
			errCh := make(chan error, n)
			for i := 0; i < n; i++ {
				if ended[i] || !needPull[i] {
					continue
				}
				needPull[i] = false
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					item, err := readers[i].Read(ctx)
					if err != nil {
						errCh <- err
						return
					}
					if item.End {
						ended[i] = true
						slots[i].Present = false
						return
					}
					slots[i].Value = item.Value
					slots[i].Present = true
				}(i)
			}
			wg.Wait()

			select {
			case err := <-errCh:
				return river.Item[O]{End: true}, err
			default:
			}

			done := true
			for i := 0; i < n; i++ {
				if !ended[i] || slots[i].Present {
					done = false
					break
				}
			}
			if done {
				return river.Item[O]{End: true}, nil
			}

			out, emit := fn(slots)
			for i := 0; i < n; i++ {
				if !slots[i].Present && !ended[i] {
					needPull[i] = true
				}
			}
			if emit {
				return river.Of(out), nil
			}
		}
	}, func(reason river.StopReason) error {
		return stopAll(readers, reason)
	}, headersOf(readers))
}
