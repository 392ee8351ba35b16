package fanin

import (
	"context"
	"sync"

	"github.com/drborges/river"
)

type dequeueSlot[T any] struct {
	item river.Item[T]
	err  error
}

// dequeueNode keeps one outstanding background read per not-yet-ended
// branch, so the composite's Read can return whichever branch answers
// first without ever holding more than one live read in flight on any
// single underlying reader.
type dequeueNode[T any] struct {
	readers []river.Reader[T]

	mu      sync.Mutex
	slot    []*dequeueSlot[T]
	ended   []bool
	started bool
	wake    chan struct{}
}

// Dequeue merges readers by arrival order: whichever branch produces a
// value first is delivered first. Ties (near-simultaneous arrivals) break
// toward the lowest branch index. Ends once every branch has ended (spec
// §4.5.1).
func Dequeue[T any](readers []river.Reader[T]) river.Reader[T] {
	n := len(readers)
	d := &dequeueNode[T]{
		readers: readers,
		slot:    make([]*dequeueSlot[T], n),
		ended:   make([]bool, n),
		wake:    make(chan struct{}, n+1),
	}
	return river.NewReader[T](func(ctx context.Context) (river.Item[T], error) {
		return d.read(ctx)
	}, func(reason river.StopReason) error {
		return stopAll(d.readers, reason)
	}, headersOf(readers))
}

func (d *dequeueNode[T]) spawn(i int) {
	go func() {
		item, err := d.readers[i].Read(context.Background())
		d.mu.Lock()
		if err != nil {
			d.slot[i] = &dequeueSlot[T]{err: err}
		} else if item.End {
			d.ended[i] = true
		} else {
			d.slot[i] = &dequeueSlot[T]{item: item}
		}
		d.mu.Unlock()
		select {
		case d.wake <- struct{}{}:
		default:
		}
	}()
}

func (d *dequeueNode[T]) ensureStarted() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.started {
		return
	}
	d.started = true
	for i, ended := range d.ended {
		if !ended {
			d.spawn(i)
		}
	}
}

func (d *dequeueNode[T]) read(ctx context.Context) (river.Item[T], error) {
	if len(d.readers) == 0 {
		return river.Item[T]{End: true}, nil
	}
	d.ensureStarted()
	for {
		d.mu.Lock()
		for i, s := range d.slot {
			if s == nil {
				continue
			}
			d.slot[i] = nil
			if s.err != nil {
				d.mu.Unlock()
				return river.Item[T]{End: true}, s.err
			}
			d.mu.Unlock()
			d.spawn(i)
			return s.item, nil
		}
		allEnded := true
		for _, e := range d.ended {
			if !e {
				allEnded = false
				break
			}
		}
		if allEnded {
			d.mu.Unlock()
			return river.Item[T]{End: true}, nil
		}
		d.mu.Unlock()

		select {
		case <-d.wake:
		case <-ctx.Done():
			return river.Item[T]{End: true}, ctx.Err()
		}
	}
}
