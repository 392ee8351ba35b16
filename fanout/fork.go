package fanout

import (
	"context"
	"sync"

	"github.com/drborges/river"
	"github.com/drborges/river/riverctx"
)

// Consumer is applied to a private per-branch reader and returns a
// transformed reader — e.g. wrapping it in Map/Filter/Transform — per spec
// §4.4.3.
type Consumer[T any] func(river.Reader[T]) river.Reader[T]

// Result is the aggregate Fork returns: the N transformed branch readers,
// ready to be recombined with the river/fanin operators (Join, Dequeue,
// RR), which all accept a []river.Reader[T] and so compose directly with
// Result.Readers.
type Result[T any] struct {
	Readers []river.Reader[T]
}

type forkShared[T any] struct {
	mu       sync.Mutex
	upstream river.Reader[T]
	root     riverctx.Context
	children []riverctx.Context
	n        int

	queue       [][]T
	done        []bool
	finalSet    []bool
	finalReason []river.StopReason
	wake        []chan struct{}

	pullerOnce sync.Once
}

// Fork behaves like an N-way Dup: it eagerly creates one queue per
// consumer, lazily pulls from upstream via a single shared puller, and
// dispatches each value to every still-active branch. A riverctx tree
// rooted above the N branches only closes once every branch has closed its
// leg, at which point upstream is stopped exactly once. Stop semantics per
// branch mirror Dup's (spec §4.4.3): None is advisory, Silent closes every
// peer once drained, Err(e) surfaces on every peer and stops upstream.
func Fork[T any](upstream river.Reader[T], consumers ...Consumer[T]) *Result[T] {
	n := len(consumers)
	root := riverctx.New()
	children := make([]riverctx.Context, n)
	for i := range children {
		children[i] = root.NewChild()
	}

	f := &forkShared[T]{
		upstream:    upstream,
		root:        root,
		children:    children,
		n:           n,
		queue:       make([][]T, n),
		done:        make([]bool, n),
		finalSet:    make([]bool, n),
		finalReason: make([]river.StopReason, n),
		wake:        make([]chan struct{}, n),
	}
	for i := range f.wake {
		f.wake[i] = make(chan struct{}, 1)
	}

	readers := make([]river.Reader[T], n)
	for i, consumer := range consumers {
		raw := f.reader(i)
		readers[i] = consumer(raw)
	}
	return &Result[T]{Readers: readers}
}

func (f *forkShared[T]) reader(i int) river.Reader[T] {
	return river.NewReader[T](func(ctx context.Context) (river.Item[T], error) {
		return f.read(i, ctx)
	}, func(reason river.StopReason) error {
		return f.stop(i, reason)
	}, f.upstream.Headers())
}

func (f *forkShared[T]) ensurePump() {
	f.pullerOnce.Do(func() {
		go f.pump()
		go f.awaitRootClose()
	})
}

func (f *forkShared[T]) awaitRootClose() {
	<-f.root.Done()
	_ = f.upstream.Stop(toStopReason(f.root.Reason()))
}

func (f *forkShared[T]) notifyAll() {
	for i := range f.wake {
		select {
		case f.wake[i] <- struct{}{}:
		default:
		}
	}
}

func (f *forkShared[T]) allDoneLocked() bool {
	for _, d := range f.done {
		if !d {
			return false
		}
	}
	return true
}

func (f *forkShared[T]) pump() {
	for {
		item, err := f.upstream.Read(f.root)

		f.mu.Lock()
		if err != nil {
			for i := range f.done {
				if !f.done[i] && !f.finalSet[i] {
					f.finalSet[i] = true
					f.finalReason[i] = river.StopErr(err)
				}
			}
			f.notifyAll()
			f.mu.Unlock()
			return
		}
		if item.End {
			for i := range f.done {
				if !f.done[i] && !f.finalSet[i] {
					f.finalSet[i] = true
					f.finalReason[i] = river.StopNone()
				}
			}
			f.notifyAll()
			f.mu.Unlock()
			return
		}

		for i := range f.done {
			if !f.done[i] {
				f.queue[i] = append(f.queue[i], item.Value)
			}
		}
		allDone := f.allDoneLocked()
		f.notifyAll()
		f.mu.Unlock()

		if allDone {
			return
		}
	}
}

func (f *forkShared[T]) read(i int, ctx context.Context) (river.Item[T], error) {
	f.ensurePump()
	for {
		f.mu.Lock()
		// An Err final reason takes priority over anything still queued
		// (spec §5 ordering guarantee 2); Silent/None drain the queue
		// first.
		if f.finalSet[i] && f.finalReason[i].IsErr() {
			reason := f.finalReason[i]
			f.done[i] = true
			f.mu.Unlock()
			f.children[i].Close(toCtxReason(reason))
			return river.Item[T]{End: true}, reason.Err()
		}
		if n := len(f.queue[i]); n > 0 {
			v := f.queue[i][0]
			f.queue[i] = f.queue[i][1:]
			f.mu.Unlock()
			return river.Of(v), nil
		}
		if f.done[i] {
			f.mu.Unlock()
			return river.Item[T]{End: true}, nil
		}
		if f.finalSet[i] {
			reason := f.finalReason[i]
			f.done[i] = true
			f.mu.Unlock()
			f.children[i].Close(toCtxReason(reason))
			return river.Item[T]{End: true}, nil
		}
		f.mu.Unlock()

		select {
		case <-f.wake[i]:
		case <-ctx.Done():
			return river.Item[T]{End: true}, ctx.Err()
		}
	}
}

func (f *forkShared[T]) stop(i int, reason river.StopReason) error {
	f.ensurePump()
	f.mu.Lock()
	if f.done[i] {
		f.mu.Unlock()
		return nil
	}
	f.done[i] = true
	if reason.IsErr() || reason.IsSilent() {
		for j := range f.done {
			if j != i && !f.done[j] &&
				(!f.finalSet[j] || (reason.IsErr() && !f.finalReason[j].IsErr())) {
				f.finalSet[j] = true
				f.finalReason[j] = reason
			}
		}
	}
	f.notifyAll()
	f.mu.Unlock()

	f.children[i].Close(toCtxReason(reason))
	return nil
}
