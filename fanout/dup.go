package fanout

import (
	"context"
	"sync"

	"github.com/drborges/river"
	"github.com/drborges/river/riverctx"
)

func toCtxReason(reason river.StopReason) riverctx.Reason {
	switch {
	case reason.IsErr():
		return riverctx.Reason{Kind: riverctx.Err, Err: reason.Err()}
	case reason.IsSilent():
		return riverctx.Reason{Kind: riverctx.Silent}
	default:
		return riverctx.Reason{Kind: riverctx.None}
	}
}

func toStopReason(reason riverctx.Reason) river.StopReason {
	switch reason.Kind {
	case riverctx.Err:
		return river.StopErr(reason.Err)
	case riverctx.Silent:
		return river.StopSilent()
	default:
		return river.StopNone()
	}
}

// dupShared is the node backing Dup: a single upstream reader, a shared
// puller goroutine, one unbounded FIFO queue per branch, and a riverctx
// cancellation tree whose root only closes once both branches have closed
// their leg — at which point upstream is stopped exactly once (spec
// §4.4.2).
type dupShared[T any] struct {
	mu       sync.Mutex
	upstream river.Reader[T]
	root     riverctx.Context
	children [2]riverctx.Context

	queue       [2][]T
	done        [2]bool
	finalSet    [2]bool
	finalReason [2]river.StopReason
	wake        [2]chan struct{}

	pullerOnce sync.Once
}

// Dup splits r into two readers sharing a single upstream puller. A branch
// stopped with StopNone is advisory and does not affect its peer; Silent
// closes the peer once its already-queued values are drained; Err(e)
// surfaces e on the peer's next read and stops upstream with it (spec
// §4.4.2). The exact number of values the shared puller manages to queue
// into the peer before a Silent/Err stop is observed depends on goroutine
// scheduling and is not part of the portable contract — see DESIGN.md.
func Dup[T any](r river.Reader[T]) (river.Reader[T], river.Reader[T]) {
	root := riverctx.New()
	d := &dupShared[T]{
		upstream: r,
		root:     root,
		children: [2]riverctx.Context{root.NewChild(), root.NewChild()},
		wake:     [2]chan struct{}{make(chan struct{}, 1), make(chan struct{}, 1)},
	}
	return d.reader(0), d.reader(1)
}

func (d *dupShared[T]) reader(i int) river.Reader[T] {
	return river.NewReader[T](func(ctx context.Context) (river.Item[T], error) {
		return d.read(i, ctx)
	}, func(reason river.StopReason) error {
		return d.stop(i, reason)
	}, d.upstream.Headers())
}

func (d *dupShared[T]) ensurePump() {
	d.pullerOnce.Do(func() {
		go d.pump()
		go d.awaitRootClose()
	})
}

// awaitRootClose stops upstream exactly once, when the cancellation tree
// reports both branches have closed their leg.
func (d *dupShared[T]) awaitRootClose() {
	<-d.root.Done()
	_ = d.upstream.Stop(toStopReason(d.root.Reason()))
}

func (d *dupShared[T]) notify(i int) {
	select {
	case d.wake[i] <- struct{}{}:
	default:
	}
}

func (d *dupShared[T]) pump() {
	for {
		item, err := d.upstream.Read(d.root)

		d.mu.Lock()
		if err != nil {
			for i := 0; i < 2; i++ {
				if !d.done[i] && !d.finalSet[i] {
					d.finalSet[i] = true
					d.finalReason[i] = river.StopErr(err)
				}
			}
			d.notify(0)
			d.notify(1)
			d.mu.Unlock()
			return
		}
		if item.End {
			for i := 0; i < 2; i++ {
				if !d.done[i] && !d.finalSet[i] {
					d.finalSet[i] = true
					d.finalReason[i] = river.StopNone()
				}
			}
			d.notify(0)
			d.notify(1)
			d.mu.Unlock()
			return
		}

		for i := 0; i < 2; i++ {
			if !d.done[i] {
				d.queue[i] = append(d.queue[i], item.Value)
			}
		}
		bothDone := d.done[0] && d.done[1]
		d.notify(0)
		d.notify(1)
		d.mu.Unlock()

		if bothDone {
			return
		}
	}
}

func (d *dupShared[T]) read(i int, ctx context.Context) (river.Item[T], error) {
	d.ensurePump()
	for {
		d.mu.Lock()
		// An Err final reason takes priority over anything still queued
		// (spec §5 ordering guarantee 2); Silent/None drain the queue
		// first (the "already queued" behavior of scenario 3).
		if d.finalSet[i] && d.finalReason[i].IsErr() {
			reason := d.finalReason[i]
			d.done[i] = true
			d.mu.Unlock()
			d.children[i].Close(toCtxReason(reason))
			return river.Item[T]{End: true}, reason.Err()
		}
		if n := len(d.queue[i]); n > 0 {
			v := d.queue[i][0]
			d.queue[i] = d.queue[i][1:]
			d.mu.Unlock()
			return river.Of(v), nil
		}
		if d.done[i] {
			d.mu.Unlock()
			return river.Item[T]{End: true}, nil
		}
		if d.finalSet[i] {
			reason := d.finalReason[i]
			d.done[i] = true
			d.mu.Unlock()
			d.children[i].Close(toCtxReason(reason))
			return river.Item[T]{End: true}, nil
		}
		d.mu.Unlock()

		select {
		case <-d.wake[i]:
		case <-ctx.Done():
			return river.Item[T]{End: true}, ctx.Err()
		}
	}
}

func (d *dupShared[T]) stop(i int, reason river.StopReason) error {
	d.ensurePump()
	d.mu.Lock()
	if d.done[i] {
		d.mu.Unlock()
		return nil
	}
	d.done[i] = true
	j := 1 - i
	// An Err replaces a None final reason the pump set at upstream end, so
	// the peer still surfaces it on its next read.
	if (reason.IsErr() || reason.IsSilent()) && !d.done[j] &&
		(!d.finalSet[j] || (reason.IsErr() && !d.finalReason[j].IsErr())) {
		d.finalSet[j] = true
		d.finalReason[j] = reason
	}
	d.notify(0)
	d.notify(1)
	d.mu.Unlock()

	d.children[i].Close(toCtxReason(reason))
	return nil
}
