package fanin

import (
	"container/heap"
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/drborges/river"
	"golang.org/x/sync/errgroup"
)

// ParallelOptions configures Parallel.
type ParallelOptions struct {
	// Shuffle, when true, delivers results in completion order instead of
	// the order they were dispatched in.
	Shuffle bool
}

type dispatched[T any] struct {
	idx  int
	item river.Item[T]
	err  error
}

type workerOut[U any] struct {
	idx  int
	item river.Item[U]
	err  error
}

// Parallel distributes upstream values round robin across count identical
// instantiations of consumer, each running on its own goroutine supervised
// by an errgroup, and merges their outputs. In the default (non-shuffled)
// mode the merger reassembles the original dispatch order; this assumes
// consumer maps its input to its output one-to-one and in order — the
// shape of every example in spec §4.5.4 — not that it filters or reorders
// internally. A worker error cancels every peer worker through the
// errgroup's shared context, stops the upstream with StopErr, and surfaces
// on the merged reader (spec §4.5.4).
func Parallel[T, U any](upstream river.Reader[T], count int, consumer func(river.Reader[T]) river.Reader[U], opts ParallelOptions) river.Reader[U] {
	if count < 1 {
		count = 1
	}

	workerIn := make([]chan dispatched[T], count)
	for i := range workerIn {
		workerIn[i] = make(chan dispatched[T], 1)
	}
	out := make(chan workerOut[U], count)
	ctx, cancel := context.WithCancel(context.Background())
	grp, gctx := errgroup.WithContext(ctx)

	go dispatch(gctx, upstream, workerIn)

	for w := 0; w < count; w++ {
		w := w
		grp.Go(func() error {
			return runWorker(gctx, w, count, workerIn[w], consumer, out)
		})
	}

	go func() {
		_ = grp.Wait()
		close(out)
	}()

	merger := newMerger[U](out, opts.Shuffle)

	return river.NewReader[U](func(ctx context.Context) (river.Item[U], error) {
		item, err := merger.read(ctx)
		if err != nil && merger.failed != nil {
			cancel()
			_ = upstream.Stop(river.StopErr(err))
		}
		return item, err
	}, func(reason river.StopReason) error {
		cancel()
		return upstream.Stop(reason)
	}, upstream.Headers())
}

func dispatch[T any](ctx context.Context, upstream river.Reader[T], workerIn []chan dispatched[T]) {
	count := len(workerIn)
	idx := 0
	defer func() {
		for _, ch := range workerIn {
			close(ch)
		}
	}()
	for {
		item, err := upstream.Read(ctx)
		if err != nil {
			broadcast(ctx, workerIn, dispatched[T]{err: err})
			return
		}
		if item.End {
			broadcast(ctx, workerIn, dispatched[T]{item: river.Item[T]{End: true}})
			return
		}
		w := idx % count
		select {
		case workerIn[w] <- dispatched[T]{idx: idx, item: item}:
		case <-ctx.Done():
			return
		}
		idx++
	}
}

func broadcast[T any](ctx context.Context, workerIn []chan dispatched[T], d dispatched[T]) {
	for _, ch := range workerIn {
		select {
		case ch <- d:
		case <-ctx.Done():
			return
		}
	}
}

// runWorker recovers a panicking consumer the way pkg/safe.WithRecover does
// (recover, wrap the panic value into an error, log it together with the
// stack trace via slog), since a worker goroutine
// that panics outright would otherwise crash the whole process instead of
// surfacing as a StopErr on the merged reader.
func runWorker[T, U any](ctx context.Context, w, count int, in <-chan dispatched[T], consumer func(river.Reader[T]) river.Reader[U], out chan<- workerOut[U]) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("fanin: parallel worker %d panicked: %v", w, r)
			slog.Error("parallel worker panicked",
				slog.Int("worker", w),
				slog.Any("panic", r),
				slog.String("stack", string(debug.Stack())))
			select {
			case out <- workerOut[U]{idx: w, err: err}:
			case <-ctx.Done():
			}
		}
	}()

	source := river.NewReader[T](func(ctx context.Context) (river.Item[T], error) {
		select {
		case d, ok := <-in:
			if !ok {
				return river.Item[T]{End: true}, nil
			}
			return d.item, d.err
		case <-ctx.Done():
			return river.Item[T]{End: true}, ctx.Err()
		}
	}, nil, nil)

	consumed := consumer(source)
	local := 0
	for {
		item, err := consumed.Read(ctx)
		globalIdx := w + local*count
		local++
		if err != nil {
			select {
			case out <- workerOut[U]{idx: globalIdx, err: err}:
			case <-ctx.Done():
			}
			return err
		}
		if item.End {
			return nil
		}
		select {
		case out <- workerOut[U]{idx: globalIdx, item: item}:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// merger collects tagged worker outputs. In ordered mode it buffers
// out-of-order arrivals in a min-heap keyed by dispatch index and only
// releases the strictly-next one; in shuffle mode it forwards whatever
// arrives first.
type merger[U any] struct {
	out     <-chan workerOut[U]
	shuffle bool
	pending *indexHeap[U]
	next    int
	failed  error
}

func newMerger[U any](out <-chan workerOut[U], shuffle bool) *merger[U] {
	h := &indexHeap[U]{}
	heap.Init(h)
	return &merger[U]{out: out, shuffle: shuffle, pending: h}
}

func (m *merger[U]) read(ctx context.Context) (river.Item[U], error) {
	if m.failed != nil {
		return river.Item[U]{End: true}, nil
	}
	if !m.shuffle {
		for m.pending.Len() > 0 && (*m.pending)[0].idx == m.next {
			v := heap.Pop(m.pending).(workerOut[U])
			m.next++
			return v.item, nil
		}
	}
	for {
		select {
		case wo, ok := <-m.out:
			if !ok {
				return river.Item[U]{End: true}, nil
			}
			if wo.err != nil {
				m.failed = wo.err
				return river.Item[U]{End: true}, wo.err
			}
			if m.shuffle || wo.idx == m.next {
				if !m.shuffle {
					m.next++
				}
				return wo.item, nil
			}
			heap.Push(m.pending, wo)
		case <-ctx.Done():
			return river.Item[U]{End: true}, ctx.Err()
		}
	}
}

type indexHeap[U any] []workerOut[U]

func (h indexHeap[U]) Len() int            { return len(h) }
func (h indexHeap[U]) Less(i, j int) bool  { return h[i].idx < h[j].idx }
func (h indexHeap[U]) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *indexHeap[U]) Push(x any)         { *h = append(*h, x.(workerOut[U])) }
func (h *indexHeap[U]) Pop() any {
	old := *h
	n := len(old)
	v := old[n-1]
	*h = old[:n-1]
	return v
}
