package river_test

import (
	"context"
	"errors"
	"testing"

	"github.com/drborges/river"
	"github.com/drborges/river/device"
	"github.com/drborges/river/rivertest"
	. "github.com/smartystreets/goconvey/convey"
)

func TestPeekable(t *testing.T) {
	Convey("Given a peekable reader over 1,2,3", t, func() {
		ctx := context.Background()
		p := river.Peekable[int](device.NewArrayReader([]int{1, 2, 3}, device.Sync()))

		Convey("Peek does not consume", func() {
			item, err := p.Peek(ctx)
			So(err, ShouldBeNil)
			So(item.Value, ShouldEqual, 1)

			item, err = p.Read(ctx)
			So(err, ShouldBeNil)
			So(item.Value, ShouldEqual, 1)
		})

		Convey("Unread re-delivers a value before upstream resumes", func() {
			item, _ := p.Read(ctx)
			So(item.Value, ShouldEqual, 1)
			p.Unread(99)

			item, err := p.Read(ctx)
			So(err, ShouldBeNil)
			So(item.Value, ShouldEqual, 99)

			item, err = p.Read(ctx)
			So(err, ShouldBeNil)
			So(item.Value, ShouldEqual, 2)
		})
	})
}

func TestWhileUntil(t *testing.T) {
	Convey("Given numbers 1..5", t, func() {
		ctx := context.Background()

		Convey("While stops once the predicate first fails", func() {
			nums := device.NewArrayReader([]int{1, 2, 3, 4, 5}, device.Sync())
			w := river.While[int](nums, func(v int) bool { return v < 4 })
			got, err := rivertest.Collect(ctx, w)
			So(err, ShouldBeNil)
			So(got, ShouldResemble, []int{1, 2, 3})
		})

		Convey("Until stops once the predicate first holds", func() {
			nums := device.NewArrayReader([]int{1, 2, 3, 4, 5}, device.Sync())
			u := river.Until[int](nums, func(v int) bool { return v == 4 })
			got, err := rivertest.Collect(ctx, u)
			So(err, ShouldBeNil)
			So(got, ShouldResemble, []int{1, 2, 3})
		})
	})
}

func TestTransformManyToOne(t *testing.T) {
	Convey("Given a transform that sums consecutive pairs", t, func() {
		ctx := context.Background()
		nums := device.NewArrayReader([]int{1, 2, 3, 4, 5}, device.Sync())

		summed := river.Transform[int, int](nums, func(ctx context.Context, in river.Reader[int], out river.Writer[int]) error {
			for {
				a, err := in.Read(ctx)
				if err != nil {
					return err
				}
				if a.End {
					return nil
				}
				b, err := in.Read(ctx)
				if err != nil {
					return err
				}
				if b.End {
					return out.Write(ctx, river.Of(a.Value))
				}
				if err := out.Write(ctx, river.Of(a.Value+b.Value)); err != nil {
					return err
				}
			}
		})

		Convey("Pairs are combined into one output value each", func() {
			got, err := rivertest.Collect(ctx, summed)
			So(err, ShouldBeNil)
			So(got, ShouldResemble, []int{3, 7, 5})
		})
	})
}

func TestBuffer(t *testing.T) {
	Convey("Given a reader buffered ahead of demand", t, func() {
		ctx := context.Background()
		nums := device.NewArrayReader([]int{1, 2, 3}, device.Sync())
		buffered := river.Buffer[int](nums, river.WithBufferSize(2))

		Convey("Values still arrive in order", func() {
			got, err := rivertest.Collect(ctx, buffered)
			So(err, ShouldBeNil)
			So(got, ShouldResemble, []int{1, 2, 3})
		})
	})
}

func TestPipe(t *testing.T) {
	Convey("Given a reader piped into an array writer", t, func() {
		ctx := context.Background()
		nums := device.NewArrayReader([]int{1, 2, 3}, device.Sync())
		w := device.NewArrayWriter[int]()

		out, err := river.Pipe[int](ctx, nums, w)
		So(err, ShouldBeNil)
		So(out.Result(), ShouldResemble, []int{1, 2, 3})
	})

	Convey("Given a writer that stops the chain with StopSilent", t, func() {
		ctx := context.Background()
		nums := device.NewArrayReader([]int{1, 2, 3}, device.Sync())
		w := device.NewGenericWriter[int](func(river.Item[int]) error {
			return &river.StopError{Reason: river.StopSilent()}
		}, nil, nil)

		Convey("The stop is graceful and Pipe returns no error", func() {
			_, err := river.Pipe[int](ctx, nums, w)
			So(err, ShouldBeNil)
		})
	})

	Convey("Given a writer that stops the chain with StopErr", t, func() {
		ctx := context.Background()
		nums := device.NewArrayReader([]int{1, 2, 3}, device.Sync())
		boom := errors.New("disk full")
		w := device.NewGenericWriter[int](func(river.Item[int]) error {
			return &river.StopError{Reason: river.StopErr(boom)}
		}, nil, nil)

		Convey("The error still propagates out of Pipe", func() {
			_, err := river.Pipe[int](ctx, nums, w)
			So(err, ShouldEqual, boom)
		})
	})
}

func TestReduceHelpers(t *testing.T) {
	Convey("Given numbers 1..4", t, func() {
		ctx := context.Background()

		Convey("Reduce sums them", func() {
			nums := device.NewArrayReader([]int{1, 2, 3, 4}, device.Sync())
			total, err := river.Reduce[int, int](ctx, nums, 0, func(acc, v int, _ int) (int, error) {
				return acc + v, nil
			})
			So(err, ShouldBeNil)
			So(total, ShouldEqual, 10)
		})

		Convey("Every reports whether all values satisfy a predicate", func() {
			nums := device.NewArrayReader([]int{2, 4, 6}, device.Sync())
			ok, err := river.Every[int](ctx, nums, func(v int) bool { return v%2 == 0 })
			So(err, ShouldBeNil)
			So(ok, ShouldBeTrue)
		})

		Convey("Some reports whether any value satisfies a predicate", func() {
			nums := device.NewArrayReader([]int{1, 3, 4}, device.Sync())
			ok, err := river.Some[int](ctx, nums, func(v int) bool { return v%2 == 0 })
			So(err, ShouldBeNil)
			So(ok, ShouldBeTrue)
		})

		Convey("ToArray collects every value", func() {
			nums := device.NewArrayReader([]int{1, 2, 3, 4}, device.Sync())
			got, err := river.ToArray[int](ctx, nums)
			So(err, ShouldBeNil)
			So(got, ShouldResemble, []int{1, 2, 3, 4})
		})
	})
}
