package fanin_test

import (
	"context"
	"testing"

	"github.com/drborges/river"
	"github.com/drborges/river/device"
	"github.com/drborges/river/fanin"
	"github.com/drborges/river/rivertest"
	. "github.com/smartystreets/goconvey/convey"
)

func TestDequeue(t *testing.T) {
	Convey("Given two branches merged by arrival order", t, func() {
		ctx := context.Background()
		a := device.NewArrayReader([]int{1, 3, 5}, device.Sync())
		b := device.NewArrayReader([]int{2, 4, 6}, device.Sync())
		merged := fanin.Dequeue[int]([]river.Reader[int]{a, b})

		Convey("Every value from both branches is eventually delivered, none lost", func() {
			got, err := rivertest.Collect(ctx, merged)
			So(err, ShouldBeNil)
			So(len(got), ShouldEqual, 6)
			So(got, ShouldContain, 1)
			So(got, ShouldContain, 6)
		})
	})

	Convey("Given an empty set of branches", t, func() {
		merged := fanin.Dequeue[int](nil)
		item, err := merged.Read(context.Background())
		So(err, ShouldBeNil)
		So(item.End, ShouldBeTrue)
	})
}

func TestRR(t *testing.T) {
	Convey("Given three branches merged by round robin", t, func() {
		ctx := context.Background()
		a := device.NewArrayReader([]int{1, 4}, device.Sync())
		b := device.NewArrayReader([]int{2}, device.Sync())
		c := device.NewArrayReader([]int{3, 5}, device.Sync())
		merged := fanin.RR[int]([]river.Reader[int]{a, b, c})

		Convey("Branches are visited in order, skipping exhausted ones", func() {
			So(rivertest.Produce(ctx, merged, 1, 2, 3, 4, 5), ShouldBeNil)
		})
	})
}

func TestJoin(t *testing.T) {
	Convey("Given two branches joined by summing whatever is present each cycle", t, func() {
		ctx := context.Background()
		a := device.NewArrayReader([]int{1, 2, 3}, device.Sync())
		b := device.NewArrayReader([]int{10, 20}, device.Sync())

		sum := func(slots []*fanin.JoinSlot[int]) (int, bool) {
			total := 0
			any := false
			for _, s := range slots {
				if s.Present {
					total += s.Value
					s.Present = false
					any = true
				}
			}
			return total, any
		}

		joined := fanin.Join[int, int]([]river.Reader[int]{a, b}, sum)

		Convey("Each cycle combines whatever both branches had available", func() {
			So(rivertest.Produce(ctx, joined, 11, 22, 3), ShouldBeNil)
		})
	})
}

func TestParallel(t *testing.T) {
	Convey("Given values distributed round robin across 2 workers that square their input", t, func() {
		ctx := context.Background()
		upstream := device.NewArrayReader([]int{0, 1, 2, 3, 4, 5}, device.Sync())
		square := func(r river.Reader[int]) river.Reader[int] {
			return river.Map[int, int](r, func(v int, _ int) (int, error) { return v * v, nil })
		}
		merged := fanin.Parallel[int, int](upstream, 2, square, fanin.ParallelOptions{})

		Convey("Output preserves the original dispatch order", func() {
			recorded := rivertest.NewRecordingWriter[int]()
			_, err := river.Pipe[int](ctx, merged, recorded)
			So(err, ShouldBeNil)
			So(recorded.Ended, ShouldBeTrue)
			So(recorded.Values, ShouldResemble, []int{0, 1, 4, 9, 16, 25})
			So(rivertest.Be(4)(recorded.Values[2]), ShouldBeNil)
		})
	})
}
