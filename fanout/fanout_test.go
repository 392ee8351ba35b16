package fanout_test

import (
	"context"
	"testing"

	"github.com/drborges/river"
	"github.com/drborges/river/device"
	"github.com/drborges/river/fanout"
	"github.com/drborges/river/rivertest"
	. "github.com/smartystreets/goconvey/convey"
)

func TestTee(t *testing.T) {
	Convey("Given a reader teed into a secondary recording writer", t, func() {
		ctx := context.Background()
		upstream := device.NewArrayReader([]int{1, 2, 3}, device.Sync())
		secondary := rivertest.NewRecordingWriter[int]()
		teed := fanout.Tee[int](upstream, secondary)

		Convey("Both the primary and secondary streams receive every value", func() {
			So(rivertest.Produce(ctx, teed, 1, 2, 3), ShouldBeNil)
			So(secondary.Ended, ShouldBeTrue)
			So(secondary.Values, ShouldResemble, []int{1, 2, 3})
			So(rivertest.Be(2)(secondary.Values[1]), ShouldBeNil)
		})

		Convey("A write failure on secondary surfaces on the primary and stops upstream", func() {
			failing := device.NewGenericWriter[int](func(river.Item[int]) error {
				return river.ErrWriteAfterEnd
			}, nil, nil)
			teed := fanout.Tee[int](upstream, failing)

			_, err := teed.Read(ctx)
			So(err, ShouldEqual, river.ErrWriteAfterEnd)

			item, err := upstream.Read(ctx)
			So(err, ShouldEqual, river.ErrWriteAfterEnd)
			So(item.End, ShouldBeTrue)
		})
	})
}

func TestDup(t *testing.T) {
	Convey("Given a reader split into two branches", t, func() {
		ctx := context.Background()
		upstream := device.NewArrayReader([]int{0, 1, 2, 3}, device.Sync())
		a, b := fanout.Dup[int](upstream)

		Convey("Both branches independently see every value, in order", func() {
			So(rivertest.Produce(ctx, a, 0, 1, 2, 3), ShouldBeNil)
			So(rivertest.Produce(ctx, b, 0, 1, 2, 3), ShouldBeNil)
		})
	})

	Convey("Given a reader split into two branches where one aborts with an error", t, func() {
		ctx := context.Background()
		upstream := device.NewArrayReader([]int{0, 1, 2, 3, 4}, device.Sync())
		a, b := fanout.Dup[int](upstream)

		Convey("The error surfaces on the peer's next read", func() {
			item, err := a.Read(ctx)
			So(err, ShouldBeNil)
			So(item.Value, ShouldEqual, 0)

			boom := context.Canceled
			So(a.Stop(river.StopErr(boom)), ShouldBeNil)

			_, err = b.Read(ctx)
			if err == nil {
				_, err = b.Read(ctx)
			}
			So(err, ShouldEqual, boom)
		})
	})
}

func TestFork(t *testing.T) {
	Convey("Given a reader forked into three identity consumers", t, func() {
		ctx := context.Background()
		upstream := device.NewArrayReader([]int{1, 2, 3}, device.Sync())
		identity := func(r river.Reader[int]) river.Reader[int] { return r }
		result := fanout.Fork[int](upstream, identity, identity, identity)

		Convey("Every branch sees every value", func() {
			for _, r := range result.Readers {
				So(rivertest.Produce(ctx, r, 1, 2, 3), ShouldBeNil)
			}
		})
	})
}
