package binary_test

import (
	"context"
	"encoding/binary"
	"testing"

	riverbinary "github.com/drborges/river/binary"
	"github.com/drborges/river/device"
	. "github.com/smartystreets/goconvey/convey"
)

func TestReaderSlidingBuffer(t *testing.T) {
	Convey("Given a chunked byte reader over 'hello world'", t, func() {
		ctx := context.Background()
		chunks := device.NewBufferReader([]byte("hello world"), 4)
		r := riverbinary.NewReader(chunks)

		Convey("Read returns exactly the requested span across chunk boundaries", func() {
			b, err := r.Read(ctx, 5)
			So(err, ShouldBeNil)
			So(string(b), ShouldEqual, "hello")

			b, err = r.Read(ctx, 6)
			So(err, ShouldBeNil)
			So(string(b), ShouldEqual, " world")
		})

		Convey("Unread pushes bytes back for re-reading", func() {
			_, err := r.Read(ctx, 5)
			So(err, ShouldBeNil)
			So(r.Unread(5), ShouldBeNil)

			b, err := r.Read(ctx, 5)
			So(err, ShouldBeNil)
			So(string(b), ShouldEqual, "hello")
		})

		Convey("Reading past the end returns only what remains", func() {
			b, err := r.Read(ctx, 100)
			So(err, ShouldBeNil)
			So(string(b), ShouldEqual, "hello world")
		})

		Convey("Peek does not consume", func() {
			b, err := r.Peek(ctx, 5)
			So(err, ShouldBeNil)
			So(string(b), ShouldEqual, "hello")

			b, err = r.Read(ctx, 5)
			So(err, ShouldBeNil)
			So(string(b), ShouldEqual, "hello")
		})
	})
}

func TestNumericRoundTrip(t *testing.T) {
	Convey("Given a buffer writer and reader pair using big endian", t, func() {
		ctx := context.Background()
		bw := device.NewBufferWriter()
		w := riverbinary.NewWriter(bw, 0, binary.BigEndian)

		So(w.Uint32(ctx, 42), ShouldBeNil)
		So(w.Int16(ctx, -7), ShouldBeNil)
		So(w.Float64(ctx, 3.5), ShouldBeNil)
		So(w.Flush(ctx), ShouldBeNil)

		Convey("Reading them back yields the original values", func() {
			raw := bw.Result().([]byte)
			chunks := device.NewBufferReader(raw, len(raw))
			nr := riverbinary.NewNumericReader(riverbinary.NewReader(chunks), binary.BigEndian)

			v32, err := nr.Uint32(ctx)
			So(err, ShouldBeNil)
			So(v32, ShouldEqual, uint32(42))

			v16, err := nr.Int16(ctx)
			So(err, ShouldBeNil)
			So(v16, ShouldEqual, int16(-7))

			vf, err := nr.Float64(ctx)
			So(err, ShouldBeNil)
			So(vf, ShouldEqual, 3.5)
		})
	})
}

