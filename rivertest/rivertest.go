// Package rivertest generalizes the teacher pack's ad hoc matchers
// (expectations.Be, producers/matchers.Produce) into reusable
// goconvey-friendly helpers over river.Reader[T].
package rivertest

import (
	"context"
	"fmt"
	"reflect"

	"github.com/drborges/river"
)

// MatchFunc mirrors the teacher's expectations.MatchFunc signature: it
// returns nil when actual satisfies the match, or a descriptive error
// otherwise, so So(rivertest.Be(4)(x), ShouldBeNil) checks one value; most
// callers use Collect or Produce directly inside Convey/So pairs.
type MatchFunc func(actual any) error

// Be verifies actual is a T deeply equal (reflect.DeepEqual) to expected (spec
// expectations.Be, generalized beyond interface{}).
func Be[T any](expected T) MatchFunc {
	return func(actual any) error {
		v, ok := actual.(T)
		if !ok {
			return fmt.Errorf("rivertest.Be: expected a %T, got %T", expected, actual)
		}
		if !reflect.DeepEqual(v, expected) {
			return fmt.Errorf("rivertest.Be: expected %v, got %v", expected, v)
		}
		return nil
	}
}

// Collect drains r to completion and returns every value it produced, in
// order. It is the workhorse behind Produce and most reader assertions:
//
//	values, err := rivertest.Collect(ctx, r)
//	So(err, ShouldBeNil)
//	So(values, ShouldResemble, []int{1, 2, 3})
func Collect[T any](ctx context.Context, r river.Reader[T]) ([]T, error) {
	var out []T
	for {
		item, err := r.Read(ctx)
		if err != nil {
			return out, err
		}
		if item.End {
			return out, nil
		}
		out = append(out, item.Value)
	}
}

// Produce verifies that r yields exactly the given items, in that order,
// and then ends cleanly — the generic replacement for the teacher's
// producers/matchers.Produce, which was hardcoded to int and to the
// original push-based Producer type.
func Produce[T any](ctx context.Context, r river.Reader[T], expected ...T) error {
	got, err := Collect(ctx, r)
	if err != nil {
		return fmt.Errorf("rivertest.Produce: reader failed: %w", err)
	}
	if len(got) != len(expected) {
		return fmt.Errorf("rivertest.Produce: expected %v, got %v", expected, got)
	}
	for i := range expected {
		if !reflect.DeepEqual(got[i], expected[i]) {
			return fmt.Errorf("rivertest.Produce: expected %v, got %v", expected, got)
		}
	}
	return nil
}

// RecordingWriter is a river.Writer[T] that appends every written value to
// Values, for asserting what a pipeline emitted downstream.
type RecordingWriter[T any] struct {
	Values  []T
	Ended   bool
	Stopped river.StopReason
}

// NewRecordingWriter returns a ready-to-use RecordingWriter.
func NewRecordingWriter[T any]() *RecordingWriter[T] {
	return &RecordingWriter[T]{}
}

func (w *RecordingWriter[T]) Write(ctx context.Context, item river.Item[T]) error {
	if item.End {
		w.Ended = true
		return nil
	}
	w.Values = append(w.Values, item.Value)
	return nil
}

func (w *RecordingWriter[T]) Stop(reason river.StopReason) error {
	w.Stopped = reason
	return nil
}

func (w *RecordingWriter[T]) Result() any { return w.Values }
