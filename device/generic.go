package device

import (
	"context"

	"github.com/drborges/river"
)

// NewGenericReader is a trivial wrapper over user-supplied closures,
// exposed here as the device-level entry point to river.NewReader (spec
// §4.7 "generic"). Most devices in this package are themselves built on
// it; it is exported directly for callers with a bespoke source that
// doesn't need a context-aware read closure.
func NewGenericReader[T any](readFn func() (river.Item[T], error), stopFn func(river.StopReason) error) river.Reader[T] {
	return river.NewReader[T](func(context.Context) (river.Item[T], error) {
		return readFn()
	}, stopFn, nil)
}

// NewGenericWriter mirrors NewGenericReader for the writer side.
func NewGenericWriter[T any](writeFn func(river.Item[T]) error, stopFn func(river.StopReason) error, resultFn func() any) river.Writer[T] {
	return river.NewWriter[T](func(_ context.Context, item river.Item[T]) error {
		return writeFn(item)
	}, stopFn, resultFn)
}
