package device

import (
	"context"

	"github.com/drborges/river"
)

// NewEmptyReader returns a reader that yields end immediately.
func NewEmptyReader[T any]() river.Reader[T] {
	return river.Empty[T]()
}

// NewEmptyWriter returns a writer that discards everything written to it.
func NewEmptyWriter[T any]() river.Writer[T] {
	return river.NewWriter[T](func(context.Context, river.Item[T]) error {
		return nil
	}, nil, nil)
}
