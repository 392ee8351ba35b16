// Package fanin implements the merging ("fan-in") operators of spec §4.5:
// Dequeue (arrival order), RR (round robin), Join (per-cycle joiner), and
// Parallel (worker dispatch with optional order preservation).
package fanin

import "github.com/drborges/river"

func headersOf[T any](readers []river.Reader[T]) river.Headers {
	if len(readers) == 0 {
		return nil
	}
	return readers[0].Headers()
}

func stopAll[T any](readers []river.Reader[T], reason river.StopReason) error {
	var firstErr error
	for _, r := range readers {
		if err := r.Stop(reason); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
