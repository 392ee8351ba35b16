package river

import (
	"github.com/pkg/errors"
)

// Sentinel errors for the protocol-violation class (spec §7.3): raised
// synchronously at the point of misuse rather than latched into the
// stream's errored state.
var (
	ErrWriteAfterEnd  = errors.New("river: write after end")
	ErrUnreadTooMuch  = errors.New("river: unread exceeds last accepted read")
	ErrInvalidEndian  = errors.New("river: invalid byte order")
	ErrReadInFlight   = errors.New("river: a read is already in flight on this reader")
	ErrBufferTooSmall = errors.New("river: buffer capacity must be positive")
)

// StopError is the error shape a writer may return to Pipe to unwind a
// chain with the StopReason it wants propagated upstream. Pipe treats a
// None or Silent reason as a graceful early stop and returns no error; for
// an Err reason it returns the carried error.
type StopError struct {
	Reason StopReason
}

func (e *StopError) Error() string { return e.Reason.String() }

// AsStopReason reports whether err (or one of its causes) is a StopError,
// returning the carried reason.
func AsStopReason(err error) (StopReason, bool) {
	var se *StopError
	if errors.As(err, &se) {
		return se.Reason, true
	}
	return StopReason{}, false
}

// Cause unwraps err to its root cause, following github.com/pkg/errors'
// Wrap chain. Exposed so callers that receive a StopReason.Err() can find
// the originating device error without depending on pkg/errors directly.
func Cause(err error) error {
	return errors.Cause(err)
}
