package finalize

import (
	"errors"
	"fmt"
)

// ErrInFlight is returned when Finalize is called while an earlier call has
// not returned yet.
var ErrInFlight = errors.New("finalize already in flight")

// ErrStale is returned when the model changed while the finalize function was
// running. The outcome is discarded.
var ErrStale = errors.New("finalize outcome discarded: model changed")

var errAttemptUsed = errors.New("finalize attempt already run")

// Phases reported by Error.
const (
	PhaseRequest  = "request"
	PhaseDispatch = "dispatch"
)

// Error wraps an error with the phase where finalization failed.
type Error struct {
	Phase string
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Phase, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
