package quiz

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidTransition is returned when an operation is not allowed in
	// the current state, e.g. answering when no question is presented.
	ErrInvalidTransition = errors.New("invalid quiz transition")

	// ErrStale is returned by Finish when the pending request has been
	// superseded by Quit or a newer Begin.
	ErrStale = errors.New("stale question request")

	// ErrTransportFailure matches a GenerationError caused by a failing
	// generator. The attempt can be retried.
	ErrTransportFailure = errors.New("question generation failed")

	// ErrGenerationRejected matches a GenerationError where the generator
	// reported that no question is possible. Not retryable.
	ErrGenerationRejected = errors.New("question generation rejected")
)

// GenerationError wraps a generator failure. It matches ErrTransportFailure
// or ErrGenerationRejected through errors.Is, and the underlying error
// through Unwrap.
type GenerationError struct {
	Rejected bool
	Err      error
}

func (e *GenerationError) Error() string {
	if e.Rejected {
		return fmt.Sprintf("%v: %v", ErrGenerationRejected, e.Err)
	}
	return fmt.Sprintf("%v: %v", ErrTransportFailure, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

func (e *GenerationError) Is(target error) bool {
	if e.Rejected {
		return target == ErrGenerationRejected
	}
	return target == ErrTransportFailure
}
