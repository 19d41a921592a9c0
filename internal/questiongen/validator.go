package questiongen

import (
	"fmt"

	"github.com/abhisek/wordwise/internal/vocab"
)

// Validator checks a generated question before it is served.
// Implementations should be stateless and safe for concurrent use.
type Validator interface {
	// Name returns a short identifier used in error messages and logs.
	Name() string

	// Validate returns nil if the question passes. The candidates are the
	// entries the question was generated from.
	Validate(q *Question, candidates []vocab.Entry) *ValidationError
}

// ValidationError describes why a question failed validation.
type ValidationError struct {
	Validator string // Name of the validator that failed
	Message   string // Human-readable description of the failure
	Retryable bool   // Whether regeneration is likely to fix this
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validator %q: %s", e.Validator, e.Message)
}
