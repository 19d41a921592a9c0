package questiongen

import (
	"context"
	"errors"

	"github.com/abhisek/wordwise/internal/vocab"
)

// ErrNoQuestion is returned when no question can be built from the input,
// e.g. because the candidate list is empty. It is not retryable.
var ErrNoQuestion = errors.New("no question possible")

// Generator produces multiple-choice vocabulary questions.
type Generator interface {
	// Generate picks one of the candidates and builds a question for it.
	// Returns ErrNoQuestion when candidates is empty. Any other error is a
	// transport-level failure the caller may retry.
	Generate(ctx context.Context, candidates []vocab.Entry) (*Question, error)
}

// GeneratorFunc adapts a plain function to the Generator interface.
type GeneratorFunc func(ctx context.Context, candidates []vocab.Entry) (*Question, error)

func (f GeneratorFunc) Generate(ctx context.Context, candidates []vocab.Entry) (*Question, error) {
	return f(ctx, candidates)
}
