package questiongen

import (
	"fmt"
	"strings"

	"github.com/abhisek/wordwise/internal/vocab"
)

// OptionCount is the number of choices in every question.
const OptionCount = 4

// StructuralValidator checks that the question has a word from the
// candidate list, the expected number of non-empty options, and the correct
// answer exactly once among them.
type StructuralValidator struct{}

func (v *StructuralValidator) Name() string { return "structural" }

func (v *StructuralValidator) Validate(q *Question, candidates []vocab.Entry) *ValidationError {
	if q.Word == "" {
		return &ValidationError{Validator: v.Name(), Message: "word is empty"}
	}
	found := false
	for _, c := range candidates {
		if c.Word == q.Word {
			found = true
			break
		}
	}
	if !found {
		return &ValidationError{
			Validator: v.Name(),
			Message:   fmt.Sprintf("word %q is not among the candidates", q.Word),
		}
	}
	if strings.TrimSpace(q.CorrectAnswer) == "" {
		return &ValidationError{
			Validator: v.Name(),
			Message:   "correct answer is empty",
			Retryable: true,
		}
	}
	if len(q.Options) != OptionCount {
		return &ValidationError{
			Validator: v.Name(),
			Message:   fmt.Sprintf("expected %d options, got %d", OptionCount, len(q.Options)),
			Retryable: true,
		}
	}
	matches := 0
	for _, o := range q.Options {
		if strings.TrimSpace(o) == "" {
			return &ValidationError{
				Validator: v.Name(),
				Message:   "option is empty",
				Retryable: true,
			}
		}
		if o == q.CorrectAnswer {
			matches++
		}
	}
	if matches != 1 {
		return &ValidationError{
			Validator: v.Name(),
			Message:   fmt.Sprintf("correct answer appears %d times in options", matches),
			Retryable: true,
		}
	}
	return nil
}
