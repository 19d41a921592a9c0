package questiongen

import (
	"strings"

	"github.com/abhisek/wordwise/internal/vocab"
)

// DistinctOptionsValidator rejects questions whose options repeat each
// other after case and whitespace normalization. A distractor that reads
// like the correct answer makes the question ambiguous.
type DistinctOptionsValidator struct{}

func (v *DistinctOptionsValidator) Name() string { return "distinct-options" }

func (v *DistinctOptionsValidator) Validate(q *Question, _ []vocab.Entry) *ValidationError {
	seen := make(map[string]bool, len(q.Options))
	for _, o := range q.Options {
		key := normalizeOption(o)
		if seen[key] {
			return &ValidationError{
				Validator: v.Name(),
				Message:   "options contain duplicates",
				Retryable: true,
			}
		}
		seen[key] = true
	}
	return nil
}

// normalizeOption lowercases, collapses whitespace and drops a trailing period.
func normalizeOption(s string) string {
	s = strings.Join(strings.Fields(strings.ToLower(s)), " ")
	return strings.TrimSuffix(s, ".")
}
