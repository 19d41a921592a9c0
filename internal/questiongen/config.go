package questiongen

import "math/rand/v2"

// Config controls the behavior of the LLMGenerator.
type Config struct {
	// Validators run in order on every generated question; the first
	// failure stops the pipeline.
	Validators []Validator

	// MaxAttempts bounds how many candidates are tried before giving up.
	MaxAttempts int

	// MaxTokens is the token budget for each LLM response.
	MaxTokens int

	// Temperature controls LLM output randomness (0.0-1.0).
	Temperature float64

	// Rand picks candidates and shuffles options. Nil uses the global source.
	Rand *rand.Rand
}

// DefaultConfig returns a Config with the standard validator chain
// and recommended defaults.
func DefaultConfig() Config {
	return Config{
		Validators: []Validator{
			&StructuralValidator{},
			&DistinctOptionsValidator{},
		},
		MaxAttempts: 3,
		MaxTokens:   256,
		Temperature: 0.7,
	}
}
