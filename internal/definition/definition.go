// Package definition asks the tutor what a word means in the context of the
// article being read.
package definition

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/abhisek/wordwise/internal/llm"
)

// Purpose labels definition requests in the LLM event log.
const Purpose = "definition"

var (
	// ErrEmptyTerm is returned when the term is blank.
	ErrEmptyTerm = errors.New("term is empty")

	// ErrEmptyAnswer is returned when the tutor answers with nothing.
	ErrEmptyAnswer = errors.New("tutor returned an empty answer")
)

// Query is a single lookup.
type Query struct {
	Term    string `json:"word" validate:"required"`
	Context string `json:"context"`
}

// Provider explains a term. Implementations must be safe for concurrent use.
type Provider interface {
	Define(ctx context.Context, q Query) (string, error)
}

// Config controls the LLMProvider.
type Config struct {
	// MaxContextRunes caps how much of the article is sent along.
	MaxContextRunes int

	MaxTokens   int
	Temperature float64
}

// DefaultConfig returns the recommended defaults.
func DefaultConfig() Config {
	return Config{
		MaxContextRunes: 1000,
		MaxTokens:       512,
		Temperature:     0.7,
	}
}

const systemPrompt = `You are a friendly AI teacher who explains difficult words so that elementary school students can understand them.

Rules:
- Explain what the word means as it is used in the article.
- Use short sentences and everyday examples.
- Answer in the same language as the article.`

// LLMProvider implements Provider with an LLM.
type LLMProvider struct {
	provider llm.Provider
	config   Config
}

// New creates an LLMProvider.
func New(provider llm.Provider, cfg Config) *LLMProvider {
	return &LLMProvider{provider: provider, config: cfg}
}

// Define returns the tutor's explanation of q.Term.
func (p *LLMProvider) Define(ctx context.Context, q Query) (string, error) {
	term := strings.TrimSpace(q.Term)
	if term == "" {
		return "", ErrEmptyTerm
	}

	ctx = llm.WithPurpose(ctx, Purpose)

	resp, err := p.provider.Generate(ctx, llm.Request{
		System: systemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildUserMessage(term, truncateRunes(q.Context, p.config.MaxContextRunes))},
		},
		MaxTokens:   p.config.MaxTokens,
		Temperature: p.config.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("LLM definition failed: %w", err)
	}

	answer := resp.Text()
	if answer == "" {
		return "", ErrEmptyAnswer
	}
	return answer, nil
}

func buildUserMessage(term, article string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "What does the word '%s' mean? It was used in the news article below.\n", term)
	b.WriteString("---\n")
	b.WriteString(article)
	b.WriteString("\n---")
	return b.String()
}

// truncateRunes returns at most n runes of s. n <= 0 means no limit.
func truncateRunes(s string, n int) string {
	if n <= 0 {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
