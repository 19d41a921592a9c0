package questiongen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"

	"github.com/abhisek/wordwise/internal/llm"
	"github.com/abhisek/wordwise/internal/vocab"
)

// LLM purposes recorded in the event log.
const (
	PurposeSummarize   = "quiz-summarize"
	PurposeDistractors = "quiz-distractors"
)

// LLMGenerator implements Generator using the LLM provider. Each attempt
// picks a random candidate, condenses its definition and asks for three
// wrong definitions to mix in.
type LLMGenerator struct {
	provider llm.Provider
	config   Config

	mu sync.Mutex // guards config.Rand
}

// New creates a new LLMGenerator with the given provider and config.
func New(provider llm.Provider, cfg Config) *LLMGenerator {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 1
	}
	return &LLMGenerator{provider: provider, config: cfg}
}

type summaryOutput struct {
	Definition string `json:"definition"`
}

type distractorOutput struct {
	Distractors []string `json:"distractors"`
}

// Generate produces a single validated question for one of the candidates.
func (g *LLMGenerator) Generate(ctx context.Context, candidates []vocab.Entry) (*Question, error) {
	if len(candidates) == 0 {
		return nil, ErrNoQuestion
	}

	var lastErr error
	for attempt := 0; attempt < g.config.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		entry := candidates[g.intN(len(candidates))]
		q, err := g.attempt(ctx, entry, candidates)
		if err == nil {
			return q, nil
		}
		lastErr = err

		var verr *ValidationError
		if errors.As(err, &verr) && !verr.Retryable {
			break
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			break
		}
	}

	return nil, fmt.Errorf("question generation failed: %w", lastErr)
}

func (g *LLMGenerator) attempt(ctx context.Context, entry vocab.Entry, candidates []vocab.Entry) (*Question, error) {
	correct, err := g.summarize(ctx, entry)
	if err != nil {
		return nil, err
	}

	distractors, err := g.distractors(ctx, entry.Word, correct)
	if err != nil {
		return nil, err
	}

	options := make([]string, 0, len(distractors)+1)
	options = append(options, distractors...)
	options = append(options, correct)
	g.shuffle(options)

	q := &Question{
		Word:          entry.Word,
		Options:       options,
		CorrectAnswer: correct,
	}

	for _, v := range g.config.Validators {
		if verr := v.Validate(q, candidates); verr != nil {
			return nil, verr
		}
	}

	return q, nil
}

func (g *LLMGenerator) summarize(ctx context.Context, entry vocab.Entry) (string, error) {
	ctx = llm.WithPurpose(ctx, PurposeSummarize)

	resp, err := g.provider.Generate(ctx, llm.Request{
		System: summarizePrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildSummaryMessage(entry.Word, entry.Definition)},
		},
		Schema:      SummarySchema,
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("LLM summary failed: %w", err)
	}

	var out summaryOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return "", fmt.Errorf("failed to parse summary response: %w", err)
	}

	def := strings.TrimSpace(out.Definition)
	if def == "" {
		return "", &ValidationError{Validator: "summary", Message: "definition is empty", Retryable: true}
	}
	return def, nil
}

func (g *LLMGenerator) distractors(ctx context.Context, word, correct string) ([]string, error) {
	ctx = llm.WithPurpose(ctx, PurposeDistractors)

	resp, err := g.provider.Generate(ctx, llm.Request{
		System: distractorPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildDistractorMessage(word, correct)},
		},
		Schema:      DistractorSchema,
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("LLM distractors failed: %w", err)
	}

	var out distractorOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, fmt.Errorf("failed to parse distractor response: %w", err)
	}

	if len(out.Distractors) != OptionCount-1 {
		return nil, &ValidationError{
			Validator: "distractors",
			Message:   fmt.Sprintf("expected %d distractors, got %d", OptionCount-1, len(out.Distractors)),
			Retryable: true,
		}
	}
	result := make([]string, len(out.Distractors))
	for i, d := range out.Distractors {
		d = strings.TrimSpace(d)
		if d == "" {
			return nil, &ValidationError{Validator: "distractors", Message: "distractor is empty", Retryable: true}
		}
		result[i] = d
	}
	return result, nil
}

func (g *LLMGenerator) intN(n int) int {
	if g.config.Rand == nil {
		return rand.IntN(n)
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.config.Rand.IntN(n)
}

func (g *LLMGenerator) shuffle(s []string) {
	swap := func(i, j int) { s[i], s[j] = s[j], s[i] }
	if g.config.Rand == nil {
		rand.Shuffle(len(s), swap)
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.config.Rand.Shuffle(len(s), swap)
}
