package llm

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/abhisek/wordwise/internal/store"
)

// NewProvider builds the provider selected by cfg. The result applies, from
// the outside in: an overall deadline, retries, then recording of each
// attempt. repo and logger may be nil.
func NewProvider(ctx context.Context, cfg Config, repo store.EventRepo, logger *slog.Logger) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	base, err := newBase(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	p := Provider(WithRecorder(base, cfg.Provider, repo, logger))
	p = WithRetry(p, cfg.Retry)
	return WithDeadline(p, cfg.Timeout), nil
}

func newBase(ctx context.Context, cfg Config) (Provider, error) {
	switch cfg.Provider {
	case "anthropic":
		return NewAnthropicProvider(cfg.Anthropic)
	case "openai":
		return NewOpenAIProvider(cfg.OpenAI)
	case "openrouter":
		return NewOpenRouterProvider(cfg.OpenRouter)
	case "gemini":
		return NewGeminiProvider(ctx, cfg.Gemini)
	case "mock":
		return NewPracticeProvider(), nil
	}
	return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
}

// deadlineProvider bounds each Generate call, retries included.
type deadlineProvider struct {
	Provider
	d time.Duration
}

// WithDeadline cancels each request after d. A non-positive d returns p.
func WithDeadline(p Provider, d time.Duration) Provider {
	if d <= 0 {
		return p
	}
	return deadlineProvider{Provider: p, d: d}
}

func (p deadlineProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, p.d)
	defer cancel()
	return p.Provider.Generate(ctx, req)
}
