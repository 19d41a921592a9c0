package llm

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/abhisek/wordwise/internal/store"
)

// Recorder writes one log line and one llm_request event per call to the
// wrapped provider. It sits below the retry layer, so every attempt is
// recorded separately.
type Recorder struct {
	inner    Provider
	provider string
	repo     store.EventRepo
	logger   *slog.Logger
}

// WithRecorder wraps p. provider is the configured provider name, e.g.
// "openai". repo and logger may be nil.
func WithRecorder(p Provider, provider string, repo store.EventRepo, logger *slog.Logger) *Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Recorder{inner: p, provider: provider, repo: repo, logger: logger}
}

func (r *Recorder) Generate(ctx context.Context, req Request) (*Response, error) {
	started := time.Now()
	resp, err := r.inner.Generate(ctx, req)
	elapsed := time.Since(started)

	ev := store.LLMRequestEventData{
		Provider:    r.provider,
		Model:       r.inner.ModelID(),
		Purpose:     PurposeFrom(ctx),
		LatencyMs:   elapsed.Milliseconds(),
		Success:     err == nil,
		RequestBody: transcript(req),
	}
	if resp != nil {
		ev.Model = resp.Model
		ev.InputTokens = resp.Usage.InputTokens
		ev.OutputTokens = resp.Usage.OutputTokens
		ev.ResponseBody = string(resp.Content)
	}

	attrs := []any{"provider", ev.Provider, "model", ev.Model, "purpose", ev.Purpose, "elapsed", elapsed}
	if err != nil {
		ev.ErrorMessage = err.Error()
		r.logger.WarnContext(ctx, "llm request failed", append(attrs, "error", err)...)
	} else {
		r.logger.DebugContext(ctx, "llm request",
			append(attrs, "input_tokens", ev.InputTokens, "output_tokens", ev.OutputTokens)...)
	}

	if r.repo != nil {
		if appendErr := r.repo.AppendLLMRequest(ctx, ev); appendErr != nil {
			r.logger.WarnContext(ctx, "could not record llm request", "error", appendErr)
		}
	}
	return resp, err
}

func (r *Recorder) ModelID() string { return r.inner.ModelID() }

type transcriptMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

type transcriptBody struct {
	System      string              `json:"system,omitempty"`
	Messages    []transcriptMessage `json:"messages"`
	Schema      string              `json:"schema,omitempty"`
	MaxTokens   int                 `json:"max_tokens,omitempty"`
	Temperature float64             `json:"temperature,omitempty"`
}

// transcript renders req as indented JSON for `wordwise llm view`.
func transcript(req Request) string {
	body := transcriptBody{
		System:      req.System,
		Messages:    make([]transcriptMessage, 0, len(req.Messages)),
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	}
	for _, m := range req.Messages {
		body.Messages = append(body.Messages, transcriptMessage(m))
	}
	if req.Schema != nil {
		body.Schema = req.Schema.Name
	}
	b, err := json.MarshalIndent(body, "", "  ")
	if err != nil {
		return ""
	}
	return string(b)
}
