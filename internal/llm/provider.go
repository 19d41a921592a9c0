// Package llm talks to hosted language models on behalf of the tutor and
// the quiz generator.
package llm

import (
	"context"
	"encoding/json"
	"strings"
)

// Provider sends one request to a model.
type Provider interface {
	// Generate returns the model's reply. With req.Schema set, Content is
	// a JSON object that has been checked against the schema; without it,
	// Content is the reply text encoded as a JSON string.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID names the configured model.
	ModelID() string
}

// Request is a single-shot prompt.
type Request struct {
	System   string
	Messages []Message

	// Schema asks for structured output. Nil means plain text.
	Schema *Schema

	MaxTokens int

	// Temperature in [0, 1]. Zero leaves the provider default.
	Temperature float64
}

// Message is one turn of the conversation.
type Message struct {
	Role    Role
	Content string
}

// Role identifies who sent a Message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema is a named JSON Schema for structured replies.
type Schema struct {
	// Name is kebab-case, e.g. "word-summary". Providers use it as the
	// response format name, and compiled schemas are cached by it.
	Name        string
	Description string
	Definition  map[string]any
}

// StopReason says why generation ended.
type StopReason string

const (
	StopEnd       StopReason = "end"
	StopMaxTokens StopReason = "max_tokens"
)

// Response is a model reply.
type Response struct {
	Content    json.RawMessage
	Usage      Usage
	Model      string
	StopReason StopReason
}

// Usage counts tokens for one request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// Text returns a plain-text reply. Content that is not a JSON string is
// returned as is.
func (r *Response) Text() string {
	var s string
	if err := json.Unmarshal(r.Content, &s); err == nil {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(string(r.Content))
}

// finish builds the Response for raw model output. Structured output that
// was cut off by the token limit is reported as ErrMaxTokensExceeded since
// the JSON cannot be complete.
func finish(req Request, raw, model string, stop StopReason, usage Usage) (*Response, error) {
	if usage.TotalTokens == 0 {
		usage.TotalTokens = usage.InputTokens + usage.OutputTokens
	}
	resp := &Response{Model: model, StopReason: stop, Usage: usage}

	if req.Schema == nil {
		// Marshalling a string cannot fail.
		resp.Content, _ = json.Marshal(raw)
		return resp, nil
	}

	content := json.RawMessage(stripCodeFence(raw))
	if stop == StopMaxTokens {
		return nil, &ErrMaxTokensExceeded{Content: content}
	}
	if err := validateResponse(req.Schema, content); err != nil {
		return nil, err
	}
	resp.Content = content
	return resp, nil
}

// stripCodeFence removes a ```json ... ``` wrapper some models add around
// structured replies.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

type purposeKey struct{}

// WithPurpose labels requests made with ctx, e.g. "definition". The label
// ends up in the event log and in `wordwise llm stats`.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeKey{}, purpose)
}

// PurposeFrom returns the label set by WithPurpose, or "unlabeled".
func PurposeFrom(ctx context.Context) string {
	if v, ok := ctx.Value(purposeKey{}).(string); ok && v != "" {
		return v
	}
	return "unlabeled"
}
