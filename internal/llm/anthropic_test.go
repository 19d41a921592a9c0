package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/anthropics/anthropic-sdk-go/option"
)

func newTestAnthropicProvider(t *testing.T, handler http.HandlerFunc) *AnthropicProvider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	p, err := NewAnthropicProvider(AnthropicConfig{APIKey: "test-key", Model: "claude-haiku"},
		option.WithBaseURL(server.URL))
	if err != nil {
		t.Fatalf("NewAnthropicProvider: %v", err)
	}
	return p
}

func anthropicReply(text, stopReason string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":   "msg_test",
			"type": "message",
			"role": "assistant",
			"content": []map[string]any{
				{"type": "text", "text": text},
			},
			"model":       "claude-haiku-4-5-20251001",
			"stop_reason": stopReason,
			"usage":       map[string]any{"input_tokens": 50, "output_tokens": 30},
		})
	}
}

func anthropicError(status int, header http.Header) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		for k, v := range header {
			w.Header()[k] = v
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(map[string]any{
			"type":  "error",
			"error": map[string]any{"type": "error", "message": http.StatusText(status)},
		})
	}
}

var wordSummarySchema = &Schema{
	Name: "test-word-summary",
	Definition: map[string]any{
		"type":       "object",
		"properties": map[string]any{"definition": map[string]any{"type": "string"}},
		"required":   []any{"definition"},
	},
}

func TestAnthropicProvider_Text(t *testing.T) {
	var body map[string]any
	p := newTestAnthropicProvider(t, func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		json.Unmarshal(b, &body)
		anthropicReply("A tariff is a tax on imports.", "end_turn")(w, r)
	})

	resp, err := p.Generate(context.Background(), Request{
		System:    "You are a friendly AI teacher.",
		Messages:  []Message{{Role: RoleUser, Content: "Define tariff."}},
		MaxTokens: 256,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := resp.Text(); got != "A tariff is a tax on imports." {
		t.Errorf("Text() = %q", got)
	}
	if resp.Usage.TotalTokens != 80 {
		t.Errorf("expected 80 total tokens, got %d", resp.Usage.TotalTokens)
	}
	if resp.StopReason != StopEnd {
		t.Errorf("expected stop reason %q, got %q", StopEnd, resp.StopReason)
	}
	if body["model"] != "claude-haiku-4-5-20251001" {
		t.Errorf("request model = %v", body["model"])
	}
}

func TestAnthropicProvider_StructuredInCodeFence(t *testing.T) {
	p := newTestAnthropicProvider(t, anthropicReply("```json\n{\"definition\":\"A tax.\"}\n```", "end_turn"))

	resp, err := p.Generate(context.Background(), Request{
		Messages: []Message{{Role: RoleUser, Content: "Define tariff."}},
		Schema:   wordSummarySchema,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(resp.Content) != `{"definition":"A tax."}` {
		t.Errorf("content = %s", resp.Content)
	}
}

func TestAnthropicProvider_TruncatedStructured(t *testing.T) {
	p := newTestAnthropicProvider(t, anthropicReply(`{"definition":"A ta`, "max_tokens"))

	_, err := p.Generate(context.Background(), Request{
		Messages: []Message{{Role: RoleUser, Content: "Define tariff."}},
		Schema:   wordSummarySchema,
	})
	var mt *ErrMaxTokensExceeded
	if !errors.As(err, &mt) {
		t.Fatalf("expected ErrMaxTokensExceeded, got %T (%v)", err, err)
	}
}

func TestAnthropicProvider_Errors(t *testing.T) {
	t.Run("rate limit keeps retry-after", func(t *testing.T) {
		p := newTestAnthropicProvider(t, anthropicError(http.StatusTooManyRequests, http.Header{"Retry-After": {"2"}}))
		_, err := p.Generate(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "x"}}})
		var rl *ErrRateLimit
		if !errors.As(err, &rl) {
			t.Fatalf("expected ErrRateLimit, got %T (%v)", err, err)
		}
		if rl.RetryAfter != 2*time.Second {
			t.Errorf("RetryAfter = %s, want 2s", rl.RetryAfter)
		}
	})

	t.Run("unauthorized", func(t *testing.T) {
		p := newTestAnthropicProvider(t, anthropicError(http.StatusUnauthorized, nil))
		_, err := p.Generate(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "x"}}})
		if !IsAuthError(err) {
			t.Fatalf("expected auth error, got %T (%v)", err, err)
		}
	})

	t.Run("server error", func(t *testing.T) {
		p := newTestAnthropicProvider(t, anthropicError(http.StatusInternalServerError, nil))
		_, err := p.Generate(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "x"}}})
		var unavail *ErrProviderUnavailable
		if !errors.As(err, &unavail) {
			t.Fatalf("expected ErrProviderUnavailable, got %T (%v)", err, err)
		}
	})
}

func TestNewAnthropicProvider_RequiresKey(t *testing.T) {
	if _, err := NewAnthropicProvider(AnthropicConfig{}); err == nil {
		t.Fatal("expected error for missing key")
	}
}

func TestResolveModel(t *testing.T) {
	tests := []struct {
		name   string
		models map[string]string
		want   string
	}{
		{"claude-sonnet", anthropicModels, "claude-sonnet-4-5-20250929"},
		{"claude-haiku", anthropicModels, "claude-haiku-4-5-20251001"},
		{"claude-opus-4-1", anthropicModels, "claude-opus-4-1"},
		{"gpt-4.1", openaiModels, "gpt-4.1-mini"},
		{"gemini-lite", geminiModels, "gemini-2.5-flash-lite"},
	}
	for _, tt := range tests {
		if got := resolveModel(tt.name, tt.models); got != tt.want {
			t.Errorf("resolveModel(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}
