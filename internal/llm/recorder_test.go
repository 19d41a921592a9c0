package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/wordwise/internal/store"
)

// recordingRepo keeps LLM events in memory. Other EventRepo methods are
// not called by the recorder and would panic through the nil embed.
type recordingRepo struct {
	store.EventRepo
	mu     sync.Mutex
	events []store.LLMRequestEventData
	err    error
}

func (r *recordingRepo) AppendLLMRequest(_ context.Context, data store.LLMRequestEventData) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, data)
	return r.err
}

func TestRecorder_Success(t *testing.T) {
	mock := NewMockProvider(MockResponse{
		Content: json.RawMessage(`{"definition":"x"}`),
		Usage:   Usage{InputTokens: 12, OutputTokens: 4},
	})
	repo := &recordingRepo{}
	var logs bytes.Buffer
	p := WithRecorder(mock, "openai", repo, slog.New(slog.NewJSONHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug})))

	_, err := p.Generate(WithPurpose(context.Background(), "quiz-summarize"), Request{
		System:    "sys",
		Messages:  []Message{{Role: RoleUser, Content: "hello"}},
		Schema:    &Schema{Name: "word-summary"},
		MaxTokens: 64,
	})
	require.NoError(t, err)

	require.Len(t, repo.events, 1)
	ev := repo.events[0]
	assert.Equal(t, "openai", ev.Provider)
	assert.Equal(t, "mock", ev.Model)
	assert.Equal(t, "quiz-summarize", ev.Purpose)
	assert.True(t, ev.Success)
	assert.Equal(t, 12, ev.InputTokens)
	assert.Equal(t, 4, ev.OutputTokens)
	assert.Equal(t, `{"definition":"x"}`, ev.ResponseBody)

	var body transcriptBody
	require.NoError(t, json.Unmarshal([]byte(ev.RequestBody), &body))
	assert.Equal(t, "sys", body.System)
	assert.Equal(t, "word-summary", body.Schema)
	assert.Equal(t, 64, body.MaxTokens)
	require.Len(t, body.Messages, 1)
	assert.Equal(t, RoleUser, body.Messages[0].Role)

	assert.Contains(t, logs.String(), `"msg":"llm request"`)
}

func TestRecorder_Failure(t *testing.T) {
	mock := NewMockProvider(MockResponse{Err: errors.New("boom")})
	repo := &recordingRepo{err: errors.New("disk full")}
	var logs bytes.Buffer
	p := WithRecorder(mock, "gemini", repo, slog.New(slog.NewTextHandler(&logs, nil)))

	_, err := p.Generate(context.Background(), Request{})
	require.Error(t, err)

	require.Len(t, repo.events, 1)
	ev := repo.events[0]
	assert.False(t, ev.Success)
	assert.Equal(t, "boom", ev.ErrorMessage)
	assert.Equal(t, "unlabeled", ev.Purpose)
	assert.Empty(t, ev.ResponseBody)
	assert.Contains(t, logs.String(), "llm request failed")
	assert.Contains(t, logs.String(), "could not record llm request")
}

func TestRecorder_NilRepo(t *testing.T) {
	p := WithRecorder(NewMockProvider(MockResponse{Content: json.RawMessage(`"hi"`)}), "mock", nil, nil)

	resp, err := p.Generate(context.Background(), Request{})
	require.NoError(t, err)
	assert.Equal(t, "hi", resp.Text())
	assert.Equal(t, "mock", p.ModelID())
}

func TestRecorder_EachRetryIsRecorded(t *testing.T) {
	mock := NewMockProvider(down(), okReply)
	repo := &recordingRepo{}
	p := WithRetry(WithRecorder(mock, "openai", repo, slog.New(slog.DiscardHandler)), fastRetry())

	_, err := p.Generate(context.Background(), Request{})
	require.NoError(t, err)
	require.Len(t, repo.events, 2)
	assert.False(t, repo.events[0].Success)
	assert.True(t, repo.events[1].Success)
}

type blockingProvider struct{}

func (blockingProvider) Generate(ctx context.Context, _ Request) (*Response, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func (blockingProvider) ModelID() string { return "blocking" }

func TestWithDeadline(t *testing.T) {
	p := WithDeadline(blockingProvider{}, 10*time.Millisecond)
	_, err := p.Generate(context.Background(), Request{})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, "blocking", p.ModelID())

	mock := NewMockProvider()
	assert.Same(t, mock, WithDeadline(mock, 0))
}

func TestNewProvider(t *testing.T) {
	ctx := context.Background()

	p, err := NewProvider(ctx, Config{Provider: "mock"}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "practice", p.ModelID())

	cfg := DefaultConfig()
	cfg.Provider = "openrouter"
	cfg.OpenRouter.APIKey = "sk-or-test"
	p, err = NewProvider(ctx, cfg, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "openai/gpt-4o-mini", p.ModelID())

	cfg = DefaultConfig()
	cfg.Anthropic.APIKey = "ant"
	cfg.Provider = "anthropic"
	p, err = NewProvider(ctx, cfg, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "claude-haiku-4-5-20251001", p.ModelID())

	_, err = NewProvider(ctx, Config{Provider: "openai"}, nil, nil)
	assert.ErrorContains(t, err, "WORDWISE_LLM_OPENAI_API_KEY")
}
