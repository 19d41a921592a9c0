package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/wordwise/internal/article"
	"github.com/abhisek/wordwise/internal/definition"
	"github.com/abhisek/wordwise/internal/questiongen"
	"github.com/abhisek/wordwise/internal/vocab"
)

type fakeArticles struct {
	article *article.Article
	err     error
}

func (f fakeArticles) Fetch(_ context.Context, _ string) (*article.Article, error) {
	return f.article, f.err
}

type fakeDefinitions struct {
	got definition.Query
	err error
}

func (f *fakeDefinitions) Define(_ context.Context, q definition.Query) (string, error) {
	f.got = q
	if f.err != nil {
		return "", f.err
	}
	return q.Term + " means something", nil
}

var firstGen = questiongen.GeneratorFunc(func(_ context.Context, c []vocab.Entry) (*questiongen.Question, error) {
	if len(c) == 0 {
		return nil, questiongen.ErrNoQuestion
	}
	return &questiongen.Question{
		Word:          c[0].Word,
		Options:       []string{"a", "b", "c", c[0].Definition},
		CorrectAnswer: c[0].Definition,
	}, nil
})

func newTestRouter(opts Options) http.Handler {
	return NewRouter(NewHandler(opts), []string{"http://localhost:3000"})
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestRootAndPing(t *testing.T) {
	h := newTestRouter(Options{})

	rec := do(t, h, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Backend server is running!", decode[map[string]string](t, rec)["status"])

	rec = do(t, h, http.MethodGet, "/api/", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "API server is working!", decode[map[string]string](t, rec)["message"])
}

func TestScrape(t *testing.T) {
	tests := []struct {
		name     string
		provider article.Provider
		body     string
		status   int
	}{
		{
			name:     "ok",
			provider: fakeArticles{article: &article.Article{Title: "T", Content: "C"}},
			body:     `{"url":"https://www.mk.co.kr/news/1"}`,
			status:   http.StatusOK,
		},
		{name: "bad json", provider: fakeArticles{}, body: `{`, status: http.StatusBadRequest},
		{name: "missing url", provider: fakeArticles{}, body: `{}`, status: http.StatusBadRequest},
		{name: "not a url", provider: fakeArticles{}, body: `{"url":"nope"}`, status: http.StatusBadRequest},
		{
			name:     "not found on page",
			provider: fakeArticles{err: article.ErrArticleNotFound},
			body:     `{"url":"https://x.test/a"}`,
			status:   http.StatusUnprocessableEntity,
		},
		{
			name:     "upstream 404",
			provider: fakeArticles{err: &article.HTTPError{StatusCode: 404, URL: "https://x.test/a"}},
			body:     `{"url":"https://x.test/a"}`,
			status:   http.StatusUnprocessableEntity,
		},
		{
			name:     "upstream 500",
			provider: fakeArticles{err: &article.HTTPError{StatusCode: 500, URL: "https://x.test/a"}},
			body:     `{"url":"https://x.test/a"}`,
			status:   http.StatusBadGateway,
		},
		{
			name:     "timeout",
			provider: fakeArticles{err: context.DeadlineExceeded},
			body:     `{"url":"https://x.test/a"}`,
			status:   http.StatusGatewayTimeout,
		},
		{name: "no provider", body: `{"url":"https://x.test/a"}`, status: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, newTestRouter(Options{Articles: tt.provider}), http.MethodPost, "/api/scrape", tt.body)
			assert.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusOK {
				a := decode[article.Article](t, rec)
				assert.Equal(t, "T", a.Title)
				assert.Equal(t, "C", a.Content)
				return
			}
			assert.NotEmpty(t, decode[ErrorResponse](t, rec).Error)
		})
	}
}

func TestChat(t *testing.T) {
	defs := &fakeDefinitions{}
	h := newTestRouter(Options{Definitions: defs})

	rec := do(t, h, http.MethodPost, "/api/chat", `{"word":"inflation","context":"prices rose"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "inflation means something", decode[ChatResponse](t, rec).Answer)
	assert.Equal(t, definition.Query{Term: "inflation", Context: "prices rose"}, defs.got)

	rec = do(t, h, http.MethodPost, "/api/chat", `{"context":"x"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChat_Errors(t *testing.T) {
	rec := do(t, newTestRouter(Options{Definitions: &fakeDefinitions{err: errors.New("rate limited")}}),
		http.MethodPost, "/api/chat", `{"word":"w"}`)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.NotContains(t, rec.Body.String(), "rate limited")

	rec = do(t, newTestRouter(Options{Definitions: &fakeDefinitions{err: definition.ErrEmptyTerm}}),
		http.MethodPost, "/api/chat", `{"word":"  "}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, newTestRouter(Options{}), http.MethodPost, "/api/chat", `{"word":"w"}`)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestQuiz(t *testing.T) {
	h := newTestRouter(Options{Generator: firstGen})

	rec := do(t, h, http.MethodPost, "/api/quiz", `{"entries":[{"word":"ubiquitous","definition":"found everywhere"}]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	q := decode[QuizResponse](t, rec)
	assert.Equal(t, "ubiquitous", q.Question)
	assert.Equal(t, "found everywhere", q.Answer)
	assert.Len(t, q.Options, 4)
	assert.Contains(t, q.Options, q.Answer)
}

func TestQuiz_Errors(t *testing.T) {
	failing := questiongen.GeneratorFunc(func(context.Context, []vocab.Entry) (*questiongen.Question, error) {
		return nil, errors.New("question generation failed: boom")
	})
	rejecting := questiongen.GeneratorFunc(func(context.Context, []vocab.Entry) (*questiongen.Question, error) {
		return nil, questiongen.ErrNoQuestion
	})
	one := `{"entries":[{"word":"w","definition":"d"}]}`

	tests := []struct {
		name   string
		gen    questiongen.Generator
		body   string
		status int
	}{
		{"empty entries", firstGen, `{"entries":[]}`, http.StatusUnprocessableEntity},
		{"missing entries", firstGen, `{}`, http.StatusUnprocessableEntity},
		{"blank word", firstGen, `{"entries":[{"word":"","definition":"d"}]}`, http.StatusBadRequest},
		{"generation failed", failing, one, http.StatusBadGateway},
		{"no question", rejecting, one, http.StatusUnprocessableEntity},
		{"no generator", nil, one, http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, newTestRouter(Options{Generator: tt.gen}), http.MethodPost, "/api/quiz", tt.body)
			assert.Equal(t, tt.status, rec.Code)
			assert.NotEmpty(t, decode[ErrorResponse](t, rec).Error)
		})
	}
}

func TestCORS(t *testing.T) {
	h := newTestRouter(Options{})

	req := httptest.NewRequest(http.MethodOptions, "/api/chat", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")
	req.Header.Set("Access-Control-Request-Headers", "content-type")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
	assert.Equal(t, "content-type", rec.Header().Get("Access-Control-Allow-Headers"))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "http://evil.test")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestServe_ShutsDownOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- serveListener(ctx, ln, newTestRouter(Options{}), nil) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + ln.Addr().String() + "/")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

// reqIDHandler keeps the chi request ID found in each log call's context.
type reqIDHandler struct {
	slog.Handler
	ids *[]string
}

func (reqIDHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h reqIDHandler) Handle(ctx context.Context, r slog.Record) error {
	*h.ids = append(*h.ids, middleware.GetReqID(ctx))
	return nil
}

func TestFailuresLogWithRequestContext(t *testing.T) {
	var ids []string
	logger := slog.New(reqIDHandler{Handler: slog.DiscardHandler, ids: &ids})
	h := NewRouter(NewHandler(Options{
		Articles:    fakeArticles{err: errors.New("connection reset")},
		Definitions: &fakeDefinitions{err: errors.New("provider down")},
		Generator: questiongen.GeneratorFunc(func(context.Context, []vocab.Entry) (*questiongen.Question, error) {
			return nil, errors.New("provider down")
		}),
		Logger: logger,
	}), nil)

	do(t, h, http.MethodPost, "/api/scrape", `{"url":"https://example.com/a"}`)
	do(t, h, http.MethodPost, "/api/chat", `{"word":"tariff"}`)
	do(t, h, http.MethodPost, "/api/quiz", `{"entries":[{"word":"tariff","definition":"a tax"}]}`)

	require.Len(t, ids, 3)
	for _, id := range ids {
		assert.NotEmpty(t, id)
	}
}
