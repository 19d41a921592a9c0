package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/abhisek/wordwise/internal/article"
	"github.com/abhisek/wordwise/internal/definition"
	"github.com/abhisek/wordwise/internal/questiongen"
	"github.com/abhisek/wordwise/internal/vocab"
)

// ScrapeRequest is the body of POST /api/scrape.
type ScrapeRequest struct {
	URL string `json:"url" validate:"required,url"`
}

// ChatRequest is the body of POST /api/chat.
type ChatRequest struct {
	Word    string `json:"word" validate:"required"`
	Context string `json:"context"`
}

// ChatResponse carries the tutor's explanation.
type ChatResponse struct {
	Answer string `json:"answer"`
}

// QuizRequest is the body of POST /api/quiz.
type QuizRequest struct {
	Entries []vocab.Entry `json:"entries" validate:"dive"`
}

// QuizResponse is one multiple-choice question. Question holds the word.
type QuizResponse struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Answer   string   `json:"answer"`
}

// Options wires the handler to its providers. Any provider may be nil, in
// which case its endpoint answers 503.
type Options struct {
	Articles    article.Provider
	Definitions definition.Provider
	Generator   questiongen.Generator
	Logger      *slog.Logger
}

// Handler implements the HTTP endpoints.
type Handler struct {
	articles    article.Provider
	definitions definition.Provider
	generator   questiongen.Generator
	validator   *validator.Validate
	logger      *slog.Logger
}

// NewHandler creates a Handler.
func NewHandler(opts Options) *Handler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		articles:    opts.Articles,
		definitions: opts.Definitions,
		generator:   opts.Generator,
		validator:   validator.New(),
		logger:      logger,
	}
}

// Root handles GET /.
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "Backend server is running!"})
}

// Ping handles GET /api/.
func (h *Handler) Ping(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"message": "API server is working!"})
}

// Scrape handles POST /api/scrape.
func (h *Handler) Scrape(w http.ResponseWriter, r *http.Request) {
	var req ScrapeRequest
	if !h.bind(w, r, &req) {
		return
	}
	if h.articles == nil {
		respondError(w, r, http.StatusServiceUnavailable, "Article fetching is not available")
		return
	}

	a, err := h.articles.Fetch(r.Context(), req.URL)
	if err != nil {
		h.logger.WarnContext(r.Context(), "scrape failed", "url", req.URL, "error", err)
		var httpErr *article.HTTPError
		switch {
		case errors.Is(err, article.ErrInvalidURL):
			respondError(w, r, http.StatusBadRequest, "Invalid article URL")
		case errors.Is(err, article.ErrArticleNotFound):
			respondError(w, r, http.StatusUnprocessableEntity, "Failed to scrape article")
		case errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusNotFound:
			respondError(w, r, http.StatusUnprocessableEntity, "Failed to scrape article")
		case errors.Is(err, context.DeadlineExceeded):
			respondError(w, r, http.StatusGatewayTimeout, "The article site did not respond in time")
		default:
			respondError(w, r, http.StatusBadGateway, "Failed to scrape article")
		}
		return
	}
	respondJSON(w, http.StatusOK, a)
}

// Chat handles POST /api/chat.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if !h.bind(w, r, &req) {
		return
	}
	if h.definitions == nil {
		respondError(w, r, http.StatusServiceUnavailable, "LLM provider not configured")
		return
	}

	answer, err := h.definitions.Define(r.Context(), definition.Query{Term: req.Word, Context: req.Context})
	if err != nil {
		if errors.Is(err, definition.ErrEmptyTerm) {
			respondError(w, r, http.StatusBadRequest, "Word is required")
			return
		}
		h.logger.ErrorContext(r.Context(), "chat failed", "word", req.Word, "error", err)
		respondError(w, r, http.StatusBadGateway, "The tutor could not answer right now")
		return
	}
	respondJSON(w, http.StatusOK, ChatResponse{Answer: answer})
}

// Quiz handles POST /api/quiz.
func (h *Handler) Quiz(w http.ResponseWriter, r *http.Request) {
	var req QuizRequest
	if !h.bind(w, r, &req) {
		return
	}
	if len(req.Entries) == 0 {
		respondError(w, r, http.StatusUnprocessableEntity, "No learned words to quiz on")
		return
	}
	if h.generator == nil {
		respondError(w, r, http.StatusServiceUnavailable, "LLM provider not configured")
		return
	}

	q, err := h.generator.Generate(r.Context(), req.Entries)
	if err != nil {
		if errors.Is(err, questiongen.ErrNoQuestion) {
			respondError(w, r, http.StatusUnprocessableEntity, "No question could be made from these words")
			return
		}
		h.logger.ErrorContext(r.Context(), "quiz generation failed", "entries", len(req.Entries), "error", err)
		respondError(w, r, http.StatusBadGateway, "Failed to generate a quiz. Please try again shortly.")
		return
	}
	respondJSON(w, http.StatusOK, QuizResponse{
		Question: q.Word,
		Options:  q.Options,
		Answer:   q.CorrectAnswer,
	})
}

// bind decodes and validates the body into v, answering 400 on failure.
func (h *Handler) bind(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := decodeJSON(w, r, v); err != nil {
		respondError(w, r, http.StatusBadRequest, "Invalid request format")
		return false
	}
	if err := h.validator.Struct(v); err != nil {
		respondError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return false
	}
	return true
}
