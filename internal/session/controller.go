// Package session coordinates a learner's visit: reading an article,
// looking up words, and the primary and review quiz cycles over them.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/abhisek/wordwise/internal/article"
	"github.com/abhisek/wordwise/internal/definition"
	"github.com/abhisek/wordwise/internal/questiongen"
	"github.com/abhisek/wordwise/internal/quiz"
	"github.com/abhisek/wordwise/internal/store"
	"github.com/abhisek/wordwise/internal/vocab"
)

// Options configures a Controller.
type Options struct {
	Articles    article.Provider
	Definitions definition.Provider
	Generator   questiongen.Generator

	// Events records lookups, answers and cycle transitions. Optional.
	Events store.EventRepo

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Controller owns the session state and serializes every user action with
// one mutex. Calls to the article, definition and question providers run
// without the lock; their results are dropped if the state moved on in the
// meantime.
//
// While a quiz runs there is a question or feedback to show, except after a
// failed question request: then neither exists, the mode is kept and the
// phase is PhaseFailed until Retry or Quit.
type Controller struct {
	mu sync.Mutex

	articles    article.Provider
	definitions definition.Provider
	generator   questiongen.Generator
	events      store.EventRepo
	logger      *slog.Logger

	sessionID string
	article   *article.Article
	chat      []ChatMessage

	learned        *vocab.Store
	mistakes       *vocab.Store
	primaryQuizzed quiz.WordSet
	reviewQuizzed  quiz.WordSet

	mode   Mode
	quiz   *quiz.Session
	failed bool
	notice string

	// Per-cycle counters for session events.
	served  int
	correct int

	// Bumped by ReturnToStart so in-flight lookups and loads are dropped.
	epoch uint64

	queued []func(ctx context.Context) error
}

// New creates a Controller with an empty session.
func New(opts Options) *Controller {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		articles:       opts.Articles,
		definitions:    opts.Definitions,
		generator:      opts.Generator,
		events:         opts.Events,
		logger:         logger,
		sessionID:      uuid.NewString(),
		learned:        vocab.NewStore(),
		mistakes:       vocab.NewStore(),
		primaryQuizzed: quiz.NewWordSet(),
		reviewQuizzed:  quiz.NewWordSet(),
		quiz:           quiz.NewSession(),
	}
}

// SessionID identifies the current session in the event log.
func (c *Controller) SessionID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sessionID
}

// LoadArticle fetches the article the learner will read.
func (c *Controller) LoadArticle(ctx context.Context, rawURL string) (*article.Article, error) {
	if c.articles == nil {
		return nil, fmt.Errorf("article: %w", ErrNoProvider)
	}

	c.mu.Lock()
	epoch := c.epoch
	c.mu.Unlock()

	a, err := c.articles.Fetch(ctx, rawURL)

	c.mu.Lock()
	defer c.mu.Unlock()
	if epoch != c.epoch {
		return nil, quiz.ErrStale
	}
	if err != nil {
		c.logger.WarnContext(ctx, "article fetch failed", "url", rawURL, "error", err)
		return nil, err
	}
	c.article = a
	c.logger.InfoContext(ctx, "article loaded", "url", rawURL, "title", a.Title, "runes", len([]rune(a.Content)))
	return a, nil
}

// LookupWord asks the tutor about term and adds the answer to the learned
// words. Both the question and the answer, or the failure, are appended to
// the chat transcript.
func (c *Controller) LookupWord(ctx context.Context, term string) (string, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return "", definition.ErrEmptyTerm
	}
	if c.definitions == nil {
		return "", fmt.Errorf("definition: %w", ErrNoProvider)
	}

	c.mu.Lock()
	epoch := c.epoch
	sessionID := c.sessionID
	var articleText string
	if c.article != nil {
		articleText = c.article.Content
	}
	c.chat = append(c.chat, ChatMessage{Role: RoleUser, Text: term})
	c.mu.Unlock()

	answer, err := c.definitions.Define(ctx, definition.Query{Term: term, Context: articleText})

	c.mu.Lock()
	if epoch != c.epoch {
		c.mu.Unlock()
		return "", quiz.ErrStale
	}

	ev := store.LookupEventData{SessionID: sessionID, Word: term, Definition: answer, Success: err == nil}
	if err != nil {
		ev.ErrorMessage = err.Error()
		c.chat = append(c.chat, ChatMessage{
			Role:  RoleTutor,
			Text:  "Sorry, I couldn't look that word up. Please try again.",
			Error: true,
		})
		c.logger.WarnContext(ctx, "definition lookup failed", "word", term, "error", err)
	} else {
		c.learned.Upsert(term, answer)
		c.chat = append(c.chat, ChatMessage{Role: RoleTutor, Text: answer})
	}
	c.queue(func(ctx context.Context) error { return c.events.AppendLookup(ctx, ev) })
	c.unlock(ctx)

	if err != nil {
		return "", err
	}
	return answer, nil
}

// StartPrimaryQuiz begins a cycle over every learned word. It clears the
// mistake set and the served words of any earlier cycle.
func (c *Controller) StartPrimaryQuiz(ctx context.Context) (Outcome, error) {
	c.mu.Lock()
	if c.learned.Size() == 0 {
		c.mu.Unlock()
		return OutcomeNone, ErrNoEntries
	}
	if c.mode != ModeNone {
		c.mu.Unlock()
		return OutcomeNone, ErrQuizInProgress
	}

	c.mistakes.Reset()
	c.primaryQuizzed.Reset()
	c.enterMode(ModePrimary)

	return c.begin(ctx, c.learned, c.primaryQuizzed)
}

// StartReview begins a cycle over the words missed in the primary cycle.
func (c *Controller) StartReview(ctx context.Context) (Outcome, error) {
	c.mu.Lock()
	if c.mistakes.Size() == 0 {
		c.mu.Unlock()
		return OutcomeNone, ErrNoMistakes
	}
	if c.mode != ModeNone {
		c.mu.Unlock()
		return OutcomeNone, ErrQuizInProgress
	}

	c.reviewQuizzed.Reset()
	c.enterMode(ModeReview)

	return c.begin(ctx, c.mistakes, c.reviewQuizzed)
}

// Answer grades the presented question. A miss in the primary cycle adds
// the word to the mistake set; a hit in review removes it.
func (c *Controller) Answer(ctx context.Context, selected string) (quiz.Feedback, error) {
	c.mu.Lock()
	fb, err := c.quiz.Answer(selected)
	if err != nil {
		c.mu.Unlock()
		return quiz.Feedback{}, c.invalid(ctx, "answer", err)
	}

	c.served++
	if fb.Correct {
		c.correct++
	}

	switch c.mode {
	case ModePrimary:
		if !fb.Correct {
			if e, ok := c.learned.Get(fb.Word); ok {
				c.mistakes.Add(e)
			}
		}
	case ModeReview:
		if fb.Correct {
			c.mistakes.Remove(fb.Word)
		}
	}

	ev := store.AnswerEventData{
		SessionID:     c.sessionID,
		Mode:          c.mode.String(),
		Word:          fb.Word,
		CorrectAnswer: fb.CorrectAnswer,
		Selected:      fb.Selected,
		Correct:       fb.Correct,
	}
	c.queue(func(ctx context.Context) error { return c.events.AppendAnswer(ctx, ev) })
	c.unlock(ctx)

	return fb, nil
}

// Next requests the question after the current feedback. When every word
// of the cycle has been served the cycle ends and the completion outcome
// is returned.
func (c *Controller) Next(ctx context.Context) (Outcome, error) {
	c.mu.Lock()
	if c.mode == ModeNone {
		c.mu.Unlock()
		return OutcomeNone, c.invalid(ctx, "next", quiz.ErrInvalidTransition)
	}

	p, err := c.quiz.BeginNext()
	if err != nil {
		c.mu.Unlock()
		return OutcomeNone, c.invalid(ctx, "next", err)
	}
	c.notice = ""
	return c.resolve(ctx, p)
}

// Retry repeats a failed question request with the same cycle, keeping the
// words already served.
func (c *Controller) Retry(ctx context.Context) (Outcome, error) {
	c.mu.Lock()
	if c.mode == ModeNone || !c.failed {
		c.mu.Unlock()
		return OutcomeNone, ErrNothingToRetry
	}
	c.failed = false
	c.notice = ""

	if c.mode == ModeReview {
		return c.begin(ctx, c.mistakes, c.reviewQuizzed)
	}
	return c.begin(ctx, c.learned, c.primaryQuizzed)
}

// IsPrimaryComplete reports whether every learned word has been served in
// the primary cycle.
func (c *Controller) IsPrimaryComplete() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.primaryComplete()
}

// Results returns the primary cycle summary. ok is false until the primary
// cycle has ended (the last answer given and Next called), and while any
// quiz is running.
func (c *Controller) Results() (r Results, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.results()
}

// Remaining is the number of learned words not yet served in the primary
// cycle.
func (c *Controller) Remaining() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.learned.Size() - c.primaryQuizzed.Len()
}

// ResetHistory forgets quiz progress and mistakes but keeps the learned
// words.
func (c *Controller) ResetHistory() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.mode != ModeNone {
		return ErrQuizInProgress
	}
	c.clearProgress()
	return nil
}

// Quit abandons the running cycle, if any. Served words and the mistake set
// are cleared as well, so a review is no longer available afterwards.
func (c *Controller) Quit(ctx context.Context) {
	c.mu.Lock()
	if c.mode != ModeNone {
		ev := c.cycleEvent(store.ActionQuit)
		c.queue(func(ctx context.Context) error { return c.events.AppendSessionEvent(ctx, ev) })
	}
	c.quiz.Quit()
	c.mode = ModeNone
	c.clearProgress()
	c.unlock(ctx)
}

// ReturnToStart discards everything, including the article, the learned
// words and the transcript, and starts a new session.
func (c *Controller) ReturnToStart(ctx context.Context) {
	c.mu.Lock()
	if c.mode != ModeNone {
		ev := c.cycleEvent(store.ActionQuit)
		c.queue(func(ctx context.Context) error { return c.events.AppendSessionEvent(ctx, ev) })
	}
	c.quiz.Quit()
	c.mode = ModeNone
	c.clearProgress()
	c.learned.Reset()
	c.article = nil
	c.chat = nil
	c.epoch++
	c.sessionID = uuid.NewString()
	c.unlock(ctx)
}

// Snapshot returns a copy of the state for rendering.
func (c *Controller) Snapshot() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	v := View{
		SessionID: c.sessionID,
		Phase:     c.phase(),
		Mode:      c.mode,
		Entries:   c.learned.All(),
		Mistakes:  c.mistakes.All(),
		Chat:      append([]ChatMessage(nil), c.chat...),
		Notice:    c.notice,
		Remaining: c.learned.Size() - c.primaryQuizzed.Len(),
	}
	if c.article != nil {
		a := *c.article
		v.Article = &a
	}
	if q := c.quiz.Question(); q != nil {
		cp := *q
		cp.Options = append([]string(nil), q.Options...)
		v.Question = &cp
	}
	if fb := c.quiz.Feedback(); fb != nil {
		cp := *fb
		v.Feedback = &cp
	}
	if r, ok := c.results(); ok && v.Phase == PhaseResults {
		v.Results = &r
	}
	return v
}

// begin starts the quiz over source and resolves the first question.
// Called with c.mu held; returns with it released.
func (c *Controller) begin(ctx context.Context, source quiz.Source, quizzed quiz.WordSet) (Outcome, error) {
	// A new cycle or a retry may follow a question that is still shown;
	// close it so Begin is allowed.
	if st := c.quiz.State(); st == quiz.StatePresenting || st == quiz.StateAnswered {
		c.quiz.Quit()
	}
	p, err := c.quiz.Begin(source, quizzed)
	if err != nil {
		c.mu.Unlock()
		return OutcomeNone, c.invalid(ctx, "begin", err)
	}
	return c.resolve(ctx, p)
}

// resolve runs the generator for p without the lock and applies the
// result. Called with c.mu held; returns with it released.
func (c *Controller) resolve(ctx context.Context, p quiz.Pending) (Outcome, error) {
	if p.Exhausted {
		out := c.completeCycle("")
		c.unlock(ctx)
		return out, nil
	}
	if c.generator == nil {
		c.quiz.Quit()
		c.failed = true
		c.notice = "Quiz questions are unavailable: no AI provider is configured."
		c.mu.Unlock()
		return OutcomeNone, fmt.Errorf("question generator: %w", ErrNoProvider)
	}
	c.mu.Unlock()

	q, genErr := c.generator.Generate(ctx, p.Candidates)

	c.mu.Lock()
	err := c.quiz.Finish(p, q, genErr)
	switch {
	case err == nil:
		c.failed = false
		c.unlock(ctx)
		return OutcomeQuestion, nil

	case errors.Is(err, quiz.ErrStale):
		c.mu.Unlock()
		return OutcomeNone, err

	case errors.Is(err, quiz.ErrGenerationRejected):
		c.logger.WarnContext(ctx, "question generator rejected the candidates; ending cycle",
			"mode", c.mode.String(), "candidates", len(p.Candidates), "error", err)
		out := c.completeCycle("No more questions could be made, so this round is over.")
		c.unlock(ctx)
		return out, nil

	case errors.Is(err, quiz.ErrTransportFailure):
		c.failed = true
		c.notice = "Couldn't load the next question. Press retry to try again."
		c.logger.WarnContext(ctx, "question generation failed", "mode", c.mode.String(), "error", err)
		c.mu.Unlock()
		return OutcomeNone, err

	default:
		c.mu.Unlock()
		return OutcomeNone, c.invalid(ctx, "finish", err)
	}
}

// enterMode switches to a new cycle. Called with c.mu held.
func (c *Controller) enterMode(m Mode) {
	c.mode = m
	c.failed = false
	c.notice = ""
	c.served = 0
	c.correct = 0
	ev := c.cycleEvent(store.ActionStart)
	c.queue(func(ctx context.Context) error { return c.events.AppendSessionEvent(ctx, ev) })
}

// completeCycle ends the running cycle. Called with c.mu held.
func (c *Controller) completeCycle(notice string) Outcome {
	out := OutcomePrimaryComplete
	if c.mode == ModeReview {
		out = OutcomeReviewComplete
	}
	ev := c.cycleEvent(store.ActionComplete)
	c.queue(func(ctx context.Context) error { return c.events.AppendSessionEvent(ctx, ev) })

	c.mode = ModeNone
	c.failed = false
	c.notice = notice
	return out
}

func (c *Controller) cycleEvent(action string) store.SessionEventData {
	return store.SessionEventData{
		SessionID: c.sessionID,
		Action:    action,
		Mode:      c.mode.String(),
		Questions: c.served,
		Correct:   c.correct,
		Mistakes:  c.mistakes.Size(),
	}
}

func (c *Controller) clearProgress() {
	c.primaryQuizzed.Reset()
	c.reviewQuizzed.Reset()
	c.mistakes.Reset()
	c.failed = false
	c.notice = ""
}

func (c *Controller) primaryComplete() bool {
	n := c.learned.Size()
	return n > 0 && n == c.primaryQuizzed.Len()
}

func (c *Controller) results() (Results, bool) {
	if !c.primaryComplete() || c.mode != ModeNone {
		return Results{}, false
	}
	return Results{
		Score:    c.learned.Size() - c.mistakes.Size(),
		Total:    c.learned.Size(),
		Mistakes: c.mistakes.All(),
	}, true
}

func (c *Controller) phase() Phase {
	if c.mode == ModeNone {
		if c.primaryComplete() {
			return PhaseResults
		}
		return PhaseBrowsing
	}
	if c.failed {
		return PhaseFailed
	}
	switch c.quiz.State() {
	case quiz.StatePresenting:
		return PhaseQuestion
	case quiz.StateAnswered:
		return PhaseFeedback
	default:
		return PhaseLoading
	}
}

// invalid logs a transition the controller should never attempt.
func (c *Controller) invalid(ctx context.Context, op string, err error) error {
	c.logger.ErrorContext(ctx, "invalid quiz transition", "op", op, "error", err)
	return err
}

// queue defers an event write until the lock is released. Called with c.mu
// held.
func (c *Controller) queue(fn func(ctx context.Context) error) {
	if c.events == nil {
		return
	}
	c.queued = append(c.queued, fn)
}

// unlock releases c.mu and writes the queued events. Event failures are
// logged and never surface to the caller.
func (c *Controller) unlock(ctx context.Context) {
	pending := c.queued
	c.queued = nil
	c.mu.Unlock()

	ctx = context.WithoutCancel(ctx)
	for _, fn := range pending {
		if err := fn(ctx); err != nil {
			c.logger.WarnContext(ctx, "failed to record event", "error", err)
		}
	}
}
