// Package quiz implements the state machine that serves one
// multiple-choice question at a time from a set of vocabulary entries.
package quiz

import (
	"context"
	"errors"
	"fmt"

	"github.com/abhisek/wordwise/internal/questiongen"
	"github.com/abhisek/wordwise/internal/vocab"
)

// Session is a quiz over a source of entries, tracking which words have
// been served in a caller-owned WordSet.
//
// The question request is split into Begin and Finish so the generator can
// run without holding the caller's lock. Every Begin and Quit bumps a
// ticket; Finish ignores results carrying an older one.
//
// Session is not safe for concurrent use.
type Session struct {
	state    State
	source   Source
	quizzed  WordSet
	question *questiongen.Question
	feedback *Feedback
	ticket   uint64
}

// NewSession creates an idle Session.
func NewSession() *Session {
	return &Session{}
}

func (s *Session) State() State { return s.state }

// Question returns the presented question, or nil.
func (s *Session) Question() *questiongen.Question { return s.question }

// Feedback returns the feedback of the last answer while in StateAnswered.
func (s *Session) Feedback() *Feedback { return s.feedback }

// Quizzed returns the set of words served in the current cycle.
func (s *Session) Quizzed() WordSet { return s.quizzed }

// Begin starts a cycle over source. Words already in quizzed are skipped,
// and every served word is added to it. When nothing is left the session
// moves to StateExhausted and the returned Pending has Exhausted set.
//
// Begin is allowed from idle, exhausted and loading states. Calling it while
// loading supersedes the outstanding request.
func (s *Session) Begin(source Source, quizzed WordSet) (Pending, error) {
	switch s.state {
	case StateIdle, StateExhausted, StateLoading:
	default:
		return Pending{}, fmt.Errorf("%w: begin while %s", ErrInvalidTransition, s.state)
	}
	if quizzed == nil {
		quizzed = NewWordSet()
	}
	s.source = source
	s.quizzed = quizzed
	return s.begin(), nil
}

// BeginNext requests the following question after feedback was shown,
// reusing the source and quizzed set of the cycle.
func (s *Session) BeginNext() (Pending, error) {
	switch s.state {
	case StateAnswered, StateLoading:
	default:
		return Pending{}, fmt.Errorf("%w: next while %s", ErrInvalidTransition, s.state)
	}
	return s.begin(), nil
}

func (s *Session) begin() Pending {
	s.ticket++
	s.question = nil
	s.feedback = nil

	var available []vocab.Entry
	if s.source != nil {
		for _, e := range s.source.All() {
			if !s.quizzed.Has(e.Word) {
				available = append(available, e)
			}
		}
	}

	if len(available) == 0 {
		s.state = StateExhausted
		return Pending{Exhausted: true, ticket: s.ticket}
	}

	s.state = StateLoading
	return Pending{Candidates: available, ticket: s.ticket}
}

// Finish applies the generator result for p.
//
// On success the question is presented and its word is marked as quizzed
// right away. A rejection moves the session to StateExhausted; any other
// generator error moves it to StateIdle. The quizzed set is unchanged in
// both failure cases and the returned error is a *GenerationError.
func (s *Session) Finish(p Pending, q *questiongen.Question, genErr error) error {
	if p.Exhausted || p.ticket != s.ticket || s.state != StateLoading {
		return ErrStale
	}

	if genErr != nil {
		if errors.Is(genErr, questiongen.ErrNoQuestion) {
			s.state = StateExhausted
			return &GenerationError{Rejected: true, Err: genErr}
		}
		s.state = StateIdle
		return &GenerationError{Err: genErr}
	}

	if q == nil {
		s.state = StateIdle
		return &GenerationError{Err: errors.New("generator returned no question")}
	}
	if !containsWord(p.Candidates, q.Word) {
		s.state = StateIdle
		return &GenerationError{Err: fmt.Errorf("generator returned question for unexpected word %q", q.Word)}
	}

	s.quizzed.Add(q.Word)
	s.question = q
	s.state = StatePresenting
	return nil
}

// Start begins a cycle and generates the first question. A nil question
// with a nil error means the source is exhausted.
func (s *Session) Start(ctx context.Context, gen questiongen.Generator, source Source, quizzed WordSet) (*questiongen.Question, error) {
	p, err := s.Begin(source, quizzed)
	if err != nil {
		return nil, err
	}
	return s.generate(ctx, gen, p)
}

// Next generates the question following an answer, with the same
// semantics as Start.
func (s *Session) Next(ctx context.Context, gen questiongen.Generator) (*questiongen.Question, error) {
	p, err := s.BeginNext()
	if err != nil {
		return nil, err
	}
	return s.generate(ctx, gen, p)
}

func (s *Session) generate(ctx context.Context, gen questiongen.Generator, p Pending) (*questiongen.Question, error) {
	if p.Exhausted {
		return nil, nil
	}
	q, genErr := gen.Generate(ctx, p.Candidates)
	if err := s.Finish(p, q, genErr); err != nil {
		return nil, err
	}
	return s.question, nil
}

// Answer grades selected against the presented question by exact string
// comparison. Each question accepts one answer.
func (s *Session) Answer(selected string) (Feedback, error) {
	if s.state != StatePresenting || s.question == nil {
		return Feedback{}, fmt.Errorf("%w: answer while %s", ErrInvalidTransition, s.state)
	}

	fb := Feedback{
		Word:          s.question.Word,
		Correct:       s.question.IsCorrect(selected),
		CorrectAnswer: s.question.CorrectAnswer,
		Selected:      selected,
	}
	s.feedback = &fb
	s.question = nil
	s.state = StateAnswered
	return fb, nil
}

// Quit abandons the quiz from any state. The quizzed set is left as is and
// any outstanding request becomes stale.
func (s *Session) Quit() {
	s.ticket++
	s.question = nil
	s.feedback = nil
	s.state = StateIdle
}

func containsWord(entries []vocab.Entry, word string) bool {
	for _, e := range entries {
		if e.Word == word {
			return true
		}
	}
	return false
}
