package session

import (
	"errors"

	"github.com/abhisek/wordwise/internal/article"
	"github.com/abhisek/wordwise/internal/questiongen"
	"github.com/abhisek/wordwise/internal/quiz"
	"github.com/abhisek/wordwise/internal/vocab"
)

// Mode says which quiz cycle, if any, is running.
type Mode int

const (
	ModeNone    Mode = iota // Browsing, no quiz
	ModePrimary             // Quiz over every learned word
	ModeReview              // Quiz over the mistake set
)

func (m Mode) String() string {
	switch m {
	case ModePrimary:
		return "primary"
	case ModeReview:
		return "review"
	default:
		return "none"
	}
}

// Phase is what the user is looking at, derived from the controller state.
type Phase int

const (
	PhaseBrowsing Phase = iota // Reading and looking up words
	PhaseLoading               // Waiting for a question
	PhaseQuestion              // Question awaiting an answer
	PhaseFeedback              // Answer graded, waiting for Next
	PhaseFailed                // Question request failed; Retry or Quit
	PhaseResults               // Primary cycle complete
)

func (p Phase) String() string {
	switch p {
	case PhaseBrowsing:
		return "browsing"
	case PhaseLoading:
		return "loading"
	case PhaseQuestion:
		return "question"
	case PhaseFeedback:
		return "feedback"
	case PhaseFailed:
		return "failed"
	case PhaseResults:
		return "results"
	default:
		return "unknown"
	}
}

// Outcome is the result of a step that requests a question.
type Outcome int

const (
	OutcomeNone            Outcome = iota
	OutcomeQuestion                // A question is presented
	OutcomePrimaryComplete         // Every learned word was served
	OutcomeReviewComplete          // Every mistake was served
)

var (
	// ErrNoEntries is returned when starting a quiz before learning a word.
	ErrNoEntries = errors.New("no learned words to quiz")

	// ErrNoMistakes is returned when starting a review with nothing missed.
	ErrNoMistakes = errors.New("no mistakes to review")

	// ErrQuizInProgress is returned for actions that need the quiz closed.
	ErrQuizInProgress = errors.New("quiz in progress")

	// ErrNothingToRetry is returned by Retry unless the last question
	// request failed.
	ErrNothingToRetry = errors.New("nothing to retry")

	// ErrNoProvider is returned when a required collaborator is not
	// configured.
	ErrNoProvider = errors.New("provider not configured")
)

// Role identifies the author of a chat message.
type Role string

const (
	RoleUser  Role = "user"
	RoleTutor Role = "tutor"
)

// ChatMessage is one line of the lookup transcript.
type ChatMessage struct {
	Role  Role
	Text  string
	Error bool
}

// Results summarizes a completed primary cycle.
type Results struct {
	Score    int
	Total    int
	Mistakes []vocab.Entry
}

// View is a consistent copy of the controller state for rendering.
type View struct {
	SessionID string
	Phase     Phase
	Mode      Mode
	Article   *article.Article
	Entries   []vocab.Entry
	Mistakes  []vocab.Entry
	Question  *questiongen.Question
	Feedback  *quiz.Feedback
	Chat      []ChatMessage
	Notice    string
	Remaining int

	// Results is set in PhaseResults.
	Results *Results
}
