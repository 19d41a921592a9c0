package quiz

import (
	"context"
	"errors"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	qz "github.com/abhisek/wordwise/internal/quiz"
	"github.com/abhisek/wordwise/internal/router"
	"github.com/abhisek/wordwise/internal/screen"
	sess "github.com/abhisek/wordwise/internal/session"
	"github.com/abhisek/wordwise/internal/ui/components"
	"github.com/abhisek/wordwise/internal/ui/layout"
	"github.com/abhisek/wordwise/internal/ui/theme"
)

// QuizScreen runs one primary or review cycle.
type QuizScreen struct {
	ctrl    *sess.Controller
	mode    sess.Mode
	spinner spinner.Model

	mc       components.MultiChoice
	feedback *qz.Feedback
	pending  bool

	// Set once the cycle ends.
	outcome sess.Outcome
	menu    components.Menu

	total    int
	answered int
	correct  int
	errMsg   string
}

var _ screen.Screen = (*QuizScreen)(nil)
var _ screen.KeyHintProvider = (*QuizScreen)(nil)
var _ screen.BackHandler = (*QuizScreen)(nil)

// New creates a QuizScreen that starts a cycle of the given mode.
func New(ctrl *sess.Controller, mode sess.Mode) *QuizScreen {
	v := ctrl.Snapshot()
	total := len(v.Entries)
	if mode == sess.ModeReview {
		total = len(v.Mistakes)
	}
	return &QuizScreen{
		ctrl:    ctrl,
		mode:    mode,
		total:   total,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(lipgloss.NewStyle().Foreground(theme.Primary))),
	}
}

func (s *QuizScreen) Init() tea.Cmd {
	return tea.Batch(s.spinner.Tick, s.request(func(ctx context.Context) (sess.Outcome, error) {
		if s.mode == sess.ModeReview {
			return s.ctrl.StartReview(ctx)
		}
		return s.ctrl.StartPrimaryQuiz(ctx)
	}))
}

func (s *QuizScreen) Title() string {
	if s.mode == sess.ModeReview {
		return "Review"
	}
	return "Quiz"
}

func (s *QuizScreen) HandlesBack() bool { return true }

func (s *QuizScreen) KeyHints() []layout.KeyHint {
	switch s.phase() {
	case phaseQuestion:
		return []layout.KeyHint{
			{Key: "1-4", Description: "Answer"},
			{Key: "↑↓ Enter", Description: "Select"},
			{Key: "Esc", Description: "Quit quiz"},
		}
	case phaseFeedback:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Next"},
			{Key: "Esc", Description: "Quit quiz"},
		}
	case phaseFailed:
		return []layout.KeyHint{
			{Key: "R", Description: "Retry"},
			{Key: "Esc", Description: "Quit quiz"},
		}
	case phaseDone:
		return []layout.KeyHint{
			{Key: "↑↓ Enter", Description: "Select"},
			{Key: "Esc", Description: "Back to article"},
		}
	default:
		return []layout.KeyHint{{Key: "Esc", Description: "Quit quiz"}}
	}
}

type phase int

const (
	phaseLoading phase = iota
	phaseQuestion
	phaseFeedback
	phaseFailed
	phaseDone
	phaseError
)

func (s *QuizScreen) phase() phase {
	switch {
	case s.errMsg != "":
		return phaseError
	case s.outcome == sess.OutcomePrimaryComplete || s.outcome == sess.OutcomeReviewComplete:
		return phaseDone
	case s.pending:
		return phaseLoading
	}
	switch s.ctrl.Snapshot().Phase {
	case sess.PhaseQuestion:
		return phaseQuestion
	case sess.PhaseFeedback:
		return phaseFeedback
	case sess.PhaseFailed:
		return phaseFailed
	default:
		return phaseLoading
	}
}

func (s *QuizScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case stepDoneMsg:
		return s.handleStep(msg)

	case spinner.TickMsg:
		if s.phase() != phaseLoading {
			return s, nil
		}
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd

	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *QuizScreen) handleStep(msg stepDoneMsg) (screen.Screen, tea.Cmd) {
	s.pending = false

	switch {
	case msg.Err == nil:
	case errors.Is(msg.Err, qz.ErrStale):
		// Superseded by a quit; nothing to show.
		return s, nil
	case errors.Is(msg.Err, qz.ErrTransportFailure), errors.Is(msg.Err, sess.ErrNoProvider):
		// The controller reports the failed phase and its notice.
		return s, nil
	case errors.Is(msg.Err, sess.ErrNoEntries):
		s.errMsg = "Look up at least one word before taking a quiz."
		return s, nil
	case errors.Is(msg.Err, sess.ErrNoMistakes):
		s.errMsg = "There are no mistakes to review."
		return s, nil
	default:
		s.errMsg = msg.Err.Error()
		return s, nil
	}

	switch msg.Outcome {
	case sess.OutcomeQuestion:
		s.feedback = nil
		if q := s.ctrl.Snapshot().Question; q != nil {
			s.mc = components.NewMultiChoice("", q.Options)
		}
	case sess.OutcomePrimaryComplete, sess.OutcomeReviewComplete:
		s.outcome = msg.Outcome
		s.menu = s.buildMenu()
	}
	return s, nil
}

func (s *QuizScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	switch s.phase() {
	case phaseError:
		return s, pop

	case phaseDone:
		if key == "esc" {
			return s, pop
		}
		var cmd tea.Cmd
		s.menu, cmd = s.menu.Update(msg)
		return s, cmd

	case phaseQuestion:
		if key == "esc" {
			return s, s.quit()
		}
		s.mc, _ = s.mc.Update(msg)
		selected, ok := s.mc.Chosen()
		if !ok {
			return s, nil
		}
		fb, err := s.ctrl.Answer(context.Background(), selected)
		if err != nil {
			s.errMsg = err.Error()
			return s, nil
		}
		s.feedback = &fb
		s.mc.Reveal(fb.CorrectAnswer)
		s.answered++
		if fb.Correct {
			s.correct++
		}
		return s, nil

	case phaseFeedback:
		switch key {
		case "esc":
			return s, s.quit()
		case "enter", "space", " ", "n":
			return s, tea.Batch(s.spinner.Tick, s.request(s.ctrl.Next))
		}
		return s, nil

	case phaseFailed:
		switch key {
		case "esc":
			return s, s.quit()
		case "r", "R":
			return s, tea.Batch(s.spinner.Tick, s.request(s.ctrl.Retry))
		}
		return s, nil

	default:
		if key == "esc" {
			return s, s.quit()
		}
		return s, nil
	}
}

// request runs a controller step in the background.
func (s *QuizScreen) request(step func(context.Context) (sess.Outcome, error)) tea.Cmd {
	s.pending = true
	return func() tea.Msg {
		out, err := step(context.Background())
		return stepDoneMsg{Outcome: out, Err: err}
	}
}

func (s *QuizScreen) quit() tea.Cmd {
	s.ctrl.Quit(context.Background())
	return pop
}

func (s *QuizScreen) buildMenu() components.Menu {
	v := s.ctrl.Snapshot()
	ctrl := s.ctrl

	reviewLabel := "Review mistakes"
	if s.mode == sess.ModeReview {
		reviewLabel = "Review remaining mistakes"
	}
	items := []components.MenuItem{
		{
			Label:    reviewLabel,
			Disabled: len(v.Mistakes) == 0,
			Action: func() tea.Msg {
				return router.ReplaceScreenMsg{Screen: New(ctrl, sess.ModeReview)}
			},
		},
		{
			Label:  "Back to article",
			Action: pop,
		},
	}
	return components.NewMenu(items)
}

func pop() tea.Msg { return router.PopScreenMsg{} }
