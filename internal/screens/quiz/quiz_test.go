package quiz

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/wordwise/internal/definition"
	"github.com/abhisek/wordwise/internal/questiongen"
	"github.com/abhisek/wordwise/internal/router"
	"github.com/abhisek/wordwise/internal/screen"
	sess "github.com/abhisek/wordwise/internal/session"
	"github.com/abhisek/wordwise/internal/vocab"
)

type echoDefinitions struct{}

func (echoDefinitions) Define(_ context.Context, q definition.Query) (string, error) {
	return q.Term + " means something", nil
}

// firstGen always asks about the first candidate with the answer first.
var firstGen = questiongen.GeneratorFunc(func(_ context.Context, c []vocab.Entry) (*questiongen.Question, error) {
	if len(c) == 0 {
		return nil, questiongen.ErrNoQuestion
	}
	return &questiongen.Question{
		Word:          c[0].Word,
		Options:       []string{c[0].Definition, "wrong 1", "wrong 2", "wrong 3"},
		CorrectAnswer: c[0].Definition,
	}, nil
})

func newController(t *testing.T, gen questiongen.Generator, words ...string) *sess.Controller {
	t.Helper()
	c := sess.New(sess.Options{Definitions: echoDefinitions{}, Generator: gen})
	for _, w := range words {
		if _, err := c.LookupWord(context.Background(), w); err != nil {
			t.Fatalf("lookup %q: %v", w, err)
		}
	}
	return c
}

func press(s string) tea.KeyPressMsg {
	switch s {
	case "enter":
		return tea.KeyPressMsg{Code: tea.KeyEnter}
	case "esc":
		return tea.KeyPressMsg{Code: tea.KeyEscape}
	}
	return tea.KeyPressMsg{Code: []rune(s)[0], Text: s}
}

// start runs the start request synchronously.
func start(t *testing.T, s *QuizScreen) {
	t.Helper()
	step := s.request(func(ctx context.Context) (sess.Outcome, error) {
		if s.mode == sess.ModeReview {
			return s.ctrl.StartReview(ctx)
		}
		return s.ctrl.StartPrimaryQuiz(ctx)
	})
	s.Update(step())
}

// next presses Enter on the feedback view and runs the request.
func next(t *testing.T, s *QuizScreen) {
	t.Helper()
	_, cmd := s.Update(press("enter"))
	if cmd == nil {
		t.Fatal("expected a next command")
	}
	// Batch of spinner tick and the request; run the request directly.
	s.Update(s.request(s.ctrl.Next)())
}

func TestQuizScreen_PrimaryCycle(t *testing.T) {
	ctrl := newController(t, firstGen, "alpha", "beta")
	s := New(ctrl, sess.ModePrimary)
	start(t, s)

	if s.phase() != phaseQuestion {
		t.Fatalf("expected question phase, got %d", s.phase())
	}
	if !strings.Contains(s.View(100, 30), "alpha") {
		t.Error("expected the word in the question view")
	}

	s.Update(press("1")) // correct
	if s.phase() != phaseFeedback {
		t.Fatalf("expected feedback phase, got %d", s.phase())
	}
	if s.feedback == nil || !s.feedback.Correct {
		t.Fatal("expected correct feedback")
	}
	next(t, s)

	s.Update(press("2")) // wrong
	if s.feedback == nil || s.feedback.Correct {
		t.Fatal("expected incorrect feedback")
	}
	if !strings.Contains(s.View(100, 30), "Correct answer") {
		t.Error("expected the correct answer in the feedback view")
	}
	next(t, s)

	if s.phase() != phaseDone {
		t.Fatalf("expected done phase, got %d", s.phase())
	}
	view := s.View(100, 30)
	if !strings.Contains(view, "Score: 1 / 2") {
		t.Errorf("expected score in results view:\n%s", view)
	}
	if !strings.Contains(view, "beta") {
		t.Error("expected missed word in results view")
	}

	// First menu item starts the review in place.
	_, cmd := s.Update(press("1"))
	if cmd == nil {
		t.Fatal("expected review command")
	}
	msg, ok := cmd().(router.ReplaceScreenMsg)
	if !ok {
		t.Fatalf("expected ReplaceScreenMsg, got %T", cmd())
	}
	review, ok := msg.Screen.(*QuizScreen)
	if !ok || review.mode != sess.ModeReview {
		t.Fatal("expected a review quiz screen")
	}
	if review.total != 1 {
		t.Errorf("expected review over 1 word, got %d", review.total)
	}
}

func TestQuizScreen_FailedThenRetry(t *testing.T) {
	fail := true
	gen := questiongen.GeneratorFunc(func(ctx context.Context, c []vocab.Entry) (*questiongen.Question, error) {
		if fail {
			return nil, errors.New("timeout")
		}
		return firstGen(ctx, c)
	})
	ctrl := newController(t, gen, "alpha")
	s := New(ctrl, sess.ModePrimary)
	start(t, s)

	if s.phase() != phaseFailed {
		t.Fatalf("expected failed phase, got %d", s.phase())
	}
	if !strings.Contains(s.View(100, 30), "retry") {
		t.Error("expected retry hint")
	}

	fail = false
	_, cmd := s.Update(press("r"))
	if cmd == nil {
		t.Fatal("expected retry command")
	}
	s.Update(s.request(ctrl.Retry)())

	if s.phase() != phaseQuestion {
		t.Fatalf("expected question after retry, got %d", s.phase())
	}
}

func TestQuizScreen_EscQuits(t *testing.T) {
	ctrl := newController(t, firstGen, "alpha", "beta")
	s := New(ctrl, sess.ModePrimary)
	start(t, s)

	_, cmd := s.Update(press("esc"))
	if cmd == nil {
		t.Fatal("expected pop command")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Error("expected PopScreenMsg")
	}
	if ctrl.Snapshot().Mode != sess.ModeNone {
		t.Error("expected quiz to be quit")
	}
	if ctrl.Remaining() != 2 {
		t.Errorf("expected served words cleared, got %d remaining", ctrl.Remaining())
	}
}

func TestQuizScreen_NoMistakes(t *testing.T) {
	ctrl := newController(t, firstGen, "alpha")
	s := New(ctrl, sess.ModeReview)
	start(t, s)

	if s.phase() != phaseError {
		t.Fatalf("expected error phase, got %d", s.phase())
	}
	_, cmd := s.Update(press("x"))
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Error("expected any key to go back")
	}
}

func TestQuizScreen_HandlesBack(t *testing.T) {
	var s screen.Screen = New(newController(t, firstGen), sess.ModePrimary)
	if bh, ok := s.(screen.BackHandler); !ok || !bh.HandlesBack() {
		t.Error("quiz screen must handle Esc itself")
	}
}
