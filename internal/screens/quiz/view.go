package quiz

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	sess "github.com/abhisek/wordwise/internal/session"
	"github.com/abhisek/wordwise/internal/ui/components"
	"github.com/abhisek/wordwise/internal/ui/theme"
)

func (s *QuizScreen) View(width, height int) string {
	v := s.ctrl.Snapshot()
	cw := min(width-8, 76)

	var body string
	switch s.phase() {
	case phaseError:
		body = lipgloss.NewStyle().Foreground(theme.Error).Render(s.errMsg) + "\n\n" +
			theme.Hint.Render("Press any key to go back")
	case phaseLoading:
		body = s.spinner.View() + " Preparing a question..."
	case phaseQuestion:
		body = s.renderQuestion(v, cw)
	case phaseFeedback:
		body = s.renderFeedback(v, cw)
	case phaseFailed:
		body = s.renderFailed(v)
	case phaseDone:
		body = s.renderDone(v, cw)
	}

	var b strings.Builder
	if s.phase() != phaseDone && s.total > 0 {
		label := "Words"
		if s.mode == sess.ModeReview {
			label = "Review"
		}
		b.WriteString(components.NewProgressBar(label, s.served(v), s.total, cw).View())
		b.WriteString("\n\n")
	}
	b.WriteString(body)

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		lipgloss.NewStyle().Width(cw).Render(b.String()))
}

// served is how many words of this cycle have been put on screen.
func (s *QuizScreen) served(v sess.View) int {
	if s.mode == sess.ModePrimary {
		return s.total - v.Remaining
	}
	n := s.answered
	if v.Phase == sess.PhaseQuestion {
		n++
	}
	return min(n, s.total)
}

func (s *QuizScreen) renderQuestion(v sess.View, width int) string {
	if v.Question == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(theme.Subtitle.Render("What does this word mean?"))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, theme.Word.Render(v.Question.Word)))
	b.WriteString("\n\n")
	b.WriteString(s.mc.View())
	return b.String()
}

func (s *QuizScreen) renderFeedback(v sess.View, width int) string {
	var b strings.Builder
	if fb := v.Feedback; fb != nil {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, theme.Word.Render(fb.Word)))
		b.WriteString("\n\n")
	}
	b.WriteString(s.mc.View())
	b.WriteString("\n")

	if s.feedback != nil && s.feedback.Correct {
		b.WriteString(theme.Correct.Render("Correct!"))
	} else {
		b.WriteString(theme.Incorrect.Render("Not quite"))
		if s.feedback != nil {
			b.WriteString("\n")
			b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Width(width).
				Render("Correct answer: " + s.feedback.CorrectAnswer))
		}
	}
	b.WriteString("\n\n")
	b.WriteString(theme.Hint.Render("Press Enter for the next word"))
	return b.String()
}

func (s *QuizScreen) renderFailed(v sess.View) string {
	notice := v.Notice
	if notice == "" {
		notice = "Couldn't load the next question."
	}
	return lipgloss.NewStyle().Foreground(theme.Error).Render(notice) + "\n\n" +
		theme.Hint.Render("R to retry, Esc to leave the quiz")
}

func (s *QuizScreen) renderDone(v sess.View, width int) string {
	var b strings.Builder

	if s.outcome == sess.OutcomeReviewComplete {
		b.WriteString(theme.Title.Render("Review complete"))
		b.WriteString("\n\n")
		b.WriteString(fmt.Sprintf("%d of %d answered correctly.", s.correct, s.answered))
		b.WriteString("\n")
		if n := len(v.Mistakes); n > 0 {
			b.WriteString(theme.Notice.Render(fmt.Sprintf("%d word(s) still need work.", n)))
		} else {
			b.WriteString(theme.Correct.Render("Every mistake has been fixed."))
		}
	} else {
		b.WriteString(theme.Title.Render("Quiz complete"))
		b.WriteString("\n\n")
		if r := v.Results; r != nil {
			b.WriteString(theme.Correct.Render(fmt.Sprintf("Score: %d / %d", r.Score, r.Total)))
		}
	}
	b.WriteString("\n")

	if len(v.Mistakes) > 0 {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render("Words to review"))
		b.WriteString("\n")
		wrap := lipgloss.NewStyle().Width(width).Foreground(theme.TextDim)
		for _, m := range v.Mistakes {
			b.WriteString(theme.Word.Render(m.Word))
			b.WriteString("\n")
			b.WriteString(wrap.Render("  " + firstLine(m.Definition)))
			b.WriteString("\n")
		}
	}

	if v.Notice != "" {
		b.WriteString("\n")
		b.WriteString(theme.Notice.Render(v.Notice))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(s.menu.View())
	return b.String()
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
