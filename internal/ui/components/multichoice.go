package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/wordwise/internal/ui/theme"
)

// MultiChoice is a multiple-choice selector. It knows nothing about the
// right answer until Reveal is called, so grading stays with the caller.
type MultiChoice struct {
	Prompt   string
	Options  []string
	Selected int

	chosen   int
	revealed bool
	correct  string
}

// NewMultiChoice creates a new multiple-choice component.
func NewMultiChoice(prompt string, options []string) MultiChoice {
	return MultiChoice{
		Prompt:  prompt,
		Options: options,
		chosen:  -1,
	}
}

// Update handles keyboard navigation. Enter or a number key picks an
// option; Chosen then reports it.
func (m MultiChoice) Update(msg tea.Msg) (MultiChoice, tea.Cmd) {
	if m.chosen >= 0 {
		return m, nil
	}

	k, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return m, nil
	}

	switch key := k.String(); key {
	case "up", "k":
		m.Selected = move(m.Selected, -1, len(m.Options), nil)
	case "down", "j":
		m.Selected = move(m.Selected, 1, len(m.Options), nil)
	case "enter":
		if len(m.Options) > 0 {
			m.chosen = m.Selected
		}
	default:
		if i, ok := digit(key, len(m.Options)); ok {
			m.Selected, m.chosen = i, i
		}
	}

	return m, nil
}

// Chosen returns the picked option.
func (m MultiChoice) Chosen() (string, bool) {
	if m.chosen < 0 {
		return "", false
	}
	return m.Options[m.chosen], true
}

// Reveal marks correct as the right answer for rendering.
func (m *MultiChoice) Reveal(correct string) {
	m.revealed = true
	m.correct = correct
}

// View renders the multiple-choice component.
func (m MultiChoice) View() string {
	var b strings.Builder
	if m.Prompt != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(m.Prompt))
		b.WriteString("\n\n")
	}

	for i, opt := range m.Options {
		prefix := "  "
		if i == m.Selected && !m.revealed {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%d)  %s", prefix, i+1, opt)

		var style lipgloss.Style
		switch {
		case m.revealed && opt == m.correct:
			style = theme.Correct
		case m.revealed && i == m.chosen:
			style = theme.Incorrect
		case m.revealed:
			style = lipgloss.NewStyle().Foreground(theme.TextDim)
		case i == m.Selected:
			style = theme.Selected
		default:
			style = theme.Unselected
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}

	return b.String()
}
