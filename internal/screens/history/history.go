// Package history shows past quiz answers from the event log.
package history

import (
	"context"
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"

	"github.com/abhisek/wordwise/internal/router"
	"github.com/abhisek/wordwise/internal/screen"
	"github.com/abhisek/wordwise/internal/store"
	"github.com/abhisek/wordwise/internal/ui/layout"
	"github.com/abhisek/wordwise/internal/ui/theme"
)

const answerLimit = 100

type loadedMsg struct {
	answers []store.AnswerRecord
	err     error
}

// HistoryScreen lists past quiz answers, newest first. "m" narrows the
// list to missed words.
type HistoryScreen struct {
	repo       store.EventRepo
	all        []store.AnswerRecord
	rows       []store.AnswerRecord
	cursor     int
	missedOnly bool
	loaded     bool
	err        error
}

var (
	_ screen.Screen          = (*HistoryScreen)(nil)
	_ screen.KeyHintProvider = (*HistoryScreen)(nil)
)

func New(repo store.EventRepo) *HistoryScreen {
	return &HistoryScreen{repo: repo}
}

func (s *HistoryScreen) Init() tea.Cmd {
	repo := s.repo
	return func() tea.Msg {
		if repo == nil {
			return loadedMsg{}
		}
		answers, err := repo.QueryAnswers(context.Background(), store.QueryOpts{Limit: answerLimit})
		return loadedMsg{answers: answers, err: err}
	}
}

func (s *HistoryScreen) Title() string { return "History" }

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	filter := "Missed only"
	if s.missedOnly {
		filter = "Show all"
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "m", Description: filter},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		s.loaded = true
		s.err = msg.err
		s.all = msg.answers
		s.refilter()
	case tea.KeyPressMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			s.cursor = max(s.cursor-1, 0)
		case "down", "j":
			s.cursor = max(min(s.cursor+1, len(s.rows)-1), 0)
		case "m":
			s.missedOnly = !s.missedOnly
			s.refilter()
		}
	}
	return s, nil
}

func (s *HistoryScreen) refilter() {
	s.rows = s.all
	if s.missedOnly {
		s.rows = nil
		for _, a := range s.all {
			if !a.Correct {
				s.rows = append(s.rows, a)
			}
		}
	}
	s.cursor = 0
}

func (s *HistoryScreen) View(width, height int) string {
	switch {
	case s.err != nil:
		return message(width, height, theme.Incorrect, "Could not load history: "+s.err.Error())
	case !s.loaded:
		return message(width, height, theme.Hint, "Loading history...")
	case len(s.all) == 0:
		return message(width, height, theme.Hint, "No quiz answers yet. Read an article and take a quiz!")
	case len(s.rows) == 0:
		return message(width, height, theme.Hint, "No missed words. Press m to show everything.")
	}

	correct := 0
	for _, a := range s.all {
		if a.Correct {
			correct++
		}
	}
	summary := theme.Subtitle.Render(fmt.Sprintf("%d answers, %d correct", len(s.all), correct))

	// Summary, blank line, table header and the detail block take 6 lines.
	visible := max(height-6, 1)
	grid := s.table(width, visible).Render()
	return lipgloss.JoinVertical(lipgloss.Left, summary, "", grid, s.detail(width))
}

// table renders the window of rows that keeps the cursor visible.
func (s *HistoryScreen) table(width, visible int) *table.Table {
	first := max(s.cursor-visible+1, 0)
	last := min(first+visible, len(s.rows))

	t := table.New().
		Width(width).
		Border(lipgloss.HiddenBorder()).
		Headers("When", "Mode", "Word", "").
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return theme.Heading.Padding(0, 1)
			case first+row == s.cursor:
				return theme.Selected.Padding(0, 1)
			}
			return theme.Body.Padding(0, 1)
		})
	for _, a := range s.rows[first:last] {
		mark := theme.Correct.Render("✓")
		if !a.Correct {
			mark = theme.Incorrect.Render("✗")
		}
		t.Row(a.Timestamp.Local().Format("Jan 02 15:04"), a.Mode, a.Word, mark)
	}
	return t
}

// detail describes the answer under the cursor.
func (s *HistoryScreen) detail(width int) string {
	a := s.rows[s.cursor]
	text := "Answer: " + a.CorrectAnswer
	if !a.Correct {
		text += "\nPicked: " + a.Selected
	}
	return theme.Hint.Width(width).Render(text)
}

func message(width, height int, style lipgloss.Style, text string) string {
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, style.Render(text))
}
