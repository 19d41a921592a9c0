package reader

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"charm.land/bubbles/v2/spinner"
	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/wordwise/internal/definition"
	"github.com/abhisek/wordwise/internal/router"
	"github.com/abhisek/wordwise/internal/screen"
	quizscreen "github.com/abhisek/wordwise/internal/screens/quiz"
	"github.com/abhisek/wordwise/internal/session"
	"github.com/abhisek/wordwise/internal/ui/components"
	"github.com/abhisek/wordwise/internal/ui/layout"
	"github.com/abhisek/wordwise/internal/ui/theme"
)

type lookupDoneMsg struct {
	Err error
}

// ReaderScreen shows the article next to the word list and the tutor chat.
type ReaderScreen struct {
	ctrl        *session.Controller
	viewport    viewport.Model
	input       components.TextInput
	spinner     spinner.Model
	looking     bool
	confirmBack bool
	status      string

	// Width the article was last wrapped at.
	wrapWidth int
}

var _ screen.Screen = (*ReaderScreen)(nil)
var _ screen.KeyHintProvider = (*ReaderScreen)(nil)
var _ screen.BackHandler = (*ReaderScreen)(nil)

// New creates a ReaderScreen for the article loaded in ctrl.
func New(ctrl *session.Controller) *ReaderScreen {
	return &ReaderScreen{
		ctrl:     ctrl,
		viewport: viewport.New(),
		input:    components.NewTextInput("Ask", "type a word and press Enter", 100),
		spinner:  spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(lipgloss.NewStyle().Foreground(theme.Secondary))),
	}
}

func (r *ReaderScreen) Init() tea.Cmd {
	return r.input.Init()
}

func (r *ReaderScreen) Title() string {
	if v := r.ctrl.Snapshot(); v.Article != nil {
		return truncate(v.Article.Title, 48)
	}
	return "Reader"
}

func (r *ReaderScreen) HandlesBack() bool { return true }

func (r *ReaderScreen) KeyHints() []layout.KeyHint {
	if r.confirmBack {
		return []layout.KeyHint{
			{Key: "Y", Description: "Start over"},
			{Key: "N", Description: "Keep reading"},
		}
	}
	hints := []layout.KeyHint{
		{Key: "Enter", Description: "Ask"},
		{Key: "PgUp/PgDn", Description: "Scroll"},
		{Key: "Ctrl+Q", Description: "Quiz"},
	}
	if len(r.ctrl.Snapshot().Mistakes) > 0 {
		hints = append(hints, layout.KeyHint{Key: "Ctrl+R", Description: "Review"})
	}
	return append(hints,
		layout.KeyHint{Key: "Ctrl+X", Description: "Reset"},
		layout.KeyHint{Key: "Esc", Description: "New article"},
	)
}

func (r *ReaderScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case lookupDoneMsg:
		r.looking = false
		r.status = ""
		if msg.Err != nil && errors.Is(msg.Err, definition.ErrEmptyTerm) {
			r.status = "Type a word to look up."
		}
		return r, r.input.Focus()

	case screen.ResumedMsg:
		r.status = ""
		return r, r.input.Focus()

	case spinner.TickMsg:
		if !r.looking {
			return r, nil
		}
		var cmd tea.Cmd
		r.spinner, cmd = r.spinner.Update(msg)
		return r, cmd

	case tea.MouseWheelMsg:
		var cmd tea.Cmd
		r.viewport, cmd = r.viewport.Update(msg)
		return r, cmd

	case tea.KeyMsg:
		return r.handleKey(msg)
	}

	var cmd tea.Cmd
	r.input, cmd = r.input.Update(msg)
	return r, cmd
}

func (r *ReaderScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if r.confirmBack {
		switch key {
		case "y", "Y":
			r.confirmBack = false
			r.ctrl.ReturnToStart(context.Background())
			return r, func() tea.Msg { return router.PopToRootMsg{} }
		case "n", "N", "esc":
			r.confirmBack = false
		}
		return r, nil
	}

	switch key {
	case "esc":
		r.confirmBack = true
		return r, nil
	case "pgdown":
		r.viewport.PageDown()
		return r, nil
	case "pgup":
		r.viewport.PageUp()
		return r, nil
	case "down":
		r.viewport.ScrollDown(1)
		return r, nil
	case "up":
		r.viewport.ScrollUp(1)
		return r, nil
	case "ctrl+q":
		return r, r.startQuiz(session.ModePrimary)
	case "ctrl+r":
		return r, r.startQuiz(session.ModeReview)
	case "ctrl+x":
		if err := r.ctrl.ResetHistory(); err != nil {
			r.status = "Can't reset while a quiz is running."
		} else {
			r.status = "Quiz history cleared."
		}
		return r, nil
	case "enter":
		if r.looking {
			return r, nil
		}
		term := r.input.Value()
		if term == "" {
			return r, nil
		}
		r.input.Reset()
		r.looking = true
		r.status = ""
		ctrl := r.ctrl
		return r, tea.Batch(r.spinner.Tick, func() tea.Msg {
			_, err := ctrl.LookupWord(context.Background(), term)
			return lookupDoneMsg{Err: err}
		})
	}

	var cmd tea.Cmd
	r.input, cmd = r.input.Update(msg)
	return r, cmd
}

func (r *ReaderScreen) startQuiz(mode session.Mode) tea.Cmd {
	v := r.ctrl.Snapshot()
	switch {
	case r.looking:
		r.status = "Wait for the tutor to finish first."
		return nil
	case mode == session.ModePrimary && len(v.Entries) == 0:
		r.status = "Look up at least one word before taking a quiz."
		return nil
	case mode == session.ModeReview && len(v.Mistakes) == 0:
		r.status = "No mistakes to review."
		return nil
	}
	r.status = ""
	ctrl := r.ctrl
	return func() tea.Msg {
		return router.PushScreenMsg{Screen: quizscreen.New(ctrl, mode)}
	}
}

func (r *ReaderScreen) View(width, height int) string {
	v := r.ctrl.Snapshot()

	if r.confirmBack {
		msg := theme.Card.Render(
			theme.Title.Render("Start over with a new article?") + "\n\n" +
				theme.Subtitle.Render("The article, your words and your quiz progress will be cleared.") + "\n\n" +
				theme.Hint.Render("Y to confirm, N to keep reading"))
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, msg)
	}

	articleWidth, sideWidth := layout.SplitColumns(width, 3)
	inputHeight := 3
	bodyHeight := max(height-inputHeight, 3)

	// Article pane.
	if articleWidth != r.wrapWidth {
		r.wrapWidth = articleWidth
		r.viewport.SetWidth(articleWidth)
		if v.Article != nil {
			r.viewport.SetContent(lipgloss.NewStyle().Width(articleWidth - 1).Render(v.Article.Content))
		}
	}
	r.viewport.SetHeight(bodyHeight)

	articlePane := lipgloss.NewStyle().
		Width(articleWidth).
		Height(bodyHeight).
		Render(r.viewport.View())

	side := theme.Pane(sideWidth, bodyHeight).Render(r.renderSide(v, sideWidth-2, bodyHeight))

	body := lipgloss.JoinHorizontal(lipgloss.Top, articlePane, side)

	r.input.SetWidth(width - 12)
	inputLine := r.input.View()
	switch {
	case r.looking:
		inputLine = r.spinner.View() + " Asking the tutor..."
	case r.status != "":
		inputLine += "  " + theme.Notice.Render(r.status)
	}
	bottom := theme.Rule(width).Render(inputLine)

	return body + "\n" + bottom
}

// renderSide draws the word list, the last results and the chat tail.
func (r *ReaderScreen) renderSide(v session.View, width, height int) string {
	var b strings.Builder

	b.WriteString(theme.Heading.Render(fmt.Sprintf("Words (%d)", len(v.Entries))))
	b.WriteString("\n")
	if len(v.Entries) == 0 {
		b.WriteString(theme.Hint.Render("Ask about a word in the article."))
		b.WriteString("\n")
	}
	missed := make(map[string]bool, len(v.Mistakes))
	for _, m := range v.Mistakes {
		missed[m.Word] = true
	}
	for _, e := range v.Entries {
		line := "• " + theme.Word.Render(e.Word)
		if missed[e.Word] {
			line += " " + theme.Incorrect.Render("✗")
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	if v.Results != nil {
		b.WriteString("\n")
		b.WriteString(theme.Correct.Render(fmt.Sprintf("Last quiz: %d/%d", v.Results.Score, v.Results.Total)))
		b.WriteString("\n")
	}
	if v.Notice != "" {
		b.WriteString(theme.Notice.Render(v.Notice))
		b.WriteString("\n")
	}

	header := b.String()
	remaining := height - lipgloss.Height(header) - 1
	if remaining <= 2 {
		return header
	}

	return header + "\n" + layout.Tail(renderChat(v.Chat, width), remaining)
}

func renderChat(msgs []session.ChatMessage, width int) string {
	wrap := lipgloss.NewStyle().Width(width)
	var parts []string
	for _, m := range msgs {
		switch {
		case m.Role == session.RoleUser:
			parts = append(parts, wrap.Foreground(theme.Primary).Bold(true).Render("you: "+m.Text))
		case m.Error:
			parts = append(parts, wrap.Foreground(theme.Error).Render(m.Text))
		default:
			parts = append(parts, wrap.Foreground(theme.Text).Render(m.Text))
		}
	}
	return strings.Join(parts, "\n")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
