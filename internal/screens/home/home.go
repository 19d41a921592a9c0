package home

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/wordwise/internal/article"
	"github.com/abhisek/wordwise/internal/router"
	"github.com/abhisek/wordwise/internal/screen"
	"github.com/abhisek/wordwise/internal/screens/history"
	"github.com/abhisek/wordwise/internal/screens/reader"
	"github.com/abhisek/wordwise/internal/session"
	"github.com/abhisek/wordwise/internal/store"
	"github.com/abhisek/wordwise/internal/ui/components"
	"github.com/abhisek/wordwise/internal/ui/layout"
	"github.com/abhisek/wordwise/internal/ui/theme"
)

type articleLoadedMsg struct {
	Article *article.Article
	Err     error
}

// HomeScreen asks for the article URL.
type HomeScreen struct {
	ctrl       *session.Controller
	eventRepo  store.EventRepo
	input      components.TextInput
	spinner    spinner.Model
	initialURL string
	loading    bool
	errMsg     string
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.KeyHintProvider = (*HomeScreen)(nil)

// New creates a new HomeScreen. A non-empty initialURL is loaded right away.
func New(ctrl *session.Controller, eventRepo store.EventRepo, initialURL string) *HomeScreen {
	input := components.NewTextInput("URL", "https://www.mk.co.kr/news/...", 0)
	input.Model.SetValue(initialURL)

	return &HomeScreen{
		ctrl:       ctrl,
		eventRepo:  eventRepo,
		input:      input,
		spinner:    spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(lipgloss.NewStyle().Foreground(theme.Primary))),
		initialURL: strings.TrimSpace(initialURL),
	}
}

func (h *HomeScreen) Init() tea.Cmd {
	cmds := []tea.Cmd{h.input.Init()}
	if h.initialURL != "" {
		cmds = append(cmds, h.load(h.initialURL))
	}
	return tea.Batch(cmds...)
}

func (h *HomeScreen) Title() string {
	return "Home"
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	if h.loading {
		return nil
	}
	return []layout.KeyHint{
		{Key: "Enter", Description: "Open article"},
		{Key: "Ctrl+H", Description: "History"},
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case articleLoadedMsg:
		h.loading = false
		if msg.Err != nil {
			h.errMsg = describeLoadError(msg.Err)
			return h, h.input.Focus()
		}
		h.errMsg = ""
		return h, func() tea.Msg {
			return router.PushScreenMsg{Screen: reader.New(h.ctrl)}
		}

	case screen.ResumedMsg:
		// Back from the reader after starting over.
		if h.ctrl.Snapshot().Article == nil {
			h.input.Reset()
			h.errMsg = ""
		}
		return h, h.input.Focus()

	case spinner.TickMsg:
		if !h.loading {
			return h, nil
		}
		var cmd tea.Cmd
		h.spinner, cmd = h.spinner.Update(msg)
		return h, cmd

	case tea.KeyMsg:
		if h.loading {
			return h, nil
		}
		switch msg.String() {
		case "enter":
			url := h.input.Value()
			if url == "" {
				h.errMsg = "Paste an article URL first."
				return h, nil
			}
			return h, h.load(url)
		case "ctrl+h":
			return h, func() tea.Msg {
				return router.PushScreenMsg{Screen: history.New(h.eventRepo)}
			}
		}
	}

	var cmd tea.Cmd
	h.input, cmd = h.input.Update(msg)
	return h, cmd
}

func (h *HomeScreen) load(url string) tea.Cmd {
	h.loading = true
	h.errMsg = ""
	h.input.Blur()
	ctrl := h.ctrl
	return tea.Batch(h.spinner.Tick, func() tea.Msg {
		a, err := ctrl.LoadArticle(context.Background(), url)
		return articleLoadedMsg{Article: a, Err: err}
	})
}

func (h *HomeScreen) View(width, height int) string {
	cw := min(width-4, 72)
	center := func(s string) string { return lipgloss.PlaceHorizontal(width, lipgloss.Center, s) }

	var sections []string
	sections = append(sections,
		center(theme.Title.Render("W O R D W I S E")),
		center(theme.Subtitle.Render("Read a news article, ask about the words you don't know, then quiz yourself.")),
	)

	h.input.SetWidth(cw - 8)
	box := theme.Card.Width(cw).Render(h.input.View())
	sections = append(sections, center(box))

	switch {
	case h.loading:
		sections = append(sections, center(h.spinner.View()+" Fetching article..."))
	case h.errMsg != "":
		sections = append(sections, center(lipgloss.NewStyle().Foreground(theme.Error).Render(h.errMsg)))
	}

	content := strings.Join(sections, "\n\n")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

// describeLoadError turns an article fetch failure into a message for the
// learner.
func describeLoadError(err error) string {
	var httpErr *article.HTTPError
	switch {
	case errors.Is(err, article.ErrInvalidURL):
		return "That doesn't look like an http(s) link."
	case errors.Is(err, article.ErrArticleNotFound):
		return "No article was found on that page."
	case errors.As(err, &httpErr):
		return "The site answered with an error (HTTP " + strconv.Itoa(httpErr.StatusCode) + ")."
	case errors.Is(err, session.ErrNoProvider):
		return "Article loading is not configured."
	case errors.Is(err, context.DeadlineExceeded):
		return "The site took too long to answer."
	default:
		return "Couldn't load the article: " + err.Error()
	}
}
