// Package app is the root Bubble Tea model of the wordwise TUI.
package app

import (
	"errors"
	"fmt"
	"log/slog"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/wordwise/internal/router"
	"github.com/abhisek/wordwise/internal/screen"
	"github.com/abhisek/wordwise/internal/screens/home"
	"github.com/abhisek/wordwise/internal/session"
	"github.com/abhisek/wordwise/internal/store"
	"github.com/abhisek/wordwise/internal/ui/layout"
)

// Options holds the dependencies for the TUI.
type Options struct {
	Controller *session.Controller
	EventRepo  store.EventRepo

	// InitialURL, if set, is loaded as soon as the app starts.
	InitialURL string

	Logger *slog.Logger
}

type model struct {
	router        *router.Router
	ctrl          *session.Controller
	width, height int
}

func newModel(opts Options) model {
	return model{
		router: router.New(home.New(opts.Controller, opts.EventRepo, opts.InitialURL)),
		ctrl:   opts.Controller,
	}
}

func (m model) Init() tea.Cmd {
	return m.router.Active().Init()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil
	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if bh, ok := m.router.Active().(screen.BackHandler); !ok || !bh.HandlesBack() {
				return m, m.router.Pop()
			}
		}
	}
	return m, m.router.Update(msg)
}

func (m model) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true
	v.MouseMode = tea.MouseModeCellMotion

	switch {
	case m.width == 0 || m.height == 0:
	case layout.IsTooSmall(m.width, m.height):
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
	default:
		v.SetContent(m.frame())
	}
	return v
}

func (m model) frame() string {
	header := layout.RenderHeader(m.router.Trail(" › "), m.status(), m.width)
	footer := layout.RenderFooter(m.hints(), m.width)
	body := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	return layout.RenderFrame(header, m.router.View(m.width, body), footer, m.width, m.height)
}

// hints are the active screen's key hints plus the global ones.
func (m model) hints() []layout.KeyHint {
	var hints []layout.KeyHint
	if hp, ok := m.router.Active().(screen.KeyHintProvider); ok {
		hints = hp.KeyHints()
	}
	if len(hints) == 0 && m.router.Depth() > 1 {
		hints = []layout.KeyHint{{Key: "Esc", Description: "Back"}}
	}
	return append(hints, layout.KeyHint{Key: "Ctrl+C", Description: "Quit"})
}

// status summarizes the learned words for the header.
func (m model) status() string {
	if m.ctrl == nil {
		return ""
	}
	snap := m.ctrl.Snapshot()
	if len(snap.Entries) == 0 {
		return ""
	}
	s := fmt.Sprintf("%d words", len(snap.Entries))
	if n := len(snap.Mistakes); n > 0 {
		s += fmt.Sprintf("  %d to review", n)
	}
	return s
}

// Run starts the TUI and blocks until it exits.
func Run(opts Options) error {
	if opts.Controller == nil {
		return errors.New("app: controller is required")
	}
	if _, err := tea.NewProgram(newModel(opts)).Run(); err != nil {
		if opts.Logger != nil {
			opts.Logger.Error("program exited with error", "error", err)
		}
		return err
	}
	return nil
}
