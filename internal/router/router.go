// Package router keeps the stack of screens the TUI navigates through.
package router

import (
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/wordwise/internal/screen"
)

// PushScreenMsg opens Screen on top of the current one.
type PushScreenMsg struct {
	Screen screen.Screen
}

// PopScreenMsg closes the current screen.
type PopScreenMsg struct{}

// ReplaceScreenMsg swaps the current screen for Screen.
type ReplaceScreenMsg struct {
	Screen screen.Screen
}

// PopToRootMsg closes everything above the home screen.
type PopToRootMsg struct{}

// Router owns the screen stack. The bottom screen is never popped.
type Router struct {
	stack []screen.Screen
}

func New(root screen.Screen) *Router {
	return &Router{stack: []screen.Screen{root}}
}

// Push opens s and returns its Init command.
func (r *Router) Push(s screen.Screen) tea.Cmd {
	r.stack = append(r.stack, s)
	return s.Init()
}

// Pop closes the top screen and tells the one below it that it is visible
// again. Popping the root does nothing.
func (r *Router) Pop() tea.Cmd {
	return r.truncate(len(r.stack) - 1)
}

// PopToRoot closes every screen but the root.
func (r *Router) PopToRoot() tea.Cmd {
	return r.truncate(1)
}

func (r *Router) truncate(n int) tea.Cmd {
	if n < 1 || n >= len(r.stack) {
		return nil
	}
	clear(r.stack[n:])
	r.stack = r.stack[:n]
	return func() tea.Msg { return screen.ResumedMsg{} }
}

// Replace swaps the top screen for s without changing the depth.
func (r *Router) Replace(s screen.Screen) tea.Cmd {
	if len(r.stack) == 0 {
		return r.Push(s)
	}
	r.stack[len(r.stack)-1] = s
	return s.Init()
}

// Active is the screen currently on top, or nil for an empty router.
func (r *Router) Active() screen.Screen {
	if len(r.stack) == 0 {
		return nil
	}
	return r.stack[len(r.stack)-1]
}

func (r *Router) Depth() int { return len(r.stack) }

// Trail joins the titles of every open screen, root first.
func (r *Router) Trail(sep string) string {
	titles := make([]string, 0, len(r.stack))
	for _, s := range r.stack {
		if t := s.Title(); t != "" {
			titles = append(titles, t)
		}
	}
	return strings.Join(titles, sep)
}

// Update applies navigation messages and hands everything else to the
// active screen.
func (r *Router) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case PushScreenMsg:
		return r.Push(msg.Screen)
	case PopScreenMsg:
		return r.Pop()
	case ReplaceScreenMsg:
		return r.Replace(msg.Screen)
	case PopToRootMsg:
		return r.PopToRoot()
	}

	top := r.Active()
	if top == nil {
		return nil
	}
	next, cmd := top.Update(msg)
	r.stack[len(r.stack)-1] = next
	return cmd
}

// View renders the active screen into the given area.
func (r *Router) View(width, height int) string {
	if top := r.Active(); top != nil {
		return top.View(width, height)
	}
	return ""
}
