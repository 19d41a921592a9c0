package app

import (
	"context"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/wordwise/internal/definition"
	"github.com/abhisek/wordwise/internal/screen"
	"github.com/abhisek/wordwise/internal/session"
	"github.com/abhisek/wordwise/internal/ui/layout"
)

type stubDefinitions struct{}

func (stubDefinitions) Define(_ context.Context, q definition.Query) (string, error) {
	return q.Term + " is a word", nil
}

type pane struct{ backs bool }

func (p *pane) Init() tea.Cmd                           { return nil }
func (p *pane) Update(tea.Msg) (screen.Screen, tea.Cmd) { return p, nil }
func (p *pane) View(int, int) string                    { return "pane" }
func (p *pane) Title() string                           { return "Pane" }
func (p *pane) HandlesBack() bool                       { return p.backs }

func newTestModel(t *testing.T) model {
	t.Helper()
	ctrl := session.New(session.Options{Definitions: stubDefinitions{}})
	m := newModel(Options{Controller: ctrl})
	m.width, m.height = 100, 30
	return m
}

func TestStatus(t *testing.T) {
	m := newTestModel(t)
	assert.Empty(t, m.status())

	for _, w := range []string{"one", "two"} {
		_, err := m.ctrl.LookupWord(context.Background(), w)
		require.NoError(t, err)
	}
	assert.Equal(t, "2 words", m.status())
}

func TestEscPopsUnlessScreenHandlesIt(t *testing.T) {
	m := newTestModel(t)
	esc := tea.KeyPressMsg{Code: tea.KeyEscape}

	m.router.Push(&pane{})
	_, cmd := m.Update(esc)
	require.NotNil(t, cmd)
	assert.Equal(t, 1, m.router.Depth())

	m.router.Push(&pane{backs: true})
	m.Update(esc)
	assert.Equal(t, 2, m.router.Depth(), "screen keeps Esc for itself")
}

func TestCtrlCQuits(t *testing.T) {
	m := newTestModel(t)
	_, cmd := m.Update(tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestHints(t *testing.T) {
	m := newTestModel(t)
	quit := layout.KeyHint{Key: "Ctrl+C", Description: "Quit"}

	hints := m.hints()
	assert.Equal(t, quit, hints[len(hints)-1])
	assert.Len(t, hints, 3, "home hints plus quit")

	m.router.Push(&pane{})
	assert.Equal(t, []layout.KeyHint{{Key: "Esc", Description: "Back"}, quit}, m.hints())
}

func TestFrameShowsTrail(t *testing.T) {
	m := newTestModel(t)
	m.router.Push(&pane{})

	out := m.frame()
	assert.Contains(t, out, "Home › Pane")
	assert.Contains(t, out, "pane")
}

func TestRunRequiresController(t *testing.T) {
	assert.Error(t, Run(Options{}))
}
