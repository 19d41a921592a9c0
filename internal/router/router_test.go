package router

import (
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/wordwise/internal/screen"
)

type fakeScreen struct {
	title  string
	inited bool
	seen   []tea.Msg
}

func (s *fakeScreen) Init() tea.Cmd {
	s.inited = true
	return nil
}

func (s *fakeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	s.seen = append(s.seen, msg)
	return s, nil
}

func (s *fakeScreen) View(int, int) string { return s.title }
func (s *fakeScreen) Title() string        { return s.title }

func screens(titles ...string) []*fakeScreen {
	out := make([]*fakeScreen, len(titles))
	for i, t := range titles {
		out[i] = &fakeScreen{title: t}
	}
	return out
}

func TestNavigation(t *testing.T) {
	tests := []struct {
		name      string
		run       func(r *Router, s []*fakeScreen) tea.Cmd
		wantDepth int
		wantTop   string
		resumed   bool
	}{
		{
			name: "push",
			run: func(r *Router, s []*fakeScreen) tea.Cmd {
				return r.Update(PushScreenMsg{Screen: s[1]})
			},
			wantDepth: 2, wantTop: "Reader",
		},
		{
			name: "pop",
			run: func(r *Router, s []*fakeScreen) tea.Cmd {
				r.Push(s[1])
				return r.Update(PopScreenMsg{})
			},
			wantDepth: 1, wantTop: "Home", resumed: true,
		},
		{
			name: "pop at root",
			run: func(r *Router, _ []*fakeScreen) tea.Cmd {
				return r.Pop()
			},
			wantDepth: 1, wantTop: "Home",
		},
		{
			name: "replace keeps depth",
			run: func(r *Router, s []*fakeScreen) tea.Cmd {
				r.Push(s[1])
				return r.Update(ReplaceScreenMsg{Screen: s[2]})
			},
			wantDepth: 2, wantTop: "Quiz",
		},
		{
			name: "pop to root",
			run: func(r *Router, s []*fakeScreen) tea.Cmd {
				r.Push(s[1])
				r.Push(s[2])
				return r.Update(PopToRootMsg{})
			},
			wantDepth: 1, wantTop: "Home", resumed: true,
		},
		{
			name: "pop to root from root",
			run: func(r *Router, _ []*fakeScreen) tea.Cmd {
				return r.PopToRoot()
			},
			wantDepth: 1, wantTop: "Home",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := screens("Home", "Reader", "Quiz")
			r := New(s[0])

			cmd := tt.run(r, s)

			assert.Equal(t, tt.wantDepth, r.Depth())
			assert.Equal(t, tt.wantTop, r.Active().Title())
			if tt.resumed {
				require.NotNil(t, cmd)
				assert.IsType(t, screen.ResumedMsg{}, cmd())
			} else {
				assert.Nil(t, cmd)
			}
		})
	}
}

func TestPushAndReplaceRunInit(t *testing.T) {
	s := screens("Home", "Reader", "Quiz")
	r := New(s[0])

	r.Push(s[1])
	r.Replace(s[2])

	assert.True(t, s[1].inited)
	assert.True(t, s[2].inited)
	assert.False(t, s[0].inited, "the root is initialised by the app")
}

func TestUpdateReachesOnlyTheActiveScreen(t *testing.T) {
	s := screens("Home", "Reader")
	r := New(s[0])
	r.Push(s[1])

	r.Update(tea.KeyPressMsg{Code: 'x', Text: "x"})

	assert.Empty(t, s[0].seen)
	assert.Len(t, s[1].seen, 1)
	assert.Equal(t, "Reader", r.View(80, 24))
}

func TestTrail(t *testing.T) {
	s := screens("Home", "", "Quiz")
	r := New(s[0])
	assert.Equal(t, "Home", r.Trail(" › "))

	r.Push(s[1])
	r.Push(s[2])
	assert.Equal(t, "Home › Quiz", r.Trail(" › "))
}
