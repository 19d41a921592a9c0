package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/wordwise/internal/ui/theme"
)

// MenuItem is one numbered entry. Action runs when the item is picked.
type MenuItem struct {
	Label    string
	Action   tea.Cmd
	Disabled bool
}

// Menu is a numbered vertical menu; disabled items are shown but skipped.
type Menu struct {
	Items    []MenuItem
	Selected int
}

func NewMenu(items []MenuItem) Menu {
	m := Menu{Items: items}
	if len(items) > 0 && items[0].Disabled {
		m.Selected = move(0, 1, len(items), m.disabled)
	}
	return m
}

func (m Menu) disabled(i int) bool { return m.Items[i].Disabled }

// Update moves the cursor with ↑↓/jk and picks with Enter or a digit.
func (m Menu) Update(msg tea.Msg) (Menu, tea.Cmd) {
	k, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return m, nil
	}
	switch key := k.String(); key {
	case "up", "k":
		m.Selected = move(m.Selected, -1, len(m.Items), m.disabled)
	case "down", "j":
		m.Selected = move(m.Selected, 1, len(m.Items), m.disabled)
	case "enter":
		return m, m.pick(m.Selected)
	default:
		if i, ok := digit(key, len(m.Items)); ok && !m.Items[i].Disabled {
			m.Selected = i
			return m, m.pick(i)
		}
	}
	return m, nil
}

func (m Menu) pick(i int) tea.Cmd {
	if i < 0 || i >= len(m.Items) || m.Items[i].Disabled {
		return nil
	}
	return m.Items[i].Action
}

func (m Menu) View() string {
	var b strings.Builder
	for i, item := range m.Items {
		label := fmt.Sprintf("%d. %s", i+1, item.Label)
		switch {
		case item.Disabled:
			b.WriteString(theme.Hint.Render("    " + label))
		case i == m.Selected:
			b.WriteString(theme.Selected.Render("  ▸ " + label))
		default:
			b.WriteString(theme.Unselected.Render("    " + label))
		}
		b.WriteByte('\n')
	}
	return b.String()
}
