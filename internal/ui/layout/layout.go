// Package layout draws the frame around every screen and splits the
// reader into panes.
package layout

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/wordwise/internal/ui/theme"
)

// Smallest terminal the reader is usable in.
const (
	MinWidth  = 80
	MinHeight = 24
)

// MinSideWidth keeps the word list readable on narrow terminals.
const MinSideWidth = 28

// KeyHint is one entry in the footer, e.g. {"Enter", "Ask"}.
type KeyHint struct {
	Key         string
	Description string
}

// IsTooSmall reports whether the terminal is below MinWidth x MinHeight.
func IsTooSmall(width, height int) bool {
	return width < MinWidth || height < MinHeight
}

// RenderMinSizeMessage asks the user to enlarge the terminal.
func RenderMinSizeMessage(width, height int) string {
	text := fmt.Sprintf("The window is too small to read in.\n\nNeed %d x %d, have %d x %d.",
		MinWidth, MinHeight, width, height)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, theme.Body.Render(text))
}

// bar is the rounded box shared by the header and footer.
func bar(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Width(width).
		Background(theme.BgCard).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Padding(0, 1)
}

// RenderHeader draws the app name on the left, title in the middle and
// status on the right.
func RenderHeader(title, status string, width int) string {
	brand := theme.Brand.Render("Wordwise")
	middle := theme.Body.Render(title)
	right := theme.Status.Render(status)

	free := max(width-4-lipgloss.Width(brand)-lipgloss.Width(middle)-lipgloss.Width(right), 2)
	left := free / 2
	line := brand + strings.Repeat(" ", left) + middle + strings.Repeat(" ", free-left) + right
	return bar(width).Render(line)
}

// RenderFooter lists key hints.
func RenderFooter(hints []KeyHint, width int) string {
	parts := make([]string, len(hints))
	for i, h := range hints {
		parts[i] = theme.Key.Render(h.Key) + " " + theme.Hint.Render(h.Description)
	}
	return bar(width).Render(strings.Join(parts, "  ·  "))
}

// RenderFrame stacks header, content and footer, padding the content to
// fill the space between them.
func RenderFrame(header, content, footer string, width, height int) string {
	body := max(height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		lipgloss.NewStyle().Width(width).Height(body).MaxHeight(body).Render(content),
		footer,
	)
}

// SplitColumns divides width into a main and a side pane. The side pane
// takes a third of the width but never less than MinSideWidth; sep
// columns are left for the divider.
func SplitColumns(width, sep int) (main, side int) {
	side = max(width/3, MinSideWidth)
	main = max(width-side-sep, 0)
	return main, side
}

// Tail returns the last n lines of s.
func Tail(s string, n int) string {
	if n <= 0 {
		return ""
	}
	lines := strings.Split(s, "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}
