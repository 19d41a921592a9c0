// Package theme holds the colours and text styles shared by all screens.
package theme

import (
	"image/color"

	"charm.land/lipgloss/v2"
)

// Palette. Reading text stays neutral; colour is kept for words and
// quiz feedback.
var (
	Primary   = lipgloss.Color("#7C83FD")
	Secondary = lipgloss.Color("#5EC2B7")
	Accent    = lipgloss.Color("#F2A65A")
	Success   = lipgloss.Color("#6BCB77")
	Error     = lipgloss.Color("#EF6F6C")
	Text      = lipgloss.Color("#ECEFF4")
	TextDim   = lipgloss.Color("#8F9BB3")
	BgCard    = lipgloss.Color("#222B3A")
	Border    = lipgloss.Color("#3B4658")
)

func fg(c color.Color) lipgloss.Style { return lipgloss.NewStyle().Foreground(c) }

// Text styles.
var (
	Body     = fg(Text)
	Hint     = fg(TextDim).Italic(true)
	Title    = fg(Primary).Bold(true).Align(lipgloss.Center)
	Subtitle = fg(TextDim).Align(lipgloss.Center)
	Heading  = fg(Secondary).Bold(true)

	// Word marks a vocabulary term wherever it appears.
	Word = fg(Accent).Bold(true)

	Brand  = fg(Primary).Bold(true)
	Status = fg(Accent)
	Key    = fg(Text).Bold(true)
)

// Feedback and selection.
var (
	Selected   = fg(Primary).Bold(true)
	Unselected = fg(Text)
	Correct    = fg(Success).Bold(true)
	Incorrect  = fg(Error).Bold(true)
	Notice     = fg(Accent).Italic(true)
)

// Card frames dialogs and result panels.
var Card = lipgloss.NewStyle().
	Background(BgCard).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(Border).
	Padding(1, 2)

// Progress bar cells.
var (
	ProgressFilled = lipgloss.NewStyle().Background(Secondary)
	ProgressEmpty  = lipgloss.NewStyle().Background(Border)
)

// Pane draws the vertical divider on the left of a side pane.
func Pane(width, height int) lipgloss.Style {
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		BorderStyle(lipgloss.NormalBorder()).
		BorderLeft(true).
		BorderForeground(Border).
		PaddingLeft(1)
}

// Rule draws a horizontal divider above a block.
func Rule(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Width(width).
		BorderStyle(lipgloss.NormalBorder()).
		BorderTop(true).
		BorderForeground(Border)
}
