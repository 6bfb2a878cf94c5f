// Package theme is the quizgen palette and the shared lipgloss styles.
package theme

import "charm.land/lipgloss/v2"

var (
	Primary   = lipgloss.Color("#8B5CF6") // violet
	Secondary = lipgloss.Color("#14B8A6") // teal
	Accent    = lipgloss.Color("#FBBF24")
	Success   = lipgloss.Color("#4ADE80")
	Error     = lipgloss.Color("#F87171")
	Text      = lipgloss.Color("#E5E7EB")
	TextDim   = lipgloss.Color("#9CA3AF")
	BgCard    = lipgloss.Color("#1F2937")
	Border    = lipgloss.Color("#374151")
)

var (
	Title    = lipgloss.NewStyle().Bold(true).Foreground(Primary).Align(lipgloss.Center)
	Subtitle = lipgloss.NewStyle().Foreground(TextDim).Align(lipgloss.Center)
	Body     = lipgloss.NewStyle().Foreground(Text)
	Question = Body.Bold(true)
	Hint     = lipgloss.NewStyle().Foreground(TextDim).Italic(true)
	Warning  = lipgloss.NewStyle().Foreground(Accent)
)

var (
	Card      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(Border).Padding(1, 2)
	ErrorCard = Card.BorderForeground(Error)
)

// Option states in a question: the cursor row, other rows, and the
// option the user picked.
var (
	Selected   = lipgloss.NewStyle().Foreground(Primary).Bold(true)
	Unselected = lipgloss.NewStyle().Foreground(Text)
	Chosen     = lipgloss.NewStyle().Foreground(Secondary).Bold(true)
)

var (
	Correct   = lipgloss.NewStyle().Foreground(Success).Bold(true)
	Incorrect = lipgloss.NewStyle().Foreground(Error).Bold(true)
)

// Verdict picks Correct or Incorrect.
func Verdict(ok bool) lipgloss.Style {
	if ok {
		return Correct
	}
	return Incorrect
}

var (
	ButtonActive   = lipgloss.NewStyle().Background(Primary).Foreground(Text).Bold(true).Padding(0, 2)
	ButtonInactive = lipgloss.NewStyle().Foreground(TextDim).Border(lipgloss.RoundedBorder()).BorderForeground(Border).Padding(0, 2)
)
