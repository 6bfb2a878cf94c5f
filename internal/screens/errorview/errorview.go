package errorview

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizgen/internal/screen"
	"github.com/abhisek/quizgen/internal/ui/components"
	"github.com/abhisek/quizgen/internal/ui/layout"
	"github.com/abhisek/quizgen/internal/ui/theme"
)

// ErrorScreen shows why generation failed and offers a retry.
type ErrorScreen struct {
	message string
	menu    components.Menu
}

var _ screen.Screen = (*ErrorScreen)(nil)

func New(message string) *ErrorScreen {
	return &ErrorScreen{
		message: message,
		menu: components.NewMenu(
			components.MenuItem{Label: "Try again", Msg: screen.ResetMsg{}},
			components.MenuItem{Label: "Quit", Msg: tea.QuitMsg{}},
		),
	}
}

func (s *ErrorScreen) Title() string {
	return "Error"
}

func (s *ErrorScreen) Init() tea.Cmd {
	return nil
}

func (s *ErrorScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	s.menu, cmd = s.menu.Update(msg)
	return s, cmd
}

func (s *ErrorScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	card := theme.ErrorCard.Width(cw).Render(
		theme.Incorrect.Render("Something went wrong") + "\n\n" + theme.Body.Render(s.message),
	)
	return components.Center(lipgloss.JoinVertical(lipgloss.Center, card, "", s.menu.View()), width, height)
}

func (s *ErrorScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}
