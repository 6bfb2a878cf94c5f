package help

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/quizgen/internal/router"
	"github.com/abhisek/quizgen/internal/screen"
	"github.com/abhisek/quizgen/internal/ui/components"
	"github.com/abhisek/quizgen/internal/ui/layout"
	"github.com/abhisek/quizgen/internal/ui/theme"
)

var bindings = []layout.KeyHint{
	{Key: "↑ / ↓", Description: "Move between options"},
	{Key: "← / → / Tab", Description: "Previous / next question"},
	{Key: "Enter / Space", Description: "Select the highlighted option"},
	{Key: "1 - 4", Description: "Select an option by number"},
	{Key: "s", Description: "Submit (once every question is answered)"},
	{Key: "?", Description: "Show this help"},
	{Key: "Esc", Description: "Close help"},
	{Key: "Ctrl+C", Description: "Quit"},
}

// HelpScreen lists the quiz key bindings. It is pushed on top of the quiz
// and popped with Esc, q or ?.
type HelpScreen struct{}

var _ screen.Screen = (*HelpScreen)(nil)

func New() *HelpScreen {
	return &HelpScreen{}
}

func (s *HelpScreen) Title() string {
	return "Help"
}

func (s *HelpScreen) Init() tea.Cmd {
	return nil
}

func (s *HelpScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyPressMsg); ok {
		switch kmsg.String() {
		case "q", "?":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
	}
	return s, nil
}

func (s *HelpScreen) View(width, height int) string {
	var b strings.Builder
	b.WriteString(theme.Title.Render("Keys"))
	b.WriteString("\n\n")
	for _, kb := range bindings {
		b.WriteString(theme.Selected.Render(fmt.Sprintf("%-14s", kb.Key)))
		b.WriteString(theme.Body.Render(kb.Description))
		b.WriteString("\n")
	}
	return components.Center(components.Card(b.String(), components.ContentWidth(width)), width, height)
}

func (s *HelpScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{{Key: "Esc", Description: "Back"}}
}
