// Package screen defines what the router shows and the messages screens
// send to the root model.
package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/quizgen/internal/ui/layout"
)

// Screen is one view in the TUI. View renders the area between the
// header and footer.
type Screen interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (Screen, tea.Cmd)
	View(width, height int) string
	// Title is shown in the header.
	Title() string
}

// KeyHintProvider is implemented by screens with their own footer hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}
