package loading

import (
	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizgen/internal/quiz"
	"github.com/abhisek/quizgen/internal/screen"
	"github.com/abhisek/quizgen/internal/ui/components"
	"github.com/abhisek/quizgen/internal/ui/layout"
	"github.com/abhisek/quizgen/internal/ui/theme"
)

const Message = "Generating your quiz..."

// LoadingScreen is shown while a generation request is in flight.
// It ignores all keys except those the root model handles.
type LoadingScreen struct {
	spinner spinner.Model
	source  quiz.Source
}

var _ screen.Screen = (*LoadingScreen)(nil)

func New(src quiz.Source) *LoadingScreen {
	return &LoadingScreen{
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(lipgloss.NewStyle().Foreground(theme.Primary)),
		),
		source: src,
	}
}

func (s *LoadingScreen) Title() string {
	return "Generating"
}

func (s *LoadingScreen) Init() tea.Cmd {
	return s.spinner.Tick
}

func (s *LoadingScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if _, ok := msg.(spinner.TickMsg); ok {
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *LoadingScreen) View(width, height int) string {
	body := lipgloss.JoinVertical(lipgloss.Center,
		s.spinner.View()+theme.Body.Render(Message),
		"",
		theme.Hint.Render(s.source.Label()),
	)
	return components.Center(body, width, height)
}

func (s *LoadingScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{{Key: "Ctrl+C", Description: "Quit"}}
}
