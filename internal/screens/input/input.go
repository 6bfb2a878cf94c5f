// Package input is the idle screen: it collects a topic or a document
// path and asks the root model to start generation.
package input

import (
	"os"
	"path/filepath"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizgen/internal/quiz"
	"github.com/abhisek/quizgen/internal/screen"
	"github.com/abhisek/quizgen/internal/ui/components"
	"github.com/abhisek/quizgen/internal/ui/layout"
	"github.com/abhisek/quizgen/internal/ui/theme"
)

// FilePrefix marks input as a document path rather than a topic.
const FilePrefix = "@"

// Options configures the input screen.
type Options struct {
	// Configured is false when no model API key was found. The screen
	// still accepts input; generation then fails with a configuration
	// error.
	Configured bool

	// LoadDocument reads a document from disk. Defaults to quiz.LoadDocument.
	LoadDocument func(path string) (*quiz.Document, error)
}

// InputScreen asks for a topic or a document.
type InputScreen struct {
	input components.TextInput
	opts  Options
}

var _ screen.Screen = (*InputScreen)(nil)

func New(opts Options) *InputScreen {
	if opts.LoadDocument == nil {
		opts.LoadDocument = quiz.LoadDocument
	}
	return &InputScreen{
		input: components.NewTextInput("e.g. Photosynthesis, or @notes.pdf", 56),
		opts:  opts,
	}
}

func (s *InputScreen) Title() string {
	return "New Quiz"
}

func (s *InputScreen) Init() tea.Cmd {
	return s.input.Init()
}

func (s *InputScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyPressMsg); ok && kmsg.String() == "enter" {
		return s, s.submit()
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *InputScreen) submit() tea.Cmd {
	value := strings.TrimSpace(s.input.Value())
	if value == "" {
		s.input.SetError("Please enter a topic or choose a file.")
		return nil
	}

	var src quiz.Source
	if path, ok := strings.CutPrefix(value, FilePrefix); ok {
		path = expandHome(strings.TrimSpace(path))
		if path == "" {
			s.input.SetError("Enter a file path after @.")
			return nil
		}
		doc, err := s.opts.LoadDocument(path)
		if err != nil {
			s.input.SetError(quiz.Message(err))
			return nil
		}
		src = quiz.DocumentSource(doc)
	} else {
		src = quiz.TopicSource(value)
	}

	return func() tea.Msg { return screen.StartMsg{Source: src} }
}

func expandHome(path string) string {
	if rest, ok := strings.CutPrefix(path, "~/"); ok {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, rest)
		}
	}
	return path
}

func (s *InputScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	var b strings.Builder
	b.WriteString(theme.Title.Render("What would you like to be quizzed on?"))
	b.WriteString("\n\n")
	b.WriteString(s.input.View())
	b.WriteString("\n\n")
	b.WriteString(theme.Hint.Render("Type a topic, or " + FilePrefix + "path/to/file to use a PDF, DOC or DOCX document."))
	b.WriteString("\n")
	b.WriteString(theme.Hint.Render("You will get 5 multiple-choice and 5 true/false questions."))

	if !s.opts.Configured {
		b.WriteString("\n\n")
		b.WriteString(theme.Warning.Render("No model API key found. Set GEMINI_API_KEY before generating."))
	}

	card := components.Card(b.String(), cw)
	return components.Center(lipgloss.JoinVertical(lipgloss.Center, card), width, height)
}

func (s *InputScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Generate"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}
