package components

import (
	"fmt"
	"strconv"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/quizgen/internal/ui/theme"
)

// MultiChoice is a single-select group over a fixed set of options.
// Moving the cursor never changes the selection; only Enter, Space or a
// number key does.
type MultiChoice struct {
	Question string
	Options  []string
	Cursor   int

	// Chosen is the index of the selected option, or -1.
	Chosen int
}

// NewMultiChoice creates a group with nothing selected.
func NewMultiChoice(question string, options []string) MultiChoice {
	return MultiChoice{
		Question: question,
		Options:  options,
		Chosen:   -1,
	}
}

// Update handles cursor movement and selection.
func (m MultiChoice) Update(msg tea.Msg) (MultiChoice, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key := kmsg.String(); key {
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "down", "j":
		if m.Cursor < len(m.Options)-1 {
			m.Cursor++
		}
	case "enter", "space", " ":
		if m.Cursor < len(m.Options) {
			m.Chosen = m.Cursor
		}
	default:
		if n, err := strconv.Atoi(key); err == nil && n >= 1 && n <= len(m.Options) {
			m.Chosen = n - 1
			m.Cursor = n - 1
		}
	}

	return m, nil
}

// Value returns the selected option text, or "" if nothing is selected.
func (m MultiChoice) Value() string {
	if m.Chosen < 0 || m.Chosen >= len(m.Options) {
		return ""
	}
	return m.Options[m.Chosen]
}

// Answered reports whether an option is selected.
func (m MultiChoice) Answered() bool {
	return m.Value() != ""
}

// View renders the question and its options. The cursor is only drawn
// when the group has focus.
func (m MultiChoice) View(focused bool) string {
	var b strings.Builder
	b.WriteString(theme.Question.Render(m.Question))
	b.WriteString("\n\n")

	for i, opt := range m.Options {
		prefix := "  "
		if focused && i == m.Cursor {
			prefix = "▸ "
		}
		mark := "○"
		if i == m.Chosen {
			mark = "●"
		}
		line := fmt.Sprintf("%s%d. %s %s", prefix, i+1, mark, opt)

		switch {
		case i == m.Chosen:
			b.WriteString(theme.Chosen.Render(line))
		case focused && i == m.Cursor:
			b.WriteString(theme.Selected.Render(line))
		default:
			b.WriteString(theme.Unselected.Render(line))
		}
		b.WriteString("\n")
	}

	return b.String()
}
