package components

import (
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/quizgen/internal/ui/theme"
)

// TextInput wraps bubbles/textinput with an inline error line.
type TextInput struct {
	Model textinput.Model
	Err   string
}

// NewTextInput creates a new focused text input.
func NewTextInput(placeholder string, width int) TextInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = "› "
	ti.CharLimit = 512
	if width > 0 {
		ti.SetWidth(width)
	}
	ti.Focus()

	return TextInput{Model: ti}
}

// Init starts the cursor blink.
func (t TextInput) Init() tea.Cmd {
	return textinput.Blink
}

// Update forwards msg to the input. Any edit clears the error line.
func (t TextInput) Update(msg tea.Msg) (TextInput, tea.Cmd) {
	if _, ok := msg.(tea.KeyPressMsg); ok {
		t.Err = ""
	}
	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	return t, cmd
}

// View renders the text input.
func (t TextInput) View() string {
	view := t.Model.View()
	if t.Err != "" {
		view += "\n\n" + theme.Incorrect.Render("✗ "+t.Err)
	}
	return view
}

// Value returns the current input value.
func (t TextInput) Value() string {
	return t.Model.Value()
}

func (t *TextInput) SetValue(v string) {
	t.Model.SetValue(v)
}

// SetError shows msg under the input until the next key press.
func (t *TextInput) SetError(msg string) {
	t.Err = msg
}
