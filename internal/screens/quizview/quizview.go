// Package quizview is the quiz-taking screen. It keeps a local draft of
// the user's answers and only hands them to the root model on submit.
package quizview

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizgen/internal/quiz"
	"github.com/abhisek/quizgen/internal/router"
	"github.com/abhisek/quizgen/internal/screen"
	"github.com/abhisek/quizgen/internal/screens/help"
	"github.com/abhisek/quizgen/internal/ui/components"
	"github.com/abhisek/quizgen/internal/ui/layout"
	"github.com/abhisek/quizgen/internal/ui/theme"
)

type question struct {
	key   string
	kind  string
	group components.MultiChoice
}

// QuizScreen shows one question at a time.
type QuizScreen struct {
	questions []question
	current   int
	hint      string
}

var _ screen.Screen = (*QuizScreen)(nil)

// New builds the screen for q. Multiple-choice questions come first,
// then true/false, each keyed the same way the scorer expects.
func New(q *quiz.QuizData) *QuizScreen {
	s := &QuizScreen{}
	if q == nil {
		return s
	}
	for i, mc := range q.MultipleChoice {
		s.questions = append(s.questions, question{
			key:   quiz.MCQKey(i),
			kind:  "Multiple choice",
			group: components.NewMultiChoice(mc.Question, mc.Options),
		})
	}
	for i, tf := range q.TrueFalse {
		s.questions = append(s.questions, question{
			key:   quiz.TFKey(i),
			kind:  "True or false",
			group: components.NewMultiChoice(tf.Question, []string{quiz.AnswerTrue, quiz.AnswerFalse}),
		})
	}
	return s
}

func (s *QuizScreen) Title() string {
	return "Quiz"
}

func (s *QuizScreen) Init() tea.Cmd {
	return nil
}

func (s *QuizScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok || len(s.questions) == 0 {
		return s, nil
	}

	switch kmsg.String() {
	case "right", "l", "tab":
		s.move(1)
		return s, nil
	case "left", "h", "shift+tab":
		s.move(-1)
		return s, nil
	case "s":
		return s, s.submit()
	case "?":
		return s, func() tea.Msg { return router.PushScreenMsg{Screen: help.New()} }
	}

	s.hint = ""
	q := &s.questions[s.current]
	q.group, _ = q.group.Update(kmsg)
	return s, nil
}

func (s *QuizScreen) move(delta int) {
	s.current = min(max(s.current+delta, 0), len(s.questions)-1)
}

func (s *QuizScreen) submit() tea.Cmd {
	if remaining := s.unanswered(); remaining > 0 {
		s.hint = fmt.Sprintf("Answer all questions before submitting (%d left).", remaining)
		return nil
	}
	answers := s.Answers()
	return func() tea.Msg { return screen.SubmitMsg{Answers: answers} }
}

// Answers returns the current draft. Unanswered questions are absent.
func (s *QuizScreen) Answers() quiz.UserAnswers {
	out := quiz.UserAnswers{}
	for _, q := range s.questions {
		if v := q.group.Value(); v != "" {
			out[q.key] = v
		}
	}
	return out
}

// Complete reports whether every question has a selection.
func (s *QuizScreen) Complete() bool {
	return len(s.questions) > 0 && s.unanswered() == 0
}

func (s *QuizScreen) unanswered() int {
	n := 0
	for _, q := range s.questions {
		if !q.group.Answered() {
			n++
		}
	}
	return n
}

func (s *QuizScreen) View(width, height int) string {
	if len(s.questions) == 0 {
		return components.Center(theme.Hint.Render("No questions."), width, height)
	}

	cw := components.ContentWidth(width)
	q := s.questions[s.current]
	answered := len(s.questions) - s.unanswered()

	heading := theme.Subtitle.Render(fmt.Sprintf("Question %d of %d · %s", s.current+1, len(s.questions), q.kind))
	progress := components.NewProgressBar(
		fmt.Sprintf("%d/%d answered", answered, len(s.questions)),
		float64(answered)/float64(len(s.questions)),
		false, cw,
	).View()

	parts := []string{
		heading,
		"",
		components.Card(q.group.View(true), cw),
		"",
		s.dots(),
		"",
		components.NewButton("Submit (s)", s.Complete()).View(),
		"",
		progress,
	}
	if s.hint != "" {
		parts = append(parts, "", theme.Warning.Render(s.hint))
	}

	return components.Center(lipgloss.JoinVertical(lipgloss.Center, parts...), width, height)
}

// dots renders one marker per question: filled when answered, bracketed
// when current.
func (s *QuizScreen) dots() string {
	marks := make([]string, len(s.questions))
	for i, q := range s.questions {
		mark := "○"
		style := theme.Hint
		if q.group.Answered() {
			mark = "●"
			style = theme.Chosen
		}
		if i == s.current {
			mark = "[" + mark + "]"
			style = theme.Selected
		}
		marks[i] = style.Render(mark)
	}
	return strings.Join(marks, " ")
}

func (s *QuizScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Option"},
		{Key: "←→/Tab", Description: "Question"},
		{Key: "Enter/1-4", Description: "Select"},
		{Key: "s", Description: "Submit"},
		{Key: "?", Description: "Help"},
	}
}
