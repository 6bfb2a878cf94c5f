// Package results is the submitted phase: the score, a scrollable
// per-question breakdown and a menu to start over or quit.
package results

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizgen/internal/quiz"
	"github.com/abhisek/quizgen/internal/screen"
	"github.com/abhisek/quizgen/internal/ui/components"
	"github.com/abhisek/quizgen/internal/ui/layout"
	"github.com/abhisek/quizgen/internal/ui/theme"
)

// ResultsScreen shows the score and a per-question breakdown.
type ResultsScreen struct {
	report quiz.Report
	menu   components.Menu
	offset int
}

var _ screen.Screen = (*ResultsScreen)(nil)

// New renders report. The menu emits screen.ResetMsg or tea.QuitMsg.
func New(report quiz.Report) *ResultsScreen {
	return &ResultsScreen{
		report: report,
		menu: components.NewMenu(
			components.MenuItem{Label: "Start a new quiz", Msg: screen.ResetMsg{}},
			components.MenuItem{Label: "Quit", Msg: tea.QuitMsg{}},
		),
	}
}

func (s *ResultsScreen) Title() string {
	return "Results"
}

func (s *ResultsScreen) Init() tea.Cmd {
	return nil
}

func (s *ResultsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return s, nil
	}

	switch kmsg.String() {
	case "pgdown", "J":
		s.offset++
		return s, nil
	case "pgup", "K":
		s.offset = max(s.offset-1, 0)
		return s, nil
	case "n":
		return s, func() tea.Msg { return screen.ResetMsg{} }
	}

	var cmd tea.Cmd
	s.menu, cmd = s.menu.Update(kmsg)
	return s, cmd
}

// Summary is the headline score line.
func (s *ResultsScreen) Summary() string {
	return fmt.Sprintf("You scored %d / %d (%d%%)", s.report.Score, s.report.Total, s.report.Percentage)
}

func (s *ResultsScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	header := lipgloss.JoinVertical(lipgloss.Center,
		theme.Title.Render(s.Summary()),
		"",
		components.NewProgressBar("", float64(s.report.Percentage)/100, true, cw).View(),
	)
	footer := s.menu.View()

	// The breakdown scrolls inside whatever height is left.
	avail := max(height-lipgloss.Height(header)-lipgloss.Height(footer)-4, 3)
	lines := s.breakdown(cw)
	s.offset = min(s.offset, max(len(lines)-avail, 0))
	visible := lines[s.offset:min(s.offset+avail, len(lines))]

	body := strings.Join(visible, "\n")
	if s.offset+avail < len(lines) {
		body += "\n" + theme.Hint.Render("  ↓ more (PgDn)")
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, "", body, "", footer)
}

func (s *ResultsScreen) breakdown(width int) []string {
	var lines []string
	for i, item := range s.report.Items {
		verdict := theme.Verdict(item.Correct)
		mark := verdict.Render("✓")
		if !item.Correct {
			mark = verdict.Render("✗")
		}
		q := lipgloss.NewStyle().Width(width - 4).Render(fmt.Sprintf("%d. %s", i+1, item.Question))
		qLines := strings.Split(q, "\n")
		lines = append(lines, mark+" "+theme.Question.Render(qLines[0]))
		for _, l := range qLines[1:] {
			lines = append(lines, "  "+theme.Question.Render(l))
		}

		lines = append(lines, "   "+verdict.Render("Your answer: "+item.Answer))
		if !item.Correct {
			lines = append(lines, "   "+theme.Body.Render("Correct answer: "+item.CorrectAnswer))
		}
		lines = append(lines, "")
	}
	return lines
}

func (s *ResultsScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "PgUp/PgDn", Description: "Scroll"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}
