// Package layout draws the frame around every screen: a header with the
// screen title and provider status, and a footer of key hints.
package layout

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizgen/internal/ui/theme"
)

// Below this size questions with four options no longer fit.
const (
	MinWidth  = 60
	MinHeight = 20
)

type KeyHint struct {
	Key         string
	Description string
}

func IsTooSmall(width, height int) bool {
	return width < MinWidth || height < MinHeight
}

func RenderMinSizeMessage(width, height int) string {
	msg := fmt.Sprintf("The terminal is %d×%d.\nquizgen needs at least %d×%d.", width, height, MinWidth, MinHeight)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, theme.Warning.Render(msg))
}

// RenderHeader is one line: app name on the left, title in the middle,
// status on the right, over a rule.
func RenderHeader(title, status string, width int) string {
	name := theme.Title.Render("quizgen")
	mid := theme.Body.Render(title)
	right := theme.Hint.Render(status)

	// Center the title on the full width, then fit the status in what is left.
	pad := max((width-lipgloss.Width(mid))/2-1-lipgloss.Width(name), 1)
	line := " " + name + strings.Repeat(" ", pad) + mid
	rest := max(width-lipgloss.Width(line)-lipgloss.Width(right)-1, 1)
	line += strings.Repeat(" ", rest) + right

	rule := lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(width, 0)))
	return line + "\n" + rule
}

// RenderFooter is a rule over the key hints, separated by dots.
func RenderFooter(hints []KeyHint, width int) string {
	parts := make([]string, len(hints))
	for i, h := range hints {
		parts[i] = theme.Selected.Render(h.Key) + " " + theme.Hint.Render(h.Description)
	}
	sep := theme.Hint.Render(" · ")
	rule := lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(width, 0)))
	return rule + "\n " + strings.Join(parts, sep)
}

// RenderFrame stacks header, content and footer, padding the content so
// the footer sits on the last line.
func RenderFrame(header, content, footer string, width, height int) string {
	body := max(height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		lipgloss.NewStyle().Width(width).Height(body).MaxHeight(body).Render(content),
		footer,
	)
}
