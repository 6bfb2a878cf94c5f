package components

import (
	"fmt"
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizgen/internal/ui/theme"
)

// ProgressBar draws Ratio (0..1) as a block bar Width cells wide,
// including the label and the optional percentage.
type ProgressBar struct {
	Label       string
	Ratio       float64
	ShowPercent bool
	Width       int
}

func NewProgressBar(label string, ratio float64, showPercent bool, width int) ProgressBar {
	return ProgressBar{Label: label, Ratio: min(max(ratio, 0), 1), ShowPercent: showPercent, Width: width}
}

func (p ProgressBar) View() string {
	var prefix, suffix string
	if p.Label != "" {
		prefix = theme.Body.Render(p.Label) + " "
	}
	if p.ShowPercent {
		suffix = theme.Hint.Render(fmt.Sprintf(" %3d%%", int(p.Ratio*100+0.5)))
	}

	cells := max(p.Width-lipgloss.Width(prefix)-lipgloss.Width(suffix), 4)
	full := int(float64(cells)*p.Ratio + 0.5)

	fill := lipgloss.NewStyle().Foreground(p.color())
	track := lipgloss.NewStyle().Foreground(theme.Border)
	return prefix + fill.Render(strings.Repeat("█", full)) + track.Render(strings.Repeat("░", cells-full)) + suffix
}

// color grades score bars; plain progress stays teal.
func (p ProgressBar) color() color.Color {
	switch {
	case !p.ShowPercent:
		return theme.Secondary
	case p.Ratio >= 0.7:
		return theme.Success
	case p.Ratio >= 0.4:
		return theme.Accent
	}
	return theme.Error
}
