package components

import (
	"strconv"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/quizgen/internal/ui/theme"
)

// MenuItem is a labelled choice that emits Msg when picked.
type MenuItem struct {
	Label string
	Msg   tea.Msg
}

// Menu is a vertical list of choices. The cursor wraps at both ends and
// items can be picked directly with 1..9.
type Menu struct {
	Items  []MenuItem
	Cursor int
}

func NewMenu(items ...MenuItem) Menu {
	return Menu{Items: items}
}

func (m Menu) Update(msg tea.Msg) (Menu, tea.Cmd) {
	key, ok := msg.(tea.KeyPressMsg)
	if !ok || len(m.Items) == 0 {
		return m, nil
	}

	n := len(m.Items)
	switch s := key.String(); s {
	case "up", "k":
		m.Cursor = (m.Cursor - 1 + n) % n
	case "down", "j":
		m.Cursor = (m.Cursor + 1) % n
	case "enter", "space":
		return m, m.pick(m.Cursor)
	default:
		if i, err := strconv.Atoi(s); err == nil && i >= 1 && i <= n {
			m.Cursor = i - 1
			return m, m.pick(m.Cursor)
		}
	}
	return m, nil
}

func (m Menu) pick(i int) tea.Cmd {
	out := m.Items[i].Msg
	return func() tea.Msg { return out }
}

func (m Menu) View() string {
	rows := make([]string, len(m.Items))
	for i, it := range m.Items {
		if i == m.Cursor {
			rows[i] = theme.Selected.Render("▸ " + it.Label)
		} else {
			rows[i] = theme.Unselected.Render("  " + it.Label)
		}
	}
	return strings.Join(rows, "\n")
}
