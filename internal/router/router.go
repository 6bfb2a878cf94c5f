// Package router holds the screen shown for the current session phase
// plus any overlays (help) opened on top of it.
package router

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/quizgen/internal/screen"
)

// PushScreenMsg opens Screen as an overlay.
type PushScreenMsg struct {
	Screen screen.Screen
}

// PopScreenMsg closes the topmost overlay.
type PopScreenMsg struct{}

// Router is a base screen with a stack of overlays. The base is never
// popped; it only changes through SetBase.
type Router struct {
	base     screen.Screen
	overlays []screen.Screen
}

func New(base screen.Screen) *Router {
	return &Router{base: base}
}

// SetBase installs s as the base screen, closes every overlay and
// returns s.Init().
func (r *Router) SetBase(s screen.Screen) tea.Cmd {
	r.base = s
	r.overlays = nil
	return s.Init()
}

// Push opens an overlay and returns its Init command.
func (r *Router) Push(s screen.Screen) tea.Cmd {
	r.overlays = append(r.overlays, s)
	return s.Init()
}

// Pop closes the top overlay. It reports false when only the base is left.
func (r *Router) Pop() bool {
	if len(r.overlays) == 0 {
		return false
	}
	r.overlays = r.overlays[:len(r.overlays)-1]
	return true
}

// Active is the screen that receives key presses.
func (r *Router) Active() screen.Screen {
	if n := len(r.overlays); n > 0 {
		return r.overlays[n-1]
	}
	return r.base
}

// Base is the phase screen under any overlays.
func (r *Router) Base() screen.Screen { return r.base }

// Depth counts the base plus open overlays.
func (r *Router) Depth() int {
	return 1 + len(r.overlays)
}

// Update handles navigation messages. Key presses go to the active
// screen only. Everything else (ticks, async results, resizes) also
// reaches the base so it keeps running under an overlay.
func (r *Router) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case PushScreenMsg:
		return r.Push(msg.Screen)
	case PopScreenMsg:
		r.Pop()
		return nil
	}

	if r.base == nil {
		return nil
	}

	var cmds []tea.Cmd
	if n := len(r.overlays); n > 0 {
		top, cmd := r.overlays[n-1].Update(msg)
		r.overlays[n-1] = top
		cmds = append(cmds, cmd)
		if _, isKey := msg.(tea.KeyMsg); isKey {
			return cmd
		}
	}

	base, cmd := r.base.Update(msg)
	r.base = base
	cmds = append(cmds, cmd)
	return tea.Batch(cmds...)
}

// View renders the active screen.
func (r *Router) View(width, height int) string {
	if s := r.Active(); s != nil {
		return s.View(width, height)
	}
	return ""
}
