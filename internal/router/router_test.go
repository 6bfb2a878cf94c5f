package router

import (
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/quizgen/internal/screen"
)

type tick struct{}

// recorder counts Init calls and the messages it receives.
type recorder struct {
	name  string
	inits int
	keys  int
	ticks int
}

func (s *recorder) Init() tea.Cmd {
	s.inits++
	return nil
}

func (s *recorder) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg.(type) {
	case tea.KeyPressMsg:
		s.keys++
	case tick:
		s.ticks++
	}
	return s, nil
}

func (s *recorder) View(int, int) string { return s.name }
func (s *recorder) Title() string        { return s.name }

func TestOverlayPushPop(t *testing.T) {
	base := &recorder{name: "quiz"}
	r := New(base)
	help := &recorder{name: "help"}

	r.Update(PushScreenMsg{Screen: help})
	if r.Depth() != 2 || r.Active() != help || help.inits != 1 {
		t.Fatalf("after push: depth=%d active=%s inits=%d", r.Depth(), r.Active().Title(), help.inits)
	}
	if r.View(10, 10) != "help" {
		t.Errorf("view should render the overlay")
	}

	r.Update(PopScreenMsg{})
	if r.Depth() != 1 || r.Active() != base {
		t.Fatalf("after pop: depth=%d active=%s", r.Depth(), r.Active().Title())
	}
}

func TestPopKeepsBase(t *testing.T) {
	base := &recorder{name: "input"}
	r := New(base)
	if r.Pop() {
		t.Fatal("Pop should report false with no overlays")
	}
	if r.Active() != base || r.Depth() != 1 {
		t.Fatal("base must survive Pop")
	}
}

func TestKeysGoToOverlayOnly(t *testing.T) {
	base, help := &recorder{name: "quiz"}, &recorder{name: "help"}
	r := New(base)
	r.Push(help)

	r.Update(tea.KeyPressMsg{Code: 'j', Text: "j"})
	if help.keys != 1 || base.keys != 0 {
		t.Fatalf("keys: help=%d base=%d", help.keys, base.keys)
	}
}

func TestOtherMessagesReachBase(t *testing.T) {
	base, help := &recorder{name: "loading"}, &recorder{name: "help"}
	r := New(base)
	r.Push(help)

	r.Update(tick{})
	if base.ticks != 1 || help.ticks != 1 {
		t.Fatalf("ticks: base=%d help=%d", base.ticks, help.ticks)
	}
}

func TestSetBaseClosesOverlays(t *testing.T) {
	r := New(&recorder{name: "quiz"})
	r.Push(&recorder{name: "help"})
	r.Push(&recorder{name: "help"})

	results := &recorder{name: "results"}
	r.SetBase(results)
	if r.Depth() != 1 || r.Active() != results || r.Base() != results {
		t.Fatalf("depth=%d active=%s", r.Depth(), r.Active().Title())
	}
	if results.inits != 1 {
		t.Errorf("SetBase should init the new base, inits=%d", results.inits)
	}
}
