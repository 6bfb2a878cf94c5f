package help

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/quizgen/internal/router"
)

func TestClosesOnKeys(t *testing.T) {
	for _, k := range []string{"q", "?"} {
		_, cmd := New().Update(tea.KeyPressMsg{Code: []rune(k)[0], Text: k})
		if cmd == nil {
			t.Fatalf("%q: expected a command", k)
		}
		if _, ok := cmd().(router.PopScreenMsg); !ok {
			t.Fatalf("%q: expected PopScreenMsg, got %T", k, cmd())
		}
	}
}

func TestListsSubmitKey(t *testing.T) {
	if !strings.Contains(New().View(100, 30), "Submit") {
		t.Error("help should describe the submit key")
	}
}
