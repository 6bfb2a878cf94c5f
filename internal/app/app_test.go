package app

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/quizgen/internal/llm"
	"github.com/abhisek/quizgen/internal/quiz"
	"github.com/abhisek/quizgen/internal/router"
	"github.com/abhisek/quizgen/internal/screen"
	"github.com/abhisek/quizgen/internal/screens/errorview"
	"github.com/abhisek/quizgen/internal/screens/help"
	"github.com/abhisek/quizgen/internal/screens/input"
	"github.com/abhisek/quizgen/internal/screens/loading"
	"github.com/abhisek/quizgen/internal/screens/quizview"
	"github.com/abhisek/quizgen/internal/screens/results"
	"github.com/abhisek/quizgen/internal/session"
)

type fakeGenerator struct {
	quiz      *quiz.QuizData
	err       error
	calls     int
	sessionID string
	deadline  bool
}

func (f *fakeGenerator) Generate(ctx context.Context, _ quiz.Source) (*quiz.QuizData, error) {
	f.calls++
	f.sessionID = llm.SessionIDFrom(ctx)
	_, f.deadline = ctx.Deadline()
	return f.quiz, f.err
}

func testQuiz() *quiz.QuizData {
	return &quiz.QuizData{
		MultipleChoice: []quiz.MultipleChoiceQuestion{
			{Question: "Largest planet?", Options: []string{"Mars", "Jupiter", "Venus", "Earth"}, CorrectAnswer: "Jupiter"},
		},
		TrueFalse: []quiz.TrueFalseQuestion{
			{Question: "Pluto is a planet.", Answer: quiz.AnswerFalse},
		},
	}
}

// collect runs cmd and flattens batches into their messages.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func update(t *testing.T, m AppModel, msg tea.Msg) (AppModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	am, ok := next.(AppModel)
	if !ok {
		t.Fatalf("expected AppModel, got %T", next)
	}
	return am, cmd
}

// start sends a StartMsg and feeds the generation result back.
func start(t *testing.T, m AppModel) AppModel {
	t.Helper()
	m, cmd := update(t, m, screen.StartMsg{Source: quiz.TopicSource("Planets")})
	if m.State().Phase != session.PhaseLoading {
		t.Fatalf("phase = %s, want loading", m.State().Phase)
	}
	if _, ok := m.router.Active().(*loading.LoadingScreen); !ok {
		t.Fatalf("active screen = %T, want loading", m.router.Active())
	}
	for _, msg := range collect(cmd) {
		if g, ok := msg.(generatedMsg); ok {
			m, _ = update(t, m, g)
			return m
		}
	}
	t.Fatal("no generation result produced")
	return m
}

func TestHappyPath(t *testing.T) {
	gen := &fakeGenerator{quiz: testQuiz()}
	m := New(Options{Generator: gen, Configured: true})

	if _, ok := m.router.Active().(*input.InputScreen); !ok {
		t.Fatalf("initial screen = %T, want input", m.router.Active())
	}

	m = start(t, m)
	if m.State().Phase != session.PhaseQuiz {
		t.Fatalf("phase = %s, want quiz", m.State().Phase)
	}
	if _, ok := m.router.Active().(*quizview.QuizScreen); !ok {
		t.Fatalf("active screen = %T, want quiz view", m.router.Active())
	}
	if gen.sessionID == "" || gen.sessionID != m.State().SessionID {
		t.Errorf("generator saw session %q, state has %q", gen.sessionID, m.State().SessionID)
	}

	m, _ = update(t, m, screen.SubmitMsg{Answers: quiz.UserAnswers{"mcq_0": "Jupiter", "tf_0": "True"}})
	if m.State().Phase != session.PhaseResults || m.State().Score != 1 {
		t.Fatalf("phase=%s score=%d", m.State().Phase, m.State().Score)
	}
	if _, ok := m.router.Active().(*results.ResultsScreen); !ok {
		t.Fatalf("active screen = %T, want results", m.router.Active())
	}

	m, _ = update(t, m, screen.ResetMsg{})
	if m.State().Phase != session.PhaseIdle {
		t.Fatalf("phase = %s, want idle", m.State().Phase)
	}
	if _, ok := m.router.Active().(*input.InputScreen); !ok {
		t.Fatalf("active screen = %T, want input", m.router.Active())
	}
}

func TestSingleRequestInFlight(t *testing.T) {
	gen := &fakeGenerator{quiz: testQuiz()}
	m := New(Options{Generator: gen})

	m, first := update(t, m, screen.StartMsg{Source: quiz.TopicSource("Planets")})
	m, second := update(t, m, screen.StartMsg{Source: quiz.TopicSource("Stars")})
	if second != nil {
		t.Fatal("second start while loading must not issue a request")
	}
	collect(first)
	if gen.calls != 1 {
		t.Fatalf("generator called %d times, want 1", gen.calls)
	}
	if m.State().Source.Topic != "Planets" {
		t.Errorf("source = %q, want Planets", m.State().Source.Topic)
	}
}

func TestFailureShowsErrorAndRetry(t *testing.T) {
	gen := &fakeGenerator{err: &quiz.Error{Kind: quiz.KindUpstream, Message: "Provider down.", Err: errors.New("503")}}
	m := start(t, New(Options{Generator: gen}))

	if m.State().Phase != session.PhaseError || m.State().ErrMessage != "Provider down." {
		t.Fatalf("phase=%s message=%q", m.State().Phase, m.State().ErrMessage)
	}
	if _, ok := m.router.Active().(*errorview.ErrorScreen); !ok {
		t.Fatalf("active screen = %T, want error view", m.router.Active())
	}

	m, _ = update(t, m, screen.ResetMsg{})
	if m.State().Phase != session.PhaseIdle || m.State().ErrMessage != "" {
		t.Fatalf("phase=%s message=%q", m.State().Phase, m.State().ErrMessage)
	}
}

func TestNoGeneratorIsConfigurationError(t *testing.T) {
	m := start(t, New(Options{}))
	if m.State().Phase != session.PhaseError {
		t.Fatalf("phase = %s, want error", m.State().Phase)
	}
	if !strings.Contains(m.State().ErrMessage, "GEMINI_API_KEY") {
		t.Errorf("message should explain the missing key: %q", m.State().ErrMessage)
	}
}

func TestStaleResultIgnored(t *testing.T) {
	m := New(Options{Generator: &fakeGenerator{quiz: testQuiz()}})
	m, _ = update(t, m, screen.StartMsg{Source: quiz.TopicSource("Planets")})

	m, _ = update(t, m, generatedMsg{sessionID: "someone-else", quiz: testQuiz()})
	if m.State().Phase != session.PhaseLoading {
		t.Fatalf("phase = %s, want loading", m.State().Phase)
	}
}

func TestGenerateTimeout(t *testing.T) {
	for _, tc := range []struct {
		name    string
		timeout time.Duration
		want    bool
	}{
		{"zero means no deadline", 0, false},
		{"positive sets deadline", time.Minute, true},
	} {
		t.Run(tc.name, func(t *testing.T) {
			gen := &fakeGenerator{quiz: testQuiz()}
			m := New(Options{Generator: gen, Timeout: tc.timeout})
			m.generate("s1", quiz.Source{Topic: "planets"})()
			if gen.deadline != tc.want {
				t.Errorf("deadline set = %v, want %v", gen.deadline, tc.want)
			}
		})
	}
}

func TestSubmitIgnoredOutsideQuiz(t *testing.T) {
	m := New(Options{Generator: &fakeGenerator{quiz: testQuiz()}})
	m, _ = update(t, m, screen.SubmitMsg{Answers: quiz.UserAnswers{"mcq_0": "Jupiter"}})
	if m.State().Phase != session.PhaseIdle || m.State().Score != 0 {
		t.Fatalf("phase=%s score=%d", m.State().Phase, m.State().Score)
	}
}

func TestInitialSourceStartsImmediately(t *testing.T) {
	src := quiz.TopicSource("Oceans")
	m := New(Options{Generator: &fakeGenerator{quiz: testQuiz()}, Initial: &src})

	var found bool
	for _, msg := range collect(m.Init()) {
		if sm, ok := msg.(screen.StartMsg); ok && sm.Source.Topic == "Oceans" {
			found = true
		}
	}
	if !found {
		t.Fatal("expected StartMsg from Init")
	}
}

func TestCtrlCQuits(t *testing.T) {
	m := New(Options{})
	_, cmd := update(t, m, tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected QuitMsg, got %T", cmd())
	}
}

func TestEscPopsHelp(t *testing.T) {
	m := start(t, New(Options{Generator: &fakeGenerator{quiz: testQuiz()}}))

	m, cmd := update(t, m, tea.KeyPressMsg{Code: '?', Text: "?"})
	for _, msg := range collect(cmd) {
		m, _ = update(t, m, msg)
	}
	if _, ok := m.router.Active().(*help.HelpScreen); !ok {
		t.Fatalf("active screen = %T, want help", m.router.Active())
	}

	m, cmd = update(t, m, tea.KeyPressMsg{Code: tea.KeyEscape})
	for _, msg := range collect(cmd) {
		if _, ok := msg.(router.PopScreenMsg); ok {
			m, _ = update(t, m, msg)
		}
	}
	if _, ok := m.router.Active().(*quizview.QuizScreen); !ok {
		t.Fatalf("active screen = %T, want quiz view", m.router.Active())
	}
}

func TestViewRendersFrame(t *testing.T) {
	m := New(Options{Status: "gemini-2.5-flash", Configured: true})
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	v := m.View()
	if !v.AltScreen {
		t.Error("expected alt screen")
	}

	small, _ := update(t, m, tea.WindowSizeMsg{Width: 40, Height: 10})
	_ = small.View()
}
