package app

import (
	"context"
	"fmt"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizgen/internal/llm"
	"github.com/abhisek/quizgen/internal/logging"
	"github.com/abhisek/quizgen/internal/quiz"
	"github.com/abhisek/quizgen/internal/router"
	"github.com/abhisek/quizgen/internal/screen"
	"github.com/abhisek/quizgen/internal/screens/errorview"
	"github.com/abhisek/quizgen/internal/screens/input"
	"github.com/abhisek/quizgen/internal/screens/loading"
	"github.com/abhisek/quizgen/internal/screens/quizview"
	"github.com/abhisek/quizgen/internal/screens/results"
	"github.com/abhisek/quizgen/internal/session"
	"github.com/abhisek/quizgen/internal/ui/layout"
)

// Options holds the dependencies of the root model.
type Options struct {
	// Generator defaults to a quiz.Client without a provider, which
	// fails every request with a configuration error.
	Generator quiz.Generator

	// Configured is false when no model credential was found.
	Configured bool

	// Timeout bounds one generation request. Zero means no limit.
	Timeout time.Duration

	// Status is shown on the right of the header, e.g. the model name.
	Status string

	// Initial, when set, starts generating as soon as the program runs.
	Initial *quiz.Source

	Logger *logging.Logger
}

// generatedMsg carries the outcome of one generation request.
type generatedMsg struct {
	sessionID string
	quiz      *quiz.QuizData
	err       error
}

// AppModel is the root Bubble Tea model. It owns the session state and
// picks the active screen from its phase.
type AppModel struct {
	state  *session.State
	router *router.Router
	opts   Options
	width  int
	height int
}

// New creates the root model in the idle phase.
func New(opts Options) AppModel {
	if opts.Logger == nil {
		opts.Logger = logging.Nop()
	}
	if opts.Generator == nil {
		opts.Generator = quiz.New(nil, quiz.DefaultConfig(), opts.Logger)
	}
	m := AppModel{
		state: session.New(),
		opts:  opts,
	}
	m.router = router.New(m.screenFor(m.state.Phase))
	return m
}

// State exposes the controller for tests and diagnostics.
func (m AppModel) State() *session.State {
	return m.state
}

func (m AppModel) Init() tea.Cmd {
	cmds := []tea.Cmd{m.router.Active().Init()}
	if m.opts.Initial != nil {
		src := *m.opts.Initial
		cmds = append(cmds, func() tea.Msg { return screen.StartMsg{Source: src} })
	}
	return tea.Batch(cmds...)
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}

	case screen.StartMsg:
		if !m.state.Start(msg.Source) {
			return m, nil
		}
		m.opts.Logger.Info("quiz requested",
			"session_id", m.state.SessionID,
			"source", msg.Source.Label(),
			"document", msg.Source.Document != nil,
		)
		return m, tea.Batch(m.sync(), m.generate(m.state.SessionID, msg.Source))

	case generatedMsg:
		if msg.sessionID != m.state.SessionID {
			// Stale result from an abandoned session.
			return m, nil
		}
		if msg.err != nil {
			m.state.Fail(msg.err)
		} else {
			m.state.Succeed(msg.quiz)
		}
		return m, m.sync()

	case screen.SubmitMsg:
		if !m.state.Submit(msg.Answers) {
			return m, nil
		}
		m.opts.Logger.Info("quiz submitted",
			"session_id", m.state.SessionID,
			"score", m.state.Score,
			"total", m.state.Quiz.Total(),
		)
		return m, m.sync()

	case screen.ResetMsg:
		if !m.state.Reset() {
			return m, nil
		}
		return m, m.sync()
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

// sync replaces the whole screen stack with the screen for the current
// phase.
func (m AppModel) sync() tea.Cmd {
	return m.router.SetBase(m.screenFor(m.state.Phase))
}

func (m AppModel) screenFor(p session.Phase) screen.Screen {
	switch p {
	case session.PhaseIdle:
		return input.New(input.Options{Configured: m.opts.Configured})
	case session.PhaseLoading:
		return loading.New(m.state.Source)
	case session.PhaseQuiz:
		return quizview.New(m.state.Quiz)
	case session.PhaseResults:
		return results.New(m.state.Report())
	case session.PhaseError:
		return errorview.New(m.state.ErrMessage)
	default:
		panic(fmt.Sprintf("app: unhandled phase %s", p))
	}
}

func (m AppModel) generate(sessionID string, src quiz.Source) tea.Cmd {
	gen, timeout := m.opts.Generator, m.opts.Timeout
	return func() tea.Msg {
		ctx := llm.WithSessionID(context.Background(), sessionID)
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		q, err := gen.Generate(ctx, src)
		return generatedMsg{sessionID: sessionID, quiz: q, err: err}
	}
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	header := layout.RenderHeader(title, m.opts.Status, m.width)

	footerHints := []layout.KeyHint{
		{Key: "Esc", Description: "Back"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
	if hp, ok := active.(screen.KeyHintProvider); ok {
		footerHints = hp.KeyHints()
	}

	footer := layout.RenderFooter(footerHints, m.width)

	contentHeight := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	content := m.router.View(m.width, contentHeight)
	v.SetContent(layout.RenderFrame(header, content, footer, m.width, m.height))
	return v
}

// Run starts the Bubble Tea program and blocks until it exits.
func Run(ctx context.Context, opts Options) error {
	p := tea.NewProgram(New(opts), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}
