// Package session is the application state controller: a five-phase
// state machine that owns the current quiz, answers, score and error.
package session

import (
	"github.com/google/uuid"

	"github.com/abhisek/quizgen/internal/quiz"
)

// Phase is the current phase of a quiz session.
type Phase int

const (
	PhaseIdle    Phase = iota // Waiting for a topic or document
	PhaseLoading              // Generation request in flight
	PhaseQuiz                 // Quiz shown, answers being drafted
	PhaseResults              // Answers submitted and scored
	PhaseError                // Generation failed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhaseQuiz:
		return "quiz"
	case PhaseResults:
		return "results"
	case PhaseError:
		return "error"
	default:
		return "unknown"
	}
}

const unknownErrorMessage = "An unknown error occurred."

// State is owned by a single event loop; it is not safe for concurrent use.
// Views read it but only the transition methods mutate it.
type State struct {
	Phase Phase

	// SessionID changes on every Start and correlates logs and history rows.
	SessionID string

	// Source is what the current quiz was requested from.
	Source quiz.Source

	Quiz       *quiz.QuizData
	Answers    quiz.UserAnswers
	Score      int
	ErrMessage string
}

// New returns a State in PhaseIdle.
func New() *State {
	return &State{Phase: PhaseIdle, Answers: quiz.UserAnswers{}}
}

// Start moves idle → loading. It reports false and changes nothing
// from any other phase, so at most one request is ever in flight.
func (s *State) Start(src quiz.Source) bool {
	if s.Phase != PhaseIdle {
		return false
	}
	s.clear()
	s.Phase = PhaseLoading
	s.SessionID = uuid.NewString()
	s.Source = src
	return true
}

// Succeed moves loading → quiz with q attached and an empty answer set.
func (s *State) Succeed(q *quiz.QuizData) bool {
	if s.Phase != PhaseLoading || q == nil {
		return false
	}
	s.Phase = PhaseQuiz
	s.Quiz = q
	s.Answers = quiz.UserAnswers{}
	s.ErrMessage = ""
	return true
}

// Fail moves loading → error, keeping only the user-facing message.
func (s *State) Fail(err error) bool {
	if s.Phase != PhaseLoading {
		return false
	}
	msg := unknownErrorMessage
	if err != nil {
		msg = quiz.Message(err)
	}
	s.Phase = PhaseError
	s.Quiz = nil
	s.ErrMessage = msg
	return true
}

// Submit moves quiz → results and computes the score. It is a no-op
// without quiz data, which guards against stale submissions.
func (s *State) Submit(answers quiz.UserAnswers) bool {
	if s.Phase != PhaseQuiz || s.Quiz == nil {
		return false
	}
	s.Answers = answers.Clone()
	s.Score = quiz.Score(s.Quiz, s.Answers)
	s.Phase = PhaseResults
	return true
}

// Reset moves results or error → idle, clearing all transient state.
func (s *State) Reset() bool {
	if s.Phase != PhaseResults && s.Phase != PhaseError {
		return false
	}
	s.clear()
	s.Phase = PhaseIdle
	return true
}

// Report grades the submitted answers. It is only meaningful in PhaseResults.
func (s *State) Report() quiz.Report {
	return quiz.Grade(s.Quiz, s.Answers)
}

func (s *State) clear() {
	s.Quiz = nil
	s.Answers = quiz.UserAnswers{}
	s.Score = 0
	s.ErrMessage = ""
	s.Source = quiz.Source{}
	s.SessionID = ""
}
