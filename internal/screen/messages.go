package screen

import "github.com/abhisek/quizgen/internal/quiz"

// Screens never mutate session state. They emit these messages and the
// root model applies the matching transition.

// StartMsg asks for a quiz to be generated from Source.
type StartMsg struct {
	Source quiz.Source
}

// SubmitMsg commits the drafted answers for scoring.
type SubmitMsg struct {
	Answers quiz.UserAnswers
}

// ResetMsg returns to the input screen from results or error.
type ResetMsg struct{}
