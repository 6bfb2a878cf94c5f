// Package quiz holds the answer key model, the quiz generation client
// and grading.
package quiz

import (
	"strconv"
	"strings"
)

// Literal answers of a true/false question.
const (
	AnswerTrue  = "True"
	AnswerFalse = "False"
)

// MultipleChoiceQuestion is a question with four options, one of which
// is correct.
type MultipleChoiceQuestion struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
}

// TrueFalseQuestion is a question answered with AnswerTrue or AnswerFalse.
type TrueFalseQuestion struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// QuizData is a generated quiz.
type QuizData struct {
	MultipleChoice []MultipleChoiceQuestion `json:"multiple_choice"`
	TrueFalse      []TrueFalseQuestion      `json:"true_false"`
}

// Total returns the combined number of questions.
func (q *QuizData) Total() int {
	if q == nil {
		return 0
	}
	return len(q.MultipleChoice) + len(q.TrueFalse)
}

// UserAnswers maps a question key to the chosen option.
type UserAnswers map[string]string

// Clone returns a copy of a, never nil.
func (a UserAnswers) Clone() UserAnswers {
	out := make(UserAnswers, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// MCQKey returns the answer key of the i-th multiple-choice question.
func MCQKey(i int) string { return "mcq_" + strconv.Itoa(i) }

// TFKey returns the answer key of the i-th true/false question.
func TFKey(i int) string { return "tf_" + strconv.Itoa(i) }

// Keys returns every question key of q in display order: multiple-choice
// first, then true/false.
func (q *QuizData) Keys() []string {
	if q == nil {
		return nil
	}
	keys := make([]string, 0, q.Total())
	for i := range q.MultipleChoice {
		keys = append(keys, MCQKey(i))
	}
	for i := range q.TrueFalse {
		keys = append(keys, TFKey(i))
	}
	return keys
}

// Source is what a quiz is generated from. Exactly one of Topic and
// Document must be set.
type Source struct {
	Topic    string
	Document *Document
}

// Document is an uploaded file read fully into memory.
type Document struct {
	Name     string
	MIMEType string
	Data     []byte
}

// TopicSource returns a Source for topic.
func TopicSource(topic string) Source {
	return Source{Topic: topic}
}

// DocumentSource returns a Source for doc.
func DocumentSource(doc *Document) Source {
	return Source{Document: doc}
}

// Label is a short human-readable description of the source.
func (s Source) Label() string {
	if s.Document != nil {
		return s.Document.Name
	}
	return strings.TrimSpace(s.Topic)
}

// validate reports whether exactly one of topic and document is present.
// A whitespace-only topic counts as absent.
func (s Source) validate() error {
	hasTopic := strings.TrimSpace(s.Topic) != ""
	hasDoc := s.Document != nil
	switch {
	case hasTopic && hasDoc:
		return inputError("Provide either a topic or a file, not both.", ErrNoSource)
	case !hasTopic && !hasDoc:
		return inputError("A topic or a file must be provided to generate a quiz.", ErrNoSource)
	case hasDoc && len(s.Document.Data) == 0:
		return inputError("The provided file is empty.", ErrNoSource)
	}
	return nil
}
