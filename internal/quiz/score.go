package quiz

import "math"

// NotAnswered is shown in place of a missing answer.
const NotAnswered = "Not answered"

// Score counts the answers that exactly match the key (case-sensitive,
// no trimming). Unanswered questions, including an empty answer, never
// count, even against an empty key.
func Score(q *QuizData, answers UserAnswers) int {
	if q == nil {
		return 0
	}
	correct := 0
	for i, mc := range q.MultipleChoice {
		if a := answers[MCQKey(i)]; a != "" && a == mc.CorrectAnswer {
			correct++
		}
	}
	for i, tf := range q.TrueFalse {
		if a := answers[TFKey(i)]; a != "" && a == tf.Answer {
			correct++
		}
	}
	return correct
}

// Percentage returns round(100 * correct / total), or 0 when total is 0.
func Percentage(correct, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(correct) / float64(total)))
}

// ResultItem is the graded outcome of one question.
type ResultItem struct {
	Key      string `json:"key"`
	Question string `json:"question"`

	// Answer is the user's answer, or NotAnswered.
	Answer   string `json:"answer"`
	Answered bool   `json:"answered"`
	Correct  bool   `json:"correct"`

	// CorrectAnswer is set only when Correct is false.
	CorrectAnswer string `json:"correct_answer,omitempty"`
}

// Report is a graded quiz.
type Report struct {
	Score      int          `json:"score"`
	Total      int          `json:"total"`
	Percentage int          `json:"percentage"`
	Items      []ResultItem `json:"items"`
}

// Grade produces the per-question breakdown shown on the results view.
// Report.Score always equals Score(q, answers).
func Grade(q *QuizData, answers UserAnswers) Report {
	var r Report
	if q == nil {
		return r
	}
	add := func(key, question, want string) {
		a := answers[key]
		item := ResultItem{Key: key, Question: question, Answer: a, Answered: a != ""}
		item.Correct = item.Answered && a == want
		if !item.Answered {
			item.Answer = NotAnswered
		}
		if item.Correct {
			r.Score++
		} else {
			item.CorrectAnswer = want
		}
		r.Items = append(r.Items, item)
	}
	for i, mc := range q.MultipleChoice {
		add(MCQKey(i), mc.Question, mc.CorrectAnswer)
	}
	for i, tf := range q.TrueFalse {
		add(TFKey(i), tf.Question, tf.Answer)
	}
	r.Total = q.Total()
	r.Percentage = Percentage(r.Score, r.Total)
	return r
}
