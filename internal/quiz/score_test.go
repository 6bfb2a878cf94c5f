package quiz

import (
	"encoding/json"
	"testing"
)

func testQuiz(t *testing.T) *QuizData {
	t.Helper()
	var q QuizData
	if err := json.Unmarshal([]byte(photosynthesisJSON), &q); err != nil {
		t.Fatal(err)
	}
	return &q
}

func fullAnswers(q *QuizData) UserAnswers {
	a := UserAnswers{}
	for i, mc := range q.MultipleChoice {
		a[MCQKey(i)] = mc.CorrectAnswer
	}
	for i, tf := range q.TrueFalse {
		a[TFKey(i)] = tf.Answer
	}
	return a
}

func TestScore_AllCorrect(t *testing.T) {
	quizzes := []*QuizData{
		testQuiz(t),
		{MultipleChoice: []MultipleChoiceQuestion{{Question: "Q", Options: []string{"x", "y"}, CorrectAnswer: "y"}}, TrueFalse: []TrueFalseQuestion{}},
		{MultipleChoice: []MultipleChoiceQuestion{}, TrueFalse: []TrueFalseQuestion{{Question: "T", Answer: "False"}, {Question: "U", Answer: "True"}}},
	}
	for _, q := range quizzes {
		n1, n2 := len(q.MultipleChoice), len(q.TrueFalse)
		if got := Score(q, fullAnswers(q)); got != n1+n2 {
			t.Errorf("Score = %d, want %d", got, n1+n2)
		}
	}
}

func TestScore_EmptyAnswers(t *testing.T) {
	q := testQuiz(t)
	if got := Score(q, UserAnswers{}); got != 0 {
		t.Fatalf("Score = %d, want 0", got)
	}
	if got := Score(q, nil); got != 0 {
		t.Fatalf("Score(nil answers) = %d, want 0", got)
	}

	r := Grade(q, UserAnswers{})
	if r.Score != 0 || r.Total != 10 || r.Percentage != 0 {
		t.Fatalf("unexpected report totals: %+v", r)
	}
	for _, item := range r.Items {
		if item.Answer != NotAnswered || item.Answered || item.Correct {
			t.Errorf("item %s = %+v, want not answered", item.Key, item)
		}
		if item.CorrectAnswer == "" {
			t.Errorf("item %s should show the correct answer", item.Key)
		}
	}
}

func TestScore_ExactComparison(t *testing.T) {
	q := testQuiz(t)
	a := UserAnswers{
		MCQKey(0): "chloroplast",     // wrong case
		MCQKey(1): "Carbon dioxide ", // trailing space
		TFKey(0):  "true",
		TFKey(1):  "False",
	}
	if got := Score(q, a); got != 1 {
		t.Fatalf("Score = %d, want 1", got)
	}
}

func TestScore_NilQuiz(t *testing.T) {
	if got := Score(nil, UserAnswers{"mcq_0": "a"}); got != 0 {
		t.Fatalf("Score = %d, want 0", got)
	}
}

func TestPercentage(t *testing.T) {
	tests := []struct {
		correct, total, want int
	}{
		{3, 10, 30},
		{0, 0, 0},
		{10, 10, 100},
		{1, 3, 33},
		{2, 3, 67},
		{1, 8, 13}, // 12.5 rounds half away from zero
	}
	for _, tt := range tests {
		if got := Percentage(tt.correct, tt.total); got != tt.want {
			t.Errorf("Percentage(%d, %d) = %d, want %d", tt.correct, tt.total, got, tt.want)
		}
	}
}

func TestGrade_ShowsCorrectAnswerOnlyWhenWrong(t *testing.T) {
	q := testQuiz(t)
	a := fullAnswers(q)
	a[MCQKey(2)] = "Melanin"
	delete(a, TFKey(4))

	r := Grade(q, a)
	if r.Score != Score(q, a) {
		t.Fatalf("report score %d disagrees with Score %d", r.Score, Score(q, a))
	}
	if r.Score != 8 || r.Percentage != 80 {
		t.Fatalf("score = %d (%d%%), want 8 (80%%)", r.Score, r.Percentage)
	}

	byKey := map[string]ResultItem{}
	for _, item := range r.Items {
		byKey[item.Key] = item
	}
	if len(byKey) != 10 {
		t.Fatalf("expected 10 items, got %d", len(byKey))
	}
	if it := byKey[MCQKey(0)]; !it.Correct || it.CorrectAnswer != "" {
		t.Errorf("correct item should not repeat the answer: %+v", it)
	}
	if it := byKey[MCQKey(2)]; it.Correct || it.Answer != "Melanin" || it.CorrectAnswer != "Chlorophyll" {
		t.Errorf("wrong item: %+v", it)
	}
	if it := byKey[TFKey(4)]; it.Answered || it.Answer != NotAnswered || it.CorrectAnswer != "True" {
		t.Errorf("unanswered item: %+v", it)
	}
	if r.Items[0].Key != "mcq_0" || r.Items[5].Key != "tf_0" {
		t.Errorf("items out of order: %s, %s", r.Items[0].Key, r.Items[5].Key)
	}
}

func TestGrade_EmptyKeyNeverMatchesMissingAnswer(t *testing.T) {
	q := &QuizData{
		MultipleChoice: []MultipleChoiceQuestion{{Question: "Q?", Options: []string{"a", "b", "c", "d"}}},
		TrueFalse:      []TrueFalseQuestion{{Question: "T?"}},
	}
	for name, answers := range map[string]UserAnswers{
		"missing": {},
		"blank":   {MCQKey(0): "", TFKey(0): ""},
	} {
		t.Run(name, func(t *testing.T) {
			r := Grade(q, answers)
			if r.Score != 0 || Score(q, answers) != 0 {
				t.Fatalf("score = %d / %d, want 0", r.Score, Score(q, answers))
			}
			for _, it := range r.Items {
				if it.Correct || it.Answered || it.Answer != NotAnswered {
					t.Errorf("item %s: %+v", it.Key, it)
				}
			}
		})
	}
}

func TestKeys(t *testing.T) {
	q := testQuiz(t)
	keys := q.Keys()
	if len(keys) != 10 || keys[0] != "mcq_0" || keys[4] != "mcq_4" || keys[5] != "tf_0" || keys[9] != "tf_4" {
		t.Fatalf("unexpected keys: %v", keys)
	}
	var nilQuiz *QuizData
	if nilQuiz.Total() != 0 || nilQuiz.Keys() != nil {
		t.Fatal("nil quiz should have no keys")
	}
}
