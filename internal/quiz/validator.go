package quiz

import "fmt"

// Validator checks a parsed quiz before it is returned.
// Implementations should be stateless and safe for concurrent use.
type Validator interface {
	// Name returns a short identifier, e.g. "structural", "shape".
	Name() string

	// Validate returns nil if q passes.
	Validate(q *QuizData) *ValidationError
}

// ValidationError describes why a quiz failed validation.
type ValidationError struct {
	Validator string
	Message   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validator %q: %s", e.Validator, e.Message)
}

// StructuralValidator checks that both question lists are present.
type StructuralValidator struct{}

func (v *StructuralValidator) Name() string { return "structural" }

func (v *StructuralValidator) Validate(q *QuizData) *ValidationError {
	if q.MultipleChoice == nil {
		return &ValidationError{Validator: v.Name(), Message: "multiple_choice is missing"}
	}
	if q.TrueFalse == nil {
		return &ValidationError{Validator: v.Name(), Message: "true_false is missing"}
	}
	return nil
}

// ShapeValidator enforces the counts and answer-key membership the model
// is asked for.
type ShapeValidator struct {
	// PerList is the required length of each list. Zero means
	// QuestionsPerList.
	PerList int
}

func (v *ShapeValidator) Name() string { return "shape" }

func (v *ShapeValidator) Validate(q *QuizData) *ValidationError {
	n := v.PerList
	if n == 0 {
		n = QuestionsPerList
	}
	fail := func(format string, args ...any) *ValidationError {
		return &ValidationError{Validator: v.Name(), Message: fmt.Sprintf(format, args...)}
	}

	if len(q.MultipleChoice) != n {
		return fail("expected %d multiple-choice questions, got %d", n, len(q.MultipleChoice))
	}
	if len(q.TrueFalse) != n {
		return fail("expected %d true/false questions, got %d", n, len(q.TrueFalse))
	}

	for i, mc := range q.MultipleChoice {
		if mc.Question == "" {
			return fail("multiple_choice[%d] has empty question", i)
		}
		if len(mc.Options) != 4 {
			return fail("multiple_choice[%d] has %d options, want 4", i, len(mc.Options))
		}
		seen := make(map[string]bool, len(mc.Options))
		for _, o := range mc.Options {
			if o == "" {
				return fail("multiple_choice[%d] has an empty option", i)
			}
			if seen[o] {
				return fail("multiple_choice[%d] has duplicate option %q", i, o)
			}
			seen[o] = true
		}
		if !seen[mc.CorrectAnswer] {
			return fail("multiple_choice[%d] correct_answer %q is not one of the options", i, mc.CorrectAnswer)
		}
	}

	for i, tf := range q.TrueFalse {
		if tf.Question == "" {
			return fail("true_false[%d] has empty question", i)
		}
		if tf.Answer != AnswerTrue && tf.Answer != AnswerFalse {
			return fail("true_false[%d] answer %q is not True or False", i, tf.Answer)
		}
	}
	return nil
}
