package quiz

import (
	"fmt"
	"strings"
)

// QuestionsPerList is how many questions of each kind are requested.
const QuestionsPerList = 5

var promptTemplate = fmt.Sprintf(`You are an expert quiz generator. Your task is to create a quiz based on the provided context.

Instructions:
1.  Generate exactly %d multiple-choice questions and %d true/false questions.
2.  Each multiple-choice question has exactly 4 distinct options, and correct_answer is copied verbatim from the options.
3.  Each true/false answer is exactly "True" or "False".
4.  Return ONLY a valid JSON object that adheres to the provided schema.
5.  Do not include any explanations, comments, or markdown formatting (e.g., `+"```json"+`). The output must be a clean, directly parsable JSON string.

The quiz should be based on the following context:
`, QuestionsPerList, QuestionsPerList)

const documentContext = "The context is the content of the provided document."

// buildPrompt returns the user prompt for src. The topic is quoted verbatim.
func buildPrompt(src Source) string {
	if src.Document != nil {
		return promptTemplate + documentContext
	}
	return promptTemplate + `"` + strings.TrimSpace(src.Topic) + `"`
}
