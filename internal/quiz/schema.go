package quiz

import "github.com/abhisek/quizgen/internal/llm"

// Schema is the structured output contract sent with every generation
// request and used to validate the response.
var Schema = &llm.Schema{
	Name:        "quiz",
	Description: "A quiz of 5 multiple-choice and 5 true/false questions",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"multiple_choice": map[string]any{
				"type":        "array",
				"description": "An array of 5 multiple-choice questions.",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"question": map[string]any{
							"type":        "string",
							"description": "The question text.",
						},
						"options": map[string]any{
							"type":        "array",
							"description": "An array of 4 possible answers.",
							"items":       map[string]any{"type": "string"},
						},
						"correct_answer": map[string]any{
							"type":        "string",
							"description": "The correct answer from the options.",
						},
					},
					"required":             []any{"question", "options", "correct_answer"},
					"additionalProperties": false,
				},
			},
			"true_false": map[string]any{
				"type":        "array",
				"description": "An array of 5 true/false questions.",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"question": map[string]any{
							"type":        "string",
							"description": "The question text.",
						},
						"answer": map[string]any{
							"type":        "string",
							"description": "The correct answer, either 'True' or 'False'.",
						},
					},
					"required":             []any{"question", "answer"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"multiple_choice", "true_false"},
		"additionalProperties": false,
	},
}
