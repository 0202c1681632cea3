package qgen

import "github.com/abiram/quizgraph/internal/llm"

// SynthesisSchema defines the JSON schema for the end-of-session synthesis
// response: a batch of new questions plus a profile summary.
var SynthesisSchema = &llm.Schema{
	Name:        "session-synthesis",
	Description: "New practice questions targeting weak topics, plus a profile of the test-taker",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"questions": map[string]any{
				"type":        "array",
				"items":       questionSchema,
				"description": "Newly generated multiple-choice questions",
			},
			"summary": map[string]any{
				"type":        "string",
				"description": "2-4 sentence profile of the test-taker: strengths, weaknesses, and what to practice next",
			},
		},
		"required":             []any{"questions", "summary"},
		"additionalProperties": false,
	},
}

var questionSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"topic": map[string]any{
			"type":        "string",
			"description": "The topic this question belongs to, one of the session's topics",
		},
		"difficulty": map[string]any{
			"type":        "string",
			"enum":        []any{"easy", "medium", "hard"},
			"description": "Question difficulty",
		},
		"prompt": map[string]any{
			"type":        "string",
			"description": "The question text shown to the test-taker, in plain ASCII",
		},
		"options": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"A": map[string]any{"type": "string"},
				"B": map[string]any{"type": "string"},
				"C": map[string]any{"type": "string"},
				"D": map[string]any{"type": "string"},
			},
			"required":             []any{"A", "B", "C", "D"},
			"additionalProperties": false,
			"description":          "Exactly four answer options keyed A through D",
		},
		"correct_option": map[string]any{
			"type":        "string",
			"enum":        []any{"A", "B", "C", "D"},
			"description": "The key of the correct option",
		},
		"explanation": map[string]any{
			"type":        "string",
			"description": "Short explanation of why the correct option is right",
		},
	},
	"required":             []any{"topic", "difficulty", "prompt", "options", "correct_option", "explanation"},
	"additionalProperties": false,
}
