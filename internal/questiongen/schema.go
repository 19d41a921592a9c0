package questiongen

import "github.com/abhisek/wordwise/internal/llm"

// SummarySchema defines the response for condensing a tutor explanation
// into a dictionary-style definition.
var SummarySchema = &llm.Schema{
	Name:        "word-summary",
	Description: "A single concise dictionary-style definition of a word",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"definition": map[string]any{
				"type":        "string",
				"description": "One short sentence defining the word, without repeating the word itself",
			},
		},
		"required":             []any{"definition"},
		"additionalProperties": false,
	},
}

// DistractorSchema defines the response carrying the wrong options.
var DistractorSchema = &llm.Schema{
	Name:        "word-distractors",
	Description: "Plausible but incorrect definitions for a multiple-choice question",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"distractors": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "string",
				},
				"minItems":    OptionCount - 1,
				"maxItems":    OptionCount - 1,
				"description": "Exactly 3 wrong definitions, each a single sentence of similar length and style to the correct one",
			},
		},
		"required":             []any{"distractors"},
		"additionalProperties": false,
	},
}
