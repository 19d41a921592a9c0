package llm

import "strings"

// ModelCost is the list price of a model in USD per million tokens.
type ModelCost struct {
	Input  float64
	Output float64
}

// Cost returns the USD price of a request.
func (c ModelCost) Cost(inputTokens, outputTokens int) float64 {
	return (float64(inputTokens)*c.Input + float64(outputTokens)*c.Output) / 1e6
}

// LookupCost returns the price of a resolved model ID, or nil when it is
// not in the table. OpenRouter IDs are looked up without their vendor
// prefix.
func LookupCost(model string) *ModelCost {
	if c, ok := prices[model]; ok {
		return &c
	}
	if i := strings.LastIndexByte(model, '/'); i >= 0 {
		if c, ok := prices[model[i+1:]]; ok {
			return &c
		}
	}
	return nil
}

// prices covers the models our short names resolve to.
var prices = map[string]ModelCost{
	"claude-haiku-4-5-20251001":  {Input: 1, Output: 5},
	"claude-sonnet-4-5-20250929": {Input: 3, Output: 15},

	"gpt-4o":       {Input: 2.5, Output: 10},
	"gpt-4o-mini":  {Input: 0.15, Output: 0.6},
	"gpt-4.1-mini": {Input: 0.4, Output: 1.6},

	"gemini-2.5-flash":      {Input: 0.3, Output: 2.5},
	"gemini-2.5-flash-lite": {Input: 0.1, Output: 0.4},
	"gemini-2.5-pro":        {Input: 1.25, Output: 10},
}
