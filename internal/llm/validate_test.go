package llm

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Definitions use Go ints like the real quiz schemas.
var distractorTestSchema = &Schema{
	Name: "validate-distractors",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"distractors": map[string]any{
				"type":     "array",
				"items":    map[string]any{"type": "string"},
				"minItems": 3,
				"maxItems": 3,
			},
			"level": map[string]any{"type": "string", "enum": []any{"easy", "hard"}},
		},
		"required":             []any{"distractors"},
		"additionalProperties": false,
	},
}

func TestValidateResponse(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		valid bool
	}{
		{"valid", `{"distractors":["a","b","c"],"level":"easy"}`, true},
		{"optional omitted", `{"distractors":["a","b","c"]}`, true},
		{"too few items", `{"distractors":["a","b"]}`, false},
		{"too many items", `{"distractors":["a","b","c","d"]}`, false},
		{"wrong item type", `{"distractors":[1,2,3]}`, false},
		{"missing required", `{"level":"easy"}`, false},
		{"unknown enum value", `{"distractors":["a","b","c"],"level":"medium"}`, false},
		{"extra property", `{"distractors":["a","b","c"],"note":"x"}`, false},
		{"malformed", `{not json}`, false},
		{"empty", ``, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateResponse(distractorTestSchema, json.RawMessage(tt.raw))
			if tt.valid {
				assert.NoError(t, err)
				return
			}
			var inv *ErrInvalidResponse
			require.ErrorAs(t, err, &inv)
			assert.Equal(t, tt.raw, string(inv.Content))
		})
	}
}

func TestValidateResponse_NilSchema(t *testing.T) {
	assert.NoError(t, validateResponse(nil, json.RawMessage(`anything`)))
}

func TestValidateResponse_CachesByName(t *testing.T) {
	s := &Schema{Name: "validate-cache", Definition: map[string]any{"type": "object"}}
	require.NoError(t, validateResponse(s, json.RawMessage(`{}`)))

	first, err := compile(s)
	require.NoError(t, err)
	second, err := compile(s)
	require.NoError(t, err)
	assert.Same(t, first, second)
}

func TestValidateResponse_BadSchema(t *testing.T) {
	s := &Schema{Name: "validate-broken", Definition: map[string]any{"type": 42}}
	var inv *ErrInvalidResponse
	assert.ErrorAs(t, validateResponse(s, json.RawMessage(`{}`)), &inv)
}
