package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// PracticeProvider answers without a network connection so the reader and
// quiz can be tried before an API key is set up. Text requests get a
// placeholder explanation; structured requests get a value built from the
// schema, with strings taken from the prompt where possible.
type PracticeProvider struct{}

// NewPracticeProvider returns a PracticeProvider.
func NewPracticeProvider() *PracticeProvider { return &PracticeProvider{} }

func (PracticeProvider) ModelID() string { return "practice" }

func (p PracticeProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	prompt := lastUserMessage(req)

	if req.Schema == nil {
		text := fmt.Sprintf("Practice mode is on, so there is no real tutor. "+
			"Set an API key to get explanations. You asked: %s", firstLine(prompt))
		return finish(req, text, p.ModelID(), StopEnd, Usage{})
	}

	f := &filler{source: firstSentence(lastLine(prompt))}
	b, err := json.Marshal(f.value(req.Schema.Definition))
	if err != nil {
		return nil, &ErrInvalidResponse{Err: err}
	}
	return finish(req, string(b), p.ModelID(), StopEnd, Usage{})
}

// filler builds a value that satisfies a JSON Schema. The first string
// outside an array is source; every other string is a numbered placeholder
// so array items stay distinct.
type filler struct {
	source string
	used   bool
	n      int
}

func (f *filler) value(def map[string]any) any {
	return f.fill(def, false)
}

func (f *filler) fill(def map[string]any, inArray bool) any {
	if enum := stringList(def["enum"]); len(enum) > 0 {
		return enum[0]
	}
	t, _ := def["type"].(string)
	switch t {
	case "object":
		props, _ := def["properties"].(map[string]any)
		names := make([]string, 0, len(props))
		for name := range props {
			names = append(names, name)
		}
		sort.Strings(names)
		out := make(map[string]any, len(props))
		for _, name := range names {
			if sub, ok := props[name].(map[string]any); ok {
				out[name] = f.fill(sub, inArray)
			}
		}
		return out
	case "array":
		count := int64(1)
		if n, ok := schemaInt(def["minItems"]); ok && n > 0 {
			count = n
		}
		items, _ := def["items"].(map[string]any)
		out := make([]any, 0, count)
		for range count {
			out = append(out, f.fill(items, true))
		}
		return out
	case "integer", "number":
		return 0
	case "boolean":
		return false
	default:
		if !inArray && !f.used && f.source != "" {
			f.used = true
			return f.source
		}
		f.n++
		return fmt.Sprintf("Practice answer %d.", f.n)
	}
}

func lastUserMessage(req Request) string {
	for i := len(req.Messages) - 1; i >= 0; i-- {
		if req.Messages[i].Role == RoleUser {
			return req.Messages[i].Content
		}
	}
	return ""
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[:i])
	}
	return s
}

func lastLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[i+1:])
	}
	return s
}

func firstSentence(s string) string {
	if i := strings.IndexAny(s, ".!?"); i >= 0 {
		return s[:i+1]
	}
	return s
}
