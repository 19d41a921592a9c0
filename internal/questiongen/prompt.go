package questiongen

import (
	"fmt"
	"strings"
)

const summarizePrompt = `You are a helpful assistant that writes dictionary entries for young learners.

Rules:
- Condense the given explanation into exactly one concise sentence.
- Do not use the word being defined in the definition.
- Use plain, simple language.`

const distractorPrompt = `You are a teacher writing multiple-choice vocabulary questions.

Rules:
- Write exactly 3 incorrect definitions for the given word.
- Each must be plausible, clearly wrong, and written in the same style and length as the correct definition.
- Never repeat or paraphrase the correct definition.`

func buildSummaryMessage(word, definition string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Word: %s\n", word)
	b.WriteString("Explanation:\n")
	b.WriteString(strings.TrimSpace(definition))
	return b.String()
}

func buildDistractorMessage(word, correct string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Word: %s\n", word)
	fmt.Fprintf(&b, "Correct definition: %s\n", correct)
	return b.String()
}
