package questiongen

// Question is a multiple-choice question about one learned word.
type Question struct {
	// Word is the entry the question asks about. Always one of the
	// candidates passed to Generate.
	Word string `json:"word"`

	// Options holds the shuffled choices. Contains CorrectAnswer exactly once.
	Options []string `json:"options"`

	// CorrectAnswer is the concise definition of Word.
	CorrectAnswer string `json:"answer"`
}

// IsCorrect reports whether selected matches the correct answer exactly.
func (q *Question) IsCorrect(selected string) bool {
	return selected == q.CorrectAnswer
}
