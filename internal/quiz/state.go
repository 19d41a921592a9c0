package quiz

import "github.com/abhisek/wordwise/internal/vocab"

// State is the phase of a quiz session.
type State int

const (
	StateIdle       State = iota // No quiz running
	StateLoading                 // Waiting for the generator
	StatePresenting              // A question awaits an answer
	StateAnswered                // Feedback shown, waiting for Next
	StateExhausted               // Every source word has been served
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StatePresenting:
		return "presenting"
	case StateAnswered:
		return "answered"
	case StateExhausted:
		return "exhausted"
	default:
		return "unknown"
	}
}

// Source supplies the entries a quiz draws from. *vocab.Store satisfies it.
type Source interface {
	All() []vocab.Entry
}

// WordSet is the set of words already served in a cycle.
type WordSet map[string]struct{}

// NewWordSet creates an empty WordSet.
func NewWordSet() WordSet {
	return make(WordSet)
}

func (w WordSet) Add(word string) { w[word] = struct{}{} }

func (w WordSet) Has(word string) bool {
	_, ok := w[word]
	return ok
}

func (w WordSet) Len() int { return len(w) }

// Reset empties the set in place so every holder sees the change.
func (w WordSet) Reset() { clear(w) }

// Feedback is the outcome of answering one question.
type Feedback struct {
	Word          string `json:"word"`
	Correct       bool   `json:"correct"`
	CorrectAnswer string `json:"correct_answer"`
	Selected      string `json:"selected"`
}

// Pending is a question request issued by Begin. Pass it back to Finish
// together with the generator result.
type Pending struct {
	// Candidates are the source entries not yet quizzed. Empty when
	// Exhausted is set.
	Candidates []vocab.Entry

	// Exhausted is set when nothing is left to ask; no generator call is
	// needed and the session is already in StateExhausted.
	Exhausted bool

	ticket uint64
}
