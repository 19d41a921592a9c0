package quiz

import (
	sess "github.com/abhisek/wordwise/internal/session"
)

// stepDoneMsg is sent when a start, next or retry request returns.
type stepDoneMsg struct {
	Outcome sess.Outcome
	Err     error
}
