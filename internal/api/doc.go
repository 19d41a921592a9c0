// Package api serves the article, tutor and quiz operations over HTTP.
//
// The server is stateless: every request carries what it needs (the article
// context for a lookup, the learned entries for a quiz), so it never holds
// per-learner session state.
package api
