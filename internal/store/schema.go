package store

import (
	"context"
	"database/sql"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
)

// Table names.
const (
	tableLLMRequests = "llm_request_events"
	tableLookups     = "lookup_events"
	tableAnswers     = "answer_events"
	tableSessions    = "session_events"

	// tableSequence holds the single counter shared by all event tables.
	tableSequence = "event_sequence"
)

// Every event table shares the id/sequence/timestamp columns. Timestamps are
// unix milliseconds.
var ddl = []string{
	`CREATE TABLE IF NOT EXISTS ` + tableLLMRequests + ` (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		sequence INTEGER NOT NULL UNIQUE,
		timestamp INTEGER NOT NULL,
		provider TEXT NOT NULL DEFAULT '',
		model TEXT NOT NULL DEFAULT '',
		purpose TEXT NOT NULL DEFAULT '',
		input_tokens INTEGER NOT NULL DEFAULT 0,
		output_tokens INTEGER NOT NULL DEFAULT 0,
		latency_ms INTEGER NOT NULL DEFAULT 0,
		success INTEGER NOT NULL DEFAULT 0,
		error_message TEXT NOT NULL DEFAULT '',
		request_body TEXT NOT NULL DEFAULT '',
		response_body TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS ` + tableLookups + ` (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		sequence INTEGER NOT NULL UNIQUE,
		timestamp INTEGER NOT NULL,
		session_id TEXT NOT NULL,
		word TEXT NOT NULL,
		definition TEXT NOT NULL DEFAULT '',
		success INTEGER NOT NULL DEFAULT 0,
		error_message TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS ` + tableAnswers + ` (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		sequence INTEGER NOT NULL UNIQUE,
		timestamp INTEGER NOT NULL,
		session_id TEXT NOT NULL,
		mode TEXT NOT NULL,
		word TEXT NOT NULL,
		correct_answer TEXT NOT NULL,
		selected TEXT NOT NULL,
		correct INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS ` + tableSessions + ` (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		sequence INTEGER NOT NULL UNIQUE,
		timestamp INTEGER NOT NULL,
		session_id TEXT NOT NULL,
		action TEXT NOT NULL,
		mode TEXT NOT NULL DEFAULT '',
		questions INTEGER NOT NULL DEFAULT 0,
		correct INTEGER NOT NULL DEFAULT 0,
		mistakes INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS ` + tableSequence + ` (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		last INTEGER NOT NULL
	)`,
	`INSERT OR IGNORE INTO ` + tableSequence + ` (id, last) VALUES (1, 0)`,
	`CREATE INDEX IF NOT EXISTS idx_answer_events_session ON ` + tableAnswers + ` (session_id)`,
	`CREATE INDEX IF NOT EXISTS idx_llm_request_events_purpose ON ` + tableLLMRequests + ` (purpose)`,
}

// migrate creates the event tables and seeds the sequence counter.
func migrate(ctx context.Context, drv *entsql.Driver) error {
	for _, stmt := range ddl {
		var res sql.Result
		if err := drv.Exec(ctx, stmt, []any{}, &res); err != nil {
			return fmt.Errorf("create tables: %w", err)
		}
	}
	return nil
}

// eventTables lists every append-only table, in purge order.
var eventTables = []string{tableLLMRequests, tableLookups, tableAnswers, tableSessions}
