package store

import (
	"context"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

func (r *eventRepo) AppendLookup(ctx context.Context, data LookupEventData) error {
	return r.insert(ctx, tableLookups,
		[]string{"session_id", "word", "definition", "success", "error_message"},
		[]any{data.SessionID, data.Word, data.Definition, data.Success, data.ErrorMessage},
	)
}

func (r *eventRepo) AppendAnswer(ctx context.Context, data AnswerEventData) error {
	return r.insert(ctx, tableAnswers,
		[]string{"session_id", "mode", "word", "correct_answer", "selected", "correct"},
		[]any{data.SessionID, data.Mode, data.Word, data.CorrectAnswer, data.Selected, data.Correct},
	)
}

func (r *eventRepo) AppendSessionEvent(ctx context.Context, data SessionEventData) error {
	return r.insert(ctx, tableSessions,
		[]string{"session_id", "action", "mode", "questions", "correct", "mistakes"},
		[]any{data.SessionID, data.Action, data.Mode, data.Questions, data.Correct, data.Mistakes},
	)
}

func (r *eventRepo) QueryAnswers(ctx context.Context, opts QueryOpts) ([]AnswerRecord, error) {
	sel := entsql.Dialect(dialect.SQLite).
		Select("sequence", "timestamp", "session_id", "mode", "word", "correct_answer", "selected", "correct").
		From(entsql.Table(tableAnswers)).
		OrderBy(entsql.Desc("sequence"))
	applyOpts(sel, opts, tableAnswers)

	var records []AnswerRecord
	err := r.selectAll(ctx, sel, func(rows *entsql.Rows) error {
		var (
			rec AnswerRecord
			ts  int64
		)
		if err := rows.Scan(&rec.Sequence, &ts, &rec.SessionID, &rec.Mode, &rec.Word,
			&rec.CorrectAnswer, &rec.Selected, &rec.Correct); err != nil {
			return err
		}
		rec.Timestamp = time.UnixMilli(ts).UTC()
		records = append(records, rec)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("query answers: %w", err)
	}
	return records, nil
}

// Purge deletes every event. The sequence counter is kept so numbers are
// never reused.
func (r *eventRepo) Purge(ctx context.Context) error {
	queries := make([]string, len(eventTables))
	for i, table := range eventTables {
		queries[i], _ = entsql.Dialect(dialect.SQLite).Delete(table).Query()
	}
	return inTx(ctx, r.drv, func(tx dialect.Tx) error {
		if err := execAll(ctx, tx, queries...); err != nil {
			return fmt.Errorf("purge: %w", err)
		}
		return nil
	})
}
