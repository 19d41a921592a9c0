package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

// eventRepo implements EventRepo with the ent SQL builder.
type eventRepo struct {
	drv *entsql.Driver
}

// insert appends one row to table, stamping it with the next sequence and
// the current time.
func (r *eventRepo) insert(ctx context.Context, table string, cols []string, vals []any) error {
	return inTx(ctx, r.drv, func(tx dialect.Tx) error {
		seq, err := nextSequence(ctx, tx)
		if err != nil {
			return err
		}
		query, args := entsql.Dialect(dialect.SQLite).
			Insert(table).
			Columns(append([]string{"sequence", "timestamp"}, cols...)...).
			Values(append([]any{seq, time.Now().UnixMilli()}, vals...)...).
			Query()

		var res sql.Result
		if err := tx.Exec(ctx, query, args, &res); err != nil {
			return fmt.Errorf("insert into %s: %w", table, err)
		}
		return nil
	})
}

// selectAll runs sel and calls scan for each row.
func (r *eventRepo) selectAll(ctx context.Context, sel *entsql.Selector, scan func(rows *entsql.Rows) error) error {
	query, args := sel.Query()

	var rows entsql.Rows
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		if err := scan(&rows); err != nil {
			return err
		}
	}
	return rows.Err()
}

// applyOpts adds the QueryOpts filters to sel. table decides which of the
// table-specific filters apply.
func applyOpts(sel *entsql.Selector, opts QueryOpts, table string) *entsql.Selector {
	if opts.After > 0 {
		sel.Where(entsql.GT("sequence", opts.After))
	}
	if opts.Before > 0 {
		sel.Where(entsql.LT("sequence", opts.Before))
	}
	if !opts.From.IsZero() {
		sel.Where(entsql.GTE("timestamp", opts.From.UnixMilli()))
	}
	if !opts.To.IsZero() {
		sel.Where(entsql.LTE("timestamp", opts.To.UnixMilli()))
	}
	if table != tableLLMRequests && opts.SessionID != "" {
		sel.Where(entsql.EQ("session_id", opts.SessionID))
	}
	if table == tableLLMRequests && opts.Purpose != "" {
		sel.Where(entsql.EQ("purpose", opts.Purpose))
	}
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}
	return sel
}

func (r *eventRepo) AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error {
	return r.insert(ctx, tableLLMRequests,
		[]string{
			"provider", "model", "purpose", "input_tokens", "output_tokens",
			"latency_ms", "success", "error_message", "request_body", "response_body",
		},
		[]any{
			data.Provider, data.Model, data.Purpose, data.InputTokens, data.OutputTokens,
			data.LatencyMs, data.Success, data.ErrorMessage, data.RequestBody, data.ResponseBody,
		},
	)
}

var llmEventColumns = []string{
	"id", "sequence", "timestamp", "provider", "model", "purpose", "input_tokens",
	"output_tokens", "latency_ms", "success", "error_message", "request_body", "response_body",
}

func scanLLMEvent(rows *entsql.Rows) (LLMEventRecord, error) {
	var (
		rec LLMEventRecord
		ts  int64
	)
	err := rows.Scan(
		&rec.ID, &rec.Sequence, &ts, &rec.Provider, &rec.Model, &rec.Purpose, &rec.InputTokens,
		&rec.OutputTokens, &rec.LatencyMs, &rec.Success, &rec.ErrorMessage, &rec.RequestBody, &rec.ResponseBody,
	)
	rec.Timestamp = time.UnixMilli(ts).UTC()
	return rec, err
}

func (r *eventRepo) QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEventRecord, error) {
	sel := entsql.Dialect(dialect.SQLite).
		Select(llmEventColumns...).
		From(entsql.Table(tableLLMRequests)).
		OrderBy(entsql.Desc("sequence"))
	applyOpts(sel, opts, tableLLMRequests)

	var records []LLMEventRecord
	err := r.selectAll(ctx, sel, func(rows *entsql.Rows) error {
		rec, err := scanLLMEvent(rows)
		if err != nil {
			return err
		}
		records = append(records, rec)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("query LLM events: %w", err)
	}
	return records, nil
}

func (r *eventRepo) GetLLMEvent(ctx context.Context, id int) (*LLMEventRecord, error) {
	sel := entsql.Dialect(dialect.SQLite).
		Select(llmEventColumns...).
		From(entsql.Table(tableLLMRequests)).
		Where(entsql.EQ("id", id)).
		Limit(1)

	var found *LLMEventRecord
	err := r.selectAll(ctx, sel, func(rows *entsql.Rows) error {
		rec, err := scanLLMEvent(rows)
		if err != nil {
			return err
		}
		found = &rec
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("get LLM event: %w", err)
	}
	return found, nil
}

func (r *eventRepo) LLMUsageByPurpose(ctx context.Context) ([]LLMUsage, error) {
	sel := entsql.Dialect(dialect.SQLite).
		Select(
			"purpose",
			entsql.As(entsql.Count("*"), "calls"),
			entsql.As(entsql.Sum("input_tokens"), "input_tokens"),
			entsql.As(entsql.Sum("output_tokens"), "output_tokens"),
			entsql.As(entsql.Avg("latency_ms"), "avg_latency_ms"),
		).
		From(entsql.Table(tableLLMRequests)).
		GroupBy("purpose").
		OrderBy("purpose")

	var stats []LLMUsage
	err := r.selectAll(ctx, sel, func(rows *entsql.Rows) error {
		var (
			u   LLMUsage
			avg float64
		)
		if err := rows.Scan(&u.Purpose, &u.Calls, &u.InputTokens, &u.OutputTokens, &avg); err != nil {
			return err
		}
		u.AvgLatencyMs = int64(avg)
		stats = append(stats, u)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("query usage by purpose: %w", err)
	}
	return stats, nil
}

func (r *eventRepo) LLMUsageByModel(ctx context.Context) ([]ModelUsage, error) {
	sel := entsql.Dialect(dialect.SQLite).
		Select(
			"model",
			entsql.As(entsql.Count("*"), "calls"),
			entsql.As(entsql.Sum("input_tokens"), "input_tokens"),
			entsql.As(entsql.Sum("output_tokens"), "output_tokens"),
		).
		From(entsql.Table(tableLLMRequests)).
		GroupBy("model").
		OrderBy("model")

	var stats []ModelUsage
	err := r.selectAll(ctx, sel, func(rows *entsql.Rows) error {
		var u ModelUsage
		if err := rows.Scan(&u.Model, &u.Calls, &u.InputTokens, &u.OutputTokens); err != nil {
			return err
		}
		stats = append(stats, u)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("query usage by model: %w", err)
	}
	return stats, nil
}
