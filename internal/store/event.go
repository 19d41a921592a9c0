package store

import (
	"context"
	"database/sql"
	"fmt"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

// Every event table draws its sequence numbers from one counter, so a
// lookup can be ordered against the answers that followed it even though
// they live in different tables.

// inTx runs fn in a transaction on drv.
func inTx(ctx context.Context, drv *entsql.Driver, fn func(tx dialect.Tx) error) error {
	tx, err := drv.Tx(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// nextSequence bumps the counter inside tx. A rolled back insert gives its
// number back.
func nextSequence(ctx context.Context, tx dialect.Tx) (int64, error) {
	var rows entsql.Rows
	err := tx.Query(ctx,
		`UPDATE `+tableSequence+` SET last = last + 1 WHERE id = 1 RETURNING last`,
		[]any{}, &rows)
	if err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return 0, fmt.Errorf("next sequence: %w", err)
		}
		return 0, fmt.Errorf("next sequence: counter row missing")
	}
	var seq int64
	if err := rows.Scan(&seq); err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}
	return seq, nil
}

// execAll runs each query in tx.
func execAll(ctx context.Context, tx dialect.Tx, queries ...string) error {
	for _, q := range queries {
		var res sql.Result
		if err := tx.Exec(ctx, q, []any{}, &res); err != nil {
			return err
		}
	}
	return nil
}
