package store

import (
	"context"
	"database/sql"
	"fmt"
)

// The global sequence is shared by every event table so events of
// different types can be ordered against each other. The RETURNING clause
// makes the increment atomic in the database, and running it on the
// caller's transaction rolls it back together with the event.

// ensureSequence creates and seeds the tracking table.
func ensureSequence(db *sql.DB) error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS global_sequence (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		next_val INTEGER NOT NULL DEFAULT 1
	)`)
	if err != nil {
		return fmt.Errorf("create sequence table: %w", err)
	}

	_, err = db.Exec(`INSERT OR IGNORE INTO global_sequence (id, next_val) VALUES (1, 1)`)
	if err != nil {
		return fmt.Errorf("seed sequence: %w", err)
	}
	return nil
}

// nextSequence returns the next sequence number and increments the counter.
func nextSequence(ctx context.Context, q querier) (int64, error) {
	var seq int64
	err := q.QueryRowContext(ctx,
		`UPDATE global_sequence SET next_val = next_val + 1 WHERE id = 1 RETURNING next_val - 1`,
	).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}
	return seq, nil
}
