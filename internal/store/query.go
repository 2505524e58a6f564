package store

import (
	"context"
	"database/sql"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// builder renders SQLite statements.
var builder = entsql.Dialect(dialect.SQLite)

// statement is implemented by the ent SQL builders.
type statement interface {
	Query() (string, []any)
}

func exec(ctx context.Context, q querier, st statement) (sql.Result, error) {
	query, args := st.Query()
	return q.ExecContext(ctx, query, args...)
}

func queryRows(ctx context.Context, q querier, st statement) (*sql.Rows, error) {
	query, args := st.Query()
	return q.QueryContext(ctx, query, args...)
}

func queryRow(ctx context.Context, q querier, st statement) *sql.Row {
	query, args := st.Query()
	return q.QueryRowContext(ctx, query, args...)
}

func anySlice[T any](xs []T) []any {
	out := make([]any, len(xs))
	for i, x := range xs {
		out[i] = x
	}
	return out
}

func nullTime(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time.UTC()
	return &v
}

func utcOrNil(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC()
}
