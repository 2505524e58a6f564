package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/palabra/internal/gamify"
)

// StatsRepo persists XP and streak counters.
type StatsRepo struct {
	q querier
}

// Get returns the user's stats. A user with no reviews yet gets zero stats.
func (r *StatsRepo) Get(ctx context.Context, userID string) (gamify.Stats, error) {
	sel := builder.Select("user_id", "xp", "streak", "longest_streak", "last_active_day").
		From(builder.Table(tableUserStats)).
		Where(entsql.EQ("user_id", userID))

	var (
		s    gamify.Stats
		last sql.NullTime
	)
	err := queryRow(ctx, r.q, sel).Scan(&s.UserID, &s.XP, &s.Streak, &s.LongestStreak, &last)
	if errors.Is(err, sql.ErrNoRows) {
		return gamify.Stats{UserID: userID}, nil
	}
	if err != nil {
		return gamify.Stats{}, fmt.Errorf("query stats: %w", err)
	}
	if last.Valid {
		s.LastActiveDay = last.Time.UTC()
	}
	return s, nil
}

// Save inserts or replaces the user's stats.
func (r *StatsRepo) Save(ctx context.Context, s gamify.Stats) error {
	var last any
	if !s.LastActiveDay.IsZero() {
		last = s.LastActiveDay.UTC()
	}
	ins := builder.Insert(tableUserStats).
		Columns("user_id", "xp", "streak", "longest_streak", "last_active_day").
		Values(s.UserID, s.XP, s.Streak, s.LongestStreak, last).
		OnConflict(entsql.ConflictColumns("user_id"), entsql.ResolveWithNewValues())
	if _, err := exec(ctx, r.q, ins); err != nil {
		return fmt.Errorf("save stats: %w", err)
	}
	return nil
}
