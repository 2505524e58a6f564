package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/palabra/internal/srs"
)

var cardColumns = []string{
	"user_id", "word", "language", "ease_factor", "interval", "repetitions",
	"next_review_at", "correct_count", "incorrect_count", "last_reviewed_at",
	"created_at", "version",
}

// CardRepo persists review cards.
type CardRepo struct {
	q querier
}

func cardKey(userID, word, language string) *entsql.Predicate {
	return entsql.And(
		entsql.EQ("user_id", userID),
		entsql.EQ("word", word),
		entsql.EQ("language", language),
	)
}

// Get returns the card for (user, word, language) or ErrNotFound.
func (r *CardRepo) Get(ctx context.Context, userID, word, language string) (*srs.Card, error) {
	sel := builder.Select(cardColumns...).
		From(builder.Table(tableReviewCards)).
		Where(cardKey(userID, word, language))
	c, err := scanCard(queryRow(ctx, r.q, sel))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("card %s/%s: %w", language, word, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query card: %w", err)
	}
	return c, nil
}

// Create inserts a new card with version 1. Creating a card that already
// exists returns ErrVersionConflict.
func (r *CardRepo) Create(ctx context.Context, c *srs.Card) error {
	ins := builder.Insert(tableReviewCards).
		Columns(cardColumns...).
		Values(
			c.UserID, c.Word, c.Language, c.EaseFactor, c.Interval, c.Repetitions,
			c.NextReviewAt.UTC(), c.CorrectCount, c.IncorrectCount, utcOrNil(c.LastReviewedAt),
			c.CreatedAt.UTC(), 1,
		).
		OnConflict(entsql.ConflictColumns("user_id", "word", "language"), entsql.DoNothing())
	res, err := exec(ctx, r.q, ins)
	if err != nil {
		return fmt.Errorf("insert card: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("card %s/%s already exists: %w", c.Language, c.Word, ErrVersionConflict)
	}
	c.Version = 1
	return nil
}

// Update writes c if its version still matches the stored row and bumps
// the version. A stale version returns ErrVersionConflict.
func (r *CardRepo) Update(ctx context.Context, c *srs.Card) error {
	upd := builder.Update(tableReviewCards).
		Set("ease_factor", c.EaseFactor).
		Set("interval", c.Interval).
		Set("repetitions", c.Repetitions).
		Set("next_review_at", c.NextReviewAt.UTC()).
		Set("correct_count", c.CorrectCount).
		Set("incorrect_count", c.IncorrectCount).
		Set("last_reviewed_at", utcOrNil(c.LastReviewedAt)).
		Set("version", c.Version+1).
		Where(entsql.And(
			cardKey(c.UserID, c.Word, c.Language),
			entsql.EQ("version", c.Version),
		))
	res, err := exec(ctx, r.q, upd)
	if err != nil {
		return fmt.Errorf("update card: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update card: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("card %s/%s at version %d: %w", c.Language, c.Word, c.Version, ErrVersionConflict)
	}
	c.Version++
	return nil
}

// Due returns the user's cards due at now, earliest first. limit <= 0
// means no limit.
func (r *CardRepo) Due(ctx context.Context, userID, language string, now time.Time, limit int) ([]*srs.Card, error) {
	sel := builder.Select(cardColumns...).
		From(builder.Table(tableReviewCards)).
		Where(entsql.And(
			entsql.EQ("user_id", userID),
			entsql.EQ("language", language),
			entsql.LTE("next_review_at", now.UTC()),
		)).
		OrderBy(entsql.Asc("next_review_at"), entsql.Asc("word"))
	if limit > 0 {
		sel.Limit(limit)
	}
	return r.list(ctx, sel)
}

// List returns all of the user's cards for a language ordered by word.
func (r *CardRepo) List(ctx context.Context, userID, language string) ([]*srs.Card, error) {
	sel := builder.Select(cardColumns...).
		From(builder.Table(tableReviewCards)).
		Where(entsql.And(
			entsql.EQ("user_id", userID),
			entsql.EQ("language", language),
		)).
		OrderBy(entsql.Asc("word"))
	return r.list(ctx, sel)
}

func (r *CardRepo) list(ctx context.Context, sel *entsql.Selector) ([]*srs.Card, error) {
	rows, err := queryRows(ctx, r.q, sel)
	if err != nil {
		return nil, fmt.Errorf("query cards: %w", err)
	}
	defer rows.Close()

	var cards []*srs.Card
	for rows.Next() {
		c, err := scanCard(rows)
		if err != nil {
			return nil, fmt.Errorf("scan card: %w", err)
		}
		cards = append(cards, c)
	}
	return cards, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCard(s rowScanner) (*srs.Card, error) {
	var (
		c            srs.Card
		lastReviewed sql.NullTime
	)
	err := s.Scan(
		&c.UserID, &c.Word, &c.Language, &c.EaseFactor, &c.Interval, &c.Repetitions,
		&c.NextReviewAt, &c.CorrectCount, &c.IncorrectCount, &lastReviewed,
		&c.CreatedAt, &c.Version,
	)
	if err != nil {
		return nil, err
	}
	c.NextReviewAt = c.NextReviewAt.UTC()
	c.CreatedAt = c.CreatedAt.UTC()
	c.LastReviewedAt = nullTime(lastReviewed)
	return &c, nil
}
