package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/palabra/internal/knowledge"
)

var knowledgeColumns = []string{
	"user_id", "word", "language", "confidence_score", "next_review_at",
	"review_interval", "ease_factor", "correct_reviews", "incorrect_reviews",
	"first_seen_at", "updated_at",
}

// KnowledgeRepo persists word knowledge records. Rows are upserted and
// never deleted.
type KnowledgeRepo struct {
	q querier
}

// Get returns the record for (user, word, language) or ErrNotFound.
func (r *KnowledgeRepo) Get(ctx context.Context, userID, word, language string) (*knowledge.WordKnowledge, error) {
	sel := builder.Select(knowledgeColumns...).
		From(builder.Table(tableWordKnowledge)).
		Where(entsql.And(
			entsql.EQ("user_id", userID),
			entsql.EQ("word", word),
			entsql.EQ("language", language),
		))
	wk, err := scanKnowledge(queryRow(ctx, r.q, sel))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("knowledge %s/%s: %w", language, word, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query knowledge: %w", err)
	}
	return wk, nil
}

// Upsert inserts or fully replaces the record. first_seen_at is kept from
// the original row.
func (r *KnowledgeRepo) Upsert(ctx context.Context, wk *knowledge.WordKnowledge) error {
	ins := builder.Insert(tableWordKnowledge).
		Columns(knowledgeColumns...).
		Values(
			wk.UserID, wk.Word, wk.Language, wk.ConfidenceScore, utcOrNil(wk.NextReviewAt),
			wk.ReviewInterval, wk.EaseFactor, wk.CorrectReviews, wk.IncorrectReviews,
			wk.FirstSeenAt.UTC(), wk.UpdatedAt.UTC(),
		).
		OnConflict(
			entsql.ConflictColumns("user_id", "word", "language"),
			entsql.ResolveWith(func(u *entsql.UpdateSet) {
				for _, c := range []string{
					"confidence_score", "next_review_at", "review_interval", "ease_factor",
					"correct_reviews", "incorrect_reviews", "updated_at",
				} {
					u.SetExcluded(c)
				}
			}),
		)
	if _, err := exec(ctx, r.q, ins); err != nil {
		return fmt.Errorf("upsert knowledge: %w", err)
	}
	return nil
}

// KnownWords returns the words whose confidence meets the known threshold.
func (r *KnowledgeRepo) KnownWords(ctx context.Context, userID, language string) ([]string, error) {
	sel := builder.Select("word").
		From(builder.Table(tableWordKnowledge)).
		Where(entsql.And(
			entsql.EQ("user_id", userID),
			entsql.EQ("language", language),
			entsql.GTE("confidence_score", knowledge.KnownThreshold),
		)).
		OrderBy(entsql.Asc("word"))
	return r.words(ctx, sel)
}

// DueWords returns words scheduled at or before now that are not yet
// mastered, earliest first.
func (r *KnowledgeRepo) DueWords(ctx context.Context, userID, language string, now time.Time) ([]string, error) {
	sel := builder.Select("word").
		From(builder.Table(tableWordKnowledge)).
		Where(entsql.And(
			entsql.EQ("user_id", userID),
			entsql.EQ("language", language),
			entsql.NotNull("next_review_at"),
			entsql.LTE("next_review_at", now.UTC()),
			entsql.LT("confidence_score", knowledge.MasteredThreshold),
		)).
		OrderBy(entsql.Asc("next_review_at"), entsql.Asc("word"))
	return r.words(ctx, sel)
}

// List returns every record of the user for a language.
func (r *KnowledgeRepo) List(ctx context.Context, userID, language string) ([]*knowledge.WordKnowledge, error) {
	sel := builder.Select(knowledgeColumns...).
		From(builder.Table(tableWordKnowledge)).
		Where(entsql.And(
			entsql.EQ("user_id", userID),
			entsql.EQ("language", language),
		)).
		OrderBy(entsql.Asc("word"))
	rows, err := queryRows(ctx, r.q, sel)
	if err != nil {
		return nil, fmt.Errorf("query knowledge: %w", err)
	}
	defer rows.Close()

	var out []*knowledge.WordKnowledge
	for rows.Next() {
		wk, err := scanKnowledge(rows)
		if err != nil {
			return nil, fmt.Errorf("scan knowledge: %w", err)
		}
		out = append(out, wk)
	}
	return out, rows.Err()
}

func (r *KnowledgeRepo) words(ctx context.Context, sel *entsql.Selector) ([]string, error) {
	rows, err := queryRows(ctx, r.q, sel)
	if err != nil {
		return nil, fmt.Errorf("query words: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var w string
		if err := rows.Scan(&w); err != nil {
			return nil, fmt.Errorf("scan word: %w", err)
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

func scanKnowledge(s rowScanner) (*knowledge.WordKnowledge, error) {
	var (
		wk   knowledge.WordKnowledge
		next sql.NullTime
	)
	err := s.Scan(
		&wk.UserID, &wk.Word, &wk.Language, &wk.ConfidenceScore, &next,
		&wk.ReviewInterval, &wk.EaseFactor, &wk.CorrectReviews, &wk.IncorrectReviews,
		&wk.FirstSeenAt, &wk.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	wk.NextReviewAt = nullTime(next)
	wk.FirstSeenAt = wk.FirstSeenAt.UTC()
	wk.UpdatedAt = wk.UpdatedAt.UTC()
	return &wk, nil
}
