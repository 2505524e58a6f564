package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// Translation is a cached word translation.
type Translation struct {
	Word         string    `json:"word"`
	From         string    `json:"from"`
	To           string    `json:"to"`
	Translation  string    `json:"translation"`
	PartOfSpeech string    `json:"part_of_speech,omitempty"`
	Example      string    `json:"example,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// TranslationRepo persists the translation cache.
type TranslationRepo struct {
	q querier
}

// Get returns the cached translation or ErrNotFound.
func (r *TranslationRepo) Get(ctx context.Context, word, from, to string) (*Translation, error) {
	sel := builder.Select("word", "from_language", "to_language", "translation", "part_of_speech", "example", "created_at").
		From(builder.Table(tableTranslations)).
		Where(entsql.And(
			entsql.EQ("word", word),
			entsql.EQ("from_language", from),
			entsql.EQ("to_language", to),
		))

	var t Translation
	err := queryRow(ctx, r.q, sel).Scan(&t.Word, &t.From, &t.To, &t.Translation, &t.PartOfSpeech, &t.Example, &t.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("translation %s %s->%s: %w", word, from, to, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query translation: %w", err)
	}
	t.CreatedAt = t.CreatedAt.UTC()
	return &t, nil
}

// Put stores a translation, replacing any previous one.
func (r *TranslationRepo) Put(ctx context.Context, t *Translation) error {
	ins := builder.Insert(tableTranslations).
		Columns("word", "from_language", "to_language", "translation", "part_of_speech", "example", "created_at").
		Values(t.Word, t.From, t.To, t.Translation, t.PartOfSpeech, t.Example, stamp(t.CreatedAt)).
		OnConflict(
			entsql.ConflictColumns("word", "from_language", "to_language"),
			entsql.ResolveWithNewValues(),
		)
	if _, err := exec(ctx, r.q, ins); err != nil {
		return fmt.Errorf("save translation: %w", err)
	}
	return nil
}
