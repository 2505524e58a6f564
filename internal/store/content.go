package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/palabra/internal/content"
)

var contentColumns = []string{
	"id", "kind", "title", "language", "cefr_level", "topic", "words",
	"dopamine_score", "published_at",
}

// ContentRepo persists the content catalog.
type ContentRepo struct {
	q querier
}

// Put inserts a content item. Published items are immutable, so an item
// whose id already exists is left untouched and Put reports false.
func (r *ContentRepo) Put(ctx context.Context, it content.Item) (bool, error) {
	words, err := json.Marshal(it.Words)
	if err != nil {
		return false, fmt.Errorf("marshal words: %w", err)
	}
	ins := builder.Insert(tableContentItems).
		Columns(contentColumns...).
		Values(
			it.ID, string(it.Kind), it.Title, it.Language, it.Level, it.Topic, string(words),
			it.DopamineScore, it.PublishedAt.UTC(),
		).
		OnConflict(entsql.ConflictColumns("id"), entsql.DoNothing())
	res, err := exec(ctx, r.q, ins)
	if err != nil {
		return false, fmt.Errorf("insert content %s: %w", it.ID, err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// Get returns one item by id or ErrNotFound.
func (r *ContentRepo) Get(ctx context.Context, id string) (content.Item, error) {
	sel := builder.Select(contentColumns...).
		From(builder.Table(tableContentItems)).
		Where(entsql.EQ("id", id))
	it, err := scanContent(queryRow(ctx, r.q, sel))
	if errors.Is(err, sql.ErrNoRows) {
		return content.Item{}, fmt.Errorf("content %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return content.Item{}, fmt.Errorf("query content: %w", err)
	}
	return it, nil
}

// ByLevels returns items in a language at any of the given CEFR levels,
// newest first. limit <= 0 means no limit.
func (r *ContentRepo) ByLevels(ctx context.Context, language string, levels []string, limit int) ([]content.Item, error) {
	sel := builder.Select(contentColumns...).
		From(builder.Table(tableContentItems)).
		Where(entsql.And(
			entsql.EQ("language", language),
			entsql.In("cefr_level", anySlice(levels)...),
		)).
		OrderBy(entsql.Desc("published_at"), entsql.Asc("id"))
	if limit > 0 {
		sel.Limit(limit)
	}
	return r.list(ctx, sel)
}

// List returns items in a language, newest first. An empty language lists
// every item.
func (r *ContentRepo) List(ctx context.Context, language string, limit int) ([]content.Item, error) {
	sel := builder.Select(contentColumns...).
		From(builder.Table(tableContentItems)).
		OrderBy(entsql.Desc("published_at"), entsql.Asc("id"))
	if language != "" {
		sel.Where(entsql.EQ("language", language))
	}
	if limit > 0 {
		sel.Limit(limit)
	}
	return r.list(ctx, sel)
}

func (r *ContentRepo) list(ctx context.Context, sel *entsql.Selector) ([]content.Item, error) {
	rows, err := queryRows(ctx, r.q, sel)
	if err != nil {
		return nil, fmt.Errorf("query content: %w", err)
	}
	defer rows.Close()

	var out []content.Item
	for rows.Next() {
		it, err := scanContent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan content: %w", err)
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func scanContent(s rowScanner) (content.Item, error) {
	var (
		it    content.Item
		kind  string
		words []byte
	)
	err := s.Scan(
		&it.ID, &kind, &it.Title, &it.Language, &it.Level, &it.Topic, &words,
		&it.DopamineScore, &it.PublishedAt,
	)
	if err != nil {
		return content.Item{}, err
	}
	it.Kind = content.Kind(kind)
	it.PublishedAt = it.PublishedAt.UTC()
	if len(words) > 0 {
		if err := json.Unmarshal(words, &it.Words); err != nil {
			return content.Item{}, fmt.Errorf("unmarshal words of %s: %w", it.ID, err)
		}
	}
	return it, nil
}
