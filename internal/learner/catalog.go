package learner

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/palabra/internal/cefr"
	"github.com/abhisek/palabra/internal/content"
	"github.com/abhisek/palabra/internal/store"
)

// ImportRecord is one entry of a content import file. Words may be given
// directly or extracted from Text.
type ImportRecord struct {
	content.Item
	Text string `json:"text,omitempty"`
}

// ImportReport summarizes an import run.
type ImportReport struct {
	Added   []string `json:"added"`
	Skipped []string `json:"skipped"`
}

// DecodeImport reads a JSON array of ImportRecord.
func DecodeImport(r io.Reader) ([]ImportRecord, error) {
	var recs []ImportRecord
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&recs); err != nil {
		return nil, fmt.Errorf("decode content import: %w", err)
	}
	return recs, nil
}

// Import publishes records. Missing IDs are generated, kind defaults to
// video and publish time to now. Items that already exist are skipped and
// left untouched since published content is immutable. Every record is
// validated before anything is written.
func Import(ctx context.Context, repo *store.ContentRepo, recs []ImportRecord, now time.Time) (*ImportReport, error) {
	items := make([]content.Item, 0, len(recs))
	for i, rec := range recs {
		it, err := prepare(rec, now)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		items = append(items, it)
	}

	report := &ImportReport{}
	for _, it := range items {
		added, err := repo.Put(ctx, it)
		if err != nil {
			return report, err
		}
		if added {
			report.Added = append(report.Added, it.ID)
		} else {
			report.Skipped = append(report.Skipped, it.ID)
		}
	}
	return report, nil
}

func prepare(rec ImportRecord, now time.Time) (content.Item, error) {
	it := rec.Item
	if it.ID == "" {
		it.ID = uuid.NewString()
	}
	if it.Kind == "" {
		it.Kind = content.KindVideo
	}
	if it.PublishedAt.IsZero() {
		it.PublishedAt = now
	}
	it.Language = strings.ToLower(strings.TrimSpace(it.Language))
	if l, ok := cefr.Parse(it.Level); ok {
		it.Level = l.String()
	}

	if len(it.Words) == 0 && rec.Text != "" {
		it.Words = content.ExtractWords(rec.Text)
	}
	for i := range it.Words {
		it.Words[i].Word = content.Normalize(it.Words[i].Word)
		if it.Words[i].Frequency <= 0 {
			it.Words[i].Frequency = 1
		}
	}
	if err := it.Validate(); err != nil {
		return content.Item{}, err
	}
	return it, nil
}
