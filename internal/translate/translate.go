// Package translate answers word-click lookups. Translations are served
// from the cache, then the database, and only then generated by the LLM,
// after which they are stored so each word is generated once.
package translate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/abhisek/palabra/internal/cache"
	"github.com/abhisek/palabra/internal/content"
	"github.com/abhisek/palabra/internal/llm"
	"github.com/abhisek/palabra/internal/store"
)

var (
	// ErrUnavailable means the word is not cached and no LLM is configured.
	ErrUnavailable = errors.New("translate: no cached translation and no LLM provider configured")

	ErrEmptyWord    = errors.New("translate: empty word")
	ErrSameLanguage = errors.New("translate: source and target language are the same")
)

const maxTokens = 256

// Source says where a translation came from.
type Source string

const (
	SourceCache Source = "cache"
	SourceStore Source = "store"
	SourceLLM   Source = "llm"
)

// Query is one lookup. Context is the sentence the word appeared in, if
// known; it only influences freshly generated translations.
type Query struct {
	Word    string
	From    string
	To      string
	Context string
}

// Result is a translation and where it was found.
type Result struct {
	store.Translation
	Source Source `json:"source"`
}

// Repo is the persistent side of the translation cache.
type Repo interface {
	Get(ctx context.Context, word, from, to string) (*store.Translation, error)
	Put(ctx context.Context, t *store.Translation) error
}

// Service looks up translations. Provider and Cache may be nil.
type Service struct {
	repo     Repo
	provider llm.Provider
	cache    cache.Cache
	ttl      time.Duration
	log      zerolog.Logger
	now      func() time.Time
}

func New(repo Repo, provider llm.Provider, c cache.Cache, ttl time.Duration, log zerolog.Logger) *Service {
	return &Service{
		repo:     repo,
		provider: provider,
		cache:    c,
		ttl:      ttl,
		log:      log,
		now:      time.Now,
	}
}

// Translate resolves q.Word from q.From into q.To.
func (s *Service) Translate(ctx context.Context, q Query) (*Result, error) {
	q.Word = content.Normalize(q.Word)
	q.From = strings.ToLower(strings.TrimSpace(q.From))
	q.To = strings.ToLower(strings.TrimSpace(q.To))
	if q.Word == "" {
		return nil, ErrEmptyWord
	}
	if q.From == q.To {
		return nil, fmt.Errorf("%w: %s", ErrSameLanguage, q.From)
	}

	key := cache.TranslationKey(q.Word, q.From, q.To)
	if t, ok := s.fromCache(ctx, key); ok {
		return &Result{Translation: *t, Source: SourceCache}, nil
	}

	t, err := s.repo.Get(ctx, q.Word, q.From, q.To)
	switch {
	case err == nil:
		s.toCache(ctx, key, t)
		return &Result{Translation: *t, Source: SourceStore}, nil
	case !errors.Is(err, store.ErrNotFound):
		return nil, err
	}

	if s.provider == nil {
		return nil, ErrUnavailable
	}

	t, err = s.generate(ctx, q)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Put(ctx, t); err != nil {
		return nil, err
	}
	s.toCache(ctx, key, t)
	s.log.Debug().Str("word", q.Word).Str("from", q.From).Str("to", q.To).Msg("translation generated")
	return &Result{Translation: *t, Source: SourceLLM}, nil
}

func (s *Service) generate(ctx context.Context, q Query) (*store.Translation, error) {
	ctx = llm.WithPurpose(ctx, llm.PurposeTranslate)
	resp, err := s.provider.Generate(ctx, llm.Prompt(systemPrompt, userMessage(q), answerSchema, maxTokens))
	if err != nil {
		return nil, fmt.Errorf("translate %q: %w", q.Word, err)
	}

	var a answer
	if err := json.Unmarshal(resp.Content, &a); err != nil {
		return nil, fmt.Errorf("parse translation: %w", err)
	}
	return &store.Translation{
		Word:         q.Word,
		From:         q.From,
		To:           q.To,
		Translation:  strings.TrimSpace(a.Translation),
		PartOfSpeech: a.PartOfSpeech,
		Example:      strings.TrimSpace(a.Example),
		CreatedAt:    s.now().UTC(),
	}, nil
}

// The cache is best effort: errors are logged and treated as misses.

func (s *Service) fromCache(ctx context.Context, key string) (*store.Translation, bool) {
	if s.cache == nil {
		return nil, false
	}
	raw, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("translation cache read")
		return nil, false
	}
	if !ok {
		return nil, false
	}
	var t store.Translation
	if err := json.Unmarshal(raw, &t); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("translation cache decode")
		return nil, false
	}
	return &t, true
}

func (s *Service) toCache(ctx context.Context, key string, t *store.Translation) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(t)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, raw, s.ttl); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("translation cache write")
	}
}
