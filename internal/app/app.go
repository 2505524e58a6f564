// Package app wires configuration into the running services: the store,
// the cache backend, the optional LLM provider and the learner services
// built on top of them.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/abhisek/palabra/internal/cache"
	"github.com/abhisek/palabra/internal/config"
	"github.com/abhisek/palabra/internal/learner"
	"github.com/abhisek/palabra/internal/llm"
	"github.com/abhisek/palabra/internal/logging"
	"github.com/abhisek/palabra/internal/store"
	"github.com/abhisek/palabra/internal/translate"
)

// App holds the opened resources for one command invocation.
type App struct {
	Config *config.Config
	Store  *store.Store
	Cache  cache.Cache

	// Provider is nil when no LLM is configured.
	Provider llm.Provider

	Reviews    *learner.ReviewService
	Feed       *learner.FeedService
	Translator *translate.Service

	log zerolog.Logger
}

// Open initializes logging from cfg and opens everything the commands
// need. Close must be called when done.
func Open(ctx context.Context, cfg *config.Config) (*App, error) {
	logging.Init(cfg.Logging())
	log := logging.Component("app")

	dbPath := cfg.DB.Path
	if dbPath == "" {
		p, err := store.DefaultDBPath()
		if err != nil {
			return nil, fmt.Errorf("resolve database path: %w", err)
		}
		dbPath = p
	} else if dbPath != ":memory:" {
		if err := store.EnsureDir(dbPath); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	c, err := openCache(ctx, cfg.Cache)
	if err != nil {
		st.Close()
		return nil, err
	}

	provider, err := llm.New(ctx, cfg.LLM, st.Events(), logging.Component("llm"))
	switch {
	case errors.Is(err, llm.ErrDisabled):
		provider = nil
	case err != nil:
		log.Warn().Err(err).Str("provider", cfg.LLM.Provider).Msg("LLM provider unavailable, translations limited to cache")
		provider = nil
	}

	a := &App{
		Config:   cfg,
		Store:    st,
		Cache:    c,
		Provider: provider,
		Reviews: learner.NewReviewService(st, c, cfg.Thresholds(), cfg.Review.MaxRetries,
			logging.Component("review")),
		Feed: learner.NewFeedService(st, c, cfg.Ranker(), learner.FeedOptions{
			CandidateLimit: cfg.Feed.CandidateLimit,
			HistorySize:    cfg.Feed.HistorySize,
			TTL:            cfg.Cache.FeedTTL,
		}, logging.Component("feed")),
		Translator: translate.New(st.Translations(), provider, c, cfg.Cache.TranslationTTL,
			logging.Component("translate")),
		log: log,
	}
	log.Debug().Str("db", dbPath).Str("cache", cfg.Cache.Backend).Bool("llm", provider != nil).Msg("app opened")
	return a, nil
}

func openCache(ctx context.Context, cfg config.CacheConfig) (cache.Cache, error) {
	switch cfg.Backend {
	case "redis":
		r, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("open redis cache: %w", err)
		}
		return r, nil
	default:
		return cache.NewMemory(), nil
	}
}

// User returns the configured learner id.
func (a *App) User() string {
	return a.Config.User
}

// Profile loads the learner's profile, or the defaults if none is saved.
func (a *App) Profile(ctx context.Context) (*store.Profile, error) {
	return learner.LoadProfile(ctx, a.Store.Profiles(), a.User())
}

// Close releases the cache and the database.
func (a *App) Close() error {
	var errs []error
	if a.Cache != nil {
		if err := a.Cache.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close cache: %w", err))
		}
	}
	if err := a.Store.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close store: %w", err))
	}
	return errors.Join(errs...)
}
