package learner

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/abhisek/palabra/internal/cache"
	"github.com/abhisek/palabra/internal/cefr"
	"github.com/abhisek/palabra/internal/content"
	"github.com/abhisek/palabra/internal/feed"
	"github.com/abhisek/palabra/internal/store"
)

// fallbackLevels is the curated beginner pool served when nothing in the
// personalized ranking clears the minimum score.
var fallbackLevels = []string{cefr.A0.String(), cefr.A1.String()}

// FeedPage is one page of a learner's feed.
type FeedPage struct {
	Items []feed.ScoredItem `json:"items"`

	// TotalEligible counts personalized items above the minimum score. It
	// is zero whenever Fallback is set.
	TotalEligible int `json:"total_eligible"`

	// Total is the length of the list being paged, personalized or not.
	Total int `json:"total"`

	Fallback bool `json:"fallback"`
	Cached   bool `json:"cached"`
}

// rankedFeed is the cached form of a learner's full ranking.
type rankedFeed struct {
	Items    []feed.ScoredItem `json:"items"`
	Eligible int               `json:"eligible"`
	Fallback bool              `json:"fallback"`
}

// FeedOptions tunes candidate loading and caching.
type FeedOptions struct {
	CandidateLimit int
	HistorySize    int
	TTL            time.Duration
}

// FeedService ranks content for a learner and caches the full ranking per
// user so paging does not re-rank.
type FeedService struct {
	store  *store.Store
	cache  cache.Cache
	ranker *feed.Ranker
	opts   FeedOptions
	log    zerolog.Logger
	now    func() time.Time
}

// NewFeedService builds the service. c may be nil to disable caching.
func NewFeedService(st *store.Store, c cache.Cache, r *feed.Ranker, opts FeedOptions, log zerolog.Logger) *FeedService {
	return &FeedService{store: st, cache: c, ranker: r, opts: opts, log: log, now: time.Now}
}

// Page returns the requested window of the learner's feed.
func (s *FeedService) Page(ctx context.Context, userID string, page feed.Page) (*FeedPage, error) {
	if err := page.Validate(); err != nil {
		return nil, err
	}

	ranked, cached := s.fromCache(ctx, userID)
	if !cached {
		var err error
		ranked, err = s.rank(ctx, userID)
		if err != nil {
			return nil, err
		}
		s.toCache(ctx, userID, ranked)
	}

	return &FeedPage{
		Items:         feed.Slice(ranked.Items, page),
		TotalEligible: ranked.Eligible,
		Total:         len(ranked.Items),
		Fallback:      ranked.Fallback,
		Cached:        cached,
	}, nil
}

func (s *FeedService) rank(ctx context.Context, userID string) (*rankedFeed, error) {
	if err := s.ranker.Weights.Validate(); err != nil {
		return nil, err
	}

	profile, err := LoadProfile(ctx, s.store.Profiles(), userID)
	if err != nil {
		return nil, err
	}
	user, err := s.userState(ctx, profile)
	if err != nil {
		return nil, err
	}

	pool, err := s.store.Content().ByLevels(ctx, profile.TargetLanguage, cefr.AdjacentNames(profile.CurrentLevel), s.opts.CandidateLimit)
	if err != nil {
		return nil, fmt.Errorf("load candidates: %w", err)
	}

	items := s.ranker.RankAll(user, pool)
	s.log.Debug().
		Str("user", userID).
		Int("candidates", len(pool)).
		Int("eligible", len(items)).
		Msg("feed ranked")
	if len(items) > 0 {
		return &rankedFeed{Items: items, Eligible: len(items)}, nil
	}

	fallback, err := s.fallback(ctx, user, profile.TargetLanguage)
	if err != nil {
		return nil, err
	}
	return &rankedFeed{Items: fallback, Fallback: true}, nil
}

// fallback scores the beginner pool for display but orders it purely by
// dopamine score, highest first.
func (s *FeedService) fallback(ctx context.Context, user feed.UserState, language string) ([]feed.ScoredItem, error) {
	pool, err := s.store.Content().ByLevels(ctx, language, fallbackLevels, s.opts.CandidateLimit)
	if err != nil {
		return nil, fmt.Errorf("load fallback content: %w", err)
	}

	out := make([]feed.ScoredItem, len(pool))
	for i, it := range pool {
		out[i] = s.ranker.Score(user, it)
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Content, out[j].Content
		if a.DopamineScore != b.DopamineScore {
			return a.DopamineScore > b.DopamineScore
		}
		return a.ID < b.ID
	})
	return out, nil
}

func (s *FeedService) userState(ctx context.Context, p *store.Profile) (feed.UserState, error) {
	known, err := s.store.Knowledge().KnownWords(ctx, p.UserID, p.TargetLanguage)
	if err != nil {
		return feed.UserState{}, fmt.Errorf("load known words: %w", err)
	}
	due, err := s.store.Knowledge().DueWords(ctx, p.UserID, p.TargetLanguage, s.now().UTC())
	if err != nil {
		return feed.UserState{}, fmt.Errorf("load due words: %w", err)
	}

	var recent feed.History
	if s.opts.HistorySize > 0 {
		seen, err := s.store.Events().Interactions(ctx, p.UserID, store.QueryOpts{Limit: s.opts.HistorySize})
		if err != nil {
			return feed.UserState{}, fmt.Errorf("load history: %w", err)
		}
		for _, in := range seen {
			recent.ItemIDs = append(recent.ItemIDs, in.ContentID)
			recent.Topics = append(recent.Topics, in.Topic)
		}
	}

	knownSet := make(map[string]struct{}, len(known))
	for _, w := range known {
		knownSet[content.Normalize(w)] = struct{}{}
	}
	return feed.UserState{
		KnownWords:          knownSet,
		DueWords:            due,
		PreferredDifficulty: p.PreferredDifficulty,
		EngagementScore:     p.EngagementScore,
		Recent:              recent,
	}, nil
}

// RecordSeen logs that the learner consumed an item. The cached ranking is
// dropped since variety depends on history.
func (s *FeedService) RecordSeen(ctx context.Context, userID, contentID string) (content.Item, error) {
	it, err := s.store.Content().Get(ctx, contentID)
	if err != nil {
		return content.Item{}, err
	}
	if _, err := s.store.Events().AppendInteraction(ctx, store.Interaction{
		Timestamp: s.now().UTC(),
		UserID:    userID,
		ContentID: it.ID,
		Topic:     it.Topic,
	}); err != nil {
		return content.Item{}, err
	}
	s.Invalidate(ctx, userID)
	return it, nil
}

// Invalidate drops the learner's cached ranking.
func (s *FeedService) Invalidate(ctx context.Context, userID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, cache.FeedKey(userID)); err != nil {
		s.log.Warn().Err(err).Str("user", userID).Msg("invalidate feed cache")
	}
}

func (s *FeedService) fromCache(ctx context.Context, userID string) (*rankedFeed, bool) {
	if s.cache == nil {
		return nil, false
	}
	raw, ok, err := s.cache.Get(ctx, cache.FeedKey(userID))
	if err != nil {
		s.log.Warn().Err(err).Str("user", userID).Msg("feed cache read")
		return nil, false
	}
	if !ok {
		s.log.Debug().Str("user", userID).Str("cache", "miss").Msg("feed")
		return nil, false
	}
	var r rankedFeed
	if err := json.Unmarshal(raw, &r); err != nil {
		s.log.Warn().Err(err).Str("user", userID).Msg("feed cache decode")
		return nil, false
	}
	s.log.Debug().Str("user", userID).Str("cache", "hit").Msg("feed")
	return &r, true
}

func (s *FeedService) toCache(ctx context.Context, userID string, r *rankedFeed) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(r)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, cache.FeedKey(userID), raw, s.opts.TTL); err != nil {
		s.log.Warn().Err(err).Str("user", userID).Msg("feed cache write")
	}
}
