package learner

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/palabra/internal/cache"
	"github.com/abhisek/palabra/internal/content"
	"github.com/abhisek/palabra/internal/feed"
	"github.com/abhisek/palabra/internal/knowledge"
	"github.com/abhisek/palabra/internal/srs"
	"github.com/abhisek/palabra/internal/store"
)

var t0 = time.Date(2026, 5, 4, 9, 30, 0, 0, time.UTC)

func openStore(t *testing.T) *store.Store {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_", "#", "_").Replace(t.Name())
	st, err := store.Open("file:" + name + "?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st
}

// clock is a settable time source.
type clock struct{ t time.Time }

func (c *clock) Now() time.Time          { return c.t }
func (c *clock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newReviewService(t *testing.T, st *store.Store, c cache.Cache) (*ReviewService, *clock) {
	t.Helper()
	clk := &clock{t: t0}
	svc := NewReviewService(st, c, srs.DefaultThresholds(), 3, zerolog.Nop())
	svc.now = clk.Now
	return svc, clk
}

func newFeedService(t *testing.T, st *store.Store, c cache.Cache) *FeedService {
	t.Helper()
	svc := NewFeedService(st, c, feed.NewRanker(), FeedOptions{CandidateLimit: 100, HistorySize: 10, TTL: time.Hour}, zerolog.Nop())
	svc.now = func() time.Time { return t0 }
	return svc
}

// vocab returns n distinct words w01..wNN.
func vocab(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("w%02d", i+1)
	}
	return out
}

func item(id, level, topic string, dopamine float64, words []string) content.Item {
	wf := make([]content.WordFreq, len(words))
	for i, w := range words {
		wf[i] = content.WordFreq{Word: w, Frequency: 1}
	}
	return content.Item{
		ID:            id,
		Kind:          content.KindVideo,
		Title:         id,
		Language:      "es",
		Level:         level,
		Topic:         topic,
		Words:         wf,
		DopamineScore: dopamine,
		PublishedAt:   t0.Add(-time.Hour),
	}
}

func publish(t *testing.T, st *store.Store, items ...content.Item) {
	t.Helper()
	for _, it := range items {
		_, err := st.Content().Put(context.Background(), it)
		require.NoError(t, err)
	}
}

func know(t *testing.T, st *store.Store, user string, confidence float64, words ...string) {
	t.Helper()
	for _, w := range words {
		wk := knowledge.New(user, w, "es", t0.AddDate(0, 0, -30))
		wk.ConfidenceScore = confidence
		next := t0.AddDate(0, 0, 10)
		wk.NextReviewAt = &next
		require.NoError(t, st.Knowledge().Upsert(context.Background(), wk))
	}
}

func saveProfile(t *testing.T, st *store.Store, user, level string, engagement float64) {
	t.Helper()
	p := DefaultProfile(user)
	p.CurrentLevel = level
	p.EngagementScore = engagement
	p.UpdatedAt = t0
	require.NoError(t, st.Profiles().Save(context.Background(), p))
}
