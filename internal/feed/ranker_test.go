package feed

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/palabra/internal/content"
)

func words(ws ...string) []content.WordFreq {
	out := make([]content.WordFreq, len(ws))
	for i, w := range ws {
		out[i] = content.WordFreq{Word: w, Frequency: 1}
	}
	return out
}

func knownSet(ws ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(ws))
	for _, w := range ws {
		m[w] = struct{}{}
	}
	return m
}

func numbered(prefix string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("%s%d", prefix, i)
	}
	return out
}

func TestClassify(t *testing.T) {
	r := NewRanker()
	tests := []struct {
		pct  float64
		want Difficulty
	}{
		{0.96, DifficultyAppropriate},
		{0.94, DifficultyAppropriate},
		{0.98, DifficultyAppropriate},
		{0.93, DifficultyAppropriate},
		{0.99, DifficultyAppropriate},
		{1.0, DifficultyTooEasy},
		{0.92, DifficultyTooHard},
		{0.90, DifficultyTooHard},
		{0, DifficultyTooHard},
	}
	for _, tt := range tests {
		if got := r.Classify(tt.pct, 0.96); got != tt.want {
			t.Errorf("Classify(%v) = %s, want %s", tt.pct, got, tt.want)
		}
	}
}

func TestClassify_BandEdgesFromCounts(t *testing.T) {
	r := NewRanker()
	for known := 93; known <= 99; known++ {
		pct := float64(known) / 100
		assert.Equal(t, DifficultyAppropriate, r.Classify(pct, 0.96), "known=%d%%", known)
	}
	assert.Equal(t, DifficultyTooHard, r.Classify(92.0/100, 0.96))
	assert.Equal(t, DifficultyTooEasy, r.Classify(100.0/100, 0.96))
}

func TestDifficultyScore_Asymmetric(t *testing.T) {
	assert.Equal(t, 1.0, DifficultyAppropriate.Score())
	assert.Equal(t, 0.3, DifficultyTooEasy.Score())
	assert.Equal(t, 0.2, DifficultyTooHard.Score())
}

func TestScore_KnownPercentage(t *testing.T) {
	r := NewRanker()
	user := UserState{KnownWords: knownSet("el", "gato"), EngagementScore: 1}

	si := r.Score(user, content.Item{ID: "a", Words: words("El", "gato", "come", "pan")})
	assert.Equal(t, 0.5, si.KnownPercentage)
	assert.Equal(t, DifficultyTooHard, si.Difficulty)
	assert.Equal(t, []string{"come", "pan"}, si.NewWords)

	empty := r.Score(user, content.Item{ID: "b"})
	assert.Equal(t, 0.0, empty.KnownPercentage)
	assert.Empty(t, empty.NewWords)
}

func TestScore_Composite(t *testing.T) {
	r := NewRanker()
	all := numbered("w", 25)
	user := UserState{
		KnownWords:          knownSet(all[:24]...),
		DueWords:            []string{"w3"},
		PreferredDifficulty: 0.96,
		EngagementScore:     0.5,
	}
	item := content.Item{ID: "x", Words: words(all...), DopamineScore: 0.8}

	si := r.Score(user, item)
	// 24/25 = 0.96 known → appropriate.
	want := 1.0*0.40 + (0.8*0.5)*0.30 + NeutralVariety*0.15 + 1.0*0.15
	assert.InDelta(t, want, si.Score, 1e-9)
	assert.Equal(t, DifficultyAppropriate, si.Difficulty)
}

func TestScore_DueWordAddsExactlySRSWeight(t *testing.T) {
	r := NewRanker()
	user := UserState{
		KnownWords:      knownSet("el", "la"),
		DueWords:        []string{"perro"},
		EngagementScore: 0.7,
	}
	a := content.Item{ID: "a", Words: words("el", "perro", "la"), DopamineScore: 0.6}
	b := content.Item{ID: "b", Words: words("el", "gato", "la"), DopamineScore: 0.6}

	sa, sb := r.Score(user, a), r.Score(user, b)
	assert.InDelta(t, 0.15, sa.Score-sb.Score, 1e-9)
}

func TestRank_ColdStartUserGetsNothing(t *testing.T) {
	r := NewRanker()
	var pool []content.Item
	for i := 0; i < 5; i++ {
		pool = append(pool, content.Item{
			ID:            fmt.Sprintf("item-%d", i),
			Words:         words(numbered(fmt.Sprintf("i%dw", i), 10)...),
			DopamineScore: 0.5,
		})
	}
	user := UserState{KnownWords: knownSet(), PreferredDifficulty: 0.96, EngagementScore: 0.5}

	for _, it := range pool {
		assert.Equal(t, DifficultyTooHard, r.Score(user, it).Difficulty)
	}

	res, err := r.Rank(user, pool, Page{Offset: 0, Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, res.Items)
	assert.Equal(t, 0, res.TotalEligible)
}

func TestRank_ColdStartHighDopamineSurvives(t *testing.T) {
	r := NewRanker()
	pool := []content.Item{{ID: "viral", Words: words("uno", "dos"), DopamineScore: 1.0}}
	user := UserState{EngagementScore: 1.0}

	res, err := r.Rank(user, pool, Page{Limit: 5})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	// 0.2*0.4 + 1*0.3 + 0.5*0.15 = 0.455
	assert.InDelta(t, 0.455, res.Items[0].Score, 1e-9)
}

func buildPool() ([]content.Item, UserState) {
	base := numbered("k", 30)
	user := UserState{
		KnownWords:          knownSet(base...),
		DueWords:            []string{"due1"},
		PreferredDifficulty: 0.96,
		EngagementScore:     0.9,
	}
	var pool []content.Item
	for i := 0; i < 40; i++ {
		ws := append([]string{}, base[:25+i%5]...)
		if i%3 == 0 {
			ws = append(ws, "due1")
		}
		if i%4 == 0 {
			ws = append(ws, numbered(fmt.Sprintf("new%d_", i), 12)...)
		}
		pool = append(pool, content.Item{
			ID:            fmt.Sprintf("c%02d", i),
			Topic:         fmt.Sprintf("t%d", i%6),
			Words:         words(ws...),
			DopamineScore: float64(i%10) / 10,
		})
	}
	return pool, user
}

func TestRank_Invariants(t *testing.T) {
	r := NewRanker()
	pool, user := buildPool()

	res, err := r.Rank(user, pool, Page{Offset: 0, Limit: len(pool)})
	require.NoError(t, err)
	require.NotEmpty(t, res.Items)
	assert.Equal(t, len(res.Items), res.TotalEligible)

	for i, it := range res.Items {
		if it.Score <= DefaultMinScore {
			t.Errorf("item %s score %v at or below threshold", it.Content.ID, it.Score)
		}
		if i > 0 && res.Items[i-1].Score < it.Score {
			t.Errorf("items %d and %d out of order: %v < %v", i-1, i, res.Items[i-1].Score, it.Score)
		}
		if len(it.NewWords) > DefaultMaxNewWords {
			t.Errorf("item %s has %d new words", it.Content.ID, len(it.NewWords))
		}
		for _, w := range it.NewWords {
			if _, ok := user.KnownWords[w]; ok {
				t.Errorf("item %s lists known word %q as new", it.Content.ID, w)
			}
		}
	}
}

func TestRank_Idempotent(t *testing.T) {
	r := NewRanker()
	pool, user := buildPool()
	page := Page{Offset: 3, Limit: 7}

	a, err := r.Rank(user, pool, page)
	require.NoError(t, err)
	b, err := r.Rank(user, pool, page)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestRank_PagesPartitionTheRanking(t *testing.T) {
	r := NewRanker()
	pool, user := buildPool()

	full, err := r.Rank(user, pool, Page{Limit: 1000})
	require.NoError(t, err)

	var joined []ScoredItem
	for off := 0; off < full.TotalEligible; off += 4 {
		page, err := r.Rank(user, pool, Page{Offset: off, Limit: 4})
		require.NoError(t, err)
		assert.Equal(t, full.TotalEligible, page.TotalEligible)
		joined = append(joined, page.Items...)
	}
	assert.Equal(t, full.Items, joined)

	past, err := r.Rank(user, pool, Page{Offset: 1000, Limit: 4})
	require.NoError(t, err)
	assert.Empty(t, past.Items)
	assert.Equal(t, full.TotalEligible, past.TotalEligible)
}

func TestRank_EmptyPool(t *testing.T) {
	res, err := NewRanker().Rank(UserState{}, nil, Page{Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, res.Items)
	assert.Equal(t, 0, res.TotalEligible)
}

func TestRank_InvalidPage(t *testing.T) {
	r := NewRanker()
	for _, p := range []Page{{Offset: -1, Limit: 5}, {Offset: 0, Limit: 0}} {
		_, err := r.Rank(UserState{}, nil, p)
		if !errors.Is(err, ErrInvalidPage) {
			t.Errorf("Rank(page=%+v) error = %v, want ErrInvalidPage", p, err)
		}
	}
}

func TestRank_InvalidWeights(t *testing.T) {
	r := NewRanker()
	r.Weights.Interest = -0.1
	_, err := r.Rank(UserState{}, nil, Page{Limit: 1})
	assert.ErrorIs(t, err, ErrInvalidWeights)
}

func TestNewWords_CappedOrderedDeduplicated(t *testing.T) {
	r := NewRanker()
	ws := append([]string{"b", "a", "b", "known"}, numbered("z", 20)...)
	si := r.Score(UserState{KnownWords: knownSet("known")}, content.Item{Words: words(ws...)})

	require.Len(t, si.NewWords, 10)
	assert.Equal(t, []string{"b", "a", "z0", "z1"}, si.NewWords[:4])
}

func TestCustomVarietyFunc(t *testing.T) {
	r := NewRanker()
	r.Variety = func(content.Item, History) float64 { return 1.0 }
	r2 := NewRanker()
	r2.Variety = ConstantVariety

	item := content.Item{ID: "x"}
	diff := r.Score(UserState{}, item).Score - r2.Score(UserState{}, item).Score
	assert.InDelta(t, 0.5*0.15, diff, 1e-9)
}
