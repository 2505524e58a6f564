package feed

import (
	"errors"
	"fmt"
	"sort"

	"github.com/abhisek/palabra/internal/content"
)

// Sentinel errors for the ranker.
var (
	ErrInvalidPage    = errors.New("feed: invalid pagination")
	ErrInvalidWeights = errors.New("feed: invalid weights")
)

// Defaults mirror observed product behavior.
const (
	DefaultPreferredDifficulty = 0.96
	DefaultTolerance           = 0.03
	DefaultMinScore            = 0.3
	DefaultMaxNewWords         = 10
)

// Difficulty classifies an item's known-word percentage against the
// user's preferred difficulty.
type Difficulty string

const (
	DifficultyAppropriate Difficulty = "appropriate"
	DifficultyTooEasy     Difficulty = "too_easy"
	DifficultyTooHard     Difficulty = "too_hard"
)

// Score returns the difficulty component of the composite score. Too-hard
// content is penalized more than too-easy content.
func (d Difficulty) Score() float64 {
	switch d {
	case DifficultyAppropriate:
		return 1.0
	case DifficultyTooEasy:
		return 0.3
	default:
		return 0.2
	}
}

// Weights blends the per-item signals into a composite score.
type Weights struct {
	Difficulty float64 `json:"difficulty" koanf:"difficulty"`
	Interest   float64 `json:"interest" koanf:"interest"`
	Variety    float64 `json:"variety" koanf:"variety"`
	SRS        float64 `json:"srs" koanf:"srs"`
}

// DefaultWeights returns the 40/30/15/15 product weighting.
func DefaultWeights() Weights {
	return Weights{Difficulty: 0.40, Interest: 0.30, Variety: 0.15, SRS: 0.15}
}

// Validate rejects negative weights.
func (w Weights) Validate() error {
	if w.Difficulty < 0 || w.Interest < 0 || w.Variety < 0 || w.SRS < 0 {
		return fmt.Errorf("%w: %+v", ErrInvalidWeights, w)
	}
	return nil
}

// UserState is the learner state the ranker reads. It is supplied by the
// caller; the ranker never loads anything itself.
type UserState struct {
	KnownWords          map[string]struct{}
	DueWords            []string
	PreferredDifficulty float64
	EngagementScore     float64
	Recent              History
}

// Page selects a window of the ranked feed.
type Page struct {
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// Validate rejects negative offsets and non-positive limits.
func (p Page) Validate() error {
	if p.Offset < 0 {
		return fmt.Errorf("%w: offset %d", ErrInvalidPage, p.Offset)
	}
	if p.Limit <= 0 {
		return fmt.Errorf("%w: limit %d", ErrInvalidPage, p.Limit)
	}
	return nil
}

// ScoredItem is one ranked feed entry.
type ScoredItem struct {
	Content         content.Item `json:"content"`
	Score           float64      `json:"score"`
	KnownPercentage float64      `json:"known_percentage"`
	Difficulty      Difficulty   `json:"difficulty"`
	NewWords        []string     `json:"new_words"`
}

// Result is a feed page plus the number of items that passed the
// minimum-score filter.
type Result struct {
	Items         []ScoredItem `json:"items"`
	TotalEligible int          `json:"total_eligible"`
}

// Ranker scores and orders candidate content. The zero value is not usable;
// construct with NewRanker.
type Ranker struct {
	Weights     Weights
	Tolerance   float64
	MinScore    float64
	MaxNewWords int
	Variety     VarietyFunc
}

// NewRanker returns a Ranker with the default product parameters.
func NewRanker() *Ranker {
	return &Ranker{
		Weights:     DefaultWeights(),
		Tolerance:   DefaultTolerance,
		MinScore:    DefaultMinScore,
		MaxNewWords: DefaultMaxNewWords,
		Variety:     RecencyVariety,
	}
}

// classifyEpsilon absorbs float error so the band edges stay inclusive on
// both sides.
const classifyEpsilon = 1e-9

// Classify compares a known-word percentage against the preferred
// difficulty using the ranker's tolerance band.
func (r *Ranker) Classify(knownPct, preferred float64) Difficulty {
	diff := knownPct - preferred
	switch {
	case diff > r.Tolerance+classifyEpsilon:
		return DifficultyTooEasy
	case diff < -r.Tolerance-classifyEpsilon:
		return DifficultyTooHard
	default:
		return DifficultyAppropriate
	}
}

// Score computes the composite score for a single item without applying
// the minimum-score filter.
func (r *Ranker) Score(user UserState, item content.Item) ScoredItem {
	known := 0
	for _, w := range item.Words {
		if _, ok := user.KnownWords[content.Normalize(w.Word)]; ok {
			known++
		}
	}
	var knownPct float64
	if len(item.Words) > 0 {
		knownPct = float64(known) / float64(len(item.Words))
	}

	preferred := user.PreferredDifficulty
	if preferred <= 0 {
		preferred = DefaultPreferredDifficulty
	}
	difficulty := r.Classify(knownPct, preferred)

	srsScore := 0.0
	if containsDue(item, user.DueWords) {
		srsScore = 1.0
	}

	interest := item.DopamineScore * user.EngagementScore

	variety := NeutralVariety
	if r.Variety != nil {
		variety = r.Variety(item, user.Recent)
	}

	score := difficulty.Score()*r.Weights.Difficulty +
		interest*r.Weights.Interest +
		variety*r.Weights.Variety +
		srsScore*r.Weights.SRS

	return ScoredItem{
		Content:         item,
		Score:           score,
		KnownPercentage: knownPct,
		Difficulty:      difficulty,
		NewWords:        r.newWords(item, user.KnownWords),
	}
}

// Rank scores the whole pool, drops items at or below MinScore, sorts by
// descending score and returns the requested page. Identical inputs always
// produce identical output.
func (r *Ranker) Rank(user UserState, pool []content.Item, page Page) (Result, error) {
	if err := page.Validate(); err != nil {
		return Result{}, err
	}
	if err := r.Weights.Validate(); err != nil {
		return Result{}, err
	}

	eligible := r.RankAll(user, pool)
	return Result{
		Items:         Slice(eligible, page),
		TotalEligible: len(eligible),
	}, nil
}

// RankAll returns every eligible item in feed order. Callers that cache
// the full ranking slice pages from it with Slice.
func (r *Ranker) RankAll(user UserState, pool []content.Item) []ScoredItem {
	eligible := make([]ScoredItem, 0, len(pool))
	for _, item := range pool {
		si := r.Score(user, item)
		if si.Score <= r.MinScore {
			continue
		}
		eligible = append(eligible, si)
	}

	sort.SliceStable(eligible, func(i, j int) bool {
		return eligible[i].Score > eligible[j].Score
	})
	return eligible
}

// Slice returns the [offset, offset+limit) window of a ranked list.
func Slice(items []ScoredItem, page Page) []ScoredItem {
	if page.Offset >= len(items) {
		return []ScoredItem{}
	}
	end := page.Offset + page.Limit
	if end > len(items) {
		end = len(items)
	}
	return items[page.Offset:end]
}

func containsDue(item content.Item, due []string) bool {
	if len(due) == 0 {
		return false
	}
	dueSet := make(map[string]struct{}, len(due))
	for _, w := range due {
		dueSet[content.Normalize(w)] = struct{}{}
	}
	for _, w := range item.Words {
		if _, ok := dueSet[content.Normalize(w.Word)]; ok {
			return true
		}
	}
	return false
}

// newWords lists up to MaxNewWords words the user does not know yet, in the
// item's word order.
func (r *Ranker) newWords(item content.Item, known map[string]struct{}) []string {
	out := []string{}
	seen := make(map[string]struct{})
	for _, w := range item.Words {
		if len(out) >= r.MaxNewWords {
			break
		}
		norm := content.Normalize(w.Word)
		if norm == "" {
			continue
		}
		if _, ok := known[norm]; ok {
			continue
		}
		if _, ok := seen[norm]; ok {
			continue
		}
		seen[norm] = struct{}{}
		out = append(out, norm)
	}
	return out
}
