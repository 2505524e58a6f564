package knowledge

import (
	"sort"
	"time"

	"github.com/abhisek/palabra/internal/content"
	"github.com/abhisek/palabra/internal/srs"
)

const (
	// KnownThreshold is the confidence at which a word counts as known
	// for comprehension percentages.
	KnownThreshold = 0.6

	// MasteredThreshold is the confidence at which a word stops being
	// surfaced as due.
	MasteredThreshold = 0.9
)

// confidenceDelta is the confidence change per review quality.
var confidenceDelta = map[srs.Quality]float64{
	srs.QualityBlackout:          -0.20,
	srs.QualityIncorrect:         -0.15,
	srs.QualityIncorrectFamiliar: -0.10,
	srs.QualityCorrectDifficult:  0.05,
	srs.QualityCorrectHesitation: 0.10,
	srs.QualityPerfect:           0.15,
}

// WordKnowledge is the per (user, word, language) knowledge record.
// It is created on first exposure and never hard-deleted.
type WordKnowledge struct {
	UserID           string     `json:"user_id"`
	Word             string     `json:"word"`
	Language         string     `json:"language"`
	ConfidenceScore  float64    `json:"confidence_score"`
	NextReviewAt     *time.Time `json:"next_review_at,omitempty"`
	ReviewInterval   int        `json:"review_interval"`
	EaseFactor       float64    `json:"ease_factor"`
	CorrectReviews   int        `json:"correct_reviews"`
	IncorrectReviews int        `json:"incorrect_reviews"`
	FirstSeenAt      time.Time  `json:"first_seen_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// New creates the knowledge record for a first exposure. It has no review
// date yet, so it is neither known nor due.
func New(userID, word, language string, now time.Time) *WordKnowledge {
	return &WordKnowledge{
		UserID:      userID,
		Word:        content.Normalize(word),
		Language:    language,
		EaseFactor:  srs.DefaultEaseFactor,
		FirstSeenAt: now,
		UpdatedAt:   now,
	}
}

// IsKnown reports whether the confidence meets KnownThreshold.
func (wk *WordKnowledge) IsKnown() bool {
	return wk.ConfidenceScore >= KnownThreshold
}

// IsMastered reports whether the confidence meets MasteredThreshold.
func (wk *WordKnowledge) IsMastered() bool {
	return wk.ConfidenceScore >= MasteredThreshold
}

// IsDue reports whether the word is scheduled at or before now and not yet
// mastered. Words that were never reviewed are not due.
func (wk *WordKnowledge) IsDue(now time.Time) bool {
	if wk.NextReviewAt == nil || wk.IsMastered() {
		return false
	}
	return !now.Before(*wk.NextReviewAt)
}

// ApplyReview folds a scheduled review into the knowledge record: the
// confidence moves by the quality's delta and the scheduling fields mirror
// the scheduler result.
func (wk *WordKnowledge) ApplyReview(q srs.Quality, res srs.Result, now time.Time) {
	wk.ConfidenceScore = clamp01(wk.ConfidenceScore + confidenceDelta[q])
	next := res.NextReviewAt
	wk.NextReviewAt = &next
	wk.ReviewInterval = res.Interval
	wk.EaseFactor = res.EaseFactor
	if q.Passed() {
		wk.CorrectReviews++
	} else {
		wk.IncorrectReviews++
	}
	wk.UpdatedAt = now
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// KnownSet returns the normalized words that are known.
func KnownSet(words []*WordKnowledge) map[string]struct{} {
	set := make(map[string]struct{})
	for _, wk := range words {
		if wk.IsKnown() {
			set[content.Normalize(wk.Word)] = struct{}{}
		}
	}
	return set
}

// DueWords returns the words due at now, most overdue first.
func DueWords(words []*WordKnowledge, now time.Time) []string {
	var due []*WordKnowledge
	for _, wk := range words {
		if wk.IsDue(now) {
			due = append(due, wk)
		}
	}
	sort.Slice(due, func(i, j int) bool {
		ti, tj := *due[i].NextReviewAt, *due[j].NextReviewAt
		if !ti.Equal(tj) {
			return ti.Before(tj)
		}
		return due[i].Word < due[j].Word
	})

	out := make([]string, len(due))
	for i, wk := range due {
		out[i] = content.Normalize(wk.Word)
	}
	return out
}

// Summary aggregates a user's knowledge records for display.
type Summary struct {
	Total    int
	Known    int
	Mastered int
	Due      int
}

// Summarize counts known, mastered and due words.
func Summarize(words []*WordKnowledge, now time.Time) Summary {
	s := Summary{Total: len(words)}
	for _, wk := range words {
		if wk.IsKnown() {
			s.Known++
		}
		if wk.IsMastered() {
			s.Mastered++
		}
		if wk.IsDue(now) {
			s.Due++
		}
	}
	return s
}
