package srs

import (
	"sort"
	"time"
)

// Status is the learning track a card is on, derived from repetitions.
type Status string

const (
	StatusNew       Status = "NEW"
	StatusLearning  Status = "LEARNING"
	StatusReviewing Status = "REVIEWING"
)

// StatusFor derives the status from a repetition count.
func StatusFor(repetitions int) Status {
	switch {
	case repetitions <= 0:
		return StatusNew
	case repetitions <= 2:
		return StatusLearning
	default:
		return StatusReviewing
	}
}

// Card is the per (user, word, language) scheduling record.
type Card struct {
	UserID         string     `json:"user_id"`
	Word           string     `json:"word"`
	Language       string     `json:"language"`
	EaseFactor     float64    `json:"ease_factor"`
	Interval       int        `json:"interval"`
	Repetitions    int        `json:"repetitions"`
	NextReviewAt   time.Time  `json:"next_review_at"`
	CorrectCount   int        `json:"correct_count"`
	IncorrectCount int        `json:"incorrect_count"`
	LastReviewedAt *time.Time `json:"last_reviewed_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`

	// Version is bumped on every persisted update and guards against
	// concurrent reviews computing from stale state.
	Version int `json:"version"`
}

// NewCard creates a card for a newly saved word. It is due immediately.
func NewCard(userID, word, language string, now time.Time) *Card {
	return &Card{
		UserID:       userID,
		Word:         word,
		Language:     language,
		EaseFactor:   DefaultEaseFactor,
		NextReviewAt: now,
		CreatedAt:    now,
	}
}

// State returns the scheduler input for this card.
func (c *Card) State() State {
	return State{
		EaseFactor:  c.EaseFactor,
		Interval:    c.Interval,
		Repetitions: c.Repetitions,
	}
}

// Status returns the card's learning track.
func (c *Card) Status() Status {
	return StatusFor(c.Repetitions)
}

// IsDue returns true if the card is at or past its review date.
func (c *Card) IsDue(now time.Time) bool {
	return !now.Before(c.NextReviewAt)
}

// OverdueDays returns how many days past due the card is. Returns 0 if not yet due.
func (c *Card) OverdueDays(now time.Time) float64 {
	if now.Before(c.NextReviewAt) {
		return 0
	}
	return now.Sub(c.NextReviewAt).Hours() / 24.0
}

// DaysUntilReview returns whole days until the card is due, 0 if already due.
func (c *Card) DaysUntilReview(now time.Time) int {
	if c.IsDue(now) {
		return 0
	}
	return int(c.NextReviewAt.Sub(now).Hours()/24.0) + 1
}

// Apply records a scheduled review on the card.
func (c *Card) Apply(res Result, correct bool, now time.Time) {
	c.EaseFactor = res.EaseFactor
	c.Interval = res.Interval
	c.Repetitions = res.Repetitions
	c.NextReviewAt = res.NextReviewAt
	if correct {
		c.CorrectCount++
	} else {
		c.IncorrectCount++
	}
	reviewed := now
	c.LastReviewedAt = &reviewed
}

// Review grades and schedules the card in one step.
func (c *Card) Review(outcome Outcome, correct bool, now time.Time) (Result, error) {
	res, err := Schedule(c.State(), outcome, now)
	if err != nil {
		return Result{}, err
	}
	c.Apply(res, correct, now)
	return res, nil
}

// DueCards returns the cards due at now, most overdue first.
// Ties are broken by word so the order is stable across calls.
func DueCards(cards []*Card, now time.Time) []*Card {
	var due []*Card
	for _, c := range cards {
		if c.IsDue(now) {
			due = append(due, c)
		}
	}
	sort.Slice(due, func(i, j int) bool {
		oi, oj := due[i].OverdueDays(now), due[j].OverdueDays(now)
		if oi != oj {
			return oi > oj
		}
		return due[i].Word < due[j].Word
	})
	return due
}
