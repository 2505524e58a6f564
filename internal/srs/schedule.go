package srs

import (
	"fmt"
	"math"
	"time"
)

// MinEaseFactor is the SM-2 ease floor.
const MinEaseFactor = 1.3

// DefaultEaseFactor is the ease assigned to a new card.
const DefaultEaseFactor = 2.5

// Fixed intervals for the first two successful repetitions, in days.
const (
	FirstInterval  = 1
	SecondInterval = 6
)

// MaxInterval caps a scheduled interval at roughly a hundred years.
const MaxInterval = 36500

// State is the scheduling state of a single card.
type State struct {
	EaseFactor  float64 `json:"ease_factor"`
	Interval    int     `json:"interval"` // days
	Repetitions int     `json:"repetitions"`
}

// Outcome is a graded review.
type Outcome struct {
	Quality        Quality `json:"quality"`
	ResponseTimeMs int     `json:"response_time_ms"`
}

// Result is the next scheduling state and when the card is due again.
type Result struct {
	State
	NextReviewAt time.Time `json:"next_review_at"`
}

// Validate reports whether s is a legal input state.
func (s State) Validate() error {
	if math.IsNaN(s.EaseFactor) || math.IsInf(s.EaseFactor, 0) || s.EaseFactor < MinEaseFactor {
		return fmt.Errorf("%w: ease factor %v below %v", ErrInvalidState, s.EaseFactor, MinEaseFactor)
	}
	if s.Interval < 0 {
		return fmt.Errorf("%w: negative interval %d", ErrInvalidState, s.Interval)
	}
	if s.Repetitions < 0 {
		return fmt.Errorf("%w: negative repetitions %d", ErrInvalidState, s.Repetitions)
	}
	return nil
}

// Validate reports whether o is a legal graded outcome.
func (o Outcome) Validate() error {
	if !o.Quality.IsValid() {
		return fmt.Errorf("%w: got %d", ErrInvalidQuality, o.Quality)
	}
	if o.ResponseTimeMs <= 0 {
		return fmt.Errorf("%w: got %dms", ErrInvalidResponseTime, o.ResponseTimeMs)
	}
	return nil
}

// Schedule applies one SM-2 step. It is a pure function of its inputs.
//
// A failed recall (quality < 3) resets repetitions to 0 and the interval to
// one day, leaving the ease factor as it was. A successful recall advances
// repetitions, picks the interval (1, 6, then previous interval times ease,
// capped at MaxInterval) and then adjusts the ease factor, never letting it
// drop below 1.3.
func Schedule(state State, outcome Outcome, now time.Time) (Result, error) {
	if err := state.Validate(); err != nil {
		return Result{}, err
	}
	if err := outcome.Validate(); err != nil {
		return Result{}, err
	}

	next := state
	if !outcome.Quality.Passed() {
		next.Repetitions = 0
		next.Interval = FirstInterval
	} else {
		next.Repetitions++
		switch next.Repetitions {
		case 1:
			next.Interval = FirstInterval
		case 2:
			next.Interval = SecondInterval
		default:
			next.Interval = int(math.Min(math.Round(float64(state.Interval)*state.EaseFactor), MaxInterval))
		}
		if next.Interval < FirstInterval {
			next.Interval = FirstInterval
		}
		next.EaseFactor = nextEaseFactor(state.EaseFactor, outcome.Quality)
	}

	return Result{
		State:        next,
		NextReviewAt: now.AddDate(0, 0, next.Interval),
	}, nil
}

func nextEaseFactor(ef float64, q Quality) float64 {
	d := float64(QualityPerfect - q)
	ef += 0.1 - d*(0.08+d*0.02)
	if ef < MinEaseFactor {
		return MinEaseFactor
	}
	return ef
}
