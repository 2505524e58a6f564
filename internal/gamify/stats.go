package gamify

import (
	"fmt"
	"time"

	"github.com/abhisek/palabra/internal/srs"
)

// XP awarded per graded review.
const (
	BaseCorrectXP   = 10
	QualityBonusXP  = 2
	IncorrectXP     = 2
	milestoneStride = 30
)

// Stats is a learner's running XP total and daily streak.
type Stats struct {
	UserID        string    `json:"user_id"`
	XP            int       `json:"xp"`
	Streak        int       `json:"streak"`
	LongestStreak int       `json:"longest_streak"`
	LastActiveDay time.Time `json:"last_active_day"`
}

// Award describes what a single review earned.
type Award struct {
	XP        int
	Streak    int
	Milestone bool
	Reason    string
}

// XPForReview returns the XP a review earns. Correct answers earn more the
// higher the recall quality; wrong answers still earn a little for showing up.
func XPForReview(correct bool, q srs.Quality) int {
	if !correct {
		return IncorrectXP
	}
	bonus := int(q - srs.PassThreshold)
	if bonus < 0 {
		bonus = 0
	}
	return BaseCorrectXP + QualityBonusXP*bonus
}

// NextMilestone returns the next streak milestone above current.
func NextMilestone(current int) int {
	for _, m := range []int{3, 7, 14, 30} {
		if m > current {
			return m
		}
	}
	// Beyond 30, every 30 days.
	return ((current / milestoneStride) + 1) * milestoneStride
}

// IsMilestone reports whether a streak length is exactly a milestone.
func IsMilestone(streak int) bool {
	return streak > 0 && NextMilestone(streak-1) == streak
}

// Day truncates t to its calendar day in t's location.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Record applies one review to the stats. The streak advances on the first
// review of a new calendar day and restarts at 1 after a missed day.
func (s *Stats) Record(correct bool, q srs.Quality, now time.Time) Award {
	award := Award{XP: XPForReview(correct, q)}
	s.XP += award.XP

	today := Day(now)
	switch {
	case s.LastActiveDay.IsZero():
		s.Streak = 1
	case today.Equal(Day(s.LastActiveDay)):
		// Same day, streak already counted.
	case today.Equal(Day(s.LastActiveDay).AddDate(0, 0, 1)):
		s.Streak++
		award.Milestone = IsMilestone(s.Streak)
	case today.Before(Day(s.LastActiveDay)):
		// Clock skew; keep the streak as is.
	default:
		s.Streak = 1
	}
	if !today.Before(Day(s.LastActiveDay)) {
		s.LastActiveDay = today
	}
	if s.Streak > s.LongestStreak {
		s.LongestStreak = s.Streak
	}

	award.Streak = s.Streak
	if award.Milestone {
		award.Reason = fmt.Sprintf("%d day streak!", s.Streak)
	}
	return award
}
