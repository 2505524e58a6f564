package srs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		reps int
		want Status
	}{
		{0, StatusNew},
		{1, StatusLearning},
		{2, StatusLearning},
		{3, StatusReviewing},
		{12, StatusReviewing},
	}
	for _, tt := range tests {
		if got := StatusFor(tt.reps); got != tt.want {
			t.Errorf("StatusFor(%d) = %s, want %s", tt.reps, got, tt.want)
		}
	}
}

func TestNewCard_DueImmediately(t *testing.T) {
	c := NewCard("u1", "perro", "es", testNow)
	assert.True(t, c.IsDue(testNow))
	assert.Equal(t, StatusNew, c.Status())
	assert.Equal(t, DefaultEaseFactor, c.EaseFactor)
}

func TestCard_ReviewProgression(t *testing.T) {
	c := NewCard("u1", "perro", "es", testNow)
	now := testNow

	wantIntervals := []int{1, 6, 15}
	for i, want := range wantIntervals {
		res, err := c.Review(Outcome{Quality: QualityCorrectHesitation, ResponseTimeMs: 4000}, true, now)
		require.NoError(t, err)
		assert.Equal(t, want, res.Interval, "review %d", i+1)
		now = c.NextReviewAt
	}
	assert.Equal(t, StatusReviewing, c.Status())
	assert.Equal(t, 3, c.CorrectCount)
	require.NotNil(t, c.LastReviewedAt)

	_, err := c.Review(Outcome{Quality: QualityBlackout, ResponseTimeMs: 20000}, false, now)
	require.NoError(t, err)
	assert.Equal(t, StatusNew, c.Status())
	assert.Equal(t, 1, c.Interval)
	assert.Equal(t, 1, c.IncorrectCount)
}

func TestCard_ReviewRejectsInvalidOutcome(t *testing.T) {
	c := NewCard("u1", "gato", "es", testNow)
	_, err := c.Review(Outcome{Quality: 9, ResponseTimeMs: 10}, true, testNow)
	require.ErrorIs(t, err, ErrInvalidQuality)
	assert.Nil(t, c.LastReviewedAt, "card must be untouched on error")
}

func TestCard_OverdueAndDaysUntil(t *testing.T) {
	c := &Card{NextReviewAt: testNow.Add(48 * time.Hour)}
	assert.Equal(t, 0.0, c.OverdueDays(testNow))
	assert.Equal(t, 3, c.DaysUntilReview(testNow))

	later := testNow.Add(5 * 24 * time.Hour)
	assert.InDelta(t, 3.0, c.OverdueDays(later), 0.01)
	assert.Equal(t, 0, c.DaysUntilReview(later))
}

func TestDueCards_MostOverdueFirst(t *testing.T) {
	cards := []*Card{
		{Word: "b", NextReviewAt: testNow.Add(-24 * time.Hour)},
		{Word: "a", NextReviewAt: testNow.Add(-24 * time.Hour)},
		{Word: "c", NextReviewAt: testNow.Add(-72 * time.Hour)},
		{Word: "d", NextReviewAt: testNow.Add(time.Hour)},
	}
	due := DueCards(cards, testNow)
	require.Len(t, due, 3)
	assert.Equal(t, "c", due[0].Word)
	assert.Equal(t, "a", due[1].Word)
	assert.Equal(t, "b", due[2].Word)
}
