package theme

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/abhisek/palabra/internal/feed"
	"github.com/abhisek/palabra/internal/srs"
)

func TestDifficulty(t *testing.T) {
	assert.Equal(t, Correct.GetForeground(), Difficulty(feed.DifficultyAppropriate).GetForeground())
	assert.Equal(t, Incorrect.GetForeground(), Difficulty(feed.DifficultyTooHard).GetForeground())
	assert.Equal(t, Subtitle.GetForeground(), Difficulty(feed.DifficultyTooEasy).GetForeground())
}

func TestQuality(t *testing.T) {
	assert.Equal(t, Correct.GetForeground(), Quality(srs.QualityCorrectDifficult).GetForeground())
	assert.Equal(t, Incorrect.GetForeground(), Quality(srs.QualityIncorrectFamiliar).GetForeground())
}

func TestLevel(t *testing.T) {
	assert.Contains(t, Level("b2"), "B2")
	assert.Contains(t, Level("a1"), "A1")
	assert.Contains(t, Level("Z9"), "Z9")
}
