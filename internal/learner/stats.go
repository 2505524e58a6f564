package learner

import (
	"context"
	"time"

	"github.com/abhisek/palabra/internal/gamify"
	"github.com/abhisek/palabra/internal/knowledge"
	"github.com/abhisek/palabra/internal/srs"
	"github.com/abhisek/palabra/internal/store"
)

// Overview is the learner dashboard.
type Overview struct {
	Profile       *store.Profile     `json:"profile"`
	Stats         gamify.Stats       `json:"stats"`
	NextMilestone int                `json:"next_milestone"`
	Knowledge     knowledge.Summary  `json:"knowledge"`
	Cards         map[srs.Status]int `json:"cards"`
	DueCards      int                `json:"due_cards"`
}

// LoadOverview gathers stats for the learner's target language.
func LoadOverview(ctx context.Context, st *store.Store, userID string, now time.Time) (*Overview, error) {
	p, err := LoadProfile(ctx, st.Profiles(), userID)
	if err != nil {
		return nil, err
	}
	stats, err := st.Stats().Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	words, err := st.Knowledge().List(ctx, userID, p.TargetLanguage)
	if err != nil {
		return nil, err
	}
	cards, err := st.Cards().List(ctx, userID, p.TargetLanguage)
	if err != nil {
		return nil, err
	}

	ov := &Overview{
		Profile:       p,
		Stats:         stats,
		NextMilestone: gamify.NextMilestone(stats.Streak),
		Knowledge:     knowledge.Summarize(words, now),
		Cards:         map[srs.Status]int{srs.StatusNew: 0, srs.StatusLearning: 0, srs.StatusReviewing: 0},
	}
	for _, c := range cards {
		ov.Cards[c.Status()]++
		if c.IsDue(now) {
			ov.DueCards++
		}
	}
	return ov, nil
}
