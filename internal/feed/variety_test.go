package feed

import (
	"testing"

	"github.com/abhisek/palabra/internal/content"
)

func TestRecencyVariety(t *testing.T) {
	item := content.Item{ID: "c1", Topic: "music"}
	tests := []struct {
		name   string
		recent History
		want   float64
	}{
		{"no history", History{}, NeutralVariety},
		{"already consumed", History{ItemIDs: []string{"c9", "c1"}, Topics: []string{"food", "music"}}, 0},
		{"fresh topic", History{ItemIDs: []string{"c2"}, Topics: []string{"food"}}, 1},
		{"most recent same topic", History{ItemIDs: []string{"c2"}, Topics: []string{"music"}}, 0.5},
		{"older same topic", History{ItemIDs: []string{"c2", "c3"}, Topics: []string{"food", "music"}}, 0.75},
		{"repeated topic", History{ItemIDs: []string{"c2", "c3"}, Topics: []string{"music", "music"}}, 0.25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RecencyVariety(item, tt.recent)
			if got < tt.want-1e-9 || got > tt.want+1e-9 {
				t.Errorf("RecencyVariety() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRecencyVariety_Bounded(t *testing.T) {
	topics := make([]string, 50)
	for i := range topics {
		topics[i] = "news"
	}
	got := RecencyVariety(content.Item{ID: "x", Topic: "news"}, History{Topics: topics})
	if got < 0 || got > 1 {
		t.Fatalf("RecencyVariety() = %v, want within [0,1]", got)
	}
}
