package feed

import (
	"math"

	"github.com/abhisek/palabra/internal/content"
)

// NeutralVariety is the variety score used when there is no consumption
// history to compare against.
const NeutralVariety = 0.5

// topicPenalty is the variety lost to the most recent same-topic item.
// Older matches count half as much per step back in history.
const topicPenalty = 0.5

// History is the user's recently consumed content, most recent first.
type History struct {
	ItemIDs []string
	Topics  []string
}

// Empty reports whether there is no history at all.
func (h History) Empty() bool {
	return len(h.ItemIDs) == 0 && len(h.Topics) == 0
}

// VarietyFunc scores how fresh an item is relative to recent history, in [0,1].
type VarietyFunc func(item content.Item, recent History) float64

// ConstantVariety ignores history and always returns NeutralVariety.
func ConstantVariety(content.Item, History) float64 {
	return NeutralVariety
}

// RecencyVariety penalizes items the user has just consumed and topics
// they have seen recently. Without history it returns NeutralVariety.
func RecencyVariety(item content.Item, recent History) float64 {
	if recent.Empty() {
		return NeutralVariety
	}
	for _, id := range recent.ItemIDs {
		if id == item.ID {
			return 0
		}
	}
	if item.Topic == "" {
		return 1
	}

	penalty := 0.0
	for i, topic := range recent.Topics {
		if topic == item.Topic {
			penalty += topicPenalty * math.Pow(0.5, float64(i))
		}
	}
	return math.Max(0, 1-penalty)
}
