package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/abhisek/palabra/internal/feed"
	"github.com/abhisek/palabra/internal/ui/theme"
)

var rule = strings.Repeat("─", 72)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// renderFeedItem renders one ranked entry as a two or three line block.
func renderFeedItem(rank int, it feed.ScoredItem) string {
	head := fmt.Sprintf("%2d. ", rank) + theme.Title.Render(it.Content.Title)
	meta := fmt.Sprintf("    %s · ", it.Content.ID) + theme.Level(it.Content.Level) +
		fmt.Sprintf(" · %s · ", it.Content.Topic) +
		theme.Difficulty(it.Difficulty).Render(string(it.Difficulty)) +
		theme.Subtitle.Render(fmt.Sprintf(" · %.0f%% known · score %.3f", it.KnownPercentage*100, it.Score))
	lines := []string{head, meta}
	if len(it.NewWords) > 0 {
		lines = append(lines, "    "+theme.Hint.Render("new: ")+theme.Word.Render(strings.Join(it.NewWords, ", ")))
	}
	return strings.Join(lines, "\n")
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}
