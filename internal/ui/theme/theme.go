// Package theme holds the palette and the lipgloss styles shared by the
// review session and the command output.
package theme

import (
	"image/color"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/palabra/internal/cefr"
	"github.com/abhisek/palabra/internal/feed"
	"github.com/abhisek/palabra/internal/srs"
)

// Palette is the set of colors every style derives from.
type Palette struct {
	Primary   color.Color
	Secondary color.Color
	Accent    color.Color
	Good      color.Color
	Bad       color.Color
	Text      color.Color
	Muted     color.Color
	Surface   color.Color
	Edge      color.Color
}

// Colors is the active palette.
var Colors = Palette{
	Primary:   lipgloss.Color("#E11D48"),
	Secondary: lipgloss.Color("#F59E0B"),
	Accent:    lipgloss.Color("#0EA5E9"),
	Good:      lipgloss.Color("#22C55E"),
	Bad:       lipgloss.Color("#F43F5E"),
	Text:      lipgloss.Color("#F8FAFC"),
	Muted:     lipgloss.Color("#94A3B8"),
	Surface:   lipgloss.Color("#1E293B"),
	Edge:      lipgloss.Color("#334155"),
}

func fg(c color.Color) lipgloss.Style { return lipgloss.NewStyle().Foreground(c) }

var (
	Title    = fg(Colors.Primary).Bold(true)
	Subtitle = fg(Colors.Muted)
	Body     = fg(Colors.Text)
	Hint     = fg(Colors.Muted).Italic(true)
	Key      = fg(Colors.Text).Bold(true)

	// Word is a vocabulary word in prompts and translations.
	Word = fg(Colors.Secondary).Bold(true)

	Correct   = fg(Colors.Good).Bold(true)
	Incorrect = fg(Colors.Bad).Bold(true)
	Badge     = fg(Colors.Accent).Bold(true)

	Bar  = lipgloss.NewStyle().Background(Colors.Surface).Padding(0, 2)
	Card = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Colors.Edge).
		Padding(1, 2)

	ProgressFilled = lipgloss.NewStyle().Background(Colors.Secondary)
	ProgressEmpty  = lipgloss.NewStyle().Background(Colors.Edge)
)

// Difficulty colors a feed item's difficulty label: green when it sits in
// the learner's band.
func Difficulty(d feed.Difficulty) lipgloss.Style {
	switch d {
	case feed.DifficultyAppropriate:
		return Correct
	case feed.DifficultyTooHard:
		return Incorrect
	default:
		return Subtitle
	}
}

// Quality colors a review grade by whether it passed.
func Quality(q srs.Quality) lipgloss.Style {
	if q.Passed() {
		return Correct
	}
	return Incorrect
}

// Level renders a CEFR level, brighter for higher levels.
func Level(raw string) string {
	l, ok := cefr.Parse(raw)
	if !ok {
		return Subtitle.Render(raw)
	}
	if l >= cefr.B2 {
		return Badge.Render(l.String())
	}
	return Body.Render(l.String())
}
