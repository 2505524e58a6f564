package review

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/palabra/internal/srs"
	"github.com/abhisek/palabra/internal/ui/components"
	"github.com/abhisek/palabra/internal/ui/layout"
	"github.com/abhisek/palabra/internal/ui/theme"
)

var qualityLabels = map[srs.Quality]string{
	srs.QualityBlackout:          "blackout",
	srs.QualityIncorrect:         "incorrect",
	srs.QualityIncorrectFamiliar: "almost",
	srs.QualityCorrectDifficult:  "correct, hard",
	srs.QualityCorrectHesitation: "correct",
	srs.QualityPerfect:           "perfect",
}

func (m *Model) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}
	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	header := layout.RenderHeader("Review", m.xp, m.summary.Streak, m.width)
	footer := layout.RenderFooter(m.keyHints(), m.width)
	v.SetContent(layout.RenderFrame(header, m.body(), footer, m.width, m.height))
	return v
}

func (m *Model) keyHints() []layout.KeyHint {
	switch m.phase {
	case phaseAsk:
		return []layout.KeyHint{{Key: "Enter", Description: "Reveal"}, {Key: "Esc", Description: "Quit"}}
	case phaseReveal:
		return []layout.KeyHint{{Key: "Y", Description: "I knew it"}, {Key: "N", Description: "I didn't"}}
	case phaseFeedback:
		return []layout.KeyHint{{Key: "any key", Description: "Next"}}
	case phaseDone:
		return []layout.KeyHint{{Key: "any key", Description: "Exit"}}
	}
	return nil
}

func (m *Model) body() string {
	if m.phase == phaseDone {
		return m.renderSummary()
	}

	var b strings.Builder
	bar := components.ProgressBar{Label: "Cards", Done: m.idx, Total: len(m.cards), Width: m.width - 4}
	b.WriteString(bar.View())
	b.WriteString("\n\n")

	card := m.cards[m.idx]
	b.WriteString(theme.Card.Render(theme.Word.Render(card.Word) + "\n" +
		theme.Subtitle.Render(fmt.Sprintf("%s · %s", card.Language, strings.ToLower(string(card.Status()))))))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())

	switch m.phase {
	case phaseReveal, phaseSaving, phaseFeedback:
		b.WriteString("\n\n")
		b.WriteString(m.renderMeaning())
	}
	if m.phase == phaseFeedback {
		b.WriteString("\n\n")
		b.WriteString(m.renderFeedback())
	}
	return b.String()
}

func (m *Model) renderMeaning() string {
	switch {
	case m.meaning != "":
		return theme.Body.Render("Meaning: ") + theme.Word.Render(m.meaning)
	case m.lookErr != nil:
		return theme.Hint.Render("No meaning available, grade from memory.")
	case m.opts.Lookup == nil:
		return theme.Hint.Render("Did you know it?")
	default:
		return theme.Hint.Render("Looking up...")
	}
}

func (m *Model) renderFeedback() string {
	if m.err != nil {
		return theme.Incorrect.Render("Could not save review: " + m.err.Error())
	}
	out := m.last
	lines := []string{
		theme.Quality(out.Quality).Render(qualityLabels[out.Quality]) +
			theme.Subtitle.Render(fmt.Sprintf("  (%d ms)", m.elapsed)),
		theme.Body.Render(fmt.Sprintf("Next review in %s · ease %.2f", days(out.Result.Interval), out.Result.EaseFactor)),
		theme.Badge.Render(fmt.Sprintf("+%d XP", out.Award.XP)),
	}
	if out.Award.Milestone {
		lines = append(lines, theme.Title.Render(out.Award.Reason))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderSummary() string {
	s := m.summary
	if len(m.cards) == 0 {
		return theme.Title.Render("Nothing due") + "\n\n" +
			theme.Hint.Render("Save words from your feed to build a deck.")
	}
	return strings.Join([]string{
		theme.Title.Render("Session complete"),
		"",
		theme.Body.Render(fmt.Sprintf("Reviewed  %d of %d", s.Reviewed, len(m.cards))),
		theme.Body.Render(fmt.Sprintf("Correct   %d", s.Correct)),
		theme.Badge.Render(fmt.Sprintf("XP        +%d", s.XPEarned)),
		theme.Body.Render(fmt.Sprintf("Streak    %d days", s.Streak)),
	}, "\n")
}

func days(n int) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}
