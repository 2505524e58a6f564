package layout

import (
	"testing"

	"charm.land/lipgloss/v2"
	"github.com/stretchr/testify/assert"
)

func TestIsTooSmall(t *testing.T) {
	assert.True(t, IsTooSmall(MinWidth-1, MinHeight))
	assert.True(t, IsTooSmall(MinWidth, MinHeight-1))
	assert.False(t, IsTooSmall(MinWidth, MinHeight))
}

func TestRenderHeader(t *testing.T) {
	h := RenderHeader("Review", 120, 4, 60)
	assert.Contains(t, h, "palabra")
	assert.Contains(t, h, "Review")
	assert.Contains(t, h, "120 XP")
	assert.Contains(t, h, "4")
}

func TestRenderFrame_FillsHeight(t *testing.T) {
	header := RenderHeader("Review", 0, 0, 60)
	footer := RenderFooter([]KeyHint{{Key: "Esc", Description: "Quit"}}, 60)
	frame := RenderFrame(header, "body", footer, 60, 20)
	assert.Equal(t, 20, lipgloss.Height(frame))
	assert.Contains(t, frame, "Quit")
}
