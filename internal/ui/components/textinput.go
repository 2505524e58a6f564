package components

import (
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/palabra/internal/ui/theme"
)

// AnswerInput is a single-line text field for typed recall answers.
type AnswerInput struct {
	Model  textinput.Model
	marked bool
	right  bool
}

// NewAnswerInput creates a focused input. limit <= 0 leaves the length
// unbounded.
func NewAnswerInput(placeholder string, limit int) AnswerInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Focus()
	if limit > 0 {
		ti.CharLimit = limit
	}
	return AnswerInput{Model: ti}
}

// Init returns the focus command.
func (a AnswerInput) Init() tea.Cmd {
	return a.Model.Focus()
}

// Update forwards messages to the text field unless it has been marked.
func (a AnswerInput) Update(msg tea.Msg) (AnswerInput, tea.Cmd) {
	if a.marked {
		return a, nil
	}
	var cmd tea.Cmd
	a.Model, cmd = a.Model.Update(msg)
	return a, cmd
}

// View renders the field with a check or cross once marked.
func (a AnswerInput) View() string {
	view := a.Model.View()
	if !a.marked {
		return view
	}
	if a.right {
		return view + " " + theme.Correct.Render("✓")
	}
	return view + " " + theme.Incorrect.Render("✗")
}

// Value returns the trimmed answer.
func (a AnswerInput) Value() string {
	return strings.TrimSpace(a.Model.Value())
}

// Mark freezes the field and shows the grade.
func (a *AnswerInput) Mark(right bool) {
	a.marked = true
	a.right = right
}

// Reset clears the field for the next card.
func (a *AnswerInput) Reset() {
	a.Model.Reset()
	a.marked = false
	a.right = false
}
