// Package review is the interactive flashcard session behind
// `palabra review`. Each due card shows the word, the learner types what
// it means, the meaning is revealed and the learner grades themselves.
// The time from showing the word to pressing Enter is the response time
// the scheduler grades with.
package review

import (
	"context"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/palabra/internal/learner"
	"github.com/abhisek/palabra/internal/srs"
	"github.com/abhisek/palabra/internal/ui/components"
)

// Submitter records one graded review.
type Submitter interface {
	Submit(ctx context.Context, in learner.ReviewInput) (*learner.ReviewOutcome, error)
}

// Lookup returns the meaning of a word for the reveal step.
type Lookup func(ctx context.Context, word string) (string, error)

// Options configures a session. Lookup and Now are optional.
type Options struct {
	UserID   string
	Language string

	// XP and Streak seed the header before the first review.
	XP     int
	Streak int

	Lookup Lookup
	Now    func() time.Time
}

type phase int

const (
	phaseAsk phase = iota
	phaseReveal
	phaseSaving
	phaseFeedback
	phaseDone
)

// Summary is what a finished session achieved.
type Summary struct {
	Reviewed int
	Correct  int
	XPEarned int
	Streak   int
}

// Model is the Bubble Tea model for a review session.
type Model struct {
	ctx    context.Context
	cards  []*srs.Card
	submit Submitter
	opts   Options

	idx     int
	phase   phase
	input   components.AnswerInput
	shownAt time.Time
	elapsed int
	meaning string
	lookErr error

	last    *learner.ReviewOutcome
	err     error
	summary Summary
	xp      int

	width  int
	height int
}

var _ tea.Model = (*Model)(nil)

// New creates a session over cards in order.
func New(ctx context.Context, cards []*srs.Card, submit Submitter, opts Options) *Model {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	m := &Model{
		ctx:    ctx,
		cards:  cards,
		submit: submit,
		opts:   opts,
		input:  components.NewAnswerInput("what does it mean?", 64),
		xp:     opts.XP,
	}
	m.summary.Streak = opts.Streak
	if len(cards) == 0 {
		m.phase = phaseDone
	} else {
		m.shownAt = opts.Now()
	}
	return m
}

// Summary returns the session totals so far.
func (m *Model) Summary() Summary {
	return m.summary
}

// Current returns the card on screen, or nil once the session is done.
func (m *Model) Current() *srs.Card {
	if m.phase == phaseDone || m.idx >= len(m.cards) {
		return nil
	}
	return m.cards[m.idx]
}

func (m *Model) Init() tea.Cmd {
	return m.input.Init()
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case meaningMsg:
		if cur := m.Current(); cur != nil && cur.Word == msg.word {
			m.meaning = msg.meaning
			m.lookErr = msg.err
		}
		return m, nil

	case submittedMsg:
		return m.handleSubmitted(msg)

	case tea.KeyPressMsg:
		return m.handleKey(msg)
	}

	if m.phase == phaseAsk {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" || key == "esc" {
		m.phase = phaseDone
		return m, tea.Quit
	}

	switch m.phase {
	case phaseAsk:
		if key != "enter" {
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return m, cmd
		}
		m.elapsed = max(1, int(m.opts.Now().Sub(m.shownAt).Milliseconds()))
		m.phase = phaseReveal
		return m, m.lookupCmd(m.cards[m.idx].Word)

	case phaseReveal:
		switch key {
		case "y":
			return m, m.grade(true)
		case "n":
			return m, m.grade(false)
		}

	case phaseFeedback:
		m.advance()
		if m.phase == phaseDone {
			return m, nil
		}
		return m, m.input.Init()

	case phaseDone:
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) grade(correct bool) tea.Cmd {
	m.phase = phaseSaving
	m.input.Mark(correct)
	card := m.cards[m.idx]
	in := learner.ReviewInput{
		UserID:         m.opts.UserID,
		Word:           card.Word,
		Language:       card.Language,
		Correct:        correct,
		ResponseTimeMs: m.elapsed,
	}
	return func() tea.Msg {
		out, err := m.submit.Submit(m.ctx, in)
		return submittedMsg{outcome: out, correct: correct, err: err}
	}
}

func (m *Model) handleSubmitted(msg submittedMsg) (tea.Model, tea.Cmd) {
	m.phase = phaseFeedback
	m.last = msg.outcome
	m.err = msg.err
	if msg.err != nil {
		return m, nil
	}
	m.summary.Reviewed++
	if msg.correct {
		m.summary.Correct++
	}
	m.summary.XPEarned += msg.outcome.Award.XP
	m.summary.Streak = msg.outcome.Award.Streak
	m.xp += msg.outcome.Award.XP
	return m, nil
}

func (m *Model) advance() {
	m.idx++
	m.last = nil
	m.err = nil
	m.meaning = ""
	m.lookErr = nil
	m.elapsed = 0
	m.input.Reset()
	if m.idx >= len(m.cards) {
		m.phase = phaseDone
		return
	}
	m.phase = phaseAsk
	m.shownAt = m.opts.Now()
}

func (m *Model) lookupCmd(word string) tea.Cmd {
	if m.opts.Lookup == nil {
		return nil
	}
	lookup := m.opts.Lookup
	ctx := m.ctx
	return func() tea.Msg {
		meaning, err := lookup(ctx, word)
		return meaningMsg{word: word, meaning: meaning, err: err}
	}
}

// Run shows the session full screen and returns its totals when the
// learner finishes or quits.
func Run(ctx context.Context, m *Model) (Summary, error) {
	final, err := tea.NewProgram(m, tea.WithContext(ctx)).Run()
	if err != nil {
		return m.Summary(), err
	}
	if fm, ok := final.(*Model); ok {
		return fm.Summary(), nil
	}
	return m.Summary(), nil
}
