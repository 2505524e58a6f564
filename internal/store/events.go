package store

import (
	"context"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit int       // max results (0 = unlimited)
	After int64     // sequence > After
	From  time.Time // timestamp >= From
	To    time.Time // timestamp <= To
}

func (o QueryOpts) apply(sel *entsql.Selector, preds ...*entsql.Predicate) *entsql.Selector {
	if o.After > 0 {
		preds = append(preds, entsql.GT("sequence", o.After))
	}
	if !o.From.IsZero() {
		preds = append(preds, entsql.GTE("timestamp", o.From.UTC()))
	}
	if !o.To.IsZero() {
		preds = append(preds, entsql.LTE("timestamp", o.To.UTC()))
	}
	if len(preds) > 0 {
		sel.Where(entsql.And(preds...))
	}
	sel.OrderBy(entsql.Desc("sequence"))
	if o.Limit > 0 {
		sel.Limit(o.Limit)
	}
	return sel
}

// ReviewEvent is one graded review with the resulting schedule.
type ReviewEvent struct {
	Sequence       int64     `json:"sequence"`
	Timestamp      time.Time `json:"timestamp"`
	UserID         string    `json:"user_id"`
	Word           string    `json:"word"`
	Language       string    `json:"language"`
	Correct        bool      `json:"correct"`
	ResponseTimeMs int       `json:"response_time_ms"`
	Quality        int       `json:"quality"`
	Interval       int       `json:"interval"`
	EaseFactor     float64   `json:"ease_factor"`
	Repetitions    int       `json:"repetitions"`
}

// Interaction records a consumed feed item.
type Interaction struct {
	Sequence  int64     `json:"sequence"`
	Timestamp time.Time `json:"timestamp"`
	UserID    string    `json:"user_id"`
	ContentID string    `json:"content_id"`
	Topic     string    `json:"topic"`
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Sequence     int64     `json:"sequence"`
	Timestamp    time.Time `json:"timestamp"`
	Provider     string    `json:"provider"`
	Model        string    `json:"model"`
	Purpose      string    `json:"purpose"`
	InputTokens  int       `json:"input_tokens"`
	OutputTokens int       `json:"output_tokens"`
	LatencyMs    int64     `json:"latency_ms"`
	Success      bool      `json:"success"`
	ErrorMessage string    `json:"error_message,omitempty"`
}

// LLMEventRecorder is the append side of the event log used by the LLM
// logging decorator.
type LLMEventRecorder interface {
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error
}

// EventRepo appends to and reads the event tables. Every event gets a
// sequence number from the shared counter.
type EventRepo struct {
	q querier
}

var _ LLMEventRecorder = (*EventRepo)(nil)

func stamp(t time.Time) time.Time {
	if t.IsZero() {
		t = time.Now()
	}
	return t.UTC()
}

// AppendReview records a graded review and returns its sequence number.
func (r *EventRepo) AppendReview(ctx context.Context, ev ReviewEvent) (int64, error) {
	seq, err := nextSequence(ctx, r.q)
	if err != nil {
		return 0, err
	}
	ins := builder.Insert(tableReviewEvents).
		Columns("sequence", "timestamp", "user_id", "word", "language", "correct",
			"response_time_ms", "quality", "interval", "ease_factor", "repetitions").
		Values(seq, stamp(ev.Timestamp), ev.UserID, ev.Word, ev.Language, ev.Correct,
			ev.ResponseTimeMs, ev.Quality, ev.Interval, ev.EaseFactor, ev.Repetitions)
	if _, err := exec(ctx, r.q, ins); err != nil {
		return 0, fmt.Errorf("save review event: %w", err)
	}
	return seq, nil
}

// Reviews returns the user's review events, newest first.
func (r *EventRepo) Reviews(ctx context.Context, userID string, opts QueryOpts) ([]ReviewEvent, error) {
	sel := builder.Select("sequence", "timestamp", "user_id", "word", "language", "correct",
		"response_time_ms", "quality", "interval", "ease_factor", "repetitions").
		From(builder.Table(tableReviewEvents))
	opts.apply(sel, entsql.EQ("user_id", userID))

	rows, err := queryRows(ctx, r.q, sel)
	if err != nil {
		return nil, fmt.Errorf("query review events: %w", err)
	}
	defer rows.Close()

	var out []ReviewEvent
	for rows.Next() {
		var ev ReviewEvent
		if err := rows.Scan(&ev.Sequence, &ev.Timestamp, &ev.UserID, &ev.Word, &ev.Language,
			&ev.Correct, &ev.ResponseTimeMs, &ev.Quality, &ev.Interval, &ev.EaseFactor,
			&ev.Repetitions); err != nil {
			return nil, fmt.Errorf("scan review event: %w", err)
		}
		ev.Timestamp = ev.Timestamp.UTC()
		out = append(out, ev)
	}
	return out, rows.Err()
}

// AppendInteraction records that the user consumed a content item.
func (r *EventRepo) AppendInteraction(ctx context.Context, in Interaction) (int64, error) {
	seq, err := nextSequence(ctx, r.q)
	if err != nil {
		return 0, err
	}
	ins := builder.Insert(tableInteractions).
		Columns("sequence", "timestamp", "user_id", "content_id", "topic").
		Values(seq, stamp(in.Timestamp), in.UserID, in.ContentID, in.Topic)
	if _, err := exec(ctx, r.q, ins); err != nil {
		return 0, fmt.Errorf("save interaction: %w", err)
	}
	return seq, nil
}

// Interactions returns the user's consumed items, most recent first.
func (r *EventRepo) Interactions(ctx context.Context, userID string, opts QueryOpts) ([]Interaction, error) {
	sel := builder.Select("sequence", "timestamp", "user_id", "content_id", "topic").
		From(builder.Table(tableInteractions))
	opts.apply(sel, entsql.EQ("user_id", userID))

	rows, err := queryRows(ctx, r.q, sel)
	if err != nil {
		return nil, fmt.Errorf("query interactions: %w", err)
	}
	defer rows.Close()

	var out []Interaction
	for rows.Next() {
		var in Interaction
		if err := rows.Scan(&in.Sequence, &in.Timestamp, &in.UserID, &in.ContentID, &in.Topic); err != nil {
			return nil, fmt.Errorf("scan interaction: %w", err)
		}
		in.Timestamp = in.Timestamp.UTC()
		out = append(out, in)
	}
	return out, rows.Err()
}

// AppendLLMRequest records an LLM API call event.
func (r *EventRepo) AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error {
	seq, err := nextSequence(ctx, r.q)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}
	ins := builder.Insert(tableLLMEvents).
		Columns("sequence", "timestamp", "provider", "model", "purpose", "input_tokens",
			"output_tokens", "latency_ms", "success", "error_message").
		Values(seq, stamp(data.Timestamp), data.Provider, data.Model, data.Purpose, data.InputTokens,
			data.OutputTokens, data.LatencyMs, data.Success, data.ErrorMessage)
	if _, err := exec(ctx, r.q, ins); err != nil {
		return fmt.Errorf("save LLM request event: %w", err)
	}
	return nil
}

// LLMRequests returns recorded LLM calls, newest first.
func (r *EventRepo) LLMRequests(ctx context.Context, opts QueryOpts) ([]LLMRequestEventData, error) {
	sel := builder.Select("sequence", "timestamp", "provider", "model", "purpose", "input_tokens",
		"output_tokens", "latency_ms", "success", "error_message").
		From(builder.Table(tableLLMEvents))
	opts.apply(sel)

	rows, err := queryRows(ctx, r.q, sel)
	if err != nil {
		return nil, fmt.Errorf("query LLM request events: %w", err)
	}
	defer rows.Close()

	var out []LLMRequestEventData
	for rows.Next() {
		var d LLMRequestEventData
		if err := rows.Scan(&d.Sequence, &d.Timestamp, &d.Provider, &d.Model, &d.Purpose,
			&d.InputTokens, &d.OutputTokens, &d.LatencyMs, &d.Success, &d.ErrorMessage); err != nil {
			return nil, fmt.Errorf("scan LLM request event: %w", err)
		}
		d.Timestamp = d.Timestamp.UTC()
		out = append(out, d)
	}
	return out, rows.Err()
}
