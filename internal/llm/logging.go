package llm

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/abhisek/palabra/internal/store"
)

// LoggingProvider records one event per request. A failure to record is
// logged and never fails the request.
type LoggingProvider struct {
	inner    Provider
	provider string
	recorder store.LLMEventRecorder
	log      zerolog.Logger
	now      func() time.Time
}

// WithLogging wraps p. recorder may be nil, in which case requests are
// only written to the log.
func WithLogging(p Provider, providerName string, recorder store.LLMEventRecorder, log zerolog.Logger) *LoggingProvider {
	return &LoggingProvider{
		inner:    p,
		provider: providerName,
		recorder: recorder,
		log:      log,
		now:      time.Now,
	}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := l.now()
	resp, err := l.inner.Generate(ctx, req)
	latency := l.now().Sub(start)

	ev := store.LLMRequestEventData{
		Timestamp: start,
		Provider:  l.provider,
		Model:     l.inner.ModelID(),
		Purpose:   PurposeFrom(ctx),
		LatencyMs: latency.Milliseconds(),
		Success:   err == nil,
	}
	if resp != nil {
		ev.InputTokens = resp.Usage.InputTokens
		ev.OutputTokens = resp.Usage.OutputTokens
		if resp.Model != "" {
			ev.Model = resp.Model
		}
	}
	if err != nil {
		ev.ErrorMessage = err.Error()
	}

	entry := l.log.Debug()
	if err != nil {
		entry = l.log.Warn().Err(err)
	}
	entry.
		Str("provider", ev.Provider).
		Str("model", ev.Model).
		Str("purpose", ev.Purpose).
		Int("input_tokens", ev.InputTokens).
		Int("output_tokens", ev.OutputTokens).
		Dur("latency", latency).
		Msg("llm request")

	if l.recorder != nil {
		if rerr := l.recorder.AppendLLMRequest(ctx, ev); rerr != nil {
			l.log.Warn().Err(rerr).Msg("record llm request event")
		}
	}
	return resp, err
}

func (l *LoggingProvider) ModelID() string { return l.inner.ModelID() }
