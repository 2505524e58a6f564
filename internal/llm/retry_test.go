package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastRetry(mock Provider, attempts int) (*RetryProvider, *[]time.Duration) {
	var waits []time.Duration
	r := WithRetry(mock, RetryConfig{
		MaxAttempts: attempts,
		InitialWait: 100 * time.Millisecond,
		MaxWait:     300 * time.Millisecond,
		Multiplier:  2,
	}, zerolog.Nop())
	r.sleep = func(ctx context.Context, d time.Duration) error {
		waits = append(waits, d)
		return ctx.Err()
	}
	return r, &waits
}

var down = MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("down")}}

func TestRetry(t *testing.T) {
	ok := MockResponse{Content: json.RawMessage(`{"ok":true}`)}
	invalid := MockResponse{Err: &ErrInvalidResponse{Err: errors.New("bad")}}

	tests := []struct {
		name      string
		replies   []MockResponse
		wantErr   bool
		wantCalls int
	}{
		{"first attempt succeeds", []MockResponse{ok}, false, 1},
		{"transient then success", []MockResponse{down, ok}, false, 2},
		{"rate limit then success", []MockResponse{{Err: &ErrRateLimit{Err: errors.New("429")}}, ok}, false, 2},
		{"exhausts attempts", []MockResponse{down, down, down, ok}, true, 3},
		{"max tokens not retried", []MockResponse{{Err: &ErrMaxTokensExceeded{}}, ok}, true, 1},
		{"invalid retried once", []MockResponse{invalid, invalid, ok}, true, 2},
		{"invalid then success", []MockResponse{invalid, ok}, false, 2},
		{"client error not retried", []MockResponse{{Err: classifyStatus(400, errors.New("bad request"))}, ok}, true, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := NewMockProvider(tt.replies...)
			r, _ := fastRetry(mock, 3)

			_, err := r.Generate(context.Background(), Request{})
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.wantCalls, mock.CallCount())
		})
	}
}

func TestRetry_BackoffGrowsAndCaps(t *testing.T) {
	mock := NewMockProvider(down, down, down, down)
	r, waits := fastRetry(mock, 4)

	_, err := r.Generate(context.Background(), Request{})
	require.Error(t, err)
	require.Len(t, *waits, 3)

	// 100ms, 200ms, capped at 300ms, each within 20% jitter.
	assert.InDelta(t, 100*time.Millisecond, (*waits)[0], float64(20*time.Millisecond))
	assert.InDelta(t, 200*time.Millisecond, (*waits)[1], float64(40*time.Millisecond))
	assert.InDelta(t, 300*time.Millisecond, (*waits)[2], float64(60*time.Millisecond))
}

func TestRetry_HonorsRetryAfter(t *testing.T) {
	mock := NewMockProvider(MockResponse{Err: &ErrRateLimit{RetryAfter: 2 * time.Second}}, MockResponse{Content: json.RawMessage(`{}`)})
	r, waits := fastRetry(mock, 3)

	_, err := r.Generate(context.Background(), Request{})
	require.NoError(t, err)
	assert.Equal(t, []time.Duration{2 * time.Second}, *waits)
}

func TestRetry_StopsOnCancel(t *testing.T) {
	mock := NewMockProvider(down, down, down)
	r, _ := fastRetry(mock, 3)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := r.Generate(ctx, Request{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, mock.CallCount())
}

func TestRetry_ZeroAttemptsStillCallsOnce(t *testing.T) {
	mock := NewMockProvider(MockResponse{Content: json.RawMessage(`{}`)})
	r, _ := fastRetry(mock, 0)

	_, err := r.Generate(context.Background(), Request{})
	require.NoError(t, err)
	assert.Equal(t, "mock", r.ModelID())
}
