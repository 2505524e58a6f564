package llm

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"

	"github.com/rs/zerolog"
)

// RetryProvider retries transient failures with capped exponential backoff.
type RetryProvider struct {
	inner  Provider
	policy RetryConfig
	log    zerolog.Logger
	sleep  func(ctx context.Context, d time.Duration) error
}

// WithRetry wraps p. A policy with MaxAttempts below 1 makes one attempt.
func WithRetry(p Provider, policy RetryConfig, log zerolog.Logger) *RetryProvider {
	return &RetryProvider{inner: p, policy: policy, log: log, sleep: sleepCtx}
}

func (r *RetryProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	attempts := max(r.policy.MaxAttempts, 1)
	invalidSeen := false

	var err error
	for attempt := 0; attempt < attempts; attempt++ {
		var resp *Response
		resp, err = r.inner.Generate(ctx, req)
		if err == nil {
			return resp, nil
		}
		if !retryable(err, &invalidSeen) || attempt == attempts-1 {
			return nil, err
		}

		wait := r.backoff(attempt, err)
		r.log.Debug().
			Err(err).
			Int("attempt", attempt+1).
			Dur("wait", wait).
			Str("model", r.inner.ModelID()).
			Msg("retrying llm request")
		if serr := r.sleep(ctx, wait); serr != nil {
			return nil, serr
		}
	}
	return nil, err
}

func (r *RetryProvider) ModelID() string { return r.inner.ModelID() }

// backoff honors a provider Retry-After hint, otherwise grows the wait by
// Multiplier per attempt up to MaxWait with 20% jitter.
func (r *RetryProvider) backoff(attempt int, err error) time.Duration {
	var rl *ErrRateLimit
	if errors.As(err, &rl) && rl.RetryAfter > 0 {
		return rl.RetryAfter
	}

	mult := r.policy.Multiplier
	if mult < 1 {
		mult = 1
	}
	wait := float64(r.policy.InitialWait) * math.Pow(mult, float64(attempt))
	if r.policy.MaxWait > 0 && wait > float64(r.policy.MaxWait) {
		wait = float64(r.policy.MaxWait)
	}
	wait += wait * 0.2 * (2*rand.Float64() - 1)
	if wait < 0 {
		return 0
	}
	return time.Duration(wait)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
