package generation

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"time"
)

// RetryPolicy bounds the attempts made for one request.
type RetryPolicy struct {
	MaxRetries int
	BaseDelay  time.Duration
}

// DefaultRetryPolicy is used when a provider is configured without one.
var DefaultRetryPolicy = RetryPolicy{MaxRetries: 3, BaseDelay: 2 * time.Second}

func (p RetryPolicy) normalized() RetryPolicy {
	if p.MaxRetries < 0 {
		p.MaxRetries = DefaultRetryPolicy.MaxRetries
	}
	if p.BaseDelay <= 0 {
		p.BaseDelay = DefaultRetryPolicy.BaseDelay
	}
	return p
}

// Backoff returns base * 2^attempt scaled by a jitter factor in [0.5, 1.0).
// jitter is a sample from [0, 1).
func Backoff(base time.Duration, attempt int, jitter float64) time.Duration {
	factor := math.Pow(2, float64(attempt)) * (0.5 + jitter*0.5)
	return time.Duration(float64(base) * factor)
}

// WithRetry calls fn until it succeeds, fails with a non-retryable error, or
// the policy's retries are used up. Waiting between attempts honors ctx.
func WithRetry(
	ctx context.Context,
	logger *slog.Logger,
	policy RetryPolicy,
	fn func(ctx context.Context) (*Response, error),
) (*Response, error) {
	policy = policy.normalized()
	if logger == nil {
		logger = slog.Default()
	}

	for attempt := 0; ; attempt++ {
		resp, err := fn(ctx)
		if err == nil {
			return resp, nil
		}

		if !IsRetryable(err) {
			logger.WarnContext(ctx, "permanent completion error, not retrying",
				slog.Int("attempt", attempt+1),
				slog.String("error", err.Error()))
			return nil, err
		}

		if attempt >= policy.MaxRetries {
			logger.WarnContext(ctx, "maximum retry attempts reached",
				slog.Int("max_retries", policy.MaxRetries),
				slog.String("error", err.Error()))
			return nil, fmt.Errorf("%w: exceeded maximum retry attempts (%d): %v",
				ErrTransientFailure, policy.MaxRetries, err)
		}

		delay := Backoff(policy.BaseDelay, attempt, rand.Float64())
		logger.InfoContext(ctx, "retrying completion after delay",
			slog.Int("attempt", attempt+1),
			slog.Duration("delay", delay),
			slog.String("error", err.Error()))

		timer := time.NewTimer(delay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return nil, fmt.Errorf("%w: %v", ErrTransientFailure, ctx.Err())
		}
	}
}
