package generation

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackoff(t *testing.T) {
	t.Parallel()

	base := 100 * time.Millisecond
	tests := []struct {
		attempt int
		jitter  float64
		want    time.Duration
	}{
		{attempt: 0, jitter: 0, want: 50 * time.Millisecond},
		{attempt: 0, jitter: 1, want: 100 * time.Millisecond},
		{attempt: 1, jitter: 0, want: 100 * time.Millisecond},
		{attempt: 2, jitter: 0.5, want: 300 * time.Millisecond},
		{attempt: 3, jitter: 1, want: 800 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("attempt %d jitter %.1f", tt.attempt, tt.jitter), func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Backoff(base, tt.attempt, tt.jitter))
		})
	}
}

func TestIsRetryable(t *testing.T) {
	t.Parallel()

	assert.True(t, IsRetryable(fmt.Errorf("%w: 503", ErrTransientFailure)))
	assert.False(t, IsRetryable(ErrContentBlocked))
	assert.False(t, IsRetryable(errors.Join(ErrTransientFailure, ErrInvalidResponse)))
	assert.False(t, IsRetryable(errors.New("boom")))
	assert.False(t, IsRetryable(nil))
}

func TestWithRetry(t *testing.T) {
	t.Parallel()

	policy := RetryPolicy{MaxRetries: 2, BaseDelay: time.Millisecond}
	transient := fmt.Errorf("%w: rate limited", ErrTransientFailure)

	t.Run("succeeds after transient failures", func(t *testing.T) {
		t.Parallel()
		calls := 0
		resp, err := WithRetry(context.Background(), nil, policy, func(context.Context) (*Response, error) {
			calls++
			if calls < 3 {
				return nil, transient
			}
			return &Response{Text: "ok"}, nil
		})
		require.NoError(t, err)
		assert.Equal(t, "ok", resp.Text)
		assert.Equal(t, 3, calls)
	})

	t.Run("stops on permanent error", func(t *testing.T) {
		t.Parallel()
		calls := 0
		_, err := WithRetry(context.Background(), nil, policy, func(context.Context) (*Response, error) {
			calls++
			return nil, ErrContentBlocked
		})
		assert.ErrorIs(t, err, ErrContentBlocked)
		assert.Equal(t, 1, calls)
	})

	t.Run("gives up after max retries", func(t *testing.T) {
		t.Parallel()
		calls := 0
		_, err := WithRetry(context.Background(), nil, policy, func(context.Context) (*Response, error) {
			calls++
			return nil, transient
		})
		require.ErrorIs(t, err, ErrTransientFailure)
		assert.Contains(t, err.Error(), "exceeded maximum retry attempts (2)")
		assert.Equal(t, 3, calls)
	})

	t.Run("zero retries makes one attempt", func(t *testing.T) {
		t.Parallel()
		calls := 0
		_, err := WithRetry(context.Background(), nil, RetryPolicy{BaseDelay: time.Millisecond},
			func(context.Context) (*Response, error) {
				calls++
				return nil, transient
			})
		assert.ErrorIs(t, err, ErrTransientFailure)
		assert.Equal(t, 1, calls)
	})

	t.Run("cancelled while waiting", func(t *testing.T) {
		t.Parallel()
		ctx, cancel := context.WithCancel(context.Background())
		slow := RetryPolicy{MaxRetries: 5, BaseDelay: time.Hour}
		calls := 0
		_, err := WithRetry(ctx, nil, slow, func(context.Context) (*Response, error) {
			calls++
			cancel()
			return nil, transient
		})
		require.ErrorIs(t, err, ErrTransientFailure)
		assert.Contains(t, err.Error(), context.Canceled.Error())
		assert.Equal(t, 1, calls)
	})
}
