package common

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetry_SuccessOnFirstAttempt(t *testing.T) {
	attempts := 0

	err := Retry(context.Background(), func(ctx context.Context) error {
		attempts++
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 1, attempts)
}

func TestRetry_SuccessAfterRetries(t *testing.T) {
	tests := []struct {
		name             string
		failUntilN       int
		maxRetries       int
		expectedAttempts int
		shouldSucceed    bool
	}{
		{name: "第二次成功", failUntilN: 2, maxRetries: 3, expectedAttempts: 2, shouldSucceed: true},
		{name: "最后一次重试成功", failUntilN: 4, maxRetries: 3, expectedAttempts: 4, shouldSucceed: true},
		{name: "全部失败", failUntilN: 10, maxRetries: 3, expectedAttempts: 4, shouldSucceed: false},
		{name: "不重试", failUntilN: 10, maxRetries: 0, expectedAttempts: 1, shouldSucceed: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			attempts := 0

			err := Retry(context.Background(), func(ctx context.Context) error {
				attempts++
				if attempts < tt.failUntilN {
					return errors.New("temporary failure")
				}
				return nil
			}, WithMaxRetries(tt.maxRetries), WithInitialDelay(time.Millisecond))

			assert.Equal(t, tt.expectedAttempts, attempts)
			if tt.shouldSucceed {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "temporary failure")
			}
		})
	}
}

func TestRetry_DefaultIsSingleRetry(t *testing.T) {
	attempts := 0
	err := Retry(context.Background(), func(ctx context.Context) error {
		attempts++
		return errors.New("down")
	}, WithInitialDelay(time.Millisecond))

	assert.Error(t, err)
	assert.Equal(t, 2, attempts)
	assert.True(t, strings.HasPrefix(err.Error(), "retry failed after 2 attempts"))
}

func TestRetry_PermanentStopsImmediately(t *testing.T) {
	sentinel := errors.New("not found")
	attempts := 0

	err := Retry(context.Background(), func(ctx context.Context) error {
		attempts++
		return Permanent(sentinel)
	}, WithMaxRetries(5), WithInitialDelay(time.Millisecond))

	assert.Equal(t, 1, attempts)
	assert.ErrorIs(t, err, sentinel)
	assert.Equal(t, "not found", err.Error())
}

func TestRetry_RetryIfPredicate(t *testing.T) {
	rateLimited := errors.New("rate limited")
	attempts := 0

	err := Retry(context.Background(), func(ctx context.Context) error {
		attempts++
		return rateLimited
	},
		WithMaxRetries(3),
		WithInitialDelay(time.Millisecond),
		WithRetryIf(func(err error) bool { return !errors.Is(err, rateLimited) }),
	)

	assert.Equal(t, 1, attempts)
	assert.ErrorIs(t, err, rateLimited)
}

func TestRetry_ContextCancelledDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	attempts := 0

	err := Retry(ctx, func(ctx context.Context) error {
		attempts++
		cancel()
		return errors.New("fail")
	}, WithMaxRetries(3), WithInitialDelay(time.Second))

	assert.Equal(t, 1, attempts)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Contains(t, err.Error(), "retry aborted during backoff")
}

func TestRetry_NilFunction(t *testing.T) {
	err := Retry(context.Background(), nil)
	assert.EqualError(t, err, "retry: function cannot be nil")
}

func TestBackoffDelay(t *testing.T) {
	cfg := defaultRetryConfig()
	cfg.initialDelay = 100 * time.Millisecond
	cfg.maxDelay = 350 * time.Millisecond

	assert.Equal(t, 100*time.Millisecond, backoffDelay(1, cfg))
	assert.Equal(t, 200*time.Millisecond, backoffDelay(2, cfg))
	assert.Equal(t, 350*time.Millisecond, backoffDelay(3, cfg))
}

func TestRetryOptions_IgnoreInvalidValues(t *testing.T) {
	cfg := defaultRetryConfig()
	for _, opt := range []RetryOption{
		WithMaxRetries(-1),
		WithInitialDelay(0),
		WithMaxDelay(-time.Second),
		WithMultiplier(0),
		WithRetryIf(nil),
	} {
		opt(cfg)
	}

	def := defaultRetryConfig()
	assert.Equal(t, def.maxRetries, cfg.maxRetries)
	assert.Equal(t, def.initialDelay, cfg.initialDelay)
	assert.Equal(t, def.maxDelay, cfg.maxDelay)
	assert.Equal(t, def.multiplier, cfg.multiplier)
	assert.NotNil(t, cfg.retryIf)
}
