package common

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"
)

// RetryableFunc is one attempt of a retried operation.
// Returning a Permanent error stops the retry loop immediately.
type RetryableFunc func(ctx context.Context) error

// RetryConfig holds the configuration for retry behavior.
type RetryConfig struct {
	maxRetries   int
	initialDelay time.Duration
	maxDelay     time.Duration
	multiplier   float64
	retryIf      func(error) bool
}

// RetryOption is a functional option for configuring retry behavior.
type RetryOption func(*RetryConfig)

// WithMaxRetries sets the maximum number of retry attempts.
// Default is 1 retry: adapters have a tight time budget.
func WithMaxRetries(n int) RetryOption {
	return func(c *RetryConfig) {
		if n >= 0 {
			c.maxRetries = n
		}
	}
}

// WithInitialDelay sets the delay before the first retry. Default is 200ms.
func WithInitialDelay(d time.Duration) RetryOption {
	return func(c *RetryConfig) {
		if d > 0 {
			c.initialDelay = d
		}
	}
}

// WithMaxDelay caps the delay between retries. Default is 2 seconds.
func WithMaxDelay(d time.Duration) RetryOption {
	return func(c *RetryConfig) {
		if d > 0 {
			c.maxDelay = d
		}
	}
}

// WithMultiplier sets the exponential backoff multiplier. Default is 2.0.
func WithMultiplier(m float64) RetryOption {
	return func(c *RetryConfig) {
		if m > 0 {
			c.multiplier = m
		}
	}
}

// WithRetryIf only retries errors for which pred returns true.
// Rate limits and 404s are typical examples of errors not worth a second try.
func WithRetryIf(pred func(error) bool) RetryOption {
	return func(c *RetryConfig) {
		if pred != nil {
			c.retryIf = pred
		}
	}
}

func defaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		maxRetries:   1,
		initialDelay: 200 * time.Millisecond,
		maxDelay:     2 * time.Second,
		multiplier:   2.0,
		retryIf:      func(error) bool { return true },
	}
}

type permanentError struct {
	err error
}

func (p *permanentError) Error() string { return p.err.Error() }
func (p *permanentError) Unwrap() error { return p.err }

// Permanent marks err as not retryable. Retry returns the wrapped error as is.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// Retry executes fn with exponential backoff.
//
//	err := common.Retry(ctx, func(ctx context.Context) error {
//	    _, _, err := client.Users.Get(ctx, login)
//	    return err
//	}, common.WithMaxRetries(2), common.WithRetryIf(isTransient))
//
// The first attempt runs immediately. Context cancellation aborts the
// backoff wait and is reported wrapped around ctx.Err().
func Retry(ctx context.Context, fn RetryableFunc, opts ...RetryOption) error {
	if fn == nil {
		return errors.New("retry: function cannot be nil")
	}

	cfg := defaultRetryConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	var lastErr error
	for attempt := 0; attempt <= cfg.maxRetries; attempt++ {
		if attempt > 0 {
			timer := time.NewTimer(backoffDelay(attempt, cfg))
			select {
			case <-ctx.Done():
				timer.Stop()
				return fmt.Errorf("retry aborted during backoff (attempt %d/%d): %w", attempt, cfg.maxRetries, ctx.Err())
			case <-timer.C:
			}
		}

		err := fn(ctx)
		if err == nil {
			return nil
		}

		var perm *permanentError
		if errors.As(err, &perm) {
			return perm.err
		}
		if !cfg.retryIf(err) {
			return err
		}
		lastErr = err
	}

	return fmt.Errorf("retry failed after %d attempts: %w", cfg.maxRetries+1, lastErr)
}

// backoffDelay = initialDelay * multiplier^(attempt-1), capped at maxDelay.
func backoffDelay(attempt int, cfg *RetryConfig) time.Duration {
	delay := float64(cfg.initialDelay) * math.Pow(cfg.multiplier, float64(attempt-1))
	if time.Duration(delay) > cfg.maxDelay {
		return cfg.maxDelay
	}
	return time.Duration(delay)
}
