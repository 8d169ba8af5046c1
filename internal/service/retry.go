package service

import (
	"context"
	"errors"
	"time"

	"fitcoach/backend/internal/llm"

	"github.com/cenkalti/backoff/v4"
)

// RetryPolicy bounds how often a transient upstream failure is retried.
type RetryPolicy struct {
	MaxRetries int // 0 or 1
	Delay      time.Duration
}

// IsTransient reports whether err is an upstream transport failure worth
// one more attempt with the same payload.
func IsTransient(err error) bool {
	return errors.Is(err, llm.ErrUnavailable) || errors.Is(err, llm.ErrTimeout)
}

// retryTransient runs op and retries it while it fails with a transient
// error, up to policy.MaxRetries times. Other errors are returned at once.
// onRetry, if set, is called before each retry with the failed attempt number.
func retryTransient[T any](ctx context.Context, policy RetryPolicy, op func(ctx context.Context) (T, error), onRetry func(attempt int, err error)) (T, error) {
	maxRetries := policy.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}
	if maxRetries > 1 {
		maxRetries = 1
	}

	attempt := 0
	operation := func() (T, error) {
		attempt++
		res, err := op(ctx)
		if err != nil && !IsTransient(err) {
			return res, backoff.Permanent(err)
		}
		return res, err
	}
	notify := func(err error, _ time.Duration) {
		if onRetry != nil {
			onRetry(attempt, err)
		}
	}

	b := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(policy.Delay), uint64(maxRetries)),
		ctx,
	)
	return backoff.RetryNotifyWithData(operation, b, notify)
}
