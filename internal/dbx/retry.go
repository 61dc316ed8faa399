package dbx

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/sethvargo/go-retry"
)

// RetryPolicy bounds how often a failing operation is attempted.
// Attempts counts the first try; values below 1 mean a single attempt.
type RetryPolicy struct {
	Attempts    uint64
	Delay       time.Duration
	Exponential bool
}

// DefaultRetryPolicy is one retry after a short pause.
var DefaultRetryPolicy = RetryPolicy{Attempts: 2, Delay: 50 * time.Millisecond}

type permanentError struct{ err error }

func (p permanentError) Error() string { return p.err.Error() }
func (p permanentError) Unwrap() error { return p.err }

// Permanent marks err as not worth retrying.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return permanentError{err: err}
}

func isPermanent(err error) bool {
	var p permanentError
	return errors.As(err, &p) ||
		errors.Is(err, sql.ErrNoRows) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}

func (p RetryPolicy) backoff() retry.Backoff {
	delay := p.Delay
	if delay <= 0 {
		delay = time.Nanosecond
	}
	var b retry.Backoff
	if p.Exponential {
		b = retry.NewExponential(delay)
	} else {
		b = retry.NewConstant(delay)
	}
	retries := uint64(0)
	if p.Attempts > 1 {
		retries = p.Attempts - 1
	}
	return retry.WithMaxRetries(retries, b)
}

// Retry runs fn until it succeeds, returns a permanent error, or the policy is
// exhausted. onRetry, when set, runs after each failed attempt that will be
// retried; it is the place to reopen connections. The last error is returned.
func Retry(ctx context.Context, p RetryPolicy, fn func(ctx context.Context) error, onRetry func(ctx context.Context, attempt int, err error)) error {
	attempt := 0
	err := retry.Do(ctx, p.backoff(), func(ctx context.Context) error {
		attempt++
		err := fn(ctx)
		if err == nil {
			return nil
		}
		if isPermanent(err) {
			return err
		}
		if onRetry != nil && uint64(attempt) < p.Attempts {
			onRetry(ctx, attempt, err)
		}
		return retry.RetryableError(err)
	})

	var p2 permanentError
	if errors.As(err, &p2) {
		return p2.err
	}
	return err
}
