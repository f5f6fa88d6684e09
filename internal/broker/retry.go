package broker

import (
	"context"
	"errors"
	"time"

	"optrader/internal/logger"
)

func asCallError(err error, target **CallError) bool {
	return errors.As(err, target)
}

// RetryPolicy is an explicit bounded-retry rule applied at the call site
// of every venue operation. Backoff grows linearly with the attempt
// number; after MaxAttempts the last error is surfaced as fatal for that
// attempt, never retried indefinitely.
type RetryPolicy struct {
	MaxAttempts int
	Backoff     time.Duration
}

// DefaultRetryPolicy matches the venue client's historical behaviour:
// three attempts, two-second base backoff.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 3, Backoff: 2 * time.Second}
}

// Do runs fn, retrying transient failures until the attempt budget is
// spent or the context is cancelled. Non-transient errors return at once.
func (p RetryPolicy) Do(ctx context.Context, op string, fn func() error) error {
	attempts := p.MaxAttempts
	if attempts <= 0 {
		attempts = 1
	}
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if !IsTransient(lastErr) {
			return lastErr
		}
		if attempt == attempts {
			break
		}
		wait := p.Backoff * time.Duration(attempt)
		logger.Warnf("%s attempt %d/%d failed: %v, retrying in %s", op, attempt, attempts, lastErr, wait)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
	logger.Errorf("%s failed after %d attempts: %v", op, attempts, lastErr)
	return lastErr
}
