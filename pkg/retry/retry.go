package retry

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Policy is a bounded retry policy with exponential backoff. Whether an error
// is worth another attempt is decided by the Retryable predicate; everything
// else fails immediately.
type Policy struct {
	MaxAttempts     int
	InitialInterval time.Duration
	MaxInterval     time.Duration
	Retryable       func(error) bool
}

// NewPolicy builds a policy that retries every error up to maxAttempts.
func NewPolicy(maxAttempts int, initialInterval, maxInterval time.Duration) Policy {
	return Policy{
		MaxAttempts:     maxAttempts,
		InitialInterval: initialInterval,
		MaxInterval:     maxInterval,
		Retryable:       func(error) bool { return true },
	}
}

// WithRetryable returns a copy of the policy using the given predicate.
func (p Policy) WithRetryable(fn func(error) bool) Policy {
	p.Retryable = fn
	return p
}

// Do runs fn until it succeeds, a non-retryable error occurs, the attempt
// budget is spent, or ctx is done.
func (p Policy) Do(ctx context.Context, fn func() error) error {
	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = p.InitialInterval
	eb.MaxInterval = p.MaxInterval
	eb.MaxElapsedTime = 0 // bounded by attempt count, not wall clock

	maxRetries := uint64(0)
	if p.MaxAttempts > 1 {
		maxRetries = uint64(p.MaxAttempts - 1)
	}

	operation := func() error {
		err := fn()
		if err == nil {
			return nil
		}
		if p.Retryable != nil && !p.Retryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}

	return backoff.Retry(operation, backoff.WithContext(backoff.WithMaxRetries(eb, maxRetries), ctx))
}
