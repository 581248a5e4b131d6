// Package retry runs operations under a fixed-delay retry policy.
//
// A Policy bundles the maximum number of attempts, the delay between them
// and a predicate deciding which errors are worth another attempt:
//
//	policy := retry.Policy{MaxAttempts: 3, Delay: 2 * time.Second, Retryable: http.IsTransient}
//	err := policy.Do(ctx, func(ctx context.Context) error {
//	    return fetch(ctx)
//	})
//
// Delays block the caller; cancelling ctx interrupts them.
package retry

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Default policy values.
const (
	DefaultMaxAttempts = 3
	DefaultDelay       = 2 * time.Second
)

// ExhaustedError is returned when every attempt failed with a retryable error.
type ExhaustedError struct {
	Attempts int
	Err      error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("failed after %d attempts: %v", e.Attempts, e.Err)
}

func (e *ExhaustedError) Unwrap() error {
	return e.Err
}

// Policy describes how an operation is retried.
type Policy struct {
	// MaxAttempts is the total number of tries, including the first.
	// Values below 1 are treated as 1.
	MaxAttempts int

	// Delay is the fixed wait between attempts.
	Delay time.Duration

	// Retryable decides whether err deserves another attempt.
	// A nil Retryable retries every error.
	Retryable func(err error) bool

	// OnRetry is called before each wait with the attempt that just failed (1-based).
	OnRetry func(attempt int, err error)

	// Sleep waits for d. Defaults to a context-aware timer; tests replace it.
	Sleep func(ctx context.Context, d time.Duration) error
}

// Default returns the policy used when nothing is configured: 3 attempts,
// 2 seconds apart.
func Default() Policy {
	return Policy{MaxAttempts: DefaultMaxAttempts, Delay: DefaultDelay}
}

// Do runs fn until it succeeds, returns a non-retryable error, or the
// attempts run out.
//
// Non-retryable errors are returned as is. When attempts run out the last
// error is wrapped in an *ExhaustedError. Context errors stop the loop
// immediately.
func (p Policy) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		err = fn(ctx)
		if err == nil {
			return nil
		}
		if ctx.Err() != nil || errors.Is(err, context.Canceled) {
			return err
		}
		if p.Retryable != nil && !p.Retryable(err) {
			return err
		}
		if attempt == attempts {
			break
		}

		if p.OnRetry != nil {
			p.OnRetry(attempt, err)
		}
		if serr := p.sleep(ctx, p.Delay); serr != nil {
			return serr
		}
	}

	return &ExhaustedError{Attempts: attempts, Err: err}
}

func (p Policy) sleep(ctx context.Context, d time.Duration) error {
	if p.Sleep != nil {
		return p.Sleep(ctx, d)
	}
	return Sleep(ctx, d)
}

// Sleep waits for d or until ctx is done.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
