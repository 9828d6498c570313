package cache

import (
	"context"
	"errors"
	"net"
	"time"
)

// RetryableError marks a backend failure that may succeed if repeated.
type RetryableError struct{ Err error }

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Retryable wraps err as a RetryableError. Retryable(nil) is nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

// IsRetryable reports whether err is wrapped with RetryableError.
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

// transient marks network failures as retryable and returns everything
// else unchanged.
func transient(err error) error {
	var netErr net.Error
	if errors.As(err, &netErr) {
		return Retryable(err)
	}
	return err
}

// Backoff repeats an operation while it fails with a retryable error,
// doubling Delay after every failed attempt.
type Backoff struct {
	Attempts int
	Delay    time.Duration
}

// ConnectBackoff is used when a backend is first contacted.
var ConnectBackoff = Backoff{Attempts: 3, Delay: 200 * time.Millisecond}

// Retry calls fn until it succeeds, fails with a non-retryable error or has
// been called Attempts times. At least one attempt is always made.
func (b Backoff) Retry(ctx context.Context, fn func() error) error {
	delay := b.Delay
	for attempt := 1; ; attempt++ {
		err := fn()
		if err == nil || !IsRetryable(err) || attempt >= b.Attempts {
			return err
		}

		t := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
		delay *= 2
	}
}
