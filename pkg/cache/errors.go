package cache

import (
	"context"
	"errors"
	"time"
)

// ErrUnavailable reports that the Redis or MongoDB backend could not be
// reached while opening the cache.
var ErrUnavailable = errors.New("cache backend unavailable")

// Backoff used by [RetryWithBackoff]: the first retry waits retryDelay and
// every later one doubles it.
const (
	retryAttempts = 3
	retryDelay    = time.Second
)

// RetryableError marks a transient failure, such as a backend that is still
// starting or an API server answering 503.
type RetryableError struct{ Err error }

// Retryable marks err as transient. A nil err stays nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// IsRetryable reports whether err, or anything it wraps, was marked with
// [Retryable].
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

// RetryWithBackoff calls fn until it succeeds, fails with an error not
// marked [Retryable], or has been tried retryAttempts times. It is shared by
// the networked caches and the driftgrid API client.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	delay := retryDelay
	for attempt := 1; ; attempt++ {
		err := fn()
		if err == nil || !IsRetryable(err) || attempt == retryAttempts {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}
}
