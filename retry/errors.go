package retry

import (
	"errors"
	"fmt"
	"time"
)

// PermanentError marks an error as non-retryable. Do surfaces the wrapped
// error immediately without consuming further attempts.
type PermanentError struct {
	Err error
}

func (e *PermanentError) Error() string {
	return e.Err.Error()
}

func (e *PermanentError) Unwrap() error {
	return e.Err
}

// Permanent wraps err so that Do stops retrying and returns it as-is.
// A nil err returns nil.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &PermanentError{Err: err}
}

// DelayedError carries a server-suggested wait before the next attempt,
// typically parsed from a Retry-After header. The error remains retryable.
type DelayedError struct {
	Err   error
	After time.Duration
}

func (e *DelayedError) Error() string {
	return e.Err.Error()
}

func (e *DelayedError) Unwrap() error {
	return e.Err
}

// Delayed wraps err with a suggested delay before the next attempt.
// A nil err returns nil; negative delays are treated as zero.
func Delayed(err error, after time.Duration) error {
	if err == nil {
		return nil
	}
	if after < 0 {
		after = 0
	}
	return &DelayedError{Err: err, After: after}
}

// ExhaustedError is returned by Do when the attempt budget is spent.
// It carries the number of attempts made and the last observed error.
type ExhaustedError struct {
	Attempts int
	Err      error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("retries exhausted after %d attempts: %v", e.Attempts, e.Err)
}

func (e *ExhaustedError) Unwrap() error {
	return e.Err
}

// IsExhausted reports whether err is (or wraps) an ExhaustedError.
func IsExhausted(err error) bool {
	var exhausted *ExhaustedError
	return errors.As(err, &exhausted)
}
