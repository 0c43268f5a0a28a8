package retry

import (
	"context"
	"errors"
	"time"
)

// Func is a single retryable attempt producing a result of type T.
type Func[T any] func(ctx context.Context) (T, error)

// Do runs fn until it succeeds, returns a permanent error, the context is
// canceled, or the policy's attempt budget is spent. Every returned error is
// considered transient unless wrapped with Permanent. When the budget runs
// out, Do returns the zero T and an *ExhaustedError wrapping the last error.
func Do[T any](ctx context.Context, p Policy, fn Func[T]) (T, error) {
	var zero T
	maxAttempts := p.attempts()

	for attempt := 1; ; attempt++ {
		result, err := fn(ctx)
		if err == nil {
			return result, nil
		}

		var permanent *PermanentError
		if errors.As(err, &permanent) {
			return zero, permanent.Err
		}

		if attempt >= maxAttempts {
			return zero, &ExhaustedError{Attempts: attempt, Err: unwrapDelayed(err)}
		}

		delay := p.Delay(attempt)
		var delayed *DelayedError
		if errors.As(err, &delayed) {
			delay = delayed.After
			if maxDelay := p.MaxDelay; maxDelay > 0 && delay > maxDelay {
				delay = maxDelay
			}
		}

		if sleepErr := Sleep(ctx, delay); sleepErr != nil {
			return zero, errors.Join(sleepErr, unwrapDelayed(err))
		}
	}
}

// Sleep blocks for d or until ctx is done, whichever comes first.
// A non-positive d returns immediately.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// unwrapDelayed strips the Delayed wrapper so callers see the cause, not the
// scheduling hint.
func unwrapDelayed(err error) error {
	var delayed *DelayedError
	if errors.As(err, &delayed) {
		return delayed.Err
	}
	return err
}
