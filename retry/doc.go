// Package retry provides the retry policy and backoff engine used by the
// channel client.
//
// Policies
//   - MaxAttempts counts the initial attempt; a policy with MaxAttempts of 1
//     never retries.
//   - Four delay strategies: Immediate (no delay), Constant (BaseDelay every
//     time), Jitter (BaseDelay scaled by a random factor in [0.5, 1.5)), and
//     Exponential (BaseDelay * Multiplier^(n-1), capped at MaxDelay).
//
// Loop
//   - Do retries every error except those wrapped with Permanent, which are
//     surfaced immediately.
//   - An error wrapped with Delayed overrides the computed backoff with a
//     server-suggested wait (e.g. from a Retry-After header), capped at the
//     policy's MaxDelay.
//   - Sleeps are context-aware; cancellation aborts the sequence between
//     attempts.
//   - When the budget is spent, Do returns an *ExhaustedError carrying the
//     attempt count and the last observed error.
package retry
