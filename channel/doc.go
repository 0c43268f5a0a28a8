// Package channel provides a small HTTP client that retries failed requests
// with configurable backoff, on top of request/response interceptors, default
// headers, basic auth, and structured per-attempt logging.
//
// Retries
//   - Controlled via Builder.WithRetryPolicy and Builder.WithRetryableStatuses.
//   - Retries occur on:
//   - Transport errors (network failures)
//   - Timeouts (context deadline exceeded or net.Error timeout)
//   - Configured retryable status codes (default: 408, 429, 500, 502, 503, 504)
//   - Every other non-success response is a permanent failure and is
//     surfaced immediately without consuming further attempts.
//   - When the attempt budget is spent, the call fails with
//     *retry.ExhaustedError carrying the last observed error.
//   - A Retry-After header on 429/503 responses overrides the computed
//     backoff when the client is built with RespectRetryAfter.
//
// Backoff Strategy
//   - Delegated to the retry package: immediate, constant, jittered, or
//     exponential (base * multiplier^(n-1)), capped at the policy MaxDelay.
//   - Sleeps are context-aware; canceling the context aborts the sequence.
//
// Notes
//   - Request bodies are re-sent by rebuilding the http.Request on each attempt.
//   - Interceptor and validation errors are not retried.
package channel
