package retry

import (
	"math/rand/v2"
	"time"
)

// Strategy selects how the delay before the next attempt is computed.
type Strategy string

const (
	// StrategyImmediate retries with no delay between attempts.
	StrategyImmediate Strategy = "immediate"
	// StrategyConstant sleeps BaseDelay before every retry.
	StrategyConstant Strategy = "constant"
	// StrategyJitter sleeps BaseDelay scaled by a random factor in [0.5, 1.5).
	StrategyJitter Strategy = "jitter"
	// StrategyExponential sleeps BaseDelay * Multiplier^(n-1) before retry n,
	// capped at MaxDelay.
	StrategyExponential Strategy = "exponential"
)

const (
	// DefaultMaxAttempts is the default retry budget, including the initial attempt.
	DefaultMaxAttempts = 5

	// DefaultBaseDelay is the default base delay between attempts.
	DefaultBaseDelay = 200 * time.Millisecond

	// DefaultMultiplier is the default exponential backoff multiplier.
	DefaultMultiplier = 2.0

	// DefaultMaxDelay caps the delay between attempts to avoid excessive sleeps.
	DefaultMaxDelay = 30 * time.Second
)

// Policy describes a retry budget and backoff schedule. A Policy is a plain
// value: construct it once and reuse it across calls.
type Policy struct {
	// MaxAttempts is the total attempt budget, including the initial attempt.
	// Values below 1 fall back to DefaultMaxAttempts.
	MaxAttempts int
	// BaseDelay is the base delay between attempts.
	BaseDelay time.Duration
	// Multiplier is the exponential growth factor (StrategyExponential only).
	Multiplier float64
	// MaxDelay caps the computed delay. Zero falls back to DefaultMaxDelay.
	MaxDelay time.Duration
	// Strategy selects the delay computation. Empty defaults to exponential.
	Strategy Strategy
}

// DefaultPolicy returns the policy used when none is configured:
// 5 attempts, 200ms base delay, exponential backoff capped at 30s.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts: DefaultMaxAttempts,
		BaseDelay:   DefaultBaseDelay,
		Multiplier:  DefaultMultiplier,
		MaxDelay:    DefaultMaxDelay,
		Strategy:    StrategyExponential,
	}
}

// Delay returns how long to sleep after attempt n failed (n starts at 1).
// The result is never negative and never exceeds the policy cap. With jitter
// disabled the sequence is non-decreasing in n.
func (p Policy) Delay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}

	base := p.BaseDelay
	if base < 0 {
		base = 0
	}
	maxDelay := p.MaxDelay
	if maxDelay <= 0 {
		maxDelay = DefaultMaxDelay
	}

	var d time.Duration
	switch p.Strategy {
	case StrategyImmediate:
		return 0
	case StrategyConstant:
		d = base
	case StrategyJitter:
		d = time.Duration(float64(base) * (0.5 + rand.Float64()))
	case StrategyExponential, "":
		d = exponentialDelay(base, p.multiplier(), attempt, maxDelay)
	default:
		d = exponentialDelay(base, p.multiplier(), attempt, maxDelay)
	}

	if d > maxDelay {
		d = maxDelay
	}
	if d < 0 {
		d = 0
	}
	return d
}

// attempts returns the effective attempt budget.
func (p Policy) attempts() int {
	if p.MaxAttempts < 1 {
		return DefaultMaxAttempts
	}
	return p.MaxAttempts
}

func (p Policy) multiplier() float64 {
	if p.Multiplier < 1 {
		return DefaultMultiplier
	}
	return p.Multiplier
}

// exponentialDelay computes base * mult^(attempt-1) by repeated
// multiplication, bailing out at the cap to avoid overflow.
func exponentialDelay(base time.Duration, mult float64, attempt int, maxDelay time.Duration) time.Duration {
	if base == 0 {
		return 0
	}
	d := float64(base)
	limit := float64(maxDelay)
	for i := 1; i < attempt; i++ {
		d *= mult
		if d >= limit {
			return maxDelay
		}
	}
	return time.Duration(d)
}
