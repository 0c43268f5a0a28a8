package config

import (
	"github.com/hcc-go/hcc/retry"
)

// Policy converts the retry section into a retry.Policy.
func (c *RetryConfig) Policy() retry.Policy {
	return retry.Policy{
		MaxAttempts: c.MaxAttempts,
		BaseDelay:   c.BaseDelay,
		Multiplier:  c.Multiplier,
		MaxDelay:    c.MaxDelay,
		Strategy:    retry.Strategy(c.Strategy),
	}
}
