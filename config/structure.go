package config

import (
	"time"

	"github.com/knadh/koanf/v2"
)

// Config is the root configuration for the hcc client.
type Config struct {
	Channel ChannelConfig `koanf:"channel"`
	Log     LogConfig     `koanf:"log"`

	// k holds the underlying Koanf instance for flexible access to custom configurations
	k *koanf.Koanf `json:"-" yaml:"-" toml:"-" mapstructure:"-"`
}

// ChannelConfig configures a channel and its retry behavior.
type ChannelConfig struct {
	URL     string            `koanf:"url" validate:"omitempty,url"`
	Timeout time.Duration     `koanf:"timeout" validate:"gt=0"`
	Headers map[string]string `koanf:"headers"`
	Retry   RetryConfig       `koanf:"retry"`
	Rate    RateConfig        `koanf:"rate"`
}

// RetryConfig configures the retry budget and backoff schedule.
type RetryConfig struct {
	MaxAttempts       int           `koanf:"maxattempts" validate:"gte=1"`
	BaseDelay         time.Duration `koanf:"basedelay" validate:"gte=0"`
	Multiplier        float64       `koanf:"multiplier" validate:"gte=1"`
	MaxDelay          time.Duration `koanf:"maxdelay" validate:"gte=0"`
	Strategy          string        `koanf:"strategy" validate:"oneof=immediate constant jitter exponential"`
	RetryableStatuses []int         `koanf:"retryablestatuses" validate:"dive,gte=100,lte=599"`
}

// RateConfig configures the optional client-side rate limiter.
// A zero limit disables rate limiting.
type RateConfig struct {
	Limit float64 `koanf:"limit" validate:"gte=0"`
	Burst int     `koanf:"burst" validate:"gte=0"`
}

// LogConfig configures logging output.
type LogConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error fatal panic disabled"`
	Pretty bool   `koanf:"pretty"`
}

// Koanf exposes the underlying instance for access to custom keys.
func (c *Config) Koanf() *koanf.Koanf {
	return c.k
}
