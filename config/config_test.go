package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hcc-go/hcc/retry"
)

func TestLoadBytesDefaults(t *testing.T) {
	cfg, err := LoadBytes(nil)
	require.NoError(t, err)

	assert.Equal(t, 2*time.Second, cfg.Channel.Timeout)
	assert.Equal(t, 5, cfg.Channel.Retry.MaxAttempts)
	assert.Equal(t, 200*time.Millisecond, cfg.Channel.Retry.BaseDelay)
	assert.Equal(t, 30*time.Second, cfg.Channel.Retry.MaxDelay)
	assert.InDelta(t, 2.0, cfg.Channel.Retry.Multiplier, 0)
	assert.Equal(t, "exponential", cfg.Channel.Retry.Strategy)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.False(t, cfg.Log.Pretty)
}

func TestLoadBytesOverridesDefaults(t *testing.T) {
	yamlCfg := []byte(`
channel:
  url: https://api.example.com/things
  timeout: 5s
  retry:
    maxattempts: 3
    basedelay: 100ms
    strategy: jitter
    retryablestatuses: [429, 503]
  headers:
    User-Agent: hcc-test
log:
  level: debug
  pretty: true
`)

	cfg, err := LoadBytes(yamlCfg)
	require.NoError(t, err)

	assert.Equal(t, "https://api.example.com/things", cfg.Channel.URL)
	assert.Equal(t, 5*time.Second, cfg.Channel.Timeout)
	assert.Equal(t, 3, cfg.Channel.Retry.MaxAttempts)
	assert.Equal(t, 100*time.Millisecond, cfg.Channel.Retry.BaseDelay)
	assert.Equal(t, "jitter", cfg.Channel.Retry.Strategy)
	assert.Equal(t, []int{429, 503}, cfg.Channel.Retry.RetryableStatuses)
	assert.Equal(t, "hcc-test", cfg.Channel.Headers["User-Agent"])
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Log.Pretty)
}

func TestEnvironmentOverridesFile(t *testing.T) {
	t.Setenv("HCC_CHANNEL_RETRY_MAXATTEMPTS", "9")
	t.Setenv("HCC_LOG_LEVEL", "warn")

	cfg, err := LoadBytes([]byte("channel:\n  retry:\n    maxattempts: 3\n"))
	require.NoError(t, err)

	assert.Equal(t, 9, cfg.Channel.Retry.MaxAttempts)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadFileMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Channel.Retry.MaxAttempts)
}

func TestLoadFileReadsYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hcc.yaml")
	require.NoError(t, os.WriteFile(path, []byte("channel:\n  timeout: 7s\n"), 0o600))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 7*time.Second, cfg.Channel.Timeout)
}

func TestValidationRejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"zero attempts", "channel:\n  retry:\n    maxattempts: 0\n"},
		{"bad strategy", "channel:\n  retry:\n    strategy: fibonacci\n"},
		{"bad url", "channel:\n  url: '::not a url::'\n"},
		{"bad status", "channel:\n  retry:\n    retryablestatuses: [99]\n"},
		{"bad level", "log:\n  level: loud\n"},
		{"negative timeout", "channel:\n  timeout: -1s\n"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadBytes([]byte(tc.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid configuration")
		})
	}
}

func TestRetryConfigPolicy(t *testing.T) {
	cfg, err := LoadBytes([]byte(`
channel:
  retry:
    maxattempts: 4
    basedelay: 50ms
    multiplier: 3
    maxdelay: 10s
    strategy: exponential
`))
	require.NoError(t, err)

	p := cfg.Channel.Retry.Policy()
	assert.Equal(t, retry.Policy{
		MaxAttempts: 4,
		BaseDelay:   50 * time.Millisecond,
		Multiplier:  3,
		MaxDelay:    10 * time.Second,
		Strategy:    retry.StrategyExponential,
	}, p)
}

func TestKoanfAccessor(t *testing.T) {
	cfg, err := LoadBytes([]byte("custom:\n  key: value\n"))
	require.NoError(t, err)
	require.NotNil(t, cfg.Koanf())
	assert.Equal(t, "value", cfg.Koanf().String("custom.key"))
}
