// Package config loads hcc client configuration from defaults, YAML files,
// and environment variables, in that order of increasing priority.
package config

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	env "github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix for environment variable overrides,
// e.g. HCC_CHANNEL_TIMEOUT=5s sets channel.timeout.
const EnvPrefix = "HCC_"

// Load loads configuration from multiple sources with priority:
// 1. Environment variables (highest priority)
// 2. The optional hcc.yaml file in the working directory
// 3. Default values (lowest priority)
func Load() (*Config, error) {
	return LoadFile("hcc.yaml")
}

// LoadFile loads configuration using path as the YAML source.
// The file is optional; defaults and environment variables still apply.
func LoadFile(path string) (*Config, error) {
	k := koanf.New(".")

	if err := loadDefaults(k); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// YAML file is optional
	_ = k.Load(file.Provider(path), yaml.Parser())

	if err := loadEnv(k); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	return finalize(k)
}

// LoadBytes loads configuration from in-memory YAML, layered over defaults.
// Environment variables still take priority.
func LoadBytes(b []byte) (*Config, error) {
	k := koanf.New(".")

	if err := loadDefaults(k); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if err := k.Load(rawbytes.Provider(b), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := loadEnv(k); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	return finalize(k)
}

func finalize(k *koanf.Koanf) (*Config, error) {
	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.k = k

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func loadEnv(k *koanf.Koanf) error {
	return k.Load(env.Provider(".", env.Opt{
		Prefix: EnvPrefix,
		TransformFunc: func(key, value string) (string, any) {
			// Underscores separate key levels, so leaf names are concatenated:
			// HCC_CHANNEL_RETRY_MAXATTEMPTS sets channel.retry.maxattempts.
			key = strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(key, EnvPrefix)), "_", ".")
			return key, value
		},
	}), nil)
}

func loadDefaults(k *koanf.Koanf) error {
	defaults := map[string]any{
		"channel.url":     "",
		"channel.timeout": "2s",

		"channel.retry.maxattempts": 5,
		"channel.retry.basedelay":   "200ms",
		"channel.retry.multiplier":  2.0,
		"channel.retry.maxdelay":    "30s",
		"channel.retry.strategy":    "exponential",

		"channel.rate.limit": 0,
		"channel.rate.burst": 0,

		"log.level":  "info",
		"log.pretty": false,
	}

	return k.Load(confmap.Provider(defaults, "."), nil)
}
