// Package config resolves runtime options for macmon. Precedence, lowest to
// highest: built-in defaults, an optional config file
// (~/.config/macmon/config.yaml), MACMON_* environment variables, and
// command-line flags (applied by the CLI layer on top of the loaded value).
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Built-in defaults: a 2 second cadence and the ten hungriest processes.
const (
	DefaultRefreshSeconds = 2
	DefaultLimit          = 10
	DefaultSort           = "cpu"
)

// Config carries the monitor's runtime options.
type Config struct {
	RefreshSeconds int    `mapstructure:"refresh"`
	Limit          int    `mapstructure:"limit"`
	Sort           string `mapstructure:"sort"`
	Verbose        bool   `mapstructure:"verbose"`
}

// Interval returns the refresh cadence as a duration.
func (c Config) Interval() time.Duration {
	return time.Duration(c.RefreshSeconds) * time.Second
}

// Validate rejects option values the refresh loop cannot run with. A 1
// second cadence is allowed but best-effort: CPU sampling alone blocks for
// ~1.1s, and ticker fires that land mid-collection are dropped rather than
// queued, so the effective refresh stretches to the collection time instead
// of overlapping.
func (c Config) Validate() error {
	if c.RefreshSeconds <= 0 {
		return fmt.Errorf("refresh interval must be at least 1 second, got %d", c.RefreshSeconds)
	}
	if c.Limit < 0 {
		return fmt.Errorf("process limit must not be negative, got %d", c.Limit)
	}
	return nil
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		RefreshSeconds: DefaultRefreshSeconds,
		Limit:          DefaultLimit,
		Sort:           DefaultSort,
	}
}

// Load resolves configuration from file and environment on top of the
// defaults. A missing config file is not an error.
func Load() (Config, error) {
	v := viper.New()
	v.SetDefault("refresh", DefaultRefreshSeconds)
	v.SetDefault("limit", DefaultLimit)
	v.SetDefault("sort", DefaultSort)
	v.SetDefault("verbose", false)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("$HOME/.config/macmon")

	v.SetEnvPrefix("MACMON")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}
