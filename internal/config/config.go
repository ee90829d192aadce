// Package config provides YAML-based configuration loading with
// environment overrides for the fair2048 verifier.
package config

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// Config is the top-level configuration.
type Config struct {
	// Database is the path to the sessions database.
	Database string `yaml:"database" env:"FAIR2048_DB"`

	// WinExponent is the tile exponent that marks a session won.
	// 11 is the classic 2048 tile.
	WinExponent uint8 `yaml:"win_exponent" env:"FAIR2048_WIN_EXPONENT"`

	Validation ValidationConfig `yaml:"validation"`
	Log        LogConfig        `yaml:"log"`
}

// ValidationConfig selects the transformation validation mode.
type ValidationConfig struct {
	// Mode is "strict" (recompute slide and spawn from the derived seed,
	// require an exact match) or "loose" (only require a single plausible
	// spawned tile). Strict is the recommended default.
	Mode string `yaml:"mode" env:"FAIR2048_VALIDATION_MODE"`
}

// LogConfig controls logging output.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level" env:"FAIR2048_LOG_LEVEL"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Database:    "~/.fair2048/sessions.db",
		WinExponent: 11,
		Validation:  ValidationConfig{Mode: "strict"},
		Log:         LogConfig{Level: "info"},
	}
}

// Validate checks the configuration and reports every problem at once.
func (c Config) Validate() error {
	var result *multierror.Error

	if c.Database == "" {
		result = multierror.Append(result, fmt.Errorf("database path must not be empty"))
	}
	if c.WinExponent < 1 || c.WinExponent > 15 {
		result = multierror.Append(result, fmt.Errorf("win_exponent %d out of range 1..15", c.WinExponent))
	}
	switch c.Validation.Mode {
	case "strict", "loose":
	default:
		result = multierror.Append(result, fmt.Errorf("validation.mode %q, want strict or loose", c.Validation.Mode))
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		result = multierror.Append(result, fmt.Errorf("log.level %q, want debug, info, warn or error", c.Log.Level))
	}

	return result.ErrorOrNil()
}
