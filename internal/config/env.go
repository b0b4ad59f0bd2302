package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix prefixes every environment variable read by this package.
const EnvPrefix = "DRIVERFETCH"

// envOverrides lists the variables that override the config file. Pointers
// stay nil when a variable is unset.
type envOverrides struct {
	Registry       *string        `envconfig:"REGISTRY"`
	InsecureTLS    *bool          `envconfig:"INSECURE_TLS"`
	Retries        *int           `envconfig:"RETRIES"`
	ProcessTimeout *time.Duration `envconfig:"PROCESS_TIMEOUT"`
	NetworkTimeout *time.Duration `envconfig:"NETWORK_TIMEOUT"`
	LogLevel       *string        `envconfig:"LOG_LEVEL"`
	LogDev         *bool          `envconfig:"LOG_DEV"`
}

// ApplyEnv overlays DRIVERFETCH_* environment variables onto c.
// Durations use Go syntax, e.g. DRIVERFETCH_NETWORK_TIMEOUT=90s.
func ApplyEnv(c *Config) error {
	var env envOverrides
	if err := envconfig.Process(EnvPrefix, &env); err != nil {
		return fmt.Errorf("read environment: %w", err)
	}

	if env.Registry != nil {
		c.Registry = *env.Registry
	}
	if env.InsecureTLS != nil {
		c.InsecureTLS = *env.InsecureTLS
	}
	if env.Retries != nil {
		c.Retries = *env.Retries
	}
	if env.ProcessTimeout != nil {
		c.Timeouts.Process = *env.ProcessTimeout
	}
	if env.NetworkTimeout != nil {
		c.Timeouts.Network = *env.NetworkTimeout
	}
	if env.LogLevel != nil {
		c.Log.Level = *env.LogLevel
	}
	if env.LogDev != nil {
		c.Log.Development = *env.LogDev
	}
	return nil
}

type envLocation struct {
	Config string `envconfig:"CONFIG"`
}

// DefaultPath returns $DRIVERFETCH_CONFIG, or config.lua under the user
// config directory (~/.config/driverfetch on Linux).
func DefaultPath() (string, error) {
	var loc envLocation
	if err := envconfig.Process(EnvPrefix, &loc); err != nil {
		return "", fmt.Errorf("read environment: %w", err)
	}
	if loc.Config != "" {
		return loc.Config, nil
	}

	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine config directory: %w", err)
	}
	return filepath.Join(dir, "driverfetch", "config.lua"), nil
}
