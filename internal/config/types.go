package config

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/ZebulonRouseFrantzich/driverfetch/internal/browser"
	"github.com/ZebulonRouseFrantzich/driverfetch/internal/registry"
)

// Defaults applied before the config file and environment are read.
const (
	DefaultRegistry       = registry.DefaultBaseURL
	DefaultProcessTimeout = browser.DefaultTimeout
	DefaultNetworkTimeout = registry.DefaultTimeout
	DefaultLogLevel       = "info"

	// MaxRetries caps the retries setting.
	MaxRetries = 10
)

// Config is the driverfetch configuration.
type Config struct {
	// Registry is the base URL of the driver registry.
	Registry string

	// InsecureTLS disables certificate checks for archive downloads.
	InsecureTLS bool

	// Retries is the number of extra attempts for registry requests.
	Retries int

	Timeouts Timeouts
	Log      LogConfig

	// Browsers holds per-family overrides keyed by family name.
	Browsers map[browser.Family]BrowserConfig
}

// Timeouts bounds the blocking stages.
type Timeouts struct {
	Process time.Duration
	Network time.Duration
}

// LogConfig configures the CLI logger.
type LogConfig struct {
	Level       string
	Development bool
}

// BrowserConfig overrides introspection for one browser family.
type BrowserConfig struct {
	// Commands replaces the built-in candidate commands, in order.
	Commands [][]string

	// Timeout replaces Timeouts.Process for this family when non-zero.
	Timeout time.Duration
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Registry: DefaultRegistry,
		Timeouts: Timeouts{
			Process: DefaultProcessTimeout,
			Network: DefaultNetworkTimeout,
		},
		Log:      LogConfig{Level: DefaultLogLevel},
		Browsers: map[browser.Family]BrowserConfig{},
	}
}

var logLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}

// Validate checks the configuration for values the pipeline cannot use.
func (c *Config) Validate() error {
	if err := validateRegistry(c.Registry); err != nil {
		return &ValidationError{Field: "registry", Message: err.Error()}
	}

	if c.Retries < 0 || c.Retries > MaxRetries {
		return &ValidationError{
			Field:   "retries",
			Message: fmt.Sprintf("must be between 0 and %d (got %d)", MaxRetries, c.Retries),
		}
	}

	if c.Timeouts.Process <= 0 {
		return &ValidationError{Field: "timeouts.process", Message: "must be positive"}
	}
	if c.Timeouts.Network <= 0 {
		return &ValidationError{Field: "timeouts.network", Message: "must be positive"}
	}

	if !logLevels[strings.ToLower(c.Log.Level)] {
		return &ValidationError{
			Field:   "log.level",
			Message: fmt.Sprintf("unknown level %q (expected debug, info, warn or error)", c.Log.Level),
		}
	}

	for _, f := range c.browserFamilies() {
		bc := c.Browsers[f]
		field := "browsers." + f.String()
		if pf, err := browser.ParseFamily(f.String()); err != nil {
			return &ValidationError{Field: field, Message: err.Error()}
		} else if pf != f {
			return &ValidationError{Field: field, Message: fmt.Sprintf("use the canonical name %q", pf)}
		}
		if bc.Timeout < 0 {
			return &ValidationError{Field: field + ".timeout", Message: "must not be negative"}
		}
		for i, argv := range bc.Commands {
			if len(argv) == 0 || strings.TrimSpace(argv[0]) == "" {
				return &ValidationError{
					Field:   fmt.Sprintf("%s.commands[%d]", field, i),
					Message: "command cannot be empty",
				}
			}
		}
	}

	return nil
}

// CommandOverrides returns the per-family command overrides.
func (c *Config) CommandOverrides() browser.Overrides {
	out := browser.Overrides{}
	for f, bc := range c.Browsers {
		if len(bc.Commands) > 0 {
			out[f] = bc.Commands
		}
	}
	return out
}

// ProcessTimeouts returns the per-family process timeout overrides.
func (c *Config) ProcessTimeouts() map[browser.Family]time.Duration {
	out := map[browser.Family]time.Duration{}
	for f, bc := range c.Browsers {
		if bc.Timeout > 0 {
			out[f] = bc.Timeout
		}
	}
	return out
}

// browserFamilies returns the configured families in a stable order.
func (c *Config) browserFamilies() []browser.Family {
	families := make([]browser.Family, 0, len(c.Browsers))
	for f := range c.Browsers {
		families = append(families, f)
	}
	sort.Slice(families, func(i, j int) bool { return families[i] < families[j] })
	return families
}

// ValidationError represents a config validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return "config validation failed for " + e.Field + ": " + e.Message
	}
	return "config validation failed: " + e.Message
}

// validateRegistry requires an absolute http or https URL.
func validateRegistry(raw string) error {
	if raw == "" {
		return fmt.Errorf("registry URL cannot be empty")
	}

	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid registry URL: %w", err)
	}

	if u.Scheme != "https" && u.Scheme != "http" {
		return fmt.Errorf("registry URL must use https:// or http:// scheme (got: %q)", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("registry URL has no host")
	}
	if u.RawQuery != "" || u.Fragment != "" {
		return fmt.Errorf("registry URL must not carry a query or fragment")
	}

	return nil
}
