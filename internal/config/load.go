package config

import (
	"context"
	"errors"
	"io/fs"

	"github.com/ZebulonRouseFrantzich/driverfetch/internal/logging"
	"github.com/ZebulonRouseFrantzich/driverfetch/internal/platform"
)

// Loader resolves the effective configuration: defaults, then the Lua
// file, then the environment.
type Loader struct {
	Path     string // empty means DefaultPath()
	Detector platform.Detector
	Logger   logging.Logger
}

// Load returns the validated configuration. A missing file is not an error.
func (l *Loader) Load(ctx context.Context) (*Config, error) {
	logger := logging.OrNop(l.Logger)

	path := l.Path
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	cfg, err := NewParser(l.Detector).WithLogger(logger).ParseFile(ctx, path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		logger.Debug("no config file, using defaults", "path", path)
		cfg = Default()
	case err != nil:
		return nil, err
	default:
		logger.Debug("config loaded", "path", path)
	}

	if err := ApplyEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
