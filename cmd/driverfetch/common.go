package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ZebulonRouseFrantzich/driverfetch/internal/config"
	"github.com/ZebulonRouseFrantzich/driverfetch/internal/driver"
	"github.com/ZebulonRouseFrantzich/driverfetch/internal/logging"
	"github.com/ZebulonRouseFrantzich/driverfetch/internal/metrics"
	"github.com/ZebulonRouseFrantzich/driverfetch/internal/platform"
)

// commandTimeout bounds a whole CLI invocation. Each stage has its own
// tighter timeout from the config.
const commandTimeout = 10 * time.Minute

// globalOpts are accepted by every command that runs the pipeline.
type globalOpts struct {
	verbose    bool
	configPath string
}

// parseGlobal consumes a global option at args[i]. It returns the number of
// arguments consumed, 0 if args[i] is not a global option.
func (g *globalOpts) parseGlobal(args []string, i int) (int, error) {
	switch args[i] {
	case "--verbose", "-v":
		g.verbose = true
		return 1, nil
	case "--config":
		v, err := optionValue(args, i)
		if err != nil {
			return 0, err
		}
		g.configPath = v
		return 2, nil
	}
	return 0, nil
}

// optionValue returns the value following the option at args[i].
func optionValue(args []string, i int) (string, error) {
	if i+1 >= len(args) || args[i+1] == "" {
		return "", fmt.Errorf("option %s requires a value", args[i])
	}
	return args[i+1], nil
}

// loadConfig reads the config file and environment overrides.
func loadConfig(ctx context.Context, g globalOpts) (*config.Config, error) {
	path := g.configPath
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return nil, fmt.Errorf("locate config: %w", err)
		}
		path = p
	}

	cfg, err := (&config.Loader{Path: path, Detector: platform.NewDetector()}).Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load config %s: %s", path, config.FormatError(err, g.verbose))
	}
	return cfg, nil
}

// newLogger builds the zap logger. --verbose forces debug level.
func newLogger(cfg *config.Config, verbose bool) (*logging.ZapLogger, error) {
	lc := logging.Config{
		Level:       cfg.Log.Level,
		Development: cfg.Log.Development,
	}
	if verbose {
		lc.Level = "debug"
	}
	return logging.New(lc)
}

// setup loads config, applies mutate, and returns a ready manager. met may
// be nil. The returned cleanup flushes the logger.
func setup(ctx context.Context, g globalOpts, met *metrics.Metrics, mutate func(*config.Config) error) (*driver.Manager, func(), error) {
	cfg, err := loadConfig(ctx, g)
	if err != nil {
		return nil, nil, err
	}
	if mutate != nil {
		if err := mutate(cfg); err != nil {
			return nil, nil, err
		}
		if err := cfg.Validate(); err != nil {
			return nil, nil, err
		}
	}

	logger, err := newLogger(cfg, g.verbose)
	if err != nil {
		return nil, nil, fmt.Errorf("create logger: %w", err)
	}
	cleanup := func() { _ = logger.Sync() }

	m, err := driver.FromConfig(cfg, logger, met)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return m, cleanup, nil
}

// report is the machine-readable summary printed with --yaml.
type report struct {
	RunID          string `yaml:"run_id"`
	Browser        string `yaml:"browser"`
	BrowserVersion string `yaml:"browser_version"`
	Platform       string `yaml:"platform"`
	Driver         string `yaml:"driver"`
	Release        string `yaml:"release"`
	URL            string `yaml:"url"`
	Path           string `yaml:"path,omitempty"`
	Size           int64  `yaml:"size,omitempty"`
	Duration       string `yaml:"duration,omitempty"`
}

func newReport(res *driver.Result) report {
	r := report{
		RunID:          res.RunID,
		Browser:        res.Browser.String(),
		BrowserVersion: res.BrowserVersion.String(),
		Platform:       res.Tag.String(),
		Driver:         res.Driver.Name(),
		Release:        res.Release.String(),
		URL:            res.Driver.URL(),
	}
	if res.Duration > 0 {
		r.Duration = res.Duration.Round(time.Millisecond).String()
	}
	if res.Artifact != nil {
		r.Path = res.Artifact.Path
		r.Size = res.Artifact.Size
	}
	return r
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}

// writeSummary prints the human-readable form of a result.
func writeSummary(w io.Writer, res *driver.Result) {
	fmt.Fprintf(w, "Browser:         %s %s\n", res.Browser.DisplayName(), res.BrowserVersion)
	fmt.Fprintf(w, "Platform:        %s\n", res.Tag)
	fmt.Fprintf(w, "Driver release:  %s\n", res.Release)
	fmt.Fprintf(w, "Archive URL:     %s\n", res.Driver.URL())
	if res.Artifact != nil {
		fmt.Fprintf(w, "Saved to:        %s (%s)\n", res.Artifact.Path, formatSize(res.Artifact.Size))
	}
}

// formatSize formats bytes as human-readable size
func formatSize(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return strconv.FormatInt(bytes, 10) + " B"
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
