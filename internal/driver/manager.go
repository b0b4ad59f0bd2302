package driver

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/ZebulonRouseFrantzich/driverfetch/internal/browser"
	"github.com/ZebulonRouseFrantzich/driverfetch/internal/config"
	"github.com/ZebulonRouseFrantzich/driverfetch/internal/logging"
	"github.com/ZebulonRouseFrantzich/driverfetch/internal/metrics"
	"github.com/ZebulonRouseFrantzich/driverfetch/internal/platform"
	"github.com/ZebulonRouseFrantzich/driverfetch/internal/registry"
	"github.com/ZebulonRouseFrantzich/driverfetch/internal/stage"
)

// VersionExtractor reads the installed browser version.
type VersionExtractor interface {
	Extract(ctx context.Context, f browser.Family, os platform.OSFamily) (browser.Version, error)
}

// ReleaseResolver maps a browser version to a driver release.
type ReleaseResolver interface {
	LatestRelease(ctx context.Context, v browser.Version) (registry.Release, error)
}

// ArtifactFetcher downloads driver archives.
type ArtifactFetcher interface {
	URL(r registry.Release, tag platform.Tag) string
	Fetch(ctx context.Context, r registry.Release, tag platform.Tag, dest string) (*registry.Artifact, error)
}

// Config holds the pipeline stages. Logger and Metrics are optional.
type Config struct {
	Detector  platform.Detector
	Extractor VersionExtractor
	Resolver  ReleaseResolver
	Fetcher   ArtifactFetcher
	Logger    logging.Logger
	Metrics   *metrics.Metrics
}

// Manager runs the acquisition pipeline. It holds no per-run state and is
// safe for concurrent use.
type Manager struct {
	detector  platform.Detector
	extractor VersionExtractor
	resolver  ReleaseResolver
	fetcher   ArtifactFetcher
	logger    logging.Logger
	metrics   *metrics.Metrics
	now       func() time.Time
	newID     func() string
}

// NewManager creates a Manager.
func NewManager(cfg Config) (*Manager, error) {
	switch {
	case cfg.Detector == nil:
		return nil, errors.New("driver: detector is required")
	case cfg.Extractor == nil:
		return nil, errors.New("driver: extractor is required")
	case cfg.Resolver == nil:
		return nil, errors.New("driver: resolver is required")
	case cfg.Fetcher == nil:
		return nil, errors.New("driver: fetcher is required")
	}
	return &Manager{
		detector:  cfg.Detector,
		extractor: cfg.Extractor,
		resolver:  cfg.Resolver,
		fetcher:   cfg.Fetcher,
		logger:    logging.OrNop(cfg.Logger),
		metrics:   cfg.Metrics,
		now:       time.Now,
		newID:     uuid.NewString,
	}, nil
}

// FromConfig builds a Manager with the real detector, extractor and
// registry clients configured from c.
// m may be nil.
func FromConfig(c *config.Config, logger logging.Logger, m *metrics.Metrics) (*Manager, error) {
	logger = logging.OrNop(logger)

	opts := registry.Options{
		BaseURL: c.Registry,
		Timeout: c.Timeouts.Network,
		Retries: c.Retries,
		Logger:  logger,
	}
	fetchOpts := opts
	fetchOpts.InsecureSkipVerify = c.InsecureTLS

	return NewManager(Config{
		Detector: platform.NewDetector(),
		Extractor: browser.NewExtractor(browser.Options{
			Timeout:   c.Timeouts.Process,
			Timeouts:  c.ProcessTimeouts(),
			Overrides: c.CommandOverrides(),
			Logger:    logger,
		}),
		Resolver: registry.NewResolver(opts),
		Fetcher:  registry.NewFetcher(fetchOpts),
		Logger:   logger,
		Metrics:  m,
	})
}

// Result is the outcome of a pipeline run.
type Result struct {
	RunID          string
	Platform       *platform.Info
	Tag            platform.Tag
	Browser        browser.Family
	BrowserVersion browser.Version
	Release        registry.Release
	Driver         *ChromeDriver
	Artifact       *registry.Artifact // nil for Resolve
	Duration       time.Duration
}

// Detect runs the platform stage.
func (m *Manager) Detect(ctx context.Context) (*platform.Info, error) {
	defer m.timeStage(stage.Platform, m.now())
	info, err := m.detector.Detect(ctx)
	if err != nil {
		return nil, stage.New(stage.Platform, nil, "", err)
	}
	return info, nil
}

// BrowserVersion runs the platform and version stages.
func (m *Manager) BrowserVersion(ctx context.Context, f browser.Family) (browser.Version, platform.Tag, error) {
	info, err := m.Detect(ctx)
	if err != nil {
		return "", platform.Tag{}, err
	}
	tag := info.Tag()

	v, err := m.extract(ctx, f, tag.OS)
	if err != nil {
		return "", tag, err
	}
	return v, tag, nil
}

// Resolve runs every stage except the download.
func (m *Manager) Resolve(ctx context.Context, f browser.Family) (*Result, error) {
	start := m.now()
	runID := m.newID()

	res, err := m.resolve(ctx, runID, f)
	m.finish("resolve", runID, f, err)
	if err != nil {
		return nil, err
	}
	res.Duration = m.now().Sub(start)
	return res, nil
}

// AcquireOptions selects what Acquire downloads and where.
type AcquireOptions struct {
	Family browser.Family
	// Dest is the archive path. Empty means registry.DefaultFileName in the
	// working directory; an existing directory means that name inside it.
	Dest string
}

// Acquire runs the full pipeline and writes the driver archive.
func (m *Manager) Acquire(ctx context.Context, opts AcquireOptions) (*Result, error) {
	start := m.now()
	runID := m.newID()

	res, err := m.resolve(ctx, runID, opts.Family)
	if err == nil {
		res.Artifact, err = m.fetch(ctx, res, opts.Dest)
	}
	m.finish("acquire", runID, opts.Family, err)
	if err != nil {
		return nil, err
	}
	res.Duration = m.now().Sub(start)
	art := res.Artifact

	m.logger.Info("driver acquired",
		"run_id", runID,
		"browser", opts.Family.String(),
		"release", res.Release.String(),
		"path", art.Path,
		"duration", res.Duration.String(),
	)
	return res, nil
}

func (m *Manager) resolve(ctx context.Context, runID string, f browser.Family) (*Result, error) {
	info, err := m.Detect(ctx)
	if err != nil {
		return nil, err
	}
	tag := info.Tag()
	m.logger.Debug("platform detected", "run_id", runID, "tag", tag.String(), "arch", info.Arch)

	v, err := m.extract(ctx, f, tag.OS)
	if err != nil {
		return nil, err
	}
	m.logger.Debug("browser version", "run_id", runID, "browser", f.String(), "version", v.String())

	release, err := m.latestRelease(ctx, v)
	if err != nil {
		return nil, err
	}
	m.logger.Debug("driver release", "run_id", runID, "release", release.String())

	url := m.fetcher.URL(release, tag)
	return &Result{
		RunID:          runID,
		Platform:       info,
		Tag:            tag,
		Browser:        f,
		BrowserVersion: v,
		Release:        release,
		Driver:         NewChromeDriver(f, v, release, tag, url),
	}, nil
}

func (m *Manager) extract(ctx context.Context, f browser.Family, os platform.OSFamily) (browser.Version, error) {
	defer m.timeStage(stage.Version, m.now())
	return m.extractor.Extract(ctx, f, os)
}

func (m *Manager) latestRelease(ctx context.Context, v browser.Version) (registry.Release, error) {
	defer m.timeStage(stage.Release, m.now())
	return m.resolver.LatestRelease(ctx, v)
}

func (m *Manager) fetch(ctx context.Context, res *Result, dest string) (*registry.Artifact, error) {
	defer m.timeStage(stage.Artifact, m.now())
	art, err := m.fetcher.Fetch(ctx, res.Release, res.Tag, dest)
	if err != nil {
		return nil, err
	}
	m.metrics.ArchiveWritten(art.Size)
	return art, nil
}

func (m *Manager) timeStage(s stage.Stage, start time.Time) {
	m.metrics.ObserveStage(s, m.now().Sub(start))
}

// finish records the run outcome and logs failures once.
func (m *Manager) finish(op, runID string, f browser.Family, err error) {
	m.metrics.RunFinished(f.String(), op, err, m.now())
	if err == nil {
		return
	}
	m.logger.Error("driver pipeline failed",
		"run_id", runID,
		"operation", op,
		"browser", f.String(),
		"stage", stage.Of(err).String(),
		"error", err,
	)
}
