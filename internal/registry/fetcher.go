package registry

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-resty/resty/v2"

	"github.com/ZebulonRouseFrantzich/driverfetch/internal/destlock"
	"github.com/ZebulonRouseFrantzich/driverfetch/internal/logging"
	"github.com/ZebulonRouseFrantzich/driverfetch/internal/platform"
	"github.com/ZebulonRouseFrantzich/driverfetch/internal/stage"
)

// Artifact describes a downloaded driver archive.
type Artifact struct {
	Path     string
	URL      string
	Release  Release
	Platform platform.Tag
	Size     int64
}

// Fetcher downloads driver archives.
type Fetcher struct {
	base   string
	client *resty.Client
	logger logging.Logger
}

// NewFetcher creates a fetcher. Setting opts.InsecureSkipVerify disables
// certificate checks for every download made by this fetcher.
func NewFetcher(opts Options) *Fetcher {
	o := opts.withDefaults()
	if o.InsecureSkipVerify {
		o.Logger.Warn("TLS certificate verification disabled for artifact downloads", "base_url", o.BaseURL)
	}
	return &Fetcher{
		base:   o.BaseURL,
		client: newClient(o, o.InsecureSkipVerify),
		logger: o.Logger,
	}
}

// URL returns the archive URL for release and tag.
func (f *Fetcher) URL(release Release, tag platform.Tag) string {
	return ArtifactURL(f.base, release, tag)
}

// Fetch downloads the archive for release and tag and writes it to dest.
//
// An empty dest means DefaultFileName in the working directory; an existing
// directory means DefaultFileName inside it. The parent directory must
// exist. A body that is not a zip archive, such as an HTML error page
// served with 200, is ErrRegistry. The body is read completely before anything touches the disk, and
// the file is written to a temporary name and renamed into place, so dest
// is never left half written. An existing file at dest is replaced. A
// concurrent Fetch to the same dest fails with ErrFilesystem.
func (f *Fetcher) Fetch(ctx context.Context, release Release, tag platform.Tag, dest string) (*Artifact, error) {
	u := f.URL(release, tag)
	f.logger.Debug("fetching driver archive", "url", u)

	resp, err := f.client.R().SetContext(ctx).Get(u)
	if err != nil {
		return nil, stage.New(stage.Artifact, stage.ErrNetwork, u, err)
	}
	if !resp.IsSuccess() {
		return nil, stage.Errorf(stage.Artifact, stage.ErrRegistry, u, "unexpected status %s", statusText(resp))
	}
	body := resp.Body()
	if detected, ok := isZip(body); !ok {
		return nil, stage.Errorf(stage.Artifact, stage.ErrRegistry, u, "response is not a zip archive (detected %s)", detected)
	}

	path := resolveDest(dest, release, tag)
	lock, err := destlock.Acquire(ctx, path)
	if err != nil {
		return nil, stage.New(stage.Artifact, stage.ErrFilesystem, path, err)
	}
	defer lock.Release()

	if err := writeFile(path, body); err != nil {
		return nil, stage.New(stage.Artifact, stage.ErrFilesystem, path, err)
	}

	f.logger.Info("driver archive saved", "path", path, "bytes", len(body))
	return &Artifact{
		Path:     path,
		URL:      u,
		Release:  release,
		Platform: tag,
		Size:     int64(len(body)),
	}, nil
}

// isZip reports whether body is a zip archive, or a format built on zip.
// It also returns the detected type for error messages.
func isZip(body []byte) (string, bool) {
	detected := mimetype.Detect(body)
	for m := detected; m != nil; m = m.Parent() {
		if m.Is("application/zip") {
			return detected.String(), true
		}
	}
	return detected.String(), false
}

func resolveDest(dest string, release Release, tag platform.Tag) string {
	name := DefaultFileName(release, tag)
	if dest == "" {
		return name
	}
	if info, err := os.Stat(dest); err == nil && info.IsDir() {
		return filepath.Join(dest, name)
	}
	return dest
}

// writeFile writes data to a temp file next to path and renames it over
// path. The directory is not created.
func writeFile(path string, data []byte) error {
	dir := filepath.Dir(path)

	tmp, err := os.CreateTemp(dir, ".driverfetch-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	cleanupNeeded := true
	defer func() {
		if cleanupNeeded {
			tmp.Close()
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}

	cleanupNeeded = false
	return nil
}
