package registry

import (
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/ZebulonRouseFrantzich/driverfetch/internal/browser"
	"github.com/ZebulonRouseFrantzich/driverfetch/internal/platform"
)

const (
	latestReleasePrefix = "LATEST_RELEASE_"
	archivePrefix       = "chromedriver_"
	archiveSuffix       = ".zip"
)

// Release is a driver release identifier as returned by the registry, for
// example "93.0.4577.63".
type Release string

// String returns the release text.
func (r Release) String() string {
	return string(r)
}

// LatestReleaseURL returns the lookup URL for a browser version.
func LatestReleaseURL(base string, v browser.Version) string {
	return strings.TrimRight(base, "/") + "/" + latestReleasePrefix + v.String()
}

// ArtifactURL returns the archive URL for a release and platform:
// {base}/{release}/chromedriver_{tag}.zip.
func ArtifactURL(base string, r Release, tag platform.Tag) string {
	return strings.TrimRight(base, "/") + "/" + r.String() + "/" + ArchiveName(tag)
}

// ArchiveName returns the archive file name published for tag.
func ArchiveName(tag platform.Tag) string {
	return archivePrefix + tag.String() + archiveSuffix
}

// ParseArtifactURL recovers the release and tag from an ArtifactURL.
func ParseArtifactURL(raw string) (Release, platform.Tag, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", platform.Tag{}, fmt.Errorf("parse artifact URL: %w", err)
	}

	dir, file := path.Split(strings.TrimSuffix(u.Path, "/"))
	release := path.Base(strings.TrimSuffix(dir, "/"))
	if release == "" || release == "." || release == "/" {
		return "", platform.Tag{}, fmt.Errorf("artifact URL %q has no release segment", raw)
	}

	name, ok := strings.CutPrefix(file, archivePrefix)
	if !ok {
		return "", platform.Tag{}, fmt.Errorf("artifact URL %q: unexpected file %q", raw, file)
	}
	name, ok = strings.CutSuffix(name, archiveSuffix)
	if !ok {
		return "", platform.Tag{}, fmt.Errorf("artifact URL %q: unexpected file %q", raw, file)
	}

	tag, err := platform.ParseTag(name)
	if err != nil {
		return "", platform.Tag{}, fmt.Errorf("artifact URL %q: %w", raw, err)
	}
	return Release(release), tag, nil
}

// DefaultFileName is the file name used when no destination is given:
// chromedriver_{release}_{tag}.zip.
func DefaultFileName(r Release, tag platform.Tag) string {
	return archivePrefix + r.String() + "_" + tag.String() + archiveSuffix
}
