// Package driver ties the pipeline together: detect the platform, read the
// installed browser version, resolve the matching driver release and
// download its archive.
package driver

import (
	"github.com/ZebulonRouseFrantzich/driverfetch/internal/browser"
	"github.com/ZebulonRouseFrantzich/driverfetch/internal/platform"
	"github.com/ZebulonRouseFrantzich/driverfetch/internal/registry"
)

// Driver describes a resolved browser driver.
type Driver interface {
	// Name is the driver executable name.
	Name() string
	// URL is where the driver archive is published.
	URL() string
	// Version is the installed browser version the driver was resolved for.
	Version() string
	// LatestReleaseVersion is the driver release the registry returned.
	LatestReleaseVersion() string
}

// ChromeDriver is the driver for Chrome, Chromium and Edge. All three share
// the chromedriver release registry.
type ChromeDriver struct {
	browser        browser.Family
	browserVersion browser.Version
	release        registry.Release
	platform       platform.Tag
	url            string
}

// NewChromeDriver builds a ChromeDriver from pipeline outputs.
func NewChromeDriver(f browser.Family, v browser.Version, r registry.Release, tag platform.Tag, url string) *ChromeDriver {
	return &ChromeDriver{
		browser:        f,
		browserVersion: v,
		release:        r,
		platform:       tag,
		url:            url,
	}
}

// Name returns "chromedriver".
func (d *ChromeDriver) Name() string { return "chromedriver" }

// URL returns the archive URL.
func (d *ChromeDriver) URL() string { return d.url }

// Version returns the browser version.
func (d *ChromeDriver) Version() string { return d.browserVersion.String() }

// LatestReleaseVersion returns the resolved driver release.
func (d *ChromeDriver) LatestReleaseVersion() string { return d.release.String() }

// Browser returns the browser family the driver was resolved for.
func (d *ChromeDriver) Browser() browser.Family { return d.browser }

// Platform returns the platform tag of the archive.
func (d *ChromeDriver) Platform() platform.Tag { return d.platform }

var _ Driver = (*ChromeDriver)(nil)
