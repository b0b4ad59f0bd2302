// Package browser finds out which version of a browser is installed.
//
// Each (OS family, browser family) pair maps to an ordered list of
// introspection commands. The first command that prints anything wins, and
// the first dotted three-component number in its output is the version.
package browser

import (
	"fmt"
	"strings"
)

// Family is a supported browser family.
type Family string

const (
	Chrome       Family = "chrome"
	Chromium     Family = "chromium"
	EdgeChromium Family = "msedge"
)

// Families lists every supported family in display order.
var Families = []Family{Chrome, Chromium, EdgeChromium}

// String returns the canonical name of the family.
func (f Family) String() string {
	return string(f)
}

// DisplayName returns a human readable name.
func (f Family) DisplayName() string {
	switch f {
	case Chrome:
		return "Google Chrome"
	case Chromium:
		return "Chromium"
	case EdgeChromium:
		return "Microsoft Edge"
	default:
		return string(f)
	}
}

// ParseFamily parses a browser name. It is case-insensitive and accepts
// "edge" as an alias for "msedge".
func ParseFamily(s string) (Family, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "chrome", "google-chrome":
		return Chrome, nil
	case "chromium":
		return Chromium, nil
	case "msedge", "edge":
		return EdgeChromium, nil
	}
	return "", fmt.Errorf("unknown browser %q (supported: chrome, chromium, msedge)", s)
}
