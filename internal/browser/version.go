package browser

import (
	"errors"
	"regexp"
	"strings"
)

var versionRegex = regexp.MustCompile(`\d+\.\d+\.\d+`)

// ErrNoVersion is returned by ParseVersion when the text holds no version.
var ErrNoVersion = errors.New("no version found in output")

// Version is a browser version of the form MAJOR.MINOR.BUILD.
type Version string

// String returns the version text.
func (v Version) String() string {
	return string(v)
}

// Major returns the first component.
func (v Version) Major() string {
	major, _, _ := strings.Cut(string(v), ".")
	return major
}

// ParseVersion returns the first MAJOR.MINOR.BUILD run found in output.
// A four-component version such as 93.0.4577.82 yields 93.0.4577.
func ParseVersion(output string) (Version, error) {
	match := versionRegex.FindString(output)
	if match == "" {
		return "", ErrNoVersion
	}
	return Version(match), nil
}
