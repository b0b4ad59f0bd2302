package platform

import (
	"fmt"
	"runtime"
	"strings"
)

// OSFamily is the operating system part of a Tag.
type OSFamily string

const (
	Windows OSFamily = "win"
	Mac     OSFamily = "mac"
	Linux   OSFamily = "linux"
)

// String returns the tag prefix for the OS family.
func (o OSFamily) String() string {
	return string(o)
}

// Bit-width suffixes.
const (
	Bits32 = "32"
	Bits64 = "64"
)

// Tag is the canonical (OS, bit width) pair used in driver archive names.
type Tag struct {
	OS   OSFamily
	Bits string
}

// String renders the tag as it appears in archive names, e.g. "linux64".
func (t Tag) String() string {
	return string(t.OS) + t.Bits
}

// OSFamilyFor maps a GOOS value to an OS family. Anything unrecognized is
// treated as Linux.
func OSFamilyFor(goos string) OSFamily {
	switch goos {
	case "windows":
		return Windows
	case "darwin":
		return Mac
	default:
		return Linux
	}
}

// TagFor computes the tag for a GOOS/GOARCH pair. Windows is always "32"
// because drivers for it are only published as win32 builds.
func TagFor(goos, goarch string) Tag {
	os := OSFamilyFor(goos)
	if os == Windows {
		return Tag{OS: Windows, Bits: Bits32}
	}
	if is64Bit(goarch) {
		return Tag{OS: os, Bits: Bits64}
	}
	return Tag{OS: os, Bits: Bits32}
}

// Current returns the tag of the running process.
func Current() Tag {
	return TagFor(runtime.GOOS, runtime.GOARCH)
}

// ParseTag parses the String form of a Tag.
func ParseTag(s string) (Tag, error) {
	for _, os := range []OSFamily{Windows, Mac, Linux} {
		rest, ok := strings.CutPrefix(s, string(os))
		if !ok {
			continue
		}
		switch rest {
		case Bits32, Bits64:
			return Tag{OS: os, Bits: rest}, nil
		}
	}
	return Tag{}, fmt.Errorf("invalid platform tag: %q", s)
}
