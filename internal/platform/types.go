// Package platform identifies the host operating system and CPU word width.
//
// Detection uses runtime.GOOS and runtime.GOARCH for the values that drive
// decisions, and gopsutil for descriptive extras (kernel architecture and
// Linux distribution). The result is reduced to a Tag such as "linux64",
// which selects both the browser introspection procedure and the driver
// archive name.
package platform

import "context"

// Linux distribution family constants.
const (
	FamilyDebian  = "debian"  // Debian, Ubuntu, Linux Mint
	FamilyRHEL    = "rhel"    // RHEL, CentOS, Rocky Linux, AlmaLinux
	FamilyFedora  = "fedora"  // Fedora
	FamilySUSE    = "suse"    // openSUSE, SLES
	FamilyArch    = "arch"    // Arch Linux, Manjaro
	FamilyAlpine  = "alpine"  // Alpine Linux
	FamilyGentoo  = "gentoo"  // Gentoo
	FamilyUnknown = "unknown" // Unrecognized distributions
)

// Info contains platform detection information.
type Info struct {
	OS         string // GOOS: "linux", "darwin", "windows", ...
	Arch       string // normalized: "amd64", "arm64", "386", ...
	ArchRaw    string // original GOARCH
	KernelArch string // kernel-reported machine, e.g. "x86_64" (may be empty)
	Platform   string // distro ID (Linux only, e.g. "ubuntu")
	Family     string // canonical distro family (Linux only)
	Version    string // distro version (Linux only)
}

// Distro contains Linux distribution information.
type Distro struct {
	ID      string
	Family  string
	Version string
}

// GetDistro returns distro information on Linux when detection succeeded.
func (i *Info) GetDistro() *Distro {
	if i.OS != "linux" || i.Platform == "" {
		return nil
	}
	return &Distro{
		ID:      i.Platform,
		Family:  i.Family,
		Version: i.Version,
	}
}

// IsLinux returns true if the platform is Linux.
func (i *Info) IsLinux() bool {
	return i.OS == "linux"
}

// IsMacOS returns true if the platform is macOS.
func (i *Info) IsMacOS() bool {
	return i.OS == "darwin"
}

// IsWindows returns true if the platform is Windows.
func (i *Info) IsWindows() bool {
	return i.OS == "windows"
}

// Is64Bit reports whether the process architecture is 64-bit.
func (i *Info) Is64Bit() bool {
	return is64Bit(i.ArchRaw)
}

// Tag derives the platform tag for this host.
func (i *Info) Tag() Tag {
	return TagFor(i.OS, i.ArchRaw)
}

// Detector is the interface for platform detection.
type Detector interface {
	Detect(ctx context.Context) (*Info, error)
}
