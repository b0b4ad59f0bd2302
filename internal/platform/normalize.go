package platform

import (
	"strings"
)

// familyMap maps distribution names to their canonical family names.
var familyMap = map[string]string{
	"debian":   FamilyDebian,
	"ubuntu":   FamilyDebian, // gopsutil might return ubuntu as family
	"rhel":     FamilyRHEL,
	"centos":   FamilyRHEL,
	"rocky":    FamilyRHEL,
	"fedora":   FamilyFedora,
	"suse":     FamilySUSE,
	"opensuse": FamilySUSE,
	"arch":     FamilyArch,
	"manjaro":  FamilyArch,
	"alpine":   FamilyAlpine,
	"gentoo":   FamilyGentoo,
}

// arch64 lists 64-bit architectures under both Go and kernel spellings.
var arch64 = map[string]bool{
	"amd64":    true,
	"x86_64":   true,
	"arm64":    true,
	"aarch64":  true,
	"ppc64":    true,
	"ppc64le":  true,
	"mips64":   true,
	"mips64le": true,
	"riscv64":  true,
	"s390x":    true,
	"loong64":  true,
	"sparc64":  true,
}

func is64Bit(arch string) bool {
	return arch64[strings.ToLower(strings.TrimSpace(arch))]
}

// normalizeArch converts GOARCH or kernel machine names to Go's spelling.
// Unknown values pass through lowercased.
func normalizeArch(arch string) string {
	a := strings.ToLower(strings.TrimSpace(arch))
	switch a {
	case "amd64", "x86_64":
		return "amd64"
	case "arm64", "aarch64":
		return "arm64"
	case "386", "i386", "i686", "x86":
		return "386"
	case "arm", "armv7l", "armv6l":
		return "arm"
	default:
		return a
	}
}

// normalizePlatform converts platform IDs to lowercase for consistency.
func normalizePlatform(platform string) string {
	return strings.ToLower(strings.TrimSpace(platform))
}

// mapFamily maps distribution family strings to canonical family names.
func mapFamily(family string) string {
	normalized := strings.ToLower(strings.TrimSpace(family))
	if canonical, ok := familyMap[normalized]; ok {
		return canonical
	}
	return FamilyUnknown
}
