package platform

import (
	"testing"
)

func TestNormalizeArch(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"amd64", "amd64", "amd64"},
		{"x86_64", "x86_64", "amd64"},
		{"arm64", "arm64", "arm64"},
		{"aarch64", "aarch64", "arm64"},
		{"i686", "i686", "386"},
		{"armv7l", "armv7l", "arm"},
		{"uppercase", "X86_64", "amd64"},
		{"unknown passes through", "Riscv64", "riscv64"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := normalizeArch(tt.input); got != tt.want {
				t.Errorf("normalizeArch() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIs64Bit(t *testing.T) {
	tests := []struct {
		arch string
		want bool
	}{
		{"amd64", true},
		{"arm64", true},
		{"x86_64", true},
		{"ppc64le", true},
		{"riscv64", true},
		{"s390x", true},
		{"386", false},
		{"arm", false},
		{"wasm", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.arch, func(t *testing.T) {
			if got := is64Bit(tt.arch); got != tt.want {
				t.Errorf("is64Bit(%q) = %v, want %v", tt.arch, got, tt.want)
			}
		})
	}
}

func TestNormalizePlatform(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"ubuntu", "ubuntu", "ubuntu"},
		{"Ubuntu uppercase", "Ubuntu", "ubuntu"},
		{"with spaces", "  ubuntu  ", "ubuntu"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := normalizePlatform(tt.input); got != tt.want {
				t.Errorf("normalizePlatform() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMapFamily(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"debian", "debian", "debian"},
		{"ubuntu maps to debian", "ubuntu", "debian"},
		{"centos maps to rhel", "centos", "rhel"},
		{"manjaro maps to arch", "manjaro", "arch"},
		{"RHEL all caps", "RHEL", "rhel"},
		{"empty", "", "unknown"},
		{"unrecognized", "somethingelse", "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mapFamily(tt.input); got != tt.want {
				t.Errorf("mapFamily() = %v, want %v", got, tt.want)
			}
		})
	}
}
