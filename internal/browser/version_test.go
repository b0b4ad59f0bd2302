package browser

import (
	"errors"
	"testing"
)

func TestParseVersion(t *testing.T) {
	tests := []struct {
		name    string
		output  string
		want    Version
		wantErr bool
	}{
		{"chrome linux", "Google Chrome 93.0.4577.82\n", "93.0.4577", false},
		{"chromium", "Chromium 114.0.5735.198 built on Debian 12.1, running on Debian 12.1", "114.0.5735", false},
		{"edge mac", "Microsoft Edge 118.0.2088.46 ", "118.0.2088", false},
		{
			"reg query",
			"\r\nHKEY_CURRENT_USER\\Software\\Google\\Chrome\\BLBeacon\r\n    version    REG_SZ    93.0.4577.82\r\n\r\n",
			"93.0.4577",
			false,
		},
		{"first match wins", "1.2.3 then 4.5.6", "1.2.3", false},
		{"exactly three", "100.0.1", "100.0.1", false},
		{"two components", "Chrome 93.0", "", true},
		{"no digits", "command not found", "", true},
		{"empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseVersion(tt.output)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseVersion() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, ErrNoVersion) {
				t.Errorf("ParseVersion() error = %v, want ErrNoVersion", err)
			}
			if got != tt.want {
				t.Errorf("ParseVersion() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseVersion_Shape(t *testing.T) {
	inputs := []string{
		"Google Chrome 93.0.4577.82",
		"v1.2.3-beta",
		"build 2023.10.19.1",
	}
	for _, in := range inputs {
		v, err := ParseVersion(in)
		if err != nil {
			t.Fatalf("ParseVersion(%q) error = %v", in, err)
		}
		if !versionRegex.MatchString(v.String()) || versionRegex.FindString(v.String()) != v.String() {
			t.Errorf("ParseVersion(%q) = %q, not a bare MAJOR.MINOR.BUILD", in, v)
		}
	}
}

func TestVersion_Major(t *testing.T) {
	tests := map[Version]string{
		"93.0.4577":  "93",
		"114.0.5735": "114",
		"":           "",
	}
	for v, want := range tests {
		if got := v.Major(); got != want {
			t.Errorf("Version(%q).Major() = %q, want %q", v, got, want)
		}
	}
}
