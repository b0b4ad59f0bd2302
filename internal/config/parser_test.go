package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/ZebulonRouseFrantzich/driverfetch/internal/browser"
	"github.com/ZebulonRouseFrantzich/driverfetch/internal/platform"
)

func linuxDetector() platform.Detector {
	return &platform.StaticDetector{Info: &platform.Info{
		OS:       "linux",
		Arch:     "amd64",
		ArchRaw:  "amd64",
		Platform: "ubuntu",
		Family:   platform.FamilyDebian,
		Version:  "22.04",
	}}
}

func TestParser_ParseString_Empty(t *testing.T) {
	cfg, err := NewParser(nil).ParseString(context.Background(), "")
	if err != nil {
		t.Fatalf("ParseString() error = %v", err)
	}
	if !reflect.DeepEqual(cfg, Default()) {
		t.Errorf("ParseString(\"\") = %+v, want defaults", cfg)
	}
}

func TestParser_ParseString_Full(t *testing.T) {
	luaCode := `
		driverfetch = {
			registry = "https://mirror.example.com/chromedriver",
			insecure_tls = true,
			retries = 3,
			timeouts = { process = 2.5, network = 90 },
			log = { level = "debug", development = true },
			browsers = {
				edge = {
					command = { "/opt/microsoft/msedge/msedge", "--version" },
					timeout = 4,
				},
				chromium = {
					commands = {
						{ "/snap/bin/chromium", "--version" },
						{ "chromium", "--version" },
					},
				},
			},
		}
	`

	cfg, err := NewParser(nil).ParseString(context.Background(), luaCode)
	if err != nil {
		t.Fatalf("ParseString() error = %v", err)
	}

	want := &Config{
		Registry:    "https://mirror.example.com/chromedriver",
		InsecureTLS: true,
		Retries:     3,
		Timeouts:    Timeouts{Process: 2500 * time.Millisecond, Network: 90 * time.Second},
		Log:         LogConfig{Level: "debug", Development: true},
		Browsers: map[browser.Family]BrowserConfig{
			browser.EdgeChromium: {
				Commands: [][]string{{"/opt/microsoft/msedge/msedge", "--version"}},
				Timeout:  4 * time.Second,
			},
			browser.Chromium: {
				Commands: [][]string{
					{"/snap/bin/chromium", "--version"},
					{"chromium", "--version"},
				},
			},
		},
	}
	if !reflect.DeepEqual(cfg, want) {
		t.Errorf("ParseString() =\n%+v\nwant\n%+v", cfg, want)
	}
}

func TestParser_ParseString_PlatformConditionals(t *testing.T) {
	luaCode := `
		driverfetch = {
			timeouts = { process = platform.is_windows and 30 or 5 },
			browsers = {
				chrome = {
					command = {
						platform.when(platform.is_linux, "/usr/bin/google-chrome-beta"),
						"--version",
					},
				},
			},
		}
	`

	cfg, err := NewParser(linuxDetector()).ParseString(context.Background(), luaCode)
	if err != nil {
		t.Fatalf("ParseString() error = %v", err)
	}
	if cfg.Timeouts.Process != 5*time.Second {
		t.Errorf("Timeouts.Process = %v, want 5s", cfg.Timeouts.Process)
	}
	want := [][]string{{"/usr/bin/google-chrome-beta", "--version"}}
	if got := cfg.Browsers[browser.Chrome].Commands; !reflect.DeepEqual(got, want) {
		t.Errorf("chrome commands = %q, want %q", got, want)
	}
}

func TestParser_ParseString_Errors(t *testing.T) {
	tests := []struct {
		name      string
		code      string
		wantParse bool
		wantField string
	}{
		{"syntax error", `driverfetch = {`, true, ""},
		{"runtime error", `error("boom")`, true, ""},
		{"root not a table", `driverfetch = 42`, true, ""},
		{"registry wrong type", `driverfetch = { registry = 1 }`, false, "registry"},
		{"registry bad scheme", `driverfetch = { registry = "ftp://x" }`, false, "registry"},
		{"retries fractional", `driverfetch = { retries = 1.5 }`, false, "retries"},
		{"retries too many", `driverfetch = { retries = 99 }`, false, "retries"},
		{"insecure wrong type", `driverfetch = { insecure_tls = "yes" }`, false, "insecure_tls"},
		{"timeouts not table", `driverfetch = { timeouts = 5 }`, false, "timeouts"},
		{"process timeout zero", `driverfetch = { timeouts = { process = 0 } }`, false, "timeouts.process"},
		{"log level unknown", `driverfetch = { log = { level = "loud" } }`, false, "log.level"},
		{"unknown browser", `driverfetch = { browsers = { firefox = {} } }`, false, "browsers.firefox"},
		{"browser not table", `driverfetch = { browsers = { chrome = "x" } }`, false, "browsers.chrome"},
		{"command not list", `driverfetch = { browsers = { chrome = { command = "chrome" } } }`, false, "browsers.chrome.command"},
		{"command item number", `driverfetch = { browsers = { chrome = { command = { "chrome", 1 } } } }`, false, "browsers.chrome.command[1]"},
		{"empty command", `driverfetch = { browsers = { chrome = { command = {} } } }`, false, "browsers.chrome.commands[0]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewParser(nil).ParseString(context.Background(), tt.code)
			if err == nil {
				t.Fatal("ParseString() error = nil, want error")
			}

			var parseErr *ParseError
			var valErr *ValidationError
			switch {
			case tt.wantParse:
				if !errors.As(err, &parseErr) {
					t.Errorf("error = %T %v, want *ParseError", err, err)
				}
			default:
				if !errors.As(err, &valErr) {
					t.Fatalf("error = %T %v, want *ValidationError", err, err)
				}
				if valErr.Field != tt.wantField {
					t.Errorf("Field = %q, want %q", valErr.Field, tt.wantField)
				}
			}
		})
	}
}

func TestParser_ParseString_SandboxEnforced(t *testing.T) {
	_, err := NewParser(nil).ParseString(context.Background(), `os.execute("touch /tmp/pwned")`)
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("error = %v, want *ParseError", err)
	}
}

func TestParser_ParseString_PlatformTableReadOnly(t *testing.T) {
	_, err := NewParser(linuxDetector()).ParseString(context.Background(), `platform.os = "windows"`)
	if err == nil {
		t.Fatal("assigning to platform should fail")
	}
}

func TestParser_ParseString_PlatformDetectionError(t *testing.T) {
	detector := &platform.StaticDetector{Err: errors.New("no host info")}
	_, err := NewParser(detector).ParseString(context.Background(), ``)
	if err == nil || !strings.Contains(err.Error(), "platform detection failed") {
		t.Errorf("error = %v, want platform detection error", err)
	}
}

func TestParser_ParseString_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewParser(nil).ParseString(ctx, ``); !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestParser_ParseString_Timeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := NewParser(nil).ParseString(ctx, `while true do end`)
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("error = %v, want *ParseError", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("error = %v, want DeadlineExceeded in chain", err)
	}
}

func TestParser_ParseFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.lua")
	if err := os.WriteFile(path, []byte(`driverfetch = { retries = 2 }`), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := NewParser(nil).ParseFile(context.Background(), path)
	if err != nil {
		t.Fatalf("ParseFile() error = %v", err)
	}
	if cfg.Retries != 2 {
		t.Errorf("Retries = %d, want 2", cfg.Retries)
	}

	if _, err := NewParser(nil).ParseFile(context.Background(), filepath.Join(dir, "missing.lua")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("ParseFile(missing) error = %v, want ErrNotExist", err)
	}
}

func TestParser_ParseFile_TooLarge(t *testing.T) {
	path := filepath.Join(t.TempDir(), "big.lua")
	big := "-- " + strings.Repeat("x", MaxConfigSize) + "\n"
	if err := os.WriteFile(path, []byte(big), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := NewParser(nil).ParseFile(context.Background(), path)
	var parseErr *ParseError
	if !errors.As(err, &parseErr) || parseErr.Message != "config file too large" {
		t.Errorf("error = %v, want size ParseError", err)
	}
}

func TestFormatError(t *testing.T) {
	err := &ParseError{
		Message: "Lua syntax error",
		Detail:  "<string>:1: unexpected EOF\nstack traceback:\n\t[G]: ?",
	}

	if got := FormatError(err, false); got != "Lua syntax error: <string>:1: unexpected EOF" {
		t.Errorf("FormatError(false) = %q", got)
	}
	if got := FormatError(err, true); !strings.Contains(got, "stack traceback") {
		t.Errorf("FormatError(true) = %q, want full detail", got)
	}

	plain := errors.New("plain")
	if got := FormatError(plain, false); got != "plain" {
		t.Errorf("FormatError(plain) = %q", got)
	}
}
