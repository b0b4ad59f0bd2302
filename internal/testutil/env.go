// Package testutil provides helpers for running tests in isolation from the
// developer's own driverfetch setup.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// EnvVars lists every environment variable driverfetch reads.
var EnvVars = []string{
	"DRIVERFETCH_CONFIG",
	"DRIVERFETCH_REGISTRY",
	"DRIVERFETCH_INSECURE_TLS",
	"DRIVERFETCH_RETRIES",
	"DRIVERFETCH_PROCESS_TIMEOUT",
	"DRIVERFETCH_NETWORK_TIMEOUT",
	"DRIVERFETCH_LOG_LEVEL",
	"DRIVERFETCH_LOG_DEV",
}

// SetupTestEnv clears driverfetch variables and points the user config
// directory at a temp dir. It returns the config file path the loader will
// use by default. Values are restored by t.Setenv when the test ends.
func SetupTestEnv(t *testing.T) string {
	t.Helper()

	tmpDir := t.TempDir()
	for _, name := range EnvVars {
		t.Setenv(name, "")
		os.Unsetenv(name)
	}

	configHome := filepath.Join(tmpDir, "config")
	t.Setenv("XDG_CONFIG_HOME", configHome)
	t.Setenv("HOME", tmpDir)
	t.Setenv("APPDATA", configHome)

	if err := os.MkdirAll(configHome, 0o750); err != nil {
		t.Fatalf("failed to create test directory %s: %v", configHome, err)
	}

	path := filepath.Join(tmpDir, "driverfetch.lua")
	t.Setenv("DRIVERFETCH_CONFIG", path)
	return path
}
