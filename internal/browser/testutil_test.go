package browser

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"
)

// fakeRunner answers by command name and records every invocation.
type fakeRunner struct {
	mu      sync.Mutex
	outputs map[string]string
	errs    map[string]error
	calls   [][]string
}

func (r *fakeRunner) Run(ctx context.Context, argv []string) (string, error) {
	r.mu.Lock()
	r.calls = append(r.calls, argv)
	r.mu.Unlock()

	if err, ok := r.errs[argv[0]]; ok {
		return "", err
	}
	if out, ok := r.outputs[argv[0]]; ok {
		return out, nil
	}
	return "", fmt.Errorf("exec: %q: executable file not found in $PATH", argv[0])
}

func (r *fakeRunner) commands() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, len(r.calls))
	for i, c := range r.calls {
		names[i] = c[0]
	}
	return names
}

// createMockBrowser writes a shell script that prints output when called
// with --version.
func createMockBrowser(t *testing.T, dir, name, output string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script mocks need a POSIX shell")
	}

	path := filepath.Join(dir, name)
	script := fmt.Sprintf(`#!/bin/sh
if [ "$1" = "--version" ]; then
    echo "%s"
fi
`, output)

	if err := os.WriteFile(path, []byte(script), 0755); err != nil {
		t.Fatalf("failed to create mock browser: %v", err)
	}
	return path
}

// createScript writes an executable shell script with the given body.
func createScript(t *testing.T, dir, name, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script mocks need a POSIX shell")
	}

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0755); err != nil {
		t.Fatalf("failed to create script: %v", err)
	}
	return path
}

// withPath prepends dir to PATH for the duration of the test.
func withPath(t *testing.T, dir string) {
	t.Helper()
	t.Setenv("PATH", strings.Join([]string{dir, os.Getenv("PATH")}, string(os.PathListSeparator)))
}
