package stage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestErrorIsMatchesKindAndCause(t *testing.T) {
	err := New(Version, ErrProcess, "google-chrome --version", context.DeadlineExceeded)

	if !errors.Is(err, ErrProcess) {
		t.Error("errors.Is(err, ErrProcess) = false, want true")
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Error("errors.Is(err, context.DeadlineExceeded) = false, want true")
	}
	if errors.Is(err, ErrNetwork) {
		t.Error("errors.Is(err, ErrNetwork) = true, want false")
	}
}

func TestErrorIsThroughWrapping(t *testing.T) {
	inner := New(Release, ErrRegistry, "https://example.test/LATEST_RELEASE_1.2.3", errors.New("HTTP 404"))
	wrapped := fmt.Errorf("resolve chrome: %w", inner)

	if !errors.Is(wrapped, ErrRegistry) {
		t.Error("wrapped error lost its kind")
	}
	if got := Of(wrapped); got != Release {
		t.Errorf("Of() = %q, want %q", got, Release)
	}
	if got := KindOf(wrapped); got != ErrRegistry {
		t.Errorf("KindOf() = %v, want %v", got, ErrRegistry)
	}
}

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "all parts",
			err:  New(Artifact, ErrFilesystem, "/nope/out.zip", errors.New("no such file or directory")),
			want: "artifact: filesystem error: /nope/out.zip: no such file or directory",
		},
		{
			name: "no target",
			err:  New(Version, ErrUnsupportedPlatform, "", errors.New("msedge on linux")),
			want: "version: unsupported platform: msedge on linux",
		},
		{
			name: "no cause",
			err:  New(Release, ErrRegistry, "https://example.test/x", nil),
			want: "release: registry error: https://example.test/x",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestOfNonStageError(t *testing.T) {
	if got := Of(errors.New("plain")); got != "" {
		t.Errorf("Of() = %q, want empty", got)
	}
	if got := KindOf(nil); got != nil {
		t.Errorf("KindOf(nil) = %v, want nil", got)
	}
}

func TestErrorf(t *testing.T) {
	err := Errorf(Release, ErrRegistry, "u", "HTTP %d", 500)
	if !strings.HasSuffix(err.Error(), "HTTP 500") {
		t.Errorf("Error() = %q, want suffix %q", err.Error(), "HTTP 500")
	}
}
