package metrics

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	promtest "github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/ZebulonRouseFrantzich/driverfetch/internal/stage"
)

func TestMetrics_RunFinished(t *testing.T) {
	m := New()
	now := time.Unix(1700000000, 0)

	m.RunFinished("chrome", "acquire", nil, now)
	m.RunFinished("chrome", "acquire", stage.New(stage.Release, stage.ErrRegistry, "u", nil), now)
	m.RunFinished("msedge", "resolve", stage.New(stage.Version, stage.ErrUnsupportedPlatform, "", nil), now)

	if got := promtest.ToFloat64(m.Runs.WithLabelValues("chrome", "acquire", OutcomeSuccess)); got != 1 {
		t.Errorf("chrome successes = %v, want 1", got)
	}
	if got := promtest.ToFloat64(m.Runs.WithLabelValues("chrome", "acquire", OutcomeFailure)); got != 1 {
		t.Errorf("chrome failures = %v, want 1", got)
	}
	if got := promtest.ToFloat64(m.StageFailures.WithLabelValues("release", "registry")); got != 1 {
		t.Errorf("release/registry failures = %v, want 1", got)
	}
	if got := promtest.ToFloat64(m.StageFailures.WithLabelValues("version", "unsupported_platform")); got != 1 {
		t.Errorf("version/unsupported_platform failures = %v, want 1", got)
	}
	if got := promtest.ToFloat64(m.LastSuccess.WithLabelValues("chrome")); got != 1700000000 {
		t.Errorf("last success = %v", got)
	}
}

func TestMetrics_PlainError(t *testing.T) {
	m := New()
	m.RunFinished("chrome", "resolve", errors.New("boom"), time.Now())

	if got := promtest.ToFloat64(m.StageFailures.WithLabelValues("unknown", "other")); got != 1 {
		t.Errorf("unknown/other failures = %v, want 1", got)
	}
}

func TestMetrics_StageAndArchive(t *testing.T) {
	m := New()
	m.ObserveStage(stage.Artifact, 250*time.Millisecond)
	m.ObserveStage(stage.Artifact, time.Second)
	m.ArchiveWritten(4096)

	if got := promtest.CollectAndCount(m.StageDuration); got != 1 {
		t.Errorf("stage duration series = %d, want 1", got)
	}
	if got := promtest.ToFloat64(m.ArchiveBytes); got != 4096 {
		t.Errorf("archive bytes = %v", got)
	}
}

func TestMetrics_Nil(t *testing.T) {
	var m *Metrics
	m.ObserveStage(stage.Platform, time.Second)
	m.RunFinished("chrome", "resolve", nil, time.Now())
	m.ArchiveWritten(1)
	if m.Registry() != nil {
		t.Error("nil metrics should have no registry")
	}
	if err := m.WriteTextfile(filepath.Join(t.TempDir(), "x.prom")); err == nil {
		t.Error("WriteTextfile on nil metrics should fail")
	}
}

func TestMetrics_WriteTextfile(t *testing.T) {
	m := New()
	m.RunFinished("chromium", "acquire", nil, time.Unix(10, 0))
	m.ArchiveWritten(123)

	path := filepath.Join(t.TempDir(), "driverfetch.prom")
	if err := m.WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		`driverfetch_runs_total{browser="chromium",operation="acquire",outcome="success"} 1`,
		`driverfetch_archive_bytes 123`,
		`driverfetch_last_success_timestamp_seconds{browser="chromium"} 10`,
	} {
		if !strings.Contains(string(data), want) {
			t.Errorf("textfile missing %q\n%s", want, data)
		}
	}
}

func TestKindLabel(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{stage.New(stage.Version, stage.ErrProcess, "", nil), "process"},
		{stage.New(stage.Version, stage.ErrIntrospection, "", nil), "introspection"},
		{stage.New(stage.Release, stage.ErrNetwork, "", nil), "network"},
		{stage.New(stage.Artifact, stage.ErrFilesystem, "", nil), "filesystem"},
		{stage.New(stage.Platform, nil, "", errors.New("x")), "other"},
		{errors.New("plain"), "other"},
	}
	for _, tt := range tests {
		if got := KindLabel(tt.err); got != tt.want {
			t.Errorf("KindLabel(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}
