// Package metrics records pipeline outcomes as Prometheus metrics.
//
// driverfetch is a short-lived command, so nothing is served over HTTP.
// WriteTextfile dumps the registry in the text exposition format for the
// node_exporter textfile collector.
package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/ZebulonRouseFrantzich/driverfetch/internal/stage"
)

// Run outcomes.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Metrics holds the pipeline metrics. A nil *Metrics records nothing.
type Metrics struct {
	Runs          *prometheus.CounterVec
	StageFailures *prometheus.CounterVec
	StageDuration *prometheus.HistogramVec
	ArchiveBytes  prometheus.Gauge
	LastSuccess   *prometheus.GaugeVec

	registry *prometheus.Registry
}

// New creates metrics on a private registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		Runs: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "driverfetch_runs_total",
				Help: "Pipeline runs by browser, operation and outcome",
			},
			[]string{"browser", "operation", "outcome"},
		),
		StageFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "driverfetch_stage_failures_total",
				Help: "Pipeline failures by stage and failure kind",
			},
			[]string{"stage", "kind"},
		),
		StageDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "driverfetch_stage_duration_seconds",
				Help:    "Time spent in each pipeline stage",
				Buckets: []float64{.005, .01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
			},
			[]string{"stage"},
		),
		ArchiveBytes: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "driverfetch_archive_bytes",
				Help: "Size of the last archive written",
			},
		),
		LastSuccess: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "driverfetch_last_success_timestamp_seconds",
				Help: "Unix time of the last successful run per browser",
			},
			[]string{"browser"},
		),
	}
}

// Registry returns the registry the metrics are registered on.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// ObserveStage records how long a stage took.
func (m *Metrics) ObserveStage(s stage.Stage, d time.Duration) {
	if m == nil {
		return
	}
	m.StageDuration.WithLabelValues(s.String()).Observe(d.Seconds())
}

// RunFinished records the outcome of a Resolve or Acquire call.
func (m *Metrics) RunFinished(browser, operation string, err error, now time.Time) {
	if m == nil {
		return
	}
	if err == nil {
		m.Runs.WithLabelValues(browser, operation, OutcomeSuccess).Inc()
		m.LastSuccess.WithLabelValues(browser).Set(float64(now.Unix()))
		return
	}
	m.Runs.WithLabelValues(browser, operation, OutcomeFailure).Inc()

	s := stage.Of(err)
	if s == "" {
		s = "unknown"
	}
	m.StageFailures.WithLabelValues(s.String(), KindLabel(err)).Inc()
}

// ArchiveWritten records the size of a written archive.
func (m *Metrics) ArchiveWritten(size int64) {
	if m == nil {
		return
	}
	m.ArchiveBytes.Set(float64(size))
}

// WriteTextfile writes every metric to path in the text exposition format.
// The file is replaced atomically.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil {
		return errors.New("metrics: not enabled")
	}
	return prometheus.WriteToTextfile(path, m.registry)
}

var kindLabels = []struct {
	kind  error
	label string
}{
	{stage.ErrUnsupportedPlatform, "unsupported_platform"},
	{stage.ErrProcess, "process"},
	{stage.ErrIntrospection, "introspection"},
	{stage.ErrNetwork, "network"},
	{stage.ErrRegistry, "registry"},
	{stage.ErrFilesystem, "filesystem"},
}

// KindLabel maps an error to a short label value for its failure kind.
func KindLabel(err error) string {
	kind := stage.KindOf(err)
	if kind == nil {
		return "other"
	}
	for _, k := range kindLabels {
		if errors.Is(kind, k.kind) {
			return k.label
		}
	}
	return "other"
}
