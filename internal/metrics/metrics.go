// Package metrics records extraction counters in a Prometheus registry and
// exports them in text format for the node exporter's textfile collector.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Namespace prefixes every metric name.
const Namespace = "scenery"

// Source labels
const (
	SourceStage    = "stage"
	SourceManifest = "manifest"
)

// Collector holds the run metrics. A nil *Collector records nothing.
//
// Metrics:
//   - scenery_runs_total: Runs by source and status
//   - scenery_run_duration_seconds: Run duration by source
//   - scenery_entries_total: Object entries visited
//   - scenery_placements_emitted_total: Records produced
//   - scenery_placements_excluded_total: Entries dropped by the exclude list
//   - scenery_placements_skipped_total: Entries dropped by reason
type Collector struct {
	registry *prometheus.Registry

	runsTotal   *prometheus.CounterVec
	runDuration *prometheus.HistogramVec
	entries     *prometheus.CounterVec
	emitted     *prometheus.CounterVec
	excluded    *prometheus.CounterVec
	skipped     *prometheus.CounterVec
}

// NewCollector creates and registers the metrics with registry. A nil
// registry gets a fresh one.
func NewCollector(registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	c := &Collector{
		registry: registry,
		runsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "runs_total",
				Help:      "Total number of extraction runs",
			},
			[]string{"source", "status"},
		),
		runDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: Namespace,
				Name:      "run_duration_seconds",
				Help:      "Duration of extraction runs in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8), // 1ms to 16s
			},
			[]string{"source"},
		),
		entries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "entries_total",
				Help:      "Total number of object entries visited",
			},
			[]string{"source"},
		),
		emitted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "placements_emitted_total",
				Help:      "Total number of placement records produced",
			},
			[]string{"source"},
		),
		excluded: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "placements_excluded_total",
				Help:      "Total number of entries dropped by the exclude list",
			},
			[]string{"source"},
		),
		skipped: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "placements_skipped_total",
				Help:      "Total number of entries skipped because of an error",
			},
			[]string{"source", "reason"},
		),
	}

	registry.MustRegister(c.runsTotal, c.runDuration, c.entries, c.emitted, c.excluded, c.skipped)
	return c
}

// Registry returns the registry the metrics live in.
func (c *Collector) Registry() *prometheus.Registry {
	if c == nil {
		return nil
	}
	return c.registry
}

// RecordRun records a finished run.
func (c *Collector) RecordRun(source string, err error, d time.Duration) {
	if c == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	c.runsTotal.WithLabelValues(source, status).Inc()
	c.runDuration.WithLabelValues(source).Observe(d.Seconds())
}

// RecordEntries records how many entries a run visited and what became of them.
func (c *Collector) RecordEntries(source string, entries, emitted, excluded int) {
	if c == nil {
		return
	}
	c.entries.WithLabelValues(source).Add(float64(entries))
	c.emitted.WithLabelValues(source).Add(float64(emitted))
	c.excluded.WithLabelValues(source).Add(float64(excluded))
}

// RecordSkip records one skipped entry.
func (c *Collector) RecordSkip(source, reason string) {
	if c == nil {
		return
	}
	c.skipped.WithLabelValues(source, reason).Inc()
}

// WriteTextfile writes every metric to path in Prometheus text format.
func (c *Collector) WriteTextfile(path string) error {
	if c == nil || path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, c.registry); err != nil {
		return fmt.Errorf("failed to write metrics file: %w", err)
	}
	return nil
}
