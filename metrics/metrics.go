// Package metrics provides Prometheus counters and gauges describing a single spot-cleaning run.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sfomuseum/go-sfomuseum-spots/clean"
)

// NAMESPACE is the Prometheus namespace for all spot-cleaning metrics.
const NAMESPACE string = "spots"

// Metrics holds the Prometheus counters and gauges for a spot-cleaning run.
type Metrics struct {
	SpotsProcessed prometheus.Counter
	SpotsKept      prometheus.Counter
	SpotsRemoved   *prometheus.CounterVec // labels: reason={no_thumbnail,bad_thumbnail,no_media,no_working_media}
	Probes         *prometheus.CounterVec // labels: outcome={alive,dead}
	RunDuration    prometheus.Gauge
	LastRun        prometheus.Gauge
	registry       *prometheus.Registry
}

// NewMetrics creates and registers all spot-cleaning metrics with a new (per-run) Prometheus registry.
func NewMetrics() *Metrics {

	m := &Metrics{
		SpotsProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: NAMESPACE,
			Name:      "processed_total",
			Help:      "Total spot records read from the input list.",
		}),
		SpotsKept: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: NAMESPACE,
			Name:      "kept_total",
			Help:      "Total spot records written to the output list.",
		}),
		SpotsRemoved: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: NAMESPACE,
			Name:      "removed_total",
			Help:      "Spot records removed, by reason.",
		}, []string{"reason"}),
		Probes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: NAMESPACE,
			Name:      "probes_total",
			Help:      "HTTP(S) liveness requests, by outcome.",
		}, []string{"outcome"}),
		RunDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: NAMESPACE,
			Name:      "run_duration_seconds",
			Help:      "Time spent filtering spot records.",
		}),
		LastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: NAMESPACE,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time at which the last run finished.",
		}),
		registry: prometheus.NewRegistry(),
	}

	m.registry.MustRegister(
		m.SpotsProcessed,
		m.SpotsKept,
		m.SpotsRemoved,
		m.Probes,
		m.RunDuration,
		m.LastRun,
	)

	return m
}

// Registry returns the Prometheus registry that 'm' was registered with.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Observe records the outcome of a spot-cleaning run.
func (m *Metrics) Observe(results *clean.Results) {

	c := results.Counts

	m.SpotsProcessed.Add(float64(c.Total))
	m.SpotsKept.Add(float64(c.Kept))

	m.SpotsRemoved.WithLabelValues("no_thumbnail").Add(float64(c.NoThumbnail))
	m.SpotsRemoved.WithLabelValues("bad_thumbnail").Add(float64(c.BadThumbnail))
	m.SpotsRemoved.WithLabelValues("no_media").Add(float64(c.NoMedia))
	m.SpotsRemoved.WithLabelValues("no_working_media").Add(float64(c.NoWorkingMedia))

	m.Probes.WithLabelValues("alive").Add(float64(results.Probes.Alive))
	m.Probes.WithLabelValues("dead").Add(float64(results.Probes.Dead))

	m.RunDuration.Set(results.Elapsed.Seconds())
	m.LastRun.SetToCurrentTime()
}

// WriteTextfile writes the current values of 'm' to 'path' in the Prometheus text exposition format,
// suitable for the node_exporter textfile collector.
func (m *Metrics) WriteTextfile(path string) error {

	err := prometheus.WriteToTextfile(path, m.registry)

	if err != nil {
		return fmt.Errorf("Failed to write metrics to %s, %w", path, err)
	}

	return nil
}
