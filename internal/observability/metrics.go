package observability

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "levee_files"

// Metrics holds the Prometheus collectors for one run. A batch job cannot be
// scraped, so collectors live on a private registry that is written out with
// WriteTextfile for the node_exporter textfile collector.
type Metrics struct {
	Registry *prometheus.Registry

	RecordsRead     prometheus.Counter
	RecordsAdmitted *prometheus.CounterVec // labels: stream={jsonld,geo,geo-region,html,calendar}
	RunFailures     *prometheus.CounterVec // labels: stage={extract,transform,load}

	ArtifactsEmitted *prometheus.CounterVec // labels: artifact
	ArtifactBytes    *prometheus.GaugeVec   // labels: artifact

	RunDuration prometheus.Gauge
	LastSuccess prometheus.Gauge
}

// NewMetrics creates the run collectors on a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		RecordsRead: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_read_total",
			Help:      "Levee records returned by the source.",
		}),
		RecordsAdmitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_admitted_total",
			Help:      "Levee records admitted to each output stream.",
		}, []string{"stream"}),
		RunFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "run_failures_total",
			Help:      "Aborted runs by failing stage.",
		}, []string{"stage"}),
		ArtifactsEmitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "artifacts_emitted_total",
			Help:      "Artifacts handed to the loaders.",
		}, []string{"artifact"}),
		ArtifactBytes: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "artifact_bytes",
			Help:      "Size of the last emitted artifact in bytes.",
		}, []string{"artifact"}),
		RunDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall time of the last successful run.",
		}),
		LastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last successful run.",
		}),
	}

	m.Registry.MustRegister(
		m.RecordsRead,
		m.RecordsAdmitted,
		m.RunFailures,
		m.ArtifactsEmitted,
		m.ArtifactBytes,
		m.RunDuration,
		m.LastSuccess,
	)

	return m
}

// WriteTextfile writes every collector to path in the text exposition format.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.Registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}

// NewMetricsForTesting returns collectors on an isolated registry so tests
// can read them with testutil without sharing state.
func NewMetricsForTesting() *Metrics {
	return NewMetrics()
}
