// Package prompush implements a Prometheus Pushgateway backend for the
// metrics package.
//
// Runs of the roster pipeline are short-lived batch jobs, so metrics are
// pushed to a Pushgateway at the end of the run instead of being exposed on
// a scrape endpoint. All Prometheus-specific dependencies live here; the
// rest of the project sees only metrics.Backend.
package prompush

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"

	"github.com/kvachher/masti-reg-tracker/internal/metrics"
)

// Backend is a Prometheus Pushgateway metrics backend.
type Backend struct {
	gatewayURL string
	jobName    string // Pushgateway "job" grouping key
	reg        *prometheus.Registry

	stepCounter  *prometheus.CounterVec // "roster_step_total"
	stepDuration *prometheus.SummaryVec // "roster_step_duration_seconds"

	recordCounter *prometheus.CounterVec // "roster_records_total"
	fileCounter   *prometheus.CounterVec // "roster_files_total"
}

// NewBackend constructs a Pushgateway backend. jobName is the Pushgateway
// job grouping; gatewayURL is the base URL of the Pushgateway server.
func NewBackend(jobName, gatewayURL string) (*Backend, error) {
	if gatewayURL == "" {
		return nil, fmt.Errorf("prompush: gateway URL is required")
	}
	if jobName == "" {
		jobName = "roster"
	}

	reg := prometheus.NewRegistry()

	stepCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roster_step_total",
			Help: "Total pipeline step executions, partitioned by step and status.",
		},
		[]string{"step", "status"},
	)
	stepDuration := prometheus.NewSummaryVec(
		prometheus.SummaryOpts{
			Name:       "roster_step_duration_seconds",
			Help:       "Duration of pipeline steps in seconds, partitioned by step and status.",
			Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
		},
		[]string{"step", "status"},
	)
	recordCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roster_records_total",
			Help: "Record-level counts per kind (parsed, dropped, inserted).",
		},
		[]string{"kind"},
	)
	fileCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roster_files_total",
			Help: "Input files per outcome (ingested, skipped).",
		},
		[]string{"kind"},
	)

	if err := reg.Register(stepCounter); err != nil {
		return nil, fmt.Errorf("prompush: register step counter: %w", err)
	}
	if err := reg.Register(stepDuration); err != nil {
		return nil, fmt.Errorf("prompush: register step summary: %w", err)
	}
	if err := reg.Register(recordCounter); err != nil {
		return nil, fmt.Errorf("prompush: register record counter: %w", err)
	}
	if err := reg.Register(fileCounter); err != nil {
		return nil, fmt.Errorf("prompush: register file counter: %w", err)
	}

	return &Backend{
		gatewayURL:    gatewayURL,
		jobName:       jobName,
		reg:           reg,
		stepCounter:   stepCounter,
		stepDuration:  stepDuration,
		recordCounter: recordCounter,
		fileCounter:   fileCounter,
	}, nil
}

func (b *Backend) IncCounter(name string, delta float64, labels metrics.Labels) {
	switch name {
	case "roster_step_total":
		b.stepCounter.WithLabelValues(labels["step"], labels["status"]).Add(delta)

	case "roster_records_total":
		b.recordCounter.WithLabelValues(labels["kind"]).Add(delta)

	case "roster_files_total":
		b.fileCounter.WithLabelValues(labels["kind"]).Add(delta)

	default:
		// unknown metric name: ignore
	}
}

func (b *Backend) ObserveDuration(name string, value float64, labels metrics.Labels) {
	if name != "roster_step_duration_seconds" {
		return
	}
	b.stepDuration.WithLabelValues(labels["step"], labels["status"]).Observe(value)
}

// Flush pushes the current registry to the Pushgateway.
func (b *Backend) Flush() error {
	return push.New(b.gatewayURL, b.jobName).
		Gatherer(b.reg).
		Push()
}
