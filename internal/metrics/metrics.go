// Package metrics provides a small, backend-agnostic abstraction for
// recording operational metrics from the roster pipeline.
//
// It exposes a narrow Backend interface (counters plus duration
// observations) behind a global, pluggable backend that defaults to a no-op,
// so instrumentation is always safe to call even when nothing is configured.
// Concrete metric systems live in subpackages (see prompush), mirroring the
// storage registry pattern: the core depends only on this interface.
package metrics

import "time"

// Labels are string key/value pairs attached to a metric.
type Labels map[string]string

// Backend is the minimal interface for metrics backends.
type Backend interface {
	// IncCounter increments a counter by delta.
	IncCounter(name string, delta float64, labels Labels)
	// ObserveDuration records a duration-style observation.
	ObserveDuration(name string, value float64, labels Labels)
	// Flush pushes or flushes metrics if the backend needs it (e.g. a
	// Pushgateway).
	Flush() error
}

// nopBackend is installed by default so metrics stay optional.
type nopBackend struct{}

func (nopBackend) IncCounter(name string, delta float64, labels Labels)      {}
func (nopBackend) ObserveDuration(name string, value float64, labels Labels) {}
func (nopBackend) Flush() error                                              { return nil }

var backend Backend = nopBackend{}

// SetBackend installs a concrete backend. Passing nil keeps the existing one.
func SetBackend(b Backend) {
	if b == nil {
		return
	}
	backend = b
}

// Flush delegates to the current backend.
func Flush() error {
	return backend.Flush()
}

// RecordStep measures one pipeline step: latency plus success/failure.
func RecordStep(job, step string, err error, d time.Duration) {
	status := "success"
	if err != nil {
		status = "failure"
	}

	lbls := Labels{
		"job":    job,
		"step":   step,
		"status": status,
	}

	backend.IncCounter("roster_step_total", 1, lbls)
	backend.ObserveDuration("roster_step_duration_seconds", d.Seconds(), lbls)
}

// RecordRows increments a record-level counter for the given job and kind.
//
// Typical kinds mirror the run summary fields:
//   - "parsed"
//   - "dropped"
//   - "inserted"
func RecordRows(job, kind string, delta int64) {
	if delta <= 0 {
		return
	}
	backend.IncCounter("roster_records_total", float64(delta), Labels{
		"job":  job,
		"kind": kind,
	})
}

// RecordFiles increments a file-level counter ("ingested", "skipped").
func RecordFiles(job, kind string, delta int64) {
	if delta <= 0 {
		return
	}
	backend.IncCounter("roster_files_total", float64(delta), Labels{
		"job":  job,
		"kind": kind,
	})
}
