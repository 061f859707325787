package prompush

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/kvachher/masti-reg-tracker/internal/metrics"
)

func TestNewBackendRequiresGatewayURL(t *testing.T) {
	t.Parallel()

	if _, err := NewBackend("job", ""); err == nil {
		t.Fatal("NewBackend() error = nil, want non-nil for empty URL")
	}
}

func TestIncCounterDispatch(t *testing.T) {
	t.Parallel()

	b, err := NewBackend("job", "http://localhost:9091")
	if err != nil {
		t.Fatalf("NewBackend() error = %v", err)
	}

	b.IncCounter("roster_step_total", 1, metrics.Labels{"step": "parse", "status": "success"})
	b.IncCounter("roster_step_total", 1, metrics.Labels{"step": "parse", "status": "success"})
	b.IncCounter("roster_records_total", 7, metrics.Labels{"kind": "inserted"})
	b.IncCounter("roster_files_total", 1, metrics.Labels{"kind": "skipped"})
	b.IncCounter("some_other_metric", 3, nil)

	if got := testutil.ToFloat64(b.stepCounter.WithLabelValues("parse", "success")); got != 2 {
		t.Errorf("step counter = %v, want 2", got)
	}
	if got := testutil.ToFloat64(b.recordCounter.WithLabelValues("inserted")); got != 7 {
		t.Errorf("record counter = %v, want 7", got)
	}
	if got := testutil.ToFloat64(b.fileCounter.WithLabelValues("skipped")); got != 1 {
		t.Errorf("file counter = %v, want 1", got)
	}
}

func TestFlushPushesToGateway(t *testing.T) {
	t.Parallel()

	var pushes atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pushes.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	b, err := NewBackend("job", srv.URL)
	if err != nil {
		t.Fatalf("NewBackend() error = %v", err)
	}
	b.IncCounter("roster_files_total", 1, metrics.Labels{"kind": "ingested"})

	if err := b.Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}
	if pushes.Load() != 1 {
		t.Errorf("gateway received %d pushes, want 1", pushes.Load())
	}
}
