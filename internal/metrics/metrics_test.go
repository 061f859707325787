package metrics

import (
	"errors"
	"testing"
	"time"
)

type capture struct {
	name   string
	delta  float64
	labels Labels
}

type fakeBackend struct {
	counters  []capture
	durations []capture
	flushed   bool
}

func (f *fakeBackend) IncCounter(name string, delta float64, labels Labels) {
	f.counters = append(f.counters, capture{name, delta, labels})
}

func (f *fakeBackend) ObserveDuration(name string, value float64, labels Labels) {
	f.durations = append(f.durations, capture{name, value, labels})
}

func (f *fakeBackend) Flush() error {
	f.flushed = true
	return nil
}

func install(t *testing.T) *fakeBackend {
	t.Helper()
	f := &fakeBackend{}
	orig := backend
	SetBackend(f)
	t.Cleanup(func() { backend = orig })
	return f
}

func TestRecordStepSuccess(t *testing.T) {
	f := install(t)

	RecordStep("job1", "parse", nil, 250*time.Millisecond)

	if len(f.counters) != 1 || len(f.durations) != 1 {
		t.Fatalf("counters=%d durations=%d, want 1 each", len(f.counters), len(f.durations))
	}
	c := f.counters[0]
	if c.name != "roster_step_total" || c.delta != 1 {
		t.Errorf("counter = %+v", c)
	}
	if c.labels["status"] != "success" || c.labels["step"] != "parse" || c.labels["job"] != "job1" {
		t.Errorf("labels = %v", c.labels)
	}
	if got := f.durations[0].delta; got != 0.25 {
		t.Errorf("duration = %v, want 0.25", got)
	}
}

func TestRecordStepFailure(t *testing.T) {
	f := install(t)

	RecordStep("job1", "insert", errors.New("boom"), time.Second)
	if got := f.counters[0].labels["status"]; got != "failure" {
		t.Errorf("status = %q, want failure", got)
	}
}

func TestRecordRowsSkipsNonPositive(t *testing.T) {
	f := install(t)

	RecordRows("job1", "dropped", 0)
	RecordRows("job1", "dropped", -3)
	if len(f.counters) != 0 {
		t.Fatalf("got %d counters, want 0", len(f.counters))
	}

	RecordRows("job1", "inserted", 7)
	if len(f.counters) != 1 {
		t.Fatalf("got %d counters, want 1", len(f.counters))
	}
	c := f.counters[0]
	if c.name != "roster_records_total" || c.delta != 7 || c.labels["kind"] != "inserted" {
		t.Errorf("counter = %+v", c)
	}
}

func TestRecordFiles(t *testing.T) {
	f := install(t)

	RecordFiles("job1", "skipped", 1)
	c := f.counters[0]
	if c.name != "roster_files_total" || c.labels["kind"] != "skipped" {
		t.Errorf("counter = %+v", c)
	}
}

func TestSetBackendNilKeepsExisting(t *testing.T) {
	f := install(t)

	SetBackend(nil)
	RecordFiles("job1", "ingested", 1)
	if len(f.counters) != 1 {
		t.Error("nil SetBackend replaced the installed backend")
	}
}

func TestFlushDelegates(t *testing.T) {
	f := install(t)

	if err := Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}
	if !f.flushed {
		t.Error("Flush() did not reach the backend")
	}
}
