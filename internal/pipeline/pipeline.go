// Package pipeline orchestrates a full ingestion run: discover roster files,
// normalize → filter → tag each one, persist the cleaned rows, aggregate
// per-team metrics, and emit the combined report.
//
// A run is strictly sequential and single-threaded: the destination store is
// single-writer and the table schema is established exactly once, up front,
// before any file is read. Re-running the pipeline is the recovery
// mechanism; the destructive schema recreate makes it idempotent.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/kvachher/masti-reg-tracker/internal/aggregate"
	"github.com/kvachher/masti-reg-tracker/internal/datasource/file"
	"github.com/kvachher/masti-reg-tracker/internal/metrics"
	"github.com/kvachher/masti-reg-tracker/internal/parser/rostercsv"
	"github.com/kvachher/masti-reg-tracker/internal/report"
	"github.com/kvachher/masti-reg-tracker/internal/roster"
	"github.com/kvachher/masti-reg-tracker/internal/storage"
	"github.com/kvachher/masti-reg-tracker/internal/transformer"
	"github.com/kvachher/masti-reg-tracker/internal/transformer/builtin"
	"github.com/kvachher/masti-reg-tracker/pkg/records"
)

// Config describes one ingestion run.
type Config struct {
	// RostersDir is the input directory scanned (non-recursively) for
	// roster CSV files.
	RostersDir string

	// ReportPath is where the combined team metrics CSV is written. The
	// artifact is fully overwritten each run.
	ReportPath string

	// Job names the run for metrics and log lines.
	Job string

	// Storage selects and configures the destination store.
	Storage storage.Config
}

// Summary reports what a run did. All counts are totals across files.
type Summary struct {
	FilesSeen     int
	FilesIngested int
	FilesSkipped  int

	RowsParsed   int64
	RowsDropped  int64
	RowsInserted int64

	Teams         int
	ReportWritten bool
}

// Function variables used as test seams. In production these point at the
// real implementations.
var (
	newRepositoryFn = storage.New
	listInputsFn    = file.ListCSV
)

// Run executes one full pipeline run.
//
// Failure semantics follow the error taxonomy: a file whose banner or
// header cannot be read is skipped with a log line and the run continues;
// store open, schema, insert, and report failures are fatal. The store
// connection is released on every exit path.
func Run(ctx context.Context, cfg Config) (Summary, error) {
	var sum Summary

	paths, err := listInputsFn(cfg.RostersDir)
	if err != nil {
		return sum, err
	}
	sum.FilesSeen = len(paths)
	if len(paths) == 0 {
		// Nothing to do: no table is created and no report is written.
		log.Printf("pipeline: no roster files in %s", cfg.RostersDir)
		return sum, nil
	}

	repo, err := newRepositoryFn(ctx, cfg.Storage)
	if err != nil {
		return sum, fmt.Errorf("open store: %w", err)
	}
	defer repo.Close()

	// The schema is a deliberate, static decision (the canonical column
	// set), not a side effect of whichever file is processed first.
	start := time.Now()
	err = repo.EstablishSchema(ctx, roster.Columns())
	metrics.RecordStep(cfg.Job, "establish_schema", err, time.Since(start))
	if err != nil {
		return sum, fmt.Errorf("establish schema: %w", err)
	}

	p := rostercsv.NewParser(rostercsv.Options{
		HeaderMap: roster.HeaderMap(),
		Fields:    roster.RecordFields(),
	})

	var teams []aggregate.TeamMetrics
	for _, path := range paths {
		start = time.Now()
		recs, err := parseOne(ctx, p, path)
		metrics.RecordStep(cfg.Job, "parse", err, time.Since(start))
		if err != nil {
			var malformed *rostercsv.MalformedInputError
			if errors.As(err, &malformed) {
				log.Printf("pipeline: skipping %s: %v", path, malformed.Err)
				sum.FilesSkipped++
				metrics.RecordFiles(cfg.Job, "skipped", 1)
				continue
			}
			return sum, err
		}
		parsed := int64(len(recs))

		chain := transformer.Chain{
			builtin.Normalize{},
			builtin.Require{Fields: []string{roster.FieldFirstName, roster.FieldLastName}},
			builtin.TagTeam{Team: roster.TeamName(path)},
		}
		recs = chain.Apply(recs)

		sum.RowsParsed += parsed
		sum.RowsDropped += parsed - int64(len(recs))
		metrics.RecordRows(cfg.Job, "parsed", parsed)
		metrics.RecordRows(cfg.Job, "dropped", parsed-int64(len(recs)))

		start = time.Now()
		n, err := repo.Insert(ctx, recs)
		metrics.RecordStep(cfg.Job, "insert", err, time.Since(start))
		if err != nil {
			return sum, fmt.Errorf("insert %s: %w", path, err)
		}
		sum.RowsInserted += n
		metrics.RecordRows(cfg.Job, "inserted", n)

		if m, ok := aggregate.Summarize(recs); ok {
			teams = append(teams, m)
		}
		sum.FilesIngested++
		metrics.RecordFiles(cfg.Job, "ingested", 1)
		log.Printf("pipeline: %s team=%s parsed=%d kept=%d inserted=%d",
			path, roster.TeamName(path), parsed, len(recs), n)
	}

	if len(teams) > 0 {
		start = time.Now()
		err = report.WriteFile(cfg.ReportPath, teams)
		metrics.RecordStep(cfg.Job, "report", err, time.Since(start))
		if err != nil {
			return sum, err
		}
		sum.Teams = len(teams)
		sum.ReportWritten = true
		log.Printf("pipeline: report written to %s teams=%d", cfg.ReportPath, len(teams))
	} else {
		log.Printf("pipeline: no teams with rows, report not written")
	}

	return sum, nil
}

// parseOne opens and parses a single roster file. Open failures (outside
// cancellation) count as malformed input so the caller can skip the file.
func parseOne(ctx context.Context, p *rostercsv.Parser, path string) ([]records.Record, error) {
	rc, err := file.NewLocal(path).Open(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil, err
		}
		return nil, &rostercsv.MalformedInputError{Path: path, Err: err}
	}
	defer rc.Close()

	recs, err := p.Parse(rc)
	if err != nil {
		return nil, &rostercsv.MalformedInputError{Path: path, Err: err}
	}
	return recs, nil
}
