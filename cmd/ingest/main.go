// Command ingest runs one full roster ingestion: every CSV in the rosters
// directory is normalized into the destination store and the combined team
// metrics report is rewritten.
package main

import (
	"context"
	"log"
	"time"

	"github.com/kvachher/masti-reg-tracker/internal/config"
	"github.com/kvachher/masti-reg-tracker/internal/metrics"
	"github.com/kvachher/masti-reg-tracker/internal/metrics/prompush"
	"github.com/kvachher/masti-reg-tracker/internal/pipeline"
	"github.com/kvachher/masti-reg-tracker/internal/roster"
	"github.com/kvachher/masti-reg-tracker/internal/storage"

	// Register all storage backends with the factory; config picks one.
	_ "github.com/kvachher/masti-reg-tracker/internal/storage/all"
)

func main() {
	cfg := config.Load()

	switch cfg.MetricsBackend {
	case "pushgateway":
		b, err := prompush.NewBackend(cfg.Job, cfg.PushgatewayURL)
		if err != nil {
			log.Printf("metrics: init pushgateway backend: %v; metrics disabled", err)
			break
		}
		metrics.SetBackend(b)
		defer func() {
			if err := metrics.Flush(); err != nil {
				log.Printf("metrics: flush: %v", err)
			}
		}()

	case "", "none":
		// metrics disabled; nop backend remains

	default:
		log.Printf("metrics: unknown backend %q; metrics disabled", cfg.MetricsBackend)
	}

	ctx := context.Background()
	start := time.Now()

	sum, err := pipeline.Run(ctx, pipeline.Config{
		RostersDir: cfg.RostersDir,
		ReportPath: cfg.ReportCSV,
		Job:        cfg.Job,
		Storage: storage.Config{
			Kind:     cfg.DBDriver,
			DSN:      cfg.DSN,
			Table:    roster.Table,
			IDColumn: roster.FieldID,
		},
	})
	if err != nil {
		log.Fatalf("ingest: %v", err)
	}

	log.Printf(
		"ingest: files=%d ingested=%d skipped=%d rows_parsed=%d rows_dropped=%d rows_inserted=%d teams=%d report=%v elapsed=%s",
		sum.FilesSeen, sum.FilesIngested, sum.FilesSkipped,
		sum.RowsParsed, sum.RowsDropped, sum.RowsInserted,
		sum.Teams, sum.ReportWritten,
		time.Since(start).Truncate(time.Millisecond),
	)
}
