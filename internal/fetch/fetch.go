// Package fetch populates the roster input directory from remote exports.
//
// It is the one place retries and concurrency are allowed: the ingestion
// core only ever sees whatever CSV files this step (or a human) left in the
// input directory. Downloads fan out over a bounded errgroup; individual
// failures are logged and counted rather than aborting the whole fetch.
package fetch

import (
	"bytes"
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"log"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/zeebo/xxh3"
	"golang.org/x/sync/errgroup"

	"github.com/kvachher/masti-reg-tracker/internal/datasource/file"
	"github.com/kvachher/masti-reg-tracker/internal/datasource/httpds"
)

// Options configures a fetch run.
type Options struct {
	// ListPath is a text file with one roster URL per line; blank lines
	// and '#' comments are skipped.
	ListPath string

	// OutDir is the roster input directory downloads are written into.
	OutDir string

	// Workers bounds concurrent downloads. Values < 1 mean 1.
	Workers int

	// Client performs the HTTP requests. When nil a default retrying
	// client is used.
	Client *httpds.Client
}

// Stats summarizes a fetch run.
type Stats struct {
	Fetched   int // files downloaded and written
	Unchanged int // files skipped because the content hash matched
	Failed    int // URLs that failed after retries
}

// Run downloads every URL in the list file into OutDir. A file whose
// content hash (xxh3) matches what is already on disk is left untouched, so
// repeated fetches do not churn mtimes for unchanged rosters.
func Run(ctx context.Context, opt Options) (Stats, error) {
	var stats Stats

	urls, err := file.ReadList(opt.ListPath)
	if err != nil {
		return stats, fmt.Errorf("fetch: read url list: %w", err)
	}
	if len(urls) == 0 {
		return stats, nil
	}

	if err := os.MkdirAll(opt.OutDir, 0o755); err != nil {
		return stats, fmt.Errorf("fetch: create %s: %w", opt.OutDir, err)
	}

	client := opt.Client
	if client == nil {
		client = httpds.NewClient(httpds.Config{})
	}
	workers := opt.Workers
	if workers < 1 {
		workers = 1
	}

	var mu sync.Mutex
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for _, u := range urls {
		g.Go(func() error {
			outcome, err := fetchOne(ctx, client, u, opt.OutDir)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err != nil:
				// Fail-soft per URL; cancellation still ends the run.
				if ctx.Err() != nil {
					return err
				}
				log.Printf("fetch: %s: %v", u, err)
				stats.Failed++
			case outcome:
				stats.Fetched++
			default:
				stats.Unchanged++
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return stats, err
	}

	if stats.Fetched+stats.Unchanged == 0 {
		return stats, fmt.Errorf("fetch: all %d downloads failed", len(urls))
	}
	return stats, nil
}

// fetchOne downloads one URL and writes it into dir. It returns true when
// the file was written, false when the on-disk content already matched.
func fetchOne(ctx context.Context, client *httpds.Client, rawURL, dir string) (bool, error) {
	resp, err := client.Get(ctx, rawURL, nil)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != 200 {
		return false, fmt.Errorf("status %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return false, fmt.Errorf("read body: %w", err)
	}

	dst := filepath.Join(dir, FileName(rawURL))
	if prev, err := os.ReadFile(dst); err == nil {
		if xxh3.Hash(prev) == xxh3.Hash(body) && bytes.Equal(prev, body) {
			return false, nil
		}
	}

	if err := os.WriteFile(dst, body, 0o644); err != nil {
		return false, fmt.Errorf("write %s: %w", dst, err)
	}
	return true, nil
}

// nameCleaner collapses runs of non-alphanumeric characters to "_".
var nameCleaner = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// FileName derives the destination file name for a roster URL: the last
// path segment when it has one, otherwise a stable hash of the URL. The
// result always carries a .csv extension, since the team name is later
// derived from the base name.
func FileName(rawURL string) string {
	name := ""
	if u, err := url.Parse(rawURL); err == nil {
		name = path.Base(u.Path)
	}
	if name == "" || name == "." || name == "/" {
		name = hashName(rawURL)
	}
	name = nameCleaner.ReplaceAllString(name, "_")
	if !strings.EqualFold(path.Ext(name), ".csv") {
		name += ".csv"
	}
	return name
}

// hashName returns a stable hex digest of s for URLs without a usable path.
func hashName(s string) string {
	sum := xxh3.Hash128([]byte(s)).Bytes()
	return hex.EncodeToString(sum[:])
}
