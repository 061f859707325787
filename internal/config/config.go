// Package config centralizes process configuration for the roster tools.
// All tunables are sourced from command-line flags with environment-variable
// fallbacks (12-factor friendly); a local .env file, when present, seeds the
// environment before flags are read. Flags are defined first so -help shows
// every knob and its default.
//
// Typical usage:
//
//	cfg := config.Load() // reads .env, os.Args, and os.Environ
//
// For tests, prefer LoadFromArgs to keep them hermetic:
//
//	fs := flag.NewFlagSet("test", flag.ContinueOnError)
//	getenv := func(k string) string { return testEnv[k] }
//	cfg := config.LoadFromArgs(fs, getenv, []string{"-rosters-dir=x"})
package config

import (
	"flag"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all process configuration derived from flags and environment
// variables. Fields are plain values so the struct can be copied freely
// after construction.
type Config struct {
	// Ingestion.
	RostersDir string // directory scanned for roster CSV files
	ReportCSV  string // combined team metrics output path
	Job        string // job name for metrics and logs

	// Destination store.
	DBDriver string // storage backend kind: "sqlite" or "postgres"
	DSN      string // sqlite file path or postgres connection string

	// Metrics.
	MetricsBackend string // "pushgateway" or "none"
	PushgatewayURL string // Pushgateway base URL

	// Web app.
	WebAddr       string // listen address for the roster web app
	AdminPassword string // login password; environment only, never a flag

	// Remote fetch.
	FetchList    string // path to the URL list file
	FetchWorkers int    // concurrent downloads
}

// LoadFromArgs builds a Config by defining flags on fs, wiring each flag to
// an environment fallback via getenv, and parsing args.
//
// Precedence:
//  1. Environment values seed each flag's default.
//  2. Explicit CLI flags in args override the seeded defaults.
func LoadFromArgs(fs *flag.FlagSet, getenv func(string) string, args []string) *Config {
	cfg := &Config{}

	envOr := func(k, d string) string {
		if v := getenv(k); v != "" {
			return v
		}
		return d
	}
	envOrInt := func(k string, d int) int {
		if v := getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return d
	}

	fs.StringVar(&cfg.RostersDir, "rosters-dir", envOr("ROSTERS_DIR", "rosters"), "directory containing roster CSV files")
	fs.StringVar(&cfg.ReportCSV, "report", envOr("REPORT_CSV", "team_metrics.csv"), "path of the combined team metrics CSV")
	fs.StringVar(&cfg.Job, "job", envOr("JOB_NAME", "roster_ingest"), "job name used in metrics and logs")

	fs.StringVar(&cfg.DBDriver, "db-driver", envOr("DB_DRIVER", "sqlite"), `storage backend: "sqlite" or "postgres"`)
	fs.StringVar(&cfg.DSN, "dsn", envOr("DSN", "roster.db"), "sqlite file path or postgres connection string")

	fs.StringVar(&cfg.MetricsBackend, "metrics-backend", envOr("METRICS_BACKEND", "none"), `metrics backend: "pushgateway" or "none"`)
	fs.StringVar(&cfg.PushgatewayURL, "pushgateway-url", envOr("PUSHGATEWAY_URL", "http://localhost:9091"), "Pushgateway base URL")

	fs.StringVar(&cfg.WebAddr, "web-addr", envOr("WEB_ADDR", ":8080"), "listen address for the web app")

	fs.StringVar(&cfg.FetchList, "fetch-list", envOr("FETCH_LIST", "rosters.txt"), "path to the roster URL list file")
	fs.IntVar(&cfg.FetchWorkers, "fetch-workers", envOrInt("FETCH_WORKERS", 4), "concurrent roster downloads")

	// Credentials come from the environment only.
	cfg.AdminPassword = getenv("ADMIN_PASSWORD")

	// flag.ExitOnError FlagSets terminate on bad input; ContinueOnError
	// callers (tests) get the zero-value flags on error, which is fine.
	_ = fs.Parse(args)

	return cfg
}

// Load builds a Config from the process environment and os.Args. A .env
// file in the working directory, when present, is loaded first; a missing
// file is not an error.
func Load() *Config {
	_ = godotenv.Load()
	fs := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	return LoadFromArgs(fs, os.Getenv, os.Args[1:])
}
