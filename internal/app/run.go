package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"horse.fit/discovr/internal/cli"
	"horse.fit/discovr/internal/config"
	"horse.fit/discovr/internal/db"
	"horse.fit/discovr/internal/extractor"
	"horse.fit/discovr/internal/logging"
	"horse.fit/discovr/internal/pipeline"
)

func runImport(args []string) int {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	city := fs.String("city", "", "Target city to import (required)")
	allowUndated := fs.Bool("allow-undated", false, "Admit events with no resolvable start date")
	dryRun := fs.Bool("dry-run", false, "Run the pipeline without writing to the database")
	timeout := fs.Duration("timeout", 10*time.Minute, "Overall run timeout")
	concurrency := fs.Int("concurrency", 0, "Concurrent extractors (0 uses DISCOVR_EXTRACTOR_CONCURRENCY)")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	targetCity := strings.TrimSpace(*city)
	if targetCity == "" {
		fmt.Fprintln(os.Stderr, "--city is required")
		fs.Usage()
		return 2
	}

	if envLoader != nil {
		if _, err := envLoader.Load(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return 1
	}

	logger, err := logging.New(cfg.Environment, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		return 1
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	var store pipeline.Store
	if !*dryRun {
		pool, err := db.NewPool(ctx, cfg)
		if err != nil {
			logger.Error().Err(err).Msg("run failed to connect to database")
			fmt.Fprintf(os.Stderr, "Failed to connect to database: %v\n", err)
			return 1
		}
		defer pool.Close()
		store = db.NewEventStore(pool)
	}

	registry, err := extractor.DefaultRegistry(logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to build extractor registry: %v\n", err)
		return 1
	}

	runConcurrency := *concurrency
	if runConcurrency <= 0 {
		runConcurrency = cfg.ExtractorConcurrency
	}

	svc := pipeline.NewService(store, registry, pipeline.DefaultCityTable(), pipeline.Options{
		AllowUndated:         *allowUndated,
		DryRun:               *dryRun,
		MaxPastYears:         cfg.MaxPastYears,
		MaxFutureYears:       cfg.MaxFutureYears,
		ExtractorConcurrency: runConcurrency,
	}, logger)

	summary, err := svc.RunCity(ctx, targetCity)
	if err != nil {
		logger.Error().Err(err).Str("city", targetCity).Msg("import run failed")
		fmt.Fprintf(os.Stderr, "Run failed: %v\n", err)
		return 1
	}

	fmt.Printf(
		"run city=%s sources=%d extracted=%d normalized=%d rejected=%d deduped=%d inserted=%d updated=%d errored=%d dry_run=%t duration=%s\n",
		summary.City,
		summary.Sources,
		summary.Extracted,
		summary.Normalized,
		summary.RejectedTotal(),
		summary.Deduped,
		summary.Inserted,
		summary.Updated,
		summary.Errored,
		*dryRun,
		summary.FinishedAt.Sub(summary.StartedAt).Round(time.Millisecond),
	)
	for reason, count := range summary.Rejected {
		fmt.Printf("  rejected reason=%s count=%d\n", reason, count)
	}

	if summary.Errored > 0 {
		return 1
	}
	return 0
}
