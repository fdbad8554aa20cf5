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
	"horse.fit/discovr/internal/logging"
)

func runEvents(args []string) int {
	fs := flag.NewFlagSet("events", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	timeout := fs.Duration("timeout", 20*time.Second, "Command timeout")
	city := fs.String("city", "", "Filter by city")
	from := fs.String("from", "", "Earliest start date (YYYY-MM-DD)")
	to := fs.String("to", "", "Latest start date (YYYY-MM-DD)")
	limit := fs.Int("limit", 50, "Maximum rows to print")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	opts := db.EventListOptions{
		City:  strings.TrimSpace(*city),
		Limit: *limit,
	}
	if raw := strings.TrimSpace(*from); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			fmt.Fprintln(os.Stderr, "--from must be YYYY-MM-DD")
			return 2
		}
		opts.From = &parsed
	}
	if raw := strings.TrimSpace(*to); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			fmt.Fprintln(os.Stderr, "--to must be YYYY-MM-DD")
			return 2
		}
		opts.To = &parsed
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

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		logger.Error().Err(err).Msg("events command failed to connect to database")
		fmt.Fprintf(os.Stderr, "Failed to connect to database: %v\n", err)
		return 1
	}
	defer pool.Close()

	store := db.NewEventStore(pool)
	events, err := store.ListEvents(ctx, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to list events: %v\n", err)
		return 1
	}

	if len(events) == 0 {
		fmt.Println("no events found")
		return 0
	}

	for i := range events {
		ev := &events[i]
		start := "no-date"
		if ev.StartDate != nil {
			start = ev.StartDate.Format("2006-01-02")
		}
		fmt.Printf("%s  %-10s  %-10s  %s @ %s\n",
			start, ev.City, ev.SourceID, ev.Title, ev.VenueName)
	}
	fmt.Printf("total=%d\n", len(events))
	return 0
}
