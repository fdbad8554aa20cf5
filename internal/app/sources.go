package app

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"horse.fit/discovr/internal/extractor"
	"horse.fit/discovr/internal/logging"
)

func runSources(args []string) int {
	fs := flag.NewFlagSet("sources", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	city := fs.String("city", "", "Only show extractors for this city")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	logger, err := logging.New("local", "warn")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		return 1
	}

	registry, err := extractor.DefaultRegistry(logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to build extractor registry: %v\n", err)
		return 1
	}

	filter := strings.TrimSpace(*city)
	shown := 0
	for _, src := range registry.Sources() {
		if filter != "" && !strings.EqualFold(src.City, filter) {
			continue
		}
		fmt.Printf("%-28s  %-10s  rank=%d  %s\n", src.ID, src.City, src.Rank, src.Name)
		shown++
	}
	if shown == 0 {
		if filter != "" {
			fmt.Printf("no extractors registered for %q\n", filter)
		} else {
			fmt.Println("no extractors registered")
		}
	}
	return 0
}
