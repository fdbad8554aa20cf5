package app

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"horse.fit/discovr/internal/pipeline"
)

func runCities(args []string) int {
	fs := flag.NewFlagSet("cities", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	for _, entry := range pipeline.DefaultCityTable().Entries() {
		if len(entry.Aliases) == 0 {
			fmt.Println(entry.Name)
			continue
		}
		fmt.Printf("%s (also: %s)\n", entry.Name, strings.Join(entry.Aliases, ", "))
	}
	return 0
}
