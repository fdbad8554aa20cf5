package app

import (
	"fmt"
	"os"
	"strings"
)

// Run executes the CLI command and returns a process exit code.
func Run(args []string) int {
	if len(args) == 0 {
		printUsage()
		return 2
	}

	switch strings.ToLower(strings.TrimSpace(args[0])) {
	case "help", "--help", "-h":
		printUsage()
		return 0
	case "health":
		return runHealth(args[1:])
	case "run", "import":
		return runImport(args[1:])
	case "events":
		return runEvents(args[1:])
	case "cities":
		return runCities(args[1:])
	case "sources":
		return runSources(args[1:])
	case "validate":
		return runValidate(args[1:])
	case "serve":
		return runServe(args[1:])
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", args[0])
		printUsage()
		return 2
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "discovr CLI")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  discovr <command> [flags]")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  health    Verify database connectivity")
	fmt.Fprintln(os.Stderr, "  run       Extract, normalize, dedupe and upsert events for a city")
	fmt.Fprintln(os.Stderr, "  import    Alias for run")
	fmt.Fprintln(os.Stderr, "  events    List stored events")
	fmt.Fprintln(os.Stderr, "  cities    List supported cities and their aliases")
	fmt.Fprintln(os.Stderr, "  sources   List registered extractors")
	fmt.Fprintln(os.Stderr, "  validate  Validate raw event JSON files against the v1 schema")
	fmt.Fprintln(os.Stderr, "  serve     Start the Echo API server")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Use \"discovr <command> -h\" for command-specific flags.")
}
