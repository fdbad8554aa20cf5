// Package extractor defines the contract between the import pipeline and
// the per-venue record extractors, plus the generic feed-driven
// implementations that most sources are configured from.
package extractor

import (
	"context"
	"net/http"
	"time"

	"horse.fit/discovr/internal/event"
)

const (
	userAgent      = "discovr-importer/1.0 (horse.fit/discovr)"
	defaultTimeout = 30 * time.Second
)

// Source identifies one extractor: which venue or feed it covers, which
// city run owns it, and how its records rank when fuzzy duplicates merge.
type Source struct {
	ID   string
	Name string
	City string
	Rank int
}

// Extractor produces loosely-typed candidate records for one source. An
// implementation owns its own fetching and parsing; the pipeline treats a
// returned error as "zero records from this source", never as fatal.
type Extractor interface {
	Source() Source
	Extract(ctx context.Context, targetCity string) ([]event.RawRecord, error)
}

func newHTTPClient() *http.Client {
	return &http.Client{Timeout: defaultTimeout}
}
