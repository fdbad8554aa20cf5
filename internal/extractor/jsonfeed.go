package extractor

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"horse.fit/discovr/internal/event"
	payloadschema "horse.fit/discovr/schema"
)

// JSONFeed extracts records from an HTTP endpoint serving an array of v1
// raw event payloads. Items failing schema validation are skipped and
// logged; one bad item never sinks the feed.
type JSONFeed struct {
	src    Source
	url    string
	client *http.Client
	logger zerolog.Logger
}

func NewJSONFeed(src Source, feedURL string, logger zerolog.Logger) *JSONFeed {
	return &JSONFeed{
		src:    src,
		url:    feedURL,
		client: newHTTPClient(),
		logger: logger,
	}
}

func (f *JSONFeed) Source() Source { return f.src }

func (f *JSONFeed) Extract(ctx context.Context, targetCity string) ([]event.RawRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, fmt.Errorf("create feed request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch feed %s: %w", f.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed %s returned status %d", f.url, resp.StatusCode)
	}

	var items []json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return nil, fmt.Errorf("decode feed %s: %w", f.url, err)
	}

	records := make([]event.RawRecord, 0, len(items))
	skipped := 0
	for i, item := range items {
		payload, err := payloadschema.ValidateRawEventPayload(item)
		if err != nil {
			skipped++
			f.logger.Warn().
				Err(err).
				Str("source", f.src.ID).
				Int("item", i).
				Msg("feed item failed payload validation")
			continue
		}
		records = append(records, payloadToRecord(f.src.ID, payload))
	}

	if skipped > 0 {
		f.logger.Info().
			Str("source", f.src.ID).
			Int("skipped", skipped).
			Int("accepted", len(records)).
			Msg("feed extraction finished with skipped items")
	}
	return records, nil
}

func payloadToRecord(sourceID string, p *payloadschema.RawEventPayload) event.RawRecord {
	rec := event.RawRecord{
		SourceID:     sourceID,
		Title:        p.Title,
		Description:  deref(p.Description),
		DateText:     deref(p.DateText),
		LocationText: deref(p.LocationText),
		City:         deref(p.City),
		Category:     deref(p.Category),
		URL:          deref(p.URL),
		ImageURL:     deref(p.ImageURL),
	}

	rec.StartDate = parseRFC3339(p.StartDate)
	rec.EndDate = parseRFC3339(p.EndDate)

	if p.Venue != nil {
		rec.Venue = &event.RawVenue{
			Name:      p.Venue.Name,
			Address:   deref(p.Venue.Address),
			City:      deref(p.Venue.City),
			Region:    deref(p.Venue.Region),
			Country:   deref(p.Venue.Country),
			Latitude:  p.Venue.Latitude,
			Longitude: p.Venue.Longitude,
		}
	}
	return rec
}

// parseRFC3339 trusts the schema validator: the value either parses or was
// never let through.
func parseRFC3339(value *string) *time.Time {
	if value == nil {
		return nil
	}
	ts, err := time.Parse(time.RFC3339, strings.TrimSpace(*value))
	if err != nil {
		return nil
	}
	utc := ts.UTC()
	return &utc
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
