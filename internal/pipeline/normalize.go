package pipeline

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"horse.fit/discovr/internal/event"
)

const minTitleLength = 3

// Placeholder strings that venue sites leak into listings: nav text, empty
// calendar cells, cookie banners. A title equal to one of these is garbage.
var placeholderTitles = map[string]struct{}{
	"home":            {},
	"menu":            {},
	"subscribe":       {},
	"events":          {},
	"event":           {},
	"upcoming events": {},
	"all events":      {},
	"calendar":        {},
	"tickets":         {},
	"buy tickets":     {},
	"read more":       {},
	"learn more":      {},
	"more info":       {},
	"view all":        {},
	"see all":         {},
	"loading":         {},
	"loading...":      {},
	"search":          {},
	"sign up":         {},
	"newsletter":      {},
	"untitled":        {},
	"tbd":             {},
	"tba":             {},
}

// Free-text layouts seen across the venue sites, most specific first.
var dateTextLayouts = []string{
	"January 2, 2006",
	"January 2 2006",
	"Jan 2, 2006",
	"Jan 2 2006",
	"2006-01-02",
	"2006/01/02",
	"2/1/2006",
	"02/01/2006",
	"January 2, 2006 3:04 PM",
	"2006-01-02 15:04",
	time.RFC3339,
}

var urlDatePattern = regexp.MustCompile(`(20\d{2})[/-](\d{1,2})[/-](\d{1,2})`)

// Normalizer coerces raw extractor records into the canonical event shape.
// It is pure: every decision is returned, nothing is logged or mutated as a
// side channel.
type Normalizer struct {
	// TargetCity fills the sentinel venue when a record carries no venue
	// data at all.
	TargetCity string
	// AllowUndated lets records without any parseable date through with a
	// nil StartDate. Off by default: fabricating or waving through undated
	// events corrupts date-range queries downstream.
	AllowUndated bool
}

// Normalize validates and coerces one raw record. A non-nil Rejection means
// the record is dropped; the Normalized value is only meaningful when the
// Rejection is nil.
func (n Normalizer) Normalize(raw event.RawRecord) (event.Normalized, *event.Rejection) {
	title := strings.TrimSpace(raw.Title)
	if rej := ValidateTitle(title); rej != nil {
		return event.Normalized{}, rej
	}

	start, end := n.resolveDates(raw)
	if start == nil && !n.AllowUndated {
		return event.Normalized{}, event.Reject(event.ReasonInvalidDate, "no parseable date in record")
	}

	category := strings.TrimSpace(strings.ToLower(raw.Category))
	if category == "" {
		category = "general"
	}

	normalized := event.Normalized{
		SourceID:    strings.TrimSpace(raw.SourceID),
		Title:       title,
		Description: strings.TrimSpace(raw.Description),
		StartDate:   start,
		EndDate:     end,
		Venue:       n.resolveVenue(raw),
		Category:    category,
		URL:         validatedURL(raw.URL),
		ImageURL:    validatedURL(raw.ImageURL),
	}
	return normalized, nil
}

// ValidateTitle applies the title admission rule shared by the normalizer
// and the quality gate.
func ValidateTitle(title string) *event.Rejection {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return event.Reject(event.ReasonInvalidTitle, "title is empty")
	}
	if len([]rune(trimmed)) < minTitleLength {
		return event.Reject(event.ReasonInvalidTitle, fmt.Sprintf("title %q is shorter than %d characters", trimmed, minTitleLength))
	}
	if _, ok := placeholderTitles[strings.ToLower(trimmed)]; ok {
		return event.Reject(event.ReasonInvalidTitle, fmt.Sprintf("title %q is boilerplate", trimmed))
	}
	return nil
}

// resolveDates applies the date priority order: structured field, free-text
// layouts, lenient free-text parse, date embedded in the URL.
func (n Normalizer) resolveDates(raw event.RawRecord) (*time.Time, *time.Time) {
	var start *time.Time
	if raw.StartDate != nil && !raw.StartDate.IsZero() {
		utc := raw.StartDate.UTC()
		start = &utc
	}
	if start == nil {
		start = parseDateText(raw.DateText)
	}
	if start == nil {
		start = parseDateFromURL(raw.URL)
	}
	if start == nil {
		return nil, nil
	}

	end := start
	if raw.EndDate != nil && !raw.EndDate.IsZero() && !raw.EndDate.Before(*start) {
		utc := raw.EndDate.UTC()
		end = &utc
	}
	return start, end
}

func parseDateText(text string) *time.Time {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil
	}

	for _, layout := range dateTextLayouts {
		if ts, err := time.Parse(layout, trimmed); err == nil {
			utc := ts.UTC()
			return &utc
		}
	}

	if ts, err := dateparse.ParseAny(trimmed); err == nil {
		utc := ts.UTC()
		return &utc
	}
	return nil
}

// parseDateFromURL pulls a /2026/08/12/ or 2026-08-12 style date out of an
// event URL, a common last resort on blog-shaped venue sites.
func parseDateFromURL(rawURL string) *time.Time {
	match := urlDatePattern.FindStringSubmatch(rawURL)
	if match == nil {
		return nil
	}

	year, _ := strconv.Atoi(match[1])
	month, _ := strconv.Atoi(match[2])
	day, _ := strconv.Atoi(match[3])
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return nil
	}

	ts := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes overflow (Feb 30 -> Mar 2); treat that as a miss.
	if int(ts.Month()) != month || ts.Day() != day {
		return nil
	}
	return &ts
}

// resolveVenue applies the venue fallback chain: structured object, a
// "Name, City, Region" free-text pattern, then the unknown-venue sentinel
// pinned to the run's target city.
func (n Normalizer) resolveVenue(raw event.RawRecord) event.Venue {
	if raw.Venue != nil && strings.TrimSpace(raw.Venue.Name) != "" {
		return event.Venue{
			Name:      strings.TrimSpace(raw.Venue.Name),
			Address:   strings.TrimSpace(raw.Venue.Address),
			City:      strings.TrimSpace(raw.Venue.City),
			Region:    strings.TrimSpace(raw.Venue.Region),
			Country:   strings.TrimSpace(raw.Venue.Country),
			Latitude:  raw.Venue.Latitude,
			Longitude: raw.Venue.Longitude,
		}
	}

	if text := strings.TrimSpace(raw.VenueText); text != "" {
		parts := strings.Split(text, ",")
		venue := event.Venue{Name: strings.TrimSpace(parts[0])}
		if len(parts) > 1 {
			venue.City = strings.TrimSpace(parts[1])
		}
		if len(parts) > 2 {
			venue.Region = strings.TrimSpace(parts[2])
		}
		if venue.Name != "" {
			return venue
		}
	}

	return event.Venue{
		Name: event.UnknownVenueName,
		City: strings.TrimSpace(n.TargetCity),
	}
}

// validatedURL returns the trimmed value when it parses as an absolute URL,
// nil otherwise. Optional link fields soft-fail.
func validatedURL(raw string) *string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}
	parsed, err := url.Parse(trimmed)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil
	}
	return &trimmed
}
