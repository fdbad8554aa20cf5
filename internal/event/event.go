// Package event holds the record shapes that flow through the import
// pipeline: untrusted extractor output, the canonical normalized form, and
// the per-run accounting types.
package event

import "time"

// Source priority ranks used when fuzzy duplicates from different sources
// merge. Lower wins.
const (
	RankOfficial   = 0 // the venue's own website
	RankAggregator = 1 // city listing sites, ticket aggregators
	RankFallback   = 2 // generic or last-resort feeds
)

// UnknownVenueName is the sentinel substituted when no venue data resolves.
// Downstream consumers never see a null venue.
const UnknownVenueName = "Unknown Venue"

// RawRecord is the untrusted candidate record an extractor produces. Every
// field is optional; the normalizer decides what survives.
type RawRecord struct {
	SourceID     string
	Title        string
	Description  string
	StartDate    *time.Time
	EndDate      *time.Time
	DateText     string
	Venue        *RawVenue
	VenueText    string
	LocationText string
	City         string
	URL          string
	ImageURL     string
	Category     string
}

// RawVenue is a structured venue as scraped, before validation.
type RawVenue struct {
	Name      string
	Address   string
	City      string
	Region    string
	Country   string
	Latitude  *float64
	Longitude *float64
}

// Venue is the canonical venue value object. Name is never empty; records
// without venue data carry the UnknownVenueName sentinel instead.
type Venue struct {
	Name      string
	Address   string
	City      string
	Region    string
	Country   string
	Latitude  *float64
	Longitude *float64
}

// Normalized is the canonical in-memory event, the only shape the dedup
// engine and the store ever see.
type Normalized struct {
	IdentityKey string
	SourceID    string
	SourceRank  int
	Title       string
	Description string
	StartDate   *time.Time
	EndDate     *time.Time
	Venue       Venue
	City        string
	Category    string
	URL         *string
	ImageURL    *string
	LastSeenAt  time.Time
}

// HasRealVenue reports whether the venue carries scraped data rather than
// the unknown-venue sentinel.
func (n *Normalized) HasRealVenue() bool {
	return n.Venue.Name != "" && n.Venue.Name != UnknownVenueName
}
