package extractor

import (
	"strings"
	"testing"

	"horse.fit/discovr/internal/event"
)

const listingHTML = `
<html><body>
  <div class="event-listing">
    <h3 class="event-title">Winter Jazz Night</h3>
    <span class="event-date">November 21, 2026</span>
    <span class="event-venue">Fortune Sound Club, Vancouver, BC</span>
    <a class="event-link" href="/events/winter-jazz-night">Details</a>
    <img src="https://cdn.example.org/jazz.jpg" />
  </div>
  <div class="event-listing">
    <h3 class="event-title"></h3>
    <span class="event-date">November 22, 2026</span>
  </div>
  <div class="event-listing">
    <h3 class="event-title">Hip Hop Karaoke</h3>
    <span class="event-date">November 28, 2026</span>
    <a class="event-link" href="https://tickets.example.org/hhk">Tickets</a>
  </div>
</body></html>`

func listingExtractor() *HTMLList {
	return NewHTMLList(
		Source{ID: "fortune-sound-club", Name: "Fortune Sound Club", City: "Vancouver", Rank: event.RankOfficial},
		HTMLListConfig{
			URL:           "https://www.fortunesoundclub.com/events",
			ItemSelector:  ".event-listing",
			TitleSelector: ".event-title",
			DateSelector:  ".event-date",
			VenueSelector: ".event-venue",
			LinkSelector:  "a.event-link",
			ImageSelector: "img",
			Category:      "music",
		},
	)
}

func TestHTMLList_Parse(t *testing.T) {
	t.Parallel()

	records, err := listingExtractor().parse(strings.NewReader(listingHTML))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected titleless item to be skipped, got %d records", len(records))
	}

	first := records[0]
	if first.SourceID != "fortune-sound-club" {
		t.Fatalf("unexpected source ID %q", first.SourceID)
	}
	if first.Title != "Winter Jazz Night" {
		t.Fatalf("unexpected title %q", first.Title)
	}
	if first.DateText != "November 21, 2026" {
		t.Fatalf("unexpected date text %q", first.DateText)
	}
	if first.VenueText != "Fortune Sound Club, Vancouver, BC" {
		t.Fatalf("unexpected venue text %q", first.VenueText)
	}
	if first.URL != "https://www.fortunesoundclub.com/events/winter-jazz-night" {
		t.Fatalf("relative link must resolve against the listing URL, got %q", first.URL)
	}
	if first.ImageURL != "https://cdn.example.org/jazz.jpg" {
		t.Fatalf("unexpected image URL %q", first.ImageURL)
	}
	if first.Category != "music" {
		t.Fatalf("listing category must be applied, got %q", first.Category)
	}

	second := records[1]
	if second.URL != "https://tickets.example.org/hhk" {
		t.Fatalf("absolute link must pass through unchanged, got %q", second.URL)
	}
	if second.VenueText != "" {
		t.Fatalf("missing venue selector hit must stay empty, got %q", second.VenueText)
	}
}

func TestHTMLList_ParseEmptyPage(t *testing.T) {
	t.Parallel()

	records, err := listingExtractor().parse(strings.NewReader("<html><body></body></html>"))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected no records from an empty page, got %d", len(records))
	}
}
