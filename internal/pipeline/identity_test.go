package pipeline

import (
	"testing"
	"time"

	"horse.fit/discovr/internal/event"
)

func TestComputeIdentity_Deterministic(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, 11, 21, 19, 30, 0, 0, time.UTC)
	ev := event.Normalized{
		SourceID:  "fortune-sound-club",
		Title:     "Winter Jazz Night",
		StartDate: &start,
		Venue:     event.Venue{Name: "Fortune Sound Club"},
	}

	first := ComputeIdentity(&ev)
	second := ComputeIdentity(&ev)
	if first != second {
		t.Fatalf("identity must be deterministic: %q vs %q", first, second)
	}
	want := "fortune-sound-club-winter-jazz-night-2026-11-21-fortune-sound-club"
	if first != want {
		t.Fatalf("got %q want %q", first, want)
	}
}

func TestComputeIdentity_Sanitization(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, 3, 7, 0, 0, 0, 0, time.UTC)
	ev := event.Normalized{
		SourceID:  "The Cultch",
		Title:     "  Später!  Tonight's  SHOW (Part 2) ",
		StartDate: &start,
		Venue:     event.Venue{Name: "York_Theatre"},
	}

	key := ComputeIdentity(&ev)
	want := "the-cultch-spter-tonights-show-part-2-2026-03-07-york-theatre"
	if key != want {
		t.Fatalf("got %q want %q", key, want)
	}
	for _, r := range key {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') && r != '-' {
			t.Fatalf("identity key carries unsafe rune %q: %s", r, key)
		}
	}
}

func TestComputeIdentity_NoDate(t *testing.T) {
	t.Parallel()

	ev := event.Normalized{
		SourceID: "polygon-gallery",
		Title:    "Permanent Collection",
		Venue:    event.Venue{Name: "Polygon Gallery"},
	}

	key := ComputeIdentity(&ev)
	want := "polygon-gallery-permanent-collection-no-date-polygon-gallery"
	if key != want {
		t.Fatalf("got %q want %q", key, want)
	}
}

func TestComputeIdentity_TimeOfDayIgnored(t *testing.T) {
	t.Parallel()

	morning := time.Date(2026, 5, 5, 9, 0, 0, 0, time.UTC)
	evening := time.Date(2026, 5, 5, 21, 0, 0, 0, time.UTC)

	a := event.Normalized{SourceID: "s", Title: "Gallery Tour", StartDate: &morning, Venue: event.Venue{Name: "v"}}
	b := event.Normalized{SourceID: "s", Title: "Gallery Tour", StartDate: &evening, Venue: event.Venue{Name: "v"}}

	if ComputeIdentity(&a) != ComputeIdentity(&b) {
		t.Fatalf("identity must depend on the calendar date only")
	}
}
