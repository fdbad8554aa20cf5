package pipeline

import (
	"testing"
	"time"

	"horse.fit/discovr/internal/event"
)

func TestValidateTitle_Boundaries(t *testing.T) {
	t.Parallel()

	if rej := ValidateTitle(""); rej == nil || rej.Reason != event.ReasonInvalidTitle {
		t.Fatalf("expected empty title to be rejected")
	}
	if rej := ValidateTitle("A"); rej == nil {
		t.Fatalf("expected one-character title to be rejected")
	}
	if rej := ValidateTitle("AB"); rej == nil {
		t.Fatalf("expected two-character title to be rejected")
	}
	if rej := ValidateTitle("Q&A"); rej != nil {
		t.Fatalf("expected three-character title to pass, got %s", rej.Detail)
	}
}

func TestValidateTitle_Placeholders(t *testing.T) {
	t.Parallel()

	for _, title := range []string{"Home", "READ MORE", "Upcoming Events", "tba", "Loading..."} {
		if rej := ValidateTitle(title); rej == nil {
			t.Fatalf("expected placeholder title %q to be rejected", title)
		}
	}
	if rej := ValidateTitle("Events of the Harlem Renaissance"); rej != nil {
		t.Fatalf("placeholder check must match whole titles only, got %s", rej.Detail)
	}
}

func TestNormalize_StructuredDateWins(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, 9, 12, 19, 0, 0, 0, time.UTC)
	n := Normalizer{TargetCity: "Vancouver"}

	normalized, rej := n.Normalize(event.RawRecord{
		SourceID:  "the-cultch",
		Title:     "Fall Dance Showcase",
		StartDate: &start,
		DateText:  "January 1, 2020",
		Venue:     &event.RawVenue{Name: "The Cultch"},
	})
	if rej != nil {
		t.Fatalf("unexpected rejection: %s", rej.Detail)
	}
	if normalized.StartDate == nil || !normalized.StartDate.Equal(start) {
		t.Fatalf("structured date must win over date text, got %v", normalized.StartDate)
	}
	if normalized.EndDate == nil || !normalized.EndDate.Equal(start) {
		t.Fatalf("end date must default to start date, got %v", normalized.EndDate)
	}
}

func TestNormalize_DateTextLayouts(t *testing.T) {
	t.Parallel()

	n := Normalizer{TargetCity: "Toronto"}
	for _, text := range []string{
		"November 21, 2026",
		"Nov 21, 2026",
		"2026-11-21",
		"2026/11/21",
	} {
		normalized, rej := n.Normalize(event.RawRecord{
			SourceID: "living-arts-centre",
			Title:    "Chamber Music Evening",
			DateText: text,
			Venue:    &event.RawVenue{Name: "Living Arts Centre"},
		})
		if rej != nil {
			t.Fatalf("date text %q: unexpected rejection: %s", text, rej.Detail)
		}
		if normalized.StartDate == nil {
			t.Fatalf("date text %q: expected parsed start date", text)
		}
		got := normalized.StartDate.UTC()
		if got.Year() != 2026 || got.Month() != time.November || got.Day() != 21 {
			t.Fatalf("date text %q: parsed to %v", text, got)
		}
	}
}

func TestNormalize_DateFromURL(t *testing.T) {
	t.Parallel()

	n := Normalizer{TargetCity: "Calgary"}
	normalized, rej := n.Normalize(event.RawRecord{
		SourceID: "calgary-events-feed",
		Title:    "Stampede Kickoff Party",
		URL:      "https://example.org/events/2026/07/03/stampede-kickoff",
		Venue:    &event.RawVenue{Name: "Cowboys Dance Hall"},
	})
	if rej != nil {
		t.Fatalf("unexpected rejection: %s", rej.Detail)
	}
	if normalized.StartDate == nil {
		t.Fatalf("expected date recovered from URL path")
	}
	want := time.Date(2026, 7, 3, 0, 0, 0, 0, time.UTC)
	if !normalized.StartDate.Equal(want) {
		t.Fatalf("got %v want %v", normalized.StartDate, want)
	}
}

func TestParseDateFromURL_RejectsImpossibleDates(t *testing.T) {
	t.Parallel()

	if ts := parseDateFromURL("https://example.org/2026/02/30/show"); ts != nil {
		t.Fatalf("expected Feb 30 to be treated as a miss, got %v", ts)
	}
	if ts := parseDateFromURL("https://example.org/2026/13/01/show"); ts != nil {
		t.Fatalf("expected month 13 to be treated as a miss, got %v", ts)
	}
	if ts := parseDateFromURL("https://example.org/about"); ts != nil {
		t.Fatalf("expected URL without a date to yield nil, got %v", ts)
	}
}

func TestNormalize_UndatedPolicy(t *testing.T) {
	t.Parallel()

	rec := event.RawRecord{
		SourceID: "fortune-sound-club",
		Title:    "Secret Basement Session",
		Venue:    &event.RawVenue{Name: "Fortune Sound Club"},
	}

	strict := Normalizer{TargetCity: "Vancouver"}
	if _, rej := strict.Normalize(rec); rej == nil || rej.Reason != event.ReasonInvalidDate {
		t.Fatalf("expected undated record to be rejected by default")
	}

	lenient := Normalizer{TargetCity: "Vancouver", AllowUndated: true}
	normalized, rej := lenient.Normalize(rec)
	if rej != nil {
		t.Fatalf("unexpected rejection with AllowUndated: %s", rej.Detail)
	}
	if normalized.StartDate != nil {
		t.Fatalf("expected nil start date, got %v", normalized.StartDate)
	}
}

func TestNormalize_EndDateBeforeStartIgnored(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, 10, 2, 20, 0, 0, 0, time.UTC)
	end := start.Add(-48 * time.Hour)
	n := Normalizer{TargetCity: "Montreal"}

	normalized, rej := n.Normalize(event.RawRecord{
		SourceID:  "montreal-events-feed",
		Title:     "Nuit Blanche Preview",
		StartDate: &start,
		EndDate:   &end,
		Venue:     &event.RawVenue{Name: "Place des Arts"},
	})
	if rej != nil {
		t.Fatalf("unexpected rejection: %s", rej.Detail)
	}
	if normalized.EndDate == nil || !normalized.EndDate.Equal(start) {
		t.Fatalf("end date before start must fall back to start, got %v", normalized.EndDate)
	}
}

func TestNormalize_VenueFallbackChain(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	n := Normalizer{TargetCity: "Vancouver"}

	fromText, rej := n.Normalize(event.RawRecord{
		SourceID:  "todocanada-vancouver",
		Title:     "Harbour Boat Party",
		StartDate: &start,
		VenueText: "Granville Island, Vancouver, BC",
	})
	if rej != nil {
		t.Fatalf("unexpected rejection: %s", rej.Detail)
	}
	if fromText.Venue.Name != "Granville Island" || fromText.Venue.City != "Vancouver" || fromText.Venue.Region != "BC" {
		t.Fatalf("venue text split failed: %+v", fromText.Venue)
	}

	sentinel, rej := n.Normalize(event.RawRecord{
		SourceID:  "todocanada-vancouver",
		Title:     "Pop-up Art Walk",
		StartDate: &start,
	})
	if rej != nil {
		t.Fatalf("unexpected rejection: %s", rej.Detail)
	}
	if sentinel.Venue.Name != event.UnknownVenueName {
		t.Fatalf("expected unknown-venue sentinel, got %q", sentinel.Venue.Name)
	}
	if sentinel.Venue.City != "Vancouver" {
		t.Fatalf("sentinel venue must pin the target city, got %q", sentinel.Venue.City)
	}
	if sentinel.HasRealVenue() {
		t.Fatalf("sentinel venue must not count as real")
	}
}

func TestNormalize_URLValidation(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	n := Normalizer{TargetCity: "Toronto"}

	normalized, rej := n.Normalize(event.RawRecord{
		SourceID:  "todocanada-toronto",
		Title:     "Distillery Winter Village",
		StartDate: &start,
		URL:       "/events/winter-village",
		ImageURL:  "https://cdn.example.org/winter.jpg",
		Venue:     &event.RawVenue{Name: "Distillery District"},
	})
	if rej != nil {
		t.Fatalf("unexpected rejection: %s", rej.Detail)
	}
	if normalized.URL != nil {
		t.Fatalf("relative URL must be dropped, got %q", *normalized.URL)
	}
	if normalized.ImageURL == nil || *normalized.ImageURL != "https://cdn.example.org/winter.jpg" {
		t.Fatalf("absolute image URL must be kept")
	}
}

func TestNormalize_DefaultCategory(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	n := Normalizer{TargetCity: "Toronto"}

	normalized, rej := n.Normalize(event.RawRecord{
		SourceID:  "todocanada-toronto",
		Title:     "Open Mic Tuesday",
		StartDate: &start,
		Category:  "  MUSIC ",
		Venue:     &event.RawVenue{Name: "The Rex"},
	})
	if rej != nil {
		t.Fatalf("unexpected rejection: %s", rej.Detail)
	}
	if normalized.Category != "music" {
		t.Fatalf("category must be lowercased and trimmed, got %q", normalized.Category)
	}

	blank, _ := n.Normalize(event.RawRecord{
		SourceID:  "todocanada-toronto",
		Title:     "Open Mic Tuesday",
		StartDate: &start,
		Venue:     &event.RawVenue{Name: "The Rex"},
	})
	if blank.Category != "general" {
		t.Fatalf("missing category must default to general, got %q", blank.Category)
	}
}
