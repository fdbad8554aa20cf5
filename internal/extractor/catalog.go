package extractor

import (
	"fmt"

	"github.com/rs/zerolog"

	"horse.fit/discovr/internal/event"
)

// DefaultRegistry builds the production source table. Venue sites register
// as official sources; city-wide listing feeds register as aggregators.
// Adding a venue means adding an entry here, nothing else.
func DefaultRegistry(logger zerolog.Logger) (*Registry, error) {
	registry := NewRegistry()

	extractors := []Extractor{
		// Vancouver
		NewHTMLList(
			Source{ID: "polygon-gallery", Name: "The Polygon Gallery", City: "Vancouver", Rank: event.RankOfficial},
			HTMLListConfig{
				URL:           "https://thepolygon.ca/exhibitions/",
				ItemSelector:  "article.exhibition",
				TitleSelector: "h2",
				DateSelector:  ".dates",
				LinkSelector:  "a",
				ImageSelector: "img",
				Category:      "arts",
			},
		),
		NewHTMLList(
			Source{ID: "fortune-sound-club", Name: "Fortune Sound Club", City: "Vancouver", Rank: event.RankOfficial},
			HTMLListConfig{
				URL:           "https://www.fortunesoundclub.com/events",
				ItemSelector:  ".event-listing",
				TitleSelector: ".event-title",
				DateSelector:  ".event-date",
				LinkSelector:  "a.event-link",
				ImageSelector: "img",
				Category:      "music",
			},
		),
		NewHTMLList(
			Source{ID: "the-cultch", Name: "The Cultch", City: "Vancouver", Rank: event.RankOfficial},
			HTMLListConfig{
				URL:           "https://thecultch.com/whats-on/",
				ItemSelector:  ".show-card",
				TitleSelector: ".show-title",
				DateSelector:  ".show-dates",
				LinkSelector:  "a",
				Category:      "theatre",
			},
		),
		NewJSONFeed(
			Source{ID: "todocanada-vancouver", Name: "ToDoCanada Vancouver", City: "Vancouver", Rank: event.RankAggregator},
			"https://feeds.discovr.horse.fit/v1/vancouver.json",
			logger,
		),

		// Toronto
		NewHTMLList(
			Source{ID: "living-arts-centre", Name: "Living Arts Centre", City: "Toronto", Rank: event.RankOfficial},
			HTMLListConfig{
				URL:           "https://www.livingartscentre.ca/events",
				ItemSelector:  ".event-item",
				TitleSelector: ".event-name",
				DateSelector:  ".event-date",
				VenueSelector: ".event-venue",
				LinkSelector:  "a",
				Category:      "arts",
			},
		),
		NewJSONFeed(
			Source{ID: "todocanada-toronto", Name: "ToDoCanada Toronto", City: "Toronto", Rank: event.RankAggregator},
			"https://feeds.discovr.horse.fit/v1/toronto.json",
			logger,
		),

		// Calgary
		NewJSONFeed(
			Source{ID: "calgary-events-feed", Name: "Calgary Events Feed", City: "Calgary", Rank: event.RankAggregator},
			"https://feeds.discovr.horse.fit/v1/calgary.json",
			logger,
		),

		// Montreal
		NewJSONFeed(
			Source{ID: "montreal-events-feed", Name: "Montreal Events Feed", City: "Montreal", Rank: event.RankAggregator},
			"https://feeds.discovr.horse.fit/v1/montreal.json",
			logger,
		),

		// New York
		NewJSONFeed(
			Source{ID: "newyork-events-feed", Name: "New York Events Feed", City: "New York", Rank: event.RankAggregator},
			"https://feeds.discovr.horse.fit/v1/newyork.json",
			logger,
		),
	}

	for _, e := range extractors {
		if err := registry.Register(e); err != nil {
			return nil, fmt.Errorf("build default registry: %w", err)
		}
	}
	return registry, nil
}
