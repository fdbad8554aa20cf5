package pipeline

import (
	"fmt"
	"strings"

	"horse.fit/discovr/internal/event"
)

// CitySignals are the location-bearing fields a record can carry, in the
// order the classifier consults them.
type CitySignals struct {
	City      string
	Address   string
	Location  string
	VenueName string
}

// CityEntry is one supported city plus the neighbouring-area names that
// fold into it.
type CityEntry struct {
	Name    string
	Aliases []string
}

// CityTable is the single source of truth for city resolution. Historically
// this logic was re-implemented with subtly different rules at every call
// site, which is how events ended up filed under the wrong city.
type CityTable struct {
	entries []CityEntry
}

func NewCityTable(entries []CityEntry) *CityTable {
	return &CityTable{entries: entries}
}

// DefaultCityTable covers the cities the importer currently serves.
func DefaultCityTable() *CityTable {
	return NewCityTable([]CityEntry{
		{Name: "Vancouver", Aliases: []string{
			"North Vancouver", "West Vancouver", "Richmond", "Burnaby",
			"New Westminster", "Surrey", "Coquitlam", "Whistler",
		}},
		{Name: "Toronto", Aliases: []string{
			"Mississauga", "Brampton", "Markham", "Vaughan",
			"Scarborough", "North York", "Etobicoke",
		}},
		{Name: "Calgary", Aliases: []string{
			"Airdrie", "Banff", "Canmore", "Okotoks",
		}},
		{Name: "Montreal", Aliases: []string{
			"Montréal", "Laval", "Longueuil", "Brossard",
		}},
		{Name: "New York", Aliases: []string{
			"NYC", "Brooklyn", "Queens", "Manhattan", "Bronx", "Staten Island",
		}},
	})
}

// Entries returns the table contents in table order.
func (t *CityTable) Entries() []CityEntry {
	return t.entries
}

// Names returns the supported city names in table order.
func (t *CityTable) Names() []string {
	names := make([]string, 0, len(t.entries))
	for _, e := range t.entries {
		names = append(names, e.Name)
	}
	return names
}

// Canonical resolves a city name or alias to its canonical supported-city
// name. ok is false for cities the importer does not serve.
func (t *CityTable) Canonical(name string) (string, bool) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", false
	}
	for _, e := range t.entries {
		if strings.EqualFold(e.Name, trimmed) {
			return e.Name, true
		}
		for _, alias := range e.Aliases {
			if strings.EqualFold(alias, trimmed) {
				return e.Name, true
			}
		}
	}
	return "", false
}

// Classify resolves the canonical city for a record scraped during a run
// targeting targetCity. Signals are consulted in priority order; the first
// target match wins. A positive match on a different supported city rejects
// the record with CityMismatch instead of silently mis-filing it.
func (t *CityTable) Classify(sig CitySignals, targetCity string) (string, *event.Rejection) {
	target, ok := t.Canonical(targetCity)
	if !ok {
		return "", event.Reject(event.ReasonCityMismatch, fmt.Sprintf("unsupported target city %q", targetCity))
	}

	// 1. Explicit city field. Exact match on the target wins; an explicit
	// tag naming a different supported city is a hard mismatch, even if a
	// later signal would have matched the target (explicit-vs-address
	// conflicts are not silently resolved in the address's favour).
	explicit := strings.TrimSpace(sig.City)
	if explicit != "" {
		if resolved, known := t.Canonical(explicit); known {
			if resolved == target {
				return target, nil
			}
			return "", event.Reject(event.ReasonCityMismatch,
				fmt.Sprintf("record tagged %q while run targets %q", explicit, target))
		}
	}

	// 2-4. Target city name inside the address, location text, venue name.
	for _, field := range []string{sig.Address, sig.Location, sig.VenueName} {
		if containsFold(field, target) {
			return target, nil
		}
	}

	// 5. Regional fallback: neighbouring-area aliases in the address.
	for _, alias := range t.aliasesOf(target) {
		if containsFold(sig.Address, alias) {
			return target, nil
		}
	}

	// A different supported city positively matched anywhere means the
	// scraper wandered; drop the record rather than contaminate the store.
	if foreign := t.foreignMatch(sig, target); foreign != "" {
		return "", event.Reject(event.ReasonCityMismatch,
			fmt.Sprintf("record matches %q while run targets %q", foreign, target))
	}

	// 6. No contradicting signal: a scraper invoked for a city is assumed
	// to be scraping that city's venues.
	return target, nil
}

func (t *CityTable) aliasesOf(name string) []string {
	for _, e := range t.entries {
		if e.Name == name {
			return e.Aliases
		}
	}
	return nil
}

func (t *CityTable) foreignMatch(sig CitySignals, target string) string {
	for _, e := range t.entries {
		if e.Name == target {
			continue
		}
		for _, field := range []string{sig.Address, sig.Location, sig.VenueName} {
			if containsFold(field, e.Name) {
				return e.Name
			}
		}
		for _, alias := range e.Aliases {
			if containsFold(sig.Address, alias) {
				return e.Name
			}
		}
	}
	return ""
}

func containsFold(haystack, needle string) bool {
	if strings.TrimSpace(haystack) == "" || needle == "" {
		return false
	}
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
