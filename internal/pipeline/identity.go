package pipeline

import (
	"strings"
	"time"

	"horse.fit/discovr/internal/event"
)

const noDateToken = "no-date"

// ComputeIdentity derives the stable dedup/upsert key from source, title,
// start date, and venue name. It is a pure function of those fields: the
// same scrape run twice must yield byte-identical keys, so nothing random
// or clock-derived may ever feed into it.
func ComputeIdentity(ev *event.Normalized) string {
	parts := []string{
		slugComponent(ev.SourceID),
		slugComponent(ev.Title),
		identityDate(ev.StartDate),
		slugComponent(ev.Venue.Name),
	}
	return strings.Join(parts, "-")
}

func identityDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return noDateToken
	}
	return t.UTC().Format("2006-01-02")
}

// slugComponent lowercases, folds whitespace runs to single dashes, and
// strips everything outside [a-z0-9-], producing a storage-safe component.
func slugComponent(input string) string {
	lowered := strings.ToLower(strings.TrimSpace(input))

	var b strings.Builder
	b.Grow(len(lowered))
	lastDash := false
	for _, r := range lowered {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		case r == ' ' || r == '\t' || r == '\n' || r == '-' || r == '_':
			if !lastDash && b.Len() > 0 {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
