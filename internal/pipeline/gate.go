package pipeline

import (
	"fmt"
	"strings"

	"horse.fit/discovr/internal/event"
	"horse.fit/discovr/internal/globaltime"
)

// Gate applies the minimum-viability checks a normalized record must pass
// before it is eligible for storage.
type Gate struct {
	// MaxPastYears / MaxFutureYears bound admissible start dates around
	// "now". Parser errors routinely produce years like 0002 or 9999.
	MaxPastYears   int
	MaxFutureYears int
	AllowUndated   bool
}

// Admit returns nil when the event may be stored, otherwise the rejection.
// Optional link fields soft-fail: a malformed URL is cleared to nil rather
// than rejecting the whole record.
func (g Gate) Admit(ev *event.Normalized) *event.Rejection {
	if ev == nil {
		return event.Reject(event.ReasonInvalidTitle, "nil event")
	}

	if rej := ValidateTitle(ev.Title); rej != nil {
		return rej
	}

	if ev.StartDate == nil {
		if !g.AllowUndated {
			return event.Reject(event.ReasonInvalidDate, "event has no date")
		}
	} else {
		now := globaltime.UTC()
		earliest := now.AddDate(-g.MaxPastYears, 0, 0)
		latest := now.AddDate(g.MaxFutureYears, 0, 0)
		if ev.StartDate.Before(earliest) || ev.StartDate.After(latest) {
			return event.Reject(event.ReasonDateOutOfRange,
				fmt.Sprintf("start date %s outside [-%dy, +%dy] window",
					ev.StartDate.Format("2006-01-02"), g.MaxPastYears, g.MaxFutureYears))
		}
	}

	if strings.TrimSpace(ev.Venue.Name) == "" {
		return event.Reject(event.ReasonUnresolvableVenue, "venue name is empty")
	}

	ev.URL = clearNonHTTP(ev.URL)
	ev.ImageURL = clearNonHTTP(ev.ImageURL)

	if strings.TrimSpace(ev.City) == "" {
		return event.Reject(event.ReasonCityMismatch, "city not resolved")
	}

	return nil
}

func clearNonHTTP(link *string) *string {
	if link == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*link)
	if strings.HasPrefix(trimmed, "http://") || strings.HasPrefix(trimmed, "https://") {
		return link
	}
	return nil
}
