package db

import (
	"context"
	"fmt"

	"horse.fit/discovr/internal/event"
)

const upsertEventSQL = `
INSERT INTO events (
	identity_key, source_id, source_rank, title, description,
	start_date, end_date,
	venue_name, venue_address, venue_city, venue_region,
	city, category, url, image_url,
	last_seen_at, created_at, updated_at
) VALUES (
	?, ?, ?, ?, ?,
	?, ?,
	?, ?, ?, ?,
	?, ?, ?, ?,
	?, NOW(), NOW()
)
ON CONFLICT (identity_key) DO UPDATE SET
	source_rank   = LEAST(events.source_rank, EXCLUDED.source_rank),
	description   = CASE WHEN events.description = '' THEN EXCLUDED.description ELSE events.description END,
	start_date    = COALESCE(events.start_date, EXCLUDED.start_date),
	end_date      = COALESCE(events.end_date, EXCLUDED.end_date),
	venue_address = CASE WHEN events.venue_address = '' THEN EXCLUDED.venue_address ELSE events.venue_address END,
	venue_city    = CASE WHEN events.venue_city = '' THEN EXCLUDED.venue_city ELSE events.venue_city END,
	venue_region  = CASE WHEN events.venue_region = '' THEN EXCLUDED.venue_region ELSE events.venue_region END,
	category      = CASE WHEN events.category = '' THEN EXCLUDED.category ELSE events.category END,
	url           = COALESCE(events.url, EXCLUDED.url),
	image_url     = COALESCE(events.image_url, EXCLUDED.image_url),
	last_seen_at  = EXCLUDED.last_seen_at,
	updated_at    = NOW()
RETURNING (xmax = 0) AS inserted`

// EventStore persists normalized events with conflict-merging writes.
type EventStore struct {
	pool *Pool
}

func NewEventStore(pool *Pool) *EventStore {
	return &EventStore{pool: pool}
}

// UpsertEvents writes each event in its own statement so one bad record
// cannot sink the rest of the batch. Existing populated columns win over
// incoming values; only last_seen_at and updated_at always move forward.
func (s *EventStore) UpsertEvents(ctx context.Context, events []event.Normalized) (event.UpsertResult, error) {
	var result event.UpsertResult
	if s == nil || s.pool == nil {
		return result, fmt.Errorf("event store is not initialized")
	}

	for i := range events {
		ev := &events[i]

		inserted, err := s.upsertOne(ctx, ev)
		if err != nil {
			result.Errors = append(result.Errors, event.UpsertError{
				IdentityKey: ev.IdentityKey,
				Err:         err.Error(),
			})
			continue
		}
		if inserted {
			result.Inserted++
		} else {
			result.Updated++
		}
	}

	return result, nil
}

func (s *EventStore) upsertOne(ctx context.Context, ev *event.Normalized) (bool, error) {
	var inserted bool

	row := s.pool.QueryRow(ctx, upsertEventSQL,
		ev.IdentityKey, ev.SourceID, ev.SourceRank, ev.Title, ev.Description,
		ev.StartDate, ev.EndDate,
		ev.Venue.Name, ev.Venue.Address, ev.Venue.City, ev.Venue.Region,
		ev.City, ev.Category, ev.URL, ev.ImageURL,
		ev.LastSeenAt,
	)
	if err := row.Scan(&inserted); err != nil {
		return false, fmt.Errorf("upsert event %s: %w", ev.IdentityKey, err)
	}

	return inserted, nil
}
