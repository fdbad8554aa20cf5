package db

import (
	"context"
	"fmt"
	"strings"
	"time"
)

const eventColumns = `identity_key, source_id, source_rank, title, description,
	start_date, end_date,
	venue_name, venue_address, venue_city, venue_region,
	city, category, url, image_url,
	last_seen_at, created_at, updated_at`

// EventListOptions narrows ListEvents. Zero values mean "no filter" except
// Limit, which falls back to a sane default.
type EventListOptions struct {
	City  string
	From  *time.Time
	To    *time.Time
	Limit int
}

type CityCount struct {
	City  string
	Count int64
}

type Stats struct {
	TotalEvents   int64
	UpcomingCount int64
	UndatedCount  int64
	LastSeenAt    *time.Time
}

func (s *EventStore) ListEvents(ctx context.Context, opts EventListOptions) ([]Event, error) {
	if s == nil || s.pool == nil {
		return nil, fmt.Errorf("event store is not initialized")
	}

	var (
		conds []string
		args  []any
	)
	if city := strings.TrimSpace(opts.City); city != "" {
		conds = append(conds, "city = ?")
		args = append(args, city)
	}
	if opts.From != nil {
		conds = append(conds, "start_date >= ?")
		args = append(args, *opts.From)
	}
	if opts.To != nil {
		conds = append(conds, "start_date <= ?")
		args = append(args, *opts.To)
	}

	limit := opts.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	query := "SELECT " + eventColumns + " FROM events"
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY start_date ASC NULLS LAST, identity_key ASC LIMIT ?"
	args = append(args, limit)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event row: %w", err)
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate event rows: %w", err)
	}

	return events, nil
}

func (s *EventStore) GetEvent(ctx context.Context, identityKey string) (*Event, error) {
	if s == nil || s.pool == nil {
		return nil, fmt.Errorf("event store is not initialized")
	}
	identityKey = strings.TrimSpace(identityKey)
	if identityKey == "" {
		return nil, fmt.Errorf("identity key is empty")
	}

	row := s.pool.QueryRow(ctx,
		"SELECT "+eventColumns+" FROM events WHERE identity_key = ?",
		identityKey,
	)

	ev, err := scanEvent(row)
	if err != nil {
		if IsNoRows(err) {
			return nil, ErrNoRows
		}
		return nil, fmt.Errorf("get event %s: %w", identityKey, err)
	}

	return &ev, nil
}

func (s *EventStore) CityCounts(ctx context.Context) ([]CityCount, error) {
	if s == nil || s.pool == nil {
		return nil, fmt.Errorf("event store is not initialized")
	}

	rows, err := s.pool.Query(ctx,
		"SELECT city, COUNT(*) FROM events GROUP BY city ORDER BY city ASC")
	if err != nil {
		return nil, fmt.Errorf("count events per city: %w", err)
	}
	defer rows.Close()

	var counts []CityCount
	for rows.Next() {
		var c CityCount
		if err := rows.Scan(&c.City, &c.Count); err != nil {
			return nil, fmt.Errorf("scan city count: %w", err)
		}
		counts = append(counts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate city counts: %w", err)
	}

	return counts, nil
}

func (s *EventStore) Stats(ctx context.Context) (Stats, error) {
	var stats Stats
	if s == nil || s.pool == nil {
		return stats, fmt.Errorf("event store is not initialized")
	}

	row := s.pool.QueryRow(ctx, `
SELECT
	COUNT(*),
	COUNT(*) FILTER (WHERE start_date >= NOW()),
	COUNT(*) FILTER (WHERE start_date IS NULL),
	MAX(last_seen_at)
FROM events`)

	if err := row.Scan(&stats.TotalEvents, &stats.UpcomingCount, &stats.UndatedCount, &stats.LastSeenAt); err != nil {
		return stats, fmt.Errorf("load event stats: %w", err)
	}

	return stats, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(r rowScanner) (Event, error) {
	var ev Event
	err := r.Scan(
		&ev.IdentityKey, &ev.SourceID, &ev.SourceRank, &ev.Title, &ev.Description,
		&ev.StartDate, &ev.EndDate,
		&ev.VenueName, &ev.VenueAddress, &ev.VenueCity, &ev.VenueRegion,
		&ev.City, &ev.Category, &ev.URL, &ev.ImageURL,
		&ev.LastSeenAt, &ev.CreatedAt, &ev.UpdatedAt,
	)
	return ev, err
}
