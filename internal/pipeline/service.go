package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"horse.fit/discovr/internal/event"
	"horse.fit/discovr/internal/extractor"
	"horse.fit/discovr/internal/globaltime"
)

// ErrUnknownCity is returned when a run targets a city outside the
// supported set. It is the only error class that aborts a run before any
// processing happens.
var ErrUnknownCity = errors.New("unknown target city")

// Store is the persistence contract the pipeline writes through.
type Store interface {
	UpsertEvents(ctx context.Context, events []event.Normalized) (event.UpsertResult, error)
}

// Options tune one pipeline service instance.
type Options struct {
	AllowUndated         bool
	DryRun               bool
	MaxPastYears         int
	MaxFutureYears       int
	ExtractorConcurrency int
}

// Service runs the full import pipeline for one city at a time:
// extract -> normalize -> classify -> gate -> dedupe -> upsert.
type Service struct {
	store    Store
	registry *extractor.Registry
	cities   *CityTable
	opts     Options
	logger   zerolog.Logger
}

func NewService(store Store, registry *extractor.Registry, cities *CityTable, opts Options, logger zerolog.Logger) *Service {
	if cities == nil {
		cities = DefaultCityTable()
	}
	if opts.MaxPastYears <= 0 {
		opts.MaxPastYears = 5
	}
	if opts.MaxFutureYears <= 0 {
		opts.MaxFutureYears = 5
	}
	if opts.ExtractorConcurrency <= 0 {
		opts.ExtractorConcurrency = 4
	}

	return &Service{
		store:    store,
		registry: registry,
		cities:   cities,
		opts:     opts,
		logger:   logger,
	}
}

// RunCity executes one batch for a target city. Extractor failures and
// per-record rejections are absorbed into the summary; only configuration
// problems (unknown city, missing store) surface as errors.
func (s *Service) RunCity(ctx context.Context, city string) (event.RunSummary, error) {
	if s == nil || s.registry == nil {
		return event.RunSummary{}, fmt.Errorf("pipeline service is not initialized")
	}

	target, ok := s.cities.Canonical(city)
	if !ok {
		return event.RunSummary{}, fmt.Errorf("%w: %q (supported: %v)", ErrUnknownCity, city, s.cities.Names())
	}
	if !s.opts.DryRun && s.store == nil {
		return event.RunSummary{}, fmt.Errorf("pipeline store is not configured")
	}

	summary := event.RunSummary{
		City:      target,
		Rejected:  make(map[event.Reason]int),
		StartedAt: globaltime.UTC(),
	}

	sources := s.registry.ForCity(target)
	summary.Sources = len(sources)
	raw := s.extractAll(ctx, sources, target)
	summary.Extracted = len(raw)

	admitted := s.normalizeBatch(raw, target, &summary)
	summary.Normalized = len(admitted)

	deduped := Dedupe(admitted)
	summary.Deduped = len(deduped)

	if !s.opts.DryRun && len(deduped) > 0 {
		result, err := s.store.UpsertEvents(ctx, deduped)
		if err != nil {
			return summary, fmt.Errorf("upsert batch for %s: %w", target, err)
		}
		summary.Inserted = result.Inserted
		summary.Updated = result.Updated
		summary.Errored = len(result.Errors)
		for _, upsertErr := range result.Errors {
			s.logger.Warn().
				Str("identity_key", upsertErr.IdentityKey).
				Str("error", upsertErr.Err).
				Msg("event upsert failed")
		}
	}

	summary.FinishedAt = globaltime.UTC()
	s.logger.Info().
		Str("city", target).
		Int("sources", summary.Sources).
		Int("extracted", summary.Extracted).
		Int("normalized", summary.Normalized).
		Int("rejected", summary.RejectedTotal()).
		Int("deduped", summary.Deduped).
		Int("inserted", summary.Inserted).
		Int("updated", summary.Updated).
		Int("errored", summary.Errored).
		Bool("dry_run", s.opts.DryRun).
		Msg("city run finished")

	return summary, nil
}

// extractAll fans the city's extractors out under a bounded worker pool.
// A failed extractor contributes zero records and is logged once.
func (s *Service) extractAll(ctx context.Context, sources []extractor.Extractor, target string) []event.RawRecord {
	if len(sources) == 0 {
		return nil
	}

	type extraction struct {
		index   int
		records []event.RawRecord
	}

	results := make([]extraction, len(sources))
	sem := make(chan struct{}, s.opts.ExtractorConcurrency)
	var wg sync.WaitGroup

	for i, ext := range sources {
		wg.Add(1)
		go func(i int, ext extractor.Extractor) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			if ctx.Err() != nil {
				return
			}

			records, err := ext.Extract(ctx, target)
			if err != nil {
				s.logger.Warn().
					Err(err).
					Str("source", ext.Source().ID).
					Str("city", target).
					Msg("extraction failed; treating as empty batch")
				return
			}
			results[i] = extraction{index: i, records: records}
		}(i, ext)
	}
	wg.Wait()

	// Stitch results back in source order so downstream processing is
	// deterministic regardless of completion order.
	var all []event.RawRecord
	for _, res := range results {
		all = append(all, res.records...)
	}
	return all
}

func (s *Service) normalizeBatch(raw []event.RawRecord, target string, summary *event.RunSummary) []event.Normalized {
	normalizer := Normalizer{TargetCity: target, AllowUndated: s.opts.AllowUndated}
	gate := Gate{
		MaxPastYears:   s.opts.MaxPastYears,
		MaxFutureYears: s.opts.MaxFutureYears,
		AllowUndated:   s.opts.AllowUndated,
	}

	admitted := make([]event.Normalized, 0, len(raw))
	for _, rec := range raw {
		normalized, rej := normalizer.Normalize(rec)
		if rej != nil {
			summary.Rejected[rej.Reason]++
			s.logger.Debug().
				Str("source", rec.SourceID).
				Str("reason", string(rej.Reason)).
				Str("detail", rej.Detail).
				Msg("record rejected")
			continue
		}

		city, rej := s.cities.Classify(CitySignals{
			City:      rec.City,
			Address:   normalized.Venue.Address,
			Location:  rec.LocationText,
			VenueName: normalized.Venue.Name,
		}, target)
		if rej != nil {
			summary.Rejected[rej.Reason]++
			s.logger.Debug().
				Str("source", rec.SourceID).
				Str("reason", string(rej.Reason)).
				Str("detail", rej.Detail).
				Msg("record rejected")
			continue
		}
		normalized.City = city
		normalized.SourceRank = s.sourceRank(normalized.SourceID)

		if rej := gate.Admit(&normalized); rej != nil {
			summary.Rejected[rej.Reason]++
			s.logger.Debug().
				Str("source", rec.SourceID).
				Str("reason", string(rej.Reason)).
				Str("detail", rej.Detail).
				Msg("record rejected")
			continue
		}

		normalized.IdentityKey = ComputeIdentity(&normalized)
		normalized.LastSeenAt = globaltime.UTC()
		admitted = append(admitted, normalized)
	}
	return admitted
}

func (s *Service) sourceRank(sourceID string) int {
	if ext, ok := s.registry.Get(sourceID); ok {
		return ext.Source().Rank
	}
	return event.RankFallback
}
