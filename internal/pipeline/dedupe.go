package pipeline

import (
	"sort"

	"horse.fit/discovr/internal/event"
	"horse.fit/discovr/internal/globaltime"
)

// Dedupe collapses a batch into its distinct events. Two passes: exact
// identity-key collapse first, then fuzzy cross-source clustering on
// same-day date plus title similarity. The whole thing is a reduce over
// sorted keys, so the merged set does not depend on input order.
func Dedupe(batch []event.Normalized) []event.Normalized {
	if len(batch) == 0 {
		return nil
	}

	distinct := collapseByIdentity(batch)
	clusters := clusterFuzzy(distinct)

	merged := make([]event.Normalized, 0, len(clusters))
	for _, cluster := range clusters {
		merged = append(merged, mergeCluster(cluster))
	}

	sort.Slice(merged, func(i, j int) bool {
		return merged[i].IdentityKey < merged[j].IdentityKey
	})
	return merged
}

// collapseByIdentity keeps one record per identity key. The first
// occurrence wins; later duplicates only fill fields it left empty.
func collapseByIdentity(batch []event.Normalized) []event.Normalized {
	byKey := make(map[string]*event.Normalized, len(batch))
	keys := make([]string, 0, len(batch))

	for i := range batch {
		key := batch[i].IdentityKey
		if kept, ok := byKey[key]; ok {
			fillMissing(kept, &batch[i])
			continue
		}
		copyRec := batch[i]
		byKey[key] = &copyRec
		keys = append(keys, key)
	}

	sort.Strings(keys)
	distinct := make([]event.Normalized, 0, len(keys))
	for _, key := range keys {
		distinct = append(distinct, *byKey[key])
	}
	return distinct
}

// clusterFuzzy groups records that plausibly describe the same real-world
// event: same calendar day, similar titles. Undated records never fuzzy
// merge; identity collapse is all they get.
func clusterFuzzy(records []event.Normalized) [][]event.Normalized {
	clusters := make([][]event.Normalized, 0, len(records))

	for _, rec := range records {
		joined := false
		if rec.StartDate != nil {
			for i, cluster := range clusters {
				if fuzzyMatches(cluster, rec) {
					clusters[i] = append(clusters[i], rec)
					joined = true
					break
				}
			}
		}
		if !joined {
			clusters = append(clusters, []event.Normalized{rec})
		}
	}
	return clusters
}

func fuzzyMatches(cluster []event.Normalized, rec event.Normalized) bool {
	for _, member := range cluster {
		if member.StartDate == nil {
			continue
		}
		if !globaltime.StartOfDay(*member.StartDate).Equal(globaltime.StartOfDay(*rec.StartDate)) {
			continue
		}
		if titlesSimilar(member.Title, rec.Title) {
			return true
		}
	}
	return false
}

// mergeCluster resolves a fuzzy cluster to one record. The winner is the
// highest-priority source (official site over aggregator over fallback),
// ties broken by most fields populated, then identity key for determinism.
// Losers contribute only the fields the winner is missing.
func mergeCluster(cluster []event.Normalized) event.Normalized {
	if len(cluster) == 1 {
		return cluster[0]
	}

	sort.Slice(cluster, func(i, j int) bool {
		if cluster[i].SourceRank != cluster[j].SourceRank {
			return cluster[i].SourceRank < cluster[j].SourceRank
		}
		pi, pj := populatedFields(&cluster[i]), populatedFields(&cluster[j])
		if pi != pj {
			return pi > pj
		}
		return cluster[i].IdentityKey < cluster[j].IdentityKey
	})

	winner := cluster[0]
	for i := 1; i < len(cluster); i++ {
		fillMissing(&winner, &cluster[i])
	}
	return winner
}

// fillMissing copies src fields into dst only where dst has nothing. A
// populated dst field is never overwritten.
func fillMissing(dst, src *event.Normalized) {
	if dst.Description == "" {
		dst.Description = src.Description
	}
	if dst.StartDate == nil {
		dst.StartDate = src.StartDate
	}
	if dst.EndDate == nil {
		dst.EndDate = src.EndDate
	}
	if dst.URL == nil {
		dst.URL = src.URL
	}
	if dst.ImageURL == nil {
		dst.ImageURL = src.ImageURL
	}
	if dst.Category == "" || dst.Category == "general" {
		if src.Category != "" && src.Category != "general" {
			dst.Category = src.Category
		}
	}
	if !dst.HasRealVenue() && src.HasRealVenue() {
		dst.Venue = src.Venue
		return
	}
	if dst.Venue.Address == "" {
		dst.Venue.Address = src.Venue.Address
	}
	if dst.Venue.Region == "" {
		dst.Venue.Region = src.Venue.Region
	}
	if dst.Venue.Country == "" {
		dst.Venue.Country = src.Venue.Country
	}
	if dst.Venue.Latitude == nil {
		dst.Venue.Latitude = src.Venue.Latitude
		dst.Venue.Longitude = src.Venue.Longitude
	}
}

func populatedFields(ev *event.Normalized) int {
	count := 0
	if ev.Description != "" {
		count++
	}
	if ev.StartDate != nil {
		count++
	}
	if ev.EndDate != nil {
		count++
	}
	if ev.URL != nil {
		count++
	}
	if ev.ImageURL != nil {
		count++
	}
	if ev.Category != "" && ev.Category != "general" {
		count++
	}
	if ev.HasRealVenue() {
		count++
	}
	if ev.Venue.Address != "" {
		count++
	}
	if ev.Venue.Latitude != nil {
		count++
	}
	return count
}
