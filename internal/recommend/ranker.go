// ReadNext - Content Recommendation Engine for the NachoWeb3 Blog
// Copyright 2026 NachoWeb3
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nachoweb3/readnext

package recommend

import (
	"sort"
	"time"
)

// Ranker applies exclusion filters, the score floor, and the freshness and
// diversity adjustments, producing the final ordered list.
type Ranker struct {
	cfg *Config
}

// NewRanker creates a ranker bound to an engine configuration.
func NewRanker(cfg *Config) *Ranker {
	return &Ranker{cfg: cfg}
}

// Rank filters, adjusts, orders, and truncates the combined candidates for
// the given strategy.
//
// Ordering is descending adjusted score with ties broken by catalog
// insertion order, so identical inputs always produce identical lists.
func (r *Ranker) Rank(items []RankedItem, snap *Snapshot, algorithm string, excludeViewed bool, k int) []RankedItem {
	floor := r.cfg.ScoreFloor(algorithm)
	filtered := r.filter(items, snap, floor, excludeViewed)

	for i := range filtered {
		filtered[i].Score += freshnessBonus(filtered[i].Content.PublishedAt, snap.Now) * r.cfg.FreshnessWeight
	}

	r.sortByScore(filtered, snap)
	r.applyDiversityPenalty(filtered, snap)
	r.sortByScore(filtered, snap)

	// Adjustments can push a borderline candidate back under the floor.
	final := filtered[:0]
	for _, item := range filtered {
		if item.Score >= floor {
			final = append(final, item)
		}
	}

	if len(final) > k {
		final = final[:k]
	}
	return final
}

// filter drops viewed items, sub-floor scores, and (only when the user has
// derived preferences) items with no category or tag overlap. The preference
// match is deliberately soft so cold-start users are unaffected.
func (r *Ranker) filter(items []RankedItem, snap *Snapshot, floor float64, excludeViewed bool) []RankedItem {
	hasPrefs := snap.Profile != nil && !snap.Profile.Preferences.Empty()

	out := make([]RankedItem, 0, len(items))
	for _, item := range items {
		if excludeViewed && snap.Profile != nil && snap.Profile.HasViewed(item.Content.ID) {
			continue
		}
		if item.Score < floor {
			continue
		}
		if hasPrefs && !matchesPreferences(item.Content, snap.Profile.Preferences) {
			continue
		}
		out = append(out, item)
	}
	return out
}

// applyDiversityPenalty discourages near-duplicate articles: for every pair
// whose feature overlap exceeds the threshold, the lower-ranked item loses
// similarity × DiversityWeight.
func (r *Ranker) applyDiversityPenalty(items []RankedItem, snap *Snapshot) {
	if len(items) < 2 {
		return
	}

	sets := make([]map[string]struct{}, len(items))
	for i, item := range items {
		sets[i] = featureSet(item.Content, snap.Catalog)
	}

	for i := 0; i < len(items); i++ {
		for j := i + 1; j < len(items); j++ {
			sim := JaccardSimilarity(sets[i], sets[j])
			if sim > r.cfg.DiversityThreshold {
				items[j].Score -= sim * r.cfg.DiversityWeight
			}
		}
	}
}

// sortByScore orders descending by score; ties keep catalog insertion order.
func (r *Ranker) sortByScore(items []RankedItem, snap *Snapshot) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Score != items[j].Score {
			return items[i].Score > items[j].Score
		}
		return snap.Catalog.Order(items[i].Content.ID) < snap.Catalog.Order(items[j].Content.ID)
	})
}

// featureSet is the union of an item's tags, categories, and derived vector
// tokens, used for the pairwise diversity comparison.
func featureSet(item ContentItem, catalog *Catalog) map[string]struct{} {
	set := tokenSet(item.Tags, item.Categories)
	for token := range catalog.Vector(item.ID) {
		set[token] = struct{}{}
	}
	return set
}

// matchesPreferences reports whether the item's categories or tags intersect
// the user's preferred ones.
func matchesPreferences(item ContentItem, prefs Preferences) bool {
	for _, cat := range item.Categories {
		if containsFold(prefs.Categories, cat) {
			return true
		}
	}
	for _, tag := range item.Tags {
		if containsFold(prefs.Tags, tag) {
			return true
		}
	}
	return false
}

// freshnessBonus rewards recent publication. The raw bonus is scaled by the
// configured freshness weight before being added to the score.
func freshnessBonus(published, now time.Time) float64 {
	days := now.Sub(published).Hours() / 24
	switch {
	case days <= 7:
		return 0.2
	case days <= 30:
		return 0.1
	case days <= 90:
		return 0.05
	default:
		return 0
	}
}
