// ReadNext - Content Recommendation Engine for the NachoWeb3 Blog
// Copyright 2026 NachoWeb3
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nachoweb3/readnext

package scorers

import (
	"context"
	"strings"

	"github.com/nachoweb3/readnext/internal/recommend"
)

// PopularityConfig holds the popularity strategy tunables.
type PopularityConfig struct {
	// Weight is the hybrid multiplier applied to every candidate score.
	Weight float64

	// MinScore is the blended score a candidate must exceed.
	MinScore float64

	// CategoryBonus is the personalization credit per matched category.
	CategoryBonus float64

	// TagBonus is the personalization credit per matched tag.
	TagBonus float64
}

// Popularity scores items by a blend of decayed popularity and a light
// personalization bonus: 70% popularity, 30% overlap between the item's
// categories/tags and the user's interests and preferences. It is the only
// strategy that produces results for a completely cold profile.
type Popularity struct {
	cfg PopularityConfig
}

// NewPopularity creates the popularity scorer, applying defaults for zero
// values.
func NewPopularity(cfg PopularityConfig) *Popularity {
	if cfg.Weight == 0 {
		cfg.Weight = 0.2
	}
	if cfg.MinScore == 0 {
		cfg.MinScore = 0.3
	}
	if cfg.CategoryBonus == 0 {
		cfg.CategoryBonus = 0.3
	}
	if cfg.TagBonus == 0 {
		cfg.TagBonus = 0.2
	}
	return &Popularity{cfg: cfg}
}

// Name implements recommend.Scorer.
func (s *Popularity) Name() string {
	return recommend.AlgorithmPopularity
}

// Score implements recommend.Scorer.
func (s *Popularity) Score(ctx context.Context, snap *recommend.Snapshot) ([]recommend.Candidate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var out []recommend.Candidate
	for _, item := range snap.Catalog.Items() {
		if snap.Excluded(item.ID) {
			continue
		}

		blended := 0.7*snap.Popularity[item.ID] + 0.3*s.personalization(item, snap.Profile)
		if blended > s.cfg.MinScore {
			out = append(out, recommend.Candidate{
				ItemID:    item.ID,
				Score:     blended * s.cfg.Weight,
				Algorithm: s.Name(),
				Reason:    "Popular content",
			})
		}
	}
	return out, nil
}

// personalization rewards overlap between the item's categories and tags and
// the user's tracked interests or explicit preferences, capped at 1.
func (s *Popularity) personalization(item recommend.ContentItem, profile *recommend.Profile) float64 {
	if profile == nil {
		return 0
	}

	var score float64
	for _, cat := range item.Categories {
		if s.matchesProfile(cat, profile, profile.Preferences.Categories) {
			score += s.cfg.CategoryBonus
		}
	}
	for _, tag := range item.Tags {
		if s.matchesProfile(tag, profile, profile.Preferences.Tags) {
			score += s.cfg.TagBonus
		}
	}

	if score > 1 {
		return 1
	}
	return score
}

// matchesProfile reports whether the token is a tracked interest or an
// explicit preference.
func (s *Popularity) matchesProfile(token string, profile *recommend.Profile, prefs []string) bool {
	lower := strings.ToLower(token)
	if _, ok := profile.Interests[lower]; ok {
		return true
	}
	for _, p := range prefs {
		if strings.EqualFold(p, token) {
			return true
		}
	}
	return false
}
