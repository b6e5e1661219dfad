// ReadNext - Content Recommendation Engine for the NachoWeb3 Blog
// Copyright 2026 NachoWeb3
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nachoweb3/readnext

// Package scorers implements the individual scoring strategies registered
// with the recommendation engine. Every scorer is a pure function over an
// immutable snapshot: no strategy mutates profile, catalog, or popularity
// state.
package scorers

import (
	"context"

	"github.com/nachoweb3/readnext/internal/recommend"
)

// Compile-time interface checks.
var (
	_ recommend.Scorer = (*ContentBased)(nil)
	_ recommend.Scorer = (*Collaborative)(nil)
	_ recommend.Scorer = (*Popularity)(nil)
)

// ContentBasedConfig holds the content-based strategy tunables.
type ContentBasedConfig struct {
	// Weight is the hybrid multiplier applied to every candidate score.
	Weight float64

	// MinSimilarity is the cosine similarity a candidate must exceed.
	MinSimilarity float64
}

// ContentBased scores items by cosine similarity between the user's profile
// vector and each item's content vector. It works from the very first page
// view, so it also serves as the collaborative strategy's fallback.
type ContentBased struct {
	cfg ContentBasedConfig
}

// NewContentBased creates the content-based scorer, applying defaults for
// zero values.
func NewContentBased(cfg ContentBasedConfig) *ContentBased {
	if cfg.Weight == 0 {
		cfg.Weight = 0.3
	}
	if cfg.MinSimilarity == 0 {
		cfg.MinSimilarity = 0.3
	}
	return &ContentBased{cfg: cfg}
}

// Name implements recommend.Scorer.
func (s *ContentBased) Name() string {
	return recommend.AlgorithmContent
}

// Score implements recommend.Scorer.
func (s *ContentBased) Score(ctx context.Context, snap *recommend.Snapshot) ([]recommend.Candidate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(snap.ProfileVector) == 0 {
		// Cold start: nothing to compare against.
		return nil, nil
	}

	var out []recommend.Candidate
	for _, item := range snap.Catalog.Items() {
		if snap.Excluded(item.ID) {
			continue
		}

		sim := recommend.CosineSimilarity(snap.ProfileVector, snap.Catalog.Vector(item.ID))
		if sim > s.cfg.MinSimilarity {
			out = append(out, recommend.Candidate{
				ItemID:    item.ID,
				Score:     sim * s.cfg.Weight,
				Algorithm: s.Name(),
				Reason:    "Similar to your interests",
			})
		}
	}
	return out, nil
}
