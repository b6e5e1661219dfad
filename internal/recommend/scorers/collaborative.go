// ReadNext - Content Recommendation Engine for the NachoWeb3 Blog
// Copyright 2026 NachoWeb3
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nachoweb3/readnext

package scorers

import (
	"context"

	"github.com/nachoweb3/readnext/internal/recommend"
)

// CollaborativeConfig holds the collaborative strategy tunables.
type CollaborativeConfig struct {
	// Weight is the hybrid multiplier applied to every candidate score.
	Weight float64

	// MinSimilarity is the cosine similarity a candidate must exceed.
	MinSimilarity float64

	// MinInteractions is the interaction count below which the strategy
	// delegates to the content-based fallback.
	MinInteractions int
}

// Collaborative scores items by similarity between the user's aggregate
// interaction vector and each item's interaction-weighted vector. With fewer
// than MinInteractions recorded events there is not enough signal, so it
// falls back to content-based scoring: a degradation policy, not an error.
type Collaborative struct {
	cfg      CollaborativeConfig
	fallback *ContentBased
}

// NewCollaborative creates the collaborative scorer with a content-based
// fallback for thin profiles.
func NewCollaborative(cfg CollaborativeConfig, fallback *ContentBased) *Collaborative {
	if cfg.Weight == 0 {
		cfg.Weight = 0.4
	}
	if cfg.MinSimilarity == 0 {
		cfg.MinSimilarity = 0.3
	}
	if cfg.MinInteractions == 0 {
		cfg.MinInteractions = 5
	}
	return &Collaborative{cfg: cfg, fallback: fallback}
}

// Name implements recommend.Scorer.
func (s *Collaborative) Name() string {
	return recommend.AlgorithmCollaborative
}

// Score implements recommend.Scorer.
func (s *Collaborative) Score(ctx context.Context, snap *recommend.Snapshot) ([]recommend.Candidate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if snap.Profile == nil || snap.Profile.InteractionCount() < s.cfg.MinInteractions {
		return s.fallback.Score(ctx, snap)
	}

	userVector := s.userInteractionVector(snap)
	if len(userVector) == 0 {
		return s.fallback.Score(ctx, snap)
	}

	var out []recommend.Candidate
	for _, item := range snap.Catalog.Items() {
		if snap.Excluded(item.ID) {
			continue
		}

		// An item with no recorded interactions has a zero interaction
		// vector and cannot be a collaborative candidate. For items that
		// do have interactions, scaling the content vector by the
		// interaction weight leaves the cosine unchanged, so the content
		// vector itself is compared.
		if snap.Profile.InteractionWeight(item.ID) <= 0 {
			continue
		}

		sim := recommend.CosineSimilarity(userVector, snap.Catalog.Vector(item.ID))
		if sim > s.cfg.MinSimilarity {
			out = append(out, recommend.Candidate{
				ItemID:    item.ID,
				Score:     sim * s.cfg.Weight,
				Algorithm: s.Name(),
				Reason:    "Users with similar interests liked this",
			})
		}
	}
	return out, nil
}

// userInteractionVector aggregates, over every interacted item, that item's
// feature vector scaled by the summed interaction weights.
func (s *Collaborative) userInteractionVector(snap *recommend.Snapshot) recommend.FeatureVector {
	vec := make(recommend.FeatureVector)
	for itemID := range snap.Profile.Interactions {
		itemVector := snap.Catalog.Vector(itemID)
		if itemVector == nil {
			continue
		}
		vec.AddScaled(itemVector, snap.Profile.InteractionWeight(itemID))
	}
	return vec
}
