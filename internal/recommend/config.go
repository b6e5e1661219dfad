// ReadNext - Content Recommendation Engine for the NachoWeb3 Blog
// Copyright 2026 NachoWeb3
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nachoweb3/readnext

package recommend

import (
	"fmt"
	"time"
)

// AlgorithmWeights holds the per-strategy multipliers used by the hybrid
// combiner.
type AlgorithmWeights struct {
	Collaborative float64 `json:"collaborative" koanf:"collaborative"`
	Content       float64 `json:"content" koanf:"content"`
	Popularity    float64 `json:"popularity" koanf:"popularity"`
}

// Config holds every tunable of the engine. Construct with DefaultConfig and
// override; Validate runs once at engine construction.
//
// The freshness/diversity multipliers and the weekly decay rate are
// hand-tuned values carried over from the production widget; they are
// exposed here for product tuning rather than hard-coded.
type Config struct {
	// Weights are the hybrid combiner strategy multipliers.
	Weights AlgorithmWeights `json:"weights" koanf:"weights"`

	// MinScore is the candidate and ranking score floor.
	MinScore float64 `json:"min_score" koanf:"min_score"`

	// MaxRecommendations is the default result size when the request does
	// not specify one.
	MaxRecommendations int `json:"max_recommendations" koanf:"max_recommendations"`

	// CacheTTL bounds how long a ranked list may be served from cache.
	CacheTTL time.Duration `json:"cache_ttl" koanf:"cache_ttl"`

	// FreshnessWeight scales the freshness bonus so it nudges rather than
	// dominates the base score.
	FreshnessWeight float64 `json:"freshness_weight" koanf:"freshness_weight"`

	// DiversityWeight scales the near-duplicate penalty.
	DiversityWeight float64 `json:"diversity_weight" koanf:"diversity_weight"`

	// DiversityThreshold is the pairwise Jaccard similarity above which two
	// candidates are considered near-duplicates.
	DiversityThreshold float64 `json:"diversity_threshold" koanf:"diversity_threshold"`

	// DecayRate is the weekly multiplicative popularity decay.
	DecayRate float64 `json:"decay_rate" koanf:"decay_rate"`

	// DecayCapWeeks caps how many weeks of decay can accumulate.
	DecayCapWeeks float64 `json:"decay_cap_weeks" koanf:"decay_cap_weeks"`

	// MinCollaborativeInteractions is the interaction count below which
	// collaborative scoring falls back to content-based.
	MinCollaborativeInteractions int `json:"min_collaborative_interactions" koanf:"min_collaborative_interactions"`

	// InteractionRetention is how long interaction events are kept before
	// periodic pruning removes them.
	InteractionRetention time.Duration `json:"interaction_retention" koanf:"interaction_retention"`

	// CatalogTimeout bounds the external feed fetch.
	CatalogTimeout time.Duration `json:"catalog_timeout" koanf:"catalog_timeout"`
}

// DefaultConfig returns the production defaults.
func DefaultConfig() *Config {
	return &Config{
		Weights: AlgorithmWeights{
			Collaborative: 0.4,
			Content:       0.3,
			Popularity:    0.2,
		},
		MinScore:                     0.3,
		MaxRecommendations:           6,
		CacheTTL:                     10 * time.Minute,
		FreshnessWeight:              0.1,
		DiversityWeight:              0.1,
		DiversityThreshold:           0.7,
		DecayRate:                    0.95,
		DecayCapWeeks:                30,
		MinCollaborativeInteractions: 5,
		InteractionRetention:         30 * 24 * time.Hour,
		CatalogTimeout:               10 * time.Second,
	}
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	if c.Weights.Collaborative < 0 || c.Weights.Content < 0 || c.Weights.Popularity < 0 {
		return fmt.Errorf("weights must be non-negative, got %+v", c.Weights)
	}
	if c.Weights.Collaborative+c.Weights.Content+c.Weights.Popularity == 0 {
		return fmt.Errorf("at least one algorithm weight must be positive")
	}
	if c.MinScore < 0 {
		return fmt.Errorf("min_score must be non-negative, got %f", c.MinScore)
	}
	if c.MaxRecommendations <= 0 {
		return fmt.Errorf("max_recommendations must be positive, got %d", c.MaxRecommendations)
	}
	if c.CacheTTL <= 0 {
		return fmt.Errorf("cache_ttl must be positive, got %s", c.CacheTTL)
	}
	if c.FreshnessWeight < 0 {
		return fmt.Errorf("freshness_weight must be non-negative, got %f", c.FreshnessWeight)
	}
	if c.DiversityWeight < 0 {
		return fmt.Errorf("diversity_weight must be non-negative, got %f", c.DiversityWeight)
	}
	if c.DiversityThreshold < 0 || c.DiversityThreshold > 1 {
		return fmt.Errorf("diversity_threshold must be in [0,1], got %f", c.DiversityThreshold)
	}
	if c.DecayRate <= 0 || c.DecayRate > 1 {
		return fmt.Errorf("decay_rate must be in (0,1], got %f", c.DecayRate)
	}
	if c.DecayCapWeeks < 0 {
		return fmt.Errorf("decay_cap_weeks must be non-negative, got %f", c.DecayCapWeeks)
	}
	if c.MinCollaborativeInteractions < 0 {
		return fmt.Errorf("min_collaborative_interactions must be non-negative, got %d", c.MinCollaborativeInteractions)
	}
	if c.InteractionRetention <= 0 {
		return fmt.Errorf("interaction_retention must be positive, got %s", c.InteractionRetention)
	}
	if c.CatalogTimeout <= 0 {
		return fmt.Errorf("catalog_timeout must be positive, got %s", c.CatalogTimeout)
	}
	return nil
}

// Clone returns an independent copy of the configuration.
func (c *Config) Clone() *Config {
	out := *c
	return &out
}

// ScoreFloor returns the effective ranking floor for a strategy. Candidate
// scores carry their strategy weight, so the raw MinScore threshold is scaled
// by the weight mass of the strategies that contributed: the full weight sum
// for hybrid, the single strategy weight otherwise. A floor left at the raw
// MinScore would silently reject every candidate of a low-weight strategy.
func (c *Config) ScoreFloor(algorithm string) float64 {
	w := c.Weights.Weight(algorithm)
	if algorithm == AlgorithmHybrid {
		w = c.Weights.Collaborative + c.Weights.Content + c.Weights.Popularity
	}
	if w <= 0 {
		w = 1
	}
	return c.MinScore * w
}

// Weight returns the hybrid multiplier for an algorithm name.
func (w AlgorithmWeights) Weight(algorithm string) float64 {
	switch algorithm {
	case AlgorithmCollaborative:
		return w.Collaborative
	case AlgorithmContent:
		return w.Content
	case AlgorithmPopularity:
		return w.Popularity
	default:
		return 0
	}
}
