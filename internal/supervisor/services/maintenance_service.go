// ReadNext - Content Recommendation Engine for the NachoWeb3 Blog
// Copyright 2026 NachoWeb3
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nachoweb3/readnext

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/nachoweb3/readnext/internal/metrics"
)

// MaintenanceEngine is the subset of the recommendation engine the
// maintenance loops drive.
type MaintenanceEngine interface {
	DecayPopularity()
	PopularitySnapshot() map[string]float64
	PruneProfiles(ctx context.Context) int
	SweepCache() int
}

// PopularitySaver persists popularity scores so they survive restarts.
type PopularitySaver interface {
	Save(ctx context.Context, scores map[string]float64) error
}

// MaintenanceConfig holds the loop intervals.
type MaintenanceConfig struct {
	// DecayInterval is how often popularity decay is applied and persisted.
	DecayInterval time.Duration

	// PruneInterval is how often expired profiles and cache entries are
	// removed.
	PruneInterval time.Duration
}

// MaintenanceService runs the periodic housekeeping of the engine: applying
// popularity decay, persisting the decayed scores, pruning retired profiles,
// and sweeping expired cache entries.
type MaintenanceService struct {
	engine MaintenanceEngine
	saver  PopularitySaver
	cfg    MaintenanceConfig
	logger zerolog.Logger
}

// NewMaintenanceService creates the maintenance service. saver may be nil
// when the deployment has no persistent store.
func NewMaintenanceService(engine MaintenanceEngine, saver PopularitySaver, cfg MaintenanceConfig, logger zerolog.Logger) *MaintenanceService {
	if cfg.DecayInterval <= 0 {
		cfg.DecayInterval = time.Minute
	}
	if cfg.PruneInterval <= 0 {
		cfg.PruneInterval = 5 * time.Minute
	}
	return &MaintenanceService{
		engine: engine,
		saver:  saver,
		cfg:    cfg,
		logger: logger.With().Str("service", "maintenance").Logger(),
	}
}

// Serve implements suture.Service.
func (s *MaintenanceService) Serve(ctx context.Context) error {
	decayTicker := time.NewTicker(s.cfg.DecayInterval)
	defer decayTicker.Stop()
	pruneTicker := time.NewTicker(s.cfg.PruneInterval)
	defer pruneTicker.Stop()

	s.logger.Info().
		Dur("decay_interval", s.cfg.DecayInterval).
		Dur("prune_interval", s.cfg.PruneInterval).
		Msg("maintenance loops started")

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("maintenance loops stopped")
			return ctx.Err()
		case <-decayTicker.C:
			s.runDecay(ctx)
		case <-pruneTicker.C:
			s.runPrune(ctx)
		}
	}
}

func (s *MaintenanceService) runDecay(ctx context.Context) {
	s.engine.DecayPopularity()

	if s.saver == nil {
		metrics.MaintenanceRuns.WithLabelValues("decay", "success").Inc()
		return
	}

	if err := s.saver.Save(ctx, s.engine.PopularitySnapshot()); err != nil {
		metrics.MaintenanceRuns.WithLabelValues("decay", "error").Inc()
		s.logger.Error().Err(err).Msg("failed to persist popularity scores")
		return
	}
	metrics.MaintenanceRuns.WithLabelValues("decay", "success").Inc()
	s.logger.Debug().Msg("popularity decayed and persisted")
}

func (s *MaintenanceService) runPrune(ctx context.Context) {
	pruned := s.engine.PruneProfiles(ctx)
	swept := s.engine.SweepCache()
	metrics.MaintenanceRuns.WithLabelValues("prune", "success").Inc()

	if pruned > 0 || swept > 0 {
		s.logger.Info().
			Int("profiles_pruned", pruned).
			Int("cache_swept", swept).
			Msg("expired state removed")
	}
}

// String implements fmt.Stringer for supervisor event logs.
func (s *MaintenanceService) String() string {
	return "maintenance"
}
