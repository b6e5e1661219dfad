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

// CatalogEngine is the subset of the recommendation engine the feed loop
// drives.
type CatalogEngine interface {
	ReloadCatalog(ctx context.Context) (int, error)
	RefreshEngagement(ctx context.Context) error
}

// FeedConfig holds the refresh cadence.
type FeedConfig struct {
	// RefreshInterval is how often the feed is consulted.
	RefreshInterval time.Duration

	// FullReloadEvery is the number of refresh ticks between full catalog
	// reloads. The ticks in between only refresh engagement counters, which
	// keeps popularity fresh without re-indexing the catalog.
	FullReloadEvery int
}

// FeedService keeps the catalog in sync with the blog's content feed. Most
// ticks only pull updated engagement counts; every FullReloadEvery-th tick
// the whole catalog is replaced so new posts become recommendable.
type FeedService struct {
	engine CatalogEngine
	cfg    FeedConfig
	logger zerolog.Logger
}

// NewFeedService creates the feed refresh service.
func NewFeedService(engine CatalogEngine, cfg FeedConfig, logger zerolog.Logger) *FeedService {
	if cfg.RefreshInterval <= 0 {
		cfg.RefreshInterval = 15 * time.Minute
	}
	if cfg.FullReloadEvery <= 0 {
		cfg.FullReloadEvery = 4
	}
	return &FeedService{
		engine: engine,
		cfg:    cfg,
		logger: logger.With().Str("service", "feed").Logger(),
	}
}

// Serve implements suture.Service.
func (s *FeedService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.cfg.RefreshInterval)
	defer ticker.Stop()

	s.logger.Info().
		Dur("refresh_interval", s.cfg.RefreshInterval).
		Int("full_reload_every", s.cfg.FullReloadEvery).
		Msg("feed refresh loop started")

	tick := 0
	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("feed refresh loop stopped")
			return ctx.Err()
		case <-ticker.C:
			tick++
			if tick%s.cfg.FullReloadEvery == 0 {
				s.reload(ctx)
			} else {
				s.refresh(ctx)
			}
		}
	}
}

func (s *FeedService) reload(ctx context.Context) {
	items, err := s.engine.ReloadCatalog(ctx)
	if err != nil {
		metrics.MaintenanceRuns.WithLabelValues("catalog_reload", "error").Inc()
		s.logger.Warn().Err(err).Msg("catalog reload failed, serving previous catalog")
		return
	}
	metrics.MaintenanceRuns.WithLabelValues("catalog_reload", "success").Inc()
	s.logger.Info().Int("items", items).Msg("catalog reloaded from feed")
}

func (s *FeedService) refresh(ctx context.Context) {
	if err := s.engine.RefreshEngagement(ctx); err != nil {
		metrics.MaintenanceRuns.WithLabelValues("engagement_refresh", "error").Inc()
		s.logger.Warn().Err(err).Msg("engagement refresh failed")
		return
	}
	metrics.MaintenanceRuns.WithLabelValues("engagement_refresh", "success").Inc()
	s.logger.Debug().Msg("engagement counters refreshed")
}

// String implements fmt.Stringer for supervisor event logs.
func (s *FeedService) String() string {
	return "feed-refresh"
}
