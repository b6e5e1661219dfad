// ReadNext - Content Recommendation Engine for the NachoWeb3 Blog
// Copyright 2026 NachoWeb3
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nachoweb3/readnext

// Package main is the entry point for the ReadNext recommendation server.
//
// ReadNext powers the "te puede interesar" widget on the NachoWeb3 blog. It
// tracks anonymous reading behavior, maintains per-visitor interest profiles,
// and serves hybrid recommendations that blend collaborative, content-based,
// and popularity signals.
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: layered defaults, YAML file, environment (Koanf v2)
//  2. Storage: BadgerDB for profiles and popularity scores
//  3. Catalog: content feed fetch behind a circuit breaker, seed fallback
//  4. Engine: scoring strategies, ranking, caching
//  5. Telemetry: in-process Watermill pub/sub for behavioral events
//  6. HTTP Server: REST API under /api/v1 plus Prometheus /metrics
//
// Everything long-running is placed under a suture supervision tree, so a
// crashing maintenance loop restarts without taking the listener down.
//
// # Configuration
//
// Common environment variables (see internal/config for the full list):
//
//	HTTP_PORT=8480
//	BADGER_PATH=/data/readnext
//	FEED_URL=https://nachoweb3.com/content.json
//	LOG_LEVEL=info
//
// An empty BADGER_PATH runs fully in-memory; an empty FEED_URL serves the
// built-in seed catalog without ever touching the network.
//
// # Signal Handling
//
// SIGINT and SIGTERM trigger graceful shutdown: the listener drains in-flight
// requests, the telemetry queue flushes, and BadgerDB closes cleanly.
package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/nachoweb3/readnext/internal/api"
	"github.com/nachoweb3/readnext/internal/config"
	"github.com/nachoweb3/readnext/internal/feed"
	"github.com/nachoweb3/readnext/internal/logging"
	"github.com/nachoweb3/readnext/internal/recommend"
	"github.com/nachoweb3/readnext/internal/recommend/scorers"
	"github.com/nachoweb3/readnext/internal/store"
	"github.com/nachoweb3/readnext/internal/supervisor"
	"github.com/nachoweb3/readnext/internal/supervisor/services"
	"github.com/nachoweb3/readnext/internal/telemetry"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("addr", cfg.Server.Addr()).
		Str("storage", cfg.Storage.Path).
		Str("feed_url", cfg.Feed.URL).
		Msg("Starting ReadNext")

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Storage. An empty path runs in-memory; profiles then live only as long
	// as the process.
	db, err := store.Open(cfg.Storage.Path, logging.Logger())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open profile store")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing profile store")
		}
	}()

	profileStore := store.NewProfileStore(db)
	popularityStore := store.NewPopularityStore(db)

	// Catalog. With a feed URL configured the initial load goes through the
	// circuit breaker; on failure (or with no URL) the seed catalog serves
	// until the refresh loop succeeds.
	var source recommend.CatalogSource
	if cfg.Feed.URL != "" {
		client := feed.NewClient(feed.Config{
			URL:          cfg.Feed.URL,
			Timeout:      cfg.Feed.Timeout,
			MaxBodyBytes: cfg.Feed.MaxBodyBytes,
		}, logging.Logger())
		source = feed.NewCircuitBreakerSource(client, logging.Logger())
	}

	vectorizer := recommend.NewVectorizer(nil)
	catalog := recommend.LoadCatalog(ctx, source, vectorizer, cfg.Feed.Timeout, logging.Logger())

	// Engine.
	engine, err := recommend.NewEngine(&cfg.Recommend, catalog, logging.Logger())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to build recommendation engine")
	}
	engine.SetProfileStore(profileStore)
	if source != nil {
		engine.SetCatalogSource(source)
	}

	registerScorers(engine, &cfg.Recommend)

	// Restore decayed popularity from the previous run.
	if scores, err := popularityStore.Load(ctx); err != nil {
		logging.Warn().Err(err).Msg("Failed to load persisted popularity scores")
	} else if len(scores) > 0 {
		engine.LoadPopularity(scores)
		logging.Info().Int("items", len(scores)).Msg("Popularity scores restored")
	}

	// Telemetry.
	publisher := telemetry.NewPublisher(telemetry.Config{
		QueueSize:     cfg.Telemetry.QueueSize,
		ChannelBuffer: cfg.Telemetry.ChannelBuffer,
	}, logging.Logger())
	defer func() {
		if err := publisher.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing telemetry publisher")
		}
	}()
	engine.SetEventPublisher(publisher)

	// HTTP.
	handler := api.NewHandler(engine, profileStore)
	router := api.NewRouter(handler, cfg.Server)

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  60 * time.Second,
	}

	// Supervision tree.
	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())

	tree.AddEventService(services.NewEventLogService(publisher, logging.Logger()))

	tree.AddMaintenanceService(services.NewMaintenanceService(engine, popularityStore, services.MaintenanceConfig{
		DecayInterval: cfg.Maintenance.DecayInterval,
		PruneInterval: cfg.Maintenance.PruneInterval,
	}, logging.Logger()))

	if cfg.Feed.URL != "" {
		tree.AddMaintenanceService(services.NewFeedService(engine, services.FeedConfig{
			RefreshInterval: cfg.Feed.RefreshInterval,
		}, logging.Logger()))
	}

	tree.AddAPIService(services.NewHTTPService(server, cfg.Server.Addr(), 10*time.Second, logging.Logger()))

	logging.Info().Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Shutdown signal received, waiting for services to stop")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	if unstopped, err := tree.UnstoppedServiceReport(); err == nil && len(unstopped) > 0 {
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
		}
	}

	// Persist the final popularity snapshot so decay carries across restarts.
	saveCtx, saveCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer saveCancel()
	if err := popularityStore.Save(saveCtx, engine.PopularitySnapshot()); err != nil {
		logging.Error().Err(err).Msg("Failed to persist popularity snapshot")
	}

	logging.Info().Msg("ReadNext stopped gracefully")
}

// registerScorers wires the three scoring strategies. Content-based doubles
// as the collaborative fallback for visitors with thin interaction history.
func registerScorers(engine *recommend.Engine, cfg *recommend.Config) {
	content := scorers.NewContentBased(scorers.ContentBasedConfig{
		Weight:        cfg.Weights.Content,
		MinSimilarity: cfg.MinScore,
	})
	engine.RegisterScorer(content)

	engine.RegisterScorer(scorers.NewCollaborative(scorers.CollaborativeConfig{
		Weight:          cfg.Weights.Collaborative,
		MinSimilarity:   cfg.MinScore,
		MinInteractions: cfg.MinCollaborativeInteractions,
	}, content))

	engine.RegisterScorer(scorers.NewPopularity(scorers.PopularityConfig{
		Weight:   cfg.Weights.Popularity,
		MinScore: cfg.MinScore,
	}))
}
