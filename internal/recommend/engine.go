// ReadNext - Content Recommendation Engine for the NachoWeb3 Blog
// Copyright 2026 NachoWeb3
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nachoweb3/readnext

package recommend

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/nachoweb3/readnext/internal/metrics"
)

// Engine coordinates the catalog, user profiles, scoring strategies, ranking,
// and caching behind the public recommendation surface.
//
// All collaborators are injected at construction; the engine holds no global
// state. UserProfile and Popularity are the only mutable shared state, and
// every writer serializes through the engine's mutex. Scoring runs over
// immutable snapshots and never blocks writers.
type Engine struct {
	cfg        *Config
	vectorizer *Vectorizer
	ranker     *Ranker
	cache      *Cache
	popularity *Popularity
	logger     zerolog.Logger
	now        func() time.Time

	store  ProfileStore
	source CatalogSource
	events EventPublisher

	scorers map[string]Scorer

	mu         sync.RWMutex
	catalog    *Catalog
	profiles   map[string]*Profile
	lastServed map[string][]RankedItem
}

// NewEngine creates an engine over an already-indexed catalog. The
// configuration is validated once here.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func NewEngine(cfg *Config, catalog *Catalog, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	if catalog == nil {
		return nil, fmt.Errorf("catalog is required")
	}

	e := &Engine{
		cfg:        cfg,
		vectorizer: NewVectorizer(time.Now),
		ranker:     NewRanker(cfg),
		cache:      NewCache(cfg.CacheTTL, time.Now),
		popularity: NewPopularity(),
		logger:     logger.With().Str("component", "recommend").Logger(),
		now:        time.Now,
		scorers:    make(map[string]Scorer),
		catalog:    catalog,
		profiles:   make(map[string]*Profile),
		lastServed: make(map[string][]RankedItem),
	}

	e.popularity.Recompute(catalog, cfg.DecayRate, cfg.DecayCapWeeks, e.now())
	return e, nil
}

// SetClock replaces the engine's time source. Intended for tests; the cache
// and vectorizer follow the same clock.
func (e *Engine) SetClock(now func() time.Time) {
	e.now = now
	e.vectorizer = NewVectorizer(now)
	e.cache = NewCache(e.cfg.CacheTTL, now)
}

// SetProfileStore attaches durable profile persistence. Without a store the
// engine keeps profiles in memory only.
func (e *Engine) SetProfileStore(store ProfileStore) {
	e.store = store
}

// SetCatalogSource attaches the feed used by RefreshEngagement.
func (e *Engine) SetCatalogSource(source CatalogSource) {
	e.source = source
}

// SetEventPublisher attaches the fire-and-forget telemetry sink.
func (e *Engine) SetEventPublisher(events EventPublisher) {
	e.events = events
}

// RegisterScorer adds a scoring strategy under its Name.
func (e *Engine) RegisterScorer(s Scorer) {
	e.scorers[s.Name()] = s
	e.logger.Debug().Str("algorithm", s.Name()).Msg("registered scorer")
}

// Config returns a copy of the engine configuration.
func (e *Engine) Config() *Config {
	return e.cfg.Clone()
}

// Vectorizer returns the engine's vectorizer, sharing its clock.
func (e *Engine) Vectorizer() *Vectorizer {
	return e.vectorizer
}

// GetRecommendations produces a ranked, bounded list of related content.
//
// Invalid input is rejected at this boundary with ErrInvalidRequest or
// ErrUnknownAlgorithm; every other failure path degrades to fewer or more
// generic recommendations instead of erroring.
func (e *Engine) GetRecommendations(ctx context.Context, req Request) (*Response, error) {
	start := e.now()

	if err := e.validateRequest(&req); err != nil {
		metrics.RecommendationRequests.WithLabelValues(req.Algorithm, "invalid").Inc()
		return nil, err
	}

	key := CacheKey(req.UserID, req.CurrentItemID, req.Algorithm, req.MaxRecommendations)
	if items, ok := e.cache.Get(key); ok {
		metrics.RecommendationCacheHits.Inc()
		metrics.RecommendationRequests.WithLabelValues(req.Algorithm, "success").Inc()
		return &Response{
			Items:     items,
			Algorithm: req.Algorithm,
			UserID:    req.UserID,
			RequestID: req.RequestID,
			Cached:    true,
			LatencyMS: time.Since(start).Milliseconds(),
		}, nil
	}
	metrics.RecommendationCacheMisses.Inc()

	snap := e.snapshot(ctx, req)

	candidates, err := e.runScorers(ctx, req.Algorithm, snap)
	if err != nil {
		metrics.RecommendationRequests.WithLabelValues(req.Algorithm, "error").Inc()
		return nil, err
	}

	combined := combine(candidates, snap.Catalog)
	ranked := e.ranker.Rank(combined, snap, req.Algorithm, req.ExcludeViewed, req.MaxRecommendations)

	e.cache.Put(key, ranked)
	e.rememberServed(req.UserID, ranked)

	latency := time.Since(start)
	metrics.RecommendationRequests.WithLabelValues(req.Algorithm, "success").Inc()
	metrics.RecommendationLatency.WithLabelValues(req.Algorithm).Observe(latency.Seconds())

	e.emit("recommendation_served", map[string]interface{}{
		"user_id":    req.UserID,
		"request_id": req.RequestID,
		"algorithm":  req.Algorithm,
		"count":      len(ranked),
	})

	e.logger.Debug().
		Str("user", req.UserID).
		Str("algorithm", req.Algorithm).
		Int("count", len(ranked)).
		Dur("latency", latency).
		Msg("recommendations served")

	return &Response{
		Items:     ranked,
		Algorithm: req.Algorithm,
		UserID:    req.UserID,
		RequestID: req.RequestID,
		LatencyMS: latency.Milliseconds(),
	}, nil
}

// validateRequest normalizes defaults and rejects malformed input. Result
// sizes are never clamped: a non-positive size is the caller's bug.
func (e *Engine) validateRequest(req *Request) error {
	if req.UserID == "" {
		return fmt.Errorf("%w: user ID is required", ErrInvalidRequest)
	}
	if req.MaxRecommendations <= 0 {
		return fmt.Errorf("%w: max recommendations must be positive, got %d", ErrInvalidRequest, req.MaxRecommendations)
	}
	if req.Algorithm == "" {
		req.Algorithm = AlgorithmHybrid
	}
	if req.Algorithm != AlgorithmHybrid {
		if _, ok := e.scorers[req.Algorithm]; !ok {
			return fmt.Errorf("%w: %s", ErrUnknownAlgorithm, req.Algorithm)
		}
	}
	if req.RequestID == "" {
		req.RequestID = uuid.NewString()
	}
	return nil
}

// snapshot builds the immutable view a scoring pass runs over.
func (e *Engine) snapshot(ctx context.Context, req Request) *Snapshot {
	profile := e.profileClone(ctx, req.UserID)

	exclude := make(map[string]struct{}, 1)
	if req.CurrentItemID != "" {
		exclude[req.CurrentItemID] = struct{}{}
	}

	e.mu.RLock()
	catalog := e.catalog
	e.mu.RUnlock()

	return &Snapshot{
		Catalog:       catalog,
		Profile:       profile,
		ProfileVector: e.vectorizer.ProfileVector(profile),
		Popularity:    e.popularity.Snapshot(),
		Exclude:       exclude,
		Now:           e.now(),
	}
}

// runScorers executes the requested strategy, or all registered strategies
// in parallel for hybrid. Scorers are pure over the snapshot, so they can
// run concurrently without coordination.
func (e *Engine) runScorers(ctx context.Context, algorithm string, snap *Snapshot) ([]Candidate, error) {
	if algorithm != AlgorithmHybrid {
		return e.scorers[algorithm].Score(ctx, snap)
	}

	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		all []Candidate
	)
	for name, scorer := range e.scorers {
		wg.Add(1)
		go func(name string, scorer Scorer) {
			defer wg.Done()
			cands, err := scorer.Score(ctx, snap)
			if err != nil {
				// A single failing strategy degrades the blend, it
				// does not fail the request.
				e.logger.Warn().Err(err).Str("algorithm", name).Msg("scorer failed")
				return
			}
			mu.Lock()
			all = append(all, cands...)
			mu.Unlock()
		}(name, scorer)
	}
	wg.Wait()

	return all, nil
}

// combine merges per-strategy candidates by item: scores sum, contributing
// algorithms and reasons union. An item found by two strategies therefore
// outranks an item found by only one.
func combine(candidates []Candidate, catalog *Catalog) []RankedItem {
	merged := make(map[string]*RankedItem)
	order := make([]string, 0, len(candidates))

	for _, cand := range candidates {
		item, ok := merged[cand.ItemID]
		if !ok {
			content, err := catalog.Item(cand.ItemID)
			if err != nil {
				continue
			}
			item = &RankedItem{Content: content}
			merged[cand.ItemID] = item
			order = append(order, cand.ItemID)
		}
		item.Score += cand.Score
		if !containsFold(item.Algorithms, cand.Algorithm) {
			item.Algorithms = append(item.Algorithms, cand.Algorithm)
		}
		if cand.Reason != "" && !containsFold(item.Reasons, cand.Reason) {
			item.Reasons = append(item.Reasons, cand.Reason)
		}
	}

	out := make([]RankedItem, 0, len(merged))
	for _, id := range order {
		out = append(out, *merged[id])
	}
	return out
}

// RecordPageView registers a page view for a user: interests and history are
// updated, the profile is persisted, and the cache is invalidated.
func (e *Engine) RecordPageView(ctx context.Context, userID, itemID string, duration time.Duration) error {
	if userID == "" || itemID == "" {
		return fmt.Errorf("%w: user ID and item ID are required", ErrInvalidRequest)
	}

	e.mu.RLock()
	item, err := e.catalog.Item(itemID)
	e.mu.RUnlock()
	if err != nil {
		return err
	}

	now := e.now()
	e.mutateProfile(ctx, userID, func(p *Profile) {
		p.RecordPageView(item, duration, now)
	})

	e.cache.Clear()
	metrics.PageViewsRecorded.Inc()

	e.emit("pageview_recorded", map[string]interface{}{
		"user_id": userID,
		"item_id": itemID,
	})
	return nil
}

// RecordInteraction registers a behavioral signal for a user on an item.
// The popularity score is bumped immediately and the whole cache is cleared:
// conservative invalidation, correctness over hit rate.
func (e *Engine) RecordInteraction(ctx context.Context, userID, itemID string, typ InteractionType, value float64) error {
	if userID == "" || itemID == "" {
		return fmt.Errorf("%w: user ID and item ID are required", ErrInvalidRequest)
	}
	if !typ.Valid() {
		return fmt.Errorf("%w: unknown interaction type %q", ErrInvalidRequest, typ)
	}

	e.mu.RLock()
	item, err := e.catalog.Item(itemID)
	e.mu.RUnlock()
	if err != nil {
		return err
	}

	now := e.now()
	e.mutateProfile(ctx, userID, func(p *Profile) {
		p.RecordInteraction(item, typ, value, now)
	})

	e.popularity.Bump(itemID, typ.Weight())
	e.cache.Clear()
	metrics.InteractionsRecorded.WithLabelValues(string(typ)).Inc()

	e.emit("interaction_recorded", map[string]interface{}{
		"user_id": userID,
		"item_id": itemID,
		"type":    string(typ),
	})
	return nil
}

// ResetProfile clears a user's accumulated state, in memory and in the
// store.
func (e *Engine) ResetProfile(ctx context.Context, userID string) error {
	if userID == "" {
		return fmt.Errorf("%w: user ID is required", ErrInvalidRequest)
	}

	now := e.now()
	e.mutateProfile(ctx, userID, func(p *Profile) {
		p.Reset(now)
	})
	e.cache.Clear()

	if e.store != nil {
		if err := e.store.Delete(ctx, userID); err != nil {
			e.logger.Warn().Err(err).Str("user", userID).Msg("failed to delete stored profile")
		}
	}

	e.emit("profile_reset", map[string]interface{}{"user_id": userID})
	return nil
}

// GetProfile returns a copy of a user's profile.
func (e *Engine) GetProfile(ctx context.Context, userID string) (*Profile, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user ID is required", ErrInvalidRequest)
	}
	return e.profileClone(ctx, userID), nil
}

// RefreshEngagement re-reads engagement counters from the feed and
// recomputes popularity. A fetch failure leaves the current counters in
// place.
func (e *Engine) RefreshEngagement(ctx context.Context) error {
	if e.source == nil {
		return nil
	}

	fetchCtx, cancel := context.WithTimeout(ctx, e.cfg.CatalogTimeout)
	defer cancel()

	items, err := e.source.FetchContent(fetchCtx)
	if err != nil {
		metrics.CatalogFetches.WithLabelValues("error").Inc()
		return fmt.Errorf("fetch content: %w", err)
	}
	metrics.CatalogFetches.WithLabelValues("success").Inc()

	// Copy-on-write: scoring passes hold the old catalog pointer and keep a
	// consistent view while the swap happens under the write lock.
	e.mu.Lock()
	catalog, updated := e.catalog.WithEngagement(items)
	e.catalog = catalog
	e.mu.Unlock()

	e.DecayPopularity()

	e.logger.Info().Int("updated", updated).Msg("engagement counters refreshed")
	e.emit("catalog_loaded", map[string]interface{}{"items": len(items)})
	return nil
}

// ReloadCatalog replaces the whole catalog from the feed, picking up new and
// removed items, then recomputes popularity and clears the cache. The current
// catalog stays in place when the fetch fails or returns nothing. Returns the
// new catalog size.
func (e *Engine) ReloadCatalog(ctx context.Context) (int, error) {
	if e.source == nil {
		e.mu.RLock()
		defer e.mu.RUnlock()
		return e.catalog.Len(), nil
	}

	fetchCtx, cancel := context.WithTimeout(ctx, e.cfg.CatalogTimeout)
	defer cancel()

	items, err := e.source.FetchContent(fetchCtx)
	if err != nil {
		metrics.CatalogFetches.WithLabelValues("error").Inc()
		return 0, fmt.Errorf("fetch content: %w", err)
	}
	metrics.CatalogFetches.WithLabelValues("success").Inc()
	if len(items) == 0 {
		return 0, fmt.Errorf("catalog feed returned no items")
	}

	catalog := NewCatalog(items, e.vectorizer)
	e.mu.Lock()
	e.catalog = catalog
	e.mu.Unlock()

	e.popularity.Recompute(catalog, e.cfg.DecayRate, e.cfg.DecayCapWeeks, e.now())
	e.cache.Clear()
	metrics.CatalogItems.Set(float64(catalog.Len()))

	e.logger.Info().Int("items", catalog.Len()).Msg("catalog reloaded")
	e.emit("catalog_loaded", map[string]interface{}{"items": catalog.Len()})
	return catalog.Len(), nil
}

// DecayPopularity recomputes every item's decayed popularity score.
// Called periodically by the maintenance service.
func (e *Engine) DecayPopularity() {
	e.mu.RLock()
	catalog := e.catalog
	e.mu.RUnlock()

	e.popularity.Recompute(catalog, e.cfg.DecayRate, e.cfg.DecayCapWeeks, e.now())
}

// PopularitySnapshot exposes the current decayed scores for persistence.
func (e *Engine) PopularitySnapshot() map[string]float64 {
	return e.popularity.Snapshot()
}

// LoadPopularity restores persisted popularity scores. Anything above the
// recomputed engagement base is treated as interaction boost so the restored
// scores survive the next decay tick.
func (e *Engine) LoadPopularity(scores map[string]float64) {
	e.mu.RLock()
	catalog := e.catalog
	e.mu.RUnlock()

	e.popularity.Restore(scores, catalog, e.cfg.DecayRate, e.cfg.DecayCapWeeks, e.now())
}

// PruneProfiles drops interaction events past the retention window from
// every in-memory profile and persists the survivors. Returns the number of
// events removed.
func (e *Engine) PruneProfiles(ctx context.Context) int {
	now := e.now()

	e.mu.Lock()
	dropped := 0
	pruned := make([]*Profile, 0)
	for _, p := range e.profiles {
		if n := p.Prune(e.cfg.InteractionRetention, now); n > 0 {
			dropped += n
			pruned = append(pruned, p.Clone())
		}
	}
	e.mu.Unlock()

	for _, p := range pruned {
		e.persist(ctx, p)
	}

	if dropped > 0 {
		e.logger.Debug().Int("dropped", dropped).Msg("pruned stale interactions")
	}
	return dropped
}

// SweepCache evicts expired cache entries.
func (e *Engine) SweepCache() int {
	return e.cache.Sweep()
}

// Stats is a point-in-time operational summary of the engine.
type Stats struct {
	CatalogSize  int `json:"catalog_size"`
	Profiles     int `json:"profiles"`
	CacheEntries int `json:"cache_entries"`
	Scorers      int `json:"scorers"`
}

// Stats returns current engine counts for the status endpoint.
func (e *Engine) Stats() Stats {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return Stats{
		CatalogSize:  e.catalog.Len(),
		Profiles:     len(e.profiles),
		CacheEntries: e.cache.Len(),
		Scorers:      len(e.scorers),
	}
}

// mutateProfile applies fn to the user's profile under the engine's write
// lock and then persists the result. Single-writer discipline: tracking
// events and maintenance never mutate a profile concurrently.
func (e *Engine) mutateProfile(ctx context.Context, userID string, fn func(*Profile)) {
	e.mu.Lock()
	p := e.profiles[userID]
	if p == nil {
		p = e.loadProfileLocked(ctx, userID)
		e.profiles[userID] = p
	}
	fn(p)
	clone := p.Clone()
	e.mu.Unlock()

	e.persist(ctx, clone)
}

// profileClone returns an independent copy of the user's profile, loading it
// from the store on first access.
func (e *Engine) profileClone(ctx context.Context, userID string) *Profile {
	e.mu.RLock()
	if p := e.profiles[userID]; p != nil {
		clone := p.Clone()
		e.mu.RUnlock()
		return clone
	}
	e.mu.RUnlock()

	e.mu.Lock()
	defer e.mu.Unlock()
	p := e.profiles[userID]
	if p == nil {
		p = e.loadProfileLocked(ctx, userID)
		e.profiles[userID] = p
	}
	return p.Clone()
}

// loadProfileLocked reads a profile from the store. Store failure degrades
// to a fresh empty profile, logged, never fatal.
func (e *Engine) loadProfileLocked(ctx context.Context, userID string) *Profile {
	if e.store == nil {
		return NewProfile(userID)
	}

	p, err := e.store.Load(ctx, userID)
	if err != nil {
		if !errors.Is(err, ErrProfileNotFound) {
			e.logger.Warn().Err(err).Str("user", userID).Msg("profile load failed, starting fresh")
		}
		return NewProfile(userID)
	}
	return p
}

// persist writes a profile to the store. Failures are logged and swallowed;
// the in-memory profile remains authoritative for the session.
func (e *Engine) persist(ctx context.Context, p *Profile) {
	if e.store == nil || p == nil {
		return
	}
	if err := e.store.Save(ctx, p); err != nil {
		e.logger.Warn().Err(err).Str("user", p.UserID).Msg("profile save failed")
	}
}

// rememberServed keeps the last list served per user for the insights
// endpoint.
func (e *Engine) rememberServed(userID string, items []RankedItem) {
	e.mu.Lock()
	e.lastServed[userID] = items
	e.mu.Unlock()
}

// emit publishes a telemetry event when a sink is attached. Fire-and-forget
// by contract of EventPublisher.
func (e *Engine) emit(event string, payload map[string]interface{}) {
	if e.events == nil {
		return
	}
	e.events.Emit(event, payload)
}
