// ReadNext - Content Recommendation Engine for the NachoWeb3 Blog
// Copyright 2026 NachoWeb3
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nachoweb3/readnext

package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

type fakeCatalogEngine struct {
	reloads    atomic.Int32
	refreshes  atomic.Int32
	reloadErr  error
	refreshErr error
}

func (f *fakeCatalogEngine) ReloadCatalog(_ context.Context) (int, error) {
	f.reloads.Add(1)
	if f.reloadErr != nil {
		return 0, f.reloadErr
	}
	return 42, nil
}

func (f *fakeCatalogEngine) RefreshEngagement(_ context.Context) error {
	f.refreshes.Add(1)
	return f.refreshErr
}

func TestFeedService_AlternatesRefreshAndReload(t *testing.T) {
	t.Parallel()

	engine := &fakeCatalogEngine{}
	svc := NewFeedService(engine, FeedConfig{
		RefreshInterval: 10 * time.Millisecond,
		FullReloadEvery: 3,
	}, zerolog.Nop())

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Millisecond)
	defer cancel()

	if err := svc.Serve(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Serve() error = %v, want context.DeadlineExceeded", err)
	}

	if engine.refreshes.Load() == 0 {
		t.Error("RefreshEngagement() was never called")
	}
	if engine.reloads.Load() == 0 {
		t.Error("ReloadCatalog() was never called")
	}
	// With FullReloadEvery=3, engagement refreshes outnumber full reloads.
	if engine.refreshes.Load() <= engine.reloads.Load() {
		t.Errorf("refreshes = %d, reloads = %d, want more refreshes than reloads",
			engine.refreshes.Load(), engine.reloads.Load())
	}
}

func TestFeedService_SurvivesFailures(t *testing.T) {
	t.Parallel()

	engine := &fakeCatalogEngine{
		reloadErr:  errors.New("feed unreachable"),
		refreshErr: errors.New("feed unreachable"),
	}
	svc := NewFeedService(engine, FeedConfig{
		RefreshInterval: 10 * time.Millisecond,
		FullReloadEvery: 2,
	}, zerolog.Nop())

	ctx, cancel := context.WithTimeout(context.Background(), 80*time.Millisecond)
	defer cancel()
	_ = svc.Serve(ctx)

	if engine.refreshes.Load()+engine.reloads.Load() < 3 {
		t.Errorf("ticks = %d, want loop to keep running through failures",
			engine.refreshes.Load()+engine.reloads.Load())
	}
}

func TestFeedService_Defaults(t *testing.T) {
	t.Parallel()

	svc := NewFeedService(&fakeCatalogEngine{}, FeedConfig{}, zerolog.Nop())
	if svc.cfg.RefreshInterval != 15*time.Minute {
		t.Errorf("RefreshInterval = %v, want 15m", svc.cfg.RefreshInterval)
	}
	if svc.cfg.FullReloadEvery != 4 {
		t.Errorf("FullReloadEvery = %d, want 4", svc.cfg.FullReloadEvery)
	}
}
