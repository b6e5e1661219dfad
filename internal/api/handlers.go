// ReadNext - Content Recommendation Engine for the NachoWeb3 Blog
// Copyright 2026 NachoWeb3
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nachoweb3/readnext

// Package api provides the HTTP surface of the recommendation engine using
// the Chi router.
//
// Handler methods are split across files:
//   - handlers.go: Handler struct and constructor (this file)
//   - helpers.go: response envelope and parameter helpers
//   - handlers_recommend.go: recommendation serving and insights
//   - handlers_tracking.go: behavior tracking and profile management
//   - handlers_health.go: health, status, and catalog administration
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/nachoweb3/readnext/internal/recommend"
)

// Handler contains the dependencies for the API handlers.
type Handler struct {
	engine    *recommend.Engine
	profiles  ProfileCounter
	startTime time.Time
}

// ProfileCounter reports how many profiles are durably stored. Optional;
// the status endpoint omits the count when no store is attached.
type ProfileCounter interface {
	Count(ctx context.Context) (int, error)
}

// NewHandler creates the API handler over an engine. counter may be nil.
func NewHandler(engine *recommend.Engine, counter ProfileCounter) *Handler {
	return &Handler{
		engine:    engine,
		profiles:  counter,
		startTime: time.Now(),
	}
}

// respondEngineError maps engine sentinel errors onto HTTP statuses.
func respondEngineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, recommend.ErrInvalidRequest):
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
	case errors.Is(err, recommend.ErrUnknownAlgorithm):
		respondError(w, http.StatusBadRequest, "UNKNOWN_ALGORITHM", err.Error(), nil)
	case errors.Is(err, recommend.ErrItemNotFound):
		respondError(w, http.StatusNotFound, "ITEM_NOT_FOUND", err.Error(), nil)
	default:
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error", err)
	}
}
