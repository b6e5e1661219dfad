// ReadNext - Content Recommendation Engine for the NachoWeb3 Blog
// Copyright 2026 NachoWeb3
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nachoweb3/readnext

package api

import (
	"net/http"
	"time"

	"github.com/nachoweb3/readnext/internal/models"
)

// HealthLive answers as soon as the process serves HTTP.
func (h *Handler) HealthLive(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status:   "success",
		Data:     map[string]string{"state": "alive"},
		Metadata: &models.Metadata{Timestamp: time.Now()},
	})
}

// HealthReady answers once the engine can serve recommendations, which
// requires an indexed catalog and at least one registered strategy.
func (h *Handler) HealthReady(w http.ResponseWriter, _ *http.Request) {
	stats := h.engine.Stats()
	if stats.CatalogSize == 0 || stats.Scorers == 0 {
		respondError(w, http.StatusServiceUnavailable, "NOT_READY", "engine is not ready", nil)
		return
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status:   "success",
		Data:     map[string]string{"state": "ready"},
		Metadata: &models.Metadata{Timestamp: time.Now()},
	})
}

// statusData is the payload of GET /status.
type statusData struct {
	UptimeSeconds  int64       `json:"uptime_seconds"`
	Engine         interface{} `json:"engine"`
	StoredProfiles *int        `json:"stored_profiles,omitempty"`
}

// Status reports operational counts for the admin dashboard.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	data := statusData{
		UptimeSeconds: int64(time.Since(h.startTime).Seconds()),
		Engine:        h.engine.Stats(),
	}

	if h.profiles != nil {
		if count, err := h.profiles.Count(r.Context()); err == nil {
			data.StoredProfiles = &count
		}
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status:   "success",
		Data:     data,
		Metadata: &models.Metadata{Timestamp: time.Now()},
	})
}

// PostCatalogRefresh replaces the catalog from the feed on demand.
func (h *Handler) PostCatalogRefresh(w http.ResponseWriter, r *http.Request) {
	size, err := h.engine.ReloadCatalog(r.Context())
	if err != nil {
		respondError(w, http.StatusBadGateway, "FEED_UNAVAILABLE", "catalog feed is unavailable", err)
		return
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status:   "success",
		Data:     map[string]int{"items": size},
		Metadata: &models.Metadata{Timestamp: time.Now()},
	})
}
