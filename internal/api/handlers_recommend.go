// ReadNext - Content Recommendation Engine for the NachoWeb3 Blog
// Copyright 2026 NachoWeb3
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nachoweb3/readnext

package api

import (
	"net/http"
	"time"

	"github.com/nachoweb3/readnext/internal/models"
	"github.com/nachoweb3/readnext/internal/recommend"
)

// recommendationQuery is the validated shape of GET /recommendations.
type recommendationQuery struct {
	UserID    string `validate:"required,max=128"`
	ItemID    string `validate:"max=256"`
	Limit     int    `validate:"min=1,max=50"`
	Algorithm string `validate:"algorithm"`
}

// GetRecommendations serves a ranked list of related content.
//
// Query parameters:
//   - user: visitor identifier (required)
//   - item: item currently being read, excluded from results (optional)
//   - k: result size, defaults to the engine's configured maximum
//   - algorithm: collaborative, content, popularity, or hybrid (default)
//   - exclude_viewed: drop items already in the reading history (default true)
func (h *Handler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	limit, err := getIntParam(r, "k", h.engine.Config().MaxRecommendations)
	if err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
		return
	}
	excludeViewed, err := getBoolParam(r, "exclude_viewed", true)
	if err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
		return
	}

	query := recommendationQuery{
		UserID:    r.URL.Query().Get("user"),
		ItemID:    r.URL.Query().Get("item"),
		Limit:     limit,
		Algorithm: r.URL.Query().Get("algorithm"),
	}
	if apiErr := validateRequest(&query); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	resp, err := h.engine.GetRecommendations(r.Context(), recommend.Request{
		UserID:             query.UserID,
		CurrentItemID:      query.ItemID,
		MaxRecommendations: query.Limit,
		Algorithm:          query.Algorithm,
		ExcludeViewed:      excludeViewed,
	})
	if err != nil {
		respondEngineError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   resp,
		Metadata: &models.Metadata{
			Timestamp:   time.Now(),
			QueryTimeMS: resp.LatencyMS,
			Cached:      resp.Cached,
			RequestID:   resp.RequestID,
		},
	})
}

// GetInsights summarizes the last recommendation list served to a user.
func (h *Handler) GetInsights(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user")
	if userID == "" {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "user is required", nil)
		return
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status:   "success",
		Data:     h.engine.Insights(userID),
		Metadata: &models.Metadata{Timestamp: time.Now()},
	})
}
