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

// interactionRequest is the body of POST /interactions.
type interactionRequest struct {
	UserID string   `json:"user_id" validate:"required,max=128"`
	ItemID string   `json:"item_id" validate:"required,max=256"`
	Type   string   `json:"type" validate:"required,oneof=view click like share comment bookmark scroll-depth"`
	Value  *float64 `json:"value,omitempty"`
}

// pageViewRequest is the body of POST /pageviews.
type pageViewRequest struct {
	UserID     string `json:"user_id" validate:"required,max=128"`
	ItemID     string `json:"item_id" validate:"required,max=256"`
	DurationMS int64  `json:"duration_ms" validate:"gte=0"`
}

// PostInteraction records a behavioral signal. Accepted signals are applied
// asynchronously to the served lists (the cache is invalidated), so the
// endpoint answers 202.
func (h *Handler) PostInteraction(w http.ResponseWriter, r *http.Request) {
	var req interactionRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_BODY", "request body must be valid JSON", nil)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	// A missing value means the type's default weight applies.
	value := -1.0
	if req.Value != nil {
		value = *req.Value
	}

	err := h.engine.RecordInteraction(r.Context(), req.UserID, req.ItemID, recommend.InteractionType(req.Type), value)
	if err != nil {
		respondEngineError(w, err)
		return
	}

	respondJSON(w, http.StatusAccepted, &models.APIResponse{
		Status:   "success",
		Metadata: &models.Metadata{Timestamp: time.Now()},
	})
}

// PostPageView records a page view with its reading duration.
func (h *Handler) PostPageView(w http.ResponseWriter, r *http.Request) {
	var req pageViewRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_BODY", "request body must be valid JSON", nil)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	err := h.engine.RecordPageView(r.Context(), req.UserID, req.ItemID, time.Duration(req.DurationMS)*time.Millisecond)
	if err != nil {
		respondEngineError(w, err)
		return
	}

	respondJSON(w, http.StatusAccepted, &models.APIResponse{
		Status:   "success",
		Metadata: &models.Metadata{Timestamp: time.Now()},
	})
}

// GetProfile returns a copy of the visitor's accumulated profile.
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user")
	if userID == "" {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "user is required", nil)
		return
	}

	profile, err := h.engine.GetProfile(r.Context(), userID)
	if err != nil {
		respondEngineError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status:   "success",
		Data:     profile,
		Metadata: &models.Metadata{Timestamp: time.Now()},
	})
}

// DeleteProfile clears a visitor's accumulated state, in memory and in the
// store. The blog exposes this as the privacy opt-out.
func (h *Handler) DeleteProfile(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user")
	if userID == "" {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "user is required", nil)
		return
	}

	if err := h.engine.ResetProfile(r.Context(), userID); err != nil {
		respondEngineError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status:   "success",
		Metadata: &models.Metadata{Timestamp: time.Now()},
	})
}
