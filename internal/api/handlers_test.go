// ReadNext - Content Recommendation Engine for the NachoWeb3 Blog
// Copyright 2026 NachoWeb3
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nachoweb3/readnext

package api

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/nachoweb3/readnext/internal/config"
	"github.com/nachoweb3/readnext/internal/models"
	"github.com/nachoweb3/readnext/internal/recommend"
	"github.com/nachoweb3/readnext/internal/recommend/scorers"
)

var apiNow = time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

func testItems() []recommend.ContentItem {
	published := apiNow.AddDate(0, 0, -10)
	items := make([]recommend.ContentItem, 0, 5)
	for i := 0; i < 5; i++ {
		items = append(items, recommend.ContentItem{
			ID:          fmt.Sprintf("item-%d", i),
			Title:       fmt.Sprintf("Artículo %d", i),
			Tags:        []string{fmt.Sprintf("topic-%d", i)},
			PublishedAt: published,
			Views:       int64(5000 - i*1000),
		})
	}
	return items
}

// newTestServer builds a router over a fully wired engine with no store.
func newTestServer(t *testing.T) (*httptest.Server, *recommend.Engine) {
	t.Helper()

	clock := func() time.Time { return apiNow }
	catalog := recommend.NewCatalog(testItems(), recommend.NewVectorizer(clock))
	engine, err := recommend.NewEngine(recommend.DefaultConfig(), catalog, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	engine.SetClock(clock)

	content := scorers.NewContentBased(scorers.ContentBasedConfig{})
	engine.RegisterScorer(content)
	engine.RegisterScorer(scorers.NewCollaborative(scorers.CollaborativeConfig{}, content))
	engine.RegisterScorer(scorers.NewPopularity(scorers.PopularityConfig{}))

	router := NewRouter(NewHandler(engine, nil), config.ServerConfig{
		CORSOrigins:       []string{"*"},
		RateLimitDisabled: true,
	})

	srv := httptest.NewServer(router.Setup())
	t.Cleanup(srv.Close)
	return srv, engine
}

func decodeEnvelope(t *testing.T, resp *http.Response) (models.APIResponse, json.RawMessage) {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()

	var envelope struct {
		Status   string           `json:"status"`
		Data     json.RawMessage  `json:"data"`
		Metadata *models.Metadata `json:"metadata"`
		Error    *models.APIError `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	return models.APIResponse{
		Status:   envelope.Status,
		Metadata: envelope.Metadata,
		Error:    envelope.Error,
	}, envelope.Data
}

func TestGetRecommendations_Success(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/v1/recommendations?user=u1&algorithm=popularity&k=3")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if resp.Header.Get("ETag") == "" {
		t.Error("response must carry an ETag")
	}

	envelope, data := decodeEnvelope(t, resp)
	if envelope.Status != "success" {
		t.Errorf("Status = %s", envelope.Status)
	}
	if envelope.Metadata == nil || envelope.Metadata.RequestID == "" {
		t.Error("metadata must carry the request ID")
	}

	var body recommend.Response
	if err := json.Unmarshal(data, &body); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if len(body.Items) == 0 || len(body.Items) > 3 {
		t.Errorf("got %d items", len(body.Items))
	}
	if body.Algorithm != recommend.AlgorithmPopularity {
		t.Errorf("Algorithm = %s", body.Algorithm)
	}
}

func TestGetRecommendations_Validation(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t)

	tests := []struct {
		name  string
		query string
	}{
		{"missing user", "k=3"},
		{"unknown algorithm", "user=u1&algorithm=magic"},
		{"k too large", "user=u1&k=100"},
		{"k zero", "user=u1&k=0"},
		{"k not a number", "user=u1&k=abc"},
		{"exclude_viewed not a boolean", "user=u1&exclude_viewed=maybe"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			resp, err := http.Get(srv.URL + "/api/v1/recommendations?" + tt.query)
			if err != nil {
				t.Fatalf("GET: %v", err)
			}
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", resp.StatusCode)
			}
			envelope, _ := decodeEnvelope(t, resp)
			if envelope.Error == nil || envelope.Error.Code != "VALIDATION_ERROR" {
				t.Errorf("error = %+v", envelope.Error)
			}
		})
	}
}

func TestPostInteraction(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t)

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantCode   string
	}{
		{"accepted", `{"user_id":"u1","item_id":"item-0","type":"like"}`, http.StatusAccepted, ""},
		{"with value", `{"user_id":"u1","item_id":"item-0","type":"scroll-depth","value":0.8}`, http.StatusAccepted, ""},
		{"unknown item", `{"user_id":"u1","item_id":"ghost","type":"like"}`, http.StatusNotFound, "ITEM_NOT_FOUND"},
		{"bad type", `{"user_id":"u1","item_id":"item-0","type":"applaud"}`, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"missing user", `{"item_id":"item-0","type":"like"}`, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"malformed body", `{"user_id":`, http.StatusBadRequest, "INVALID_BODY"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			resp, err := http.Post(srv.URL+"/api/v1/interactions", "application/json", strings.NewReader(tt.body))
			if err != nil {
				t.Fatalf("POST: %v", err)
			}
			if resp.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
			envelope, _ := decodeEnvelope(t, resp)
			if tt.wantCode == "" {
				if envelope.Status != "success" {
					t.Errorf("Status = %s", envelope.Status)
				}
			} else if envelope.Error == nil || envelope.Error.Code != tt.wantCode {
				t.Errorf("error = %+v, want code %s", envelope.Error, tt.wantCode)
			}
		})
	}
}

func TestPageViewShapesProfile(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t)

	body := `{"user_id":"reader","item_id":"item-2","duration_ms":45000}`
	resp, err := http.Post(srv.URL+"/api/v1/pageviews", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	_ = resp.Body.Close()

	resp, err = http.Get(srv.URL + "/api/v1/profile?user=reader")
	if err != nil {
		t.Fatalf("GET profile: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("profile status = %d", resp.StatusCode)
	}

	_, data := decodeEnvelope(t, resp)
	var profile recommend.Profile
	if err := json.Unmarshal(data, &profile); err != nil {
		t.Fatalf("decode profile: %v", err)
	}
	if len(profile.History) != 1 || profile.History[0].ItemID != "item-2" {
		t.Errorf("History = %v", profile.History)
	}
	if profile.Interests["topic-2"] == 0 {
		t.Errorf("Interests = %v", profile.Interests)
	}
}

func TestDeleteProfile(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t)

	body := `{"user_id":"leaver","item_id":"item-1","duration_ms":1000}`
	if _, err := http.Post(srv.URL+"/api/v1/pageviews", "application/json", strings.NewReader(body)); err != nil {
		t.Fatalf("POST: %v", err)
	}

	req, _ := http.NewRequest(http.MethodDelete, srv.URL+"/api/v1/profile?user=leaver", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("DELETE: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	_ = resp.Body.Close()

	resp, err = http.Get(srv.URL + "/api/v1/profile?user=leaver")
	if err != nil {
		t.Fatalf("GET profile: %v", err)
	}
	_, data := decodeEnvelope(t, resp)
	var profile recommend.Profile
	if err := json.Unmarshal(data, &profile); err != nil {
		t.Fatalf("decode profile: %v", err)
	}
	if len(profile.History) != 0 || len(profile.Interests) != 0 {
		t.Errorf("profile after reset = %+v", profile)
	}
}

func TestInsights(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t)

	if _, err := http.Get(srv.URL + "/api/v1/recommendations?user=curious&k=5"); err != nil {
		t.Fatalf("GET recommendations: %v", err)
	}

	resp, err := http.Get(srv.URL + "/api/v1/recommendations/insights?user=curious")
	if err != nil {
		t.Fatalf("GET insights: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	_, data := decodeEnvelope(t, resp)
	var insights recommend.Insights
	if err := json.Unmarshal(data, &insights); err != nil {
		t.Fatalf("decode insights: %v", err)
	}
	if insights.Count == 0 {
		t.Error("insights must reflect the served list")
	}
}

func TestHealthEndpoints(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t)

	for _, path := range []string{"/api/v1/health/live", "/api/v1/health/ready"} {
		resp, err := http.Get(srv.URL + path)
		if err != nil {
			t.Fatalf("GET %s: %v", path, err)
		}
		if resp.StatusCode != http.StatusOK {
			t.Errorf("%s status = %d", path, resp.StatusCode)
		}
		_ = resp.Body.Close()
	}
}

func TestStatus(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/v1/status")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	_, data := decodeEnvelope(t, resp)
	var status statusData
	if err := json.Unmarshal(data, &status); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	if status.StoredProfiles != nil {
		t.Error("stored profile count must be omitted without a store")
	}
}

func TestCatalogRefreshWithoutSource(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t)

	resp, err := http.Post(srv.URL+"/api/v1/catalog/refresh", "application/json", nil)
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	_, data := decodeEnvelope(t, resp)
	var out map[string]int
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out["items"] != 5 {
		t.Errorf("items = %d", out["items"])
	}
}

func TestMetricsEndpoint(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}
}

func TestSanitizeLogValue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"with\nnewline", "with\\x0anewline"},
		{"tab\there", "tab\\x09here"},
		{"del\x7f", "del\\x7f"},
	}
	for _, tt := range tests {
		if got := sanitizeLogValue(tt.in); got != tt.want {
			t.Errorf("sanitizeLogValue(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
