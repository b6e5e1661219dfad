// ReadNext - Content Recommendation Engine for the NachoWeb3 Blog
// Copyright 2026 NachoWeb3
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nachoweb3/readnext

package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nachoweb3/readnext/internal/config"
	"github.com/nachoweb3/readnext/internal/metrics"
)

// Router assembles the HTTP routes over a handler.
type Router struct {
	handler *Handler
	cfg     config.ServerConfig
}

// NewRouter creates a router.
func NewRouter(handler *Handler, cfg config.ServerConfig) *Router {
	return &Router{handler: handler, cfg: cfg}
}

// Setup builds the full route tree.
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied to every route in order.
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: router.cfg.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))

	// Health endpoints stay outside the rate limit so orchestration probes
	// never get throttled.
	r.Route("/api/v1/health", func(r chi.Router) {
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
	})

	r.Route("/api/v1", func(r chi.Router) {
		if !router.cfg.RateLimitDisabled {
			r.Use(httprate.LimitByIP(router.cfg.RateLimitReqs, router.cfg.RateLimitWindow))
		}
		r.Use(prometheusMetrics)

		// Recommendation serving
		r.Get("/recommendations", router.handler.GetRecommendations)
		r.Get("/recommendations/insights", router.handler.GetInsights)

		// Behavior tracking
		r.Post("/interactions", router.handler.PostInteraction)
		r.Post("/pageviews", router.handler.PostPageView)

		// Profile management
		r.Get("/profile", router.handler.GetProfile)
		r.Delete("/profile", router.handler.DeleteProfile)

		// Administration
		r.Get("/status", router.handler.Status)
		r.Post("/catalog/refresh", router.handler.PostCatalogRefresh)
	})

	// Observability
	r.Handle("/metrics", promhttp.Handler())

	return r
}

// prometheusMetrics records per-route request counts and latency. The Chi
// route pattern is used as the endpoint label so path parameters do not
// explode label cardinality.
func prometheusMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		endpoint := chi.RouteContext(r.Context()).RoutePattern()
		metrics.APIRequestsTotal.WithLabelValues(r.Method, endpoint, strconv.Itoa(ww.Status())).Inc()
		metrics.APIRequestDuration.WithLabelValues(r.Method, endpoint).Observe(time.Since(start).Seconds())
	})
}
