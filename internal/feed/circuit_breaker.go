// ReadNext - Content Recommendation Engine for the NachoWeb3 Blog
// Copyright 2026 NachoWeb3
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nachoweb3/readnext

package feed

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/nachoweb3/readnext/internal/metrics"
	"github.com/nachoweb3/readnext/internal/recommend"
)

// CircuitBreakerSource wraps a catalog source with a circuit breaker so a
// dead or slow feed stops being hammered while the engine serves from its
// current catalog (or the seed fallback).
//
// The breaker uses real time for its interval and timeout; tests exercise
// the wrapped source directly.
type CircuitBreakerSource struct {
	source recommend.CatalogSource
	cb     *gobreaker.CircuitBreaker[[]recommend.ContentItem]
	name   string
	logger zerolog.Logger
}

var _ recommend.CatalogSource = (*CircuitBreakerSource)(nil)

// NewCircuitBreakerSource wraps a source with the standard breaker settings:
// at most 3 probe requests while half-open, a 1 minute measurement window,
// and a 2 minute open period; the circuit opens at a 60% failure rate over
// at least 10 requests.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func NewCircuitBreakerSource(source recommend.CatalogSource, logger zerolog.Logger) *CircuitBreakerSource {
	const cbName = "catalog-feed"
	log := logger.With().Str("component", "feed").Str("breaker", cbName).Logger()

	metrics.CircuitBreakerState.WithLabelValues(cbName).Set(0)

	cb := gobreaker.NewCircuitBreaker[[]recommend.ContentItem](gobreaker.Settings{
		Name:        cbName,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			shouldTrip := failureRatio >= 0.6
			if shouldTrip {
				log.Warn().
					Uint32("failures", counts.TotalFailures).
					Float64("failure_rate", failureRatio*100).
					Msg("opening catalog feed circuit")
			}
			return shouldTrip
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr := stateToString(from)
			toStr := stateToString(to)
			log.Info().Str("from", fromStr).Str("to", toStr).Msg("catalog feed circuit state change")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
		},
	})

	return &CircuitBreakerSource{source: source, cb: cb, name: cbName, logger: log}
}

// FetchContent implements recommend.CatalogSource with breaker protection.
func (s *CircuitBreakerSource) FetchContent(ctx context.Context) ([]recommend.ContentItem, error) {
	items, err := s.cb.Execute(func() ([]recommend.ContentItem, error) {
		return s.source.FetchContent(ctx)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CircuitBreakerRequests.WithLabelValues(s.name, "rejected").Inc()
			s.logger.Warn().Err(err).Msg("catalog fetch rejected by open circuit")
		} else {
			metrics.CircuitBreakerRequests.WithLabelValues(s.name, "failure").Inc()
		}
		return nil, err
	}

	metrics.CircuitBreakerRequests.WithLabelValues(s.name, "success").Inc()
	return items, nil
}

// stateToFloat converts a breaker state to its metric value.
func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

// stateToString converts a breaker state to its log label.
func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
