// ReadNext - Content Recommendation Engine for the NachoWeb3 Blog
// Copyright 2026 NachoWeb3
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nachoweb3/readnext

// Package recommend implements the "you may also like" engine behind the
// blog's related-content widget.
//
// Given a visitor's behavioral history and the content catalog, the engine
// produces a ranked, bounded list of recommendations. Three deterministic
// scoring strategies (collaborative, content-based, popularity) run over
// immutable snapshots and are blended additively by the hybrid combiner;
// the ranker then applies exclusion filters, a score floor, and freshness
// and diversity adjustments before truncating the list.
//
// All scores are explainable hand-weighted heuristics; there is no trained
// model. Every recommendation carries the names of the strategies that
// contributed and a human-readable reason.
//
// The engine holds the only mutable shared state (user profiles, popularity
// scores, the cache) behind a single write lock; scoring never blocks
// writers. Failures degrade: an unreachable feed falls back to the seed
// catalog, a broken profile store yields a fresh profile, and a failing
// strategy drops out of the hybrid blend. Only invalid input at the public
// boundary is surfaced as an error.
package recommend
