// ReadNext - Content Recommendation Engine for the NachoWeb3 Blog
// Copyright 2026 NachoWeb3
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nachoweb3/readnext

package recommend

import (
	"math"
	"sync"
	"time"
)

// Popularity tracks decayed popularity scores per item. Each score is an
// engagement base (weighted counters, decayed by item age) plus an
// interaction boost accumulated from Bump calls. The boost is carried across
// recomputes, decaying at the same weekly rate, so a burst of interactions
// is not erased by the next maintenance tick.
//
// Recompute and Bump are the only writers and are serialized by the engine's
// maintenance discipline; reads take a snapshot.
type Popularity struct {
	mu          sync.RWMutex
	scores      map[string]float64
	boosts      map[string]float64
	lastDecayed time.Time
}

// boostFloor is the accumulated weight below which a decayed boost is
// dropped instead of lingering forever.
const boostFloor = 1e-6

// NewPopularity returns an empty popularity index.
func NewPopularity() *Popularity {
	return &Popularity{
		scores: make(map[string]float64),
		boosts: make(map[string]float64),
	}
}

// BaseEngagementScore computes the undecayed popularity of an item from its
// engagement counters.
func BaseEngagementScore(item ContentItem) float64 {
	return float64(item.Views)*0.3 +
		float64(item.Likes)*2 +
		float64(item.Shares)*5 +
		item.Engagement*100
}

// DecayFactor returns the multiplicative age decay for an item published at
// the given time: rate per week of age, capped at capWeeks weeks of decay.
func DecayFactor(published, now time.Time, rate float64, capWeeks float64) float64 {
	days := now.Sub(published).Hours() / 24
	if days < 0 {
		days = 0
	}
	weeks := days / 7
	if weeks > capWeeks {
		weeks = capWeeks
	}
	return math.Pow(rate, weeks)
}

// Recompute rebuilds every item's decayed score from the catalog, folding in
// the accumulated interaction boosts. Boosts decay at the weekly rate over
// the time elapsed since the previous recompute. Called periodically by the
// maintenance service and once at startup.
func (p *Popularity) Recompute(catalog *Catalog, rate, capWeeks float64, now time.Time) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.lastDecayed.IsZero() {
		if weeks := now.Sub(p.lastDecayed).Hours() / (24 * 7); weeks > 0 {
			factor := math.Pow(rate, weeks)
			for id := range p.boosts {
				p.boosts[id] *= factor
				if p.boosts[id] < boostFloor {
					delete(p.boosts, id)
				}
			}
		}
	}
	p.lastDecayed = now

	fresh := make(map[string]float64, catalog.Len())
	for _, item := range catalog.Items() {
		fresh[item.ID] = BaseEngagementScore(item)*DecayFactor(item.PublishedAt, now, rate, capWeeks) + p.boosts[item.ID]
	}
	p.scores = fresh
}

// Bump adds weight to an item's score immediately, so a burst of interactions
// is reflected before the next scheduled recompute.
func (p *Popularity) Bump(itemID string, weight float64) {
	p.mu.Lock()
	p.boosts[itemID] += weight
	p.scores[itemID] += weight
	p.mu.Unlock()
}

// Score returns the current decayed score for an item.
func (p *Popularity) Score(itemID string) float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.scores[itemID]
}

// Snapshot returns a copy of all current scores for lock-free scoring.
func (p *Popularity) Snapshot() map[string]float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := make(map[string]float64, len(p.scores))
	for id, score := range p.scores {
		out[id] = score
	}
	return out
}

// Restore reconciles a persisted score snapshot with the current catalog.
// The portion of a persisted score above the item's recomputed engagement
// base is interaction boost and is carried forward, so restored scores
// survive the next recompute instead of snapping back to the base.
func (p *Popularity) Restore(persisted map[string]float64, catalog *Catalog, rate, capWeeks float64, now time.Time) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.lastDecayed = now
	p.boosts = make(map[string]float64)
	p.scores = make(map[string]float64, catalog.Len())
	for _, item := range catalog.Items() {
		base := BaseEngagementScore(item) * DecayFactor(item.PublishedAt, now, rate, capWeeks)
		if boost := persisted[item.ID] - base; boost > boostFloor {
			p.boosts[item.ID] = boost
		}
		p.scores[item.ID] = base + p.boosts[item.ID]
	}
}
