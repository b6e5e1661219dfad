// ReadNext - Content Recommendation Engine for the NachoWeb3 Blog
// Copyright 2026 NachoWeb3
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nachoweb3/readnext

package recommend

import (
	"math"
	"testing"
)

func TestBaseEngagementScore(t *testing.T) {
	t.Parallel()

	item := ContentItem{Views: 100, Likes: 10, Shares: 4, Engagement: 0.5}
	want := 100*0.3 + 10*2.0 + 4*5.0 + 0.5*100
	if got := BaseEngagementScore(item); math.Abs(got-want) > 1e-9 {
		t.Errorf("BaseEngagementScore = %f, want %f", got, want)
	}

	if got := BaseEngagementScore(ContentItem{}); got != 0 {
		t.Errorf("zero counters must score 0, got %f", got)
	}
}

func TestDecayFactor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		daysAgo int
		want    float64
	}{
		{"brand new", 0, 1},
		{"one week", 7, 0.95},
		{"two weeks", 14, 0.95 * 0.95},
		{"capped at 30 weeks", 7 * 60, math.Pow(0.95, 30)},
	}
	for _, tt := range tests {
		published := testNow.AddDate(0, 0, -tt.daysAgo)
		got := DecayFactor(published, testNow, 0.95, 30)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("%s: DecayFactor = %f, want %f", tt.name, got, tt.want)
		}
	}

	// A publish date in the future must not inflate the score.
	future := testNow.AddDate(0, 0, 14)
	if got := DecayFactor(future, testNow, 0.95, 30); got != 1 {
		t.Errorf("future publish date: DecayFactor = %f, want 1", got)
	}
}

func TestPopularity_RecomputeAndBump(t *testing.T) {
	t.Parallel()

	items := []ContentItem{
		{ID: "a", Views: 1000, PublishedAt: testNow.AddDate(0, 0, -7)},
		{ID: "b", Views: 100, PublishedAt: testNow.AddDate(0, 0, -7)},
	}
	catalog := NewCatalog(items, NewVectorizer(fixedClock))

	pop := NewPopularity()
	pop.Recompute(catalog, 0.95, 30, testNow)

	wantA := 1000 * 0.3 * 0.95
	if got := pop.Score("a"); math.Abs(got-wantA) > 1e-9 {
		t.Errorf("Score(a) = %f, want %f", got, wantA)
	}
	if pop.Score("a") <= pop.Score("b") {
		t.Error("more viewed item must score higher")
	}

	before := pop.Score("b")
	pop.Bump("b", 5)
	if got := pop.Score("b"); math.Abs(got-(before+5)) > 1e-9 {
		t.Errorf("Bump: Score(b) = %f, want %f", got, before+5)
	}

	// An immediate recompute rebuilds the base but keeps the boost.
	pop.Recompute(catalog, 0.95, 30, testNow)
	if got := pop.Score("b"); math.Abs(got-(before+5)) > 1e-9 {
		t.Errorf("Recompute must carry the boost, got %f want %f", got, before+5)
	}

	// Two weeks later the boost has decayed at the weekly rate.
	later := testNow.AddDate(0, 0, 14)
	pop.Recompute(catalog, 0.95, 30, later)
	wantBoost := 5 * 0.95 * 0.95
	wantBase := 100 * 0.3 * math.Pow(0.95, 3)
	if got := pop.Score("b"); math.Abs(got-(wantBase+wantBoost)) > 1e-9 {
		t.Errorf("decayed Score(b) = %f, want %f", got, wantBase+wantBoost)
	}
}

func TestPopularity_SnapshotIsIndependent(t *testing.T) {
	t.Parallel()

	pop := NewPopularity()
	pop.Bump("a", 1)

	snap := pop.Snapshot()
	snap["a"] = 100

	if pop.Score("a") != 1 {
		t.Error("Snapshot must not share storage")
	}
}

func TestPopularity_RestoreCarriesBoostAcrossRecompute(t *testing.T) {
	t.Parallel()

	items := []ContentItem{
		{ID: "a", Views: 1000, PublishedAt: testNow.AddDate(0, 0, -7)},
		{ID: "b", Views: 100, PublishedAt: testNow.AddDate(0, 0, -7)},
	}
	catalog := NewCatalog(items, NewVectorizer(fixedClock))

	baseA := 1000 * 0.3 * 0.95
	baseB := 100 * 0.3 * 0.95

	// The persisted snapshot carries 40 points of interaction boost on "b"
	// and a stale entry for an item no longer in the catalog.
	pop := NewPopularity()
	pop.Restore(map[string]float64{
		"a":    baseA,
		"b":    baseB + 40,
		"gone": 12,
	}, catalog, 0.95, 30, testNow)

	if got := pop.Score("a"); math.Abs(got-baseA) > 1e-9 {
		t.Errorf("Score(a) = %f, want base %f", got, baseA)
	}
	if got := pop.Score("b"); math.Abs(got-(baseB+40)) > 1e-9 {
		t.Errorf("Score(b) = %f, want %f", got, baseB+40)
	}
	if pop.Score("gone") != 0 {
		t.Error("items absent from the catalog must not be restored")
	}

	// The decay tick right after startup must not snap "b" back to its base.
	pop.Recompute(catalog, 0.95, 30, testNow)
	if got := pop.Score("b"); math.Abs(got-(baseB+40)) > 1e-9 {
		t.Errorf("recompute after restore: Score(b) = %f, want %f", got, baseB+40)
	}
}

func TestPopularity_RestoreBelowBaseKeepsBase(t *testing.T) {
	t.Parallel()

	items := []ContentItem{{ID: "a", Views: 1000, PublishedAt: testNow.AddDate(0, 0, -7)}}
	catalog := NewCatalog(items, NewVectorizer(fixedClock))
	base := 1000 * 0.3 * 0.95

	// Counters grew since the snapshot was written; the fresher base wins.
	pop := NewPopularity()
	pop.Restore(map[string]float64{"a": base / 2}, catalog, 0.95, 30, testNow)

	if got := pop.Score("a"); math.Abs(got-base) > 1e-9 {
		t.Errorf("Score(a) = %f, want base %f", got, base)
	}
}
