// ReadNext - Content Recommendation Engine for the NachoWeb3 Blog
// Copyright 2026 NachoWeb3
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nachoweb3/readnext

package recommend

import (
	"fmt"
	"testing"
	"time"
)

func TestProfile_RecordPageView(t *testing.T) {
	t.Parallel()

	p := NewProfile("u1")
	item := ContentItem{
		ID:         "a",
		Tags:       []string{"Python", "ai"},
		Categories: []string{"Desarrollo"},
	}

	p.RecordPageView(item, 30*time.Second, testNow)
	p.RecordPageView(item, time.Minute, testNow.Add(time.Hour))

	if p.Interests["python"] != 2 || p.Interests["ai"] != 2 || p.Interests["desarrollo"] != 2 {
		t.Errorf("interest counters wrong: %v", p.Interests)
	}
	if len(p.History) != 2 {
		t.Fatalf("history length = %d, want 2", len(p.History))
	}
	if p.History[0].Timestamp != testNow.Add(time.Hour) {
		t.Error("history must be most-recent-first")
	}
	if !p.HasViewed("a") || p.HasViewed("b") {
		t.Error("HasViewed mismatch")
	}
}

func TestProfile_HistoryCap(t *testing.T) {
	t.Parallel()

	p := NewProfile("u1")
	for i := 0; i < historyCap+20; i++ {
		item := ContentItem{ID: fmt.Sprintf("item-%d", i)}
		p.RecordPageView(item, 0, testNow.Add(time.Duration(i)*time.Minute))
	}

	if len(p.History) != historyCap {
		t.Fatalf("history length = %d, want %d", len(p.History), historyCap)
	}
	// The newest entry survives, the oldest is evicted.
	if p.History[0].ItemID != fmt.Sprintf("item-%d", historyCap+19) {
		t.Errorf("newest entry = %s", p.History[0].ItemID)
	}
	if p.HasViewed("item-0") {
		t.Error("oldest entry beyond the cap must be evicted")
	}
}

func TestProfile_RecordInteraction(t *testing.T) {
	t.Parallel()

	p := NewProfile("u1")
	item := ContentItem{ID: "a", Categories: []string{"Trading"}, ReadingTime: 14}

	p.RecordInteraction(item, InteractionLike, 0, testNow)
	p.RecordInteraction(item, InteractionScrollDepth, 0.8, testNow)

	if p.InteractionCount() != 2 {
		t.Errorf("InteractionCount = %d, want 2", p.InteractionCount())
	}
	// like = 2.0, scroll-depth = 0.5 * 0.8
	want := 2.0 + 0.5*0.8
	if got := p.InteractionWeight("a"); got != want {
		t.Errorf("InteractionWeight = %f, want %f", got, want)
	}
}

func TestProfile_PreferencesFromStrongSignals(t *testing.T) {
	t.Parallel()

	p := NewProfile("u1")
	item := ContentItem{ID: "a", Categories: []string{"Desarrollo"}, ReadingTime: 14}

	// A like is not a strong enough signal to derive preferences.
	p.RecordInteraction(item, InteractionLike, 0, testNow)
	if !p.Preferences.Empty() {
		t.Errorf("like must not derive preferences: %+v", p.Preferences)
	}

	p.RecordInteraction(item, InteractionClick, 0, testNow)
	if !containsFold(p.Preferences.Categories, "desarrollo") {
		t.Errorf("click must mark the category preferred: %v", p.Preferences.Categories)
	}
	if p.Preferences.ReadingTime != "long" {
		t.Errorf("click must record the reading-time bucket, got %q", p.Preferences.ReadingTime)
	}

	// A second click on the same category must not duplicate it.
	p.RecordInteraction(item, InteractionShare, 0, testNow)
	if len(p.Preferences.Categories) != 1 {
		t.Errorf("preferred categories must be distinct: %v", p.Preferences.Categories)
	}
}

func TestProfile_InvalidWeightValueIgnored(t *testing.T) {
	t.Parallel()

	p := NewProfile("u1")
	item := ContentItem{ID: "a"}
	p.RecordInteraction(item, InteractionShare, -3, testNow)

	if got := p.InteractionWeight("a"); got != 3.0 {
		t.Errorf("non-positive value must mean unweighted, got %f", got)
	}
}

func TestProfile_Prune(t *testing.T) {
	t.Parallel()

	retention := 30 * 24 * time.Hour
	p := NewProfile("u1")
	old := ContentItem{ID: "old"}
	fresh := ContentItem{ID: "fresh"}

	p.RecordInteraction(old, InteractionView, 0, testNow.Add(-40*24*time.Hour))
	p.RecordInteraction(fresh, InteractionView, 0, testNow.Add(-time.Hour))

	dropped := p.Prune(retention, testNow)
	if dropped != 1 {
		t.Fatalf("Prune dropped %d, want 1", dropped)
	}
	if _, ok := p.Interactions["old"]; ok {
		t.Error("emptied interaction list must be removed")
	}
	if p.InteractionCount() != 1 {
		t.Errorf("InteractionCount after prune = %d, want 1", p.InteractionCount())
	}
}

func TestProfile_Reset(t *testing.T) {
	t.Parallel()

	p := NewProfile("u1")
	item := ContentItem{ID: "a", Tags: []string{"python"}}
	p.RecordPageView(item, 0, testNow)
	p.RecordInteraction(item, InteractionClick, 0, testNow)

	p.Reset(testNow.Add(time.Hour))

	if len(p.Interests) != 0 || len(p.History) != 0 || p.InteractionCount() != 0 {
		t.Error("Reset must clear all accumulated state")
	}
	if !p.Preferences.Empty() {
		t.Error("Reset must clear preferences")
	}
	if p.UserID != "u1" {
		t.Error("Reset must keep the user identity")
	}
}

func TestProfile_CloneIsDeep(t *testing.T) {
	t.Parallel()

	p := NewProfile("u1")
	item := ContentItem{ID: "a", Tags: []string{"python"}}
	p.RecordPageView(item, 0, testNow)
	p.RecordInteraction(item, InteractionView, 0, testNow)

	clone := p.Clone()
	clone.Interests["python"] = 99
	clone.Interactions["a"][0].Weight = 99
	clone.History[0].ItemID = "mutated"

	if p.Interests["python"] == 99 {
		t.Error("Clone shares the interests map")
	}
	if p.Interactions["a"][0].Weight == 99 {
		t.Error("Clone shares the interaction slices")
	}
	if p.History[0].ItemID == "mutated" {
		t.Error("Clone shares the history slice")
	}

	if (*Profile)(nil).Clone() != nil {
		t.Error("nil profile must clone to nil")
	}
}
