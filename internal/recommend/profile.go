// ReadNext - Content Recommendation Engine for the NachoWeb3 Blog
// Copyright 2026 NachoWeb3
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nachoweb3/readnext

package recommend

import (
	"strings"
	"time"
)

// HistoryEntry records a single page view in the reading history.
type HistoryEntry struct {
	ItemID    string        `json:"item_id"`
	Timestamp time.Time     `json:"timestamp"`
	Duration  time.Duration `json:"duration,omitempty"`
}

// InteractionEvent is one recorded behavioral signal on an item.
type InteractionEvent struct {
	Type      InteractionType `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Weight    float64         `json:"weight"`
}

// Preferences holds explicit derived settings for a visitor.
type Preferences struct {
	Categories  []string `json:"categories,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	ReadingTime string   `json:"reading_time,omitempty"`
}

// Empty reports whether no preference has been derived yet.
func (p Preferences) Empty() bool {
	return len(p.Categories) == 0 && len(p.Tags) == 0
}

// Profile accumulates a visitor's interests, reading history, and per-item
// interaction records. Created empty on first visit, persisted after every
// mutation, never deleted automatically; a user may explicitly reset it.
//
// Profile is not safe for concurrent mutation; the engine serializes all
// writers per user.
type Profile struct {
	UserID       string                        `json:"user_id"`
	Interests    map[string]int                `json:"interests"`
	History      []HistoryEntry                `json:"history"`
	Interactions map[string][]InteractionEvent `json:"interactions"`
	Preferences  Preferences                   `json:"preferences"`
	UpdatedAt    time.Time                     `json:"updated_at"`
}

// historyCap bounds the reading history; the oldest entries beyond the cap
// are evicted.
const historyCap = 100

// NewProfile returns an empty profile for a user.
func NewProfile(userID string) *Profile {
	return &Profile{
		UserID:       userID,
		Interests:    make(map[string]int),
		Interactions: make(map[string][]InteractionEvent),
	}
}

// RecordPageView registers a page view: increments interest counters for the
// item's categories and tags, and prepends the item to the reading history.
func (p *Profile) RecordPageView(item ContentItem, duration time.Duration, now time.Time) {
	if p.Interests == nil {
		p.Interests = make(map[string]int)
	}
	for _, cat := range item.Categories {
		p.Interests[strings.ToLower(cat)]++
	}
	for _, tag := range item.Tags {
		p.Interests[strings.ToLower(tag)]++
	}

	p.History = append([]HistoryEntry{{
		ItemID:    item.ID,
		Timestamp: now,
		Duration:  duration,
	}}, p.History...)
	if len(p.History) > historyCap {
		p.History = p.History[:historyCap]
	}

	p.UpdatedAt = now
}

// RecordInteraction appends a behavioral signal for an item and updates the
// derived preferences. The event weight is the interaction type's weight
// scaled by value (value <= 0 means 1, i.e. an unweighted event).
func (p *Profile) RecordInteraction(item ContentItem, typ InteractionType, value float64, now time.Time) {
	if p.Interactions == nil {
		p.Interactions = make(map[string][]InteractionEvent)
	}

	weight := typ.Weight()
	if value > 0 {
		weight *= value
	}

	p.Interactions[item.ID] = append(p.Interactions[item.ID], InteractionEvent{
		Type:      typ,
		Timestamp: now,
		Weight:    weight,
	})

	p.updatePreferences(item, typ)
	p.UpdatedAt = now
}

// updatePreferences derives explicit preferences from strong signals:
// clicks and shares mark the item's categories as preferred, and a click
// records the visitor's preferred reading-time bucket.
func (p *Profile) updatePreferences(item ContentItem, typ InteractionType) {
	if typ == InteractionClick || typ == InteractionShare {
		for _, cat := range item.Categories {
			c := strings.ToLower(cat)
			if !containsFold(p.Preferences.Categories, c) {
				p.Preferences.Categories = append(p.Preferences.Categories, c)
			}
		}
	}
	if typ == InteractionClick {
		p.Preferences.ReadingTime = readingTimeBucket(item.ReadingTime)
	}
}

// InteractionCount returns the total number of recorded interaction events.
func (p *Profile) InteractionCount() int {
	total := 0
	for _, events := range p.Interactions {
		total += len(events)
	}
	return total
}

// InteractionWeight sums the weights of all recorded events for one item.
func (p *Profile) InteractionWeight(itemID string) float64 {
	var total float64
	for _, ev := range p.Interactions[itemID] {
		total += ev.Weight
	}
	return total
}

// HasViewed reports whether the item appears in the reading history.
func (p *Profile) HasViewed(itemID string) bool {
	for _, h := range p.History {
		if h.ItemID == itemID {
			return true
		}
	}
	return false
}

// Prune drops interaction events older than the retention window. Empty
// per-item lists are removed entirely. Returns the number of events dropped.
func (p *Profile) Prune(retention time.Duration, now time.Time) int {
	cutoff := now.Add(-retention)
	dropped := 0

	for itemID, events := range p.Interactions {
		kept := events[:0]
		for _, ev := range events {
			if ev.Timestamp.After(cutoff) {
				kept = append(kept, ev)
			} else {
				dropped++
			}
		}
		if len(kept) == 0 {
			delete(p.Interactions, itemID)
		} else {
			p.Interactions[itemID] = kept
		}
	}

	return dropped
}

// Reset clears all accumulated state, keeping only the user identity.
func (p *Profile) Reset(now time.Time) {
	p.Interests = make(map[string]int)
	p.History = nil
	p.Interactions = make(map[string][]InteractionEvent)
	p.Preferences = Preferences{}
	p.UpdatedAt = now
}

// Clone returns a deep copy safe for lock-free reading.
func (p *Profile) Clone() *Profile {
	if p == nil {
		return nil
	}

	out := &Profile{
		UserID:    p.UserID,
		UpdatedAt: p.UpdatedAt,
		Preferences: Preferences{
			Categories:  append([]string(nil), p.Preferences.Categories...),
			Tags:        append([]string(nil), p.Preferences.Tags...),
			ReadingTime: p.Preferences.ReadingTime,
		},
		Interests:    make(map[string]int, len(p.Interests)),
		History:      append([]HistoryEntry(nil), p.History...),
		Interactions: make(map[string][]InteractionEvent, len(p.Interactions)),
	}
	for topic, count := range p.Interests {
		out.Interests[topic] = count
	}
	for itemID, events := range p.Interactions {
		out.Interactions[itemID] = append([]InteractionEvent(nil), events...)
	}
	return out
}

// containsFold reports whether the slice contains the value, case-insensitively.
func containsFold(list []string, value string) bool {
	for _, v := range list {
		if strings.EqualFold(v, value) {
			return true
		}
	}
	return false
}
