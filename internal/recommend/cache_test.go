// ReadNext - Content Recommendation Engine for the NachoWeb3 Blog
// Copyright 2026 NachoWeb3
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nachoweb3/readnext

package recommend

import (
	"testing"
	"time"
)

func TestCache_PutGet(t *testing.T) {
	t.Parallel()

	c := NewCache(10*time.Minute, fixedClock)
	key := CacheKey("u1", "a", AlgorithmHybrid, 6)
	items := []RankedItem{{Content: ContentItem{ID: "b"}, Score: 0.5}}

	if _, ok := c.Get(key); ok {
		t.Error("Get on an empty cache must miss")
	}

	c.Put(key, items)
	got, ok := c.Get(key)
	if !ok {
		t.Fatal("Get must hit after Put")
	}
	if len(got) != 1 || got[0].Content.ID != "b" {
		t.Errorf("Get returned %v", got)
	}

	// The cached copy must be isolated from caller mutation.
	got[0].Score = 99
	again, _ := c.Get(key)
	if again[0].Score == 99 {
		t.Error("cached entries must not share storage with callers")
	}
}

func TestCache_Expiry(t *testing.T) {
	t.Parallel()

	now := testNow
	clock := func() time.Time { return now }
	c := NewCache(10*time.Minute, clock)

	key := CacheKey("u1", "", AlgorithmContent, 6)
	c.Put(key, []RankedItem{{Content: ContentItem{ID: "a"}}})

	now = now.Add(9 * time.Minute)
	if _, ok := c.Get(key); !ok {
		t.Error("entry must still be live inside the TTL")
	}

	now = now.Add(2 * time.Minute)
	if _, ok := c.Get(key); ok {
		t.Error("entry past the TTL must be treated as absent")
	}
}

func TestCache_Clear(t *testing.T) {
	t.Parallel()

	c := NewCache(10*time.Minute, fixedClock)
	c.Put("k1", nil)
	c.Put("k2", nil)

	c.Clear()
	if c.Len() != 0 {
		t.Errorf("Len after Clear = %d, want 0", c.Len())
	}
}

func TestCache_Sweep(t *testing.T) {
	t.Parallel()

	now := testNow
	clock := func() time.Time { return now }
	c := NewCache(10*time.Minute, clock)

	c.Put("old", nil)
	now = now.Add(11 * time.Minute)
	c.Put("fresh", nil)

	if dropped := c.Sweep(); dropped != 1 {
		t.Errorf("Sweep dropped %d, want 1", dropped)
	}
	if c.Len() != 1 {
		t.Errorf("Len after Sweep = %d, want 1", c.Len())
	}
	if _, ok := c.Get("fresh"); !ok {
		t.Error("Sweep must keep live entries")
	}
}

func TestCacheKey(t *testing.T) {
	t.Parallel()

	a := CacheKey("u1", "item", AlgorithmHybrid, 6)
	b := CacheKey("u1", "item", AlgorithmHybrid, 5)
	c := CacheKey("u2", "item", AlgorithmHybrid, 6)
	if a == b || a == c {
		t.Error("distinct request contexts must produce distinct keys")
	}
}
