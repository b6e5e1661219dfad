// ReadNext - Content Recommendation Engine for the NachoWeb3 Blog
// Copyright 2026 NachoWeb3
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nachoweb3/readnext

package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"

	"github.com/nachoweb3/readnext/internal/recommend"
)

func openTestDB(t *testing.T) *badger.DB {
	t.Helper()

	db, err := Open("", zerolog.Nop())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("close db: %v", err)
		}
	})
	return db
}

func TestProfileStore_RoundTrip(t *testing.T) {
	t.Parallel()

	s := NewProfileStore(openTestDB(t))
	ctx := context.Background()

	profile := recommend.NewProfile("u1")
	profile.Interests["python"] = 3
	profile.RecordPageView(recommend.ContentItem{ID: "a", Tags: []string{"python"}},
		30*time.Second, time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC))

	if err := s.Save(ctx, profile); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := s.Load(ctx, "u1")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.UserID != "u1" {
		t.Errorf("UserID = %s", loaded.UserID)
	}
	if loaded.Interests["python"] != 4 {
		t.Errorf("Interests = %v", loaded.Interests)
	}
	if len(loaded.History) != 1 || loaded.History[0].ItemID != "a" {
		t.Errorf("History = %v", loaded.History)
	}
}

func TestProfileStore_LoadMissing(t *testing.T) {
	t.Parallel()

	s := NewProfileStore(openTestDB(t))
	if _, err := s.Load(context.Background(), "ghost"); !errors.Is(err, recommend.ErrProfileNotFound) {
		t.Errorf("Load(ghost) = %v, want ErrProfileNotFound", err)
	}
}

func TestProfileStore_Delete(t *testing.T) {
	t.Parallel()

	s := NewProfileStore(openTestDB(t))
	ctx := context.Background()

	if err := s.Save(ctx, recommend.NewProfile("u1")); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := s.Delete(ctx, "u1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Load(ctx, "u1"); !errors.Is(err, recommend.ErrProfileNotFound) {
		t.Errorf("Load after delete = %v", err)
	}

	// Deleting an absent profile is a no-op.
	if err := s.Delete(ctx, "ghost"); err != nil {
		t.Errorf("Delete(ghost) = %v", err)
	}
}

func TestProfileStore_SaveRejectsAnonymous(t *testing.T) {
	t.Parallel()

	s := NewProfileStore(openTestDB(t))
	if err := s.Save(context.Background(), nil); err == nil {
		t.Error("nil profile must be rejected")
	}
	if err := s.Save(context.Background(), &recommend.Profile{}); err == nil {
		t.Error("profile without a user ID must be rejected")
	}
}

func TestProfileStore_Count(t *testing.T) {
	t.Parallel()

	s := NewProfileStore(openTestDB(t))
	ctx := context.Background()

	for _, id := range []string{"u1", "u2", "u3"} {
		if err := s.Save(ctx, recommend.NewProfile(id)); err != nil {
			t.Fatalf("Save(%s): %v", id, err)
		}
	}

	count, err := s.Count(ctx)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 3 {
		t.Errorf("Count = %d, want 3", count)
	}
}

func TestPopularityStore_RoundTrip(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	s := NewPopularityStore(db)
	ctx := context.Background()

	empty, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load on empty store: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("expected an empty map, got %v", empty)
	}

	want := map[string]float64{"a": 12.5, "b": 0.75}
	if err := s.Save(ctx, want); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got["a"] != 12.5 || got["b"] != 0.75 || len(got) != 2 {
		t.Errorf("Load = %v, want %v", got, want)
	}

	// Profiles and popularity share a database without clashing.
	ps := NewProfileStore(db)
	if err := ps.Save(ctx, recommend.NewProfile("u1")); err != nil {
		t.Fatalf("profile Save: %v", err)
	}
	if count, _ := ps.Count(ctx); count != 1 {
		t.Errorf("Count = %d, want 1", count)
	}
}
