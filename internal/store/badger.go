// ReadNext - Content Recommendation Engine for the NachoWeb3 Blog
// Copyright 2026 NachoWeb3
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nachoweb3/readnext

// Package store persists user profiles and popularity scores in BadgerDB.
// Profiles are written after every tracked event and read once per session,
// so a local embedded key-value store is a better fit than a networked
// database.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/nachoweb3/readnext/internal/recommend"
)

// Key prefixes for BadgerDB storage.
const (
	profileKeyPrefix = "profile:"
	popularityKey    = "popularity:scores"
)

// Open opens (or creates) the BadgerDB database at the given path. An empty
// path opens an in-memory database, used by tests.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func Open(path string, logger zerolog.Logger) (*badger.DB, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	if path == "" {
		opts = opts.WithInMemory(true)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger at %q: %w", path, err)
	}

	logger.Info().Str("path", path).Bool("in_memory", path == "").Msg("profile store opened")
	return db, nil
}

// ProfileStore implements recommend.ProfileStore on BadgerDB.
type ProfileStore struct {
	db *badger.DB
}

var _ recommend.ProfileStore = (*ProfileStore)(nil)

// NewProfileStore creates a profile store over an open database.
func NewProfileStore(db *badger.DB) *ProfileStore {
	return &ProfileStore{db: db}
}

// Load reads a user's profile. Returns recommend.ErrProfileNotFound when the
// user has no stored profile.
func (s *ProfileStore) Load(_ context.Context, userID string) (*recommend.Profile, error) {
	var profile recommend.Profile

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(profileKeyPrefix + userID))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return recommend.ErrProfileNotFound
		}
		if err != nil {
			return fmt.Errorf("get profile: %w", err)
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &profile)
		})
	})
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// Save writes a user's profile.
func (s *ProfileStore) Save(_ context.Context, profile *recommend.Profile) error {
	if profile == nil || profile.UserID == "" {
		return fmt.Errorf("profile with a user ID is required")
	}

	data, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("marshal profile: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(profileKeyPrefix+profile.UserID), data)
	})
}

// Delete removes a user's stored profile. Deleting an absent profile is not
// an error.
func (s *ProfileStore) Delete(_ context.Context, userID string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		err := txn.Delete([]byte(profileKeyPrefix + userID))
		if err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("delete profile: %w", err)
		}
		return nil
	})
}

// Count returns the number of stored profiles, used by the status endpoint.
func (s *ProfileStore) Count(_ context.Context) (int, error) {
	count := 0
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(profileKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			count++
		}
		return nil
	})
	return count, err
}

// PopularityStore persists the decayed popularity scores across restarts so a
// freshly started instance does not cold-start every item at zero.
type PopularityStore struct {
	db *badger.DB
}

// NewPopularityStore creates a popularity store over an open database.
func NewPopularityStore(db *badger.DB) *PopularityStore {
	return &PopularityStore{db: db}
}

// Save writes the full score map, replacing the previous snapshot.
func (s *PopularityStore) Save(_ context.Context, scores map[string]float64) error {
	data, err := json.Marshal(scores)
	if err != nil {
		return fmt.Errorf("marshal popularity scores: %w", err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(popularityKey), data)
	})
}

// Load reads the persisted score map. A missing snapshot returns an empty
// map, not an error.
func (s *PopularityStore) Load(_ context.Context) (map[string]float64, error) {
	scores := make(map[string]float64)

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(popularityKey))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("get popularity scores: %w", err)
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &scores)
		})
	})
	if err != nil {
		return nil, err
	}
	return scores, nil
}
