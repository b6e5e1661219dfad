// ReadNext - Content Recommendation Engine for the NachoWeb3 Blog
// Copyright 2026 NachoWeb3
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nachoweb3/readnext

package recommend

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Catalog holds the indexed content items and their derived feature vectors.
// Insertion order is preserved; the ranker uses it to break score ties
// deterministically. A catalog is immutable after indexing; engagement
// refreshes build a new catalog via WithEngagement and the engine swaps the
// pointer, so in-flight scoring passes keep a consistent view.
type Catalog struct {
	items   []ContentItem
	index   map[string]int
	vectors map[string]FeatureVector
}

// NewCatalog indexes the given items. Items with duplicate IDs keep the
// first occurrence.
func NewCatalog(items []ContentItem, vectorizer *Vectorizer) *Catalog {
	c := &Catalog{
		index:   make(map[string]int, len(items)),
		vectors: make(map[string]FeatureVector, len(items)),
	}
	for _, item := range items {
		if _, dup := c.index[item.ID]; dup {
			continue
		}
		c.index[item.ID] = len(c.items)
		c.items = append(c.items, item)
		c.vectors[item.ID] = vectorizer.ItemVector(item)
	}
	return c
}

// Len returns the number of indexed items.
func (c *Catalog) Len() int {
	return len(c.items)
}

// Items returns the indexed items in insertion order. The returned slice
// must not be modified.
func (c *Catalog) Items() []ContentItem {
	return c.items
}

// Item returns the item with the given ID.
func (c *Catalog) Item(id string) (ContentItem, error) {
	i, ok := c.index[id]
	if !ok {
		return ContentItem{}, fmt.Errorf("%w: %s", ErrItemNotFound, id)
	}
	return c.items[i], nil
}

// Contains reports whether the catalog holds an item with the given ID.
func (c *Catalog) Contains(id string) bool {
	_, ok := c.index[id]
	return ok
}

// Vector returns the derived feature vector for an item, or nil when the
// item is not indexed. The returned vector must not be modified.
func (c *Catalog) Vector(id string) FeatureVector {
	return c.vectors[id]
}

// Order returns the insertion position of an item, used for deterministic
// tie-breaking. Unknown items sort last.
func (c *Catalog) Order(id string) int {
	if i, ok := c.index[id]; ok {
		return i
	}
	return len(c.items)
}

// WithEngagement returns a copy of the catalog with engagement counters
// updated from a fresh feed read, plus the number of items updated. The
// receiver is never modified. Items absent from the update keep their
// counters; unknown IDs are ignored. Content fields do not change, so the
// index and vectors are shared with the receiver.
func (c *Catalog) WithEngagement(items []ContentItem) (*Catalog, int) {
	fresh := &Catalog{
		items:   make([]ContentItem, len(c.items)),
		index:   c.index,
		vectors: c.vectors,
	}
	copy(fresh.items, c.items)

	updated := 0
	for _, in := range items {
		i, ok := fresh.index[in.ID]
		if !ok {
			continue
		}
		fresh.items[i].Views = in.Views
		fresh.items[i].Likes = in.Likes
		fresh.items[i].Shares = in.Shares
		fresh.items[i].Engagement = in.Engagement
		updated++
	}
	return fresh, updated
}

// LoadCatalog populates a catalog from the source, bounded by the timeout.
// A fetch failure or an empty feed falls back to the built-in seed catalog
// with a warning; catalog loading never fails.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func LoadCatalog(ctx context.Context, source CatalogSource, vectorizer *Vectorizer, timeout time.Duration, logger zerolog.Logger) *Catalog {
	if source == nil {
		logger.Warn().Msg("no catalog source configured, using seed catalog")
		return NewCatalog(SeedCatalog(), vectorizer)
	}

	fetchCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	items, err := source.FetchContent(fetchCtx)
	if err != nil {
		logger.Warn().Err(err).Msg("catalog fetch failed, falling back to seed catalog")
		return NewCatalog(SeedCatalog(), vectorizer)
	}
	if len(items) == 0 {
		logger.Warn().Msg("catalog feed returned no items, falling back to seed catalog")
		return NewCatalog(SeedCatalog(), vectorizer)
	}

	logger.Info().Int("items", len(items)).Msg("catalog loaded from feed")
	return NewCatalog(items, vectorizer)
}
