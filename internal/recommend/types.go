// ReadNext - Content Recommendation Engine for the NachoWeb3 Blog
// Copyright 2026 NachoWeb3
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nachoweb3/readnext

package recommend

import (
	"context"
	"time"
)

// InteractionType identifies the kind of behavioral signal recorded for an item.
type InteractionType string

// Supported interaction types.
const (
	InteractionView        InteractionType = "view"
	InteractionClick       InteractionType = "click"
	InteractionLike        InteractionType = "like"
	InteractionShare       InteractionType = "share"
	InteractionComment     InteractionType = "comment"
	InteractionBookmark    InteractionType = "bookmark"
	InteractionScrollDepth InteractionType = "scroll-depth"
)

// Weight returns the behavioral weight for an interaction type.
// Stronger signals (comments, bookmarks) count more than passive ones.
func (t InteractionType) Weight() float64 {
	switch t {
	case InteractionView, InteractionClick:
		return 1.0
	case InteractionLike:
		return 2.0
	case InteractionShare:
		return 3.0
	case InteractionComment:
		return 5.0
	case InteractionBookmark:
		return 4.0
	case InteractionScrollDepth:
		return 0.5
	default:
		return 1.0
	}
}

// Valid reports whether the type is one of the recognized interaction types.
func (t InteractionType) Valid() bool {
	switch t {
	case InteractionView, InteractionClick, InteractionLike, InteractionShare,
		InteractionComment, InteractionBookmark, InteractionScrollDepth:
		return true
	default:
		return false
	}
}

// ContentItem is a single piece of catalog content (typically a blog article).
// Items are immutable once indexed, except for the engagement counters which
// are refreshed periodically from the feed.
type ContentItem struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Body        string    `json:"body,omitempty"`
	Tags        []string  `json:"tags,omitempty"`
	Categories  []string  `json:"categories,omitempty"`
	Type        string    `json:"type,omitempty"`
	Difficulty  string    `json:"difficulty,omitempty"`
	PublishedAt time.Time `json:"published_at"`
	WordCount   int       `json:"word_count,omitempty"`
	ReadingTime int       `json:"reading_time,omitempty"` // minutes

	// Engagement counters, sourced from the feed.
	Views      int64   `json:"views,omitempty"`
	Likes      int64   `json:"likes,omitempty"`
	Shares     int64   `json:"shares,omitempty"`
	Engagement float64 `json:"engagement,omitempty"` // engagement rate, 0..1
}

// Algorithm names accepted in a Request.
const (
	AlgorithmCollaborative = "collaborative"
	AlgorithmContent       = "content"
	AlgorithmPopularity    = "popularity"
	AlgorithmHybrid        = "hybrid"
)

// Request describes a single recommendation query.
type Request struct {
	// UserID identifies the visitor profile to personalize for.
	UserID string

	// CurrentItemID is the item the visitor is currently reading, used as
	// the cache anchor and excluded from results. Optional.
	CurrentItemID string

	// MaxRecommendations bounds the result size. Must be positive; zero or
	// negative values are rejected, never clamped.
	MaxRecommendations int

	// Algorithm selects the scoring strategy. Empty defaults to hybrid.
	Algorithm string

	// ExcludeViewed drops items already present in the reading history.
	ExcludeViewed bool

	// RequestID is an optional correlation ID. Generated when empty.
	RequestID string
}

// RankedItem is a single scored recommendation.
type RankedItem struct {
	Content    ContentItem `json:"content"`
	Score      float64     `json:"score"`
	Algorithms []string    `json:"algorithms"`
	Reasons    []string    `json:"reasons"`
}

// Response carries the ranked recommendations plus serving metadata.
type Response struct {
	Items     []RankedItem `json:"items"`
	Algorithm string       `json:"algorithm"`
	UserID    string       `json:"user_id"`
	RequestID string       `json:"request_id"`
	Cached    bool         `json:"cached"`
	LatencyMS int64        `json:"latency_ms"`
}

// Candidate is a per-item score emitted by a single scoring strategy before
// hybrid combining and ranking.
type Candidate struct {
	ItemID    string
	Score     float64
	Algorithm string
	Reason    string
}

// Snapshot is an immutable view of the state a scoring pass runs over.
// Scorers must not mutate any field.
type Snapshot struct {
	Catalog       *Catalog
	Profile       *Profile
	ProfileVector FeatureVector
	Popularity    map[string]float64
	Exclude       map[string]struct{}
	Now           time.Time
}

// Excluded reports whether an item is in the exclusion set.
func (s *Snapshot) Excluded(itemID string) bool {
	_, ok := s.Exclude[itemID]
	return ok
}

// Scorer is a single scoring strategy over an immutable snapshot.
type Scorer interface {
	// Name returns the algorithm identifier, e.g. "content".
	Name() string

	// Score produces candidates for every non-excluded catalog item that
	// clears the strategy's own threshold.
	Score(ctx context.Context, snap *Snapshot) ([]Candidate, error)
}

// CatalogSource supplies the content catalog, typically an HTTP feed.
type CatalogSource interface {
	FetchContent(ctx context.Context) ([]ContentItem, error)
}

// ProfileStore persists user profiles between sessions.
type ProfileStore interface {
	Load(ctx context.Context, userID string) (*Profile, error)
	Save(ctx context.Context, profile *Profile) error
	Delete(ctx context.Context, userID string) error
}

// EventPublisher receives fire-and-forget telemetry events. Implementations
// must never block the caller.
type EventPublisher interface {
	Emit(event string, payload map[string]interface{})
}
