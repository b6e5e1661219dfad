// ReadNext - Content Recommendation Engine for the NachoWeb3 Blog
// Copyright 2026 NachoWeb3
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nachoweb3/readnext

// Package feed fetches the blog's content catalog over HTTP. The feed is an
// idempotent bulk read and the only slow I/O the engine depends on, so the
// client is wrapped in a circuit breaker and every caller must be prepared
// for the seed-catalog fallback.
package feed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/nachoweb3/readnext/internal/recommend"
)

// Config holds the feed client configuration.
type Config struct {
	// URL is the catalog feed endpoint, e.g. https://blog.example/content.json.
	URL string

	// Timeout bounds a single fetch, connection included.
	Timeout time.Duration

	// MaxBodyBytes caps the response body read. Defaults to 8 MiB.
	MaxBodyBytes int64
}

// feedDocument is the wire shape of the blog's catalog feed.
type feedDocument struct {
	Items []feedItem `json:"items"`
}

type feedItem struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Excerpt     string   `json:"excerpt"`
	Tags        []string `json:"tags"`
	Categories  []string `json:"categories"`
	Type        string   `json:"type"`
	Difficulty  string   `json:"difficulty"`
	PublishedAt string   `json:"published_at"`
	WordCount   int      `json:"word_count"`
	ReadingTime int      `json:"reading_time"`
	Views       int64    `json:"views"`
	Likes       int64    `json:"likes"`
	Shares      int64    `json:"shares"`
	Engagement  float64  `json:"engagement"`
}

// Client fetches and decodes the catalog feed.
type Client struct {
	cfg    Config
	http   *http.Client
	logger zerolog.Logger
}

var _ recommend.CatalogSource = (*Client)(nil)

// NewClient creates a feed client.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func NewClient(cfg Config, logger zerolog.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = 8 << 20
	}
	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
		logger: logger.With().Str("component", "feed").Logger(),
	}
}

// FetchContent implements recommend.CatalogSource. Items that fail to parse
// are skipped with a warning rather than failing the whole fetch.
func (c *Client) FetchContent(ctx context.Context) ([]recommend.ContentItem, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("build feed request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch feed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.cfg.MaxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read feed body: %w", err)
	}

	var doc feedDocument
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("decode feed: %w", err)
	}

	items := make([]recommend.ContentItem, 0, len(doc.Items))
	for _, fi := range doc.Items {
		item, err := fi.toContentItem()
		if err != nil {
			c.logger.Warn().Err(err).Str("item", fi.ID).Msg("skipping malformed feed item")
			continue
		}
		items = append(items, item)
	}

	c.logger.Debug().Int("items", len(items)).Msg("catalog feed fetched")
	return items, nil
}

func (fi feedItem) toContentItem() (recommend.ContentItem, error) {
	if fi.ID == "" {
		return recommend.ContentItem{}, fmt.Errorf("feed item without an id")
	}

	published, err := time.Parse(time.RFC3339, fi.PublishedAt)
	if err != nil {
		return recommend.ContentItem{}, fmt.Errorf("parse published_at %q: %w", fi.PublishedAt, err)
	}

	return recommend.ContentItem{
		ID:          fi.ID,
		Title:       fi.Title,
		Body:        fi.Excerpt,
		Tags:        fi.Tags,
		Categories:  fi.Categories,
		Type:        fi.Type,
		Difficulty:  fi.Difficulty,
		PublishedAt: published,
		WordCount:   fi.WordCount,
		ReadingTime: fi.ReadingTime,
		Views:       fi.Views,
		Likes:       fi.Likes,
		Shares:      fi.Shares,
		Engagement:  fi.Engagement,
	}, nil
}
