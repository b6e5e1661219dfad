// ReadNext - Content Recommendation Engine for the NachoWeb3 Blog
// Copyright 2026 NachoWeb3
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nachoweb3/readnext

// Package config loads the server configuration from layered sources with
// Koanf v2: struct defaults, then an optional YAML file, then environment
// variables.
package config

import (
	"fmt"
	"time"

	"github.com/nachoweb3/readnext/internal/recommend"
)

// Config is the root configuration for the readnext server.
type Config struct {
	Server      ServerConfig      `koanf:"server"`
	Logging     LoggingConfig     `koanf:"logging"`
	Storage     StorageConfig     `koanf:"storage"`
	Feed        FeedConfig        `koanf:"feed"`
	Recommend   recommend.Config  `koanf:"recommend"`
	Telemetry   TelemetryConfig   `koanf:"telemetry"`
	Maintenance MaintenanceConfig `koanf:"maintenance"`
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Host    string        `koanf:"host"`
	Port    int           `koanf:"port"`
	Timeout time.Duration `koanf:"timeout"`

	CORSOrigins []string `koanf:"cors_origins"`

	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// Addr returns the host:port listen address.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// LoggingConfig holds the zerolog settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// StorageConfig holds the BadgerDB settings. An empty path runs fully
// in-memory, losing profiles on restart.
type StorageConfig struct {
	Path string `koanf:"path"`
}

// FeedConfig holds the catalog feed settings. An empty URL disables fetching
// and serves the built-in seed catalog only.
type FeedConfig struct {
	URL             string        `koanf:"url"`
	Timeout         time.Duration `koanf:"timeout"`
	MaxBodyBytes    int64         `koanf:"max_body_bytes"`
	RefreshInterval time.Duration `koanf:"refresh_interval"`
}

// TelemetryConfig holds the event pipeline settings.
type TelemetryConfig struct {
	QueueSize     int   `koanf:"queue_size"`
	ChannelBuffer int64 `koanf:"channel_buffer"`
}

// MaintenanceConfig holds the background maintenance cadence.
type MaintenanceConfig struct {
	// DecayInterval is how often popularity decay is recomputed and the
	// score snapshot persisted.
	DecayInterval time.Duration `koanf:"decay_interval"`

	// PruneInterval is how often stale interactions, idle profiles, and
	// expired cache entries are swept.
	PruneInterval time.Duration `koanf:"prune_interval"`
}

// defaultConfig returns the built-in defaults. They are applied first, then
// overridden by the config file and environment variables.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8480,
			Timeout:         30 * time.Second,
			CORSOrigins:     []string{"*"},
			RateLimitReqs:   120,
			RateLimitWindow: time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Storage: StorageConfig{
			Path: "/data/readnext",
		},
		Feed: FeedConfig{
			URL:             "",
			Timeout:         10 * time.Second,
			MaxBodyBytes:    8 << 20,
			RefreshInterval: 15 * time.Minute,
		},
		Recommend: *recommend.DefaultConfig(),
		Telemetry: TelemetryConfig{
			QueueSize:     256,
			ChannelBuffer: 64,
		},
		Maintenance: MaintenanceConfig{
			DecayInterval: time.Minute,
			PruneInterval: 5 * time.Minute,
		},
	}
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in [1,65535], got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("server.timeout must be positive, got %s", c.Server.Timeout)
	}
	if !c.Server.RateLimitDisabled {
		if c.Server.RateLimitReqs <= 0 {
			return fmt.Errorf("server.rate_limit_reqs must be positive, got %d", c.Server.RateLimitReqs)
		}
		if c.Server.RateLimitWindow <= 0 {
			return fmt.Errorf("server.rate_limit_window must be positive, got %s", c.Server.RateLimitWindow)
		}
	}

	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logging.format must be json or console, got %q", c.Logging.Format)
	}

	if c.Feed.Timeout <= 0 {
		return fmt.Errorf("feed.timeout must be positive, got %s", c.Feed.Timeout)
	}
	if c.Feed.MaxBodyBytes <= 0 {
		return fmt.Errorf("feed.max_body_bytes must be positive, got %d", c.Feed.MaxBodyBytes)
	}
	if c.Feed.URL != "" && c.Feed.RefreshInterval <= 0 {
		return fmt.Errorf("feed.refresh_interval must be positive, got %s", c.Feed.RefreshInterval)
	}

	if err := c.Recommend.Validate(); err != nil {
		return fmt.Errorf("recommend: %w", err)
	}

	if c.Telemetry.QueueSize <= 0 {
		return fmt.Errorf("telemetry.queue_size must be positive, got %d", c.Telemetry.QueueSize)
	}

	if c.Maintenance.DecayInterval <= 0 {
		return fmt.Errorf("maintenance.decay_interval must be positive, got %s", c.Maintenance.DecayInterval)
	}
	if c.Maintenance.PruneInterval <= 0 {
		return fmt.Errorf("maintenance.prune_interval must be positive, got %s", c.Maintenance.PruneInterval)
	}

	return nil
}
