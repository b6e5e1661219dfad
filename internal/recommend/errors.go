// ReadNext - Content Recommendation Engine for the NachoWeb3 Blog
// Copyright 2026 NachoWeb3
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nachoweb3/readnext

package recommend

import "errors"

// Sentinel errors returned by the engine. Callers match them with errors.Is.
var (
	// ErrInvalidRequest indicates a malformed request (empty user ID,
	// non-positive result size, unknown interaction type).
	ErrInvalidRequest = errors.New("invalid recommendation request")

	// ErrUnknownAlgorithm indicates a request for an unregistered strategy.
	ErrUnknownAlgorithm = errors.New("unknown recommendation algorithm")

	// ErrItemNotFound indicates a referenced item is not in the catalog.
	ErrItemNotFound = errors.New("item not found in catalog")

	// ErrProfileNotFound is returned by ProfileStore implementations when no
	// profile exists for a user. The engine treats it as "start fresh".
	ErrProfileNotFound = errors.New("profile not found")
)
