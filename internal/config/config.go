// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"time"
)

// StructuredConfig is the top-level configuration container for the
// quote-admin application. It aggregates all sub-configurations and is
// populated by merging values from environment variables, command-line flags,
// and an optional JSON file.
//
// Struct tags:
//   - envPrefix — prefix applied to all nested env tag lookups (caarlos0/env).
//   - env       — direct environment variable name for scalar fields.
type StructuredConfig struct {
	// Adapter holds network address and timeout settings for the remote
	// quote collection API.
	Adapter Adapter `envPrefix:"ADAPTER_"`

	// Session holds the bearer-token settings for the admin session.
	Session Session `envPrefix:"SESSION_"`

	// View holds settings of the collection view synchronizer.
	View View `envPrefix:"VIEW_"`

	// Batch holds pacing settings for bulk operations.
	Batch Batch `envPrefix:"BATCH_"`

	// Workers holds configuration for background worker processes.
	Workers Workers `envPrefix:"WORKERS_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// When non-empty, the file is parsed and merged on top of the values
	// already loaded from environment variables and flags.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// Adapter holds configuration for the outbound transport layer.
type Adapter struct {
	// HTTPAddress is the base URL of the quote collection API
	// (e.g. "https://api.example.com/prod").
	// Env: ADAPTER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// RequestTimeout is the maximum duration allowed for a single outbound
	// request before the client cancels it (e.g. "30s", "1m").
	// Env: ADAPTER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// Session holds the admin session settings.
type Session struct {
	// Token is the bearer token attached to every API call. Token issuance
	// itself (Cognito login flow) happens outside this application.
	// Env: SESSION_TOKEN
	Token string `env:"TOKEN"`
}

// View holds collection view settings.
type View struct {
	// PageLimit is the page size used for paginated listing and the cap for
	// search result sets. Zero falls back to the server default of 50.
	// Env: VIEW_PAGE_LIMIT
	PageLimit int `env:"PAGE_LIMIT"`
}

// Batch holds pacing settings for bulk operations against the rate-limited
// backend.
type Batch struct {
	// Size is the number of items processed between confirmation pauses.
	// Env: BATCH_SIZE
	Size int `env:"SIZE"`

	// ItemDelay is the pause between consecutive plain CRUD calls.
	// Env: BATCH_ITEM_DELAY
	ItemDelay time.Duration `env:"ITEM_DELAY"`

	// AIItemDelay is the pause between consecutive AI-backed calls, which
	// are throttled harder than plain CRUD.
	// Env: BATCH_AI_ITEM_DELAY
	AIItemDelay time.Duration `env:"AI_ITEM_DELAY"`
}

// Workers holds configuration for background worker processes.
type Workers struct {
	// RefreshInterval defines how often the background refresh job reloads
	// the collection view. Zero disables the job.
	// Env: WORKERS_REFRESH_INTERVAL
	RefreshInterval time.Duration `env:"REFRESH_INTERVAL"`
}

// GetStructuredConfig loads, merges, and validates the application
// configuration from all available sources in the following priority order
// (first source wins for non-zero fields):
//  1. Environment variables
//  2. Command-line flags
//  3. JSON file (path resolved from sources 1 and 2)
//
// Returns a fully populated *StructuredConfig or an error if any source
// fails to load or the final config fails validation.
func GetStructuredConfig() (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags().
		withJSON().
		build()
}
