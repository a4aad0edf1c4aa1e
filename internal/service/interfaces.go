// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package service implements the admin-side collection engine: the view
// synchronizer that keeps the displayed quote list consistent under
// overlapping asynchronous fetches, the batch runner that drives bulk
// operations against the rate-limited backend, and the duplicate detector
// operating over already-loaded quotes.
package service

import (
	"context"
	"time"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/service_mock.go -package=mock

// ViewRefresher triggers a full reload of a collection view that respects
// its current mode. Satisfied by [*CollectionView].
type ViewRefresher interface {
	// Refresh re-issues the current fetch: the active search when a query
	// is set, the first listing page otherwise.
	Refresh()
}

// RefreshJob defines the contract for a background worker that periodically
// reloads a collection view, keeping a long-lived screen in step with
// server-side edits made elsewhere.
type RefreshJob interface {
	// Start launches the background refresh goroutine. It refreshes every
	// interval, defaulting to 5 minutes if interval is zero or negative.
	// Any previously running job is stopped before the new one begins.
	Start(ctx context.Context, interval time.Duration)

	// Stop signals the background goroutine to exit and blocks until it
	// has fully terminated.
	Stop()
}
