// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides the transport layer between the admin client and
// the remote quote collection API.
//
// The primary abstraction is [ServerAdapter], which decouples view
// synchronisation and batch jobs from the underlying protocol. The package
// ships an HTTP/REST implementation ([NewHTTPServerAdapter]) built on resty.
//
// Error values defined in errors.go are mapped from HTTP status codes by
// mapHTTPError so that callers can use [errors.Is] for transport-agnostic
// error handling (e.g. [ErrConflict] for 409, [ErrUnauthorized] for 401).
package adapter

import (
	"context"

	"github.com/MKhiriev/quote-admin/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/server_adapter_mock.go -package=mock

// TokenProvider supplies the bearer token attached to every authenticated
// request. An empty return value means no session is available; the adapter
// fails such calls with [ErrUnauthorized] before any network activity.
type TokenProvider interface {
	// BearerToken returns the current session token, or an empty string
	// when the client is not authenticated.
	BearerToken() string
}

// ServerAdapter defines transport-agnostic communication with the quote
// collection backend. Implementations are responsible for serialisation,
// authentication header management, and mapping transport-level errors to
// the sentinel values defined in this package.
type ServerAdapter interface {
	// ListQuotes fetches one page of the quote collection ordered by
	// req.SortBy/req.Ascending. An empty req.LastKey requests the first
	// page; the returned page carries the continuation token for the next
	// one. Returns an error if the request fails or the response cannot be
	// decoded.
	ListQuotes(ctx context.Context, req models.ListRequest) (models.QuotePage, error)

	// SearchQuotes runs a free-text search over quote text, author and
	// tags, ordered by req.SortBy/req.Ascending. The result is a single
	// full set capped at req.Limit — the search endpoint is deliberately
	// not paginated, matching the backend contract.
	SearchQuotes(ctx context.Context, req models.SearchRequest) ([]models.Quote, error)

	// CreateQuote persists a new quote draft on the server and returns the
	// stored record with its assigned ID and timestamps. Returns
	// [ErrConflict] (wrapped) when the server's exact-duplicate check
	// rejects the draft; batch callers treat that as an expected soft
	// outcome rather than a hard error.
	CreateQuote(ctx context.Context, draft models.Quote) (models.Quote, error)

	// UpdateQuote replaces text, author and tags of the quote identified
	// by quote.ID and returns the stored record with a refreshed
	// updated_at. Returns [ErrNotFound] (wrapped) for an unknown ID.
	UpdateQuote(ctx context.Context, quote models.Quote) (models.Quote, error)

	// DeleteQuote removes the quote with the given ID from the collection.
	DeleteQuote(ctx context.Context, id string) error

	// ListTags fetches every tag known to the server together with its
	// usage count.
	ListTags(ctx context.Context) ([]models.TagInfo, error)

	// CleanupUnusedTags asks the server to delete all tags that no quote
	// references anymore and reports what was removed.
	CleanupUnusedTags(ctx context.Context) (models.TagCleanupResult, error)

	// SuggestTags asks the AI tagging endpoint for one to five tags fitting
	// the given quote, chosen from existingTags. Errors are surfaced to the
	// caller; inside a batch run they count as per-item failures.
	SuggestTags(ctx context.Context, text, author string, existingTags []string) ([]string, error)

	// ExportData downloads a full backup snapshot of the collection:
	// every quote plus every known tag.
	ExportData(ctx context.Context) (models.ExportSnapshot, error)
}
