// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/MKhiriev/quote-admin/internal/config"
	"github.com/MKhiriev/quote-admin/internal/logger"
	"github.com/MKhiriev/quote-admin/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticTokens string

func (s staticTokens) BearerToken() string { return string(s) }

func newTestAdapter(t *testing.T, serverURL string) *httpServerAdapter {
	t.Helper()
	adapterCfg := config.Adapter{HTTPAddress: serverURL, RequestTimeout: 5 * time.Second}

	a, err := NewHTTPServerAdapter(adapterCfg, staticTokens("test-token"), logger.Nop())
	require.NoError(t, err)
	return a.(*httpServerAdapter)
}

// ── NewHTTPServerAdapter ─────────────────────────────────────────────────────

func TestNewHTTPServerAdapter_EmptyAddress(t *testing.T) {
	_, err := NewHTTPServerAdapter(config.Adapter{}, staticTokens(""), logger.Nop())
	require.Error(t, err)
}

func TestNewHTTPServerAdapter_SchemelessAddress(t *testing.T) {
	a, err := NewHTTPServerAdapter(
		config.Adapter{HTTPAddress: "api.example.com/prod"},
		staticTokens(""),
		logger.Nop(),
	)
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com/prod", a.(*httpServerAdapter).client.BaseURL)
}

// ── ListQuotes ───────────────────────────────────────────────────────────────

func TestListQuotes_FirstPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/admin/quotes", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		q := r.URL.Query()
		assert.Equal(t, "50", q.Get("limit"))
		assert.Equal(t, "created_at", q.Get("sort_by"))
		assert.Equal(t, "desc", q.Get("sort_order"))
		assert.Empty(t, q.Get("last_key"))

		_ = json.NewEncoder(w).Encode(models.QuotePage{
			Quotes:     []models.Quote{{ID: "q1", Text: "Be bold", Author: "A"}},
			LastKey:    "cursor-1",
			HasMore:    true,
			TotalCount: 120,
		})
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL)
	page, err := a.ListQuotes(context.Background(), models.ListRequest{SortBy: models.SortByCreatedAt})

	require.NoError(t, err)
	require.Len(t, page.Quotes, 1)
	assert.Equal(t, "q1", page.Quotes[0].ID)
	assert.Equal(t, "cursor-1", page.LastKey)
	assert.True(t, page.HasMore)
	assert.Equal(t, 120, page.TotalCount)
}

func TestListQuotes_PassesCursor(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "cursor-1", r.URL.Query().Get("last_key"))
		assert.Equal(t, "asc", r.URL.Query().Get("sort_order"))
		_ = json.NewEncoder(w).Encode(models.QuotePage{})
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL)
	_, err := a.ListQuotes(context.Background(), models.ListRequest{
		SortBy:    models.SortByAuthor,
		Ascending: true,
		LastKey:   "cursor-1",
	})
	require.NoError(t, err)
}

func TestListQuotes_NoToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("request must not reach the network without a token")
	}))
	defer srv.Close()

	a, err := NewHTTPServerAdapter(
		config.Adapter{HTTPAddress: srv.URL},
		staticTokens(""),
		logger.Nop(),
	)
	require.NoError(t, err)

	_, err = a.ListQuotes(context.Background(), models.ListRequest{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestListQuotes_Unauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte("token expired"))
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL)
	_, err := a.ListQuotes(context.Background(), models.ListRequest{})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

// ── SearchQuotes ─────────────────────────────────────────────────────────────

func TestSearchQuotes_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/admin/quotes/search", r.URL.Path)
		assert.Equal(t, "stoicism", r.URL.Query().Get("q"))

		_ = json.NewEncoder(w).Encode(map[string]any{
			"quotes": []models.Quote{{ID: "q1"}, {ID: "q2"}},
		})
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL)
	quotes, err := a.SearchQuotes(context.Background(), models.SearchRequest{
		Query:  "stoicism",
		SortBy: models.SortByCreatedAt,
	})

	require.NoError(t, err)
	assert.Len(t, quotes, 2)
}

func TestSearchQuotes_EmptyQuery(t *testing.T) {
	a := newTestAdapter(t, "http://localhost:0")
	_, err := a.SearchQuotes(context.Background(), models.SearchRequest{Query: "   "})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBadRequest)
}

// ── CreateQuote ──────────────────────────────────────────────────────────────

func TestCreateQuote_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/admin/quotes", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Be bold", body["quote"])
		assert.Equal(t, "A", body["author"])

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"message": "Quote created successfully",
			"quote":   models.Quote{ID: "new-id", Text: "Be bold", Author: "A"},
		})
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL)
	got, err := a.CreateQuote(context.Background(), models.Quote{Text: "Be bold", Author: "A"})

	require.NoError(t, err)
	assert.Equal(t, "new-id", got.ID)
}

func TestCreateQuote_Conflict(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte("duplicate quote"))
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL)
	_, err := a.CreateQuote(context.Background(), models.Quote{Text: "Be bold", Author: "A"})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConflict)
}

// ── UpdateQuote / DeleteQuote ────────────────────────────────────────────────

func TestUpdateQuote_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/admin/quotes/q1", r.URL.Path)

		_ = json.NewEncoder(w).Encode(map[string]any{
			"quote": models.Quote{ID: "q1", Text: "Edited", Author: "A"},
		})
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL)
	got, err := a.UpdateQuote(context.Background(), models.Quote{ID: "q1", Text: "Edited", Author: "A"})

	require.NoError(t, err)
	assert.Equal(t, "Edited", got.Text)
}

func TestUpdateQuote_MissingID(t *testing.T) {
	a := newTestAdapter(t, "http://localhost:0")
	_, err := a.UpdateQuote(context.Background(), models.Quote{Text: "x", Author: "y"})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBadRequest)
}

func TestDeleteQuote_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/admin/quotes/q1", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL)
	require.NoError(t, a.DeleteQuote(context.Background(), "q1"))
}

func TestDeleteQuote_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("quote not found"))
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL)
	err := a.DeleteQuote(context.Background(), "gone")

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

// ── Tags ─────────────────────────────────────────────────────────────────────

func TestListTags_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/admin/tags", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"tags": []models.TagInfo{{Name: "wisdom", QuoteCount: 12}},
		})
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL)
	tags, err := a.ListTags(context.Background())

	require.NoError(t, err)
	require.Len(t, tags, 1)
	assert.Equal(t, "wisdom", tags[0].Name)
	assert.Equal(t, 12, tags[0].QuoteCount)
}

func TestCleanupUnusedTags_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/admin/tags/unused", r.URL.Path)
		_ = json.NewEncoder(w).Encode(models.TagCleanupResult{
			RemovedCount: 2,
			RemovedNames: []string{"old", "stale"},
		})
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL)
	result, err := a.CleanupUnusedTags(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, result.RemovedCount)
	assert.Equal(t, []string{"old", "stale"}, result.RemovedNames)
}

// ── SuggestTags ──────────────────────────────────────────────────────────────

func TestSuggestTags_NormalisesAndCaps(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/admin/generate-tags", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Be bold", body["quote"])

		_ = json.NewEncoder(w).Encode(map[string]any{
			"tags": []string{" courage ", "courage", "wisdom", "life", "growth", "action", "extra"},
		})
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL)
	tags, err := a.SuggestTags(context.Background(), "Be bold", "A", []string{"courage", "wisdom"})

	require.NoError(t, err)
	assert.Equal(t, []string{"courage", "wisdom", "life", "growth", "action"}, tags)
}

func TestSuggestTags_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("model unavailable"))
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL)
	_, err := a.SuggestTags(context.Background(), "Be bold", "A", nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInternalServerError)
}

// ── ExportData ───────────────────────────────────────────────────────────────

func TestExportData_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/admin/export", r.URL.Path)
		_ = json.NewEncoder(w).Encode(models.ExportSnapshot{
			Quotes: []models.Quote{{ID: "q1"}},
			Tags:   []models.TagInfo{{Name: "wisdom"}},
		})
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL)
	snapshot, err := a.ExportData(context.Background())

	require.NoError(t, err)
	assert.Len(t, snapshot.Quotes, 1)
	assert.Len(t, snapshot.Tags, 1)
}
