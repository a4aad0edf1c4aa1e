package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/MKhiriev/quote-admin/internal/config"
	"github.com/MKhiriev/quote-admin/internal/logger"
	"github.com/MKhiriev/quote-admin/models"
	"github.com/go-resty/resty/v2"
)

// DefaultPageLimit is applied when a list or search request does not specify
// its own limit. Matches the backend default.
const DefaultPageLimit = 50

type httpServerAdapter struct {
	client *resty.Client
	tokens TokenProvider

	logger *logger.Logger
}

// NewHTTPServerAdapter constructs an HTTP/REST implementation of
// [ServerAdapter]. It normalises and validates the base URL from
// adapterCfg.HTTPAddress and configures the underlying resty client with the
// resolved base URL and request timeout. tokens supplies the bearer token for
// every authenticated call.
//
// Returns an error if adapterCfg.HTTPAddress is empty or cannot be parsed as
// a valid URL.
func NewHTTPServerAdapter(adapterCfg config.Adapter, tokens TokenProvider, log *logger.Logger) (ServerAdapter, error) {
	baseURL, err := normalizeBaseURL(adapterCfg.HTTPAddress)
	if err != nil {
		return nil, fmt.Errorf("invalid adapter http address: %w", err)
	}

	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(adapterCfg.RequestTimeout)

	return &httpServerAdapter{client: client, tokens: tokens, logger: log}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

// ListQuotes implements [ServerAdapter]. It GETs /admin/quotes with the sort,
// limit and continuation parameters from req and decodes one page of the
// collection. An empty req.LastKey requests the first page.
func (h *httpServerAdapter) ListQuotes(ctx context.Context, req models.ListRequest) (models.QuotePage, error) {
	r, err := h.authedRequest(ctx)
	if err != nil {
		return models.QuotePage{}, err
	}

	r.SetQueryParams(map[string]string{
		"limit":      strconv.Itoa(pageLimit(req.Limit)),
		"sort_by":    string(req.SortBy),
		"sort_order": sortOrder(req.Ascending),
	})
	if req.LastKey != "" {
		r.SetQueryParam("last_key", req.LastKey)
	}

	resp, err := r.Get("/admin/quotes")
	if err != nil {
		return models.QuotePage{}, fmt.Errorf("list quotes request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.QuotePage{}, err
	}

	var page models.QuotePage
	if err = json.Unmarshal(resp.Body(), &page); err != nil {
		return models.QuotePage{}, fmt.Errorf("decode list quotes response: %w", err)
	}

	return page, nil
}

// SearchQuotes implements [ServerAdapter]. It GETs /admin/quotes/search with
// the q, sort and limit parameters from req. The backend returns a single
// result set capped at the limit; there is no continuation token for search.
func (h *httpServerAdapter) SearchQuotes(ctx context.Context, req models.SearchRequest) ([]models.Quote, error) {
	if strings.TrimSpace(req.Query) == "" {
		return nil, fmt.Errorf("%w: empty search query", ErrBadRequest)
	}

	r, err := h.authedRequest(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := r.
		SetQueryParams(map[string]string{
			"q":          req.Query,
			"limit":      strconv.Itoa(pageLimit(req.Limit)),
			"sort_by":    string(req.SortBy),
			"sort_order": sortOrder(req.Ascending),
		}).
		Get("/admin/quotes/search")
	if err != nil {
		return nil, fmt.Errorf("search quotes request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	var body struct {
		Quotes []models.Quote `json:"quotes"`
	}
	if err = json.Unmarshal(resp.Body(), &body); err != nil {
		return nil, fmt.Errorf("decode search quotes response: %w", err)
	}

	return body.Quotes, nil
}

// CreateQuote implements [ServerAdapter]. It POSTs the draft to
// /admin/quotes and returns the stored record. A 409 from the server-side
// duplicate check surfaces as a wrapped [ErrConflict].
func (h *httpServerAdapter) CreateQuote(ctx context.Context, draft models.Quote) (models.Quote, error) {
	r, err := h.authedRequest(ctx)
	if err != nil {
		return models.Quote{}, err
	}

	resp, err := r.
		SetHeader("Content-Type", "application/json").
		SetBody(quotePayload{Text: draft.Text, Author: draft.Author, Tags: draft.Tags}).
		Post("/admin/quotes")
	if err != nil {
		return models.Quote{}, fmt.Errorf("create quote request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.Quote{}, err
	}

	return decodeQuoteEnvelope(resp.Body(), "create")
}

// UpdateQuote implements [ServerAdapter]. It PUTs the new text, author and
// tags to /admin/quotes/{id} and returns the stored record with a refreshed
// updated_at timestamp.
func (h *httpServerAdapter) UpdateQuote(ctx context.Context, quote models.Quote) (models.Quote, error) {
	if quote.ID == "" {
		return models.Quote{}, fmt.Errorf("%w: quote id is required for update", ErrBadRequest)
	}

	r, err := h.authedRequest(ctx)
	if err != nil {
		return models.Quote{}, err
	}

	resp, err := r.
		SetHeader("Content-Type", "application/json").
		SetBody(quotePayload{Text: quote.Text, Author: quote.Author, Tags: quote.Tags}).
		Put("/admin/quotes/" + url.PathEscape(quote.ID))
	if err != nil {
		return models.Quote{}, fmt.Errorf("update quote request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.Quote{}, err
	}

	return decodeQuoteEnvelope(resp.Body(), "update")
}

// DeleteQuote implements [ServerAdapter]. It sends DELETE /admin/quotes/{id}.
func (h *httpServerAdapter) DeleteQuote(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("%w: quote id is required for delete", ErrBadRequest)
	}

	r, err := h.authedRequest(ctx)
	if err != nil {
		return err
	}

	resp, err := r.Delete("/admin/quotes/" + url.PathEscape(id))
	if err != nil {
		return fmt.Errorf("delete quote request: %w", err)
	}

	return mapHTTPError(resp)
}

// ListTags implements [ServerAdapter]. It GETs /admin/tags and decodes the
// tag set with usage counts.
func (h *httpServerAdapter) ListTags(ctx context.Context) ([]models.TagInfo, error) {
	r, err := h.authedRequest(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := r.Get("/admin/tags")
	if err != nil {
		return nil, fmt.Errorf("list tags request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	var body struct {
		Tags []models.TagInfo `json:"tags"`
	}
	if err = json.Unmarshal(resp.Body(), &body); err != nil {
		return nil, fmt.Errorf("decode list tags response: %w", err)
	}

	return body.Tags, nil
}

// CleanupUnusedTags implements [ServerAdapter]. It sends
// DELETE /admin/tags/unused and reports the removed tag names.
func (h *httpServerAdapter) CleanupUnusedTags(ctx context.Context) (models.TagCleanupResult, error) {
	r, err := h.authedRequest(ctx)
	if err != nil {
		return models.TagCleanupResult{}, err
	}

	resp, err := r.Delete("/admin/tags/unused")
	if err != nil {
		return models.TagCleanupResult{}, fmt.Errorf("cleanup unused tags request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.TagCleanupResult{}, err
	}

	var result models.TagCleanupResult
	if err = json.Unmarshal(resp.Body(), &result); err != nil {
		return models.TagCleanupResult{}, fmt.Errorf("decode cleanup tags response: %w", err)
	}

	return result, nil
}

// SuggestTags implements [ServerAdapter]. It POSTs the quote to
// /admin/generate-tags and returns the suggested tag names, normalised and
// capped at five entries.
func (h *httpServerAdapter) SuggestTags(ctx context.Context, text, author string, existingTags []string) ([]string, error) {
	r, err := h.authedRequest(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := r.
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]any{
			"quote":        text,
			"author":       author,
			"existingTags": existingTags,
		}).
		Post("/admin/generate-tags")
	if err != nil {
		return nil, fmt.Errorf("suggest tags request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	var body struct {
		Tags []string `json:"tags"`
	}
	if err = json.Unmarshal(resp.Body(), &body); err != nil {
		return nil, fmt.Errorf("decode suggest tags response: %w", err)
	}

	tags := models.NormalizeTags(body.Tags)
	if len(tags) > 5 {
		tags = tags[:5]
	}
	return tags, nil
}

// ExportData implements [ServerAdapter]. It GETs /admin/export and decodes
// the full backup snapshot of quotes and tags.
func (h *httpServerAdapter) ExportData(ctx context.Context) (models.ExportSnapshot, error) {
	r, err := h.authedRequest(ctx)
	if err != nil {
		return models.ExportSnapshot{}, err
	}

	resp, err := r.Get("/admin/export")
	if err != nil {
		return models.ExportSnapshot{}, fmt.Errorf("export data request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.ExportSnapshot{}, err
	}

	var snapshot models.ExportSnapshot
	if err = json.Unmarshal(resp.Body(), &snapshot); err != nil {
		return models.ExportSnapshot{}, fmt.Errorf("decode export response: %w", err)
	}

	return snapshot, nil
}

// quotePayload is the request body shape shared by create and update.
type quotePayload struct {
	Text   string   `json:"quote"`
	Author string   `json:"author"`
	Tags   []string `json:"tags"`
}

// quoteEnvelope is the {message, quote} wrapper the backend returns from
// create and update.
type quoteEnvelope struct {
	Message string       `json:"message"`
	Quote   models.Quote `json:"quote"`
}

func decodeQuoteEnvelope(body []byte, op string) (models.Quote, error) {
	var env quoteEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return models.Quote{}, fmt.Errorf("decode %s quote response: %w", op, err)
	}
	return env.Quote, nil
}

// authedRequest builds a request with the caller's context and the bearer
// token from the token provider. An absent token fails immediately with
// [ErrUnauthorized] — no network call is made.
func (h *httpServerAdapter) authedRequest(ctx context.Context) (*resty.Request, error) {
	token := h.tokens.BearerToken()
	if token == "" {
		return nil, fmt.Errorf("%w: no bearer token available", ErrUnauthorized)
	}

	return h.client.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+token), nil
}

func sortOrder(ascending bool) string {
	if ascending {
		return "asc"
	}
	return "desc"
}

func pageLimit(limit int) int {
	if limit <= 0 {
		return DefaultPageLimit
	}
	return limit
}
