// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/MKhiriev/quote-admin/internal/adapter"
	"github.com/MKhiriev/quote-admin/internal/logger"
	"github.com/MKhiriev/quote-admin/models"
)

// DebounceInterval is how long the view waits after the last query edit
// before issuing a search call.
const DebounceInterval = 500 * time.Millisecond

// ViewMode names the activity the collection view is currently engaged in.
type ViewMode string

const (
	// ModeBrowsing means the view shows the paginated listing.
	ModeBrowsing ViewMode = "browsing"
	// ModeSearching means the view shows (or is fetching) search results.
	ModeSearching ViewMode = "searching"
	// ModeSorting means a sort change is being applied and its fetch is in
	// flight.
	ModeSorting ViewMode = "sorting"
	// ModeImporting means a bulk import is running against the collection.
	ModeImporting ViewMode = "importing"
)

// ViewState is a point-in-time snapshot of the collection view. Items is a
// copy; mutating it does not affect the view.
//
// Cursor and HasMore are meaningful only while browsing — search results are
// a single uncursored set. The data source is decided by ActiveQuery alone:
// empty means the paginated listing, non-empty means search results.
type ViewState struct {
	Mode          ViewMode
	Items         []models.Quote
	Cursor        string
	HasMore       bool
	TotalCount    int
	SortField     models.SortField
	SortAscending bool
	ActiveQuery   string
	Generation    int64
	Preparing     bool
	Loading       bool
	Err           error
}

// CollectionView owns the authoritative "what should currently be displayed"
// state of the admin quote screen. It debounces query edits, stamps every
// fetch with a monotonically increasing generation, and discards responses
// whose generation has been superseded, so the displayed items always
// reflect the most recently issued fetch.
//
// All exported methods are safe for concurrent use. Completion handlers of
// in-flight fetches become no-ops after Close.
type CollectionView struct {
	adapter adapter.ServerAdapter
	logger  *logger.Logger

	pageLimit int
	debounce  time.Duration

	ctx    context.Context
	cancel context.CancelFunc

	mu           sync.Mutex
	state        ViewState
	pendingQuery string
	timer        *time.Timer
	closed       bool

	onChange         func(ViewState)
	onSessionExpired func()
}

// NewCollectionView creates an idle view over serverAdapter. pageLimit caps
// both listing pages and search result sets; non-positive values fall back
// to the adapter default. The view starts in Browsing mode sorted by
// creation time, newest first; call Refresh to load the first page.
func NewCollectionView(serverAdapter adapter.ServerAdapter, pageLimit int, log *logger.Logger) *CollectionView {
	ctx, cancel := context.WithCancel(context.Background())

	return &CollectionView{
		adapter:   serverAdapter,
		logger:    log,
		pageLimit: pageLimit,
		debounce:  DebounceInterval,
		ctx:       ctx,
		cancel:    cancel,
		state: ViewState{
			Mode:          ModeBrowsing,
			SortField:     models.SortByCreatedAt,
			SortAscending: false,
		},
	}
}

// SetOnChange registers the observer invoked with a state snapshot after
// every visible transition. The callback runs outside the view's lock; it
// may call back into the view.
func (v *CollectionView) SetOnChange(fn func(ViewState)) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.onChange = fn
}

// SetOnSessionExpired registers the callback invoked when the server
// answers 401. The session collaborator owns what happens next; the view
// only reports.
func (v *CollectionView) SetOnSessionExpired(fn func()) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.onSessionExpired = fn
}

// Snapshot returns a copy of the current view state.
func (v *CollectionView) Snapshot() ViewState {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.snapshotLocked()
}

// SetQuery records a keystroke-level edit of the search box. A non-empty
// trimmed query arms (or re-arms) the debounce timer and marks the view as
// preparing; the search call itself is issued only when the timer fires with
// the query still current. Clearing the query cancels any armed timer and
// reloads the listing immediately.
func (v *CollectionView) SetQuery(raw string) {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return
	}

	trimmed := strings.TrimSpace(raw)
	v.pendingQuery = trimmed
	v.stopTimerLocked()

	if trimmed == "" {
		v.state.Preparing = false
		v.state.ActiveQuery = ""
		v.state.Mode = ModeBrowsing
		v.startListLocked()
		v.finishOutside(v.mu.Unlock)
		return
	}

	v.state.Preparing = true
	query := trimmed
	v.timer = time.AfterFunc(v.debounce, func() { v.debounceFired(query) })
	v.finishOutside(v.mu.Unlock)
}

// debounceFired runs when the debounce timer elapses. The search is issued
// only if no newer edit superseded query in the meantime.
func (v *CollectionView) debounceFired(query string) {
	v.mu.Lock()
	if v.closed || query == "" || query != v.pendingQuery {
		v.mu.Unlock()
		return
	}

	v.state.Mode = ModeSearching
	v.state.ActiveQuery = query
	v.startSearchLocked()
	v.finishOutside(v.mu.Unlock)
}

// ToggleSort applies a sort change: tapping the current field flips the
// direction, choosing a new field resets to ascending. The current result
// set is refetched under the new order, replacing items on arrival.
func (v *CollectionView) ToggleSort(field models.SortField) {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return
	}

	if field == v.state.SortField {
		v.state.SortAscending = !v.state.SortAscending
	} else {
		v.state.SortField = field
		v.state.SortAscending = true
	}

	v.state.Mode = ModeSorting
	v.state.Cursor = ""
	if v.state.ActiveQuery != "" {
		v.startSearchLocked()
	} else {
		v.startListLocked()
	}
	v.finishOutside(v.mu.Unlock)
}

// LoadMore fetches the next listing page and appends it to the items.
// It is a no-op unless the view is browsing (no active query), more pages
// exist, and no fetch is already in flight.
func (v *CollectionView) LoadMore() {
	v.mu.Lock()
	if v.closed || v.state.ActiveQuery != "" || !v.state.HasMore || v.state.Loading {
		v.mu.Unlock()
		return
	}

	gen := v.nextGenLocked()
	v.state.Loading = true
	req := v.listRequestLocked()
	req.LastKey = v.state.Cursor
	v.mu.Unlock()

	go v.runAppend(gen, req)
}

// Refresh performs the full reload used after an external mutation settles
// (create, update, delete, finished batch): the active search is re-run when
// a query is set, otherwise the listing restarts from the first page with
// the cursor discarded.
func (v *CollectionView) Refresh() {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return
	}

	v.state.Cursor = ""
	if v.state.ActiveQuery != "" {
		v.startSearchLocked()
	} else {
		v.startListLocked()
	}
	v.finishOutside(v.mu.Unlock)
}

// BeginImporting marks the view as running a bulk import. The flag is
// presentation intent only; the data source stays whatever it was.
func (v *CollectionView) BeginImporting() {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return
	}
	v.state.Mode = ModeImporting
	v.finishOutside(v.mu.Unlock)
}

// FinishImporting clears the importing flag and triggers the
// external-mutation reload.
func (v *CollectionView) FinishImporting() {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return
	}
	v.state.Mode = v.settledModeLocked()
	v.mu.Unlock()

	v.Refresh()
}

// Close tears the view down: the debounce timer is stopped, in-flight
// fetches are cancelled, and any response that still arrives is discarded.
// Safe to call more than once.
func (v *CollectionView) Close() {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return
	}
	v.closed = true
	v.stopTimerLocked()
	v.mu.Unlock()

	v.cancel()
}

// ── fetch plumbing ───────────────────────────────────────────────────────────

// startListLocked issues a replacing first-page list fetch under a fresh
// generation. Caller holds the lock.
func (v *CollectionView) startListLocked() {
	gen := v.nextGenLocked()
	v.state.Loading = true
	req := v.listRequestLocked()

	go v.runList(gen, req)
}

// startSearchLocked issues a replacing search fetch for the active query
// under a fresh generation. Caller holds the lock.
func (v *CollectionView) startSearchLocked() {
	gen := v.nextGenLocked()
	v.state.Loading = true
	req := models.SearchRequest{
		Query:     v.state.ActiveQuery,
		SortBy:    v.state.SortField,
		Ascending: v.state.SortAscending,
		Limit:     v.pageLimit,
	}

	go v.runSearch(gen, req)
}

func (v *CollectionView) runList(gen int64, req models.ListRequest) {
	page, err := v.adapter.ListQuotes(v.ctx, req)

	v.mu.Lock()
	if !v.currentLocked(gen) {
		v.mu.Unlock()
		return
	}
	if err != nil {
		v.failLocked(err)
		v.finishOutside(v.mu.Unlock)
		return
	}

	v.state.Items = page.Quotes
	v.state.Cursor = page.LastKey
	v.state.HasMore = page.HasMore
	v.state.TotalCount = page.TotalCount
	v.settleLocked()
	v.finishOutside(v.mu.Unlock)
}

func (v *CollectionView) runAppend(gen int64, req models.ListRequest) {
	page, err := v.adapter.ListQuotes(v.ctx, req)

	v.mu.Lock()
	if !v.currentLocked(gen) {
		v.mu.Unlock()
		return
	}
	if err != nil {
		v.failLocked(err)
		v.finishOutside(v.mu.Unlock)
		return
	}

	v.state.Items = append(v.state.Items, page.Quotes...)
	v.state.Cursor = page.LastKey
	v.state.HasMore = page.HasMore
	if page.TotalCount > 0 {
		v.state.TotalCount = page.TotalCount
	}
	v.settleLocked()
	v.finishOutside(v.mu.Unlock)
}

func (v *CollectionView) runSearch(gen int64, req models.SearchRequest) {
	quotes, err := v.adapter.SearchQuotes(v.ctx, req)

	v.mu.Lock()
	if !v.currentLocked(gen) {
		v.mu.Unlock()
		return
	}
	if err != nil {
		v.failLocked(err)
		v.finishOutside(v.mu.Unlock)
		return
	}

	v.state.Items = quotes
	v.state.Cursor = ""
	v.state.HasMore = false
	v.settleLocked()
	v.finishOutside(v.mu.Unlock)
}

// ── state helpers ────────────────────────────────────────────────────────────

// nextGenLocked advances the generation stamp. Every fetch carries the value
// current at issue time; completion handlers compare it against the live one
// and discard themselves when superseded.
func (v *CollectionView) nextGenLocked() int64 {
	v.state.Generation++
	return v.state.Generation
}

// currentLocked reports whether a completion for gen is still authoritative.
// A stale response is a correct, silent outcome — not an error.
func (v *CollectionView) currentLocked(gen int64) bool {
	return !v.closed && gen == v.state.Generation
}

// settleLocked clears the transient flags after a successful fetch and
// resolves the mode from the data source.
func (v *CollectionView) settleLocked() {
	v.state.Loading = false
	v.state.Preparing = false
	v.state.Err = nil
	v.state.Mode = v.settledModeLocked()
}

func (v *CollectionView) settledModeLocked() ViewMode {
	if v.state.ActiveQuery != "" {
		return ModeSearching
	}
	return ModeBrowsing
}

// failLocked records a fetch error without touching the displayed items.
// A 401 additionally schedules the session-expired callback.
func (v *CollectionView) failLocked(err error) {
	v.state.Loading = false
	v.state.Preparing = false
	v.state.Err = err
	v.logger.Error().Err(err).Int64("generation", v.state.Generation).Msg("collection fetch failed")

	if errors.Is(err, adapter.ErrUnauthorized) && v.onSessionExpired != nil {
		go v.onSessionExpired()
	}
}

func (v *CollectionView) listRequestLocked() models.ListRequest {
	return models.ListRequest{
		SortBy:    v.state.SortField,
		Ascending: v.state.SortAscending,
		Limit:     v.pageLimit,
	}
}

func (v *CollectionView) snapshotLocked() ViewState {
	snap := v.state
	snap.Items = append([]models.Quote(nil), v.state.Items...)
	return snap
}

func (v *CollectionView) stopTimerLocked() {
	if v.timer != nil {
		v.timer.Stop()
		v.timer = nil
	}
}

// finishOutside snapshots the state, releases the lock via unlock, and
// delivers the snapshot to the observer. Keeps user callbacks off the lock.
func (v *CollectionView) finishOutside(unlock func()) {
	snap := v.snapshotLocked()
	cb := v.onChange
	unlock()

	if cb != nil {
		cb(snap)
	}
}
