// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/MKhiriev/quote-admin/internal/adapter"
	"github.com/MKhiriev/quote-admin/internal/config"
	"github.com/MKhiriev/quote-admin/internal/logger"
	"github.com/MKhiriev/quote-admin/internal/service"
	"github.com/MKhiriev/quote-admin/models"
	"github.com/atotto/clipboard"
)

var errUnknownCommand = errors.New("unknown command")

// app dispatches the admin commands over the shared adapter and services.
type app struct {
	adapter adapter.ServerAdapter
	batches *service.BatchService
	cfg     *config.AdminConfig
	logger  *logger.Logger
	out     io.Writer
	in      io.Reader
}

func newApp(serverAdapter adapter.ServerAdapter, cfg *config.AdminConfig, log *logger.Logger, out io.Writer, in io.Reader) *app {
	return &app{
		adapter: serverAdapter,
		batches: service.NewBatchService(serverAdapter, cfg.Batch, log),
		cfg:     cfg,
		logger:  log,
		out:     out,
		in:      in,
	}
}

func (a *app) run(args []string) error {
	if len(args) == 0 {
		a.usage()
		return nil
	}

	ctx := context.Background()
	cmd, rest := args[0], args[1:]

	switch cmd {
	case "list":
		return a.list(ctx)
	case "search":
		if len(rest) == 0 {
			return errors.New("search needs a query")
		}
		return a.search(ctx, strings.Join(rest, " "))
	case "watch":
		return a.watch(ctx)
	case "import":
		if len(rest) == 0 {
			return errors.New("import needs a JSON file path")
		}
		return a.importQuotes(ctx, rest[0])
	case "generate-tags":
		return a.generateTags(ctx)
	case "dedup":
		return a.dedup(ctx, hasArg(rest, "apply"))
	case "tags":
		return a.tags(ctx)
	case "cleanup-tags":
		return a.cleanupTags(ctx)
	case "export":
		return a.export(ctx, hasArg(rest, "clipboard"))
	default:
		a.usage()
		return fmt.Errorf("%w: %s", errUnknownCommand, cmd)
	}
}

func (a *app) usage() {
	fmt.Fprintln(a.out, `Usage: quote-admin [flags] <command>

Commands:
  list                   show the first page of the collection
  search <query>         free-text search over the collection
  watch                  follow the collection with periodic refresh
  import <file.json>     bulk-create quotes from a JSON array
  generate-tags          suggest and store tags for untagged quotes
  dedup [apply]          report duplicate groups; apply deletes the newer copies
  tags                   list all tags with usage counts
  cleanup-tags           delete tags no quote uses
  export [clipboard]     dump the full collection as JSON`)
}

func hasArg(args []string, want string) bool {
	for _, arg := range args {
		if strings.TrimPrefix(arg, "-") == want {
			return true
		}
	}
	return false
}

// ── view commands ────────────────────────────────────────────────────────────

// newView builds a collection view whose settled states are delivered on the
// returned channel.
func (a *app) newView() (*service.CollectionView, <-chan service.ViewState) {
	view := service.NewCollectionView(a.adapter, a.cfg.View.PageLimit, a.logger.GetChildLogger())
	view.SetOnSessionExpired(func() {
		a.logger.Error().Msg("session expired, obtain a fresh token and retry")
	})

	settled := make(chan service.ViewState, 16)
	view.SetOnChange(func(s service.ViewState) {
		if !s.Loading && !s.Preparing {
			settled <- s
		}
	})
	return view, settled
}

func (a *app) list(ctx context.Context) error {
	view, settled := a.newView()
	defer view.Close()

	view.Refresh()
	state, err := awaitState(ctx, settled)
	if err != nil {
		return err
	}

	a.printItems(state.Items)
	if state.HasMore {
		fmt.Fprintf(a.out, "... more available (%d total)\n", state.TotalCount)
	}
	return nil
}

func (a *app) search(ctx context.Context, query string) error {
	view, settled := a.newView()
	defer view.Close()

	view.SetQuery(query)
	state, err := awaitState(ctx, settled)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%d result(s) for %q\n", len(state.Items), query)
	a.printItems(state.Items)
	return nil
}

// watch keeps the view alive, reprinting it on every change, with the
// background job refreshing it periodically. Interrupt to stop.
func (a *app) watch(ctx context.Context) error {
	view := service.NewCollectionView(a.adapter, a.cfg.View.PageLimit, a.logger.GetChildLogger())
	defer view.Close()

	view.SetOnChange(func(s service.ViewState) {
		if s.Loading || s.Preparing {
			return
		}
		if s.Err != nil {
			fmt.Fprintf(a.out, "refresh failed: %v\n", s.Err)
			return
		}
		fmt.Fprintf(a.out, "--- %d quote(s), sorted by %s ---\n", len(s.Items), s.SortField)
		a.printItems(s.Items)
	})

	if interval := a.cfg.Workers.RefreshInterval; interval > 0 {
		job := service.NewViewRefreshJob(view)
		job.Start(ctx, interval)
		defer job.Stop()
	}

	view.Refresh()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	return nil
}

func awaitState(ctx context.Context, settled <-chan service.ViewState) (service.ViewState, error) {
	select {
	case state := <-settled:
		return state, state.Err
	case <-ctx.Done():
		return service.ViewState{}, ctx.Err()
	}
}

func (a *app) printItems(items []models.Quote) {
	for _, q := range items {
		line := fmt.Sprintf("%s  %q by %s", q.ID, q.Text, q.Author)
		if len(q.Tags) > 0 {
			line += "  [" + strings.Join(q.Tags, ", ") + "]"
		}
		fmt.Fprintln(a.out, line)
	}
}

// ── batch commands ───────────────────────────────────────────────────────────

func (a *app) importQuotes(ctx context.Context, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read import file: %w", err)
	}

	var entries []models.Quote
	if err = json.Unmarshal(raw, &entries); err != nil {
		return fmt.Errorf("parse import file: %w", err)
	}

	drafts := make([]models.Quote, 0, len(entries))
	for _, e := range entries {
		draft, err := models.NewQuote(e.Text, e.Author, e.Tags)
		if err != nil {
			// invalid entries still enter the run so they show up in the
			// failure accounting
			draft = models.Quote{Text: e.Text, Author: e.Author, Tags: e.Tags}
		}
		drafts = append(drafts, draft)
	}

	fmt.Fprintf(a.out, "importing %d quote(s)\n", len(drafts))
	final := a.supervise(ctx, a.batches.NewImportRun(drafts, true))
	a.printJobResult(final)
	return nil
}

func (a *app) generateTags(ctx context.Context) error {
	quotes, err := a.fetchAllQuotes(ctx)
	if err != nil {
		return err
	}
	untagged := service.UntaggedQuotes(quotes)
	if len(untagged) == 0 {
		fmt.Fprintln(a.out, "every quote already has tags")
		return nil
	}

	tags, err := a.adapter.ListTags(ctx)
	if err != nil {
		return fmt.Errorf("list tags: %w", err)
	}
	existing := make([]string, 0, len(tags))
	for _, tag := range tags {
		existing = append(existing, tag.Name)
	}

	fmt.Fprintf(a.out, "generating tags for %d untagged quote(s)\n", len(untagged))
	final := a.supervise(ctx, a.batches.NewTagGenerationRun(untagged, existing, true))
	a.printJobResult(final)
	return nil
}

func (a *app) dedup(ctx context.Context, apply bool) error {
	quotes, err := a.fetchAllQuotes(ctx)
	if err != nil {
		return err
	}

	groups := service.FindDuplicateQuotes(quotes)
	if len(groups) == 0 {
		fmt.Fprintln(a.out, "no duplicates found")
		return nil
	}

	for _, g := range groups {
		fmt.Fprintf(a.out, "%d copies of %q by %s:\n", len(g.Members), g.Members[0].Text, g.Members[0].Author)
		for i, m := range g.Members {
			marker := "delete"
			if i == 0 {
				marker = "keep  "
			}
			fmt.Fprintf(a.out, "  %s %s (created %s)\n", marker, m.ID, m.CreatedAt.Format("2006-01-02 15:04"))
		}
	}

	if !apply {
		fmt.Fprintln(a.out, "run 'dedup apply' to delete the marked copies")
		return nil
	}

	selected := service.DefaultCleanupSelection(groups)
	fmt.Fprintf(a.out, "deleting %d duplicate(s)\n", len(selected))
	final := a.supervise(ctx, a.batches.NewCleanupRun(selected, true))
	a.printJobResult(final)
	return nil
}

// supervise runs the batch to termination, prompting the operator whenever
// the runner pauses between chunks.
func (a *app) supervise(ctx context.Context, runner *service.BatchRunner[models.Quote]) models.BatchJob[models.Quote] {
	paused := make(chan models.BatchJob[models.Quote], 4)
	runner.SetOnProgress(func(job models.BatchJob[models.Quote]) {
		if job.Status == models.BatchPaused {
			paused <- job
		}
	})

	if err := runner.Start(ctx); err != nil {
		a.logger.Error().Err(err).Msg("start batch run")
		return runner.Progress()
	}

	for {
		select {
		case <-runner.Done():
			return runner.Wait()
		case job := <-paused:
			fmt.Fprintf(a.out, "processed %d/%d (%d ok, %d failed), continue? [y/N]: ",
				job.Processed, job.Total, job.Succeeded, job.Failed)
			if a.confirm() {
				runner.Resume()
			} else {
				runner.Abort()
			}
		}
	}
}

func (a *app) confirm() bool {
	scanner := bufio.NewScanner(a.in)
	if !scanner.Scan() {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(scanner.Text()))
	return answer == "y" || answer == "yes"
}

func (a *app) printJobResult(job models.BatchJob[models.Quote]) {
	fmt.Fprintf(a.out, "%s: %d/%d succeeded, %d failed\n", job.Status, job.Succeeded, job.Total, job.Failed)
	for _, f := range job.Failures {
		kind := "failed"
		if f.SoftDuplicate {
			kind = "duplicate"
		}
		fmt.Fprintf(a.out, "  item %d (%q by %s) %s: %s\n", f.Index, f.Item.Text, f.Item.Author, kind, f.Reason)
	}
	if retry := job.FailedItems(); len(retry) > 0 {
		fmt.Fprintf(a.out, "%d item(s) eligible for retry after correction\n", len(retry))
	}
}

// fetchAllQuotes walks the paginated listing to the end.
func (a *app) fetchAllQuotes(ctx context.Context) ([]models.Quote, error) {
	var all []models.Quote
	req := models.ListRequest{
		SortBy: models.SortByCreatedAt,
		Limit:  a.cfg.View.PageLimit,
	}

	for {
		page, err := a.adapter.ListQuotes(ctx, req)
		if err != nil {
			return nil, fmt.Errorf("list quotes: %w", err)
		}
		all = append(all, page.Quotes...)
		if !page.HasMore || page.LastKey == "" {
			return all, nil
		}
		req.LastKey = page.LastKey
	}
}

// ── tag and export commands ──────────────────────────────────────────────────

func (a *app) tags(ctx context.Context) error {
	tags, err := a.adapter.ListTags(ctx)
	if err != nil {
		return fmt.Errorf("list tags: %w", err)
	}

	for _, tag := range tags {
		fmt.Fprintf(a.out, "%s (%d)\n", tag.Name, tag.QuoteCount)
	}
	return nil
}

func (a *app) cleanupTags(ctx context.Context) error {
	result, err := a.adapter.CleanupUnusedTags(ctx)
	if err != nil {
		return fmt.Errorf("cleanup tags: %w", err)
	}

	fmt.Fprintf(a.out, "removed %d unused tag(s)\n", result.RemovedCount)
	for _, name := range result.RemovedNames {
		fmt.Fprintf(a.out, "  %s\n", name)
	}
	return nil
}

func (a *app) export(ctx context.Context, toClipboard bool) error {
	snapshot, err := a.adapter.ExportData(ctx)
	if err != nil {
		return fmt.Errorf("export data: %w", err)
	}

	encoded, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("encode export: %w", err)
	}

	if toClipboard {
		if err = clipboard.WriteAll(string(encoded)); err != nil {
			return fmt.Errorf("copy export to clipboard: %w", err)
		}
		fmt.Fprintf(a.out, "export copied to clipboard (%d quotes, %d tags)\n", len(snapshot.Quotes), len(snapshot.Tags))
		return nil
	}

	fmt.Fprintln(a.out, string(encoded))
	return nil
}
