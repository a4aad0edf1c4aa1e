// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/MKhiriev/quote-admin/internal/adapter"
	"github.com/MKhiriev/quote-admin/internal/config"
	"github.com/MKhiriev/quote-admin/internal/logger"
	"github.com/MKhiriev/quote-admin/internal/mock"
	"github.com/MKhiriev/quote-admin/models"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newTestBatchService(t *testing.T) (*BatchService, *mock.MockServerAdapter) {
	t.Helper()

	ctrl := gomock.NewController(t)
	serverAdapter := mock.NewMockServerAdapter(ctrl)
	svc := NewBatchService(serverAdapter, config.Batch{Size: 5}, logger.Nop())
	return svc, serverAdapter
}

// ── import ───────────────────────────────────────────────────────────────────

func TestImportRun_CreatesEveryValidDraft(t *testing.T) {
	svc, serverAdapter := newTestBatchService(t)

	drafts := []models.Quote{
		{Text: "Be bold", Author: "A", Tags: []string{"courage"}},
		{Text: "Waste no time", Author: "Marcus Aurelius"},
	}
	serverAdapter.EXPECT().CreateQuote(gomock.Any(), drafts[0]).Return(drafts[0], nil)
	serverAdapter.EXPECT().CreateQuote(gomock.Any(), drafts[1]).Return(drafts[1], nil)

	runner := svc.NewImportRun(drafts, false)
	require.NoError(t, runner.Start(context.Background()))
	final := runner.Wait()

	require.Equal(t, models.BatchCompleted, final.Status)
	require.Equal(t, 2, final.Succeeded)
	require.Zero(t, final.Failed)
}

func TestImportRun_InvalidDraftSkippedBeforeNetwork(t *testing.T) {
	svc, serverAdapter := newTestBatchService(t)

	valid := models.Quote{Text: "Be bold", Author: "A"}
	invalid := models.Quote{Text: "   ", Author: "A"}

	// only the valid draft may reach the server
	serverAdapter.EXPECT().CreateQuote(gomock.Any(), valid).Return(valid, nil)

	runner := svc.NewImportRun([]models.Quote{invalid, valid}, false)
	require.NoError(t, runner.Start(context.Background()))
	final := runner.Wait()

	require.Equal(t, 1, final.Succeeded)
	require.Equal(t, 1, final.Failed)
	require.Len(t, final.Failures, 1)
	require.Equal(t, 0, final.Failures[0].Index)
	require.Contains(t, final.Failures[0].Reason, "validate draft")
	require.False(t, final.Failures[0].SoftDuplicate)
}

func TestImportRun_ServerConflictIsSoftDuplicate(t *testing.T) {
	svc, serverAdapter := newTestBatchService(t)

	dup := models.Quote{Text: "Be bold", Author: "A"}
	serverAdapter.EXPECT().CreateQuote(gomock.Any(), dup).
		Return(models.Quote{}, fmt.Errorf("create quote: %w", adapter.ErrConflict))

	runner := svc.NewImportRun([]models.Quote{dup}, false)
	require.NoError(t, runner.Start(context.Background()))
	final := runner.Wait()

	require.Equal(t, 1, final.Failed)
	require.True(t, final.Failures[0].SoftDuplicate)
	require.Empty(t, final.FailedItems(), "a soft duplicate is not retry material")
}

// ── tag generation ───────────────────────────────────────────────────────────

func TestTagGenerationRun_StoresSuggestions(t *testing.T) {
	svc, serverAdapter := newTestBatchService(t)

	quote := models.Quote{ID: "q1", Text: "Amor fati", Author: "Nietzsche"}
	existing := []string{"stoicism", "fate"}

	serverAdapter.EXPECT().SuggestTags(gomock.Any(), quote.Text, quote.Author, existing).
		Return([]string{"fate", "acceptance"}, nil)
	serverAdapter.EXPECT().UpdateQuote(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, updated models.Quote) (models.Quote, error) {
			require.Equal(t, "q1", updated.ID)
			require.Equal(t, []string{"fate", "acceptance"}, updated.Tags)
			return updated, nil
		})

	runner := svc.NewTagGenerationRun([]models.Quote{quote}, existing, false)
	require.NoError(t, runner.Start(context.Background()))
	final := runner.Wait()

	require.Equal(t, 1, final.Succeeded)
	require.Zero(t, final.Failed)
}

func TestTagGenerationRun_NoSuggestionsLeavesQuoteUntouched(t *testing.T) {
	svc, serverAdapter := newTestBatchService(t)

	quote := models.Quote{ID: "q1", Text: "Untaggable", Author: "X"}
	serverAdapter.EXPECT().SuggestTags(gomock.Any(), quote.Text, quote.Author, gomock.Nil()).
		Return(nil, nil)
	// no UpdateQuote expectation: an update would fail the controller

	runner := svc.NewTagGenerationRun([]models.Quote{quote}, nil, false)
	require.NoError(t, runner.Start(context.Background()))
	final := runner.Wait()

	require.Equal(t, 1, final.Succeeded)
}

func TestTagGenerationRun_SuggestFailureIsPlainFailure(t *testing.T) {
	svc, serverAdapter := newTestBatchService(t)

	quote := models.Quote{ID: "q1", Text: "Be bold", Author: "A"}
	serverAdapter.EXPECT().SuggestTags(gomock.Any(), quote.Text, quote.Author, gomock.Nil()).
		Return(nil, fmt.Errorf("suggest: %w", adapter.ErrBadGateway))

	runner := svc.NewTagGenerationRun([]models.Quote{quote}, nil, false)
	require.NoError(t, runner.Start(context.Background()))
	final := runner.Wait()

	require.Equal(t, 1, final.Failed)
	require.Equal(t, []models.Quote{quote}, final.FailedItems())
}

// ── cleanup ──────────────────────────────────────────────────────────────────

func TestCleanupRun_DeletesSelection(t *testing.T) {
	svc, serverAdapter := newTestBatchService(t)

	selected := []models.Quote{
		{ID: "q2", Text: "be bold", Author: "a"},
		{ID: "q3", Text: "BE BOLD", Author: "a"},
	}
	serverAdapter.EXPECT().DeleteQuote(gomock.Any(), "q2").Return(nil)
	serverAdapter.EXPECT().DeleteQuote(gomock.Any(), "q3").Return(nil)

	runner := svc.NewCleanupRun(selected, false)
	require.NoError(t, runner.Start(context.Background()))
	final := runner.Wait()

	require.Equal(t, models.BatchCompleted, final.Status)
	require.Equal(t, 2, final.Succeeded)
}

func TestCleanupRun_MissingIDNeverReachesServer(t *testing.T) {
	svc, _ := newTestBatchService(t)

	runner := svc.NewCleanupRun([]models.Quote{{Text: "draft only", Author: "A"}}, false)
	require.NoError(t, runner.Start(context.Background()))
	final := runner.Wait()

	require.Equal(t, 1, final.Failed)
	require.Contains(t, final.Failures[0].Reason, "validate selection")
}

// ── helpers ──────────────────────────────────────────────────────────────────

func TestUntaggedQuotes(t *testing.T) {
	quotes := []models.Quote{
		{ID: "q1", Tags: []string{"stoicism"}},
		{ID: "q2"},
		{ID: "q3", Tags: []string{}},
	}

	got := UntaggedQuotes(quotes)

	require.Len(t, got, 2)
	require.Equal(t, "q2", got[0].ID)
	require.Equal(t, "q3", got[1].ID)
}
