// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"fmt"

	"github.com/MKhiriev/quote-admin/internal/adapter"
	"github.com/MKhiriev/quote-admin/internal/config"
	"github.com/MKhiriev/quote-admin/internal/logger"
	"github.com/MKhiriev/quote-admin/internal/validators"
	"github.com/MKhiriev/quote-admin/models"
)

// BatchService builds the concrete batch runs of the admin client: bulk
// import, AI tag generation, and duplicate cleanup. Every run is paced
// according to the batch configuration and accounts its outcomes through
// [BatchRunner].
type BatchService struct {
	adapter   adapter.ServerAdapter
	validator validators.Validator
	cfg       config.Batch
	logger    *logger.Logger
}

func NewBatchService(serverAdapter adapter.ServerAdapter, cfg config.Batch, log *logger.Logger) *BatchService {
	return &BatchService{
		adapter:   serverAdapter,
		validator: validators.NewQuoteValidator(),
		cfg:       cfg,
		logger:    log,
	}
}

// NewImportRun builds a runner that creates every draft on the server in
// input order. Drafts failing validation are skipped before any network
// call and accounted as failures; a server-side duplicate rejection is a
// soft outcome. confirm enables the pause between chunks.
//
// A completed run's FailedItems (minus soft duplicates) can seed a new
// import run after manual correction.
func (s *BatchService) NewImportRun(drafts []models.Quote, confirm bool) *BatchRunner[models.Quote] {
	perItem := func(ctx context.Context, draft models.Quote) error {
		if err := s.validator.Validate(ctx, draft); err != nil {
			return fmt.Errorf("validate draft: %w", err)
		}
		if _, err := s.adapter.CreateQuote(ctx, draft); err != nil {
			return fmt.Errorf("create quote: %w", err)
		}
		return nil
	}

	return NewBatchRunner(drafts, perItem, BatchOptions{
		BatchSize:             s.cfg.Size,
		InterItemDelay:        s.cfg.ItemDelay,
		ConfirmBetweenBatches: confirm,
	}, s.logger.GetChildLogger())
}

// NewTagGenerationRun builds a runner that asks the AI endpoint for tags for
// each quote and stores the suggestions via update. existingTags scopes the
// suggestions to tags already known to the system. AI-backed calls are paced
// with the harder AI delay. A quote for which the endpoint suggests nothing
// is counted as succeeded and left untouched.
func (s *BatchService) NewTagGenerationRun(quotes []models.Quote, existingTags []string, confirm bool) *BatchRunner[models.Quote] {
	perItem := func(ctx context.Context, quote models.Quote) error {
		tags, err := s.adapter.SuggestTags(ctx, quote.Text, quote.Author, existingTags)
		if err != nil {
			return fmt.Errorf("suggest tags: %w", err)
		}
		if len(tags) == 0 {
			return nil
		}

		quote.Tags = tags
		if _, err = s.adapter.UpdateQuote(ctx, quote); err != nil {
			return fmt.Errorf("store suggested tags: %w", err)
		}
		return nil
	}

	return NewBatchRunner(quotes, perItem, BatchOptions{
		BatchSize:             s.cfg.Size,
		InterItemDelay:        s.cfg.AIItemDelay,
		ConfirmBetweenBatches: confirm,
	}, s.logger.GetChildLogger())
}

// NewCleanupRun builds a runner that deletes the given confirmed selection,
// typically produced by [FindDuplicateQuotes] + [DefaultCleanupSelection]
// with any operator overrides applied.
func (s *BatchService) NewCleanupRun(selected []models.Quote, confirm bool) *BatchRunner[models.Quote] {
	perItem := func(ctx context.Context, quote models.Quote) error {
		if err := s.validator.Validate(ctx, quote, validators.FieldID); err != nil {
			return fmt.Errorf("validate selection: %w", err)
		}
		if err := s.adapter.DeleteQuote(ctx, quote.ID); err != nil {
			return fmt.Errorf("delete quote: %w", err)
		}
		return nil
	}

	return NewBatchRunner(selected, perItem, BatchOptions{
		BatchSize:             s.cfg.Size,
		InterItemDelay:        s.cfg.ItemDelay,
		ConfirmBetweenBatches: confirm,
	}, s.logger.GetChildLogger())
}

// UntaggedQuotes filters the quotes that carry no tags yet — the natural
// input for a tag generation run.
func UntaggedQuotes(quotes []models.Quote) []models.Quote {
	out := make([]models.Quote, 0, len(quotes))
	for _, q := range quotes {
		if len(q.Tags) == 0 {
			out = append(out, q)
		}
	}
	return out
}
