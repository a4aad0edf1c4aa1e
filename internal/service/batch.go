// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/MKhiriev/quote-admin/internal/adapter"
	"github.com/MKhiriev/quote-admin/internal/logger"
	"github.com/MKhiriev/quote-admin/models"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// ErrAlreadyStarted is returned by [BatchRunner.Start] on a second call.
var ErrAlreadyStarted = errors.New("batch runner already started")

// PerItemFunc performs the operation for one work item. A nil return counts
// the item as succeeded; [adapter.ErrConflict] (wrapped) is accounted as a
// soft duplicate; any other error as a plain failure. An error never stops
// the run.
type PerItemFunc[T any] func(ctx context.Context, item T) error

// BatchOptions tunes one batch run.
type BatchOptions struct {
	// BatchSize is the number of items processed between confirmation
	// pauses. Non-positive values fall back to 5.
	BatchSize int

	// InterItemDelay is the minimum spacing between consecutive calls,
	// matching the backend's per-caller rate limit. Zero disables pacing.
	InterItemDelay time.Duration

	// ConfirmBetweenBatches suspends the run in a paused state after each
	// completed chunk (except the last), resuming only on an explicit
	// Resume. Abort leaves the remaining items unstarted.
	ConfirmBetweenBatches bool
}

// BatchRunner drives an ordered list of work items through a sequential,
// rate-paced, partially-failable operation. Items are processed strictly in
// input order, one at a time — the backend rate-limits per caller, so
// concurrency would only raise the failure rate.
//
// The runner is a resumable job object, not a blocking call: Start launches
// the loop, Progress observes it, Resume and Abort steer it, Wait collects
// the final accounting.
type BatchRunner[T any] struct {
	items   []T
	perItem PerItemFunc[T]
	opts    BatchOptions
	limiter *rate.Limiter
	logger  *logger.Logger

	mu         sync.Mutex
	job        models.BatchJob[T]
	started    bool
	resume     chan struct{}
	done       chan struct{}
	cancel     context.CancelFunc
	onProgress func(models.BatchJob[T])
}

// NewBatchRunner builds an idle runner over items. The run does not begin
// until Start is called.
func NewBatchRunner[T any](items []T, perItem PerItemFunc[T], opts BatchOptions, log *logger.Logger) *BatchRunner[T] {
	if opts.BatchSize <= 0 {
		opts.BatchSize = 5
	}

	var limiter *rate.Limiter
	if opts.InterItemDelay > 0 {
		limiter = rate.NewLimiter(rate.Every(opts.InterItemDelay), 1)
	}

	return &BatchRunner[T]{
		items:   items,
		perItem: perItem,
		opts:    opts,
		limiter: limiter,
		logger:  log,
		job: models.BatchJob[T]{
			ID:     uuid.NewString(),
			Status: models.BatchRunning,
			Total:  len(items),
		},
		resume: make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
}

// SetOnProgress registers the observer invoked with an accounting snapshot
// after every item outcome and at every pause. Must be called before Start.
func (r *BatchRunner[T]) SetOnProgress(fn func(models.BatchJob[T])) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onProgress = fn
}

// Start launches the run loop in the background. The loop terminates only
// when every item has been processed, Abort is called, or ctx is cancelled.
// Returns [ErrAlreadyStarted] on a second call.
func (r *BatchRunner[T]) Start(ctx context.Context) error {
	r.mu.Lock()
	if r.started {
		r.mu.Unlock()
		return ErrAlreadyStarted
	}
	r.started = true
	runCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.mu.Unlock()

	go r.loop(runCtx)
	return nil
}

// Resume continues a run suspended in the paused state. No-op otherwise.
func (r *BatchRunner[T]) Resume() {
	r.mu.Lock()
	if r.job.Status != models.BatchPaused {
		r.mu.Unlock()
		return
	}
	r.job.Status = models.BatchRunning
	r.mu.Unlock()

	select {
	case r.resume <- struct{}{}:
	default:
	}
}

// Abort stops the run. Items not yet started are never processed; nothing is
// cancelled mid-flight because nothing is mid-flight between items.
func (r *BatchRunner[T]) Abort() {
	r.mu.Lock()
	cancel := r.cancel
	r.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

// Progress returns a snapshot of the current accounting.
func (r *BatchRunner[T]) Progress() models.BatchJob[T] {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotLocked()
}

// Wait blocks until the run terminates and returns the final accounting.
func (r *BatchRunner[T]) Wait() models.BatchJob[T] {
	<-r.done
	return r.Progress()
}

// Done exposes the termination signal for select-based callers.
func (r *BatchRunner[T]) Done() <-chan struct{} {
	return r.done
}

func (r *BatchRunner[T]) loop(ctx context.Context) {
	defer close(r.done)

	for i, item := range r.items {
		if i > 0 && i%r.opts.BatchSize == 0 && r.opts.ConfirmBetweenBatches {
			if !r.pause(ctx) {
				r.finish(models.BatchAborted)
				return
			}
		}

		if r.limiter != nil {
			if err := r.limiter.Wait(ctx); err != nil {
				r.finish(models.BatchAborted)
				return
			}
		}
		if ctx.Err() != nil {
			r.finish(models.BatchAborted)
			return
		}

		r.account(i, item, r.perItem(ctx, item))

		if ctx.Err() != nil {
			r.finish(models.BatchAborted)
			return
		}
	}

	r.finish(models.BatchCompleted)
}

// pause suspends the loop between chunks until Resume or cancellation.
// Returns false when the run must abort instead of continuing.
func (r *BatchRunner[T]) pause(ctx context.Context) bool {
	r.mu.Lock()
	r.job.Status = models.BatchPaused
	snap := r.snapshotLocked()
	cb := r.onProgress
	r.mu.Unlock()

	r.logger.Info().
		Str("job_id", snap.ID).
		Int("processed", snap.Processed).
		Int("succeeded", snap.Succeeded).
		Int("failed", snap.Failed).
		Msg("batch paused for confirmation")
	if cb != nil {
		cb(snap)
	}

	select {
	case <-r.resume:
		return true
	case <-ctx.Done():
		return false
	}
}

// account records one item outcome. A conflict from the server's duplicate
// check is an expected soft outcome: counted under failures, flagged, never
// retried automatically.
func (r *BatchRunner[T]) account(index int, item T, err error) {
	r.mu.Lock()
	r.job.Processed++
	switch {
	case err == nil:
		r.job.Succeeded++
	case errors.Is(err, adapter.ErrConflict):
		r.job.Failed++
		r.job.Failures = append(r.job.Failures, models.BatchFailure[T]{
			Index:         index,
			Item:          item,
			Reason:        err.Error(),
			SoftDuplicate: true,
		})
	default:
		r.job.Failed++
		r.job.Failures = append(r.job.Failures, models.BatchFailure[T]{
			Index:  index,
			Item:   item,
			Reason: err.Error(),
		})
	}
	snap := r.snapshotLocked()
	cb := r.onProgress
	r.mu.Unlock()

	if err != nil {
		r.logger.Warn().Str("job_id", snap.ID).Int("index", index).Err(err).Msg("batch item failed")
	}
	if cb != nil {
		cb(snap)
	}
}

func (r *BatchRunner[T]) finish(status models.BatchStatus) {
	r.mu.Lock()
	r.job.Status = status
	snap := r.snapshotLocked()
	cb := r.onProgress
	r.mu.Unlock()

	r.logger.Info().
		Str("job_id", snap.ID).
		Str("status", string(snap.Status)).
		Str("result", fmt.Sprintf("%d/%d succeeded, %d failed", snap.Succeeded, snap.Total, snap.Failed)).
		Msg("batch finished")
	if cb != nil {
		cb(snap)
	}
}

func (r *BatchRunner[T]) snapshotLocked() models.BatchJob[T] {
	snap := r.job
	snap.Failures = append([]models.BatchFailure[T](nil), r.job.Failures...)
	return snap
}
