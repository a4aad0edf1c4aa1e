// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/MKhiriev/quote-admin/internal/adapter"
	"github.com/MKhiriev/quote-admin/internal/logger"
	"github.com/MKhiriev/quote-admin/models"
	"github.com/stretchr/testify/require"
)

// progressChan subscribes a runner's progress snapshots to a channel.
func progressChan[T any](r *BatchRunner[T]) chan models.BatchJob[T] {
	ch := make(chan models.BatchJob[T], 128)
	r.SetOnProgress(func(job models.BatchJob[T]) { ch <- job })
	return ch
}

func waitProgress[T any](t *testing.T, ch chan models.BatchJob[T], pred func(models.BatchJob[T]) bool) models.BatchJob[T] {
	t.Helper()

	deadline := time.After(3 * time.Second)
	for {
		select {
		case job := <-ch:
			if pred(job) {
				return job
			}
		case <-deadline:
			t.Fatal("timed out waiting for batch progress")
		}
	}
}

// ── accounting ───────────────────────────────────────────────────────────────

func TestBatchRunner_ProcessesEveryItemInOrder(t *testing.T) {
	items := []string{"a", "b", "dup", "c", "bad", "d", "e"}

	var mu sync.Mutex
	var order []string
	perItem := func(_ context.Context, item string) error {
		mu.Lock()
		order = append(order, item)
		mu.Unlock()

		switch item {
		case "dup":
			return fmt.Errorf("create quote: %w", adapter.ErrConflict)
		case "bad":
			return errors.New("boom")
		default:
			return nil
		}
	}

	runner := NewBatchRunner(items, perItem, BatchOptions{}, logger.Nop())
	require.NoError(t, runner.Start(context.Background()))
	final := runner.Wait()

	require.Equal(t, models.BatchCompleted, final.Status)
	require.Equal(t, 7, final.Total)
	require.Equal(t, 7, final.Processed)
	require.Equal(t, 5, final.Succeeded)
	require.Equal(t, 2, final.Failed)
	require.Equal(t, final.Total, final.Succeeded+final.Failed)
	require.Equal(t, items, order, "items must be processed strictly in input order")

	require.Len(t, final.Failures, 2)
	require.Equal(t, 2, final.Failures[0].Index)
	require.True(t, final.Failures[0].SoftDuplicate, "a server conflict is a soft duplicate")
	require.Equal(t, 4, final.Failures[1].Index)
	require.False(t, final.Failures[1].SoftDuplicate)

	require.Equal(t, []string{"bad"}, final.FailedItems(), "soft duplicates are excluded from the retry seed")
}

func TestBatchRunner_ErrorNeverStopsTheRun(t *testing.T) {
	perItem := func(context.Context, int) error { return errors.New("always") }

	runner := NewBatchRunner([]int{1, 2, 3}, perItem, BatchOptions{}, logger.Nop())
	require.NoError(t, runner.Start(context.Background()))
	final := runner.Wait()

	require.Equal(t, models.BatchCompleted, final.Status)
	require.Equal(t, 3, final.Processed)
	require.Equal(t, 3, final.Failed)
	require.Zero(t, final.Succeeded)
}

func TestBatchRunner_StartTwice(t *testing.T) {
	runner := NewBatchRunner([]int{1}, func(context.Context, int) error { return nil }, BatchOptions{}, logger.Nop())

	require.NoError(t, runner.Start(context.Background()))
	require.ErrorIs(t, runner.Start(context.Background()), ErrAlreadyStarted)
	runner.Wait()
}

// ── confirmation pauses ──────────────────────────────────────────────────────

func TestBatchRunner_TwelveItemsPauseAfterFiveAndTen(t *testing.T) {
	items := make([]int, 12)
	for i := range items {
		items[i] = i
	}

	runner := NewBatchRunner(items, func(context.Context, int) error { return nil }, BatchOptions{
		BatchSize:             5,
		ConfirmBetweenBatches: true,
	}, logger.Nop())
	progress := progressChan(runner)

	require.NoError(t, runner.Start(context.Background()))

	first := waitProgress(t, progress, func(j models.BatchJob[int]) bool { return j.Status == models.BatchPaused })
	require.Equal(t, 5, first.Processed)
	require.Equal(t, 5, first.Succeeded)

	runner.Resume()
	second := waitProgress(t, progress, func(j models.BatchJob[int]) bool { return j.Status == models.BatchPaused })
	require.Equal(t, 10, second.Processed, "counters accumulate across chunks")

	runner.Resume()
	final := runner.Wait()
	require.Equal(t, models.BatchCompleted, final.Status)
	require.Equal(t, 12, final.Processed)
	require.Equal(t, 12, final.Succeeded)
}

func TestBatchRunner_NoPauseWithoutConfirmation(t *testing.T) {
	items := make([]int, 12)
	paused := false

	runner := NewBatchRunner(items, func(context.Context, int) error { return nil }, BatchOptions{BatchSize: 5}, logger.Nop())
	runner.SetOnProgress(func(j models.BatchJob[int]) {
		if j.Status == models.BatchPaused {
			paused = true
		}
	})

	require.NoError(t, runner.Start(context.Background()))
	final := runner.Wait()

	require.Equal(t, models.BatchCompleted, final.Status)
	require.False(t, paused)
}

func TestBatchRunner_AbortWhilePaused(t *testing.T) {
	items := make([]int, 12)
	var calls int
	var mu sync.Mutex
	perItem := func(context.Context, int) error {
		mu.Lock()
		calls++
		mu.Unlock()
		return nil
	}

	runner := NewBatchRunner(items, perItem, BatchOptions{
		BatchSize:             5,
		ConfirmBetweenBatches: true,
	}, logger.Nop())
	progress := progressChan(runner)

	require.NoError(t, runner.Start(context.Background()))
	waitProgress(t, progress, func(j models.BatchJob[int]) bool { return j.Status == models.BatchPaused })

	runner.Abort()
	final := runner.Wait()

	require.Equal(t, models.BatchAborted, final.Status)
	require.Equal(t, 5, final.Processed)

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, 5, calls, "items after the abort point must never start")
}

func TestBatchRunner_AbortMidRun(t *testing.T) {
	entered := make(chan struct{})
	gate := make(chan struct{})
	perItem := func(_ context.Context, item int) error {
		if item == 2 {
			entered <- struct{}{}
			<-gate
		}
		return nil
	}

	runner := NewBatchRunner([]int{0, 1, 2, 3, 4}, perItem, BatchOptions{}, logger.Nop())

	require.NoError(t, runner.Start(context.Background()))
	<-entered

	runner.Abort()
	close(gate)
	final := runner.Wait()

	require.Equal(t, models.BatchAborted, final.Status)
	require.Equal(t, 3, final.Processed, "the in-flight item finishes, later items never start")
}

func TestBatchRunner_ResumeIgnoredWhileRunning(t *testing.T) {
	gate := make(chan struct{})
	runner := NewBatchRunner([]int{0}, func(context.Context, int) error { <-gate; return nil }, BatchOptions{}, logger.Nop())

	require.NoError(t, runner.Start(context.Background()))
	runner.Resume() // not paused: must be a no-op
	require.Equal(t, models.BatchRunning, runner.Progress().Status)

	close(gate)
	require.Equal(t, models.BatchCompleted, runner.Wait().Status)
}

// ── pacing ───────────────────────────────────────────────────────────────────

func TestBatchRunner_InterItemDelayPacesCalls(t *testing.T) {
	const delay = 50 * time.Millisecond

	runner := NewBatchRunner([]int{0, 1, 2}, func(context.Context, int) error { return nil }, BatchOptions{
		InterItemDelay: delay,
	}, logger.Nop())

	start := time.Now()
	require.NoError(t, runner.Start(context.Background()))
	final := runner.Wait()

	require.Equal(t, models.BatchCompleted, final.Status)
	require.GreaterOrEqual(t, time.Since(start), 2*delay, "three paced calls need at least two inter-item gaps")
}
