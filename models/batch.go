// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// BatchStatus describes the lifecycle state of one batch job run.
type BatchStatus string

const (
	// BatchRunning means the job loop is processing items.
	BatchRunning BatchStatus = "running"
	// BatchPaused means the job finished a chunk and is suspended waiting
	// for an explicit continue or stop from the operator.
	BatchPaused BatchStatus = "paused_for_confirmation"
	// BatchCompleted means every item has been processed.
	BatchCompleted BatchStatus = "completed"
	// BatchAborted means the operator stopped the job early; the remaining
	// items were never started.
	BatchAborted BatchStatus = "aborted"
)

// BatchFailure records one item that did not succeed, with enough detail for
// manual correction and resubmission.
type BatchFailure[T any] struct {
	// Index is the item's position in the original input order.
	Index int

	// Item is the original work item.
	Item T

	// Reason is the human-readable failure description.
	Reason string

	// SoftDuplicate marks the remote "already exists" outcome. Counted
	// under failures but never retried automatically.
	SoftDuplicate bool
}

// BatchJob is the accounting record of one batch run. While the run is alive
// it is a progress snapshot; once the run terminates it is the final result.
//
// Invariant: Succeeded + Failed <= Processed <= Total.
type BatchJob[T any] struct {
	// ID uniquely identifies the run.
	ID string

	// Status is the current lifecycle state.
	Status BatchStatus

	// Total is the number of items the job was created with.
	Total int

	// Processed is the number of items whose outcome is already known.
	Processed int

	// Succeeded counts items that completed without error.
	Succeeded int

	// Failed counts items that errored, including soft duplicates.
	Failed int

	// Failures holds one entry per failed item, in processing order.
	Failures []BatchFailure[T]
}

// FailedItems returns the original work items of every failure except soft
// duplicates, preserving input order. The slice can seed a retry run.
func (j BatchJob[T]) FailedItems() []T {
	items := make([]T, 0, len(j.Failures))
	for _, f := range j.Failures {
		if f.SoftDuplicate {
			continue
		}
		items = append(items, f.Item)
	}
	return items
}
