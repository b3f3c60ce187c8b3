// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package store implements the local persistence layer of go-ledger-keeper:
// a sqlite-backed offline operations queue.
//
// The queue is bookkeeping for work performed while disconnected. Entries are
// appended per failed save, survive process restarts, and are drained as a
// whole on reconnect: the engine performs one consolidated save of the current
// snapshot and then clears the queue, it never replays entries one by one.
package store

import (
	"context"

	"github.com/MKhiriev/go-ledger-keeper/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/offline_queue_mock.go -package=mock

// OfflineQueue is the durable log of mutations made while the store was
// unreachable.
type OfflineQueue interface {
	// Enqueue appends op to the log.
	Enqueue(ctx context.Context, op models.OfflineOperation) error

	// List returns all queued operations in enqueue order.
	List(ctx context.Context) ([]models.OfflineOperation, error)

	// Count returns the number of queued operations.
	Count(ctx context.Context) (int, error)

	// Clear removes every queued operation. Called after a successful
	// consolidated save on reconnect.
	Clear(ctx context.Context) error
}
