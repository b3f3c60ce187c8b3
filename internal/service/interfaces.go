// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package service contains the synchronization core of go-ledger-keeper.
//
// The central type is [SyncEngine]: it owns the canonical in-memory snapshot
// of all record collections, applies optimistic mutations, debounces and
// batches remote writes, serializes them through a single worker, and drives
// conflict merging and offline replay. Everything else in the package
// supports it: [ConflictMerger] reconciles the snapshot after a version
// conflict, and the aggregate [Services] wires the engine to its
// collaborators.
package service

import (
	"context"

	"github.com/MKhiriev/go-ledger-keeper/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/service_mock.go -package=mock

// SyncEngine keeps the in-memory snapshot consistent with the remote
// document. All mutations are optimistic: the snapshot and subscribers are
// updated first, the remote write follows (debounced, immediate, or batched).
type SyncEngine interface {
	// Bootstrap performs the initial fetch and installs the remote document
	// as the snapshot. An absent remote document is not an error: the
	// snapshot stays empty and the first save will create the document.
	Bootstrap(ctx context.Context) error

	// Get returns the current records of the named collection. Never
	// triggers I/O.
	Get(collection string) []models.Record

	// Update replaces the collection in the snapshot, notifies data
	// subscribers (unless a batch is open), and schedules persistence:
	// immediately when immediate is true, after the debounce delay
	// otherwise. While offline the mutation is recorded in the offline
	// queue instead and the call succeeds.
	//
	// If an immediate write fails with a non-conflict error, the previous
	// value of this collection only is restored and the error is returned.
	Update(ctx context.Context, collection string, records []models.Record, immediate bool) error

	// StartBatch suspends notification and persistence until EndBatch.
	// Opening a batch while one is already open is a logged no-op.
	StartBatch()

	// EndBatch closes the batch, performs exactly one notification, and, if
	// any collections were dirtied, exactly one write attempt covering the
	// whole snapshot.
	EndBatch(ctx context.Context) error

	// ForceSync cancels any pending debounce timer, writes the current
	// snapshot immediately, and clears the offline queue on success.
	ForceSync(ctx context.Context) error

	// ClearAll resets every collection to empty and persists the empty
	// document.
	ClearAll(ctx context.Context) error

	// SubscribeToData registers fn for snapshot changes. fn is invoked
	// immediately with the current snapshot, then on every coalesced
	// change. The returned function removes the subscription.
	SubscribeToData(fn func(models.Collections)) (unsubscribe func())

	// SubscribeToConnection is the connectivity/sync-state counterpart of
	// SubscribeToData.
	SubscribeToConnection(fn func(models.ConnectionState)) (unsubscribe func())

	// OfflineQueueSize reports the number of operations waiting for replay.
	OfflineQueueSize(ctx context.Context) (int, error)

	// SyncState returns the engine's current observable bookkeeping.
	SyncState() models.SyncState

	// Run starts the save worker draining the write queue. It returns
	// quickly; the worker exits when ctx is cancelled.
	Run(ctx context.Context)

	// Stop cancels pending timers and detaches from the broadcaster.
	Stop()
}

// ConflictMerger reconciles the local snapshot with a freshly fetched remote
// one after a version conflict.
type ConflictMerger interface {
	// Merge combines local and remote collection-wise. Collections named in
	// dirty carry a local mutation: they are unioned by record id with the
	// local record winning on the same id. All other collections are taken
	// from remote, so concurrent remote edits to untouched collections
	// survive the merge.
	Merge(local, remote models.Collections, dirty []string) models.Collections
}
