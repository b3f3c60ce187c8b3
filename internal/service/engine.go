// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/MKhiriev/go-ledger-keeper/internal/adapter"
	"github.com/MKhiriev/go-ledger-keeper/internal/broadcast"
	"github.com/MKhiriev/go-ledger-keeper/internal/cache"
	"github.com/MKhiriev/go-ledger-keeper/internal/config"
	"github.com/MKhiriev/go-ledger-keeper/internal/connectivity"
	"github.com/MKhiriev/go-ledger-keeper/internal/logger"
	"github.com/MKhiriev/go-ledger-keeper/internal/store"
	"github.com/MKhiriev/go-ledger-keeper/models"
	"github.com/google/uuid"
)

// saveRequest is one unit of the serialized write queue. collections is the
// dirty set this write settles; done, when non-nil, receives the outcome.
// force requests a write even when nothing is dirty (ForceSync, replay).
type saveRequest struct {
	collections []string
	force       bool
	done        chan error
}

type syncEngine struct {
	remote  adapter.RemoteStore
	cache   *cache.DocumentCache
	queue   store.OfflineQueue
	merger  ConflictMerger
	monitor *connectivity.Monitor
	caster  broadcast.Broadcaster

	cfg config.Engine

	mu        sync.Mutex
	snapshot  models.Collections
	version   models.Version
	dirty     map[string]bool
	prev      map[string][]models.Record
	batchOpen bool
	state     models.SyncState
	queued    int // cached offline queue size
	stopped   bool

	saveCh chan saveRequest

	debounceMu sync.Mutex
	debounce   *time.Timer

	notifyMu      sync.Mutex
	notifyPending bool

	subMu       sync.Mutex
	nextSub     int
	dataSubs    map[int]func(models.Collections)
	connSubs    map[int]func(models.ConnectionState)
	unsubCaster func()

	logger *logger.Logger
}

// NewSyncEngine wires a [SyncEngine] to its collaborators. The snapshot
// starts with every configured collection empty; callers run Bootstrap to
// install the remote state and Run to start the save worker.
//
// The engine registers itself with the connectivity monitor (state changes
// feed connection subscribers, reconnects drain the offline queue) and with
// the broadcaster (sibling envelopes are applied to the snapshot).
func NewSyncEngine(
	remote adapter.RemoteStore,
	docCache *cache.DocumentCache,
	queue store.OfflineQueue,
	merger ConflictMerger,
	monitor *connectivity.Monitor,
	caster broadcast.Broadcaster,
	cfg config.Engine,
	log *logger.Logger,
) SyncEngine {
	e := &syncEngine{
		remote:   remote,
		cache:    docCache,
		queue:    queue,
		merger:   merger,
		monitor:  monitor,
		caster:   caster,
		cfg:      cfg,
		snapshot: models.EmptyCollections(cfg.Collections),
		dirty:    make(map[string]bool),
		prev:     make(map[string][]models.Record),
		saveCh:   make(chan saveRequest, 32),
		dataSubs: make(map[int]func(models.Collections)),
		connSubs: make(map[int]func(models.ConnectionState)),
		logger:   log,
	}

	monitor.OnChange(func(ctx context.Context, _ bool) {
		e.notifyConnection()
	})
	monitor.OnReconnect(func(ctx context.Context) {
		if err := e.drainOfflineQueue(ctx); err != nil {
			log.Err(err).Msg("offline queue drain failed")
		}
	})
	e.unsubCaster = caster.Subscribe(e.applyEnvelope)

	return e
}

// Run implements [SyncEngine]. It launches the single save worker; requests
// entering the queue while a write is in flight wait for their turn, which
// keeps at most one remote write in flight at any instant.
func (e *syncEngine) Run(ctx context.Context) {
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case req := <-e.saveCh:
				err := e.performSave(ctx, req)
				if req.done != nil {
					req.done <- err
				}
			}
		}
	}()
}

// Stop implements [SyncEngine].
func (e *syncEngine) Stop() {
	e.mu.Lock()
	e.stopped = true
	e.mu.Unlock()

	e.cancelDebounce()
	if e.unsubCaster != nil {
		e.unsubCaster()
	}
}

// Bootstrap implements [SyncEngine]. A fresh cache entry (engine restart
// within the TTL) short-circuits the remote fetch.
func (e *syncEngine) Bootstrap(ctx context.Context) error {
	doc, version, hit := e.cache.Get()
	if !hit {
		var err error
		doc, version, err = e.remote.FetchDocument(ctx)
		switch {
		case errors.Is(err, adapter.ErrDocumentAbsent):
			// Valid outcome: the first save will create the document.
			e.logger.Info().Msg("remote document absent, starting with empty snapshot")
			e.notifyData()
			return nil
		case err != nil:
			return errors.Join(ErrBootstrapFetch, err)
		}
		e.cache.Put(doc, version)
	}

	e.mu.Lock()
	e.snapshot = doc.Collections.Clone()
	for _, name := range e.cfg.Collections {
		if _, ok := e.snapshot[name]; !ok {
			e.snapshot[name] = []models.Record{}
		}
	}
	e.version = version
	e.mu.Unlock()

	e.notifyData()

	if count, countErr := e.queue.Count(ctx); countErr == nil {
		e.mu.Lock()
		e.queued = count
		e.mu.Unlock()
		e.notifyConnection()
	}

	e.logger.Info().Str("version", string(version)).Msg("snapshot bootstrapped")
	return nil
}

// Get implements [SyncEngine].
func (e *syncEngine) Get(collection string) []models.Record {
	e.mu.Lock()
	defer e.mu.Unlock()

	records := e.snapshot[collection]
	out := make([]models.Record, len(records))
	copy(out, records)
	return out
}

// Update implements [SyncEngine].
func (e *syncEngine) Update(ctx context.Context, collection string, records []models.Record, immediate bool) error {
	cp := make([]models.Record, len(records))
	copy(cp, records)

	e.mu.Lock()
	if e.stopped {
		e.mu.Unlock()
		return ErrEngineStopped
	}
	if !e.dirty[collection] {
		e.prev[collection] = e.snapshot[collection]
	}
	e.dirty[collection] = true
	e.snapshot[collection] = cp
	batchOpen := e.batchOpen
	e.mu.Unlock()

	if batchOpen {
		return nil
	}

	e.notifyData()
	e.broadcastSnapshot(ctx)

	if !e.monitor.Online() {
		return e.enqueueOffline(ctx, collection, models.OperationUpdate, cp)
	}

	if immediate {
		return e.submitSaveAndWait(ctx)
	}

	e.scheduleDebouncedSave()
	return nil
}

// StartBatch implements [SyncEngine].
func (e *syncEngine) StartBatch() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.batchOpen {
		e.logger.Warn().Msg("batch already open, nested batches are not supported")
		return
	}
	e.batchOpen = true
}

// EndBatch implements [SyncEngine].
func (e *syncEngine) EndBatch(ctx context.Context) error {
	e.mu.Lock()
	if !e.batchOpen {
		e.mu.Unlock()
		return nil
	}
	e.batchOpen = false
	dirtied := e.dirtyList()
	e.mu.Unlock()

	e.notifyData()
	e.broadcastSnapshot(ctx)

	if len(dirtied) == 0 {
		return nil
	}

	if !e.monitor.Online() {
		for _, name := range dirtied {
			if err := e.enqueueOffline(ctx, name, models.OperationUpdate, e.Get(name)); err != nil {
				return err
			}
		}
		return nil
	}

	return e.submitSaveAndWait(ctx)
}

// ForceSync implements [SyncEngine].
func (e *syncEngine) ForceSync(ctx context.Context) error {
	e.cancelDebounce()

	if err := e.submitForcedSave(ctx); err != nil {
		return err
	}

	return e.clearOfflineQueue(ctx)
}

// ClearAll implements [SyncEngine].
func (e *syncEngine) ClearAll(ctx context.Context) error {
	e.mu.Lock()
	if e.stopped {
		e.mu.Unlock()
		return ErrEngineStopped
	}
	for _, name := range e.cfg.Collections {
		if !e.dirty[name] {
			e.prev[name] = e.snapshot[name]
		}
		e.dirty[name] = true
	}
	e.snapshot = models.EmptyCollections(e.cfg.Collections)
	e.mu.Unlock()

	// Без инвалидации рестарт в пределах TTL воскресил бы очищенный документ
	e.cache.Invalidate()

	e.notifyData()
	e.broadcastSnapshot(ctx)

	if !e.monitor.Online() {
		for _, name := range e.cfg.Collections {
			if err := e.enqueueOffline(ctx, name, models.OperationDelete, nil); err != nil {
				return err
			}
		}
		return nil
	}

	return e.submitSaveAndWait(ctx)
}

// SubscribeToData implements [SyncEngine].
func (e *syncEngine) SubscribeToData(fn func(models.Collections)) func() {
	e.subMu.Lock()
	id := e.nextSub
	e.nextSub++
	e.dataSubs[id] = fn
	e.subMu.Unlock()

	fn(e.snapshotClone())

	return func() {
		e.subMu.Lock()
		defer e.subMu.Unlock()
		delete(e.dataSubs, id)
	}
}

// SubscribeToConnection implements [SyncEngine].
func (e *syncEngine) SubscribeToConnection(fn func(models.ConnectionState)) func() {
	e.subMu.Lock()
	id := e.nextSub
	e.nextSub++
	e.connSubs[id] = fn
	e.subMu.Unlock()

	fn(e.connectionState())

	return func() {
		e.subMu.Lock()
		defer e.subMu.Unlock()
		delete(e.connSubs, id)
	}
}

// OfflineQueueSize implements [SyncEngine].
func (e *syncEngine) OfflineQueueSize(ctx context.Context) (int, error) {
	return e.queue.Count(ctx)
}

// SyncState implements [SyncEngine].
func (e *syncEngine) SyncState() models.SyncState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.syncStateLocked()
}

// ── save pipeline ───────────────────────────────────────────────────────────

// performSave executes one write from the queue: snapshot → document →
// conditional save, with the conflict-merge-retry path and per-collection
// rollback on failure.
func (e *syncEngine) performSave(ctx context.Context, req saveRequest) error {
	e.mu.Lock()
	if !req.force && len(e.dirty) == 0 {
		e.mu.Unlock()
		return nil
	}
	snapshot := e.snapshot.Clone()
	base := e.version
	e.state.IsSaveInFlight = true
	e.mu.Unlock()
	e.notifyConnection()

	doc := models.NewDocument(snapshot)
	newVersion, err := e.remote.SaveDocument(ctx, &doc, base)
	if errors.Is(err, adapter.ErrVersionConflict) {
		doc, newVersion, err = e.resolveConflict(ctx)
	}

	e.mu.Lock()
	e.state.IsSaveInFlight = false

	if err != nil {
		e.state.LastError = err.Error()
		rolledBack := false
		if !errors.Is(err, adapter.ErrVersionConflict) {
			for _, name := range req.collections {
				if prevRecords, ok := e.prev[name]; ok {
					e.snapshot[name] = prevRecords
					delete(e.prev, name)
					delete(e.dirty, name)
					rolledBack = true
				}
			}
		}
		e.mu.Unlock()

		if rolledBack {
			e.notifyData()
		}
		e.notifyConnection()
		e.logger.Err(err).Strs("collections", req.collections).Msg("save failed")
		return err
	}

	e.version = newVersion
	for _, name := range req.collections {
		delete(e.dirty, name)
		delete(e.prev, name)
	}
	e.state.LastError = ""
	e.state.LastSuccessfulSaveAt = time.Now().UTC()
	e.mu.Unlock()

	e.cache.Put(&doc, newVersion)
	e.notifyConnection()
	e.logger.Debug().Str("version", string(newVersion)).Msg("snapshot persisted")
	return nil
}

// resolveConflict runs the merge-and-retry path: fetch fresh (never from the
// read cache), merge with local wins per id, install the merged snapshot, and
// retry the save exactly once with the fresh version token. A second failure
// is surfaced; there is no second retry.
func (e *syncEngine) resolveConflict(ctx context.Context) (models.Document, models.Version, error) {
	e.logger.Info().Msg("version conflict, merging with remote")

	remoteDoc, freshVersion, err := e.remote.FetchDocument(ctx)
	remoteCollections := models.Collections{}
	switch {
	case errors.Is(err, adapter.ErrDocumentAbsent):
		freshVersion = models.Version("")
	case err != nil:
		return models.Document{}, models.Version(""), err
	default:
		remoteCollections = remoteDoc.Collections
	}

	e.mu.Lock()
	merged := e.merger.Merge(e.snapshot, remoteCollections, e.dirtyList())
	e.snapshot = merged
	clone := merged.Clone()
	e.mu.Unlock()

	e.notifyData()

	doc := models.NewDocument(clone)
	newVersion, err := e.remote.SaveDocument(ctx, &doc, freshVersion)
	return doc, newVersion, err
}

func (e *syncEngine) submitSaveAndWait(ctx context.Context) error {
	return e.submit(ctx, false)
}

func (e *syncEngine) submitForcedSave(ctx context.Context) error {
	return e.submit(ctx, true)
}

func (e *syncEngine) submit(ctx context.Context, force bool) error {
	e.mu.Lock()
	if e.stopped {
		e.mu.Unlock()
		return ErrEngineStopped
	}
	req := saveRequest{collections: e.dirtyList(), force: force, done: make(chan error, 1)}
	e.mu.Unlock()

	select {
	case e.saveCh <- req:
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-req.done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (e *syncEngine) scheduleDebouncedSave() {
	e.debounceMu.Lock()
	defer e.debounceMu.Unlock()

	if e.debounce != nil {
		e.debounce.Stop()
	}
	e.debounce = time.AfterFunc(e.cfg.DebounceDelay, func() {
		e.mu.Lock()
		if e.stopped {
			e.mu.Unlock()
			return
		}
		req := saveRequest{collections: e.dirtyList()}
		e.mu.Unlock()

		e.saveCh <- req
	})
}

func (e *syncEngine) cancelDebounce() {
	e.debounceMu.Lock()
	defer e.debounceMu.Unlock()

	if e.debounce != nil {
		e.debounce.Stop()
		e.debounce = nil
	}
}

// ── offline queue ───────────────────────────────────────────────────────────

func (e *syncEngine) enqueueOffline(ctx context.Context, collection string, kind models.OperationKind, payload []models.Record) error {
	op := models.OfflineOperation{
		ID:         uuid.NewString(),
		Collection: collection,
		Kind:       kind,
		Payload:    payload,
		QueuedAt:   time.Now().UTC(),
	}

	if err := e.queue.Enqueue(ctx, op); err != nil {
		return err
	}

	count, err := e.queue.Count(ctx)
	if err == nil {
		e.mu.Lock()
		e.queued = count
		e.mu.Unlock()
	}
	e.notifyConnection()

	e.logger.Debug().Str("collection", collection).Int("queued", count).Msg("operation queued offline")
	return nil
}

// drainOfflineQueue performs the consolidated replay on reconnect: one write
// of the current (already mutated) snapshot, then a queue clear. Operations
// are never replayed one by one.
func (e *syncEngine) drainOfflineQueue(ctx context.Context) error {
	ops, err := e.queue.List(ctx)
	if err != nil {
		return err
	}
	if len(ops) == 0 {
		return nil
	}

	collections := make([]string, 0, len(ops))
	for _, op := range ops {
		collections = append(collections, op.Collection)
	}
	e.logger.Info().Int("queued", len(ops)).Strs("collections", collections).Msg("draining offline queue")

	if err = e.submitForcedSave(ctx); err != nil {
		return err
	}

	return e.clearOfflineQueue(ctx)
}

// clearOfflineQueue consults the store, not the in-memory counter: rows
// enqueued by a previous process run must be cleared too, even though this
// run never observed an Enqueue.
func (e *syncEngine) clearOfflineQueue(ctx context.Context) error {
	count, err := e.queue.Count(ctx)
	if err != nil {
		return err
	}
	if count == 0 {
		return nil
	}

	if err = e.queue.Clear(ctx); err != nil {
		return err
	}

	e.mu.Lock()
	e.queued = 0
	e.mu.Unlock()
	e.notifyConnection()
	return nil
}

// ── notifications & broadcast ───────────────────────────────────────────────

// notifyData schedules one coalesced data notification: bursts of mutations
// within the notify delay produce a single subscriber call carrying the
// snapshot as of firing time.
func (e *syncEngine) notifyData() {
	e.notifyMu.Lock()
	if e.notifyPending {
		e.notifyMu.Unlock()
		return
	}
	e.notifyPending = true
	e.notifyMu.Unlock()

	time.AfterFunc(e.cfg.NotifyDelay, func() {
		e.notifyMu.Lock()
		e.notifyPending = false
		e.notifyMu.Unlock()

		snapshot := e.snapshotClone()
		for _, fn := range e.dataSubscribers() {
			fn(snapshot)
		}
	})
}

func (e *syncEngine) notifyConnection() {
	state := e.connectionState()
	for _, fn := range e.connSubscribers() {
		fn(state)
	}
}

// broadcastSnapshot fires after every local mutation notification, not gated
// on remote save success: sibling instances stay visually in sync
// immediately, the remote document remains the eventual-consistency
// backstop.
func (e *syncEngine) broadcastSnapshot(ctx context.Context) {
	if err := e.caster.Publish(ctx, e.snapshotClone()); err != nil {
		e.logger.Err(err).Msg("broadcast publish failed")
	}
}

// applyEnvelope installs a sibling's collections without marking them dirty:
// the sibling owns the persistence of its own mutation.
func (e *syncEngine) applyEnvelope(env models.Envelope) {
	e.mu.Lock()
	for name, records := range env.Collections {
		cp := make([]models.Record, len(records))
		copy(cp, records)
		e.snapshot[name] = cp
	}
	e.mu.Unlock()

	e.notifyData()
}

// ── helpers ─────────────────────────────────────────────────────────────────

func (e *syncEngine) snapshotClone() models.Collections {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshot.Clone()
}

func (e *syncEngine) connectionState() models.ConnectionState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return models.ConnectionState{
		Online: e.monitor.Online(),
		Sync:   e.syncStateLocked(),
	}
}

func (e *syncEngine) syncStateLocked() models.SyncState {
	state := e.state
	state.PendingChangeCount = len(e.dirty) + e.queued
	return state
}

// dirtyList must be called with e.mu held.
func (e *syncEngine) dirtyList() []string {
	out := make([]string, 0, len(e.dirty))
	for name := range e.dirty {
		out = append(out, name)
	}
	return out
}

func (e *syncEngine) dataSubscribers() []func(models.Collections) {
	e.subMu.Lock()
	defer e.subMu.Unlock()
	out := make([]func(models.Collections), 0, len(e.dataSubs))
	for _, fn := range e.dataSubs {
		out = append(out, fn)
	}
	return out
}

func (e *syncEngine) connSubscribers() []func(models.ConnectionState) {
	e.subMu.Lock()
	defer e.subMu.Unlock()
	out := make([]func(models.ConnectionState), 0, len(e.connSubs))
	for _, fn := range e.connSubs {
		out = append(out, fn)
	}
	return out
}
