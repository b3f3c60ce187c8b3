// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package broadcast

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/MKhiriev/go-ledger-keeper/internal/config"
	"github.com/MKhiriev/go-ledger-keeper/internal/logger"
	"github.com/MKhiriev/go-ledger-keeper/models"
	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
)

// SpoolBroadcaster is the fsnotify-backed implementation of [Broadcaster].
// Each publish writes one envelope file into the shared spool directory;
// sibling instances pick it up through directory watch events.
type SpoolBroadcaster struct {
	instanceID string
	dir        string
	freshness  time.Duration

	watcher *fsnotify.Watcher
	done    chan struct{}
	wg      sync.WaitGroup

	mu      sync.Mutex
	running bool
	nextSub int
	subs    map[int]func(models.Envelope)

	logger *logger.Logger

	now func() time.Time // test hook
}

// NewSpoolBroadcaster constructs a [SpoolBroadcaster] over the configured
// spool directory, creating the directory if needed. Each broadcaster gets a
// fresh random instance id.
func NewSpoolBroadcaster(cfg config.Broadcast, freshness time.Duration, log *logger.Logger) (*SpoolBroadcaster, error) {
	if cfg.SpoolDir == "" {
		return nil, fmt.Errorf("empty broadcast spool directory")
	}
	if err := os.MkdirAll(cfg.SpoolDir, 0o755); err != nil {
		return nil, fmt.Errorf("create broadcast spool directory: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	return &SpoolBroadcaster{
		instanceID: uuid.NewString(),
		dir:        cfg.SpoolDir,
		freshness:  freshness,
		watcher:    watcher,
		done:       make(chan struct{}),
		subs:       make(map[int]func(models.Envelope)),
		logger:     log,
		now:        time.Now,
	}, nil
}

// InstanceID returns the id stamped into every envelope this broadcaster
// publishes.
func (b *SpoolBroadcaster) InstanceID() string {
	return b.instanceID
}

// Start implements [Broadcaster]. It adds the spool directory to the watcher
// and launches the event loop.
func (b *SpoolBroadcaster) Start() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.running {
		return fmt.Errorf("broadcaster already running")
	}

	if err := b.watcher.Add(b.dir); err != nil {
		return fmt.Errorf("failed to watch spool directory %s: %w", b.dir, err)
	}

	// Бэклог предыдущих запусков всё равно был бы отброшен как протухший
	b.sweepStale()

	b.running = true
	b.wg.Add(1)
	go b.processEvents()

	return nil
}

// Stop implements [Broadcaster]. It closes the underlying watcher and blocks
// until the event loop has exited. Safe to call on a never-started
// broadcaster.
func (b *SpoolBroadcaster) Stop() error {
	b.mu.Lock()
	if !b.running {
		b.mu.Unlock()
		return b.watcher.Close()
	}
	b.running = false
	b.mu.Unlock()

	close(b.done)

	if err := b.watcher.Close(); err != nil {
		return fmt.Errorf("failed to close watcher: %w", err)
	}

	b.wg.Wait()
	return nil
}

// Publish implements [Broadcaster]. The envelope is written to a temp file
// and renamed into place so siblings never observe a partial write.
func (b *SpoolBroadcaster) Publish(ctx context.Context, collections models.Collections) error {
	env := models.Envelope{
		InstanceID:  b.instanceID,
		SentAt:      b.now().UTC(),
		Collections: collections,
	}

	payload, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("encode broadcast envelope: %w", err)
	}

	name := fmt.Sprintf("%s-%s.json", b.instanceID, uuid.NewString())
	tmp := filepath.Join(b.dir, name+".tmp")
	if err = os.WriteFile(tmp, payload, 0o600); err != nil {
		return fmt.Errorf("write broadcast envelope: %w", err)
	}
	if err = os.Rename(tmp, filepath.Join(b.dir, name)); err != nil {
		return fmt.Errorf("publish broadcast envelope: %w", err)
	}

	// Publish fires on every local mutation, so the spool is swept here to
	// keep the directory bounded.
	b.sweepStale()

	logger.FromContext(ctx).Debug().
		Str("instance_id", b.instanceID).
		Int("collections", len(collections)).
		Msg("broadcast envelope published")

	return nil
}

// Subscribe implements [Broadcaster].
func (b *SpoolBroadcaster) Subscribe(fn func(models.Envelope)) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextSub
	b.nextSub++
	b.subs[id] = fn

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subs, id)
	}
}

func (b *SpoolBroadcaster) processEvents() {
	defer b.wg.Done()

	for {
		select {
		case <-b.done:
			return

		case event, ok := <-b.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			b.handleSpoolFile(event.Name)

		case err, ok := <-b.watcher.Errors:
			if !ok {
				return
			}
			b.logger.Err(err).Msg("broadcast watcher error")
		}
	}
}

// handleSpoolFile reads one envelope file and delivers it to subscribers if
// it came from a sibling and is still fresh.
func (b *SpoolBroadcaster) handleSpoolFile(path string) {
	if !strings.HasSuffix(path, ".json") {
		return
	}

	// Envelopes are renamed into place, so a read after Create sees the
	// whole file.
	payload, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			b.logger.Err(err).Str("path", path).Msg("failed to read broadcast envelope")
		}
		return
	}

	var env models.Envelope
	if err = json.Unmarshal(payload, &env); err != nil {
		b.logger.Err(err).Str("path", path).Msg("failed to decode broadcast envelope")
		return
	}

	if env.InstanceID == b.instanceID {
		return
	}
	if age := b.now().Sub(env.SentAt); age > b.freshness {
		b.logger.Debug().
			Str("sender", env.InstanceID).
			Dur("age", age).
			Msg("stale broadcast envelope discarded")
		// Протухший конверт отбросит любой получатель — удаление безопасно
		b.removeEnvelope(path)
		return
	}

	for _, fn := range b.snapshotSubs() {
		fn(env)
	}
}

// sweepStale removes spool entries older than the freshness window, plus any
// orphaned temp files from crashed writers. Fresh envelopes are left in place
// for siblings that have not read them yet; a stale one would be discarded by
// every receiver, so removal cannot race a sibling into missing an update.
func (b *SpoolBroadcaster) sweepStale() {
	entries, err := os.ReadDir(b.dir)
	if err != nil {
		b.logger.Err(err).Msg("failed to sweep broadcast spool")
		return
	}

	cutoff := b.now().Add(-b.freshness)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, ".json") && !strings.HasSuffix(name, ".tmp") {
			continue
		}
		info, infoErr := entry.Info()
		if infoErr != nil || !info.ModTime().Before(cutoff) {
			continue
		}
		b.removeEnvelope(filepath.Join(b.dir, name))
	}
}

func (b *SpoolBroadcaster) removeEnvelope(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		b.logger.Err(err).Str("path", path).Msg("failed to remove broadcast envelope")
	}
}

func (b *SpoolBroadcaster) snapshotSubs() []func(models.Envelope) {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]func(models.Envelope), 0, len(b.subs))
	for _, fn := range b.subs {
		out = append(out, fn)
	}
	return out
}
