// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package broadcast

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/MKhiriev/go-ledger-keeper/internal/config"
	"github.com/MKhiriev/go-ledger-keeper/internal/logger"
	"github.com/MKhiriev/go-ledger-keeper/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBroadcaster(t *testing.T, dir string) *SpoolBroadcaster {
	t.Helper()
	b, err := NewSpoolBroadcaster(config.Broadcast{SpoolDir: dir}, time.Second, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Stop() })
	return b
}

func TestPublish_WritesEnvelopeFile(t *testing.T) {
	dir := t.TempDir()
	b := newTestBroadcaster(t, dir)

	collections := models.Collections{"products": {{"id": "p1"}}}
	require.NoError(t, b.Publish(context.Background(), collections))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	payload, err := os.ReadFile(filepath.Join(dir, entries[0].Name()))
	require.NoError(t, err)

	var env models.Envelope
	require.NoError(t, json.Unmarshal(payload, &env))
	assert.Equal(t, b.InstanceID(), env.InstanceID)
	assert.False(t, env.SentAt.IsZero())
	require.Len(t, env.Collections["products"], 1)
	assert.Equal(t, "p1", env.Collections["products"][0].ID())
}

func TestHandleSpoolFile_SkipsOwnInstance(t *testing.T) {
	dir := t.TempDir()
	b := newTestBroadcaster(t, dir)

	var called bool
	b.Subscribe(func(models.Envelope) { called = true })

	// Конверт от самого себя не доставляется
	path := writeEnvelope(t, dir, models.Envelope{
		InstanceID: b.InstanceID(),
		SentAt:     time.Now().UTC(),
	})
	b.handleSpoolFile(path)

	assert.False(t, called)
}

func TestHandleSpoolFile_DeliversFreshSiblingEnvelope(t *testing.T) {
	dir := t.TempDir()
	b := newTestBroadcaster(t, dir)

	var got models.Envelope
	b.Subscribe(func(env models.Envelope) { got = env })

	path := writeEnvelope(t, dir, models.Envelope{
		InstanceID:  "sibling",
		SentAt:      time.Now().UTC(),
		Collections: models.Collections{"sales": {{"id": "s1"}}},
	})
	b.handleSpoolFile(path)

	assert.Equal(t, "sibling", got.InstanceID)
	require.Len(t, got.Collections["sales"], 1)
}

func TestHandleSpoolFile_DiscardsStaleEnvelope(t *testing.T) {
	dir := t.TempDir()
	b := newTestBroadcaster(t, dir)

	var called bool
	b.Subscribe(func(models.Envelope) { called = true })

	path := writeEnvelope(t, dir, models.Envelope{
		InstanceID: "sibling",
		SentAt:     time.Now().UTC().Add(-5 * time.Second), // старше окна свежести
	})
	b.handleSpoolFile(path)

	assert.False(t, called)

	// Протухший конверт удаляется из спула
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestPublish_SweepsStaleEnvelopes(t *testing.T) {
	dir := t.TempDir()
	b := newTestBroadcaster(t, dir)

	stale := writeEnvelope(t, dir, models.Envelope{
		InstanceID: "sibling",
		SentAt:     time.Now().UTC().Add(-time.Minute),
	})
	aged := time.Now().Add(-time.Minute)
	require.NoError(t, os.Chtimes(stale, aged, aged))

	require.NoError(t, b.Publish(context.Background(), models.Collections{"products": {}}))

	_, err := os.Stat(stale)
	assert.True(t, os.IsNotExist(err))

	// Свежий конверт остаётся — его ещё могут не прочитать соседи
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestStart_SweepsStaleBacklog(t *testing.T) {
	dir := t.TempDir()
	b := newTestBroadcaster(t, dir)

	stale := writeEnvelope(t, dir, models.Envelope{
		InstanceID: "sibling",
		SentAt:     time.Now().UTC().Add(-time.Minute),
	})
	orphan := filepath.Join(dir, "sibling-orphan.json.tmp")
	require.NoError(t, os.WriteFile(orphan, []byte("{"), 0o600))
	aged := time.Now().Add(-time.Minute)
	require.NoError(t, os.Chtimes(stale, aged, aged))
	require.NoError(t, os.Chtimes(orphan, aged, aged))

	fresh := writeEnvelope(t, dir, models.Envelope{
		InstanceID: "sibling",
		SentAt:     time.Now().UTC(),
	})

	require.NoError(t, b.Start())

	for _, path := range []string{stale, orphan} {
		_, err := os.Stat(path)
		assert.True(t, os.IsNotExist(err))
	}
	_, err := os.Stat(fresh)
	assert.NoError(t, err)
}

func TestHandleSpoolFile_IgnoresNonJSON(t *testing.T) {
	dir := t.TempDir()
	b := newTestBroadcaster(t, dir)

	var called bool
	b.Subscribe(func(models.Envelope) { called = true })

	b.handleSpoolFile(filepath.Join(dir, "whatever.tmp"))

	assert.False(t, called)
}

func TestSubscribe_Unsubscribe(t *testing.T) {
	dir := t.TempDir()
	b := newTestBroadcaster(t, dir)

	var calls int
	unsubscribe := b.Subscribe(func(models.Envelope) { calls++ })

	env := models.Envelope{InstanceID: "sibling", SentAt: time.Now().UTC()}
	b.handleSpoolFile(writeEnvelope(t, dir, env))
	unsubscribe()
	env.SentAt = time.Now().UTC()
	b.handleSpoolFile(writeEnvelope(t, dir, env))

	assert.Equal(t, 1, calls)
}

func TestStartStop_WatcherDeliversSiblingPublish(t *testing.T) {
	dir := t.TempDir()

	sender := newTestBroadcaster(t, dir)
	receiver := newTestBroadcaster(t, dir)
	require.NoError(t, receiver.Start())

	var (
		mu  sync.Mutex
		got []models.Envelope
	)
	receiver.Subscribe(func(env models.Envelope) {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, env)
	})

	require.NoError(t, sender.Publish(context.Background(), models.Collections{"ledger": {}}))

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) == 1
	}, 3*time.Second, 10*time.Millisecond)

	mu.Lock()
	assert.Equal(t, sender.InstanceID(), got[0].InstanceID)
	mu.Unlock()

	require.NoError(t, receiver.Stop())
}

func TestStart_Twice(t *testing.T) {
	dir := t.TempDir()
	b := newTestBroadcaster(t, dir)

	require.NoError(t, b.Start())
	assert.Error(t, b.Start())
}

func writeEnvelope(t *testing.T, dir string, env models.Envelope) string {
	t.Helper()
	payload, err := json.Marshal(env)
	require.NoError(t, err)

	path := filepath.Join(dir, env.InstanceID+"-"+time.Now().Format("150405.000000000")+".json")
	require.NoError(t, os.WriteFile(path, payload, 0o600))
	return path
}
