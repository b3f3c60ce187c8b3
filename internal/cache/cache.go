// Package cache holds the short-lived read cache for the remote document.
//
// The sync engine serves reads from the last known snapshot; the cache only
// shields the remote store from repeated full-document fetches (engine
// restarts within the TTL, bootstrap retries). Entries expire after a
// configurable TTL and are refreshed on every successful save; the
// conflict-merge path bypasses the cache and always reads the store.
package cache

import (
	"sync"
	"time"

	"github.com/MKhiriev/go-ledger-keeper/models"
)

// DocumentCache is a single-entry TTL cache for the remote document.
// Safe for concurrent use.
type DocumentCache struct {
	mu  sync.RWMutex
	ttl time.Duration

	doc       *models.Document
	version   models.Version
	fetchedAt time.Time

	now func() time.Time // test hook
}

// NewDocumentCache returns an empty cache whose entries live for ttl.
// A non-positive ttl disables caching entirely: Get never hits.
func NewDocumentCache(ttl time.Duration) *DocumentCache {
	return &DocumentCache{ttl: ttl, now: time.Now}
}

// Get returns the cached document and its store version if a fresh entry is
// present. The boolean result reports a cache hit.
func (c *DocumentCache) Get() (*models.Document, models.Version, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.doc == nil || c.ttl <= 0 {
		return nil, models.Version(""), false
	}
	if c.now().Sub(c.fetchedAt) >= c.ttl {
		return nil, models.Version(""), false
	}

	return c.doc, c.version, true
}

// Put stores doc and version as the current entry and restarts the TTL clock.
func (c *DocumentCache) Put(doc *models.Document, version models.Version) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.doc = doc
	c.version = version
	c.fetchedAt = c.now()
}

// Invalidate drops the current entry. The next Get misses until Put is called
// again. Called when the local snapshot diverges from whatever was cached,
// such as a clear-all while offline, so a later bootstrap reads the store.
func (c *DocumentCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.doc = nil
	c.version = models.Version("")
	c.fetchedAt = time.Time{}
}
