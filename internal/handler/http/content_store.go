// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"crypto/sha1"
	"fmt"
	"sync"
)

// blob is one stored file revision.
type blob struct {
	content []byte
	sha     string
}

// contentStore is the stub's in-memory file storage, keyed by
// "{owner}/{repo}/{path}". Conditional updates are serialized by the mutex,
// which is what makes the stale-sha check trustworthy under concurrent
// clients.
type contentStore struct {
	mu    sync.Mutex
	blobs map[string]blob
}

func newContentStore() *contentStore {
	return &contentStore{blobs: make(map[string]blob)}
}

// get returns the stored blob and whether it exists.
func (s *contentStore) get(key string) (blob, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.blobs[key]
	return b, ok
}

// put stores content if expectedSHA matches the current revision (empty
// expectedSHA means "create"). It returns the new blob, whether the file was
// created, and an error on a version mismatch.
func (s *contentStore) put(key string, content []byte, expectedSHA string) (blob, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, exists := s.blobs[key]
	switch {
	case exists && expectedSHA == "":
		return blob{}, false, ErrSHANotSupplied
	case exists && expectedSHA != current.sha:
		return blob{}, false, ErrStaleSHA
	case !exists && expectedSHA != "":
		// обновление несуществующего файла — тоже конфликт версий
		return blob{}, false, ErrStaleSHA
	}

	next := blob{content: content, sha: gitBlobSHA(content)}
	s.blobs[key] = next
	return next, !exists, nil
}

// gitBlobSHA computes the sha the real contents API reports for a file:
// sha1 over the git blob header followed by the raw content.
func gitBlobSHA(content []byte) string {
	h := sha1.New()
	fmt.Fprintf(h, "blob %d\x00", len(content))
	h.Write(content)
	return fmt.Sprintf("%x", h.Sum(nil))
}
