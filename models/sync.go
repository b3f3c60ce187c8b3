// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// SyncState is the engine's observable bookkeeping, published to connection
// subscribers on every change.
type SyncState struct {
	// PendingChangeCount is the number of collections dirtied locally plus the
	// number of operations sitting in the offline queue.
	PendingChangeCount int
	// IsSaveInFlight reports whether a remote write is currently executing.
	// At most one write is ever in flight.
	IsSaveInFlight bool
	// LastError holds the message of the most recent failed save, empty after
	// a successful one.
	LastError string
	// LastSuccessfulSaveAt is the wall-clock time of the last confirmed remote
	// write; zero until the first save succeeds.
	LastSuccessfulSaveAt time.Time
}

// ConnectionState couples the connectivity flag with the engine sync state for
// connection subscribers.
type ConnectionState struct {
	Online bool
	Sync   SyncState
}
