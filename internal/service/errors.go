package service

import "errors"

var (
	// ErrBootstrapFetch wraps a failed initial document fetch. The prior
	// (empty) snapshot is preserved unchanged.
	ErrBootstrapFetch = errors.New("bootstrap fetch failed")
	// ErrEngineStopped is returned when a write is requested after Stop.
	ErrEngineStopped = errors.New("sync engine stopped")
)
