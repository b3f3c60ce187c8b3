package models

import "time"

// OperationKind classifies a mutation queued while disconnected. It is
// informational only: replay always resubmits the latest full collection, not
// a CRUD delta.
type OperationKind string

const (
	OperationCreate OperationKind = "create"
	OperationUpdate OperationKind = "update"
	OperationDelete OperationKind = "delete"
)

// OfflineOperation is one entry of the append-only offline log.
type OfflineOperation struct {
	ID         string        `json:"id"`
	Collection string        `json:"collection"`
	Kind       OperationKind `json:"kind"`
	Payload    []Record      `json:"payload"`
	QueuedAt   time.Time     `json:"queued_at"`
}
