package models

import "time"

// Envelope is the unit propagated to sibling engine instances after a local
// mutation. SentAt gates freshness on the receiving side: envelopes older than
// the configured window are discarded, never applied.
type Envelope struct {
	InstanceID  string      `json:"instance_id"`
	SentAt      time.Time   `json:"sent_at"`
	Collections Collections `json:"collections"`
}
