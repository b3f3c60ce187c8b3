package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// metadataKey is the reserved top-level key of the remote document that holds
// the save stamp. It can never be used as a collection name.
const metadataKey = "metadata"

// SchemaVersion is written into the document metadata stamp on every save.
const SchemaVersion = "1.0"

// Version is the opaque token identifying a specific revision of the remote
// document. It is assigned by the store on every successful read or write and
// must be echoed back on the next conditional save. The engine never inspects
// its contents.
type Version string

// IsZero reports whether no version token is held (document not yet read or
// not yet created remotely).
func (v Version) IsZero() bool {
	return v == ""
}

// Record is a single schema-agnostic entity inside a collection. The engine
// only requires a stable, caller-assigned "id" field; everything else is
// opaque domain data.
type Record map[string]any

// ID returns the record's "id" field, or an empty string if the field is
// missing or not a string.
func (r Record) ID() string {
	id, _ := r["id"].(string)
	return id
}

// Collections maps a collection name to its ordered record sequence.
type Collections map[string][]Record

// Clone returns a copy of the collections map with copied record slices.
// Record maps themselves are shared: callers replace collections wholesale and
// must not mutate records after submitting them.
func (c Collections) Clone() Collections {
	out := make(Collections, len(c))
	for name, records := range c {
		cp := make([]Record, len(records))
		copy(cp, records)
		out[name] = cp
	}
	return out
}

// EmptyCollections builds a collections map holding an empty (non-nil) slice
// for every given name. Used at engine start and after a full clear so the
// snapshot is never missing a collection key.
func EmptyCollections(names []string) Collections {
	out := make(Collections, len(names))
	for _, name := range names {
		out[name] = []Record{}
	}
	return out
}

// Metadata is the save stamp carried at the top level of the remote document.
type Metadata struct {
	LastUpdated time.Time `json:"lastUpdated"`
	Version     string    `json:"version"`
}

// Document is the whole remote JSON artifact: every collection plus the
// metadata stamp. The engine always transmits the full document on save.
type Document struct {
	Collections Collections
	Metadata    Metadata
}

// NewDocument wraps the given collections with a fresh metadata stamp.
func NewDocument(collections Collections) Document {
	return Document{
		Collections: collections,
		Metadata:    Metadata{LastUpdated: time.Now().UTC(), Version: SchemaVersion},
	}
}

// MarshalJSON flattens the document into a single JSON object: one key per
// collection plus the reserved "metadata" key.
func (d Document) MarshalJSON() ([]byte, error) {
	out := make(map[string]json.RawMessage, len(d.Collections)+1)

	for name, records := range d.Collections {
		if name == metadataKey {
			return nil, fmt.Errorf("collection name %q is reserved", metadataKey)
		}
		payload, err := json.Marshal(records)
		if err != nil {
			return nil, fmt.Errorf("encode collection %s: %w", name, err)
		}
		out[name] = payload
	}

	stamp, err := json.Marshal(d.Metadata)
	if err != nil {
		return nil, fmt.Errorf("encode document metadata: %w", err)
	}
	out[metadataKey] = stamp

	return json.Marshal(out)
}

// UnmarshalJSON is the inverse of MarshalJSON: every top-level key except
// "metadata" is decoded as a collection.
func (d *Document) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode document: %w", err)
	}

	d.Collections = make(Collections, len(raw))
	for name, payload := range raw {
		if name == metadataKey {
			if err := json.Unmarshal(payload, &d.Metadata); err != nil {
				return fmt.Errorf("decode document metadata: %w", err)
			}
			continue
		}

		var records []Record
		if err := json.Unmarshal(payload, &records); err != nil {
			return fmt.Errorf("decode collection %s: %w", name, err)
		}
		if records == nil {
			records = []Record{}
		}
		d.Collections[name] = records
	}

	return nil
}
