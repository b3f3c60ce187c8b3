package service

import (
	"github.com/MKhiriev/go-ledger-keeper/models"
)

// localWinsMerger implements the coarse reconciliation policy used after a
// version conflict. For collections carrying a local mutation, records are
// unioned by id and the local record wins whenever the same id exists on
// both sides: the local mutation intent is assumed more recent than whatever
// the remote holds, since the local change is what triggered the conflicting
// save. Untouched collections are taken wholesale from remote.
//
// This is not a field-level merge and not a CRDT: disjoint edits across
// instances are the common case it targets.
type localWinsMerger struct{}

// NewLocalWinsMerger constructs the default [ConflictMerger].
func NewLocalWinsMerger() ConflictMerger {
	return &localWinsMerger{}
}

// Merge implements [ConflictMerger]. In dirty collections local records keep
// their order and remote records with unknown ids are appended in remote
// order. Dirty collections missing on the remote side stay local; clean
// collections missing locally are adopted from remote.
func (m *localWinsMerger) Merge(local, remote models.Collections, dirty []string) models.Collections {
	dirtySet := make(map[string]struct{}, len(dirty))
	for _, name := range dirty {
		dirtySet[name] = struct{}{}
	}

	merged := make(models.Collections, len(local)+len(remote))

	for name, records := range local {
		if _, isDirty := dirtySet[name]; isDirty {
			merged[name] = mergeCollection(records, remote[name])
			continue
		}
		if remoteRecords, ok := remote[name]; ok {
			merged[name] = cloneRecords(remoteRecords)
			continue
		}
		merged[name] = cloneRecords(records)
	}

	for name, records := range remote {
		if _, ok := merged[name]; !ok {
			merged[name] = cloneRecords(records)
		}
	}

	return merged
}

func mergeCollection(local, remote []models.Record) []models.Record {
	out := make([]models.Record, 0, len(local)+len(remote))
	seen := make(map[string]struct{}, len(local))

	for _, rec := range local {
		if id := rec.ID(); id != "" {
			seen[id] = struct{}{}
		}
		out = append(out, rec)
	}

	for _, rec := range remote {
		id := rec.ID()
		if id == "" {
			continue // remote records without an id cannot be deduplicated
		}
		if _, ok := seen[id]; ok {
			continue // local wins
		}
		out = append(out, rec)
	}

	return out
}

func cloneRecords(records []models.Record) []models.Record {
	out := make([]models.Record, len(records))
	copy(out, records)
	return out
}
