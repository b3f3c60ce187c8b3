// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"testing"

	"github.com/MKhiriev/go-ledger-keeper/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMerge_SameID_LocalWins(t *testing.T) {
	m := NewLocalWinsMerger()

	local := models.Collections{
		"products": {{"id": "P1", "name": "local ink"}},
	}
	remote := models.Collections{
		"products": {{"id": "P1", "name": "remote ink"}},
	}

	merged := m.Merge(local, remote, []string{"products"})

	require.Len(t, merged["products"], 1)
	assert.Equal(t, "local ink", merged["products"][0]["name"])
}

func TestMerge_DirtyCollection_UnionByID(t *testing.T) {
	m := NewLocalWinsMerger()

	local := models.Collections{
		"customers": {{"id": "C1"}, {"id": "C2", "name": "local"}},
	}
	remote := models.Collections{
		"customers": {{"id": "C2", "name": "remote"}, {"id": "C3"}},
	}

	merged := m.Merge(local, remote, []string{"customers"})

	// Локальные записи в локальном порядке, затем C3 с удалённой стороны
	require.Len(t, merged["customers"], 3)
	assert.Equal(t, "C1", merged["customers"][0].ID())
	assert.Equal(t, "C2", merged["customers"][1].ID())
	assert.Equal(t, "local", merged["customers"][1]["name"])
	assert.Equal(t, "C3", merged["customers"][2].ID())
}

func TestMerge_CleanCollection_RemoteTaken(t *testing.T) {
	m := NewLocalWinsMerger()

	local := models.Collections{
		"products":  {{"id": "P1", "name": "stale"}},
		"customers": {{"id": "C1", "name": "local"}},
	}
	remote := models.Collections{
		"products":  {{"id": "P1", "name": "fresh"}},
		"customers": {},
	}

	// Локально менялись только customers — products берутся из remote
	merged := m.Merge(local, remote, []string{"customers"})

	require.Len(t, merged["products"], 1)
	assert.Equal(t, "fresh", merged["products"][0]["name"])
	require.Len(t, merged["customers"], 1)
	assert.Equal(t, "local", merged["customers"][0]["name"])
}

func TestMerge_RemoteOnlyCollection_Adopted(t *testing.T) {
	m := NewLocalWinsMerger()

	local := models.Collections{"sales": {}}
	remote := models.Collections{"ledger": {{"id": "L1"}}}

	merged := m.Merge(local, remote, nil)

	require.Len(t, merged["ledger"], 1)
	assert.Contains(t, merged, "sales")
}

func TestMerge_DirtyCollectionAbsentRemotely_StaysLocal(t *testing.T) {
	m := NewLocalWinsMerger()

	local := models.Collections{"sales": {{"id": "S1"}}}
	remote := models.Collections{}

	merged := m.Merge(local, remote, []string{"sales"})

	require.Len(t, merged["sales"], 1)
	assert.Equal(t, "S1", merged["sales"][0].ID())
}

func TestMerge_RemoteRecordsWithoutID_Skipped(t *testing.T) {
	m := NewLocalWinsMerger()

	local := models.Collections{"ledger": {{"id": "L1"}}}
	remote := models.Collections{"ledger": {{"amount": 5.0}, {"id": "L2"}}}

	merged := m.Merge(local, remote, []string{"ledger"})

	require.Len(t, merged["ledger"], 2)
	assert.Equal(t, "L1", merged["ledger"][0].ID())
	assert.Equal(t, "L2", merged["ledger"][1].ID())
}

func TestMerge_EmptyInputs(t *testing.T) {
	m := NewLocalWinsMerger()

	merged := m.Merge(models.Collections{}, models.Collections{}, nil)

	assert.Empty(t, merged)
}
