// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_buildInsertOperationQuery_SQLContainsParts(t *testing.T) {
	queuedAt := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	query, args, err := buildInsertOperationQuery("op-1", "products", "update", []byte(`[]`), queuedAt)
	require.NoError(t, err)

	// args checks
	require.Len(t, args, 5)
	require.Equal(t, "op-1", args[0])
	require.Equal(t, "products", args[1])
	require.Equal(t, "update", args[2])
	require.Equal(t, queuedAt, args[4])

	// query checks (contains parts)
	q := strings.ToLower(query)

	require.Contains(t, q, "insert into offline_operations")
	for _, col := range offlineOperationColumns {
		require.Contains(t, q, col)
	}

	// placeholder format should be ? (sqlite)
	require.Contains(t, query, "?")
	assert.NotContains(t, query, "$1")
}

func Test_buildSelectOperationsQuery(t *testing.T) {
	query, args, err := buildSelectOperationsQuery()
	require.NoError(t, err)
	require.Empty(t, args)

	q := strings.ToLower(query)
	require.Contains(t, q, "select")
	require.Contains(t, q, "from offline_operations")
	require.Contains(t, q, "order by queued_at asc")
	for _, col := range offlineOperationColumns {
		require.Contains(t, q, col)
	}
}

func Test_buildCountOperationsQuery(t *testing.T) {
	query, args, err := buildCountOperationsQuery()
	require.NoError(t, err)
	require.Empty(t, args)

	q := strings.ToLower(query)
	require.Contains(t, q, "count(*)")
	require.Contains(t, q, "from offline_operations")
}

func Test_buildClearOperationsQuery(t *testing.T) {
	query, args, err := buildClearOperationsQuery()
	require.NoError(t, err)
	require.Empty(t, args)

	q := strings.ToLower(query)
	require.Contains(t, q, "delete from offline_operations")
	assert.NotContains(t, q, "where")
}
