// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"time"

	sq "github.com/Masterminds/squirrel"
)

const offlineOperationsTable = "offline_operations"

var offlineOperationColumns = []string{"id", "collection", "kind", "payload", "queued_at"}

func buildInsertOperationQuery(id, collection, kind string, payload []byte, queuedAt time.Time) (string, []any, error) {
	return sq.Insert(offlineOperationsTable).
		Columns(offlineOperationColumns...).
		Values(id, collection, kind, payload, queuedAt).
		ToSql()
}

func buildSelectOperationsQuery() (string, []any, error) {
	return sq.Select(offlineOperationColumns...).
		From(offlineOperationsTable).
		OrderBy("queued_at ASC", "id ASC").
		ToSql()
}

func buildCountOperationsQuery() (string, []any, error) {
	return sq.Select("COUNT(*)").
		From(offlineOperationsTable).
		ToSql()
}

func buildClearOperationsQuery() (string, []any, error) {
	return sq.Delete(offlineOperationsTable).ToSql()
}
