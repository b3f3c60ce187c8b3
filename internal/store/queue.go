// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/MKhiriev/go-ledger-keeper/internal/logger"
	"github.com/MKhiriev/go-ledger-keeper/models"
)

// offlineQueueRepository is the sqlite-backed implementation of
// [OfflineQueue]. It executes all queue operations against the
// "offline_operations" table using the embedded [*DB] connection.
//
// Every public method obtains a context-scoped logger via
// [logger.FromContext] so that all database interactions are traced with
// structured fields (operation id, collection, queue size).
type offlineQueueRepository struct {
	*DB
	logger *logger.Logger
}

// NewOfflineQueue constructs an [OfflineQueue] backed by the provided
// database connection and logger.
func NewOfflineQueue(db *DB, logger *logger.Logger) OfflineQueue {
	return &offlineQueueRepository{
		DB:     db,
		logger: logger,
	}
}

// Enqueue appends op to the offline log. The record payload is stored as a
// JSON blob; the row id is the caller-assigned operation id.
func (q *offlineQueueRepository) Enqueue(ctx context.Context, op models.OfflineOperation) error {
	log := logger.FromContext(ctx)

	payload, err := json.Marshal(op.Payload)
	if err != nil {
		log.Err(err).
			Str("func", "offlineQueueRepository.Enqueue").
			Str("operation_id", op.ID).
			Str("collection", op.Collection).
			Msg("failed to encode operation payload")
		return fmt.Errorf("encode operation payload: %w", err)
	}

	query, args, err := buildInsertOperationQuery(op.ID, op.Collection, string(op.Kind), payload, op.QueuedAt.UTC())
	if err != nil {
		log.Err(err).
			Str("func", "offlineQueueRepository.Enqueue").
			Str("operation_id", op.ID).
			Msg("failed to create query")
		return fmt.Errorf("%w: %w", ErrBuildingQuery, err)
	}

	if _, err = q.DB.ExecContext(ctx, query, args...); err != nil {
		log.Err(err).
			Str("func", "offlineQueueRepository.Enqueue").
			Str("operation_id", op.ID).
			Str("collection", op.Collection).
			Msg("failed to execute query for enqueueing offline operation")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return nil
}

// List returns all queued operations ordered by enqueue time.
func (q *offlineQueueRepository) List(ctx context.Context) ([]models.OfflineOperation, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildSelectOperationsQuery()
	if err != nil {
		log.Err(err).
			Str("func", "offlineQueueRepository.List").
			Msg("failed to create query")
		return nil, fmt.Errorf("%w: %w", ErrBuildingQuery, err)
	}

	rows, err := q.DB.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "offlineQueueRepository.List").
			Msg("failed to execute query for listing offline operations")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	results := make([]models.OfflineOperation, 0, 16)

	for rows.Next() {
		var (
			op      models.OfflineOperation
			kind    string
			payload []byte
		)

		scanErr := rows.Scan(&op.ID, &op.Collection, &kind, &payload, &op.QueuedAt)
		if scanErr != nil {
			log.Err(scanErr).
				Str("func", "offlineQueueRepository.List").
				Msg("failed to scan offline operation row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}

		op.Kind = models.OperationKind(kind)
		if err = json.Unmarshal(payload, &op.Payload); err != nil {
			log.Err(err).
				Str("func", "offlineQueueRepository.List").
				Str("operation_id", op.ID).
				Msg("failed to decode operation payload")
			return nil, fmt.Errorf("decode operation payload: %w", err)
		}

		results = append(results, op)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).
			Str("func", "offlineQueueRepository.List").
			Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return results, nil
}

// Count returns the number of queued operations.
func (q *offlineQueueRepository) Count(ctx context.Context) (int, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildCountOperationsQuery()
	if err != nil {
		log.Err(err).
			Str("func", "offlineQueueRepository.Count").
			Msg("failed to create query")
		return 0, fmt.Errorf("%w: %w", ErrBuildingQuery, err)
	}

	var count int
	if err = q.DB.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		log.Err(err).
			Str("func", "offlineQueueRepository.Count").
			Msg("failed to execute query for counting offline operations")
		return 0, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return count, nil
}

// Clear removes every queued operation.
func (q *offlineQueueRepository) Clear(ctx context.Context) error {
	log := logger.FromContext(ctx)

	query, args, err := buildClearOperationsQuery()
	if err != nil {
		log.Err(err).
			Str("func", "offlineQueueRepository.Clear").
			Msg("failed to create query")
		return fmt.Errorf("%w: %w", ErrBuildingQuery, err)
	}

	res, err := q.DB.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "offlineQueueRepository.Clear").
			Msg("failed to execute query for clearing offline operations")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	if cleared, raErr := res.RowsAffected(); raErr == nil {
		log.Debug().
			Str("func", "offlineQueueRepository.Clear").
			Int64("cleared", cleared).
			Msg("offline queue cleared")
	}

	return nil
}
