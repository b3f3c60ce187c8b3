// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides transport-layer access to the remote
// version-controlled document store.
//
// The primary abstraction is [RemoteStore], which decouples the sync engine
// from the store protocol. The package ships a GitHub contents-API
// implementation ([NewGitHubStore]) speaking the REST endpoints
// GET/PUT /repos/{owner}/{repo}/contents/{path}.
//
// Error values defined in errors.go are mapped from HTTP status codes by
// mapHTTPError so that callers can use [errors.Is] for transport-agnostic
// error handling (e.g. [ErrVersionConflict] for 409, [ErrDocumentAbsent] for
// 404, [ErrUnauthorized] for 401/403).
package adapter

import (
	"context"

	"github.com/MKhiriev/go-ledger-keeper/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/remote_store_mock.go -package=mock

// RemoteStore defines transport-agnostic communication with the remote
// document store. Implementations are responsible for serialisation,
// credential handling, and mapping transport-level errors to the sentinel
// values defined in this package.
type RemoteStore interface {
	// FetchDocument downloads the current state of the document together with
	// the store version it was read at. Returns [ErrDocumentAbsent] (wrapped)
	// if the document does not exist yet in the repository.
	FetchDocument(ctx context.Context) (*models.Document, models.Version, error)

	// SaveDocument uploads doc as a new revision on top of base. A zero base
	// creates the document. Returns the version assigned to the new revision,
	// or [ErrVersionConflict] (wrapped) if base no longer matches the current
	// store version.
	SaveDocument(ctx context.Context, doc *models.Document, base models.Version) (models.Version, error)

	// VerifyCredential checks that the configured access token is accepted by
	// the store. Returns [ErrUnauthorized] (wrapped) if it is not.
	VerifyCredential(ctx context.Context) error

	// ProbeConnectivity performs a cheap authenticated round trip to the
	// store. A nil return means the store is reachable with the configured
	// credential.
	ProbeConnectivity(ctx context.Context) error
}
