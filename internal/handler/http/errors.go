// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import "errors"

// Sentinel errors used by the token middleware when parsing the
// "Authorization" HTTP header. Callers can match against them with [errors.Is].
var (
	// ErrEmptyAuthorizationHeader is returned when the incoming request does
	// not include an "Authorization" header at all.
	ErrEmptyAuthorizationHeader = errors.New("empty `Authorization` header")

	// ErrInvalidAuthorizationHeader is returned when the "Authorization"
	// header is present but cannot be split into at least two space-separated
	// parts (i.e. the token value is missing entirely).
	ErrInvalidAuthorizationHeader = errors.New("invalid `Authorization` header")

	// ErrWrongToken is returned when the supplied token does not match the
	// one the stub was configured with.
	ErrWrongToken = errors.New("wrong token in `Authorization` header")
)

// Conditional-update errors returned by the content store.
var (
	// ErrSHANotSupplied is returned when an existing file is updated without
	// an expected sha.
	ErrSHANotSupplied = errors.New(`"sha" wasn't supplied`)

	// ErrStaleSHA is returned when the expected sha does not match the
	// current revision of the file.
	ErrStaleSHA = errors.New("expected sha does not match the current revision")
)
