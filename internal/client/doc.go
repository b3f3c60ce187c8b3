// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package client implements the client application runtime.
//
// It wires the remote document store, local offline storage, cross-instance
// broadcasting, and the sync engine into a single process lifecycle.
package client
