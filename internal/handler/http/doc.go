// Package http implements the HTTP surface of the local store stub.
//
// The stub mimics the subset of the GitHub contents API the client depends
// on: fetching a file with its blob sha, conditionally updating it with an
// expected sha, and the authenticated /user probe. It keeps documents in
// memory and is meant for development and integration testing against a real
// HTTP boundary without touching github.com.
package http
