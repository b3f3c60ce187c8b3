// Package server wires and runs the store stub's HTTP transport.
//
// It provides the server lifecycle: startup, signal handling, and graceful
// shutdown.
package server
