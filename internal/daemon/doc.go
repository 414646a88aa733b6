// Package daemon assembles the rack controller: it owns the position store,
// task queue, executor, supervisor, and PLC port, guards single-instance
// execution with a file lock, and serves the HTTP API.
package daemon
