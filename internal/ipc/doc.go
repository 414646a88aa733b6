// Package ipc implements daemon control over a Unix domain socket using
// JSON-RPC. The CLI is the only intended client; the HTTP API serves
// external integrations.
package ipc
