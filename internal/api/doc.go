// Package api defines the wire-level views shared by the HTTP API and the
// IPC surface, and the converters from internal types into those views.
// Internal types never cross a process boundary directly.
package api
