// Package logs tails the rackd log file with bounded memory. It supports
// "last N lines" reads, forward reads from a saved offset, and follow-mode
// polling used by `rack logs --follow`.
package logs
