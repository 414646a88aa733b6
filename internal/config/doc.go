// Package config loads, normalizes, and validates the TOML configuration for
// the rackd daemon and CLI.
package config
