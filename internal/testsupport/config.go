// Package testsupport provides shared fixtures for package tests.
package testsupport

import (
	"testing"

	"github.com/Aryan-Kanada/FSMFINAL/internal/config"
)

// NewConfig returns a validated configuration rooted in a per-test temp
// directory, using the sim PLC driver and a small rack so tests stay fast.
func NewConfig(t *testing.T) *config.Config {
	t.Helper()

	cfg := config.Default()
	cfg.Paths.LogDir = t.TempDir()
	cfg.Paths.APIBind = "127.0.0.1:0"
	cfg.PLC.Driver = "sim"
	cfg.Rack.Positions = 6
	cfg.Rack.Rows = 2
	cfg.Rack.Columns = 3
	cfg.Operation.ScanIntervalMS = 10
	cfg.Operation.ButtonDebounceMS = 10

	if err := cfg.Validate(); err != nil {
		t.Fatalf("test config invalid: %v", err)
	}
	return &cfg
}
