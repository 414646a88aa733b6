package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Aryan-Kanada/FSMFINAL/internal/api"
)

func TestRenderStatusLine(t *testing.T) {
	line := renderStatusLine("Daemon", statusOK, "running (pid 42)", false)
	assert.Equal(t, "  Daemon:          [OK] running (pid 42)", line)

	colored := renderStatusLine("Daemon", statusError, "stopped", true)
	assert.Contains(t, colored, ansiRed)
	assert.Contains(t, colored, "[ERROR] stopped")
}

func TestMaskToken(t *testing.T) {
	assert.Equal(t, "(none)", maskToken(""))
	assert.Equal(t, "****", maskToken("abcd"))
	assert.Equal(t, "su*******et", maskToken("supersecret"))
}

func TestPositionRow(t *testing.T) {
	row := positionRow(api.PositionView{
		ID:        8,
		Name:      "P08",
		Row:       2,
		Column:    1,
		State:     "occupied",
		ProductID: "WIDGET",
		StoredAt:  time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC),
		LEDShadow: true,
	})
	assert.Equal(t, "P08", row[0])
	assert.Equal(t, "R2C1", row[1])
	assert.Equal(t, "occupied", row[2])
	assert.Equal(t, "WIDGET", row[3])
	assert.NotEmpty(t, row[4])
	assert.Equal(t, "on", row[5])
}

func TestTaskRowOmitsUnresolvedPosition(t *testing.T) {
	row := taskRow(api.TaskView{ID: "store-1", Kind: "store", Status: "pending"})
	assert.Equal(t, "", row[2])
}

func TestRootCommandWiring(t *testing.T) {
	cmd := newRootCommand()
	names := make(map[string]bool)
	for _, sub := range cmd.Commands() {
		names[sub.Name()] = true
	}
	for _, expected := range []string{"start", "stop", "restart", "status", "daemon", "store", "retrieve", "refresh", "resume", "positions", "find", "tasks", "history", "logs", "config"} {
		assert.True(t, names[expected], "missing subcommand %s", expected)
	}
}
