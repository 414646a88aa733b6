package logging_test

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aryan-Kanada/FSMFINAL/internal/logging"
)

func newFileLogger(t *testing.T, format, level string) (*slog.Logger, func() string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "out.log")
	logger, err := logging.New(logging.Options{
		Level:       level,
		Format:      format,
		OutputPaths: []string{path},
	})
	require.NoError(t, err)
	return logger, func() string {
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		return string(data)
	}
}

func TestConsoleFormat(t *testing.T) {
	logger, read := newFileLogger(t, "console", "info")

	logger.Info("task queued",
		logging.String(logging.FieldComponent, "queue"),
		logging.Int(logging.FieldPosition, 7),
		logging.String(logging.FieldProductID, "two words"))

	out := read()
	assert.Contains(t, out, "INFO queue: task queued")
	assert.Contains(t, out, "position=7")
	assert.Contains(t, out, `product_id="two words"`, "values with spaces are quoted")
}

func TestConsoleLevelFiltering(t *testing.T) {
	logger, read := newFileLogger(t, "console", "info")

	logger.Debug("noisy detail")
	logger.Info("kept")

	out := read()
	assert.NotContains(t, out, "noisy detail")
	assert.Contains(t, out, "kept")
}

func TestJSONFormat(t *testing.T) {
	logger, read := newFileLogger(t, "json", "info")

	logger.Info("stored", logging.Int(logging.FieldPosition, 3))

	var entry map[string]any
	line := strings.TrimSpace(read())
	require.NoError(t, json.Unmarshal([]byte(line), &entry))
	assert.Equal(t, "stored", entry["msg"])
	assert.Equal(t, "info", entry["level"])
	assert.NotEmpty(t, entry["ts"])
	assert.Equal(t, float64(3), entry["position"])
}

func TestUnsupportedFormat(t *testing.T) {
	_, err := logging.New(logging.Options{Format: "xml"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "xml")
}

func TestComponentLoggerCarriesComponent(t *testing.T) {
	logger, read := newFileLogger(t, "console", "info")

	component := logging.NewComponentLogger(logger, "supervisor")
	component.Info("scan started")

	assert.Contains(t, read(), "supervisor: scan started")
}

func TestComponentLoggerNilBase(t *testing.T) {
	component := logging.NewComponentLogger(nil, "plc")
	assert.NotPanics(t, func() {
		component.Info("dropped silently")
	})
}

func TestErrorAttr(t *testing.T) {
	attr := logging.Error(nil)
	assert.Equal(t, "error", attr.Key)
	assert.Equal(t, "<nil>", attr.Value.String())
}
