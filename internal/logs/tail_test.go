package logs_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aryan-Kanada/FSMFINAL/internal/logs"
)

func writeLog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rackd.log")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestTailLastLines(t *testing.T) {
	path := writeLog(t, "a\nb\nc\n")

	result, err := logs.Tail(context.Background(), path, logs.TailOptions{Offset: -1, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c"}, result.Lines)
	assert.NotZero(t, result.Offset)
}

func TestTailFromOffsetReadsNewLines(t *testing.T) {
	path := writeLog(t, "first\n")

	initial, err := logs.Tail(context.Background(), path, logs.TailOptions{Offset: -1, Limit: 10})
	require.NoError(t, err)
	require.Len(t, initial.Lines, 1)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	_, err = f.WriteString("second\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	next, err := logs.Tail(context.Background(), path, logs.TailOptions{Offset: initial.Offset})
	require.NoError(t, err)
	assert.Equal(t, []string{"second"}, next.Lines)
}

func TestTailMissingFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "rackd.log")

	result, err := logs.Tail(context.Background(), missing, logs.TailOptions{Offset: -1, Limit: 5})
	require.NoError(t, err)
	assert.Empty(t, result.Lines)
	assert.Zero(t, result.Offset)
}

func TestTailFollowWaitsForAppend(t *testing.T) {
	path := writeLog(t, "start\n")

	initial, err := logs.Tail(context.Background(), path, logs.TailOptions{Offset: -1, Limit: 1})
	require.NoError(t, err)

	done := make(chan logs.TailResult, 1)
	go func() {
		res, err := logs.Tail(context.Background(), path, logs.TailOptions{
			Offset: initial.Offset,
			Follow: true,
			Wait:   5 * time.Second,
		})
		assert.NoError(t, err)
		done <- res
	}()

	time.Sleep(100 * time.Millisecond)
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	_, err = f.WriteString("later\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	select {
	case res := <-done:
		assert.Equal(t, []string{"later"}, res.Lines)
	case <-time.After(10 * time.Second):
		t.Fatal("follow tail did not return")
	}
}
