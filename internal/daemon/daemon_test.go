package daemon_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aryan-Kanada/FSMFINAL/internal/daemon"
	"github.com/Aryan-Kanada/FSMFINAL/internal/logging"
	"github.com/Aryan-Kanada/FSMFINAL/internal/plc"
	"github.com/Aryan-Kanada/FSMFINAL/internal/testsupport"
)

func newDaemon(t *testing.T) (*daemon.Daemon, *plc.SimPort) {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	port := plc.NewSimPort()
	d, err := daemon.New(cfg, port, logging.NewNop())
	require.NoError(t, err)
	return d, port
}

func TestDaemonStartStop(t *testing.T) {
	d, _ := newDaemon(t)

	require.NoError(t, d.Start(context.Background()))
	assert.True(t, d.Running())
	assert.NotEmpty(t, d.APIAddr())

	require.Error(t, d.Start(context.Background()), "second start must fail")

	d.Stop()
	assert.False(t, d.Running())
}

func TestDaemonSingleInstance(t *testing.T) {
	cfg := testsupport.NewConfig(t)

	first, err := daemon.New(cfg, plc.NewSimPort(), logging.NewNop())
	require.NoError(t, err)
	require.NoError(t, first.Start(context.Background()))
	defer first.Close()

	// Disable the API so the second instance fails on the lock, not the port.
	cfg2 := *cfg
	cfg2.Paths.APIBind = ""
	second, err := daemon.New(&cfg2, plc.NewSimPort(), logging.NewNop())
	require.NoError(t, err)

	err = second.Start(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already running")
}

func TestDaemonStoreRetrieveRoundTrip(t *testing.T) {
	d, port := newDaemon(t)
	require.NoError(t, d.Start(context.Background()))
	defer d.Close()

	task, err := d.SubmitStore("WIDGET", 0)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		for _, done := range d.Tasks().Completed {
			if done.ID == task.ID {
				return true
			}
		}
		return false
	}, 2*time.Second, 10*time.Millisecond)

	assert.True(t, port.LED(1))
	assert.Equal(t, 1, d.Statistics().Occupied)

	retrieve, err := d.SubmitRetrieve(1)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		for _, done := range d.Tasks().Completed {
			if done.ID == retrieve.ID {
				return true
			}
		}
		return false
	}, 2*time.Second, 10*time.Millisecond)

	assert.Equal(t, 0, d.Statistics().Occupied)
	assert.False(t, port.LED(1))
}

func TestDaemonEmergencyAndResume(t *testing.T) {
	d, port := newDaemon(t)
	ctx := context.Background()
	require.NoError(t, d.Start(ctx))
	defer d.Close()

	require.Eventually(t, func() bool {
		return d.Status().System == "monitoring"
	}, 2*time.Second, 10*time.Millisecond)

	port.SetEmergency(true)
	require.Eventually(t, func() bool {
		return d.Status().EmergencyLatched
	}, 2*time.Second, 10*time.Millisecond)

	status := d.Status()
	assert.Equal(t, "emergency", status.System)
	assert.False(t, status.QueueAccepting)

	_, err := d.SubmitStore("WIDGET", 0)
	require.Error(t, err)

	require.Error(t, d.Resume(ctx), "resume must refuse while input active")

	port.SetEmergency(false)
	require.NoError(t, d.Resume(ctx))

	require.Eventually(t, func() bool {
		s := d.Status()
		return !s.EmergencyLatched && s.QueueAccepting
	}, 2*time.Second, 10*time.Millisecond)

	_, err = d.SubmitStore("WIDGET", 0)
	assert.NoError(t, err)
}

func TestDaemonPositionsSnapshot(t *testing.T) {
	d, _ := newDaemon(t)
	require.NoError(t, d.Start(context.Background()))
	defer d.Close()

	resp := d.Positions()
	assert.Len(t, resp.Positions, 6)
	assert.Len(t, resp.Grid, 2)
	assert.Equal(t, "P01", resp.Positions[0].Name)
}
