package supervisor

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aryan-Kanada/FSMFINAL/internal/executor"
	"github.com/Aryan-Kanada/FSMFINAL/internal/logging"
	"github.com/Aryan-Kanada/FSMFINAL/internal/plc"
	"github.com/Aryan-Kanada/FSMFINAL/internal/queue"
	"github.com/Aryan-Kanada/FSMFINAL/internal/rack"
)

func newHarness(t *testing.T, opts Options) (*Supervisor, *queue.Queue, *rack.Store, *plc.SimPort) {
	t.Helper()

	store, err := rack.NewStore(rack.Layout{Positions: 6, Rows: 2, Columns: 3})
	require.NoError(t, err)

	q := queue.New(store, queue.Options{})
	port := plc.NewSimPort()
	exec := executor.New(q, store, port, logging.NewNop())
	sup := New(port, store, q, exec, opts, logging.NewNop())
	return sup, q, store, port
}

func TestConnectTransitionsToMonitoring(t *testing.T) {
	sup, _, _, _ := newHarness(t, Options{})
	assert.Equal(t, StatusDisconnected, sup.Status())

	sup.connect(context.Background())
	assert.Equal(t, StatusMonitoring, sup.Status())
}

func TestTickSyncsShadows(t *testing.T) {
	sup, _, store, port := newHarness(t, Options{})
	ctx := context.Background()
	sup.connect(ctx)

	require.NoError(t, port.WriteLED(ctx, 4, true))
	port.SetButton(2, true)
	sup.tick(ctx)

	position, err := store.Get(4)
	require.NoError(t, err)
	assert.True(t, position.LEDShadow)

	position, err = store.Get(2)
	require.NoError(t, err)
	assert.True(t, position.ButtonShadow)
}

func TestButtonPressQueuesRetrieve(t *testing.T) {
	sup, q, store, port := newHarness(t, Options{})
	ctx := context.Background()
	sup.connect(ctx)
	require.NoError(t, store.Store(2, "BOLT"))

	sup.tick(ctx) // baseline, all buttons released

	port.SetButton(2, true)
	sup.tick(ctx)

	pending := q.Pending()
	require.Len(t, pending, 1)
	assert.Equal(t, queue.KindRetrieve, pending[0].Kind)
	assert.Equal(t, 2, pending[0].TargetPosition)

	// Held button does not queue again.
	sup.tick(ctx)
	assert.Len(t, q.Pending(), 1)
}

func TestButtonPressOnEmptyPositionIgnored(t *testing.T) {
	sup, q, _, port := newHarness(t, Options{})
	ctx := context.Background()
	sup.connect(ctx)

	sup.tick(ctx)
	port.SetButton(3, true)
	sup.tick(ctx)

	assert.Empty(t, q.Pending())
}

func TestAutoLEDSyncReconciles(t *testing.T) {
	sup, _, store, port := newHarness(t, Options{AutoLEDSync: true})
	ctx := context.Background()
	sup.connect(ctx)
	require.NoError(t, store.Store(1, "A"))
	require.NoError(t, port.WriteLED(ctx, 5, true)) // stale

	sup.tick(ctx)

	assert.True(t, port.LED(1))
	assert.False(t, port.LED(5))
}

func TestEmergencyStopLatches(t *testing.T) {
	sup, q, store, port := newHarness(t, Options{})
	ctx := context.Background()
	sup.connect(ctx)
	require.NoError(t, store.Store(1, "A"))
	require.NoError(t, port.WriteLED(ctx, 1, true))

	require.NoError(t, q.Submit(queue.NewStoreTask("B", 0)))
	require.NoError(t, q.Submit(queue.NewRetrieveTask(1)))

	sup.tick(ctx) // baseline with emergency released
	port.SetEmergency(true)
	sup.tick(ctx)

	assert.Equal(t, StatusEmergency, sup.Status())
	assert.True(t, sup.Latched())
	assert.False(t, q.Accepting())
	assert.Empty(t, q.Pending())
	assert.False(t, port.LED(1))

	failed := q.RecentFailed()
	require.Len(t, failed, 2)
	for _, task := range failed {
		assert.Equal(t, queue.StatusCancelled, task.Status)
		assert.Equal(t, queue.EmergencyStopReason, task.Result)
	}

	err := q.Submit(queue.NewStoreTask("C", 0))
	assert.ErrorIs(t, err, queue.ErrNotAccepting)

	// Input release returns the status to monitoring but the latch holds:
	// submissions stay blocked until an explicit resume.
	port.SetEmergency(false)
	sup.tick(ctx)
	assert.Equal(t, StatusMonitoring, sup.Status())
	assert.True(t, sup.Latched())
	assert.False(t, q.Accepting())

	// Scanning stays halted while latched.
	port.SetButton(1, true)
	sup.tick(ctx)
	assert.Empty(t, q.Pending())
}

func TestResumeClearsLatch(t *testing.T) {
	sup, q, _, port := newHarness(t, Options{})
	ctx := context.Background()
	sup.connect(ctx)

	sup.tick(ctx)
	port.SetEmergency(true)
	sup.tick(ctx)
	require.True(t, sup.Latched())

	err := sup.Resume(ctx)
	assert.ErrorIs(t, err, ErrEmergencyActive)

	port.SetEmergency(false)
	require.NoError(t, sup.Resume(ctx))

	assert.False(t, sup.Latched())
	assert.Equal(t, StatusMonitoring, sup.Status())
	assert.True(t, q.Accepting())

	pending := q.Pending()
	require.Len(t, pending, 1)
	assert.Equal(t, queue.KindRefreshDisplay, pending[0].Kind)
}

func TestResumeWithoutLatch(t *testing.T) {
	sup, _, _, _ := newHarness(t, Options{})
	sup.connect(context.Background())

	err := sup.Resume(context.Background())
	assert.ErrorIs(t, err, ErrNotLatched)
}

func TestStartStop(t *testing.T) {
	sup, _, _, port := newHarness(t, Options{ScanInterval: 10 * time.Millisecond})

	sup.Start(context.Background())
	require.Eventually(t, func() bool {
		return sup.Status() == StatusMonitoring
	}, 2*time.Second, 5*time.Millisecond)

	port.SetButton(1, true)
	sup.Stop()
	assert.Equal(t, StatusDisconnected, sup.Status())
}
