package executor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aryan-Kanada/FSMFINAL/internal/logging"
	"github.com/Aryan-Kanada/FSMFINAL/internal/plc"
	"github.com/Aryan-Kanada/FSMFINAL/internal/queue"
	"github.com/Aryan-Kanada/FSMFINAL/internal/rack"
)

func newHarness(t *testing.T) (*Executor, *queue.Queue, *rack.Store, *plc.SimPort) {
	t.Helper()

	store, err := rack.NewStore(rack.Layout{Positions: 6, Rows: 2, Columns: 3})
	require.NoError(t, err)

	q := queue.New(store, queue.Options{})
	port := plc.NewSimPort()
	require.NoError(t, port.Connect(context.Background()))

	return New(q, store, port, logging.NewNop()), q, store, port
}

func TestExecuteStoreResolvesFirstEmpty(t *testing.T) {
	exec, q, store, port := newHarness(t)

	task := queue.NewStoreTask("WIDGET", 0)
	require.NoError(t, q.Submit(task))
	require.True(t, exec.processNext(context.Background()))

	assert.Equal(t, queue.StatusCompleted, task.Status)
	assert.Equal(t, 1, task.TargetPosition)
	assert.Equal(t, "stored WIDGET in position 1", task.Result)
	assert.True(t, port.LED(1))

	position, err := store.Get(1)
	require.NoError(t, err)
	assert.Equal(t, rack.StateOccupied, position.State)
	assert.Equal(t, "WIDGET", position.ProductID)
}

func TestExecuteStoreExplicitPosition(t *testing.T) {
	exec, q, _, port := newHarness(t)

	task := queue.NewStoreTask("GEAR", 4)
	require.NoError(t, q.Submit(task))
	require.True(t, exec.processNext(context.Background()))

	assert.Equal(t, queue.StatusCompleted, task.Status)
	assert.Equal(t, "stored GEAR in position 4", task.Result)
	assert.True(t, port.LED(4))
	assert.False(t, port.LED(1))
}

func TestExecuteStoreFailsWhenFull(t *testing.T) {
	exec, q, store, _ := newHarness(t)

	for i := 1; i <= 6; i++ {
		require.NoError(t, store.Store(i, "X"))
	}

	task := queue.NewStoreTask("OVERFLOW", 0)
	require.NoError(t, q.Submit(task))
	require.True(t, exec.processNext(context.Background()))

	assert.Equal(t, queue.StatusFailed, task.Status)
	assert.Equal(t, "no empty position available", task.Result)
}

func TestExecuteStoreNotRolledBackOnLEDFailure(t *testing.T) {
	exec, q, store, port := newHarness(t)
	port.FailWrites(errors.New("wire cut"))

	task := queue.NewStoreTask("WIDGET", 2)
	require.NoError(t, q.Submit(task))
	require.True(t, exec.processNext(context.Background()))

	assert.Equal(t, queue.StatusFailed, task.Status)
	assert.Contains(t, task.Result, "led write failed")

	// The logical store is not rolled back.
	position, err := store.Get(2)
	require.NoError(t, err)
	assert.Equal(t, rack.StateOccupied, position.State)
	assert.Equal(t, "WIDGET", position.ProductID)
}

func TestExecuteRetrieve(t *testing.T) {
	exec, q, store, port := newHarness(t)
	require.NoError(t, store.Store(3, "BOLT"))
	require.NoError(t, port.WriteLED(context.Background(), 3, true))

	task := queue.NewRetrieveTask(3)
	require.NoError(t, q.Submit(task))
	require.True(t, exec.processNext(context.Background()))

	assert.Equal(t, queue.StatusCompleted, task.Status)
	assert.Equal(t, "retrieved BOLT from position 3", task.Result)
	assert.False(t, port.LED(3))

	position, err := store.Get(3)
	require.NoError(t, err)
	assert.Equal(t, rack.StateEmpty, position.State)
}

func TestExecuteRetrieveRevalidates(t *testing.T) {
	exec, q, store, _ := newHarness(t)
	require.NoError(t, store.Store(3, "BOLT"))

	task := queue.NewRetrieveTask(3)
	require.NoError(t, q.Submit(task))

	// State changed between submit and execute.
	_, err := store.Retrieve(3)
	require.NoError(t, err)

	require.True(t, exec.processNext(context.Background()))
	assert.Equal(t, queue.StatusFailed, task.Status)
}

func TestExecuteRefreshDisplay(t *testing.T) {
	exec, q, store, port := newHarness(t)
	require.NoError(t, store.Store(1, "A"))
	require.NoError(t, store.Store(5, "B"))
	require.NoError(t, port.WriteLED(context.Background(), 2, true)) // stale

	task := queue.NewRefreshDisplayTask()
	require.NoError(t, q.Submit(task))
	require.True(t, exec.processNext(context.Background()))

	assert.Equal(t, queue.StatusCompleted, task.Status)
	assert.Equal(t, "refreshed 6 leds", task.Result)
	assert.True(t, port.LED(1))
	assert.False(t, port.LED(2))
	assert.True(t, port.LED(5))
}

func TestExecuteRefreshFailsOnlyWhenAllWritesFail(t *testing.T) {
	exec, q, _, port := newHarness(t)
	port.FailWrites(errors.New("bus down"))

	task := queue.NewRefreshDisplayTask()
	require.NoError(t, q.Submit(task))
	require.True(t, exec.processNext(context.Background()))

	assert.Equal(t, queue.StatusFailed, task.Status)
	assert.Equal(t, "all led writes failed", task.Result)
}

func TestAbortMarksTaskCancelled(t *testing.T) {
	exec, q, _, port := newHarness(t)
	port.FailWrites(errors.New("halted"))

	task := queue.NewStoreTask("WIDGET", 0)
	require.NoError(t, q.Submit(task))

	// Override raised before the task is picked up, as the supervisor does
	// when the emergency stop fires mid-flight.
	exec.Abort()
	dequeued, ok := q.Dequeue()
	require.True(t, ok)
	require.Same(t, task, dequeued)

	status, result := exec.execute(context.Background(), task)
	exec.mu.Lock()
	if exec.overridden {
		status = queue.StatusCancelled
		result = queue.EmergencyStopReason
	}
	exec.mu.Unlock()
	require.NoError(t, q.Finish(task, status, result))

	assert.Equal(t, queue.StatusCancelled, task.Status)
	assert.Equal(t, queue.EmergencyStopReason, task.Result)
}

func TestStartStopDrainsQueue(t *testing.T) {
	exec, q, store, _ := newHarness(t)

	task := queue.NewStoreTask("WIDGET", 0)
	require.NoError(t, q.Submit(task))

	exec.Start(context.Background())
	defer exec.Stop()

	require.Eventually(t, func() bool {
		return len(q.RecentCompleted()) == 1
	}, 2*time.Second, 10*time.Millisecond)

	position, err := store.Get(1)
	require.NoError(t, err)
	assert.Equal(t, rack.StateOccupied, position.State)
}
