package queue_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aryan-Kanada/FSMFINAL/internal/queue"
	"github.com/Aryan-Kanada/FSMFINAL/internal/rack"
)

func newTestQueue(t *testing.T) (*queue.Queue, *rack.Store) {
	t.Helper()
	store, err := rack.NewStore(rack.Layout{Positions: 35, Rows: 5, Columns: 7})
	require.NoError(t, err)
	return queue.New(store, queue.Options{}), store
}

func TestSubmitStoreValidation(t *testing.T) {
	q, store := newTestQueue(t)

	err := q.Submit(queue.NewStoreTask("", 0))
	assert.ErrorIs(t, err, queue.ErrValidation)

	err = q.Submit(queue.NewStoreTask("WIDGET", 99))
	assert.ErrorIs(t, err, queue.ErrValidation)

	require.NoError(t, store.Store(3, "TAKEN"))
	err = q.Submit(queue.NewStoreTask("WIDGET", 3))
	assert.ErrorIs(t, err, queue.ErrConflict)

	require.NoError(t, q.Submit(queue.NewStoreTask("WIDGET", 4)))
	assert.Equal(t, 1, q.Size())
}

func TestSubmitRetrieveValidation(t *testing.T) {
	q, store := newTestQueue(t)

	err := q.Submit(queue.NewRetrieveTask(7))
	assert.ErrorIs(t, err, queue.ErrConflict, "retrieve from empty position")

	err = q.Submit(queue.NewRetrieveTask(0))
	assert.ErrorIs(t, err, queue.ErrValidation)

	require.NoError(t, store.Store(7, "GEAR"))
	require.NoError(t, q.Submit(queue.NewRetrieveTask(7)))
}

func TestSubmitRejectsPositionAlreadyTargeted(t *testing.T) {
	q, store := newTestQueue(t)
	require.NoError(t, store.Store(7, "GEAR"))

	require.NoError(t, q.Submit(queue.NewRetrieveTask(7)))
	err := q.Submit(queue.NewRetrieveTask(7))
	assert.ErrorIs(t, err, queue.ErrConflict)

	// The conflict clears once the first task reaches a terminal status.
	task, ok := q.Dequeue()
	require.True(t, ok)
	require.NoError(t, q.Finish(task, queue.StatusFailed, "test"))
	require.NoError(t, q.Submit(queue.NewRetrieveTask(7)))
}

func TestDequeueFIFOOrder(t *testing.T) {
	q, store := newTestQueue(t)
	require.NoError(t, store.Store(1, "A"))
	require.NoError(t, store.Store(2, "B"))

	t1 := queue.NewRetrieveTask(1)
	t2 := queue.NewRetrieveTask(2)
	t3 := queue.NewRefreshDisplayTask()
	require.NoError(t, q.Submit(t1))
	require.NoError(t, q.Submit(t2))
	require.NoError(t, q.Submit(t3))

	for _, want := range []*queue.Task{t1, t2, t3} {
		task, ok := q.Dequeue()
		require.True(t, ok)
		assert.Equal(t, want.ID, task.ID)
		assert.Equal(t, queue.StatusRunning, task.Status)
		assert.False(t, task.StartedAt.IsZero())
		require.NoError(t, q.Finish(task, queue.StatusCompleted, "done"))
	}

	_, ok := q.Dequeue()
	assert.False(t, ok)
}

func TestSingleTaskInFlight(t *testing.T) {
	q, store := newTestQueue(t)
	require.NoError(t, store.Store(1, "A"))
	require.NoError(t, store.Store(2, "B"))
	require.NoError(t, q.Submit(queue.NewRetrieveTask(1)))
	require.NoError(t, q.Submit(queue.NewRetrieveTask(2)))

	first, ok := q.Dequeue()
	require.True(t, ok)

	// No second task may be dequeued while one is active.
	_, ok = q.Dequeue()
	assert.False(t, ok)

	require.NoError(t, q.Finish(first, queue.StatusCompleted, "done"))
	_, ok = q.Dequeue()
	assert.True(t, ok)
}

func TestFinishSetsTerminalFields(t *testing.T) {
	q, _ := newTestQueue(t)
	task := queue.NewRefreshDisplayTask()
	require.NoError(t, q.Submit(task))

	running, ok := q.Dequeue()
	require.True(t, ok)
	require.NoError(t, q.Finish(running, queue.StatusCompleted, "display updated"))

	assert.Equal(t, queue.StatusCompleted, running.Status)
	assert.Equal(t, "display updated", running.Result)
	assert.False(t, running.CompletedAt.IsZero())

	history := q.RecentCompleted()
	require.Len(t, history, 1)
	assert.Equal(t, running.ID, history[0].ID)

	// Terminal statuses do not move again.
	err := q.Finish(running, queue.StatusFailed, "late")
	assert.Error(t, err)
}

func TestCancelAllPending(t *testing.T) {
	q, store := newTestQueue(t)
	require.NoError(t, store.Store(1, "A"))
	require.NoError(t, store.Store(2, "B"))
	require.NoError(t, store.Store(3, "C"))

	require.NoError(t, q.Submit(queue.NewRetrieveTask(1)))
	require.NoError(t, q.Submit(queue.NewRetrieveTask(2)))
	require.NoError(t, q.Submit(queue.NewRetrieveTask(3)))

	drained := q.CancelAllPending(queue.EmergencyStopReason)
	assert.Equal(t, 3, drained)
	assert.Equal(t, 0, q.Size())

	failed := q.RecentFailed()
	require.Len(t, failed, 3)
	for _, task := range failed {
		assert.Equal(t, queue.StatusCancelled, task.Status)
		assert.Equal(t, queue.EmergencyStopReason, task.Result)
	}
}

func TestNotAcceptingRejectsSubmissions(t *testing.T) {
	q, _ := newTestQueue(t)

	q.SetAccepting(false)
	err := q.Submit(queue.NewRefreshDisplayTask())
	assert.ErrorIs(t, err, queue.ErrNotAccepting)

	q.SetAccepting(true)
	require.NoError(t, q.Submit(queue.NewRefreshDisplayTask()))
}

func TestHistoryBounded(t *testing.T) {
	store, err := rack.NewStore(rack.Layout{Positions: 35, Rows: 5, Columns: 7})
	require.NoError(t, err)
	q := queue.New(store, queue.Options{CompletedHistory: 3, FailedHistory: 2})

	for i := 0; i < 5; i++ {
		task := queue.NewRefreshDisplayTask()
		require.NoError(t, q.Submit(task))
		running, ok := q.Dequeue()
		require.True(t, ok)
		require.NoError(t, q.Finish(running, queue.StatusCompleted, "ok"))
	}
	assert.Len(t, q.RecentCompleted(), 3)

	for i := 0; i < 4; i++ {
		task := queue.NewRefreshDisplayTask()
		require.NoError(t, q.Submit(task))
		running, ok := q.Dequeue()
		require.True(t, ok)
		require.NoError(t, q.Finish(running, queue.StatusFailed, "boom"))
	}
	assert.Len(t, q.RecentFailed(), 2)
}

func TestBindRegistersResolvedPosition(t *testing.T) {
	q, _ := newTestQueue(t)

	auto := queue.NewStoreTask("WIDGET", 0)
	require.NoError(t, q.Submit(auto))
	running, ok := q.Dequeue()
	require.True(t, ok)

	q.Bind(running, 1)
	assert.Equal(t, 1, running.TargetPosition)

	// Position 1 is claimed while the store runs.
	err := q.Submit(queue.NewStoreTask("OTHER", 1))
	assert.ErrorIs(t, err, queue.ErrConflict)

	require.NoError(t, q.Finish(running, queue.StatusCompleted, "stored"))
}

func TestActiveSnapshot(t *testing.T) {
	q, _ := newTestQueue(t)

	_, ok := q.Active()
	assert.False(t, ok)

	task := queue.NewRefreshDisplayTask()
	require.NoError(t, q.Submit(task))
	running, ok := q.Dequeue()
	require.True(t, ok)

	active, ok := q.Active()
	require.True(t, ok)
	assert.Equal(t, running.ID, active.ID)

	require.NoError(t, q.Finish(running, queue.StatusCancelled, queue.EmergencyStopReason))
	_, ok = q.Active()
	assert.False(t, ok)
}

func TestParseKindAndStatus(t *testing.T) {
	kind, ok := queue.ParseKind("Retrieve")
	require.True(t, ok)
	assert.Equal(t, queue.KindRetrieve, kind)

	_, ok = queue.ParseKind("bogus")
	assert.False(t, ok)

	assert.True(t, queue.StatusCancelled.Terminal())
	assert.False(t, queue.StatusRunning.Terminal())
}
