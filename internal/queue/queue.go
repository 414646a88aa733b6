package queue

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Aryan-Kanada/FSMFINAL/internal/rack"
)

// Options bounds the task history rings.
type Options struct {
	CompletedHistory int
	FailedHistory    int
}

func (o Options) withDefaults() Options {
	if o.CompletedHistory <= 0 {
		o.CompletedHistory = 100
	}
	if o.FailedHistory <= 0 {
		o.FailedHistory = 50
	}
	return o
}

// Queue is the single-consumer FIFO of physical operations. Validation runs
// at submit time against the position store; the executor re-validates at
// execute time, so a rejection here is a fast path, not the only guard.
//
// Cancelled tasks share the failed history ring.
type Queue struct {
	mu         sync.Mutex
	store      *rack.Store
	opts       Options
	pending    []*Task
	active     *Task
	byPosition map[int]*Task
	completed  []*Task
	failed     []*Task
	accepting  bool
	wake       chan struct{}
}

// New builds an empty queue validating against the given position store.
func New(store *rack.Store, opts Options) *Queue {
	return &Queue{
		store:      store,
		opts:       opts.withDefaults(),
		byPosition: make(map[int]*Task),
		accepting:  true,
		wake:       make(chan struct{}, 1),
	}
}

// Submit validates a task and appends it to the FIFO. The call never blocks
// on execution; callers observe completion through the status snapshot.
func (q *Queue) Submit(task *Task) error {
	if task == nil {
		return fmt.Errorf("%w: nil task", ErrValidation)
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	if !q.accepting {
		return ErrNotAccepting
	}
	if task.Status != StatusPending {
		return fmt.Errorf("%w: task %s is %s, not pending", ErrValidation, task.ID, task.Status)
	}

	if err := q.validateLocked(task); err != nil {
		return err
	}

	q.pending = append(q.pending, task)
	if task.TargetPosition > 0 {
		q.byPosition[task.TargetPosition] = task
	}
	q.signal()
	return nil
}

func (q *Queue) validateLocked(task *Task) error {
	switch task.Kind {
	case KindStore:
		if task.ProductID == "" {
			return fmt.Errorf("%w: store requires a product id", ErrValidation)
		}
		if task.TargetPosition != 0 {
			position, err := q.store.Get(task.TargetPosition)
			if err != nil {
				return fmt.Errorf("%w: %v", ErrValidation, err)
			}
			if position.State != rack.StateEmpty {
				return fmt.Errorf("%w: position %d is %s", ErrConflict, position.ID, position.State)
			}
		}
	case KindRetrieve:
		position, err := q.store.Get(task.TargetPosition)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrValidation, err)
		}
		if position.State != rack.StateOccupied {
			return fmt.Errorf("%w: position %d is %s", ErrConflict, position.ID, position.State)
		}
	case KindRefreshDisplay:
		// No target to validate.
	default:
		return fmt.Errorf("%w: unknown task kind %q", ErrValidation, task.Kind)
	}

	if task.TargetPosition > 0 {
		if other, ok := q.byPosition[task.TargetPosition]; ok {
			return fmt.Errorf("%w: position %d already targeted by task %s",
				ErrConflict, task.TargetPosition, other.ID)
		}
	}
	return nil
}

// Dequeue pops the oldest pending task, transitions it to Running, and marks
// it active. It never blocks; the executor waits on Wake when empty.
func (q *Queue) Dequeue() (*Task, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.pending) == 0 || q.active != nil {
		return nil, false
	}

	task := q.pending[0]
	q.pending = q.pending[1:]
	if !transitionAllowed(task.Status, StatusRunning) {
		return nil, false
	}
	task.Status = StatusRunning
	task.StartedAt = time.Now()
	q.active = task
	return task, true
}

// Wake returns a channel that receives a value when new work arrives.
func (q *Queue) Wake() <-chan struct{} {
	return q.wake
}

// Bind records the position an executing task resolved to, so later
// submissions for the same position are rejected while it runs.
func (q *Queue) Bind(task *Task, position int) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if task == nil || position <= 0 {
		return
	}
	task.TargetPosition = position
	if _, ok := q.byPosition[position]; !ok {
		q.byPosition[position] = task
	}
}

// Finish moves the active task to a terminal status and into history. The
// result string is set exactly once here.
func (q *Queue) Finish(task *Task, status Status, result string) error {
	if task == nil {
		return errors.New("finish: nil task")
	}
	if !status.Terminal() {
		return fmt.Errorf("finish: %s is not a terminal status", status)
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	if q.active != task {
		return fmt.Errorf("finish: task %s is not active", task.ID)
	}
	if !transitionAllowed(task.Status, status) {
		return fmt.Errorf("finish: %s -> %s not allowed", task.Status, status)
	}

	task.Status = status
	task.Result = result
	task.CompletedAt = time.Now()
	q.active = nil
	q.releaseLocked(task)
	q.archiveLocked(task)
	return nil
}

// CancelAllPending drains the pending queue, marking every task Cancelled
// with the given reason. Returns the number of tasks drained. Used by the
// emergency stop path.
func (q *Queue) CancelAllPending(reason string) int {
	q.mu.Lock()
	defer q.mu.Unlock()

	drained := 0
	for _, task := range q.pending {
		if !transitionAllowed(task.Status, StatusCancelled) {
			continue
		}
		task.Status = StatusCancelled
		task.Result = reason
		task.CompletedAt = time.Now()
		q.releaseLocked(task)
		q.archiveLocked(task)
		drained++
	}
	q.pending = nil
	return drained
}

// SetAccepting opens or closes the queue for new submissions.
func (q *Queue) SetAccepting(accepting bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.accepting = accepting
}

// Accepting reports whether submissions are currently allowed.
func (q *Queue) Accepting() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.accepting
}

// Size returns the number of pending tasks.
func (q *Queue) Size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Active returns a copy of the in-flight task, if any.
func (q *Queue) Active() (Task, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.active == nil {
		return Task{}, false
	}
	return *q.active, true
}

// Pending returns copies of the queued tasks in FIFO order.
func (q *Queue) Pending() []Task {
	q.mu.Lock()
	defer q.mu.Unlock()

	cp := make([]Task, 0, len(q.pending))
	for _, task := range q.pending {
		cp = append(cp, *task)
	}
	return cp
}

// RecentCompleted returns copies of the completed history, oldest first.
func (q *Queue) RecentCompleted() []Task {
	q.mu.Lock()
	defer q.mu.Unlock()
	return copyTasks(q.completed)
}

// RecentFailed returns copies of the failed/cancelled history, oldest first.
func (q *Queue) RecentFailed() []Task {
	q.mu.Lock()
	defer q.mu.Unlock()
	return copyTasks(q.failed)
}

func copyTasks(tasks []*Task) []Task {
	cp := make([]Task, 0, len(tasks))
	for _, task := range tasks {
		cp = append(cp, *task)
	}
	return cp
}

func (q *Queue) signal() {
	select {
	case q.wake <- struct{}{}:
	default:
	}
}

func (q *Queue) releaseLocked(task *Task) {
	if task.TargetPosition > 0 && q.byPosition[task.TargetPosition] == task {
		delete(q.byPosition, task.TargetPosition)
	}
}

func (q *Queue) archiveLocked(task *Task) {
	switch task.Status {
	case StatusCompleted:
		q.completed = append(q.completed, task)
		if len(q.completed) > q.opts.CompletedHistory {
			q.completed = q.completed[len(q.completed)-q.opts.CompletedHistory:]
		}
	case StatusFailed, StatusCancelled:
		q.failed = append(q.failed, task)
		if len(q.failed) > q.opts.FailedHistory {
			q.failed = q.failed[len(q.failed)-q.opts.FailedHistory:]
		}
	}
}
