package executor

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Aryan-Kanada/FSMFINAL/internal/logging"
	"github.com/Aryan-Kanada/FSMFINAL/internal/plc"
	"github.com/Aryan-Kanada/FSMFINAL/internal/queue"
	"github.com/Aryan-Kanada/FSMFINAL/internal/rack"
)

// Executor is the single worker draining the task queue. One task is in
// flight at a time; the rack has one crane, so concurrency lives in the
// queue, not here.
type Executor struct {
	queue  *queue.Queue
	store  *rack.Store
	port   plc.Port
	logger *slog.Logger

	pollInterval time.Duration

	mu         sync.Mutex
	taskCancel context.CancelFunc
	overridden bool

	wg      sync.WaitGroup
	stop    context.CancelFunc
	started bool
}

// New builds an executor over the given queue, position store, and PLC port.
func New(q *queue.Queue, store *rack.Store, port plc.Port, logger *slog.Logger) *Executor {
	return &Executor{
		queue:        q,
		store:        store,
		port:         port,
		logger:       logging.NewComponentLogger(logger, "executor"),
		pollInterval: time.Second,
	}
}

// Start launches the worker goroutine. It returns immediately; the worker
// runs until Stop is called or ctx is cancelled.
func (e *Executor) Start(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.started {
		return
	}
	runCtx, cancel := context.WithCancel(ctx)
	e.stop = cancel
	e.started = true

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		e.run(runCtx)
	}()
}

// Stop halts the worker and waits for the in-flight task to reach a
// terminal status.
func (e *Executor) Stop() {
	e.mu.Lock()
	cancel := e.stop
	e.stop = nil
	e.started = false
	e.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	e.wg.Wait()
}

// Abort cancels the in-flight task, if any, and marks it overridden so it
// finishes Cancelled rather than Failed. Called on emergency stop.
func (e *Executor) Abort() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.overridden = true
	if e.taskCancel != nil {
		e.taskCancel()
	}
}

func (e *Executor) run(ctx context.Context) {
	ticker := time.NewTicker(e.pollInterval)
	defer ticker.Stop()

	for {
		if e.processNext(ctx) {
			continue
		}
		select {
		case <-ctx.Done():
			return
		case <-e.queue.Wake():
		case <-ticker.C:
		}
	}
}

// processNext executes at most one task. Returns true if a task was
// processed, false if the queue was empty.
func (e *Executor) processNext(ctx context.Context) bool {
	task, ok := e.queue.Dequeue()
	if !ok {
		return false
	}

	taskCtx, cancel := context.WithCancel(ctx)
	e.mu.Lock()
	e.taskCancel = cancel
	e.overridden = false
	e.mu.Unlock()

	status, result := e.execute(taskCtx, task)
	cancel()

	e.mu.Lock()
	e.taskCancel = nil
	if e.overridden {
		status = queue.StatusCancelled
		result = queue.EmergencyStopReason
	}
	e.mu.Unlock()

	if err := e.queue.Finish(task, status, result); err != nil {
		e.logger.Error("finish task", logging.String(logging.FieldTaskID, task.ID), logging.Error(err))
	}

	e.logger.Info("task finished",
		logging.String(logging.FieldTaskID, task.ID),
		logging.String(logging.FieldTaskKind, string(task.Kind)),
		logging.String("status", string(status)),
		logging.String("result", result))
	return true
}

func (e *Executor) execute(ctx context.Context, task *queue.Task) (status queue.Status, result string) {
	defer func() {
		if r := recover(); r != nil {
			status = queue.StatusFailed
			result = fmt.Sprintf("internal error: %v", r)
			e.logger.Error("task panicked",
				logging.String(logging.FieldTaskID, task.ID),
				logging.Any("panic", r))
		}
	}()

	switch task.Kind {
	case queue.KindStore:
		return e.executeStore(ctx, task)
	case queue.KindRetrieve:
		return e.executeRetrieve(ctx, task)
	case queue.KindRefreshDisplay:
		return e.executeRefresh(ctx)
	default:
		return queue.StatusFailed, fmt.Sprintf("unknown task kind %q", task.Kind)
	}
}

func (e *Executor) executeStore(ctx context.Context, task *queue.Task) (queue.Status, string) {
	target := task.TargetPosition
	if target == 0 {
		position, ok := e.store.FirstEmpty()
		if !ok {
			return queue.StatusFailed, "no empty position available"
		}
		target = position.ID
		e.queue.Bind(task, target)
	}

	if err := e.store.Store(target, task.ProductID); err != nil {
		return queue.StatusFailed, err.Error()
	}

	// The logical store is not rolled back on LED failure; the indicator
	// stays stale until the next refresh reconciles it.
	if err := e.port.WriteLED(ctx, target, true); err != nil {
		e.logger.Warn("led write failed after store",
			logging.Int(logging.FieldPosition, target),
			logging.Error(err))
		return queue.StatusFailed,
			fmt.Sprintf("stored %s in position %d but led write failed: %v", task.ProductID, target, err)
	}

	return queue.StatusCompleted, fmt.Sprintf("stored %s in position %d", task.ProductID, target)
}

func (e *Executor) executeRetrieve(ctx context.Context, task *queue.Task) (queue.Status, string) {
	productID, err := e.store.Retrieve(task.TargetPosition)
	if err != nil {
		return queue.StatusFailed, err.Error()
	}

	if err := e.port.WriteLED(ctx, task.TargetPosition, false); err != nil {
		e.logger.Warn("led write failed after retrieve",
			logging.Int(logging.FieldPosition, task.TargetPosition),
			logging.Error(err))
		return queue.StatusFailed,
			fmt.Sprintf("retrieved %s from position %d but led write failed: %v", productID, task.TargetPosition, err)
	}

	return queue.StatusCompleted,
		fmt.Sprintf("retrieved %s from position %d", productID, task.TargetPosition)
}

// executeRefresh reconciles every LED with logical occupancy. Individual
// write failures are tolerated; the task fails only when nothing could be
// written at all.
func (e *Executor) executeRefresh(ctx context.Context) (queue.Status, string) {
	positions := e.store.Snapshot()
	failed := 0
	for _, position := range positions {
		if err := e.port.WriteLED(ctx, position.ID, position.Occupied()); err != nil {
			failed++
			e.logger.Warn("led refresh write failed",
				logging.Int(logging.FieldPosition, position.ID),
				logging.Error(err))
		}
	}

	if failed == len(positions) && len(positions) > 0 {
		return queue.StatusFailed, "all led writes failed"
	}
	if failed > 0 {
		return queue.StatusCompleted,
			fmt.Sprintf("refreshed %d leds, %d writes failed", len(positions)-failed, failed)
	}
	return queue.StatusCompleted, fmt.Sprintf("refreshed %d leds", len(positions))
}
