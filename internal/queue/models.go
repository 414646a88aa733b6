package queue

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Kind identifies the physical operation a task performs.
type Kind string

const (
	KindStore          Kind = "store"
	KindRetrieve       Kind = "retrieve"
	KindRefreshDisplay Kind = "refresh_display"
)

var allKinds = []Kind{KindStore, KindRetrieve, KindRefreshDisplay}

// ParseKind converts a string into a known Kind.
func ParseKind(value string) (Kind, bool) {
	kind := Kind(strings.ToLower(strings.TrimSpace(value)))
	for _, known := range allKinds {
		if kind == known {
			return kind, true
		}
	}
	return "", false
}

// Status represents the lifecycle of a task. Transitions are forward-only:
// Pending -> Running -> {Completed | Failed}, or Pending -> Cancelled, or
// Running -> Cancelled on emergency override.
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
)

// Terminal reports whether the status is final.
func (s Status) Terminal() bool {
	switch s {
	case StatusCompleted, StatusFailed, StatusCancelled:
		return true
	default:
		return false
	}
}

var allowedTransitions = map[Status][]Status{
	StatusPending: {StatusRunning, StatusCancelled},
	StatusRunning: {StatusCompleted, StatusFailed, StatusCancelled},
}

func transitionAllowed(from, to Status) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// EmergencyStopReason is the result recorded on tasks cancelled by the
// emergency stop path.
const EmergencyStopReason = "emergency stop activated"

// Task is one queued physical operation. A task is owned by its submitter
// until accepted, by the queue while pending, and by the executor from
// dequeue until a terminal status; afterwards it lives only in the bounded
// history rings.
type Task struct {
	ID             string
	Kind           Kind
	TargetPosition int // 0 means unresolved (Store only)
	ProductID      string
	Status         Status
	Result         string
	CreatedAt      time.Time
	StartedAt      time.Time
	CompletedAt    time.Time
}

func newTask(kind Kind) *Task {
	now := time.Now()
	return &Task{
		ID:        fmt.Sprintf("%s-%s-%s", kind, now.Format("150405"), uuid.NewString()[:8]),
		Kind:      kind,
		Status:    StatusPending,
		CreatedAt: now,
	}
}

// NewStoreTask builds a store task. Position 0 means "first empty position",
// resolved when the task executes.
func NewStoreTask(productID string, position int) *Task {
	task := newTask(KindStore)
	task.ProductID = strings.TrimSpace(productID)
	task.TargetPosition = position
	return task
}

// NewRetrieveTask builds a retrieve task for an explicit position.
func NewRetrieveTask(position int) *Task {
	task := newTask(KindRetrieve)
	task.TargetPosition = position
	return task
}

// NewRefreshDisplayTask builds a task that reconciles every LED with the
// logical occupancy state.
func NewRefreshDisplayTask() *Task {
	return newTask(KindRefreshDisplay)
}
