package queue

import "errors"

var (
	// ErrValidation marks malformed input rejected at submit time.
	ErrValidation = errors.New("invalid task")
	// ErrConflict marks a task whose target position is not in the required
	// state, or already claimed by a pending or running task.
	ErrConflict = errors.New("conflicting task")
	// ErrNotAccepting is returned while the emergency latch is set: no new
	// physical work may be queued until an explicit resume.
	ErrNotAccepting = errors.New("queue is not accepting tasks")
)
