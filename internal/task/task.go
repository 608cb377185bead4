package task

import (
	"context"

	"github.com/google/uuid"
)

// Task represents a unit of background work to be processed
type Task interface {
	// ID returns the task's unique identifier
	ID() uuid.UUID

	// Type returns the task type identifier
	Type() string

	// Execute runs the task logic
	Execute(ctx context.Context) error
}

// TaskQueueReader provides read-only access to the task channel
// allowing workers to consume tasks without the ability to enqueue
type TaskQueueReader interface {
	// GetChannel returns a read-only channel for consuming tasks
	GetChannel() <-chan Task
}

// TaskQueueWriter provides write access to the task queue
// allowing services to enqueue tasks for processing
type TaskQueueWriter interface {
	// Enqueue adds a task to the queue without blocking.
	// Returns ErrQueueFull or ErrQueueClosed.
	Enqueue(task Task) error

	// EnqueueContext adds a task to the queue, waiting for buffer space
	// until ctx is done or the queue is closed.
	EnqueueContext(ctx context.Context, task Task) error
}
