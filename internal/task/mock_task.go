package task

import (
	"context"
	"sync/atomic"

	"github.com/google/uuid"
)

// MockTask is a configurable Task for tests. It counts executions.
type MockTask struct {
	TaskID    uuid.UUID
	TaskType  string
	ExecuteFn func(ctx context.Context) error

	calls atomic.Int32
}

// NewMockTask creates a MockTask whose Execute runs fn (nil means succeed).
func NewMockTask(taskType string, fn func(ctx context.Context) error) *MockTask {
	if fn == nil {
		fn = func(context.Context) error { return nil }
	}
	return &MockTask{
		TaskID:    uuid.New(),
		TaskType:  taskType,
		ExecuteFn: fn,
	}
}

// ID returns the task's unique identifier
func (t *MockTask) ID() uuid.UUID {
	return t.TaskID
}

// Type returns the task type identifier
func (t *MockTask) Type() string {
	return t.TaskType
}

// Execute runs ExecuteFn and records the call
func (t *MockTask) Execute(ctx context.Context) error {
	t.calls.Add(1)
	return t.ExecuteFn(ctx)
}

// Calls returns how many times Execute ran.
func (t *MockTask) Calls() int {
	return int(t.calls.Load())
}
