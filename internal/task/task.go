package task

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

// TaskStatus represents the current state of a task
type TaskStatus string

// Possible task status values
const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusProcessing TaskStatus = "processing"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusFailed     TaskStatus = "failed"
)

// TaskTypeKnowledgeIngest chunks and embeds an uploaded knowledge document.
const TaskTypeKnowledgeIngest = "knowledge_ingest"

var (
	ErrQueueFull       = errors.New("task queue is full")
	ErrUnknownTaskType = errors.New("no factory registered for task type")
)

// Task represents a unit of background work to be processed
type Task interface {
	ID() uuid.UUID
	Type() string
	// Payload is the JSON stored with the task and handed back to its
	// Factory on recovery.
	Payload() []byte
	Status() TaskStatus
	Execute(ctx context.Context) error
}

// Record is the persisted form of a task.
type Record struct {
	ID           uuid.UUID
	Type         string
	Payload      []byte
	Status       TaskStatus
	ErrorMessage string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Factory rebuilds an executable task from its record.
type Factory func(rec Record) (Task, error)

// TaskStore defines the interface for persisting tasks
type TaskStore interface {
	// SaveTask persists a new task in pending state.
	SaveTask(ctx context.Context, task Task) error

	// UpdateTaskStatus updates the status of a task. Updating an unknown
	// task is a no-op.
	UpdateTaskStatus(ctx context.Context, taskID uuid.UUID, status TaskStatus, errorMsg string) error

	// GetPendingTasks returns pending tasks, oldest first.
	GetPendingTasks(ctx context.Context) ([]Record, error)

	// GetProcessingTasks returns processing tasks, oldest first. A non-zero
	// olderThan restricts the result to tasks not updated for that long.
	GetProcessingTasks(ctx context.Context, olderThan time.Duration) ([]Record, error)

	WithTx(tx *sql.Tx) TaskStore
}
