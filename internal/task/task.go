package task

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// TaskStatus represents the current state of a task.
type TaskStatus string

// Possible task status values.
const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusProcessing TaskStatus = "processing"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusFailed     TaskStatus = "failed"
)

// Task type constants.
const (
	// TaskTypeExampleGeneration fills in example_text for a card.
	TaskTypeExampleGeneration = "example_generation"
)

// ErrUnknownTaskType is returned when a stored task has no registered restorer.
var ErrUnknownTaskType = errors.New("unknown task type")

// Task represents a unit of background work to be processed.
type Task interface {
	ID() uuid.UUID
	Type() string
	// Payload returns the data needed to rebuild the task after a restart.
	Payload() []byte
	Status() TaskStatus
	Execute(ctx context.Context) error
}

// Record is a task as stored in the database.
type Record struct {
	ID           uuid.UUID
	Type         string
	Payload      []byte
	Status       TaskStatus
	ErrorMessage string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TaskStore defines the interface for persisting tasks.
type TaskStore interface {
	// SaveTask persists a new task.
	SaveTask(ctx context.Context, task Task) error

	// UpdateTaskStatus sets the status and error message of a task.
	UpdateTaskStatus(ctx context.Context, taskID uuid.UUID, status TaskStatus, errorMsg string) error

	// GetPendingTasks returns all pending tasks, oldest first.
	GetPendingTasks(ctx context.Context) ([]Record, error)

	// GetProcessingTasks returns processing tasks. If olderThan is non-zero,
	// only tasks that have not been updated for that long are returned.
	GetProcessingTasks(ctx context.Context, olderThan time.Duration) ([]Record, error)

	// WithTx returns a TaskStore that uses the provided transaction.
	WithTx(tx *sql.Tx) TaskStore
}

// Restorer rebuilds an executable task from its stored id and payload.
type Restorer func(id uuid.UUID, payload []byte) (Task, error)

// Registry maps task types to restorers.
type Registry struct {
	mu        sync.RWMutex
	restorers map[string]Restorer
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{restorers: make(map[string]Restorer)}
}

// Register sets the restorer for taskType, replacing any previous one.
func (r *Registry) Register(taskType string, restore Restorer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.restorers[taskType] = restore
}

// Restore rebuilds the task described by rec.
func (r *Registry) Restore(rec Record) (Task, error) {
	r.mu.RLock()
	restore, ok := r.restorers[rec.Type]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTaskType, rec.Type)
	}
	return restore(rec.ID, rec.Payload)
}
