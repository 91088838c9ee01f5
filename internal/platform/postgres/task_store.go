package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-decks/internal/platform/logger"
	"github.com/phrazzld/scry-decks/internal/store"
	"github.com/phrazzld/scry-decks/internal/task"
)

const taskColumns = `id, type, payload, status, error_message, created_at, updated_at`

// PostgresTaskStore implements task.TaskStore.
type PostgresTaskStore struct {
	db     store.DBTX
	logger *slog.Logger
	now    func() time.Time
}

// NewPostgresTaskStore creates a task store on db.
func NewPostgresTaskStore(db store.DBTX, logger *slog.Logger) *PostgresTaskStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresTaskStore{
		db:     db,
		logger: logger.With(slog.String("component", "task_store")),
		now:    time.Now,
	}
}

var _ task.TaskStore = (*PostgresTaskStore)(nil)

// SaveTask inserts the task with its current status.
func (s *PostgresTaskStore) SaveTask(ctx context.Context, t task.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	payload := t.Payload()
	if len(payload) == 0 {
		payload = []byte("{}")
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO tasks (id, type, payload, status) VALUES ($1, $2, $3, $4)`,
		t.ID(), t.Type(), payload, string(t.Status()))
	if err != nil {
		log.Error("failed to save task",
			slog.String("task_id", t.ID().String()),
			slog.String("task_type", t.Type()),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to save task: %w", MapError(err, store.ErrTaskNotFound))
	}
	return nil
}

// UpdateTaskStatus sets the status. An empty errorMsg clears the stored
// message. Updating a task that no longer exists is not an error.
func (s *PostgresTaskStore) UpdateTaskStatus(
	ctx context.Context,
	taskID uuid.UUID,
	status task.TaskStatus,
	errorMsg string,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx,
		`UPDATE tasks SET status = $1, error_message = NULLIF($2, '') WHERE id = $3`,
		string(status), errorMsg, taskID)
	if err != nil {
		log.Error("failed to update task status",
			slog.String("task_id", taskID.String()),
			slog.String("status", string(status)),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to update task status: %w", MapError(err, store.ErrTaskNotFound))
	}

	if _, err := rowsAffected(result, store.ErrTaskNotFound); err != nil {
		if store.IsNotFoundError(err) {
			log.Warn("no task found to update status", slog.String("task_id", taskID.String()))
			return nil
		}
		return err
	}
	return nil
}

// GetPendingTasks returns all pending tasks, oldest first.
func (s *PostgresTaskStore) GetPendingTasks(ctx context.Context) ([]task.Record, error) {
	return s.tasksByStatus(ctx, task.TaskStatusPending, 0)
}

// GetProcessingTasks returns processing tasks not updated for olderThan.
func (s *PostgresTaskStore) GetProcessingTasks(ctx context.Context, olderThan time.Duration) ([]task.Record, error) {
	return s.tasksByStatus(ctx, task.TaskStatusProcessing, olderThan)
}

func (s *PostgresTaskStore) tasksByStatus(
	ctx context.Context,
	status task.TaskStatus,
	olderThan time.Duration,
) ([]task.Record, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + taskColumns + ` FROM tasks WHERE status = $1`
	args := []any{string(status)}
	if olderThan > 0 {
		query += ` AND updated_at < $2`
		args = append(args, s.now().UTC().Add(-olderThan))
	}
	query += ` ORDER BY created_at`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query tasks",
			slog.String("status", string(status)),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	records := []task.Record{}
	for rows.Next() {
		var (
			rec    task.Record
			st     string
			errMsg sql.NullString
		)
		if err := rows.Scan(&rec.ID, &rec.Type, &rec.Payload, &st, &errMsg, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		rec.Status = task.TaskStatus(st)
		rec.ErrorMessage = errMsg.String
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tasks: %w", err)
	}
	return records, nil
}

// WithTx returns a store that runs on tx.
func (s *PostgresTaskStore) WithTx(tx *sql.Tx) task.TaskStore {
	return &PostgresTaskStore{db: tx, logger: s.logger, now: s.now}
}
