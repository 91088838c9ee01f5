package task

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/phrazzld/scry-decks/internal/config"
	"github.com/phrazzld/scry-decks/internal/platform/logger"
	"github.com/phrazzld/scry-decks/internal/redact"
)

// TaskRunnerConfig holds configuration for the task runner.
type TaskRunnerConfig struct {
	// WorkerCount determines how many concurrent workers process tasks.
	WorkerCount int

	// QueueSize determines the buffer size for the in-memory task queue.
	QueueSize int

	// StuckTaskAge defines how long a task can stay in processing state
	// before it is reset and requeued.
	StuckTaskAge time.Duration

	// StuckTaskCheckInterval defines how often to check for stuck tasks.
	// If zero, defaults to 5 minutes.
	StuckTaskCheckInterval time.Duration
}

// DefaultTaskRunnerConfig returns a TaskRunnerConfig with reasonable defaults.
func DefaultTaskRunnerConfig() TaskRunnerConfig {
	return TaskRunnerConfig{
		WorkerCount:            2,
		QueueSize:              100,
		StuckTaskAge:           30 * time.Minute,
		StuckTaskCheckInterval: 5 * time.Minute,
	}
}

// RunnerConfigFrom converts the task section of the application config.
func RunnerConfigFrom(cfg config.TaskConfig) TaskRunnerConfig {
	rc := DefaultTaskRunnerConfig()
	if cfg.WorkerCount > 0 {
		rc.WorkerCount = cfg.WorkerCount
	}
	if cfg.QueueSize > 0 {
		rc.QueueSize = cfg.QueueSize
	}
	if cfg.StuckTaskAgeMinutes > 0 {
		rc.StuckTaskAge = time.Duration(cfg.StuckTaskAgeMinutes) * time.Minute
	}
	return rc
}

// TaskRunner manages background task processing.
type TaskRunner struct {
	store      TaskStore
	registry   *Registry
	queue      *TaskQueue
	ctx        context.Context
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
	stopOnce   sync.Once
	config     TaskRunnerConfig
	logger     *slog.Logger
	errHandler func(task Task, err error)
}

// NewTaskRunner creates a new TaskRunner. The registry is used to rebuild
// tasks loaded from the store during recovery.
func NewTaskRunner(store TaskStore, registry *Registry, config TaskRunnerConfig, log *slog.Logger) *TaskRunner {
	if store == nil {
		panic("task store cannot be nil")
	}
	if registry == nil {
		registry = NewRegistry()
	}
	if log == nil {
		log = slog.Default()
	}
	if config.StuckTaskCheckInterval == 0 {
		config.StuckTaskCheckInterval = 5 * time.Minute
	}
	log = log.With(slog.String("component", "task_runner"))

	ctx, cancel := context.WithCancel(context.Background())

	return &TaskRunner{
		store:      store,
		registry:   registry,
		queue:      NewTaskQueue(config.QueueSize, log),
		ctx:        ctx,
		cancelFunc: cancel,
		config:     config,
		logger:     log,
		errHandler: func(task Task, err error) {
			log.Error("task execution failed",
				"task_id", task.ID(),
				"task_type", task.Type(),
				"error", redact.Error(err))
		},
	}
}

// SetErrorHandler allows setting a custom error handler function.
func (r *TaskRunner) SetErrorHandler(handler func(task Task, err error)) {
	r.errHandler = handler
}

// Submit persists the task and adds it to the queue. A task that is saved
// but does not fit in the queue stays pending and is picked up on the next
// recovery.
func (r *TaskRunner) Submit(ctx context.Context, task Task) error {
	if err := r.store.SaveTask(ctx, task); err != nil {
		return fmt.Errorf("failed to save task: %w", err)
	}
	if err := r.queue.Enqueue(task); err != nil {
		return fmt.Errorf("task saved but not queued: %w", err)
	}
	return nil
}

// Start recovers unfinished tasks, then starts the workers and the stuck
// task monitor.
func (r *TaskRunner) Start() error {
	if err := r.Recover(r.ctx); err != nil {
		return fmt.Errorf("failed to recover tasks: %w", err)
	}

	for i := 0; i < r.config.WorkerCount; i++ {
		r.wg.Add(1)
		go r.worker(i)
	}

	r.wg.Add(1)
	go r.stuckTaskMonitor()

	r.logger.Info("task runner started", "workers", r.config.WorkerCount)
	return nil
}

// Stop cancels the workers, waits for running tasks to finish and closes
// the queue. It is safe to call more than once.
func (r *TaskRunner) Stop() {
	r.stopOnce.Do(func() {
		r.cancelFunc()
		r.wg.Wait()
		r.queue.Close()
		r.logger.Info("task runner stopped")
	})
}

// Recover requeues pending tasks and resets tasks left in processing state
// by a previous run.
func (r *TaskRunner) Recover(ctx context.Context) error {
	pending, err := r.store.GetPendingTasks(ctx)
	if err != nil {
		return fmt.Errorf("failed to get pending tasks: %w", err)
	}

	processing, err := r.store.GetProcessingTasks(ctx, 0)
	if err != nil {
		return fmt.Errorf("failed to get processing tasks: %w", err)
	}

	r.logger.Info("recovering unfinished tasks",
		"pending_count", len(pending),
		"processing_count", len(processing))

	for _, rec := range pending {
		r.requeue(ctx, rec, false)
	}
	for _, rec := range processing {
		r.requeue(ctx, rec, true)
	}
	return nil
}

// requeue rebuilds rec and puts it back on the queue. Records of unknown
// types are marked failed so they are not recovered again.
func (r *TaskRunner) requeue(ctx context.Context, rec Record, reset bool) {
	log := r.logger.With("task_id", rec.ID, "task_type", rec.Type)

	task, err := r.registry.Restore(rec)
	if err != nil {
		log.Error("failed to restore task", "error", err)
		if updateErr := r.store.UpdateTaskStatus(ctx, rec.ID, TaskStatusFailed, err.Error()); updateErr != nil {
			log.Error("failed to mark unrestorable task as failed", "error", updateErr)
		}
		return
	}

	if reset {
		if err := r.store.UpdateTaskStatus(ctx, rec.ID, TaskStatusPending, "reset after recovery"); err != nil {
			log.Error("failed to reset task status", "error", err)
			return
		}
	}

	if err := r.queue.Enqueue(task); err != nil {
		log.Error("failed to requeue task", "error", err)
		return
	}
	log.Debug("task requeued")
}

func (r *TaskRunner) worker(id int) {
	defer r.wg.Done()

	r.logger.Debug("starting worker", "worker_id", id)

	for {
		select {
		case <-r.ctx.Done():
			r.logger.Debug("stopping worker", "worker_id", id)
			return

		case task, ok := <-r.queue.Channel():
			if !ok {
				r.logger.Debug("task channel closed, stopping worker", "worker_id", id)
				return
			}
			r.processTask(task, id)
		}
	}
}

// processTask runs one task and records its outcome. Tasks run on a
// context detached from Stop so a running task can finish its writes.
func (r *TaskRunner) processTask(task Task, workerID int) {
	log := r.logger.With(
		"task_id", task.ID(),
		"task_type", task.Type(),
		"worker_id", workerID,
	)
	ctx := logger.WithLogger(context.WithoutCancel(r.ctx), log)

	if err := r.store.UpdateTaskStatus(ctx, task.ID(), TaskStatusProcessing, ""); err != nil {
		log.Error("failed to update task status to processing", "error", err)
		return
	}

	log.Info("processing task")

	if err := task.Execute(ctx); err != nil {
		if updateErr := r.store.UpdateTaskStatus(ctx, task.ID(), TaskStatusFailed, redact.Error(err)); updateErr != nil {
			log.Error("failed to update task status to failed", "error", updateErr)
		}
		r.errHandler(task, err)
		return
	}

	log.Info("task completed successfully")
	if err := r.store.UpdateTaskStatus(ctx, task.ID(), TaskStatusCompleted, ""); err != nil {
		log.Error("failed to update task status to completed", "error", err)
	}
}

// stuckTaskMonitor periodically resets tasks that have been processing for
// longer than StuckTaskAge.
func (r *TaskRunner) stuckTaskMonitor() {
	defer r.wg.Done()

	ticker := time.NewTicker(r.config.StuckTaskCheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.ctx.Done():
			return
		case <-ticker.C:
			r.resetStuckTasks(r.ctx)
		}
	}
}

func (r *TaskRunner) resetStuckTasks(ctx context.Context) {
	stuck, err := r.store.GetProcessingTasks(ctx, r.config.StuckTaskAge)
	if err != nil {
		r.logger.Error("failed to check for stuck tasks", "error", err)
		return
	}
	if len(stuck) == 0 {
		return
	}

	r.logger.Info("found stuck tasks", "count", len(stuck))
	for _, rec := range stuck {
		r.requeue(ctx, rec, true)
	}
}
