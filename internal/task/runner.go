package task

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// TaskRunnerConfig holds configuration for the task runner
type TaskRunnerConfig struct {
	// WorkerCount determines how many concurrent workers process tasks
	WorkerCount int

	// QueueSize determines the buffer size for the in-memory task queue
	QueueSize int

	// StuckTaskAge defines how long a task can be in processing state
	// before it's considered stuck and reset
	StuckTaskAge time.Duration

	// StuckTaskCheckInterval defines how often to check for stuck tasks.
	// Zero means five minutes.
	StuckTaskCheckInterval time.Duration
}

// DefaultTaskRunnerConfig returns a TaskRunnerConfig with reasonable defaults
func DefaultTaskRunnerConfig() TaskRunnerConfig {
	return TaskRunnerConfig{
		WorkerCount:            2,
		QueueSize:              100,
		StuckTaskAge:           30 * time.Minute,
		StuckTaskCheckInterval: 5 * time.Minute,
	}
}

// TaskRunner manages background task processing
type TaskRunner struct {
	store      TaskStore
	taskChan   chan Task
	ctx        context.Context
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
	config     TaskRunnerConfig
	logger     *slog.Logger
	errHandler func(task Task, err error)

	mu        sync.RWMutex
	factories map[string]Factory
	stopOnce  sync.Once
}

// NewTaskRunner creates a new TaskRunner
func NewTaskRunner(store TaskStore, config TaskRunnerConfig, logger *slog.Logger) *TaskRunner {
	if config.StuckTaskCheckInterval == 0 {
		config.StuckTaskCheckInterval = 5 * time.Minute
	}
	if config.WorkerCount <= 0 {
		config.WorkerCount = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "task_runner"))

	ctx, cancel := context.WithCancel(context.Background())

	return &TaskRunner{
		store:      store,
		taskChan:   make(chan Task, config.QueueSize),
		ctx:        ctx,
		cancelFunc: cancel,
		config:     config,
		logger:     logger,
		factories:  make(map[string]Factory),
		errHandler: func(task Task, err error) {
			logger.Error("task execution failed",
				slog.String("task_id", task.ID().String()),
				slog.String("task_type", task.Type()),
				slog.String("error", err.Error()))
		},
	}
}

// SetErrorHandler allows setting a custom error handler function
func (r *TaskRunner) SetErrorHandler(handler func(task Task, err error)) {
	r.errHandler = handler
}

// RegisterFactory makes tasks of taskType recoverable and buildable from events.
func (r *TaskRunner) RegisterFactory(taskType string, f Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[taskType] = f
}

// Build creates a task from a record using the registered factory.
func (r *TaskRunner) Build(rec Record) (Task, error) {
	r.mu.RLock()
	f, ok := r.factories[rec.Type]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTaskType, rec.Type)
	}
	return f(rec)
}

// Submit persists task and adds it to the queue
func (r *TaskRunner) Submit(ctx context.Context, task Task) error {
	if err := r.store.SaveTask(ctx, task); err != nil {
		return fmt.Errorf("failed to save task: %w", err)
	}

	select {
	case r.taskChan <- task:
		return nil
	default:
		// The record stays pending and is picked up by the next recovery.
		return ErrQueueFull
	}
}

// Start recovers unfinished tasks and starts the workers.
func (r *TaskRunner) Start(ctx context.Context) error {
	if err := r.Recover(ctx); err != nil {
		return fmt.Errorf("failed to recover tasks: %w", err)
	}

	for i := 0; i < r.config.WorkerCount; i++ {
		r.wg.Add(1)
		go r.worker(i)
	}

	r.wg.Add(1)
	go r.stuckTaskMonitor()

	return nil
}

// Stop cancels the workers and waits for in-flight tasks to return.
func (r *TaskRunner) Stop() {
	r.stopOnce.Do(func() {
		r.cancelFunc()
		r.wg.Wait()
	})
}

// Recover requeues pending tasks and resets processing tasks left by a
// previous run.
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
		slog.Int("pending_count", len(pending)),
		slog.Int("processing_count", len(processing)))

	for _, rec := range pending {
		r.requeue(ctx, rec, false)
	}
	for _, rec := range processing {
		r.requeue(ctx, rec, true)
	}

	return nil
}

func (r *TaskRunner) requeue(ctx context.Context, rec Record, reset bool) {
	log := r.logger.With(
		slog.String("task_id", rec.ID.String()),
		slog.String("task_type", rec.Type))

	task, err := r.Build(rec)
	if err != nil {
		log.Error("cannot rebuild task", slog.String("error", err.Error()))
		if updErr := r.store.UpdateTaskStatus(ctx, rec.ID, TaskStatusFailed, err.Error()); updErr != nil {
			log.Error("failed to mark task failed", slog.String("error", updErr.Error()))
		}
		return
	}

	if reset {
		if err := r.store.UpdateTaskStatus(ctx, rec.ID, TaskStatusPending, "reset after recovery"); err != nil {
			log.Error("failed to reset task status", slog.String("error", err.Error()))
			return
		}
	}

	select {
	case r.taskChan <- task:
	default:
		log.Error("failed to requeue task, queue is full")
	}
}

func (r *TaskRunner) worker(id int) {
	defer r.wg.Done()

	r.logger.Debug("starting worker", slog.Int("worker_id", id))

	for {
		select {
		case <-r.ctx.Done():
			r.logger.Debug("stopping worker", slog.Int("worker_id", id))
			return
		case task := <-r.taskChan:
			r.processTask(task, id)
		}
	}
}

func (r *TaskRunner) processTask(task Task, workerID int) {
	ctx := r.ctx
	log := r.logger.With(
		slog.String("task_id", task.ID().String()),
		slog.String("task_type", task.Type()),
		slog.Int("worker_id", workerID))

	if err := r.store.UpdateTaskStatus(ctx, task.ID(), TaskStatusProcessing, ""); err != nil {
		log.Error("failed to update task status to processing", slog.String("error", err.Error()))
		return
	}

	start := time.Now()
	log.Info("processing task")

	if err := task.Execute(ctx); err != nil {
		if updErr := r.store.UpdateTaskStatus(ctx, task.ID(), TaskStatusFailed, err.Error()); updErr != nil {
			log.Error("failed to update task status to failed", slog.String("error", updErr.Error()))
		}
		r.errHandler(task, err)
		return
	}

	log.Info("task completed", slog.Duration("duration", time.Since(start)))
	if err := r.store.UpdateTaskStatus(ctx, task.ID(), TaskStatusCompleted, ""); err != nil {
		log.Error("failed to update task status to completed", slog.String("error", err.Error()))
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
			stuck, err := r.store.GetProcessingTasks(r.ctx, r.config.StuckTaskAge)
			if err != nil {
				r.logger.Error("failed to check for stuck tasks", slog.String("error", err.Error()))
				continue
			}
			if len(stuck) > 0 {
				r.logger.Info("found stuck tasks", slog.Int("count", len(stuck)))
			}
			for _, rec := range stuck {
				r.requeue(r.ctx, rec, true)
			}
		}
	}
}
