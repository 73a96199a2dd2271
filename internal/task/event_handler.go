package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rehabdesk/rehabdesk-api/internal/events"
)

// TaskFactoryEventHandler turns task request events into submitted tasks.
// Events whose type has no registered factory are ignored.
type TaskFactoryEventHandler struct {
	runner *TaskRunner
	logger *slog.Logger
}

var _ events.EventHandler = (*TaskFactoryEventHandler)(nil)

// NewTaskFactoryEventHandler creates a handler submitting to runner.
func NewTaskFactoryEventHandler(runner *TaskRunner, logger *slog.Logger) *TaskFactoryEventHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskFactoryEventHandler{
		runner: runner,
		logger: logger.With(slog.String("component", "task_factory_event_handler")),
	}
}

// HandleEvent implements events.EventHandler.
func (h *TaskFactoryEventHandler) HandleEvent(ctx context.Context, event *events.TaskRequestEvent) error {
	log := h.logger.With(
		slog.String("event_id", event.ID.String()),
		slog.String("event_type", event.Type))

	task, err := h.runner.Build(Record{
		ID:        event.ID,
		Type:      event.Type,
		Payload:   event.Payload,
		Status:    TaskStatusPending,
		CreatedAt: event.CreatedAt,
	})
	if errors.Is(err, ErrUnknownTaskType) {
		log.DebugContext(ctx, "ignoring event with unsupported type")
		return nil
	}
	if err != nil {
		log.ErrorContext(ctx, "failed to create task", slog.String("error", err.Error()))
		return fmt.Errorf("failed to create task: %w", err)
	}

	if err := h.runner.Submit(ctx, task); err != nil {
		log.ErrorContext(ctx, "failed to submit task", slog.String("error", err.Error()))
		return fmt.Errorf("failed to submit task: %w", err)
	}

	log.InfoContext(ctx, "task submitted", slog.String("task_id", task.ID().String()))
	return nil
}
