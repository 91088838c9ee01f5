package task

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/scry-decks/internal/events"
)

// Submitter accepts tasks for background execution. *TaskRunner satisfies it.
type Submitter interface {
	Submit(ctx context.Context, task Task) error
}

// ExampleTaskCreator builds example generation tasks.
// *ExampleTaskFactory satisfies it.
type ExampleTaskCreator interface {
	CreateTask(cardID, deckID, userID int) (Task, error)
}

// CardCreatedHandler turns card.created events into example generation
// tasks.
type CardCreatedHandler struct {
	factory ExampleTaskCreator
	runner  Submitter
	logger  *slog.Logger
}

var _ events.EventHandler = (*CardCreatedHandler)(nil)

// NewCardCreatedHandler creates the handler.
func NewCardCreatedHandler(factory ExampleTaskCreator, runner Submitter, log *slog.Logger) *CardCreatedHandler {
	if factory == nil {
		panic("task factory cannot be nil")
	}
	if runner == nil {
		panic("task runner cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return &CardCreatedHandler{
		factory: factory,
		runner:  runner,
		logger:  log.With(slog.String("component", "card_created_handler")),
	}
}

// HandleEvent submits a task for card.created events and ignores other types.
func (h *CardCreatedHandler) HandleEvent(ctx context.Context, event *events.Event) error {
	if event == nil || event.Type != events.CardCreated {
		return nil
	}

	var payload events.CardCreatedPayload
	if err := event.UnmarshalPayload(&payload); err != nil {
		return fmt.Errorf("invalid %s payload: %w", events.CardCreated, err)
	}

	task, err := h.factory.CreateTask(payload.CardID, payload.DeckID, payload.UserID)
	if err != nil {
		return fmt.Errorf("failed to create example task: %w", err)
	}

	if err := h.runner.Submit(ctx, task); err != nil {
		return fmt.Errorf("failed to submit example task: %w", err)
	}

	h.logger.InfoContext(ctx, "example task submitted",
		"task_id", task.ID(),
		"card_id", payload.CardID,
		"event_id", event.ID)
	return nil
}
