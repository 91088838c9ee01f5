package task

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-decks/internal/domain"
	"github.com/phrazzld/scry-decks/internal/generation"
	"github.com/phrazzld/scry-decks/internal/platform/logger"
)

// Common errors.
var (
	ErrNilGenerator  = errors.New("generator cannot be nil")
	ErrNilCardStore  = errors.New("card store cannot be nil")
	ErrNilDeckStore  = errors.New("deck store cannot be nil")
	ErrNilLogger     = errors.New("logger cannot be nil")
	ErrInvalidTarget = errors.New("card, deck and user IDs must be positive")
)

// CardRepository is the card access an example task needs.
type CardRepository interface {
	Get(ctx context.Context, deckID, id int) (*domain.Card, error)
	SetExample(ctx context.Context, id int, text string) (bool, error)
}

// DeckRepository is the deck access an example task needs.
type DeckRepository interface {
	Get(ctx context.Context, id, userID int) (*domain.Deck, error)
}

// examplePayload is the serialized form stored in tasks.payload.
type examplePayload struct {
	CardID int `json:"card_id"`
	DeckID int `json:"deck_id"`
	UserID int `json:"user_id"`
}

func (p examplePayload) validate() error {
	if p.CardID <= 0 || p.DeckID <= 0 || p.UserID <= 0 {
		return ErrInvalidTarget
	}
	return nil
}

// ExampleTask generates an example sentence for one card and stores it,
// unless the card got one in the meantime.
type ExampleTask struct {
	id        uuid.UUID
	target    examplePayload
	cards     CardRepository
	decks     DeckRepository
	generator generation.Generator
	logger    *slog.Logger

	mu     sync.RWMutex
	status TaskStatus
}

// ID returns the task's unique identifier.
func (t *ExampleTask) ID() uuid.UUID {
	return t.id
}

// Type returns TaskTypeExampleGeneration.
func (t *ExampleTask) Type() string {
	return TaskTypeExampleGeneration
}

// Payload returns the card reference as JSON.
func (t *ExampleTask) Payload() []byte {
	data, err := json.Marshal(t.target)
	if err != nil {
		t.logger.Error("failed to marshal task payload", "error", err)
		return []byte("{}")
	}
	return data
}

// Status returns the current task status.
func (t *ExampleTask) Status() TaskStatus {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.status
}

func (t *ExampleTask) setStatus(s TaskStatus) {
	t.mu.Lock()
	t.status = s
	t.mu.Unlock()
}

// Execute loads the card and its deck, asks the generator for a sentence in
// the deck's source language and stores it.
func (t *ExampleTask) Execute(ctx context.Context) error {
	t.setStatus(TaskStatusProcessing)
	log := logger.FromContextOrDefault(ctx, t.logger).With(
		"card_id", t.target.CardID,
		"deck_id", t.target.DeckID,
	)

	if err := ctx.Err(); err != nil {
		t.setStatus(TaskStatusFailed)
		return fmt.Errorf("task cancelled by context: %w", err)
	}

	card, err := t.cards.Get(ctx, t.target.DeckID, t.target.CardID)
	if err != nil {
		t.setStatus(TaskStatusFailed)
		return fmt.Errorf("failed to load card: %w", err)
	}
	if card.ExampleText != nil {
		log.Info("card already has an example, skipping")
		t.setStatus(TaskStatusCompleted)
		return nil
	}

	deck, err := t.decks.Get(ctx, t.target.DeckID, t.target.UserID)
	if err != nil {
		t.setStatus(TaskStatusFailed)
		return fmt.Errorf("failed to load deck: %w", err)
	}

	req := generation.ExampleRequest{
		Language:    deck.FromLanguage,
		Text:        card.FromText,
		Translation: card.ToTextPrimary,
	}
	if card.ToTextSecondary != nil {
		req.SecondaryTranslation = *card.ToTextSecondary
	}

	text, err := t.generator.GenerateExample(ctx, req)
	if err != nil {
		t.setStatus(TaskStatusFailed)
		return fmt.Errorf("failed to generate example: %w", err)
	}

	changed, err := t.cards.SetExample(ctx, card.ID, text)
	if err != nil {
		t.setStatus(TaskStatusFailed)
		return fmt.Errorf("failed to store example: %w", err)
	}
	if changed {
		log.Info("example stored", "example_length", len(text))
	} else {
		log.Info("card got an example while generating, keeping it")
	}

	t.setStatus(TaskStatusCompleted)
	return nil
}

// ExampleTaskFactory creates ExampleTask instances.
type ExampleTaskFactory struct {
	cards     CardRepository
	decks     DeckRepository
	generator generation.Generator
	logger    *slog.Logger
}

// NewExampleTaskFactory creates a factory. All dependencies are required.
func NewExampleTaskFactory(
	cards CardRepository,
	decks DeckRepository,
	generator generation.Generator,
	log *slog.Logger,
) (*ExampleTaskFactory, error) {
	switch {
	case cards == nil:
		return nil, ErrNilCardStore
	case decks == nil:
		return nil, ErrNilDeckStore
	case generator == nil:
		return nil, ErrNilGenerator
	case log == nil:
		return nil, ErrNilLogger
	}
	return &ExampleTaskFactory{
		cards:     cards,
		decks:     decks,
		generator: generator,
		logger:    log.With(slog.String("component", "example_task")),
	}, nil
}

// CreateTask creates a pending task for the card.
func (f *ExampleTaskFactory) CreateTask(cardID, deckID, userID int) (Task, error) {
	return f.build(uuid.New(), examplePayload{CardID: cardID, DeckID: deckID, UserID: userID})
}

// Restore rebuilds a stored task. It satisfies Restorer.
func (f *ExampleTaskFactory) Restore(id uuid.UUID, payload []byte) (Task, error) {
	var p examplePayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return nil, fmt.Errorf("invalid %s payload: %w", TaskTypeExampleGeneration, err)
	}
	return f.build(id, p)
}

// Register adds the factory's restorer to registry.
func (f *ExampleTaskFactory) Register(registry *Registry) {
	registry.Register(TaskTypeExampleGeneration, f.Restore)
}

func (f *ExampleTaskFactory) build(id uuid.UUID, p examplePayload) (*ExampleTask, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	return &ExampleTask{
		id:        id,
		target:    p,
		cards:     f.cards,
		decks:     f.decks,
		generator: f.generator,
		logger:    f.logger.With("task_id", id),
		status:    TaskStatusPending,
	}, nil
}
