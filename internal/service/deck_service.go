package service

import (
	"context"
	"log/slog"

	"github.com/phrazzld/scry-decks/internal/domain"
	"github.com/phrazzld/scry-decks/internal/platform/logger"
	"github.com/phrazzld/scry-decks/internal/store"
)

// DeckService manages the decks of the configured user.
type DeckService interface {
	// ListDecks returns the user's decks ordered by id.
	ListDecks(ctx context.Context) ([]domain.Deck, error)
	GetDeck(ctx context.Context, id int) (*domain.Deck, error)
	CreateDeck(ctx context.Context, form domain.DeckForm) (*domain.Deck, error)
	UpdateDeck(ctx context.Context, id int, form domain.DeckForm) (int64, error)
	DeleteDeck(ctx context.Context, id int) (int64, error)
}

type deckServiceImpl struct {
	decks  store.DeckStore
	userID int
	logger *slog.Logger
}

// NewDeckService creates a DeckService for the decks of userID.
func NewDeckService(decks store.DeckStore, userID int, log *slog.Logger) DeckService {
	if decks == nil {
		panic("deck store cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return &deckServiceImpl{
		decks:  decks,
		userID: userID,
		logger: log.With(slog.String("component", "deck_service")),
	}
}

func (s *deckServiceImpl) ListDecks(ctx context.Context) ([]domain.Deck, error) {
	decks, err := s.decks.ListByUser(ctx, s.userID)
	if err != nil {
		return nil, NewServiceError("list decks", "failed to list decks", err)
	}
	return decks, nil
}

func (s *deckServiceImpl) GetDeck(ctx context.Context, id int) (*domain.Deck, error) {
	d, err := s.decks.Get(ctx, id, s.userID)
	if err != nil {
		return nil, NewServiceError("get deck", "failed to retrieve deck", err)
	}
	return d, nil
}

func (s *deckServiceImpl) CreateDeck(ctx context.Context, form domain.DeckForm) (*domain.Deck, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	d, err := s.decks.Create(ctx, s.userID, form)
	if err != nil {
		return nil, NewServiceError("create deck", "failed to create deck", err)
	}

	log.Info("deck created", slog.Int("deck_id", d.ID), slog.String("languages", d.Languages()))
	return d, nil
}

func (s *deckServiceImpl) UpdateDeck(ctx context.Context, id int, form domain.DeckForm) (int64, error) {
	n, err := s.decks.Update(ctx, id, s.userID, form)
	if err != nil {
		return 0, NewServiceError("update deck", "failed to update deck", err)
	}
	return n, nil
}

func (s *deckServiceImpl) DeleteDeck(ctx context.Context, id int) (int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	n, err := s.decks.Delete(ctx, id, s.userID)
	if err != nil {
		return 0, NewServiceError("delete deck", "failed to delete deck", err)
	}

	log.Info("deck deleted", slog.Int("deck_id", id))
	return n, nil
}
