package service

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/phrazzld/scry-decks/internal/domain"
	"github.com/phrazzld/scry-decks/internal/events"
	"github.com/phrazzld/scry-decks/internal/platform/logger"
	"github.com/phrazzld/scry-decks/internal/redact"
	"github.com/phrazzld/scry-decks/internal/store"
)

// CardService manages cards inside the configured user's decks. A deck of
// another user behaves as if it did not exist.
type CardService interface {
	ListCards(ctx context.Context, deckID int) ([]domain.Card, error)
	GetCard(ctx context.Context, deckID, id int) (*domain.Card, error)
	// CreateCard stores the card and, when it has no example text, emits
	// events.CardCreated so one can be generated.
	CreateCard(ctx context.Context, deckID int, form domain.CardForm) (*domain.Card, error)
	UpdateCard(ctx context.Context, deckID, id int, form domain.CardForm) (int64, error)
	DeleteCard(ctx context.Context, deckID, id int) (int64, error)
}

type cardServiceImpl struct {
	db      *sql.DB
	cards   store.CardStore
	decks   store.DeckStore
	emitter events.EventEmitter
	userID  int
	logger  *slog.Logger
}

// NewCardService creates a CardService. A nil emitter disables events.
func NewCardService(
	db *sql.DB,
	cards store.CardStore,
	decks store.DeckStore,
	emitter events.EventEmitter,
	userID int,
	log *slog.Logger,
) CardService {
	if db == nil {
		panic("db cannot be nil")
	}
	if cards == nil {
		panic("card store cannot be nil")
	}
	if decks == nil {
		panic("deck store cannot be nil")
	}
	if emitter == nil {
		emitter = events.NoopEmitter{}
	}
	if log == nil {
		log = slog.Default()
	}
	return &cardServiceImpl{
		db:      db,
		cards:   cards,
		decks:   decks,
		emitter: emitter,
		userID:  userID,
		logger:  log.With(slog.String("component", "card_service")),
	}
}

// inOwnedDeck runs fn in a transaction after checking that the deck belongs
// to the user.
func (s *cardServiceImpl) inOwnedDeck(ctx context.Context, deckID int, fn func(cards store.CardStore) error) error {
	return store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		if _, err := s.decks.WithTx(tx).Get(ctx, deckID, s.userID); err != nil {
			return err
		}
		return fn(s.cards.WithTx(tx))
	})
}

func (s *cardServiceImpl) ListCards(ctx context.Context, deckID int) ([]domain.Card, error) {
	if _, err := s.decks.Get(ctx, deckID, s.userID); err != nil {
		return nil, NewServiceError("list cards", "failed to retrieve deck", err)
	}
	cards, err := s.cards.ListByDeck(ctx, deckID)
	if err != nil {
		return nil, NewServiceError("list cards", "failed to list cards", err)
	}
	return cards, nil
}

func (s *cardServiceImpl) GetCard(ctx context.Context, deckID, id int) (*domain.Card, error) {
	if _, err := s.decks.Get(ctx, deckID, s.userID); err != nil {
		return nil, NewServiceError("get card", "failed to retrieve deck", err)
	}
	c, err := s.cards.Get(ctx, deckID, id)
	if err != nil {
		return nil, NewServiceError("get card", "failed to retrieve card", err)
	}
	return c, nil
}

func (s *cardServiceImpl) CreateCard(ctx context.Context, deckID int, form domain.CardForm) (*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var card *domain.Card
	err := s.inOwnedDeck(ctx, deckID, func(cards store.CardStore) error {
		var err error
		card, err = cards.Create(ctx, deckID, form)
		return err
	})
	if err != nil {
		return nil, NewServiceError("create card", "failed to create card", err)
	}

	log.Info("card created", slog.Int("card_id", card.ID), slog.Int("deck_id", deckID))

	if card.ExampleText == nil {
		s.emitCardCreated(ctx, card)
	}
	return card, nil
}

// emitCardCreated publishes the event. The card is already stored, so a
// failure is logged and not returned.
func (s *cardServiceImpl) emitCardCreated(ctx context.Context, card *domain.Card) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	event, err := events.NewEvent(events.CardCreated, events.CardCreatedPayload{
		CardID: card.ID,
		DeckID: card.DeckID,
		UserID: s.userID,
	})
	if err == nil {
		err = s.emitter.EmitEvent(ctx, event)
	}
	if err != nil {
		log.Warn("failed to emit card created event",
			slog.Int("card_id", card.ID),
			slog.String("error", redact.Error(err)))
	}
}

func (s *cardServiceImpl) UpdateCard(ctx context.Context, deckID, id int, form domain.CardForm) (int64, error) {
	var n int64
	err := s.inOwnedDeck(ctx, deckID, func(cards store.CardStore) error {
		var err error
		n, err = cards.Update(ctx, deckID, id, form)
		return err
	})
	if err != nil {
		return 0, NewServiceError("update card", "failed to update card", err)
	}
	return n, nil
}

func (s *cardServiceImpl) DeleteCard(ctx context.Context, deckID, id int) (int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var n int64
	err := s.inOwnedDeck(ctx, deckID, func(cards store.CardStore) error {
		var err error
		n, err = cards.Delete(ctx, deckID, id)
		return err
	})
	if err != nil {
		return 0, NewServiceError("delete card", "failed to delete card", err)
	}

	log.Info("card deleted", slog.Int("card_id", id), slog.Int("deck_id", deckID))
	return n, nil
}
