package review

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/phrazzld/scry-decks/internal/domain"
	"github.com/phrazzld/scry-decks/internal/domain/srs"
	"github.com/phrazzld/scry-decks/internal/platform/logger"
	"github.com/phrazzld/scry-decks/internal/service"
	"github.com/phrazzld/scry-decks/internal/store"
)

// Slide is what the review page shows at one position of a session.
type Slide struct {
	Deck     domain.Deck
	Card     domain.Card
	Index    int
	NumCards int
	DeckID   int
	// Side is the face requested in the URL.
	Side domain.Side
	// RandomSide is the face suggested for the next card.
	RandomSide domain.Side
	// Done is set past the last card; Card is then the end placeholder.
	Done bool
}

// Next is the index of the following card.
func (s Slide) Next() int {
	return s.Index + 1
}

// Service runs review sessions for the configured user.
type Service interface {
	// Start touches the deck's seen_at, orders its cards against the
	// previous visit and caches the order. It returns the session length.
	Start(ctx context.Context, deckID int) (int, error)

	// CardAt returns the slide at index. Index 0 on the "from" side starts
	// a new session.
	CardAt(ctx context.Context, deckID, index int, side domain.Side) (*Slide, error)

	// Show is CardAt for turning a card over: a cached session is kept as
	// it is. Without one, index 0 on the "from" side still starts it.
	Show(ctx context.Context, deckID, index int, side domain.Side) (*Slide, error)

	// Rate stores a review of the card shown at index and returns the index
	// to show next.
	Rate(ctx context.Context, deckID, index, cardID int, rating domain.Rating, seenFor int) (int, error)
}

// Options configures a Service.
type Options struct {
	UserID int
	// TTL bounds how long an idle session is kept. Zero keeps it until the
	// deck is opened again.
	TTL time.Duration
	// Now defaults to time.Now.
	Now func() time.Time
	// Intn defaults to math/rand.Intn.
	Intn func(n int) int
}

type serviceImpl struct {
	decks  store.DeckStore
	cards  store.CardStore
	order  srs.Service
	cache  *sessionCache
	userID int
	now    func() time.Time
	intn   func(n int) int
	logger *slog.Logger
}

// NewService creates a review Service.
func NewService(
	decks store.DeckStore,
	cards store.CardStore,
	order srs.Service,
	opts Options,
	log *slog.Logger,
) Service {
	if decks == nil {
		panic("deck store cannot be nil")
	}
	if cards == nil {
		panic("card store cannot be nil")
	}
	if order == nil {
		order = srs.NewDefaultService()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Intn == nil {
		opts.Intn = rand.Intn
	}
	if log == nil {
		log = slog.Default()
	}
	return &serviceImpl{
		decks:  decks,
		cards:  cards,
		order:  order,
		cache:  newSessionCache(opts.TTL, opts.Now),
		userID: opts.UserID,
		now:    opts.Now,
		intn:   opts.Intn,
		logger: log.With(slog.String("component", "review_service")),
	}
}

func (s *serviceImpl) Start(ctx context.Context, deckID int) (int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	previous, err := s.decks.Touch(ctx, deckID, s.userID, s.now().UTC())
	if err != nil {
		return 0, service.NewServiceError("start review", "failed to open deck", err)
	}

	cards, err := s.cards.ListByDeck(ctx, deckID)
	if err != nil {
		s.cache.drop(deckID)
		return 0, service.NewServiceError("start review", "failed to load cards", err)
	}

	ordered := s.order.Order(cards, previous.SeenAt)
	s.cache.put(*previous, ordered)

	log.Info("review started",
		slog.Int("deck_id", deckID),
		slog.Int("cards", len(ordered)),
		slog.Time("previous_seen_at", previous.SeenAt))
	return len(ordered), nil
}

func (s *serviceImpl) CardAt(ctx context.Context, deckID, index int, side domain.Side) (*Slide, error) {
	return s.slide(ctx, deckID, index, side, true)
}

func (s *serviceImpl) Show(ctx context.Context, deckID, index int, side domain.Side) (*Slide, error) {
	return s.slide(ctx, deckID, index, side, false)
}

func (s *serviceImpl) slide(ctx context.Context, deckID, index int, side domain.Side, restart bool) (*Slide, error) {
	if index < 0 {
		return nil, service.NewServiceError("show card", "index must not be negative", service.ErrInvalidInput)
	}
	if index == 0 && side == domain.SideFrom {
		if _, cached := s.cache.deck(deckID); restart || !cached {
			if _, err := s.Start(ctx, deckID); err != nil {
				return nil, err
			}
		}
	}

	slide := &Slide{
		Index:      index,
		DeckID:     deckID,
		Side:       side,
		RandomSide: s.randomSide(),
	}

	deck, card, n, ok := s.cache.at(deckID, index)
	if !ok {
		d, err := s.decks.Get(ctx, deckID, s.userID)
		if err != nil {
			return nil, service.NewServiceError("show card", "failed to retrieve deck", err)
		}
		deck, card = *d, domain.EndCard(deckID)
	}

	slide.Deck = deck
	slide.Card = card
	slide.NumCards = n
	slide.Done = card.IsEnd()
	return slide, nil
}

// randomSide picks "from" two times out of three.
func (s *serviceImpl) randomSide() domain.Side {
	if s.intn(3) > 0 {
		return domain.SideFrom
	}
	return domain.SideTo
}

func (s *serviceImpl) Rate(
	ctx context.Context,
	deckID, index, cardID int,
	rating domain.Rating,
	seenFor int,
) (int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if !rating.IsReview() {
		return 0, service.NewServiceError("rate card", "rating must be between 1 and 4",
			fmt.Errorf("%w: %w", service.ErrInvalidInput, domain.ErrInvalidRating))
	}
	if seenFor < 0 {
		return 0, service.NewServiceError("rate card", "seen_for must not be negative", service.ErrInvalidInput)
	}

	if _, ok := s.cache.deck(deckID); !ok {
		if _, err := s.decks.Get(ctx, deckID, s.userID); err != nil {
			return 0, service.NewServiceError("rate card", "failed to retrieve deck", err)
		}
	}

	at := s.now().UTC()
	updated, err := s.cards.Rate(ctx, deckID, cardID, rating, seenFor, at)
	if err != nil {
		return 0, service.NewServiceError("rate card", "failed to store rating", err)
	}

	s.cache.update(deckID, cardID, func(card *domain.Card) {
		if updated != nil {
			*card = *updated
			return
		}
		_ = card.ApplyReview(rating, seenFor, at)
	})

	log.Info("card rated",
		slog.Int("deck_id", deckID),
		slog.Int("card_id", cardID),
		slog.String("rating", rating.String()),
		slog.Int("seen_for_ms", seenFor))
	return index + 1, nil
}
