package review

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/phrazzld/scry-decks/internal/domain"
	"github.com/phrazzld/scry-decks/internal/domain/srs"
	"github.com/phrazzld/scry-decks/internal/store"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var (
	previousVisit = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	testNow       = time.Date(2024, 5, 2, 9, 0, 0, 0, time.UTC)
)

// fakeDecks knows deck 3 of user 1.
type fakeDecks struct {
	mu      sync.Mutex
	seenAt  time.Time
	touches int
	gets    int
}

func (f *fakeDecks) deck() *domain.Deck {
	return &domain.Deck{ID: 3, UserID: 1, FromLanguage: "de", ToLanguagePrimary: "en", SeenAt: f.seenAt}
}

func (f *fakeDecks) ListByUser(context.Context, int) ([]domain.Deck, error) { panic("not used") }

func (f *fakeDecks) Get(_ context.Context, id, userID int) (*domain.Deck, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gets++
	if id != 3 || userID != 1 {
		return nil, store.ErrDeckNotFound
	}
	return f.deck(), nil
}

func (f *fakeDecks) Create(context.Context, int, domain.DeckForm) (*domain.Deck, error) {
	panic("not used")
}

func (f *fakeDecks) Update(context.Context, int, int, domain.DeckForm) (int64, error) {
	panic("not used")
}

func (f *fakeDecks) Touch(_ context.Context, id, userID int, at time.Time) (*domain.Deck, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if id != 3 || userID != 1 {
		return nil, store.ErrDeckNotFound
	}
	f.touches++
	prev := f.deck()
	f.seenAt = at
	return prev, nil
}

func (f *fakeDecks) Delete(context.Context, int, int) (int64, error) { panic("not used") }
func (f *fakeDecks) WithTx(*sql.Tx) store.DeckStore                  { return f }

type rateCall struct {
	deckID, cardID int
	rating         domain.Rating
	seenFor        int
	at             time.Time
}

type fakeCards struct {
	mu     sync.Mutex
	cards  []domain.Card
	rated  []rateCall
	rateFn func(c rateCall) (*domain.Card, error)
}

func (f *fakeCards) ListByDeck(_ context.Context, deckID int) ([]domain.Card, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.Card, 0, len(f.cards))
	for _, c := range f.cards {
		if c.DeckID == deckID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeCards) Get(context.Context, int, int) (*domain.Card, error) { panic("not used") }

func (f *fakeCards) Create(context.Context, int, domain.CardForm) (*domain.Card, error) {
	panic("not used")
}

func (f *fakeCards) Update(context.Context, int, int, domain.CardForm) (int64, error) {
	panic("not used")
}

func (f *fakeCards) Rate(_ context.Context, deckID, id int, rating domain.Rating, seenFor int, at time.Time) (*domain.Card, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	call := rateCall{deckID: deckID, cardID: id, rating: rating, seenFor: seenFor, at: at}
	f.rated = append(f.rated, call)
	if f.rateFn != nil {
		return f.rateFn(call)
	}
	return nil, nil
}

func (f *fakeCards) SetExample(context.Context, int, string) (bool, error) { panic("not used") }
func (f *fakeCards) Delete(context.Context, int, int) (int64, error)       { panic("not used") }
func (f *fakeCards) WithTx(*sql.Tx) store.CardStore                         { return f }

// reverseOrder returns cards in reverse and remembers the seen_at it was
// given.
type reverseOrder struct {
	seenAt time.Time
}

func (r *reverseOrder) Order(cards []domain.Card, deckSeenAt time.Time) []domain.Card {
	r.seenAt = deckSeenAt
	out := make([]domain.Card, len(cards))
	for i, c := range cards {
		out[len(cards)-1-i] = c
	}
	return out
}

func (r *reverseOrder) Weigh([]domain.Card, time.Time) []srs.Weighted { panic("not used") }

func threeCards() []domain.Card {
	return []domain.Card{
		{ID: 10, DeckID: 3, FromText: "Hund", ToTextPrimary: "dog"},
		{ID: 11, DeckID: 3, FromText: "Katze", ToTextPrimary: "cat", Rating: domain.RatingHard},
		{ID: 12, DeckID: 3, FromText: "Maus", ToTextPrimary: "mouse"},
		{ID: 20, DeckID: 4, FromText: "other", ToTextPrimary: "deck"},
	}
}

type fixture struct {
	decks *fakeDecks
	cards *fakeCards
	order *reverseOrder
	clock *time.Time
	svc   Service
}

func newFixture(ttl time.Duration) *fixture {
	now := testNow
	f := &fixture{
		decks: &fakeDecks{seenAt: previousVisit},
		cards: &fakeCards{cards: threeCards()},
		order: &reverseOrder{},
		clock: &now,
	}
	f.svc = NewService(f.decks, f.cards, f.order, Options{
		UserID: 1,
		TTL:    ttl,
		Now:    func() time.Time { return *f.clock },
		Intn:   func(int) int { return 1 },
	}, discardLogger())
	return f
}
