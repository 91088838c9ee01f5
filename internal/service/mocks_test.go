package service

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/phrazzld/scry-decks/internal/domain"
	"github.com/phrazzld/scry-decks/internal/events"
	"github.com/phrazzld/scry-decks/internal/store"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func ptr[T any](v T) *T { return &v }

type mockUserStore struct {
	ListFn   func(ctx context.Context) ([]domain.User, error)
	GetFn    func(ctx context.Context, id int) (*domain.User, error)
	CreateFn func(ctx context.Context, form domain.UserForm) (*domain.User, error)
	UpdateFn func(ctx context.Context, id int, form domain.UserForm) (int64, error)
	DeleteFn func(ctx context.Context, id int) (int64, error)
}

func (m *mockUserStore) List(ctx context.Context) ([]domain.User, error) { return m.ListFn(ctx) }
func (m *mockUserStore) Get(ctx context.Context, id int) (*domain.User, error) {
	return m.GetFn(ctx, id)
}
func (m *mockUserStore) Create(ctx context.Context, form domain.UserForm) (*domain.User, error) {
	return m.CreateFn(ctx, form)
}
func (m *mockUserStore) Update(ctx context.Context, id int, form domain.UserForm) (int64, error) {
	return m.UpdateFn(ctx, id, form)
}
func (m *mockUserStore) Delete(ctx context.Context, id int) (int64, error) {
	return m.DeleteFn(ctx, id)
}
func (m *mockUserStore) WithTx(*sql.Tx) store.UserStore { return m }

type mockDeckStore struct {
	ListByUserFn func(ctx context.Context, userID int) ([]domain.Deck, error)
	GetFn        func(ctx context.Context, id, userID int) (*domain.Deck, error)
	CreateFn     func(ctx context.Context, userID int, form domain.DeckForm) (*domain.Deck, error)
	UpdateFn     func(ctx context.Context, id, userID int, form domain.DeckForm) (int64, error)
	TouchFn      func(ctx context.Context, id, userID int, at time.Time) (*domain.Deck, error)
	DeleteFn     func(ctx context.Context, id, userID int) (int64, error)
}

func (m *mockDeckStore) ListByUser(ctx context.Context, userID int) ([]domain.Deck, error) {
	return m.ListByUserFn(ctx, userID)
}
func (m *mockDeckStore) Get(ctx context.Context, id, userID int) (*domain.Deck, error) {
	return m.GetFn(ctx, id, userID)
}
func (m *mockDeckStore) Create(ctx context.Context, userID int, form domain.DeckForm) (*domain.Deck, error) {
	return m.CreateFn(ctx, userID, form)
}
func (m *mockDeckStore) Update(ctx context.Context, id, userID int, form domain.DeckForm) (int64, error) {
	return m.UpdateFn(ctx, id, userID, form)
}
func (m *mockDeckStore) Touch(ctx context.Context, id, userID int, at time.Time) (*domain.Deck, error) {
	return m.TouchFn(ctx, id, userID, at)
}
func (m *mockDeckStore) Delete(ctx context.Context, id, userID int) (int64, error) {
	return m.DeleteFn(ctx, id, userID)
}
func (m *mockDeckStore) WithTx(*sql.Tx) store.DeckStore { return m }

type mockCardStore struct {
	ListByDeckFn func(ctx context.Context, deckID int) ([]domain.Card, error)
	GetFn        func(ctx context.Context, deckID, id int) (*domain.Card, error)
	CreateFn     func(ctx context.Context, deckID int, form domain.CardForm) (*domain.Card, error)
	UpdateFn     func(ctx context.Context, deckID, id int, form domain.CardForm) (int64, error)
	DeleteFn     func(ctx context.Context, deckID, id int) (int64, error)
}

func (m *mockCardStore) ListByDeck(ctx context.Context, deckID int) ([]domain.Card, error) {
	return m.ListByDeckFn(ctx, deckID)
}
func (m *mockCardStore) Get(ctx context.Context, deckID, id int) (*domain.Card, error) {
	return m.GetFn(ctx, deckID, id)
}
func (m *mockCardStore) Create(ctx context.Context, deckID int, form domain.CardForm) (*domain.Card, error) {
	return m.CreateFn(ctx, deckID, form)
}
func (m *mockCardStore) Update(ctx context.Context, deckID, id int, form domain.CardForm) (int64, error) {
	return m.UpdateFn(ctx, deckID, id, form)
}
func (m *mockCardStore) Rate(context.Context, int, int, domain.Rating, int, time.Time) (*domain.Card, error) {
	panic("not used")
}
func (m *mockCardStore) SetExample(context.Context, int, string) (bool, error) {
	panic("not used")
}
func (m *mockCardStore) Delete(ctx context.Context, deckID, id int) (int64, error) {
	return m.DeleteFn(ctx, deckID, id)
}
func (m *mockCardStore) WithTx(*sql.Tx) store.CardStore { return m }

// recordingEmitter keeps emitted events.
type recordingEmitter struct {
	mu     sync.Mutex
	events []*events.Event
	err    error
}

func (e *recordingEmitter) EmitEvent(_ context.Context, event *events.Event) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, event)
	return e.err
}

// ownedDeck accepts deck 3 of user 1 only.
func ownedDeck() *mockDeckStore {
	return &mockDeckStore{GetFn: func(_ context.Context, id, userID int) (*domain.Deck, error) {
		if id == 3 && userID == 1 {
			return &domain.Deck{ID: 3, UserID: 1, FromLanguage: "de", ToLanguagePrimary: "en"}, nil
		}
		return nil, store.ErrDeckNotFound
	}}
}
