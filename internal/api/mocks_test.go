package api

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/scry-decks/internal/api/shared"
	"github.com/phrazzld/scry-decks/internal/domain"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type mockUserService struct {
	listFn   func(ctx context.Context) ([]domain.User, error)
	getFn    func(ctx context.Context, id int) (*domain.User, error)
	createFn func(ctx context.Context, form domain.UserForm) (*domain.User, error)
	updateFn func(ctx context.Context, id int, form domain.UserForm) (int64, error)
	deleteFn func(ctx context.Context, id int) (int64, error)
}

func (m *mockUserService) ListUsers(ctx context.Context) ([]domain.User, error) {
	return m.listFn(ctx)
}
func (m *mockUserService) GetUser(ctx context.Context, id int) (*domain.User, error) {
	return m.getFn(ctx, id)
}
func (m *mockUserService) CreateUser(ctx context.Context, form domain.UserForm) (*domain.User, error) {
	return m.createFn(ctx, form)
}
func (m *mockUserService) UpdateUser(ctx context.Context, id int, form domain.UserForm) (int64, error) {
	return m.updateFn(ctx, id, form)
}
func (m *mockUserService) DeleteUser(ctx context.Context, id int) (int64, error) {
	return m.deleteFn(ctx, id)
}

type mockDeckService struct {
	listFn   func(ctx context.Context) ([]domain.Deck, error)
	getFn    func(ctx context.Context, id int) (*domain.Deck, error)
	createFn func(ctx context.Context, form domain.DeckForm) (*domain.Deck, error)
	updateFn func(ctx context.Context, id int, form domain.DeckForm) (int64, error)
	deleteFn func(ctx context.Context, id int) (int64, error)
}

func (m *mockDeckService) ListDecks(ctx context.Context) ([]domain.Deck, error) {
	return m.listFn(ctx)
}
func (m *mockDeckService) GetDeck(ctx context.Context, id int) (*domain.Deck, error) {
	return m.getFn(ctx, id)
}
func (m *mockDeckService) CreateDeck(ctx context.Context, form domain.DeckForm) (*domain.Deck, error) {
	return m.createFn(ctx, form)
}
func (m *mockDeckService) UpdateDeck(ctx context.Context, id int, form domain.DeckForm) (int64, error) {
	return m.updateFn(ctx, id, form)
}
func (m *mockDeckService) DeleteDeck(ctx context.Context, id int) (int64, error) {
	return m.deleteFn(ctx, id)
}

type mockCardService struct {
	listFn   func(ctx context.Context, deckID int) ([]domain.Card, error)
	getFn    func(ctx context.Context, deckID, id int) (*domain.Card, error)
	createFn func(ctx context.Context, deckID int, form domain.CardForm) (*domain.Card, error)
	updateFn func(ctx context.Context, deckID, id int, form domain.CardForm) (int64, error)
	deleteFn func(ctx context.Context, deckID, id int) (int64, error)
}

func (m *mockCardService) ListCards(ctx context.Context, deckID int) ([]domain.Card, error) {
	return m.listFn(ctx, deckID)
}
func (m *mockCardService) GetCard(ctx context.Context, deckID, id int) (*domain.Card, error) {
	return m.getFn(ctx, deckID, id)
}
func (m *mockCardService) CreateCard(ctx context.Context, deckID int, form domain.CardForm) (*domain.Card, error) {
	return m.createFn(ctx, deckID, form)
}
func (m *mockCardService) UpdateCard(ctx context.Context, deckID, id int, form domain.CardForm) (int64, error) {
	return m.updateFn(ctx, deckID, id, form)
}
func (m *mockCardService) DeleteCard(ctx context.Context, deckID, id int) (int64, error) {
	return m.deleteFn(ctx, deckID, id)
}

// newRouter mounts h under /api without authentication.
func newRouter(h Handlers) http.Handler {
	r := chi.NewRouter()
	r.Route("/api", h.Register)
	return r
}

func handlers(users *mockUserService, decks *mockDeckService, cards *mockCardService) Handlers {
	if users == nil {
		users = &mockUserService{}
	}
	if decks == nil {
		decks = &mockDeckService{}
	}
	if cards == nil {
		cards = &mockCardService{}
	}
	return Handlers{
		Users: NewUserHandler(users, discardLogger()),
		Decks: NewDeckHandler(decks, discardLogger()),
		Cards: NewCardHandler(cards, discardLogger()),
	}
}

func do(t *testing.T, h http.Handler, method, target, contentType, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rdr io.Reader
	if body != "" {
		rdr = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rdr)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// envelope decodes the response into an Envelope with Data left raw.
func envelope(t *testing.T, rec *httptest.ResponseRecorder) (json.RawMessage, *shared.ErrorBody) {
	t.Helper()
	var env struct {
		Data  json.RawMessage   `json:"data"`
		Error *shared.ErrorBody `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env.Data, env.Error
}
