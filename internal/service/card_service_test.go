package service

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/phrazzld/scry-decks/internal/domain"
	"github.com/phrazzld/scry-decks/internal/events"
	"github.com/phrazzld/scry-decks/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCardService(t *testing.T, cards *mockCardStore, emitter events.EventEmitter) (CardService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return NewCardService(db, cards, ownedDeck(), emitter, 1, discardLogger()), mock
}

func TestCardService_CreateCard(t *testing.T) {
	t.Run("emits event for card without example", func(t *testing.T) {
		emitter := &recordingEmitter{}
		cards := &mockCardStore{CreateFn: func(_ context.Context, deckID int, form domain.CardForm) (*domain.Card, error) {
			return &domain.Card{ID: 7, DeckID: deckID, FromText: *form.FromText, ToTextPrimary: *form.ToTextPrimary}, nil
		}}
		svc, mock := newCardService(t, cards, emitter)
		mock.ExpectBegin()
		mock.ExpectCommit()

		card, err := svc.CreateCard(context.Background(), 3, domain.CardForm{
			FromText: ptr("Haus"), ToTextPrimary: ptr("house"),
		})
		require.NoError(t, err)
		assert.Equal(t, 7, card.ID)

		require.Len(t, emitter.events, 1)
		assert.Equal(t, events.CardCreated, emitter.events[0].Type)
		var payload events.CardCreatedPayload
		require.NoError(t, emitter.events[0].UnmarshalPayload(&payload))
		assert.Equal(t, events.CardCreatedPayload{CardID: 7, DeckID: 3, UserID: 1}, payload)
	})

	t.Run("no event when example given", func(t *testing.T) {
		emitter := &recordingEmitter{}
		cards := &mockCardStore{CreateFn: func(_ context.Context, deckID int, form domain.CardForm) (*domain.Card, error) {
			return &domain.Card{ID: 8, DeckID: deckID, ExampleText: form.ExampleText}, nil
		}}
		svc, mock := newCardService(t, cards, emitter)
		mock.ExpectBegin()
		mock.ExpectCommit()

		_, err := svc.CreateCard(context.Background(), 3, domain.CardForm{
			FromText: ptr("Haus"), ToTextPrimary: ptr("house"), ExampleText: ptr("Mein Haus."),
		})
		require.NoError(t, err)
		assert.Empty(t, emitter.events)
	})

	t.Run("emit failure does not fail the request", func(t *testing.T) {
		emitter := &recordingEmitter{err: errors.New("queue full")}
		cards := &mockCardStore{CreateFn: func(_ context.Context, deckID int, _ domain.CardForm) (*domain.Card, error) {
			return &domain.Card{ID: 9, DeckID: deckID}, nil
		}}
		svc, mock := newCardService(t, cards, emitter)
		mock.ExpectBegin()
		mock.ExpectCommit()

		_, err := svc.CreateCard(context.Background(), 3, domain.CardForm{
			FromText: ptr("Haus"), ToTextPrimary: ptr("house"),
		})
		assert.NoError(t, err)
	})

	t.Run("foreign deck rolls back", func(t *testing.T) {
		cards := &mockCardStore{CreateFn: func(context.Context, int, domain.CardForm) (*domain.Card, error) {
			t.Fatal("card must not be created")
			return nil, nil
		}}
		svc, mock := newCardService(t, cards, nil)
		mock.ExpectBegin()
		mock.ExpectRollback()

		_, err := svc.CreateCard(context.Background(), 4, domain.CardForm{
			FromText: ptr("Haus"), ToTextPrimary: ptr("house"),
		})
		assert.ErrorIs(t, err, store.ErrDeckNotFound)
		var svcErr *ServiceError
		require.ErrorAs(t, err, &svcErr)
		assert.Equal(t, "create card", svcErr.Operation)
	})
}

func TestCardService_UpdateAndDelete(t *testing.T) {
	cards := &mockCardStore{
		UpdateFn: func(_ context.Context, deckID, id int, _ domain.CardForm) (int64, error) {
			if id == 7 {
				return 1, nil
			}
			return 0, store.ErrCardNotFound
		},
		DeleteFn: func(context.Context, int, int) (int64, error) { return 1, nil },
	}

	t.Run("update", func(t *testing.T) {
		svc, mock := newCardService(t, cards, nil)
		mock.ExpectBegin()
		mock.ExpectCommit()

		n, err := svc.UpdateCard(context.Background(), 3, 7, domain.CardForm{FromText: ptr("Häuser")})
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
	})

	t.Run("update missing card", func(t *testing.T) {
		svc, mock := newCardService(t, cards, nil)
		mock.ExpectBegin()
		mock.ExpectRollback()

		_, err := svc.UpdateCard(context.Background(), 3, 8, domain.CardForm{FromText: ptr("x")})
		assert.ErrorIs(t, err, store.ErrCardNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		svc, mock := newCardService(t, cards, nil)
		mock.ExpectBegin()
		mock.ExpectCommit()

		n, err := svc.DeleteCard(context.Background(), 3, 7)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
	})
}

func TestCardService_ListCards_ForeignDeck(t *testing.T) {
	svc, _ := newCardService(t, &mockCardStore{}, nil)

	_, err := svc.ListCards(context.Background(), 4)
	assert.ErrorIs(t, err, store.ErrDeckNotFound)
}
