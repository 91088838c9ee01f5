package task

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-decks/internal/domain"
	"github.com/phrazzld/scry-decks/internal/generation"
	"github.com/phrazzld/scry-decks/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func newTestFactory(t *testing.T, cards *fakeCards, decks *fakeDecks, gen *fakeGenerator) *ExampleTaskFactory {
	t.Helper()
	f, err := NewExampleTaskFactory(cards, decks, gen, discardLogger())
	require.NoError(t, err)
	return f
}

func TestNewExampleTaskFactory_RequiresDependencies(t *testing.T) {
	t.Parallel()
	cards, decks, gen := &fakeCards{}, &fakeDecks{}, &fakeGenerator{}

	_, err := NewExampleTaskFactory(nil, decks, gen, discardLogger())
	assert.ErrorIs(t, err, ErrNilCardStore)
	_, err = NewExampleTaskFactory(cards, nil, gen, discardLogger())
	assert.ErrorIs(t, err, ErrNilDeckStore)
	_, err = NewExampleTaskFactory(cards, decks, nil, discardLogger())
	assert.ErrorIs(t, err, ErrNilGenerator)
	_, err = NewExampleTaskFactory(cards, decks, gen, nil)
	assert.ErrorIs(t, err, ErrNilLogger)
}

func TestExampleTask_Execute(t *testing.T) {
	t.Parallel()

	deck := &domain.Deck{ID: 3, UserID: 1, FromLanguage: "de", ToLanguagePrimary: "en"}
	card := func() *domain.Card {
		return &domain.Card{ID: 7, DeckID: 3, FromText: "Haus", ToTextPrimary: "house", ToTextSecondary: strPtr("maison")}
	}
	decks := &fakeDecks{GetFn: func(_ context.Context, id, userID int) (*domain.Deck, error) {
		if id != 3 || userID != 1 {
			return nil, store.ErrDeckNotFound
		}
		return deck, nil
	}}

	t.Run("stores generated example", func(t *testing.T) {
		t.Parallel()
		var stored string
		cards := &fakeCards{
			GetFn: func(context.Context, int, int) (*domain.Card, error) { return card(), nil },
			SetExampleFn: func(_ context.Context, id int, text string) (bool, error) {
				assert.Equal(t, 7, id)
				stored = text
				return true, nil
			},
		}
		gen := &fakeGenerator{GenerateExampleFn: func(_ context.Context, req generation.ExampleRequest) (string, error) {
			assert.Equal(t, generation.ExampleRequest{
				Language: "de", Text: "Haus", Translation: "house", SecondaryTranslation: "maison",
			}, req)
			return "Das Haus ist alt.", nil
		}}

		task, err := newTestFactory(t, cards, decks, gen).CreateTask(7, 3, 1)
		require.NoError(t, err)
		assert.Equal(t, TaskStatusPending, task.Status())

		require.NoError(t, task.Execute(context.Background()))
		assert.Equal(t, "Das Haus ist alt.", stored)
		assert.Equal(t, TaskStatusCompleted, task.Status())
	})

	t.Run("skips cards that already have an example", func(t *testing.T) {
		t.Parallel()
		cards := &fakeCards{GetFn: func(context.Context, int, int) (*domain.Card, error) {
			c := card()
			c.ExampleText = strPtr("Mein Haus.")
			return c, nil
		}}
		gen := &fakeGenerator{GenerateExampleFn: func(context.Context, generation.ExampleRequest) (string, error) {
			t.Fatal("generator must not be called")
			return "", nil
		}}

		task, err := newTestFactory(t, cards, decks, gen).CreateTask(7, 3, 1)
		require.NoError(t, err)
		require.NoError(t, task.Execute(context.Background()))
		assert.Equal(t, TaskStatusCompleted, task.Status())
	})

	t.Run("generator failure fails the task", func(t *testing.T) {
		t.Parallel()
		cards := &fakeCards{GetFn: func(context.Context, int, int) (*domain.Card, error) { return card(), nil }}
		gen := &fakeGenerator{GenerateExampleFn: func(context.Context, generation.ExampleRequest) (string, error) {
			return "", generation.ErrContentBlocked
		}}

		task, err := newTestFactory(t, cards, decks, gen).CreateTask(7, 3, 1)
		require.NoError(t, err)
		err = task.Execute(context.Background())
		assert.ErrorIs(t, err, generation.ErrContentBlocked)
		assert.Equal(t, TaskStatusFailed, task.Status())
	})

	t.Run("missing card fails the task", func(t *testing.T) {
		t.Parallel()
		cards := &fakeCards{GetFn: func(context.Context, int, int) (*domain.Card, error) {
			return nil, store.ErrCardNotFound
		}}

		task, err := newTestFactory(t, cards, decks, &fakeGenerator{}).CreateTask(7, 3, 1)
		require.NoError(t, err)
		assert.ErrorIs(t, task.Execute(context.Background()), store.ErrCardNotFound)
	})

	t.Run("store failure is returned", func(t *testing.T) {
		t.Parallel()
		cards := &fakeCards{
			GetFn: func(context.Context, int, int) (*domain.Card, error) { return card(), nil },
			SetExampleFn: func(context.Context, int, string) (bool, error) {
				return false, errors.New("connection lost")
			},
		}
		gen := &fakeGenerator{GenerateExampleFn: func(context.Context, generation.ExampleRequest) (string, error) {
			return "Das Haus.", nil
		}}

		task, err := newTestFactory(t, cards, decks, gen).CreateTask(7, 3, 1)
		require.NoError(t, err)
		err = task.Execute(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to store example")
	})

	t.Run("cancelled context", func(t *testing.T) {
		t.Parallel()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		task, err := newTestFactory(t, &fakeCards{}, decks, &fakeGenerator{}).CreateTask(7, 3, 1)
		require.NoError(t, err)
		assert.ErrorIs(t, task.Execute(ctx), context.Canceled)
	})
}

func TestExampleTaskFactory_Restore(t *testing.T) {
	t.Parallel()
	f := newTestFactory(t, &fakeCards{}, &fakeDecks{}, &fakeGenerator{})

	original, err := f.CreateTask(7, 3, 1)
	require.NoError(t, err)

	registry := NewRegistry()
	f.Register(registry)

	restored, err := registry.Restore(Record{
		ID:      original.ID(),
		Type:    TaskTypeExampleGeneration,
		Payload: original.Payload(),
	})
	require.NoError(t, err)
	assert.Equal(t, original.ID(), restored.ID())
	assert.JSONEq(t, string(original.Payload()), string(restored.Payload()))

	_, err = f.Restore(uuid.New(), []byte("not json"))
	assert.Error(t, err)

	_, err = f.Restore(uuid.New(), []byte(`{"card_id":0,"deck_id":3,"user_id":1}`))
	assert.ErrorIs(t, err, ErrInvalidTarget)
}
