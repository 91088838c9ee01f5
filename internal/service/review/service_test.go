package review

import (
	"context"
	"testing"
	"time"

	"github.com/phrazzld/scry-decks/internal/domain"
	"github.com/phrazzld/scry-decks/internal/service"
	"github.com/phrazzld/scry-decks/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStart(t *testing.T) {
	t.Parallel()

	f := newFixture(time.Hour)
	n, err := f.svc.Start(context.Background(), 3)
	require.NoError(t, err)

	assert.Equal(t, 3, n)
	assert.Equal(t, 1, f.decks.touches)
	assert.Equal(t, previousVisit, f.order.seenAt, "orders against the previous visit")
	assert.Equal(t, testNow, f.decks.seenAt)
}

func TestStart_UnknownDeck(t *testing.T) {
	t.Parallel()

	f := newFixture(time.Hour)
	_, err := f.svc.Start(context.Background(), 99)

	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrDeckNotFound)
	var svcErr *service.ServiceError
	assert.ErrorAs(t, err, &svcErr)
}

func TestCardAt_FirstCardStartsSession(t *testing.T) {
	t.Parallel()

	f := newFixture(time.Hour)
	slide, err := f.svc.CardAt(context.Background(), 3, 0, domain.SideFrom)
	require.NoError(t, err)

	assert.Equal(t, 1, f.decks.touches)
	assert.Equal(t, 12, slide.Card.ID, "first card of the ordered session")
	assert.Equal(t, 3, slide.NumCards)
	assert.Equal(t, 1, slide.Next())
	assert.Equal(t, "de", slide.Deck.FromLanguage)
	assert.False(t, slide.Done)

	_, err = f.svc.CardAt(context.Background(), 3, 0, domain.SideTo)
	require.NoError(t, err)
	assert.Equal(t, 1, f.decks.touches, "flipping the first card keeps the session")
}

func TestShow_KeepsSession(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(time.Hour)
	first, err := f.svc.CardAt(ctx, 3, 0, domain.SideTo)
	require.NoError(t, err)
	assert.True(t, first.Done, "no session yet")

	started, err := f.svc.Show(ctx, 3, 0, domain.SideFrom)
	require.NoError(t, err)
	assert.Equal(t, 1, f.decks.touches, "a missing session is started")
	assert.Equal(t, 12, started.Card.ID)

	flipped, err := f.svc.Show(ctx, 3, 0, domain.SideFrom)
	require.NoError(t, err)
	assert.Equal(t, 1, f.decks.touches, "turning the first card back does not restart")
	assert.Equal(t, started.Card.ID, flipped.Card.ID)
	assert.Equal(t, domain.SideFrom, flipped.Side)

	_, err = f.svc.CardAt(ctx, 3, 0, domain.SideFrom)
	require.NoError(t, err)
	assert.Equal(t, 2, f.decks.touches, "opening the deck restarts")
}

func TestCardAt_WalksSession(t *testing.T) {
	t.Parallel()

	f := newFixture(time.Hour)
	ctx := context.Background()
	_, err := f.svc.Start(ctx, 3)
	require.NoError(t, err)

	var ids []int
	for i := 0; i < 3; i++ {
		slide, err := f.svc.CardAt(ctx, 3, i, domain.SideTo)
		require.NoError(t, err)
		ids = append(ids, slide.Card.ID)
		assert.Equal(t, domain.SideTo, slide.Side)
	}
	assert.Equal(t, []int{12, 11, 10}, ids)

	end, err := f.svc.CardAt(ctx, 3, 3, domain.SideFrom)
	require.NoError(t, err)
	assert.True(t, end.Done)
	assert.True(t, end.Card.IsEnd())
	assert.Equal(t, domain.EndCardText, end.Card.FromText)
}

func TestCardAt_NoSession(t *testing.T) {
	t.Parallel()

	f := newFixture(time.Hour)

	slide, err := f.svc.CardAt(context.Background(), 3, 2, domain.SideFrom)
	require.NoError(t, err)
	assert.True(t, slide.Done)
	assert.Equal(t, 0, f.decks.touches)

	_, err = f.svc.CardAt(context.Background(), 99, 2, domain.SideFrom)
	assert.ErrorIs(t, err, store.ErrDeckNotFound)
}

func TestCardAt_NegativeIndex(t *testing.T) {
	t.Parallel()

	f := newFixture(time.Hour)
	_, err := f.svc.CardAt(context.Background(), 3, -1, domain.SideFrom)
	assert.ErrorIs(t, err, service.ErrInvalidInput)
}

func TestCardAt_SessionExpires(t *testing.T) {
	t.Parallel()

	f := newFixture(time.Minute)
	ctx := context.Background()
	_, err := f.svc.Start(ctx, 3)
	require.NoError(t, err)

	*f.clock = f.clock.Add(2 * time.Minute)

	slide, err := f.svc.CardAt(ctx, 3, 1, domain.SideFrom)
	require.NoError(t, err)
	assert.True(t, slide.Done)
}

func TestCardAt_RandomSide(t *testing.T) {
	t.Parallel()

	tests := []struct {
		roll int
		want domain.Side
	}{
		{0, domain.SideTo},
		{1, domain.SideFrom},
		{2, domain.SideFrom},
	}
	for _, tt := range tests {
		f := newFixture(time.Hour)
		roll := tt.roll
		f.svc = NewService(f.decks, f.cards, f.order, Options{
			UserID: 1,
			Now:    func() time.Time { return testNow },
			Intn: func(n int) int {
				assert.Equal(t, 3, n)
				return roll
			},
		}, discardLogger())

		slide, err := f.svc.CardAt(context.Background(), 3, 0, domain.SideFrom)
		require.NoError(t, err)
		assert.Equal(t, tt.want, slide.RandomSide, "roll %d", tt.roll)
	}
}

func TestRate(t *testing.T) {
	t.Parallel()

	f := newFixture(time.Hour)
	ctx := context.Background()
	_, err := f.svc.Start(ctx, 3)
	require.NoError(t, err)

	next, err := f.svc.Rate(ctx, 3, 1, 11, domain.RatingEasy, 1500)
	require.NoError(t, err)
	assert.Equal(t, 2, next)

	require.Len(t, f.cards.rated, 1)
	call := f.cards.rated[0]
	assert.Equal(t, 3, call.deckID)
	assert.Equal(t, 11, call.cardID)
	assert.Equal(t, domain.RatingEasy, call.rating)
	assert.Equal(t, 1500, call.seenFor)
	assert.Equal(t, testNow, call.at)

	slide, err := f.svc.CardAt(ctx, 3, 1, domain.SideTo)
	require.NoError(t, err)
	assert.Equal(t, domain.RatingEasy, slide.Card.Rating)
	assert.Equal(t, domain.RatingHard, slide.Card.PrevRating)
	require.NotNil(t, slide.Card.SeenFor)
	assert.Equal(t, 1500, *slide.Card.SeenFor)
}

func TestRate_UsesStoredRow(t *testing.T) {
	t.Parallel()

	f := newFixture(time.Hour)
	f.cards.rateFn = func(c rateCall) (*domain.Card, error) {
		return &domain.Card{ID: c.cardID, DeckID: c.deckID, FromText: "Hund (stored)", Rating: c.rating}, nil
	}
	ctx := context.Background()
	_, err := f.svc.Start(ctx, 3)
	require.NoError(t, err)

	_, err = f.svc.Rate(ctx, 3, 2, 10, domain.RatingGood, 0)
	require.NoError(t, err)

	slide, err := f.svc.CardAt(ctx, 3, 2, domain.SideFrom)
	require.NoError(t, err)
	assert.Equal(t, "Hund (stored)", slide.Card.FromText)
}

func TestRate_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		deckID  int
		rating  domain.Rating
		seenFor int
		wantErr error
	}{
		{"unrated", 3, domain.RatingUnrated, 10, service.ErrInvalidInput},
		{"out of range", 3, domain.Rating(5), 10, domain.ErrInvalidRating},
		{"negative seen_for", 3, domain.RatingGood, -1, service.ErrInvalidInput},
		{"foreign deck", 99, domain.RatingGood, 10, store.ErrDeckNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := newFixture(time.Hour)
			_, err := f.svc.Rate(context.Background(), tt.deckID, 0, 10, tt.rating, tt.seenFor)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, f.cards.rated)
		})
	}
}

func TestRate_WithoutSessionChecksDeck(t *testing.T) {
	t.Parallel()

	f := newFixture(time.Hour)
	next, err := f.svc.Rate(context.Background(), 3, 4, 10, domain.RatingAgain, 20)
	require.NoError(t, err)
	assert.Equal(t, 5, next)
	assert.Equal(t, 1, f.decks.gets)
	assert.Len(t, f.cards.rated, 1)
}
