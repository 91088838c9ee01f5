package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/phrazzld/scry-decks/internal/domain"
)

// CardStore persists cards. Cards are addressed through their deck.
type CardStore interface {
	ListByDeck(ctx context.Context, deckID int) ([]domain.Card, error)

	// Get returns ErrCardNotFound if the card is not in the deck.
	Get(ctx context.Context, deckID, id int) (*domain.Card, error)

	// Create requires from_text and to_text_primary. The stored card starts
	// unrated.
	Create(ctx context.Context, deckID int, form domain.CardForm) (*domain.Card, error)

	Update(ctx context.Context, deckID, id int, form domain.CardForm) (int64, error)

	// Rate records a review in a single statement and returns the updated
	// row. The database moves the old rating into prev_rating when it
	// changes.
	Rate(ctx context.Context, deckID, id int, rating domain.Rating, seenFor int, at time.Time) (*domain.Card, error)

	// SetExample stores generated example text unless the card already has
	// one. It reports whether the card was changed.
	SetExample(ctx context.Context, id int, text string) (bool, error)

	Delete(ctx context.Context, deckID, id int) (int64, error)

	WithTx(tx *sql.Tx) CardStore
}
