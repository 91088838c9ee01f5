package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/phrazzld/scry-decks/internal/domain"
)

// DeckStore persists decks. Every method is scoped to the owning user; a
// deck of another user behaves as if it did not exist.
type DeckStore interface {
	ListByUser(ctx context.Context, userID int) ([]domain.Deck, error)

	// Get returns ErrDeckNotFound if the deck does not exist for userID.
	Get(ctx context.Context, id, userID int) (*domain.Deck, error)

	// Create requires from_language and to_language_primary.
	Create(ctx context.Context, userID int, form domain.DeckForm) (*domain.Deck, error)

	Update(ctx context.Context, id, userID int, form domain.DeckForm) (int64, error)

	// Touch sets seen_at to at. The returned deck carries the seen_at of
	// the previous visit, so callers can compare card activity against it.
	Touch(ctx context.Context, id, userID int, at time.Time) (*domain.Deck, error)

	// Delete returns ErrReferenced while the deck still has cards.
	Delete(ctx context.Context, id, userID int) (int64, error)

	WithTx(tx *sql.Tx) DeckStore
}
