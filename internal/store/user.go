package store

import (
	"context"
	"database/sql"

	"github.com/phrazzld/scry-decks/internal/domain"
)

// UserStore persists users.
type UserStore interface {
	List(ctx context.Context) ([]domain.User, error)

	// Get returns ErrUserNotFound if no user has id.
	Get(ctx context.Context, id int) (*domain.User, error)

	// Create requires name and email and returns the stored row.
	// Returns ErrEmailExists when the email is taken.
	Create(ctx context.Context, form domain.UserForm) (*domain.User, error)

	// Update changes the fields set in form and returns the number of rows
	// affected. An empty form returns ErrNoUpdates.
	Update(ctx context.Context, id int, form domain.UserForm) (int64, error)

	// Delete returns ErrReferenced while the user still owns decks.
	Delete(ctx context.Context, id int) (int64, error)

	WithTx(tx *sql.Tx) UserStore
}
