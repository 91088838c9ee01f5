package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/scry-decks/internal/domain"
	"github.com/phrazzld/scry-decks/internal/platform/logger"
	"github.com/phrazzld/scry-decks/internal/store"
)

const userColumns = `id, name, email, created_at, updated_at`

// PostgresUserStore implements store.UserStore.
type PostgresUserStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresUserStore creates a user store on db (a *sql.DB or *sql.Tx).
func NewPostgresUserStore(db store.DBTX, logger *slog.Logger) *PostgresUserStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresUserStore{
		db:     db,
		logger: logger.With(slog.String("component", "user_store")),
	}
}

var _ store.UserStore = (*PostgresUserStore)(nil)

func scanUser(row rowScanner) (*domain.User, error) {
	var u domain.User
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *PostgresUserStore) List(ctx context.Context) ([]domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY id`)
	if err != nil {
		log.Error("failed to list users", slog.String("error", err.Error()))
		return nil, MapError(err, store.ErrUserNotFound)
	}
	defer func() { _ = rows.Close() }()

	users := []domain.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err, store.ErrUserNotFound)
	}
	return users, nil
}

func (s *PostgresUserStore) Get(ctx context.Context, id int) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	u, err := scanUser(s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		err = MapError(err, store.ErrUserNotFound)
		if !store.IsNotFoundError(err) {
			log.Error("failed to get user", slog.Int("user_id", id), slog.String("error", err.Error()))
		}
		return nil, err
	}
	return u, nil
}

func (s *PostgresUserStore) Create(ctx context.Context, form domain.UserForm) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := form.ValidateCreate(); err != nil {
		return nil, fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	u, err := scanUser(s.db.QueryRowContext(ctx,
		`INSERT INTO users (name, email) VALUES ($1, $2) RETURNING `+userColumns,
		*form.Name, *form.Email))
	if err != nil {
		err = MapError(err, store.ErrUserNotFound)
		log.Warn("failed to create user", slog.String("error", err.Error()))
		return nil, err
	}

	log.Info("user created", slog.Int("user_id", u.ID))
	return u, nil
}

func (s *PostgresUserStore) Update(ctx context.Context, id int, form domain.UserForm) (int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := form.Validate(); err != nil {
		return 0, fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	b := newUpdate("users")
	setIf(b, "name", form.Name)
	setIf(b, "email", form.Email)
	if b.empty() {
		return 0, store.ErrNoUpdates
	}
	query, args := b.whereEq("id", id).build()

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		err = MapError(err, store.ErrUserNotFound)
		log.Warn("failed to update user", slog.Int("user_id", id), slog.String("error", err.Error()))
		return 0, err
	}
	return rowsAffected(result, store.ErrUserNotFound)
}

func (s *PostgresUserStore) Delete(ctx context.Context, id int) (int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		err = MapError(err, store.ErrUserNotFound)
		log.Warn("failed to delete user", slog.Int("user_id", id), slog.String("error", err.Error()))
		return 0, err
	}
	return rowsAffected(result, store.ErrUserNotFound)
}

func (s *PostgresUserStore) WithTx(tx *sql.Tx) store.UserStore {
	return &PostgresUserStore{db: tx, logger: s.logger}
}
