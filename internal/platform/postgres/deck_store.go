package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/scry-decks/internal/domain"
	"github.com/phrazzld/scry-decks/internal/platform/logger"
	"github.com/phrazzld/scry-decks/internal/store"
)

const deckColumns = `id, user_id, from_language, to_language_primary, to_language_secondary, design_key, seen_at, created_at, updated_at`

// touchDeckQuery updates seen_at and returns the row with the seen_at it
// had before, read under the same row lock.
const touchDeckQuery = `
	UPDATE decks AS d SET seen_at = $1
	FROM (SELECT id, seen_at FROM decks WHERE id = $2 AND user_id = $3 FOR UPDATE) AS prev
	WHERE d.id = prev.id
	RETURNING d.id, d.user_id, d.from_language, d.to_language_primary, d.to_language_secondary,
		d.design_key, prev.seen_at, d.created_at, d.updated_at`

// PostgresDeckStore implements store.DeckStore.
type PostgresDeckStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresDeckStore creates a deck store on db (a *sql.DB or *sql.Tx).
func NewPostgresDeckStore(db store.DBTX, logger *slog.Logger) *PostgresDeckStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresDeckStore{
		db:     db,
		logger: logger.With(slog.String("component", "deck_store")),
	}
}

var _ store.DeckStore = (*PostgresDeckStore)(nil)

func scanDeck(row rowScanner) (*domain.Deck, error) {
	var d domain.Deck
	err := row.Scan(
		&d.ID,
		&d.UserID,
		&d.FromLanguage,
		&d.ToLanguagePrimary,
		&d.ToLanguageSecondary,
		&d.DesignKey,
		&d.SeenAt,
		&d.CreatedAt,
		&d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *PostgresDeckStore) ListByUser(ctx context.Context, userID int) ([]domain.Deck, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+deckColumns+` FROM decks WHERE user_id = $1 ORDER BY id`, userID)
	if err != nil {
		log.Error("failed to list decks", slog.Int("user_id", userID), slog.String("error", err.Error()))
		return nil, MapError(err, store.ErrDeckNotFound)
	}
	defer func() { _ = rows.Close() }()

	decks := []domain.Deck{}
	for rows.Next() {
		d, err := scanDeck(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan deck: %w", err)
		}
		decks = append(decks, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err, store.ErrDeckNotFound)
	}
	return decks, nil
}

func (s *PostgresDeckStore) Get(ctx context.Context, id, userID int) (*domain.Deck, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	d, err := scanDeck(s.db.QueryRowContext(ctx,
		`SELECT `+deckColumns+` FROM decks WHERE id = $1 AND user_id = $2`, id, userID))
	if err != nil {
		err = MapError(err, store.ErrDeckNotFound)
		if !store.IsNotFoundError(err) {
			log.Error("failed to get deck", slog.Int("deck_id", id), slog.String("error", err.Error()))
		}
		return nil, err
	}
	return d, nil
}

func (s *PostgresDeckStore) Create(ctx context.Context, userID int, form domain.DeckForm) (*domain.Deck, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := form.ValidateCreate(); err != nil {
		return nil, fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	d, err := scanDeck(s.db.QueryRowContext(ctx, `
		INSERT INTO decks (user_id, from_language, to_language_primary, to_language_secondary, design_key)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+deckColumns,
		userID, *form.FromLanguage, *form.ToLanguagePrimary, form.ToLanguageSecondary, form.DesignKey))
	if err != nil {
		err = MapError(err, store.ErrDeckNotFound)
		log.Warn("failed to create deck", slog.Int("user_id", userID), slog.String("error", err.Error()))
		return nil, err
	}

	log.Info("deck created", slog.Int("deck_id", d.ID), slog.Int("user_id", userID))
	return d, nil
}

func (s *PostgresDeckStore) Update(ctx context.Context, id, userID int, form domain.DeckForm) (int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := form.Validate(); err != nil {
		return 0, fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	b := newUpdate("decks")
	setIf(b, "from_language", form.FromLanguage)
	setIf(b, "to_language_primary", form.ToLanguagePrimary)
	setIf(b, "to_language_secondary", form.ToLanguageSecondary)
	setIf(b, "design_key", form.DesignKey)
	setIf(b, "seen_at", form.SeenAt)
	if b.empty() {
		return 0, store.ErrNoUpdates
	}
	query, args := b.whereEq("id", id).whereEq("user_id", userID).build()

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		err = MapError(err, store.ErrDeckNotFound)
		log.Warn("failed to update deck", slog.Int("deck_id", id), slog.String("error", err.Error()))
		return 0, err
	}
	return rowsAffected(result, store.ErrDeckNotFound)
}

func (s *PostgresDeckStore) Touch(ctx context.Context, id, userID int, at time.Time) (*domain.Deck, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	d, err := scanDeck(s.db.QueryRowContext(ctx, touchDeckQuery, at, id, userID))
	if err != nil {
		err = MapError(err, store.ErrDeckNotFound)
		if !store.IsNotFoundError(err) {
			log.Error("failed to touch deck", slog.Int("deck_id", id), slog.String("error", err.Error()))
		}
		return nil, err
	}

	log.Debug("deck touched", slog.Int("deck_id", id), slog.Time("previous_seen_at", d.SeenAt))
	return d, nil
}

func (s *PostgresDeckStore) Delete(ctx context.Context, id, userID int) (int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM decks WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		err = MapError(err, store.ErrDeckNotFound)
		log.Warn("failed to delete deck", slog.Int("deck_id", id), slog.String("error", err.Error()))
		return 0, err
	}
	return rowsAffected(result, store.ErrDeckNotFound)
}

func (s *PostgresDeckStore) WithTx(tx *sql.Tx) store.DeckStore {
	return &PostgresDeckStore{db: tx, logger: s.logger}
}
