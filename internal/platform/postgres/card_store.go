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

const cardColumns = `id, deck_id, related_card_ids, from_text, to_text_primary, to_text_secondary, ` +
	`example_text, audio_url, seen_at, seen_for, rating, prev_rating, created_at, updated_at`

// PostgresCardStore implements store.CardStore.
type PostgresCardStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresCardStore creates a card store on db (a *sql.DB or *sql.Tx).
func NewPostgresCardStore(db store.DBTX, logger *slog.Logger) *PostgresCardStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresCardStore{
		db:     db,
		logger: logger.With(slog.String("component", "card_store")),
	}
}

var _ store.CardStore = (*PostgresCardStore)(nil)

func scanCard(row rowScanner) (*domain.Card, error) {
	var c domain.Card
	var related []int32
	err := row.Scan(
		&c.ID,
		&c.DeckID,
		intArrayScanner(&related),
		&c.FromText,
		&c.ToTextPrimary,
		&c.ToTextSecondary,
		&c.ExampleText,
		&c.AudioURL,
		&c.SeenAt,
		&c.SeenFor,
		&c.Rating,
		&c.PrevRating,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	c.RelatedCardIDs = toInts(related)
	return &c, nil
}

func (s *PostgresCardStore) ListByDeck(ctx context.Context, deckID int) ([]domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+cardColumns+` FROM cards WHERE deck_id = $1 ORDER BY id`, deckID)
	if err != nil {
		log.Error("failed to list cards", slog.Int("deck_id", deckID), slog.String("error", err.Error()))
		return nil, MapError(err, store.ErrCardNotFound)
	}
	defer func() { _ = rows.Close() }()

	cards := []domain.Card{}
	for rows.Next() {
		c, err := scanCard(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan card: %w", err)
		}
		cards = append(cards, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err, store.ErrCardNotFound)
	}

	log.Debug("cards listed", slog.Int("deck_id", deckID), slog.Int("count", len(cards)))
	return cards, nil
}

func (s *PostgresCardStore) Get(ctx context.Context, deckID, id int) (*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	c, err := scanCard(s.db.QueryRowContext(ctx,
		`SELECT `+cardColumns+` FROM cards WHERE deck_id = $1 AND id = $2`, deckID, id))
	if err != nil {
		err = MapError(err, store.ErrCardNotFound)
		if !store.IsNotFoundError(err) {
			log.Error("failed to get card", slog.Int("card_id", id), slog.String("error", err.Error()))
		}
		return nil, err
	}
	return c, nil
}

func (s *PostgresCardStore) Create(ctx context.Context, deckID int, form domain.CardForm) (*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := form.ValidateCreate(); err != nil {
		return nil, fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	var related []int
	if form.RelatedCardIDs != nil {
		related = *form.RelatedCardIDs
	}

	c, err := scanCard(s.db.QueryRowContext(ctx, `
		INSERT INTO cards (deck_id, related_card_ids, from_text, to_text_primary, to_text_secondary, example_text, audio_url)
		VALUES ($1, $2::int[], $3, $4, $5, $6, $7)
		RETURNING `+cardColumns,
		deckID,
		intArrayLiteral(related),
		*form.FromText,
		*form.ToTextPrimary,
		form.ToTextSecondary,
		form.ExampleText,
		form.AudioURL,
	))
	if err != nil {
		err = MapError(err, store.ErrCardNotFound)
		log.Warn("failed to create card", slog.Int("deck_id", deckID), slog.String("error", err.Error()))
		return nil, err
	}

	log.Info("card created", slog.Int("card_id", c.ID), slog.Int("deck_id", deckID))
	return c, nil
}

func (s *PostgresCardStore) Update(ctx context.Context, deckID, id int, form domain.CardForm) (int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := form.Validate(); err != nil {
		return 0, fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	b := newUpdate("cards")
	if form.RelatedCardIDs != nil {
		b.setCast("related_card_ids", intArrayLiteral(*form.RelatedCardIDs), "int[]")
	}
	setIf(b, "from_text", form.FromText)
	setIf(b, "to_text_primary", form.ToTextPrimary)
	setIf(b, "to_text_secondary", form.ToTextSecondary)
	setIf(b, "example_text", form.ExampleText)
	setIf(b, "audio_url", form.AudioURL)
	setIf(b, "seen_at", form.SeenAt)
	setIf(b, "seen_for", form.SeenFor)
	if form.Rating != nil {
		b.set("rating", int(*form.Rating))
	}
	if b.empty() {
		return 0, store.ErrNoUpdates
	}
	query, args := b.whereEq("deck_id", deckID).whereEq("id", id).build()

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		err = MapError(err, store.ErrCardNotFound)
		log.Warn("failed to update card", slog.Int("card_id", id), slog.String("error", err.Error()))
		return 0, err
	}
	return rowsAffected(result, store.ErrCardNotFound)
}

func (s *PostgresCardStore) Rate(
	ctx context.Context,
	deckID, id int,
	rating domain.Rating,
	seenFor int,
	at time.Time,
) (*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if !rating.IsReview() {
		return nil, fmt.Errorf("%w: %w", store.ErrInvalidEntity, domain.ErrInvalidRating)
	}
	if seenFor < 0 {
		return nil, fmt.Errorf("%w: seen_for must not be negative", store.ErrInvalidEntity)
	}

	c, err := scanCard(s.db.QueryRowContext(ctx, `
		UPDATE cards SET rating = $1, seen_for = $2, seen_at = $3
		WHERE deck_id = $4 AND id = $5
		RETURNING `+cardColumns,
		int(rating), seenFor, at, deckID, id))
	if err != nil {
		err = MapError(err, store.ErrCardNotFound)
		log.Warn("failed to rate card", slog.Int("card_id", id), slog.String("error", err.Error()))
		return nil, err
	}

	log.Info("card rated",
		slog.Int("card_id", id),
		slog.Int("rating", int(c.Rating)),
		slog.Int("prev_rating", int(c.PrevRating)))
	return c, nil
}

func (s *PostgresCardStore) SetExample(ctx context.Context, id int, text string) (bool, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx,
		`UPDATE cards SET example_text = $1 WHERE id = $2 AND example_text IS NULL`, text, id)
	if err != nil {
		err = MapError(err, store.ErrCardNotFound)
		log.Error("failed to set example", slog.Int("card_id", id), slog.String("error", err.Error()))
		return false, err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n > 0, nil
}

func (s *PostgresCardStore) Delete(ctx context.Context, deckID, id int) (int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM cards WHERE deck_id = $1 AND id = $2`, deckID, id)
	if err != nil {
		err = MapError(err, store.ErrCardNotFound)
		log.Warn("failed to delete card", slog.Int("card_id", id), slog.String("error", err.Error()))
		return 0, err
	}
	return rowsAffected(result, store.ErrCardNotFound)
}

func (s *PostgresCardStore) WithTx(tx *sql.Tx) store.CardStore {
	return &PostgresCardStore{db: tx, logger: s.logger}
}
