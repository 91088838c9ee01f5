package domain

import (
	"fmt"
	"strings"
	"time"
)

// Card is a single review item. PrevRating holds the rating that was
// replaced by the most recent change of Rating, giving one step of history.
type Card struct {
	ID              int       `json:"id"`
	DeckID          int       `json:"deck_id"`
	RelatedCardIDs  []int     `json:"related_card_ids"`
	FromText        string    `json:"from_text"`
	ToTextPrimary   string    `json:"to_text_primary"`
	ToTextSecondary *string   `json:"to_text_secondary"`
	ExampleText     *string   `json:"example_text"`
	AudioURL        *string   `json:"audio_url"`
	SeenAt          time.Time `json:"seen_at"`
	// SeenFor is the client-measured exposure time in milliseconds.
	SeenFor    *int      `json:"seen_for"`
	Rating     Rating    `json:"rating"`
	PrevRating Rating    `json:"prev_rating"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (c *Card) Validate() error {
	if c.DeckID <= 0 {
		return fmt.Errorf("%w: deck_id: %w", ErrValidation, ErrInvalidID)
	}
	if strings.TrimSpace(c.FromText) == "" {
		return fmt.Errorf("%w: from_text: %w", ErrValidation, ErrEmptyContent)
	}
	if strings.TrimSpace(c.ToTextPrimary) == "" {
		return fmt.Errorf("%w: to_text_primary: %w", ErrValidation, ErrEmptyContent)
	}
	if !c.Rating.Valid() || !c.PrevRating.Valid() {
		return fmt.Errorf("%w: %w", ErrValidation, ErrInvalidRating)
	}
	if c.SeenFor != nil && *c.SeenFor < 0 {
		return fmt.Errorf("%w: seen_for must not be negative", ErrValidation)
	}
	return validateRelated(c.ID, c.RelatedCardIDs)
}

func validateRelated(self int, ids []int) error {
	for _, id := range ids {
		if id <= 0 || (self > 0 && id == self) {
			return fmt.Errorf("%w: related_card_ids: %w", ErrValidation, ErrInvalidID)
		}
	}
	return nil
}

// ApplyReview records a review in memory the same way the cards table does:
// prev_rating takes the old rating only when the rating changes.
func (c *Card) ApplyReview(rating Rating, seenFor int, at time.Time) error {
	if !rating.IsReview() {
		return fmt.Errorf("%w: %d", ErrInvalidRating, int(rating))
	}
	if seenFor < 0 {
		return fmt.Errorf("%w: seen_for must not be negative", ErrValidation)
	}
	if rating != c.Rating {
		c.PrevRating = c.Rating
		c.Rating = rating
	}
	c.SeenFor = &seenFor
	c.SeenAt = at
	if at.After(c.UpdatedAt) {
		c.UpdatedAt = at
	} else {
		c.UpdatedAt = c.UpdatedAt.Add(time.Microsecond)
	}
	return nil
}

// IsEnd reports whether c is the placeholder shown after the last card.
func (c *Card) IsEnd() bool {
	return c.ID == 0
}

// EndCardText is shown on the placeholder after the last card of a session.
const EndCardText = "The End"

// EndCard returns the placeholder shown after the last card of a deck.
func EndCard(deckID int) Card {
	return Card{DeckID: deckID, FromText: EndCardText, ToTextPrimary: EndCardText}
}
