package domain

import (
	"fmt"
	"strings"
	"time"
)

// Deck is a user's collection of cards for one language pair.
type Deck struct {
	ID                  int       `json:"id"`
	UserID              int       `json:"user_id"`
	FromLanguage        string    `json:"from_language"`
	ToLanguagePrimary   string    `json:"to_language_primary"`
	ToLanguageSecondary *string   `json:"to_language_secondary"`
	DesignKey           *string   `json:"design_key"`
	SeenAt              time.Time `json:"seen_at"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

func (d *Deck) Validate() error {
	if d.UserID <= 0 {
		return fmt.Errorf("%w: user_id: %w", ErrValidation, ErrInvalidID)
	}
	if strings.TrimSpace(d.FromLanguage) == "" {
		return fmt.Errorf("%w: from_language: %w", ErrValidation, ErrEmptyContent)
	}
	if strings.TrimSpace(d.ToLanguagePrimary) == "" {
		return fmt.Errorf("%w: to_language_primary: %w", ErrValidation, ErrEmptyContent)
	}
	return nil
}

// Languages renders the pair for display, e.g. "de → en / fr".
func (d *Deck) Languages() string {
	s := d.FromLanguage + " → " + d.ToLanguagePrimary
	if d.ToLanguageSecondary != nil && *d.ToLanguageSecondary != "" {
		s += " / " + *d.ToLanguageSecondary
	}
	return s
}
