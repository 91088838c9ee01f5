package domain

import (
	"fmt"
	"time"
)

// Forms carry partial updates: a nil field is left untouched. The same
// forms are used for creation, where some fields become mandatory.

// UserForm is the writable subset of User.
type UserForm struct {
	Name  *string `json:"name,omitempty"`
	Email *string `json:"email,omitempty"`
}

// Empty reports whether the form sets no field.
func (f UserForm) Empty() bool {
	return f.Name == nil && f.Email == nil
}

// Validate checks the fields that are set.
func (f UserForm) Validate() error {
	if f.Name != nil && *f.Name == "" {
		return fmt.Errorf("%w: name: %w", ErrValidation, ErrEmptyContent)
	}
	if f.Email != nil {
		return validateEmail(*f.Email)
	}
	return nil
}

// ValidateCreate additionally requires name and email.
func (f UserForm) ValidateCreate() error {
	if f.Name == nil {
		return fmt.Errorf("%w: name", ErrMissingField)
	}
	if f.Email == nil {
		return fmt.Errorf("%w: email", ErrMissingField)
	}
	return f.Validate()
}

// DeckForm is the writable subset of Deck.
type DeckForm struct {
	FromLanguage        *string    `json:"from_language,omitempty"`
	ToLanguagePrimary   *string    `json:"to_language_primary,omitempty"`
	ToLanguageSecondary *string    `json:"to_language_secondary,omitempty"`
	DesignKey           *string    `json:"design_key,omitempty"`
	SeenAt              *time.Time `json:"seen_at,omitempty"`
}

func (f DeckForm) Empty() bool {
	return f.FromLanguage == nil && f.ToLanguagePrimary == nil &&
		f.ToLanguageSecondary == nil && f.DesignKey == nil && f.SeenAt == nil
}

func (f DeckForm) Validate() error {
	if f.FromLanguage != nil && *f.FromLanguage == "" {
		return fmt.Errorf("%w: from_language: %w", ErrValidation, ErrEmptyContent)
	}
	if f.ToLanguagePrimary != nil && *f.ToLanguagePrimary == "" {
		return fmt.Errorf("%w: to_language_primary: %w", ErrValidation, ErrEmptyContent)
	}
	return nil
}

func (f DeckForm) ValidateCreate() error {
	if f.FromLanguage == nil {
		return fmt.Errorf("%w: from_language", ErrMissingField)
	}
	if f.ToLanguagePrimary == nil {
		return fmt.Errorf("%w: to_language_primary", ErrMissingField)
	}
	return f.Validate()
}

// CardForm is the writable subset of Card. Rating here is an administrative
// override; reviews go through the review service instead.
type CardForm struct {
	RelatedCardIDs  *[]int     `json:"related_card_ids,omitempty"`
	FromText        *string    `json:"from_text,omitempty"`
	ToTextPrimary   *string    `json:"to_text_primary,omitempty"`
	ToTextSecondary *string    `json:"to_text_secondary,omitempty"`
	ExampleText     *string    `json:"example_text,omitempty"`
	AudioURL        *string    `json:"audio_url,omitempty"`
	SeenAt          *time.Time `json:"seen_at,omitempty"`
	SeenFor         *int       `json:"seen_for,omitempty"`
	Rating          *Rating    `json:"rating,omitempty"`
}

func (f CardForm) Empty() bool {
	return f.RelatedCardIDs == nil && f.FromText == nil && f.ToTextPrimary == nil &&
		f.ToTextSecondary == nil && f.ExampleText == nil && f.AudioURL == nil &&
		f.SeenAt == nil && f.SeenFor == nil && f.Rating == nil
}

func (f CardForm) Validate() error {
	if f.FromText != nil && *f.FromText == "" {
		return fmt.Errorf("%w: from_text: %w", ErrValidation, ErrEmptyContent)
	}
	if f.ToTextPrimary != nil && *f.ToTextPrimary == "" {
		return fmt.Errorf("%w: to_text_primary: %w", ErrValidation, ErrEmptyContent)
	}
	if f.Rating != nil && !f.Rating.Valid() {
		return fmt.Errorf("%w: %w", ErrValidation, ErrInvalidRating)
	}
	if f.SeenFor != nil && *f.SeenFor < 0 {
		return fmt.Errorf("%w: seen_for must not be negative", ErrValidation)
	}
	if f.RelatedCardIDs != nil {
		return validateRelated(0, *f.RelatedCardIDs)
	}
	return nil
}

func (f CardForm) ValidateCreate() error {
	if f.FromText == nil {
		return fmt.Errorf("%w: from_text", ErrMissingField)
	}
	if f.ToTextPrimary == nil {
		return fmt.Errorf("%w: to_text_primary", ErrMissingField)
	}
	return f.Validate()
}

// HasExample reports whether the form supplies a non-empty example.
func (f CardForm) HasExample() bool {
	return f.ExampleText != nil && *f.ExampleText != ""
}
