package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is wrapped by every entity validation failure.
	ErrValidation = errors.New("validation failed")

	ErrInvalidID     = errors.New("invalid ID")
	ErrInvalidEmail  = errors.New("invalid email format")
	ErrEmptyContent  = errors.New("content cannot be empty")
	ErrInvalidRating = errors.New("invalid rating")
	ErrInvalidSide   = errors.New("invalid side")

	// ErrMissingField is returned when a create form lacks a mandatory field.
	ErrMissingField = errors.New("missing required field")

	// ErrNoFields is returned when an update form sets nothing.
	ErrNoFields = errors.New("no fields to update")
)
