package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/scry-decks/internal/api/shared"
	"github.com/phrazzld/scry-decks/internal/domain"
	"github.com/phrazzld/scry-decks/internal/service"
	"github.com/phrazzld/scry-decks/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	case errors.Is(err, store.ErrDuplicate),
		errors.Is(err, store.ErrReferenced):
		return http.StatusConflict

	case errors.Is(err, shared.ErrUnsupportedMediaType):
		return http.StatusUnsupportedMediaType

	case errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, store.ErrNoUpdates),
		errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrMissingField),
		errors.Is(err, domain.ErrInvalidRating),
		errors.Is(err, domain.ErrInvalidSide),
		errors.Is(err, domain.ErrInvalidID):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, store.ErrUserNotFound):
		return "User not found"
	case errors.Is(err, store.ErrDeckNotFound):
		return "Deck not found"
	case errors.Is(err, store.ErrCardNotFound):
		return "Card not found"
	case errors.Is(err, store.ErrNotFound):
		return "Not found"

	case errors.Is(err, store.ErrEmailExists):
		return "Email already exists"
	case errors.Is(err, store.ErrDuplicate):
		return "Entity already exists"
	case errors.Is(err, store.ErrReferenced):
		return "Entity is still referenced"

	case errors.Is(err, shared.ErrUnsupportedMediaType):
		return "Unsupported content type"

	case errors.Is(err, store.ErrNoUpdates):
		return "No fields to update"
	case errors.Is(err, domain.ErrMissingField):
		return missingFieldMessage(err)
	case errors.Is(err, domain.ErrInvalidRating):
		return "Rating must be between 1 and 4"
	case errors.Is(err, domain.ErrInvalidEmail):
		return "Invalid email format"
	case errors.Is(err, domain.ErrEmptyContent):
		return "Text fields cannot be empty"
	case errors.Is(err, domain.ErrInvalidSide):
		return "Side must be from or to"
	case errors.Is(err, domain.ErrInvalidID):
		return "Invalid ID"
	case errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, service.ErrInvalidInput):
		return "Invalid entity data"

	default:
		return "An unexpected error occurred"
	}
}

// missingFieldMessage names the missing field. Field names come from the
// domain forms, never from user input.
func missingFieldMessage(err error) string {
	msg := err.Error()
	marker := domain.ErrMissingField.Error() + ": "
	if i := strings.LastIndex(msg, marker); i >= 0 {
		field := msg[i+len(marker):]
		if j := strings.IndexAny(field, ": "); j >= 0 {
			field = field[:j]
		}
		if field != "" {
			return fmt.Sprintf("Missing required field: %s", field)
		}
	}
	return "Missing required field"
}

// SanitizeValidationError turns validator errors into a short message naming
// the first failing field.
func SanitizeValidationError(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return fmt.Sprintf("Invalid %s: %s", strings.ToLower(fe.Field()), getValidationTagMessage(fe.Tag()))
	}
	return "Validation error"
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "email":
		return "invalid email format"
	case "min", "gte", "gt":
		return "too small"
	case "max", "lte", "lt":
		return "too large"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}

// respondWithServiceError maps err and writes the error envelope.
func respondWithServiceError(w http.ResponseWriter, r *http.Request, err error) {
	shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
}
