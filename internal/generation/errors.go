package generation

import "errors"

// Common errors returned by generators.
var (
	// ErrGenerationFailed is returned when generation fails for any general reason.
	ErrGenerationFailed = errors.New("failed to generate example")

	// ErrInvalidResponse is returned when the model response is empty or malformed.
	ErrInvalidResponse = errors.New("invalid response from language model")

	// ErrContentBlocked is returned when the model blocks the content due to safety filters.
	ErrContentBlocked = errors.New("content blocked by language model safety filters")

	// ErrTransientFailure is returned for temporary errors that might resolve on retry.
	ErrTransientFailure = errors.New("transient error during example generation")

	// ErrInvalidConfig is returned when the generator configuration is invalid.
	ErrInvalidConfig = errors.New("invalid generator configuration")

	// ErrInvalidRequest is returned when the request lacks the text to illustrate.
	ErrInvalidRequest = errors.New("invalid example request")
)
