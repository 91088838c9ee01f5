package gemini

import (
	"context"
	"errors"
	"net/http"

	"google.golang.org/genai"
)

// isTransient reports whether a failed API call may succeed when retried.
// Rate limits and server errors are transient; other API errors are not.
// Errors without an API status (network failures) are retried.
func isTransient(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code == http.StatusTooManyRequests || apiErr.Code >= http.StatusInternalServerError
	}
	return true
}
