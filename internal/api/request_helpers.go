package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/scry-decks/internal/api/shared"
	"github.com/phrazzld/scry-decks/internal/domain"
)

// getPathID extracts a positive integer id from the URL path parameters.
func getPathID(r *http.Request, paramName string) (int, error) {
	raw := chi.URLParam(r, paramName)
	if raw == "" {
		return 0, fmt.Errorf("%w: %s is required", domain.ErrInvalidID, paramName)
	}
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %s", domain.ErrInvalidID, paramName)
	}
	return id, nil
}

// pathIDs extracts the named ids, writing a 400 response on the first
// invalid one.
func pathIDs(w http.ResponseWriter, r *http.Request, names ...string) ([]int, bool) {
	ids := make([]int, len(names))
	for i, name := range names {
		id, err := getPathID(r, name)
		if err != nil {
			respondWithServiceError(w, r, err)
			return nil, false
		}
		ids[i] = id
	}
	return ids, true
}

// decodeBody decodes a JSON or form body into v, writing a 4xx response on
// failure.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := shared.DecodeForm(w, r, v); err != nil {
		status := MapErrorToStatusCode(err)
		msg := GetSafeErrorMessage(err)
		if status == http.StatusInternalServerError {
			status, msg = http.StatusBadRequest, "Invalid request body"
		}
		shared.RespondWithErrorAndLog(w, r, status, msg, err)
		return false
	}
	return true
}
