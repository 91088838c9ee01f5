package middleware

import (
	"crypto/subtle"
	"log/slog"
	"net/http"

	"github.com/phrazzld/scry-decks/internal/api/shared"
	"github.com/phrazzld/scry-decks/internal/config"
	"github.com/phrazzld/scry-decks/internal/platform/logger"
)

// TokenParam is the query parameter carrying the session token.
const TokenParam = "uuid"

// TokenAuth checks the configured session token. There is a single user;
// a matching token authenticates as that user.
type TokenAuth struct {
	token  []byte
	userID int
}

// NewTokenAuth creates a TokenAuth from the auth configuration.
func NewTokenAuth(cfg config.AuthConfig) *TokenAuth {
	if cfg.SessionToken == "" {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("session token cannot be empty")
	}
	return &TokenAuth{token: []byte(cfg.SessionToken), userID: cfg.UserID}
}

// Token returns the query token of r.
func Token(r *http.Request) string {
	return r.URL.Query().Get(TokenParam)
}

// Valid reports whether r carries the session token.
func (a *TokenAuth) Valid(r *http.Request) bool {
	got := Token(r)
	return got != "" && subtle.ConstantTimeCompare([]byte(got), a.token) == 1
}

// UserID returns the configured user.
func (a *TokenAuth) UserID() int {
	return a.userID
}

// Authenticate rejects requests without the session token and adds the
// user ID to the request context for the rest.
func (a *TokenAuth) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !a.Valid(r) {
			logger.FromContext(r.Context()).Debug("rejected request without valid token",
				slog.String("path", r.URL.Path))
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid or missing token")
			return
		}
		next.ServeHTTP(w, r.WithContext(shared.WithUserID(r.Context(), a.userID)))
	})
}
