package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/scry-decks/internal/api/shared"
	"github.com/phrazzld/scry-decks/internal/domain"
	"github.com/phrazzld/scry-decks/internal/platform/logger"
	"github.com/phrazzld/scry-decks/internal/service"
)

// UserHandler serves /api/users.
type UserHandler struct {
	users  service.UserService
	logger *slog.Logger
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(users service.UserService, log *slog.Logger) *UserHandler {
	if users == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("user service cannot be nil for UserHandler")
	}
	if log == nil {
		log = slog.Default()
	}
	return &UserHandler{
		users:  users,
		logger: log.With(slog.String("component", "user_handler")),
	}
}

// List handles GET /api/users.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.ListUsers(r.Context())
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, users)
}

// Get handles GET /api/users/{userID}.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathIDs(w, r, "userID")
	if !ok {
		return
	}
	user, err := h.users.GetUser(r.Context(), ids[0])
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, user)
}

// Create handles POST /api/users.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var form domain.UserForm
	if !decodeBody(w, r, &form) {
		return
	}
	user, err := h.users.CreateUser(r.Context(), form)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	log.Debug("user created via api", slog.Int("user_id", user.ID))
	shared.RespondWithData(w, r, http.StatusCreated, user)
}

// Update handles PUT /api/users/{userID}.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathIDs(w, r, "userID")
	if !ok {
		return
	}
	var form domain.UserForm
	if !decodeBody(w, r, &form) {
		return
	}
	n, err := h.users.UpdateUser(r.Context(), ids[0], form)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, shared.RowsAffected{RowsAffected: n})
}

// Delete handles DELETE /api/users/{userID}.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathIDs(w, r, "userID")
	if !ok {
		return
	}
	n, err := h.users.DeleteUser(r.Context(), ids[0])
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, shared.RowsAffected{RowsAffected: n})
}
