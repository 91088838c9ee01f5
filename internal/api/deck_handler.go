package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/scry-decks/internal/api/shared"
	"github.com/phrazzld/scry-decks/internal/domain"
	"github.com/phrazzld/scry-decks/internal/service"
)

// DeckHandler serves /api/decks. The service scopes every call to the
// configured user.
type DeckHandler struct {
	decks  service.DeckService
	logger *slog.Logger
}

// NewDeckHandler creates a new DeckHandler
func NewDeckHandler(decks service.DeckService, log *slog.Logger) *DeckHandler {
	if decks == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("deck service cannot be nil for DeckHandler")
	}
	if log == nil {
		log = slog.Default()
	}
	return &DeckHandler{
		decks:  decks,
		logger: log.With(slog.String("component", "deck_handler")),
	}
}

func (h *DeckHandler) List(w http.ResponseWriter, r *http.Request) {
	decks, err := h.decks.ListDecks(r.Context())
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, decks)
}

func (h *DeckHandler) Get(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathIDs(w, r, "deckID")
	if !ok {
		return
	}
	deck, err := h.decks.GetDeck(r.Context(), ids[0])
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, deck)
}

func (h *DeckHandler) Create(w http.ResponseWriter, r *http.Request) {
	var form domain.DeckForm
	if !decodeBody(w, r, &form) {
		return
	}
	deck, err := h.decks.CreateDeck(r.Context(), form)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	shared.RespondWithData(w, r, http.StatusCreated, deck)
}

func (h *DeckHandler) Update(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathIDs(w, r, "deckID")
	if !ok {
		return
	}
	var form domain.DeckForm
	if !decodeBody(w, r, &form) {
		return
	}
	n, err := h.decks.UpdateDeck(r.Context(), ids[0], form)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, shared.RowsAffected{RowsAffected: n})
}

// Delete answers 409 while the deck still has cards.
func (h *DeckHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathIDs(w, r, "deckID")
	if !ok {
		return
	}
	n, err := h.decks.DeleteDeck(r.Context(), ids[0])
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, shared.RowsAffected{RowsAffected: n})
}
