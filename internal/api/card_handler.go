package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/scry-decks/internal/api/shared"
	"github.com/phrazzld/scry-decks/internal/domain"
	"github.com/phrazzld/scry-decks/internal/platform/logger"
	"github.com/phrazzld/scry-decks/internal/service"
)

// CardHandler serves /api/cards/{deckID}.
type CardHandler struct {
	cards  service.CardService
	logger *slog.Logger
}

// NewCardHandler creates a new CardHandler
func NewCardHandler(cards service.CardService, log *slog.Logger) *CardHandler {
	if cards == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("card service cannot be nil for CardHandler")
	}
	if log == nil {
		log = slog.Default()
	}
	return &CardHandler{
		cards:  cards,
		logger: log.With(slog.String("component", "card_handler")),
	}
}

// List handles GET /api/cards/{deckID}.
func (h *CardHandler) List(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathIDs(w, r, "deckID")
	if !ok {
		return
	}
	cards, err := h.cards.ListCards(r.Context(), ids[0])
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, cards)
}

// Get handles GET /api/cards/{deckID}/{cardID}.
func (h *CardHandler) Get(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathIDs(w, r, "deckID", "cardID")
	if !ok {
		return
	}
	card, err := h.cards.GetCard(r.Context(), ids[0], ids[1])
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, card)
}

// Create handles POST /api/cards/{deckID}.
func (h *CardHandler) Create(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	ids, ok := pathIDs(w, r, "deckID")
	if !ok {
		return
	}
	var form domain.CardForm
	if !decodeBody(w, r, &form) {
		return
	}
	card, err := h.cards.CreateCard(r.Context(), ids[0], form)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	log.Debug("card created via api",
		slog.Int("deck_id", card.DeckID),
		slog.Int("card_id", card.ID))
	shared.RespondWithData(w, r, http.StatusCreated, card)
}

// Update handles PUT /api/cards/{deckID}/{cardID}.
func (h *CardHandler) Update(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathIDs(w, r, "deckID", "cardID")
	if !ok {
		return
	}
	var form domain.CardForm
	if !decodeBody(w, r, &form) {
		return
	}
	n, err := h.cards.UpdateCard(r.Context(), ids[0], ids[1], form)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, shared.RowsAffected{RowsAffected: n})
}

// Delete handles DELETE /api/cards/{deckID}/{cardID}.
func (h *CardHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathIDs(w, r, "deckID", "cardID")
	if !ok {
		return
	}
	n, err := h.cards.DeleteCard(r.Context(), ids[0], ids[1])
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, shared.RowsAffected{RowsAffected: n})
}
