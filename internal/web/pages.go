package web

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/scry-decks/internal/api"
	"github.com/phrazzld/scry-decks/internal/api/middleware"
	"github.com/phrazzld/scry-decks/internal/api/shared"
	"github.com/phrazzld/scry-decks/internal/domain"
	"github.com/phrazzld/scry-decks/internal/platform/logger"
	"github.com/phrazzld/scry-decks/internal/redact"
	"github.com/phrazzld/scry-decks/internal/service/review"
)

// flipParam marks a request that turns the current card over. An existing
// session is kept, even at index 0.
const flipParam = "flip"

type homePage struct {
	Decks []domain.Deck
	Token string
}

type ratingButton struct {
	Value int
	Label string
}

var ratingButtons = []ratingButton{
	{int(domain.RatingAgain), "again"},
	{int(domain.RatingHard), "hard"},
	{int(domain.RatingGood), "good"},
	{int(domain.RatingEasy), "easy"},
}

type actionPage struct {
	Slide   *review.Slide
	Flip    domain.Side
	Ratings []ratingButton
	Token   string
}

type cardFormPage struct {
	Deck  *domain.Deck
	Card  *domain.Card
	Index int
	Token string
}

// rateRequest is the rating form of the review page.
type rateRequest struct {
	CardID  int `json:"card_id" validate:"required,gt=0"`
	Rating  int `json:"rating" validate:"required,min=1,max=4"`
	SeenFor int `json:"seen_for" validate:"min=0"`
}

// handleHome lists the decks. A request without the session token gets an
// empty list.
func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), s.logger)

	page := homePage{}
	if s.auth.Valid(r) {
		decks, err := s.decks.ListDecks(r.Context())
		if err != nil {
			log.Error("failed to list decks", slog.String("error", redact.Error(err)))
		} else {
			page.Decks = decks
			page.Token = middleware.Token(r)
		}
	}
	s.render(w, r, "home", http.StatusOK, page)
}

// handleAction shows one card of a review session.
func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	if !s.requireToken(w, r) {
		return
	}
	deckID, index, ok := s.deckAndIndex(w, r)
	if !ok {
		return
	}
	side, err := domain.ParseSide(chi.URLParam(r, "side"))
	if err != nil {
		s.fail(w, r, err)
		return
	}

	show := s.reviews.CardAt
	if r.URL.Query().Get(flipParam) != "" {
		show = s.reviews.Show
	}
	slide, err := show(r.Context(), deckID, index, side)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.render(w, r, "action", http.StatusOK, actionPage{
		Slide:   slide,
		Flip:    side.Flip(),
		Ratings: ratingButtons,
		Token:   middleware.Token(r),
	})
}

// handleRate stores a rating and sends the browser to the next card.
func (s *Server) handleRate(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), s.logger)

	if !s.requireToken(w, r) {
		return
	}
	deckID, index, ok := s.deckAndIndex(w, r)
	if !ok {
		return
	}

	var req rateRequest
	if err := shared.DecodeForm(w, r, &req); err != nil {
		log.Debug("invalid rating form", slog.String("error", redact.Error(err)))
		http.Error(w, "Invalid rating form", http.StatusBadRequest)
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		http.Error(w, api.SanitizeValidationError(err), http.StatusBadRequest)
		return
	}

	next, err := s.reviews.Rate(r.Context(), deckID, index, req.CardID, domain.Rating(req.Rating), req.SeenFor)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	target := fmt.Sprintf("/action/%d/%d/%s?%s", deckID, next, domain.SideFrom,
		url.Values{middleware.TokenParam: {middleware.Token(r)}}.Encode())
	if isHTMX(r) {
		w.Header().Set("HX-Redirect", target)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// handleAddCard shows an empty card form for a deck.
func (s *Server) handleAddCard(w http.ResponseWriter, r *http.Request) {
	if !s.requireToken(w, r) {
		return
	}
	deckID, index, ok := s.deckAndIndex(w, r)
	if !ok {
		return
	}
	deck, err := s.decks.GetDeck(r.Context(), deckID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.render(w, r, "card_form", http.StatusOK, cardFormPage{
		Deck:  deck,
		Index: index,
		Token: middleware.Token(r),
	})
}

// handleEditCard shows the card form filled with an existing card.
func (s *Server) handleEditCard(w http.ResponseWriter, r *http.Request) {
	if !s.requireToken(w, r) {
		return
	}
	deckID, index, ok := s.deckAndIndex(w, r)
	if !ok {
		return
	}
	cardID, err := pathInt(r, "cardID", 1)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	deck, err := s.decks.GetDeck(r.Context(), deckID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	card, err := s.cards.GetCard(r.Context(), deckID, cardID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.render(w, r, "card_form", http.StatusOK, cardFormPage{
		Deck:  deck,
		Card:  card,
		Index: index,
		Token: middleware.Token(r),
	})
}

func (s *Server) deckAndIndex(w http.ResponseWriter, r *http.Request) (int, int, bool) {
	deckID, err := pathInt(r, "deckID", 1)
	if err != nil {
		s.fail(w, r, err)
		return 0, 0, false
	}
	index, err := pathInt(r, "index", 0)
	if err != nil {
		s.fail(w, r, err)
		return 0, 0, false
	}
	return deckID, index, true
}

// pathInt parses an integer path parameter no smaller than lowest.
func pathInt(r *http.Request, name string, lowest int) (int, error) {
	n, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil || n < lowest {
		return 0, fmt.Errorf("%w: %s", domain.ErrInvalidID, name)
	}
	return n, nil
}

// fail writes a plain text error with the status the API would use.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := api.MapErrorToStatusCode(err)
	log := logger.FromContextOrDefault(r.Context(), s.logger)
	if status >= http.StatusInternalServerError {
		log.Error("page request failed", slog.String("error", redact.Error(err)))
	} else {
		log.Debug("page request rejected", slog.String("error", redact.Error(err)))
	}
	http.Error(w, api.GetSafeErrorMessage(err), status)
}
