package api

import (
	"github.com/go-chi/chi/v5"
)

// Handlers groups the API handlers mounted under /api.
type Handlers struct {
	Users *UserHandler
	Decks *DeckHandler
	Cards *CardHandler
}

// Register mounts the API routes on r. Authentication is applied by the
// caller.
func (h Handlers) Register(r chi.Router) {
	r.Route("/users", func(r chi.Router) {
		r.Get("/", h.Users.List)
		r.Post("/", h.Users.Create)
		r.Get("/{userID}", h.Users.Get)
		r.Put("/{userID}", h.Users.Update)
		r.Delete("/{userID}", h.Users.Delete)
	})
	r.Route("/decks", func(r chi.Router) {
		r.Get("/", h.Decks.List)
		r.Post("/", h.Decks.Create)
		r.Get("/{deckID}", h.Decks.Get)
		r.Put("/{deckID}", h.Decks.Update)
		r.Delete("/{deckID}", h.Decks.Delete)
	})
	r.Route("/cards/{deckID}", func(r chi.Router) {
		r.Get("/", h.Cards.List)
		r.Post("/", h.Cards.Create)
		r.Get("/{cardID}", h.Cards.Get)
		r.Put("/{cardID}", h.Cards.Update)
		r.Delete("/{cardID}", h.Cards.Delete)
	})
}
