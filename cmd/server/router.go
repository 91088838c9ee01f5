package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	apimw "github.com/phrazzld/scry-decks/internal/api/middleware"
	"github.com/phrazzld/scry-decks/internal/api/shared"
	"github.com/rs/cors"
)

// routes builds the router: health check, the JSON API under /api and the
// htmx pages at the root.
func (a *application) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(apimw.TraceMiddleware(a.logger))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		shared.RespondWithData(w, r, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(cors.New(cors.Options{
			AllowedOrigins: a.config.Server.CORSOrigins,
			AllowedMethods: []string{
				http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions,
			},
			AllowedHeaders: []string{"Content-Type", "HX-Request", "HX-Target", "HX-Current-URL"},
		}).Handler)
		r.Use(a.auth.Authenticate)
		a.handlers.Register(r)
	})

	a.pages.Register(r)
	return r
}
