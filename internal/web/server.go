package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/scry-decks/internal/api/middleware"
	"github.com/phrazzld/scry-decks/internal/platform/logger"
	"github.com/phrazzld/scry-decks/internal/redact"
	"github.com/phrazzld/scry-decks/internal/service"
	"github.com/phrazzld/scry-decks/internal/service/review"
)

//go:embed all:templates
var templateFiles embed.FS

var pageNames = []string{"home", "action", "card_form"}

var funcs = template.FuncMap{
	"deref": func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	},
}

// Config holds the dependencies of a Server.
type Config struct {
	Reviews   review.Service
	Decks     service.DeckService
	Cards     service.CardService
	Auth      *middleware.TokenAuth
	AssetsDir string
	Logger    *slog.Logger
}

// Server renders the review pages.
type Server struct {
	reviews   review.Service
	decks     service.DeckService
	cards     service.CardService
	auth      *middleware.TokenAuth
	assets    http.Handler
	templates map[string]*template.Template
	logger    *slog.Logger
}

// NewServer parses the embedded templates and creates a Server.
func NewServer(cfg Config) (*Server, error) {
	if cfg.Reviews == nil || cfg.Decks == nil || cfg.Cards == nil || cfg.Auth == nil {
		return nil, fmt.Errorf("web server requires review, deck and card services and auth")
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	tpls, err := parseTemplates()
	if err != nil {
		return nil, err
	}
	assets, err := newAssetHandler(cfg.AssetsDir)
	if err != nil {
		return nil, err
	}

	return &Server{
		reviews:   cfg.Reviews,
		decks:     cfg.Decks,
		cards:     cfg.Cards,
		auth:      cfg.Auth,
		assets:    assets,
		templates: tpls,
		logger:    cfg.Logger.With(slog.String("component", "web")),
	}, nil
}

func parseTemplates() (map[string]*template.Template, error) {
	base, err := template.New("layout.html").Funcs(funcs).ParseFS(templateFiles, "templates/layout.html")
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}
	out := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		t, err := base.Clone()
		if err != nil {
			return nil, err
		}
		if _, err := t.ParseFS(templateFiles, "templates/"+name+".html"); err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		out[name] = t
	}
	return out, nil
}

// Register mounts the pages and assets on r.
func (s *Server) Register(r chi.Router) {
	r.Get("/", s.handleHome)
	r.Get("/action/{deckID}/{index}/{side}", s.handleAction)
	r.Put("/action/{deckID}/{index}", s.handleRate)
	r.Get("/add_card/{deckID}/{index}", s.handleAddCard)
	r.Get("/edit_card/{deckID}/{cardID}/{index}", s.handleEditCard)
	r.Handle("/assets/*", http.StripPrefix("/assets/", s.assets))
}

func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// render executes a page into a buffer first so that template errors still
// produce a clean 500.
func (s *Server) render(w http.ResponseWriter, r *http.Request, page string, status int, data any) {
	log := logger.FromContextOrDefault(r.Context(), s.logger)

	t, ok := s.templates[page]
	if !ok {
		log.Error("unknown page", slog.String("page", page))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	name := "layout"
	if isHTMX(r) {
		name = "content"
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, name, data); err != nil {
		log.Error("failed to render page",
			slog.String("page", page),
			slog.String("error", redact.Error(err)))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// requireToken writes 401 unless r carries the session token.
func (s *Server) requireToken(w http.ResponseWriter, r *http.Request) bool {
	if s.auth.Valid(r) {
		return true
	}
	http.Error(w, "Unauthorized", http.StatusUnauthorized)
	return false
}
