package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/phrazzld/scry-decks/internal/api"
	apimw "github.com/phrazzld/scry-decks/internal/api/middleware"
	"github.com/phrazzld/scry-decks/internal/config"
	"github.com/phrazzld/scry-decks/internal/domain/srs"
	"github.com/phrazzld/scry-decks/internal/events"
	"github.com/phrazzld/scry-decks/internal/platform/gemini"
	"github.com/phrazzld/scry-decks/internal/platform/postgres"
	"github.com/phrazzld/scry-decks/internal/service"
	"github.com/phrazzld/scry-decks/internal/service/review"
	"github.com/phrazzld/scry-decks/internal/task"
	"github.com/phrazzld/scry-decks/internal/web"
)

// application holds the wired dependencies of the server.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB
	runner *task.TaskRunner

	handlers api.Handlers
	auth     *apimw.TokenAuth
	pages    *web.Server
}

// newApplication builds stores, services and handlers on top of db. The
// task runner is only started when example generation is configured.
func newApplication(ctx context.Context, cfg *config.Config, log *slog.Logger, db *sql.DB) (*application, error) {
	userStore := postgres.NewPostgresUserStore(db, log)
	deckStore := postgres.NewPostgresDeckStore(db, log)
	cardStore := postgres.NewPostgresCardStore(db, log)

	app := &application{config: cfg, logger: log, db: db}

	var emitter events.EventEmitter
	if cfg.LLM.Enabled() {
		runner, em, err := startGeneration(ctx, cfg, log, db, cardStore, deckStore)
		if err != nil {
			return nil, err
		}
		app.runner = runner
		emitter = em
	} else {
		log.Info("Example generation disabled: no Gemini API key configured")
	}

	userID := cfg.Auth.UserID
	users := service.NewUserService(userStore, log)
	decks := service.NewDeckService(deckStore, userID, log)
	cards := service.NewCardService(db, cardStore, deckStore, emitter, userID, log)

	reviews := review.NewService(deckStore, cardStore, srs.NewDefaultService(), review.Options{
		UserID: userID,
		TTL:    cfg.Review.CacheTTL(),
	}, log)

	app.auth = apimw.NewTokenAuth(cfg.Auth)
	app.handlers = api.Handlers{
		Users: api.NewUserHandler(users, log),
		Decks: api.NewDeckHandler(decks, log),
		Cards: api.NewCardHandler(cards, log),
	}

	pages, err := web.NewServer(web.Config{
		Reviews:   reviews,
		Decks:     decks,
		Cards:     cards,
		Auth:      app.auth,
		AssetsDir: cfg.Server.AssetsDir,
		Logger:    log,
	})
	if err != nil {
		app.cleanup()
		return nil, fmt.Errorf("failed to build pages: %w", err)
	}
	app.pages = pages
	return app, nil
}

// startGeneration wires the Gemini generator into the task runner and
// returns an emitter that queues a task for every created card.
func startGeneration(
	ctx context.Context,
	cfg *config.Config,
	log *slog.Logger,
	db *sql.DB,
	cards *postgres.PostgresCardStore,
	decks *postgres.PostgresDeckStore,
) (*task.TaskRunner, events.EventEmitter, error) {
	gen, err := gemini.NewGeminiGenerator(ctx, log, cfg.LLM)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create generator: %w", err)
	}

	factory, err := task.NewExampleTaskFactory(cards, decks, gen, log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create example task factory: %w", err)
	}

	registry := task.NewRegistry()
	factory.Register(registry)

	runner := task.NewTaskRunner(postgres.NewPostgresTaskStore(db, log), registry, task.RunnerConfigFrom(cfg.Task), log)
	if err := runner.Start(); err != nil {
		return nil, nil, fmt.Errorf("failed to start task runner: %w", err)
	}

	emitter := events.NewInMemoryEventEmitter(log)
	emitter.RegisterHandler(task.NewCardCreatedHandler(factory, runner, log))
	return runner, emitter, nil
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (a *application) Run(ctx context.Context) error {
	defer a.cleanup()

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(a.config.Server.Port),
		Handler:           a.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("Starting server", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	a.logger.Info("Shutting down server", slog.Duration("timeout", a.config.Server.ShutdownTimeout()))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.config.Server.ShutdownTimeout())
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	a.logger.Info("Server stopped")
	return nil
}

func (a *application) cleanup() {
	if a.runner != nil {
		a.runner.Stop()
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Error("failed to close database", slog.String("error", err.Error()))
		}
	}
}
