// Package app holds the application context: configuration, logger,
// database handle and the services and handlers built on them. It is
// constructed once at startup and closed at shutdown.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gorilla/sessions"
	"gorm.io/gorm"

	"noteapp/internal/config"
	"noteapp/internal/db"
	"noteapp/internal/health"
	mcpserver "noteapp/internal/mcp"
	"noteapp/internal/notes"
)

type App struct {
	Config *config.Config
	Log    *slog.Logger
	DB     *gorm.DB
	Repo   *notes.Repo
	Notes  *notes.Service

	handler http.Handler
}

// New opens the database, creates the notes table if needed and wires the
// HTTP handlers.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts ...notes.Option) (*App, error) {
	dbOpts := db.Options{Logger: logger}
	if cfg.Mode == config.ModeTesting {
		dbOpts.Logger = nil
	}

	logger.Info("connecting to database", "mode", cfg.Mode)
	gdb, err := db.Open(ctx, cfg.ConnectionURL(), dbOpts)
	if err != nil {
		return nil, err
	}

	repo := notes.NewRepo(gdb)
	if err := repo.Migrate(ctx); err != nil {
		db.Close(gdb)
		return nil, err
	}

	a := &App{
		Config: cfg,
		Log:    logger,
		DB:     gdb,
		Repo:   repo,
		Notes:  notes.NewService(repo, opts...),
	}
	a.handler = a.routes()
	return a, nil
}

func (a *App) Handler() http.Handler {
	return a.handler
}

// Close releases the database pool.
func (a *App) Close() error {
	if err := db.Close(a.DB); err != nil {
		return fmt.Errorf("close app: %w", err)
	}
	return nil
}

func (a *App) routes() http.Handler {
	store := sessions.NewCookieStore([]byte(a.Config.SecretKey))
	store.Options.HttpOnly = true
	store.Options.SameSite = http.SameSiteLaxMode
	store.Options.Secure = a.Config.Mode == config.ModeProduction

	noteHandler := notes.NewHandler(a.Notes, store, a.Log)
	healthHandler := health.NewHandler(a.Repo, a.Log)
	mcpHTTP := mcpserver.NewHTTPHandler(a.Notes)

	mux := http.NewServeMux()

	// Web UI
	mux.HandleFunc("GET /{$}", noteHandler.HomePage)
	mux.HandleFunc("POST /{$}", noteHandler.SubmitNote)

	// REST API, reachable at the canonical and the legacy path
	for _, prefix := range []string{"/api/notes", "/notes"} {
		mux.HandleFunc("GET "+prefix, noteHandler.ListNotes)
		mux.HandleFunc("POST "+prefix, noteHandler.CreateNote)
	}
	mux.HandleFunc("GET /api/notes/{id}", noteHandler.GetNote)

	// MCP uses POST for requests and GET for SSE streams
	mux.Handle("POST /mcp", mcpHTTP)
	mux.Handle("GET /mcp", mcpHTTP)
	mux.Handle("DELETE /mcp", mcpHTTP)

	// Health check
	mux.Handle("GET /healthz", healthHandler)
	mux.Handle("GET /health", healthHandler)

	return chain(mux, requestID, requestLogger(a.Log), recoverer(a.Log))
}
