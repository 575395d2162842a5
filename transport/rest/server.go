package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/rocketscienceinc/tictactoe-spa/internal/entity"
)

const shutdownTimeout = 5 * time.Second

type gameSession interface {
	State(ctx context.Context, sessionID string) (entity.GameState, error)
	ApplyMove(ctx context.Context, sessionID string, cell int) (entity.GameState, error)
	Restart(ctx context.Context, sessionID string) (entity.GameState, error)
}

// Server serves the game page, the JSON API and whatever extra handlers are mounted on it.
type Server struct {
	logger     *slog.Logger
	mux        *http.ServeMux
	handlers   *handlers
	sessionTTL time.Duration
}

func New(logger *slog.Logger, session gameSession, sessionTTL time.Duration) *Server {
	server := &Server{
		logger:     logger.With("component", "rest"),
		mux:        http.NewServeMux(),
		sessionTTL: sessionTTL,
	}

	server.handlers = newHandlers(server.logger, session, sessionTTL)

	server.mux.HandleFunc("GET /ping", server.handlers.Ping)
	server.mux.HandleFunc("GET /{$}", server.handlers.Page)
	server.mux.HandleFunc("POST /move", server.handlers.PageMove)
	server.mux.HandleFunc("POST /restart", server.handlers.PageRestart)
	server.mux.HandleFunc("GET /api/state", server.handlers.State)
	server.mux.HandleFunc("POST /api/move", server.handlers.Move)
	server.mux.HandleFunc("POST /api/restart", server.handlers.Restart)

	return server
}

// Handle - mounts an extra handler, e.g. the websocket endpoint.
func (that *Server) Handle(pattern string, handler http.Handler) {
	that.mux.Handle(pattern, handler)
}

func (that *Server) Handler() http.Handler {
	return that.mux
}

// Start - serves on port until ctx is canceled, then shuts down gracefully.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      that.mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("failed to start server: %w", err)
	case <-ctx.Done():
		that.logger.Info("shutting down HTTP server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shutdown server: %w", err)
		}

		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server stopped: %w", err)
		}

		return nil
	}
}
