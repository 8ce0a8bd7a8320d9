package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const shutdownTimeout = 5 * time.Second

type sessionCounter interface {
	ActiveSessions(ctx context.Context) (int, error)
}

type Server struct {
	logger   *slog.Logger
	sessions sessionCounter
	router   *chi.Mux
}

func New(logger *slog.Logger, sessions sessionCounter) *Server {
	server := &Server{
		logger:   logger.With("component", "rest"),
		sessions: sessions,
		router:   chi.NewRouter(),
	}

	server.router.Use(middleware.RealIP)
	server.router.Use(middleware.Recoverer)
	server.router.Use(middleware.Timeout(10 * time.Second))

	server.router.Get("/ping", server.ping)
	server.router.Get("/stats", server.getStats)

	return server
}

// Handler - returns the router, useful for tests.
func (that *Server) Handler() http.Handler {
	return that.router
}

// Start - starts HTTP server and returns once it has shut down after ctx is done.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      that.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	shutdownDone := make(chan struct{})
	go func() {
		defer close(shutdownDone)

		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("failed to shutdown server", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	<-shutdownDone

	return nil
}
