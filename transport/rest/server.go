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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter wires routes and returns an http.Handler.
func NewRouter(
	logger *slog.Logger,
	games gameUseCase,
	users userUseCase,
	invitations invitationUseCase,
	gatherer prometheus.Gatherer,
) http.Handler {
	h := &handlers{
		logger:      logger.With("component", "rest"),
		games:       games,
		users:       users,
		invitations: invitations,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(h.logRequests)

	r.Get("/ping", NewPingHandler().PingHandler)
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	r.Post("/users", h.registerUser)
	r.Route("/users/{username}", func(r chi.Router) {
		r.Get("/statistic", h.userStatistic)
		r.Get("/games", h.userGames)
		r.Get("/invitations", h.receivedInvitations)
	})

	r.Post("/invitations", h.sendInvitation)
	r.Patch("/invitations/{id}/accept", h.acceptInvitation)
	r.Patch("/invitations/{id}/cancel", h.cancelInvitation)

	r.Post("/games", h.createGame)
	r.Post("/games/bot", h.createGameWithBot)
	r.Patch("/games/bot/{id}/move", h.makeTurnWithBot)
	r.Route("/games/{id}", func(r chi.Router) {
		r.Get("/", h.getGame)
		r.Delete("/", h.endGame)
		r.Patch("/move", h.makeTurn)
	})

	return r
}

// Start serves handler until ctx is canceled, then drains open requests for at most shutdownTimeout.
func Start(ctx context.Context, port string, handler http.Handler, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	return nil
}
