// Package api exposes the tracker over JSON/HTTP for remote clients.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/julianstephens/cleanstreak/internal/constants"
	"github.com/julianstephens/cleanstreak/internal/content"
	"github.com/julianstephens/cleanstreak/internal/logger"
	"github.com/julianstephens/cleanstreak/internal/tracker"
	"github.com/julianstephens/cleanstreak/internal/users"
)

type Options struct {
	Addr        string
	JWTSecret   string
	TokenTTL    time.Duration
	CORSOrigins []string
}

type Server struct {
	tracker *tracker.Service
	users   *users.Service
	content *content.Provider
	tokens  *tokenIssuer
	opts    Options
}

// New wires the handlers. content may be nil, in which case the content
// routes answer 503.
func New(t *tracker.Service, u *users.Service, c *content.Provider, opts Options) (*Server, error) {
	if opts.JWTSecret == "" {
		return nil, errors.New("JWT secret is required")
	}
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = constants.TokenTTL
	}
	if opts.Addr == "" {
		opts.Addr = ":" + constants.DefaultAPIPort
	}
	return &Server{
		tracker: t,
		users:   u,
		content: c,
		tokens:  newTokenIssuer(opts.JWTSecret, opts.TokenTTL),
		opts:    opts,
	}, nil
}

// Handler builds the router with CORS and request logging applied
func (s *Server) Handler() http.Handler {
	router := mux.NewRouter()
	router.Use(LoggingMiddleware)

	router.HandleFunc("/auth/register", s.RegisterHandler).Methods(http.MethodPost)
	router.HandleFunc("/auth/login", s.LoginHandler).Methods(http.MethodPost)
	router.HandleFunc("/content/quote", s.QuoteHandler).Methods(http.MethodGet)
	router.HandleFunc("/content/fact", s.FactHandler).Methods(http.MethodGet)

	habitRoutes := router.PathPrefix("/habits").Subrouter()
	habitRoutes.Use(s.tokens.AuthMiddleware)
	habitRoutes.HandleFunc("", s.ListHabitsHandler).Methods(http.MethodGet)
	habitRoutes.HandleFunc("", s.CreateHabitHandler).Methods(http.MethodPost)
	habitRoutes.HandleFunc("/{id}", s.GetHabitHandler).Methods(http.MethodGet)
	habitRoutes.HandleFunc("/{id}", s.UpdateHabitHandler).Methods(http.MethodPatch)
	habitRoutes.HandleFunc("/{id}", s.DeleteHabitHandler).Methods(http.MethodDelete)
	habitRoutes.HandleFunc("/{id}/progress", s.LogProgressHandler).Methods(http.MethodPost)
	habitRoutes.HandleFunc("/{id}/entries", s.HabitEntriesHandler).Methods(http.MethodGet)
	habitRoutes.HandleFunc("/{id}/stats", s.HabitStatsHandler).Methods(http.MethodGet)
	habitRoutes.HandleFunc("/{id}/achievements", s.HabitAchievementsHandler).Methods(http.MethodGet)

	achievementRoutes := router.PathPrefix("/achievements").Subrouter()
	achievementRoutes.Use(s.tokens.AuthMiddleware)
	achievementRoutes.HandleFunc("", s.ListAchievementsHandler).Methods(http.MethodGet)
	achievementRoutes.HandleFunc("/viewed", s.MarkAllViewedHandler).Methods(http.MethodPost)
	achievementRoutes.HandleFunc("/{id}/viewed", s.MarkViewedHandler).Methods(http.MethodPost)

	router.Handle("/dashboard", s.tokens.AuthMiddleware(http.HandlerFunc(s.DashboardHandler))).Methods(http.MethodGet)

	c := cors.New(cors.Options{
		AllowedOrigins:   s.opts.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})
	return c.Handler(router)
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.opts.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("API server listening", "addr", s.opts.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
	defer cancel()
	logger.Info("API server shutting down")
	return srv.Shutdown(shutdownCtx)
}
