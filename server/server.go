// Package server exposes the wealth engine as a local JSON HTTP API.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/etnz/wealth"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
)

// Config holds server configuration.
type Config struct {
	Addr   string
	Log    zerolog.Logger
	Engine *wealth.Engine
	Store  wealth.Store        // wrapped in a wealth.Guard
	Oracle wealth.PriceOracle  // optional
	Mirror wealth.LedgerMirror // optional
}

// Server is the HTTP server.
type Server struct {
	router *chi.Mux
	server *http.Server
	log    zerolog.Logger

	engine *wealth.Engine
	store  *wealth.Guard
	oracle wealth.PriceOracle
	mirror wealth.LedgerMirror
}

// New creates a new HTTP server.
func New(cfg Config) *Server {
	s := &Server{
		router: chi.NewRouter(),
		log:    cfg.Log.With().Str("component", "server").Logger(),
		engine: cfg.Engine,
		store:  wealth.NewGuard(cfg.Store),
		oracle: cfg.Oracle,
		mirror: cfg.Mirror,
	}
	if s.engine == nil {
		s.engine = wealth.NewEngine(nil)
	}

	s.setupMiddleware()
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RequestID)
	s.router.Use(s.loggingMiddleware)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
}

func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealth)
	s.router.Route("/api", func(r chi.Router) {
		h := &Handlers{s: s, log: s.log.With().Str("module", "portfolio_handlers").Logger()}
		h.RegisterRoutes(r)
	})
}

// Handler returns the http.Handler serving the API.
func (s *Server) Handler() http.Handler { return s.router }

// Start listens and serves until Shutdown.
func (s *Server) Start() error {
	s.log.Info().Str("addr", s.server.Addr).Msg("Starting HTTP server")
	if err := s.server.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// loggingMiddleware logs HTTP requests.
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("HTTP request")
	})
}

// update runs fn on the stored portfolio and saves the result.
func (s *Server) update(fn func(wealth.Portfolio) (wealth.Portfolio, error)) (wealth.Portfolio, error) {
	return s.store.Update(fn)
}

func (s *Server) load() (wealth.Portfolio, error) { return s.store.Load() }
