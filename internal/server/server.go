// internal/server/server.go

package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"flightscout/internal/adapter/events"
	"flightscout/internal/config"
	"flightscout/internal/domain/flight"
	"flightscout/internal/server/handlers"
	"flightscout/internal/service/lookup"
)

// Server represents the HTTP server
type Server struct {
	server *http.Server
	router *chi.Mux
}

// Dependencies are the services the HTTP server exposes
type Dependencies struct {
	Searcher flight.Searcher
	Lookup   *lookup.Service
	Bus      events.Bus

	SubjectPrefix string
	PageSize      int
}

// NewServer creates a new HTTP server
func NewServer(cfg config.ServerConfig, deps Dependencies) *Server {
	router := chi.NewRouter()

	// Middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	// CORS configuration
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CorsOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Create handler dependencies
	airportHandler := handlers.NewAirportHandler(deps.Lookup)
	searchHandler := handlers.NewSearchHandler(deps.Searcher, deps.PageSize)

	// Routes
	router.Route("/api", func(r chi.Router) {
		r.Use(middleware.Timeout(60 * time.Second))

		// Health check
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("OK"))
		})

		// API version
		r.Route("/v1", func(r chi.Router) {
			r.Get("/airports", airportHandler.SearchAirports)
			r.Post("/flights/search", searchHandler.SearchFlights)
		})
	})

	// WebSocket endpoint for live search sessions
	router.Get("/ws/search", handlers.SearchWebSocketHandler(deps.Bus, deps.Searcher, deps.Lookup, handlers.LiveSearchConfig{
		SubjectPrefix:  deps.SubjectPrefix,
		PageSize:       deps.PageSize,
		LookupDebounce: deps.Lookup.Config().Debounce,
		AllowedOrigins: cfg.CorsOrigins,
	}))

	// Create HTTP server
	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return &Server{
		server: httpServer,
		router: router,
	}
}

// Handler returns the root handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe starts the HTTP server
func (s *Server) ListenAndServe() error {
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
