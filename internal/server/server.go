package server

import (
	"log/slog"
	"net/http"

	"github.com/claude/rpecalc/internal/storage"
	"github.com/go-chi/chi/v5"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	store  storage.PreferenceStore
	log    *slog.Logger
	router chi.Router
}

// New creates a new Server with all routes configured. Wrap store with
// storage.WithStrategy to change the unsaved default strategy.
func New(store storage.PreferenceStore, log *slog.Logger) *Server {
	s := &Server{
		store:  store,
		log:    log,
		router: chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestID)
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)

	s.router.Get("/healthz", s.handleHealth)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Post("/calculate", s.handleCalculate)
		r.Get("/coefficient", s.handleCoefficient)
		r.Get("/chart", s.handleChart)
		r.Get("/plates", s.handlePlates)
		r.Get("/preferences", s.handleGetPreferences)
		r.Put("/preferences", s.handlePutPreferences)
	})
}

// Mount attaches another handler (the MCP endpoint) under pattern.
func (s *Server) Mount(pattern string, h http.Handler) {
	s.router.Mount(pattern, h)
}
