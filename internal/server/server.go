package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/handiism/f1rdf/internal/fetch"
	"github.com/handiism/f1rdf/internal/model"
	"github.com/handiism/f1rdf/internal/section"
)

// Calendar looks up season schedules.
type Calendar interface {
	Schedule(ctx context.Context, season int) ([]model.Event, error)
	EventByRound(ctx context.Context, key model.SelectionKey) (model.Event, error)
}

// Server is the HTTP download service.
type Server struct {
	orchestrator *fetch.Orchestrator
	registry     *section.Registry
	calendar     Calendar
	router       *chi.Mux
	server       *http.Server
}

// New creates a Server fetching through orchestrator and resolving event
// names through calendar.
func New(orchestrator *fetch.Orchestrator, calendar Calendar) *Server {
	s := &Server{
		orchestrator: orchestrator,
		registry:     orchestrator.Registry(),
		calendar:     calendar,
		router:       chi.NewRouter(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(requestLogger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(5 * time.Minute))
}

func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/sections", s.handleSections)

		r.Route("/seasons/{season}", func(r chi.Router) {
			r.Get("/events", s.handleEvents)

			r.Route("/events/{round}", func(r chi.Router) {
				r.Get("/archive", s.handleArchive)
				r.Get("/workbook", s.handleWorkbook)
				r.Get("/sections/{section}", s.handleSection)
			})
		})
	})
}

// Start begins listening for HTTP requests.
func (s *Server) Start(addr string) error {
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}
