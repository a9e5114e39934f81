// Package api exposes the reporting engine and the task collaborators over
// HTTP.
package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"taskdeck/internal/store"
)

// Server holds the HTTP server state.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	store      *store.Store
	logger     *slog.Logger
	location   *time.Location
	dayKeyLoc  *time.Location
	pageSize   int
	authToken  string
}

// Options configures the server beyond its collaborators.
type Options struct {
	Addr      string
	AuthToken string
	Location  *time.Location
	DayKeyLoc *time.Location
	PageSize  int
}

// NewServer constructs the HTTP API server.
func NewServer(opts Options, st *store.Store, logger *slog.Logger) *Server {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.DayKeyLoc == nil {
		opts.DayKeyLoc = opts.Location
	}
	if opts.PageSize <= 0 {
		opts.PageSize = 20
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)

	s := &Server{
		router:    router,
		store:     st,
		logger:    logger,
		location:  opts.Location,
		dayKeyLoc: opts.DayKeyLoc,
		pageSize:  opts.PageSize,
		authToken: opts.AuthToken,
	}
	s.registerRoutes()

	s.httpServer = &http.Server{
		Addr:         opts.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Start begins serving HTTP requests.
func (s *Server) Start() error {
	s.logger.Info("http server listening", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) registerRoutes() {
	s.router.Route("/v1", func(r chi.Router) {
		if s.authToken != "" {
			r.Use(AuthMiddleware(s.authToken))
		}

		r.Route("/reports", func(r chi.Router) {
			r.Get("/summary", s.handleReportSummary)
			r.Get("/schedule", s.handleReportSchedule)
		})
		r.Get("/export", s.handleExport)

		r.Route("/tasks", func(r chi.Router) {
			r.Get("/", s.handleListTasks)
			r.Post("/", s.handleCreateTask)

			r.Route("/{taskID}", func(r chi.Router) {
				r.Get("/", s.handleGetTask)
				r.Patch("/status", s.handleSetStatus)
				r.Post("/timer/start", s.handleStartTimer)
				r.Post("/timer/stop", s.handleStopTimer)
			})
		})

		r.Post("/reminders", s.handleAddReminder)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}
