// Package api exposes levels and headless races over HTTP. Live races are
// streamed to websocket clients as position updates followed by the result.
package api

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/vovakirdan/tui-parkour/internal/race"
	"github.com/vovakirdan/tui-parkour/internal/storage"
)

// Config holds the dependencies of the API.
type Config struct {
	Settings race.Settings
	Store    *storage.Store // optional; profile and results routes answer 503 without it
	Logger   *log.Logger    // nil discards
	MaxRuns  int            // cap on simulate runs per request
	WatchFPS int            // frames per second streamed by /watch
}

// Server groups the handlers.
type Server struct {
	cfg Config
	log *log.Logger
}

// NewServer creates the API handlers.
func NewServer(cfg Config) *Server {
	if cfg.Logger == nil {
		cfg.Logger = log.New(io.Discard)
	}
	if cfg.MaxRuns <= 0 {
		cfg.MaxRuns = 50
	}
	if cfg.WatchFPS <= 0 {
		cfg.WatchFPS = 20
	}
	return &Server{cfg: cfg, log: cfg.Logger}
}

// Router builds the router with middlewares and routes.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/levels/{n}", func(sub chi.Router) {
		sub.Get("/", s.getLevel)
		sub.Post("/simulate", s.simulate)
		sub.Get("/watch", s.watch)
	})

	r.Get("/profile", s.profile)
	r.Get("/results", s.results)

	return r
}

// requestLogger logs each request with charmbracelet/log.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

type apiError struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func errorJSON(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, apiError{Error: msg})
}
