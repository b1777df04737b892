package server

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"memorylane/pkg/album"
	"memorylane/pkg/archive"
	"memorylane/pkg/auth"
	"memorylane/pkg/logger"
)

// Scraper runs one album scrape. Satisfied by *album.Scraper.
type Scraper interface {
	Scrape(ctx context.Context) (*album.Result, error)
	AlbumURL() string
}

// Server wires the auth service, the scrape pipeline and the chat archive
// into the HTTP API. All cross-request state lives in the injected
// dependencies; handlers themselves are stateless.
type Server struct {
	auth      *auth.Service
	scraper   Scraper
	archive   *archive.Archive
	staticDir string
	logger    logger.Logger
}

// New creates a Server. archive may be nil when no chat export is
// available; the message endpoints then serve empty results.
func New(authService *auth.Service, scraper Scraper, arch *archive.Archive, staticDir string, log logger.Logger) *Server {
	if log == nil {
		log = logger.GetLogger()
	}
	return &Server{
		auth:      authService,
		scraper:   scraper,
		archive:   arch,
		staticDir: staticDir,
		logger:    log,
	}
}

// Router builds the HTTP routing tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.StripSlashes)

	r.Route("/api", func(r chi.Router) {
		r.Post("/login", s.handleLogin)
		r.Post("/logout", s.handleLogout)
		r.Get("/check-auth", s.handleCheckAuth)
		r.Get("/health", s.handleHealth)

		// session-gated routes
		r.Group(func(r chi.Router) {
			r.Use(s.auth.RequireAuth)

			r.Get("/analytics", s.handleAnalytics)
			r.Get("/photos/scrape", s.handleScrape)
			r.Get("/messages", s.handleMessages)
			r.Get("/messages/stats", s.handleMessageStats)
			r.Get("/messages/random", s.handleRandomMessage)
		})
	})

	if s.staticDir != "" {
		r.NotFound(s.handleStatic)
	}

	return r
}

// requestLogger logs one line per request through the structured logger.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/health" {
			next.ServeHTTP(w, r)
			return
		}

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		s.logger.InfoWithFields("request handled", map[string]interface{}{
			"method":      r.Method,
			"path":        r.URL.Path,
			"status":      ww.Status(),
			"duration_ms": time.Since(start).Milliseconds(),
		})
	})
}

// handleStatic serves the frontend files with an index.html fallback, so
// client-side routes resolve to the single page app.
func (s *Server) handleStatic(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	path := filepath.Join(s.staticDir, filepath.Clean("/"+r.URL.Path))
	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		http.ServeFile(w, r, path)
		return
	}
	http.ServeFile(w, r, filepath.Join(s.staticDir, "index.html"))
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.WithError(err).Error("failed to encode response")
	}
}
