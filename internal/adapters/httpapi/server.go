// Package httpapi exposes the generator over HTTP for the browser UI.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"go.trai.ch/artisan/internal/core/domain"
	"go.trai.ch/artisan/internal/core/ports"
)

// maxBodyBytes bounds request bodies. Uploads carry base64 images inline.
const maxBodyBytes = 20 << 20

const requestIDHeader = "X-Request-Id"

// Server routes the HTTP surface onto a ports.Generator.
type Server struct {
	gen    ports.Generator
	logger ports.Logger
	clock  clockwork.Clock
	router chi.Router

	staticDir string
}

// Option configures a Server.
type Option func(*Server)

// WithClock replaces the wall clock used for /health timestamps.
func WithClock(c clockwork.Clock) Option {
	return func(s *Server) {
		s.clock = c
	}
}

// WithArtifactDir serves locally stored artifacts under /art-photos/.
func WithArtifactDir(dir string) Option {
	return func(s *Server) {
		s.staticDir = dir
	}
}

// New creates a Server.
func New(gen ports.Generator, logger ports.Logger, opts ...Option) *Server {
	s := &Server{
		gen:    gen,
		logger: logger,
		clock:  clockwork.NewRealClock(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.routes()
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(requestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", requestIDHeader},
		ExposedHeaders: []string{requestIDHeader, "ETag"},
		MaxAge:         300,
	}))
	r.Use(middleware.RequestSize(maxBodyBytes))

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(api chi.Router) {
		api.Post("/generate-art-photo", s.handleGenerate)
		api.Get("/task-status/{taskId}", s.handleTaskStatus)
		api.Post("/upload-image", s.handleUpload)
		api.Get("/history", s.handleHistory)
		api.Get("/history/{taskId}", s.handleHistoryRecord)
	})

	if s.staticDir != "" {
		prefix := "/" + domain.ArtifactKeyPrefix + "/"
		r.Handle(prefix+"*", http.FileServer(http.Dir(s.staticDir)))
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusNotFound, "not found", "no route for "+r.Method+" "+r.URL.Path)
	})
	return r
}

type requestIDKey struct{}

// requestID propagates the caller's X-Request-Id or assigns a fresh one.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id)))
	})
}

// RequestIDFrom returns the request id assigned to ctx.
func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := s.clock.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", s.clock.Since(start).String(),
			"request_id", RequestIDFrom(r.Context()),
		)
	})
}

// NewHTTPServer wraps handler in an http.Server with conservative timeouts.
func NewHTTPServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}
