// Package server exposes conversion, templates, saved tables and live
// editing sessions over HTTP.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"

	"github.com/bjaus/gridconv/internal/logging"
	"github.com/bjaus/gridconv/internal/store"
)

// Options configures a Server.
type Options struct {
	Addr           string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	RequestTimeout time.Duration
	RateLimit      float64
	RateBurst      int
	MaxBodyBytes   int64
	HistoryLimit   int
}

// Server is the HTTP server for the conversion API.
type Server struct {
	opts     Options
	log      *logging.Logger
	tables   *store.Tables
	router   *chi.Mux
	server   *http.Server
	upgrader websocket.Upgrader
}

// New creates a Server. ctx bounds background work such as rate limiter
// cleanup.
func New(ctx context.Context, opts Options, log *logging.Logger, tables *store.Tables) *Server {
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = 10 << 20
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 30 * time.Second
	}
	s := &Server{
		opts:   opts,
		log:    log,
		tables: tables,
		router: chi.NewRouter(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
	s.setupMiddleware(ctx)
	s.setupRoutes()
	s.server = &http.Server{
		Addr:         opts.Addr,
		Handler:      s.router,
		ReadTimeout:  opts.ReadTimeout,
		WriteTimeout: opts.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// setupMiddleware configures middleware for all routes.
func (s *Server) setupMiddleware(ctx context.Context) {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.requestLogger)
	s.router.Use(middleware.Recoverer)
	if s.opts.RateLimit > 0 {
		s.router.Use(rateLimit(ctx, s.opts.RateLimit, s.opts.RateBurst))
	}
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.router.Route("/api", func(r chi.Router) {
		r.Use(middleware.Timeout(s.opts.RequestTimeout))

		r.Get("/formats", s.handleFormats)
		r.Post("/parse", s.handleParse)
		r.Post("/generate", s.handleGenerate)
		r.Post("/convert", s.handleConvert)
		r.Post("/download", s.handleDownload)
		r.Post("/xlsx", s.handleXLSXWrite)
		r.Post("/xlsx/read", s.handleXLSXRead)
		r.Post("/diff", s.handleDiff)
		r.Post("/share", s.handleShare)

		r.Get("/templates", s.handleListTemplates)
		r.Get("/templates/{id}", s.handleGetTemplate)
		r.Get("/samples/{format}", s.handleSample)

		r.Route("/tables", func(r chi.Router) {
			r.Get("/", s.handleListTables)
			r.Post("/", s.handleCreateTable)
			r.Get("/{id}", s.handleGetTable)
			r.Patch("/{id}", s.handleUpdateTable)
			r.Delete("/{id}", s.handleDeleteTable)
		})
	})

	// Live sessions run outside the request timeout.
	s.router.Get("/ws", s.handleWebSocket)
	s.router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
}

// Handler returns the router, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start begins listening for HTTP requests.
func (s *Server) Start() error {
	s.log.Info("starting server", "addr", s.opts.Addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
