// Package server implements the samplesize HTTP JSON API.
//
// Routes:
//
//	GET  /healthz                 liveness probe
//	GET  /v1/version              build information
//	GET  /v1/designs              input fields and defaults per design
//	POST /v1/calculate/{design}   run one calculation (optionally packed)
//	POST /v1/grid                 pack two group counts into an area
//
// Every calculation goes through a pipeline.Runner, so the API shares the
// cache configured for the process. Errors are returned as
// {"error": {"code", "message", "field"}} with a status derived from the code.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/samplesize/pkg/pipeline"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// shutdownTimeout bounds graceful shutdown in Start.
const shutdownTimeout = 5 * time.Second

// Options configures a Server.
type Options struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// GridWidth and GridHeight are used by /v1/grid when the body omits them.
	GridWidth  float64
	GridHeight float64
}

// Server serves the API over a pipeline.Runner.
type Server struct {
	runner *pipeline.Runner
	logger *log.Logger
	opts   Options
	router chi.Router
}

// New builds a server. A nil logger uses the runner's logger.
func New(runner *pipeline.Runner, logger *log.Logger, opts Options) *Server {
	if logger == nil {
		logger = runner.Logger
	}
	if opts.GridWidth <= 0 {
		opts.GridWidth = pipeline.DefaultWidth
	}
	if opts.GridHeight <= 0 {
		opts.GridHeight = pipeline.DefaultHeight
	}
	s := &Server{runner: runner, logger: logger, opts: opts}
	s.router = s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.logRequests)
	r.Use(s.recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/version", s.handleVersion)
		r.Get("/designs", s.handleDesigns)
		r.Post("/calculate/{design}", s.handleCalculate)
		r.Post("/grid", s.handleGrid)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeErrorStatus(w, http.StatusNotFound, "NOT_FOUND", "no route for "+r.URL.Path, "")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeErrorStatus(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", r.Method+" not allowed on "+r.URL.Path, "")
	})
	return r
}

// Start listens on opts.Addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.opts.Addr,
		Handler:      s,
		ReadTimeout:  s.opts.ReadTimeout,
		WriteTimeout: s.opts.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.opts.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("listen: %w", err)
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
