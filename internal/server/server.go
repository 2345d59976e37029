// =============================================================================
// Cartera Report - HTTP Server
// =============================================================================
//
// Serves the upload form and the report endpoints.
//
// ROUTES:
//   GET  /             upload form
//   POST /generar-pdf  multipart "file" (+ optional "header_row") -> PDF
//   POST /generar-ppt  multipart "file" (+ optional "header_row") -> .pptx
//   GET  /healthz      liveness probe
//
// MIDDLEWARE (outermost first):
//   request id, real ip, request logging, panic recovery, rate limit,
//   upload size limit
//
// =============================================================================

package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/ginjaninja78/cartera-report/internal/config"
	"github.com/ginjaninja78/cartera-report/internal/converter"
	"github.com/ginjaninja78/cartera-report/internal/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/time/rate"
)

// Generator builds reports from uploaded spreadsheets.
type Generator interface {
	Generate(ctx context.Context, data []byte, headerRow int) (*converter.Result, error)
	GeneratePDF(ctx context.Context, data []byte, headerRow int) (*converter.Result, error)
	DefaultHeaderRow() int
}

// Server is the HTTP front end of the report pipeline.
type Server struct {
	gen     Generator
	cfg     config.ServerConfig
	log     logger.Logger
	limiter *rate.Limiter
	router  chi.Router
}

// New creates a Server.
//
// PARAMETERS:
//   - gen: The report pipeline.
//   - cfg: Listen address, limits and timeouts.
//   - log: Request and error logger. Nil discards them.
func New(gen Generator, cfg config.ServerConfig, log logger.Logger) *Server {
	if log == nil {
		log = logger.Nop()
	}

	s := &Server{
		gen:     gen,
		cfg:     cfg,
		log:     log,
		limiter: rate.NewLimiter(rate.Limit(cfg.RatePerSecond), cfg.Burst),
	}
	s.router = s.routes()
	return s
}

// routes builds the router.
func (s *Server) routes() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleIndex)
	r.Get("/healthz", s.handleHealth)

	r.Group(func(r chi.Router) {
		r.Use(s.rateLimit)
		r.Use(s.limitBody)

		r.Post("/generar-pdf", s.handleGenerate(true))
		r.Post("/generar-ppt", s.handleGenerate(false))
	})

	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully,
// waiting up to the configured shutdown timeout for in-flight requests.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.cfg.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is ListenAndServe on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s,
		ReadTimeout:       s.cfg.ReadTimeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      s.cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("Listening on %s", ln.Addr())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.log.Info("Shutting down, waiting up to %s for open requests", s.cfg.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down: %w", err)
	}
	return nil
}
