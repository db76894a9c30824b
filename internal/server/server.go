package server

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nao1215/leadscan/internal/config"
	"github.com/nao1215/leadscan/internal/pipeline"
)

//go:embed templates/index.html
var indexHTML []byte

// shutdownTimeout bounds the graceful shutdown of ListenAndServe.
const shutdownTimeout = 10 * time.Second

// Server serves the scrape endpoints.
type Server struct {
	engine *gin.Engine

	// optionsFor returns the base run options for a start URL. Request
	// parameters are applied on top.
	optionsFor func(startURL string) pipeline.Options

	requestTimeout time.Duration
	logger         *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger used for request and scrape logging.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithRequestTimeout bounds every scrape started by a request.
// Non-positive values are ignored.
func WithRequestTimeout(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.requestTimeout = d
		}
	}
}

// WithOptions sets the function returning the base run options of a
// start URL, typically pipeline.OptionsFromConfig bound to a Config.
func WithOptions(optionsFor func(startURL string) pipeline.Options) Option {
	return func(s *Server) {
		s.optionsFor = optionsFor
	}
}

// New creates a Server with its routes registered.
// The gin mode is left to the caller.
func New(opts ...Option) *Server {
	s := &Server{
		optionsFor: func(string) pipeline.Options {
			return pipeline.DefaultOptions()
		},
		requestTimeout: config.DefaultRequestTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}

	engine := gin.New()
	engine.Use(recoveryMiddleware(s.logger), loggerMiddleware(s.logger))

	engine.GET("/health", s.handleHealth)
	engine.GET("/", s.handleIndex)
	engine.POST("/", s.handleFormScrape)
	engine.POST("/api/scrape", s.handleAPIScrape)

	s.engine = engine
	return s
}

// Handler returns the HTTP handler of the server.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting HTTP server",
			"address", addr,
			"request_timeout", s.requestTimeout,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("server error: %w", err)
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down HTTP server")
	}

	// ctx is already done, so shutdown needs its own deadline.
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}
	s.logger.Info("HTTP server stopped gracefully")
	return nil
}
