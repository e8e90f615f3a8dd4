package httpserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"
)

// Server runs an http.Server with graceful shutdown and lifecycle hooks.
// All listener settings come from Config; options cover the logger and
// the hooks only.
type Server struct {
	srv             *http.Server
	shutdownTimeout time.Duration
	log             *slog.Logger
	startHooks      []func(*slog.Logger)
	stopHooks       []func(*slog.Logger)
	shutdownOnce    sync.Once
}

// New builds a Server from cfg. Zero-valued Addr and ShutdownTimeout fall
// back to the Config defaults.
func New(cfg Config, opts ...Option) *Server {
	cfg.withDefaults()
	s := &Server{
		srv: &http.Server{
			Addr:         cfg.Addr,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			IdleTimeout:  cfg.IdleTimeout,
		},
		shutdownTimeout: cfg.ShutdownTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = slog.New(slog.DiscardHandler)
	}
	return s
}

// Run serves handler until ctx is cancelled or the listener fails, then
// drains in-flight requests. Signal handling belongs to the caller; wire
// ctx through signal.NotifyContext to stop on SIGINT/SIGTERM.
func (s *Server) Run(ctx context.Context, handler http.Handler) error {
	if handler == nil {
		handler = http.NotFoundHandler()
	}
	s.srv.Handler = handler

	for _, h := range s.startHooks {
		h(s.log)
	}

	errCh := make(chan error, 1)
	go func() { errCh <- s.srv.ListenAndServe() }()

	select {
	case <-ctx.Done():
		shutdownErr := s.Shutdown(context.Background())
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("%w: %v", ErrStart, err)
		}
		return shutdownErr
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("%w: %v", ErrStart, err)
		}
		return nil
	}
}

// Shutdown drains the server within the configured shutdown timeout and
// fires the stop hooks. Safe to call more than once; later calls are no-ops.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		ctx, cancel := context.WithTimeout(ctx, s.shutdownTimeout)
		defer cancel()
		err = s.srv.Shutdown(ctx)
		for _, h := range s.stopHooks {
			h(s.log)
		}
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrShutdown, err)
	}
	return nil
}
