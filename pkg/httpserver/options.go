package httpserver

import "log/slog"

// Option adjusts a Server beyond what Config carries.
type Option func(*Server)

// WithLogger supplies the logger passed to lifecycle hooks. Without one,
// hook output is discarded.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.log = l }
}

// WithStartHook registers a callback invoked just before the server starts
// listening.
func WithStartHook(h func(*slog.Logger)) Option {
	if h == nil {
		panic("httpserver: nil start hook")
	}
	return func(s *Server) { s.startHooks = append(s.startHooks, h) }
}

// WithStopHook registers a callback invoked after graceful shutdown.
func WithStopHook(h func(*slog.Logger)) Option {
	if h == nil {
		panic("httpserver: nil stop hook")
	}
	return func(s *Server) { s.stopHooks = append(s.stopHooks, h) }
}
