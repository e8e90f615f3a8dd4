// Package httpserver wraps net/http with graceful shutdown, configured
// timeouts and lifecycle hooks.
//
// Run blocks until the context is cancelled or the listener fails, then
// drains in-flight requests within the configured shutdown deadline.
// Startup failures are wrapped with ErrStart and shutdown failures with
// ErrShutdown for errors.Is inspection.
//
//	srv := httpserver.New(cfg.HTTP,
//		httpserver.WithLogger(log),
//	)
//	if err := srv.Run(ctx, router); err != nil {
//		log.Error("server stopped", "error", err)
//	}
//
// HealthCheckHandler doubles as a liveness probe (no dependency checks)
// and a readiness probe (with them).
package httpserver
