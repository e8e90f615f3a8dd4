// Package logger builds configured log/slog loggers for the service.
//
// New applies functional options over production-safe defaults (JSON at INFO)
// and wraps the resulting handler with a decorator that injects registered
// context attributes into every record. Presets are available for
// development and production environments, plus typed attribute helpers for
// the identifiers this service logs most (business, plan, invoice).
package logger
