// Package pg wires PostgreSQL connectivity for the service: pgxpool
// connection establishment with retry, goose schema migrations driven through
// the pool, a healthcheck closure, and helpers for classifying pgx errors
// (not found, duplicate key, foreign key violation).
package pg
