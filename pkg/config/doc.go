// Package config loads application configuration from environment variables
// into typed structs.
//
// It wraps github.com/joho/godotenv and github.com/caarlos0/env/v11: the
// default .env file is read once per process, then env.Parse populates any
// struct annotated with `env` tags. Each configuration type is parsed at most
// once and cached by type name, so repeated Load calls from different
// components are cheap and return identical values.
//
// Sentinel errors (ErrParsingConfig, ErrConfigNotLoaded, ErrNilPointer) can be
// tested with errors.Is. MustLoad panics on failure and is intended for
// configuration the service must not start without, such as the database
// connection string or the payment provider API key.
package config
