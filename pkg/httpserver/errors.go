package httpserver

import "errors"

var (
	// ErrStart reports that the listener could not start or failed while serving.
	ErrStart = errors.New("httpserver: start failed")
	// ErrShutdown reports that graceful shutdown did not complete cleanly.
	ErrShutdown = errors.New("httpserver: shutdown failed")
)
