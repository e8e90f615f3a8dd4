package httpserver_test

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/revuhub/entitlement/pkg/httpserver"
)

func freeAddr(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())
	return addr
}

func waitListening(t *testing.T, addr string) {
	t.Helper()
	for i := 0; i < 50; i++ {
		conn, err := net.Dial("tcp", addr)
		if err == nil {
			_ = conn.Close()
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("server at %s never started listening", addr)
}

func TestRunAndShutdown(t *testing.T) {
	t.Parallel()
	addr := freeAddr(t)
	srv := httpserver.New(httpserver.Config{
		Addr:            addr,
		ShutdownTimeout: 100 * time.Millisecond,
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- srv.Run(ctx, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))
	}()
	waitListening(t, addr)

	resp, err := http.Get("http://" + addr)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("run did not finish after cancel")
	}
}

func TestStartError(t *testing.T) {
	t.Parallel()
	srv := httpserver.New(httpserver.Config{Addr: ":invalid"})
	err := srv.Run(context.Background(), http.NewServeMux())
	assert.ErrorIs(t, err, httpserver.ErrStart)
}

func TestHooksRun(t *testing.T) {
	t.Parallel()
	var started, stopped atomic.Bool
	startCh := make(chan struct{})
	srv := httpserver.New(
		httpserver.Config{
			Addr:            freeAddr(t),
			ShutdownTimeout: 50 * time.Millisecond,
		},
		httpserver.WithStartHook(func(_ *slog.Logger) {
			started.Store(true)
			close(startCh)
		}),
		httpserver.WithStopHook(func(_ *slog.Logger) { stopped.Store(true) }),
	)

	done := make(chan error, 1)
	go func() { done <- srv.Run(context.Background(), http.NewServeMux()) }()
	<-startCh

	require.NoError(t, srv.Shutdown(context.Background()))
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("run did not finish after shutdown")
	}
	assert.True(t, started.Load())
	assert.True(t, stopped.Load())
}

func TestDoubleShutdownIsSafe(t *testing.T) {
	t.Parallel()
	startCh := make(chan struct{})
	srv := httpserver.New(
		httpserver.Config{
			Addr:            freeAddr(t),
			ShutdownTimeout: 50 * time.Millisecond,
		},
		httpserver.WithStartHook(func(_ *slog.Logger) { close(startCh) }),
	)

	done := make(chan error, 1)
	go func() { done <- srv.Run(context.Background(), http.NewServeMux()) }()
	<-startCh

	require.NoError(t, srv.Shutdown(context.Background()))
	require.NoError(t, srv.Shutdown(context.Background()))
	require.NoError(t, <-done)
}

func TestConfigDefaults(t *testing.T) {
	t.Parallel()
	srv := httpserver.New(httpserver.Config{})
	require.NotNil(t, srv)

	// Zero shutdown timeout must not make Shutdown expire instantly.
	require.NoError(t, srv.Shutdown(context.Background()))
}

func TestHealthCheckHandler(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	log := slog.Default()

	t.Run("liveness", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()
		httpserver.HealthCheckHandler(ctx, log)(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "ALIVE", rec.Body.String())
	})

	t.Run("readiness all green", func(t *testing.T) {
		t.Parallel()
		ok := func(context.Context) error { return nil }
		rec := httptest.NewRecorder()
		httpserver.HealthCheckHandler(ctx, log, ok, ok)(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "READY", rec.Body.String())
	})

	t.Run("readiness with a failing dependency", func(t *testing.T) {
		t.Parallel()
		bad := func(context.Context) error { return errors.New("pg down") }
		rec := httptest.NewRecorder()
		httpserver.HealthCheckHandler(ctx, log, bad)(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "NOT_READY", rec.Body.String())
	})
}
