package api

import (
	"context"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/labtrade/pkg/config"
	"github.com/wonny/labtrade/pkg/logger"
)

func TestServerOptions_Defaults(t *testing.T) {
	opts := ServerOptions{ShutdownTimeout: 5 * time.Second}.withDefaults()
	assert.Equal(t, defaultReadTimeout, opts.ReadTimeout)
	assert.Equal(t, defaultWriteTimeout, opts.WriteTimeout)
	assert.Equal(t, defaultIdleTimeout, opts.IdleTimeout)
	assert.Equal(t, 5*time.Second, opts.ShutdownTimeout)
}

func TestServer_ServeUntilCanceled(t *testing.T) {
	cfg := &config.Config{Port: "0", Env: "test"}
	srv := New(cfg, logger.Nop(), http.HandlerFunc(healthCheckHandler), ServerOptions{ShutdownTimeout: time.Second})
	assert.Equal(t, defaultWriteTimeout, srv.httpServer.WriteTimeout)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- srv.Serve(ctx, ln)
	}()

	resp, err := http.Get("http://" + ln.Addr().String() + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("server did not stop after cancel")
	}

	_, err = http.Get("http://" + ln.Addr().String() + "/health")
	assert.Error(t, err)
}

func TestServer_RunListenError(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	_, port, err := net.SplitHostPort(ln.Addr().String())
	require.NoError(t, err)

	srv := New(&config.Config{Port: port}, logger.Nop(), http.NotFoundHandler(), ServerOptions{})
	srv.httpServer.Addr = "127.0.0.1:" + port

	err = srv.Run(context.Background())
	assert.ErrorContains(t, err, "api: listen")
}
