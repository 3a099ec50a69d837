package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/matt-g-everett/ledtx/stream"
)

type fakeController struct {
	status   stream.Status
	fading   bool
	cycleErr error
}

func (c *fakeController) Status() stream.Status { return c.status }

func (c *fakeController) Cycle() (bool, error) {
	if c.cycleErr != nil {
		return false, c.cycleErr
	}
	if c.fading {
		return false, nil
	}
	c.fading = true
	c.status = stream.Status{Animation: "twinkle", Next: "streak", Fading: true}
	return true, nil
}

func (c *fakeController) CancelFade() bool {
	if !c.fading {
		return false
	}
	c.fading = false
	return true
}

func newTestApi(t *testing.T, c Controller) (*httptest.Server, string) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<h1>ledtx</h1>"), 0o644))

	reg := prometheus.NewRegistry()
	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "ledtx_test_total", Help: "test"})
	reg.MustRegister(counter)
	counter.Inc()

	srv := httptest.NewServer(NewApi(c, dir, reg, zap.NewNop()).Handler())
	t.Cleanup(srv.Close)
	return srv, dir
}

func TestStatus(t *testing.T) {
	c := &fakeController{status: stream.Status{Animation: "twinkle"}}
	srv, _ := newTestApi(t, c)

	resp, err := http.Get(srv.URL + "/api/animation/")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var s stream.Status
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&s))
	assert.Equal(t, "twinkle", s.Animation)
	assert.False(t, s.Fading)
}

func TestCycleAndCancel(t *testing.T) {
	c := &fakeController{status: stream.Status{Animation: "twinkle"}}
	srv, _ := newTestApi(t, c)

	post := func(path string) int {
		resp, err := http.Post(srv.URL+path, "application/json", nil)
		require.NoError(t, err)
		resp.Body.Close()
		return resp.StatusCode
	}

	assert.Equal(t, http.StatusAccepted, post("/api/animation/cycle"))
	assert.Equal(t, http.StatusConflict, post("/api/animation/cycle"))
	assert.Equal(t, http.StatusAccepted, post("/api/animation/cancel"))
	assert.Equal(t, http.StatusConflict, post("/api/animation/cancel"))

	c.cycleErr = errors.New("no scheduler")
	assert.Equal(t, http.StatusInternalServerError, post("/api/animation/cycle"))
}

func TestMetricsAndStatic(t *testing.T) {
	srv, _ := newTestApi(t, &fakeController{})

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "ledtx_test_total 1")

	resp2, err := http.Get(srv.URL + "/index.html")
	require.NoError(t, err)
	defer resp2.Body.Close()
	assert.Equal(t, http.StatusOK, resp2.StatusCode)
}

func TestServeStopsWithContext(t *testing.T) {
	var buf bytes.Buffer
	logger := zap.New(zapcore.NewCore(
		zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
		zapcore.AddSync(&buf), zap.DebugLevel))
	a := NewApi(&fakeController{}, t.TempDir(), prometheus.NewRegistry(), logger)

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- a.Serve(ctx, "127.0.0.1:0") }()
	cancel()

	select {
	case err := <-errc:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("Serve did not return after the context was cancelled")
	}
	assert.NotContains(t, buf.String(), "Shutdown failed")
}
