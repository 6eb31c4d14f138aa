package app

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradepulse/internal/config"
	"tradepulse/internal/shared/testutil"
	"tradepulse/pkg/contracts/events"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()

	dir := t.TempDir()
	cfg := config.Default()
	cfg.Paths = config.PathsConfig{
		ExecutableDir: dir,
		InputDir:      filepath.Join(dir, "data"),
		ExportDir:     filepath.Join(dir, "exports"),
		LogsDir:       filepath.Join(dir, "logs"),
	}
	cfg.Security.RateLimit.Enabled = false
	cfg.Server.ShutdownTimeout = 5 * time.Second
	return cfg
}

func newTestApp(t *testing.T) *Application {
	t.Helper()

	// pumps may still log after the test returns, so records are not
	// forwarded to t.Logf
	logger := slog.New(testutil.NewBufferedSlogHandler(nil))
	app, err := New(testConfig(t), logger)
	require.NoError(t, err)
	t.Cleanup(app.WebSocketHub.Stop)
	return app
}

func uploadBody(t *testing.T) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("files", "history.csv")
	require.NoError(t, err)
	_, err = io.WriteString(part, testutil.CSV(testutil.SampleHistory()...))
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestNew_RequiresConfig(t *testing.T) {
	_, err := New(nil, nil)
	assert.Error(t, err)
}

func TestNew_CreatesDirectories(t *testing.T) {
	app := newTestApp(t)

	assert.DirExists(t, app.Config.Paths.ExportDir)
	assert.DirExists(t, app.Config.Paths.LogsDir)
	assert.NotNil(t, app.AnalysisService)
	assert.NotNil(t, app.HealthService)
	assert.Equal(t, ":8080", app.Server.Addr)
}

func TestApplication_Routes(t *testing.T) {
	app := newTestApp(t)

	tests := []struct {
		name           string
		method         string
		path           string
		expectedStatus int
	}{
		{name: "health", method: http.MethodGet, path: "/api/health", expectedStatus: http.StatusOK},
		{name: "readiness", method: http.MethodGet, path: "/api/health/ready", expectedStatus: http.StatusOK},
		{name: "liveness", method: http.MethodGet, path: "/api/health/live", expectedStatus: http.StatusOK},
		{name: "version", method: http.MethodGet, path: "/api/version", expectedStatus: http.StatusOK},
		{name: "system metrics", method: http.MethodGet, path: "/api/metrics/system", expectedStatus: http.StatusOK},
		{name: "websocket metrics", method: http.MethodGet, path: "/api/metrics/websocket", expectedStatus: http.StatusOK},
		{name: "prometheus", method: http.MethodGet, path: "/metrics", expectedStatus: http.StatusOK},
		{name: "unknown route", method: http.MethodGet, path: "/api/unknown", expectedStatus: http.StatusNotFound},
		{name: "wrong method", method: http.MethodGet, path: "/api/analyses", expectedStatus: http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			w := httptest.NewRecorder()

			app.Router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code, w.Body.String())
		})
	}
}

func TestApplication_Middleware(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	w := httptest.NewRecorder()

	app.Router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")
}

func TestApplication_CORSPreflight(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/analyses", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()

	app.Router.ServeHTTP(w, req)

	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestApplication_PrometheusMetrics(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()

	app.Router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "go_goroutines")
}

func TestApplication_Analyze(t *testing.T) {
	app := newTestApp(t)

	body, contentType := uploadBody(t)
	req := httptest.NewRequest(http.MethodPost, "/api/analyses", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()

	app.Router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var report map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	assert.NotEmpty(t, report["analysis_id"])
}

func TestApplication_ServeAndStop(t *testing.T) {
	app := newTestApp(t)

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, app.Serve(ctx, listener, cancel))

	addr := listener.Addr().String()

	conn, _, err := websocket.DefaultDialer.Dial("ws://"+addr+"/ws", nil)
	require.NoError(t, err)
	defer conn.Close()

	// the greeting proves the client is registered before the upload
	var greeting events.WebSocketMessage
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	require.NoError(t, conn.ReadJSON(&greeting))
	assert.Equal(t, events.MessageTypeConnect, greeting.Type)

	body, contentType := uploadBody(t)
	resp, err := http.Post("http://"+addr+"/api/analyses", contentType, body)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var seen []events.MessageType
	for {
		var msg events.WebSocketMessage
		require.NoError(t, conn.ReadJSON(&msg))
		seen = append(seen, msg.Type)
		if msg.Type == events.MessageTypeAnalysisComplete {
			break
		}
	}
	assert.Contains(t, seen, events.MessageTypeFileStatus)

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer stopCancel()
	require.NoError(t, app.Stop(stopCtx))

	_, err = http.Get("http://" + addr + "/api/health")
	assert.Error(t, err)
}
