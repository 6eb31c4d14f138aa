package errors

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"tradepulse/internal/shared/testutil"
)

func TestErrorMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		handler    http.HandlerFunc
		wantStatus int
		wantLevel  slog.Level
	}{
		{
			name:       "success",
			handler:    func(w http.ResponseWriter, r *http.Request) { w.Write([]byte("ok")) },
			wantStatus: http.StatusOK,
			wantLevel:  slog.LevelInfo,
		},
		{
			name:       "client error",
			handler:    func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusUnprocessableEntity) },
			wantStatus: http.StatusUnprocessableEntity,
			wantLevel:  slog.LevelWarn,
		},
		{
			name:       "panic",
			handler:    func(w http.ResponseWriter, r *http.Request) { panic("boom") },
			wantStatus: http.StatusInternalServerError,
			wantLevel:  slog.LevelError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, logs := testutil.NewTestLogger(t)
			mw := NewErrorMiddleware(NewErrorHandler(logger, false), logger)

			rec := httptest.NewRecorder()
			mw.Handler(tt.handler).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health?x=1", nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			testutil.AssertLogContains(t, logs, tt.wantLevel, "http request")
			assert.True(t, logs.ContainsAttr("query", "x=1"))
		})
	}
}

func TestRecoveryMiddleware(t *testing.T) {
	handler := NewErrorHandler(nil, false)
	rec := httptest.NewRecorder()

	RecoveryMiddleware(handler)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
