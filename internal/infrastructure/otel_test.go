package infrastructure

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradepulse/internal/config"
)

func newTestProviders(t *testing.T) *OTelProviders {
	t.Helper()
	cfg := DefaultOTelConfig()
	cfg.Registry = promclient.NewRegistry()

	providers, err := InitializeOTel(cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { providers.Shutdown(context.Background()) })
	return providers
}

func TestInitializeOTel(t *testing.T) {
	providers := newTestProviders(t)

	assert.NotNil(t, providers.MeterProvider)
	assert.NotNil(t, providers.Meter)
	assert.NotNil(t, providers.Tracer)
	assert.NotNil(t, providers.PrometheusHTTP)
	assert.Nil(t, providers.TracerProvider, "tracing is off by default")
}

func TestInitializeOTelDisabled(t *testing.T) {
	cfg := NewOTelConfig(config.TelemetryConfig{ServiceName: "tradepulse", TraceExporter: "none", MetricExporter: "none"})

	providers, err := InitializeOTel(cfg, nil)
	require.NoError(t, err)
	assert.Nil(t, providers.MeterProvider)
	assert.Nil(t, providers.PrometheusHTTP)
	assert.NoError(t, providers.Shutdown(context.Background()))
}

func TestInitializeOTelUnknownExporter(t *testing.T) {
	cfg := DefaultOTelConfig()
	cfg.Registry = promclient.NewRegistry()
	cfg.MetricExporter = "statsd"

	_, err := InitializeOTel(cfg, nil)
	assert.Error(t, err)
}

func TestBusinessMetricsExported(t *testing.T) {
	providers := newTestProviders(t)

	metrics, err := CreateBusinessMetrics(providers.Meter)
	require.NoError(t, err)

	ctx := context.Background()
	RecordAnalysisMetrics(ctx, metrics, 12, 150*time.Millisecond, "")
	RecordAnalysisMetrics(ctx, metrics, 0, time.Millisecond, "NO_MATCHING_RECORDS")
	RecordFileMetrics(ctx, metrics, "done")
	RecordExportMetrics(ctx, metrics, "xlsx", nil)

	rec := httptest.NewRecorder()
	providers.PrometheusHTTP.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)

	out := string(body)
	assert.Contains(t, out, "analysis_runs_total")
	assert.Contains(t, out, "analysis_failures_total")
	assert.Contains(t, out, `reason="NO_MATCHING_RECORDS"`)
	assert.Contains(t, out, "analysis_trades_processed_total")
	assert.Contains(t, out, "report_exports_total")
}

func TestRecordHelpersTolerateNil(t *testing.T) {
	ctx := context.Background()
	assert.NotPanics(t, func() {
		RecordAnalysisMetrics(ctx, nil, 1, time.Second, "")
		RecordFileMetrics(ctx, nil, "error")
		RecordExportMetrics(ctx, nil, "csv", nil)
		RecordError(ctx, errors.New("x"))
		AddSpanEvent(ctx, "noop")
	})
	assert.Empty(t, TraceIDFromContext(ctx))
}
