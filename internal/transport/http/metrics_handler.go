package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "tradepulse/internal/errors"
	"tradepulse/internal/services"
)

// HubStats reports push hub counters
type HubStats interface {
	Stats() map[string]interface{}
}

// MetricsHandler serves JSON system statistics for the dashboard. Prometheus
// metrics are served separately at /metrics.
type MetricsHandler struct {
	health       *services.HealthService
	hub          HubStats
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewMetricsHandler creates a new metrics handler. hub may be nil.
func NewMetricsHandler(health *services.HealthService, hub HubStats, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *MetricsHandler {
	if logger == nil {
		logger = slog.Default()
	}
	if errorHandler == nil {
		errorHandler = apierrors.NewErrorHandler(logger, false)
	}
	return &MetricsHandler{
		health:       health,
		hub:          hub,
		logger:       logger.With(slog.String("handler", "metrics")),
		errorHandler: errorHandler,
	}
}

// Routes sets up the metrics routes
func (h *MetricsHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/system", h.GetSystem)
	r.Get("/websocket", h.GetWebSocket)
	return r
}

// GetSystem handles GET /api/metrics/system
func (h *MetricsHandler) GetSystem(w http.ResponseWriter, r *http.Request) {
	stats, err := h.health.SystemStats(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, stats)
}

// GetWebSocket handles GET /api/metrics/websocket
func (h *MetricsHandler) GetWebSocket(w http.ResponseWriter, r *http.Request) {
	if h.hub == nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrServiceUnavailable)
		return
	}
	render.JSON(w, r, h.hub.Stats())
}
