package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"tradepulse/internal/errors"
)

// maxClientLogBytes bounds one client log entry
const maxClientLogBytes = 64 << 10

// ClientLogHandler relays upload page logs into the server log
type ClientLogHandler struct {
	logger *slog.Logger
}

// NewClientLogHandler creates a new client log handler
func NewClientLogHandler(logger *slog.Logger) *ClientLogHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ClientLogHandler{
		logger: logger.With(slog.String("handler", "client_log")),
	}
}

// LogRequest represents a client log entry
type LogRequest struct {
	Level      string                 `json:"level"`
	Message    string                 `json:"message"`
	Data       map[string]interface{} `json:"data,omitempty"`
	Source     string                 `json:"source,omitempty"`
	AnalysisID string                 `json:"analysis_id,omitempty"`
}

// Handle handles POST /api/logs. Unknown levels are logged at info.
func (h *ClientLogHandler) Handle(w http.ResponseWriter, r *http.Request) {
	var req LogRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxClientLogBytes)).Decode(&req); err != nil {
		errors.WriteError(w, errors.NewValidationError("Invalid request format"))
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		errors.WriteError(w, errors.ErrValidation("message", "message is required"))
		return
	}

	attrs := []slog.Attr{slog.String("client_source", req.Source)}
	if req.AnalysisID != "" {
		attrs = append(attrs, slog.String("analysis_id", req.AnalysisID))
	}
	if req.Data != nil {
		attrs = append(attrs, slog.Any("data", req.Data))
	}

	h.logger.LogAttrs(r.Context(), clientLevel(req.Level), req.Message, attrs...)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
	})
}

func clientLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
