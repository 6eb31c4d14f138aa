// Package events contains the WebSocket message contracts pushed to
// dashboard clients while uploads are parsed and analyzed.
package events

import (
	"time"

	"tradepulse/pkg/contracts/domain"
)

// MessageType defines the type of WebSocket message
type MessageType string

const (
	// Analysis progress
	MessageTypeFileStatus       MessageType = "file_status"
	MessageTypeAnalysisComplete MessageType = "analysis_complete"
	MessageTypeAnalysisFailed   MessageType = "analysis_failed"

	// Connection messages
	MessageTypeConnect MessageType = "connect"
)

// BaseMessage represents the base structure for all WebSocket messages
type BaseMessage struct {
	Type      MessageType `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	TraceID   string      `json:"trace_id,omitempty"`
}

// WebSocketMessage represents a complete WebSocket message
type WebSocketMessage struct {
	BaseMessage
	Data interface{} `json:"data,omitempty"`
}

// NewMessage stamps a message of the given type
func NewMessage(msgType MessageType, data interface{}, traceID string) WebSocketMessage {
	return WebSocketMessage{
		BaseMessage: BaseMessage{
			Type:      msgType,
			Timestamp: time.Now().UTC(),
			TraceID:   traceID,
		},
		Data: data,
	}
}

// FileStatus reports intake progress of one uploaded file
type FileStatus struct {
	AnalysisID string `json:"analysis_id"`
	domain.UploadedFile
}

// AnalysisComplete is pushed once the engine produced a result
type AnalysisComplete struct {
	AnalysisID string                `json:"analysis_id"`
	Files      []domain.UploadedFile `json:"files"`
	Summary    domain.Summary        `json:"summary"`
	DateRange  domain.DateRange      `json:"date_range"`
}

// AnalysisFailed is pushed when intake or the engine rejected the upload
type AnalysisFailed struct {
	AnalysisID string `json:"analysis_id"`
	Code       string `json:"code"`
	Message    string `json:"message"`
}
