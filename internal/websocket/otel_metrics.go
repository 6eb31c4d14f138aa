package websocket

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// OTelMetrics provides OpenTelemetry metrics for the push hub.
// A nil *OTelMetrics records nothing.
type OTelMetrics struct {
	connectionsTotal   metric.Int64Counter
	connectionDuration metric.Float64Histogram
	clientCount        metric.Int64Gauge
	broadcasts         metric.Int64Counter
	droppedMessages    metric.Int64Counter
	messageBytes       metric.Int64Counter
}

// NewOTelMetrics creates the hub instruments on meter
func NewOTelMetrics(meter metric.Meter) (*OTelMetrics, error) {
	var (
		m   OTelMetrics
		err error
	)

	if m.connectionsTotal, err = meter.Int64Counter("websocket_connections_total",
		metric.WithDescription("Total number of WebSocket connections")); err != nil {
		return nil, err
	}
	if m.connectionDuration, err = meter.Float64Histogram("websocket_connection_duration_seconds",
		metric.WithDescription("Duration of WebSocket connections"),
		metric.WithUnit("s")); err != nil {
		return nil, err
	}
	if m.clientCount, err = meter.Int64Gauge("websocket_clients",
		metric.WithDescription("Number of connected WebSocket clients")); err != nil {
		return nil, err
	}
	if m.broadcasts, err = meter.Int64Counter("websocket_broadcasts_total",
		metric.WithDescription("Events queued for broadcast by type")); err != nil {
		return nil, err
	}
	if m.droppedMessages, err = meter.Int64Counter("websocket_dropped_messages_total",
		metric.WithDescription("Events dropped before reaching the hub loop")); err != nil {
		return nil, err
	}
	if m.messageBytes, err = meter.Int64Counter("websocket_message_bytes_total",
		metric.WithDescription("Bytes written to WebSocket clients"),
		metric.WithUnit("By")); err != nil {
		return nil, err
	}

	return &m, nil
}

// RecordConnection records a new client and the resulting client count
func (m *OTelMetrics) RecordConnection(ctx context.Context, clients int64) {
	if m == nil {
		return
	}
	m.connectionsTotal.Add(ctx, 1)
	m.clientCount.Record(ctx, clients)
}

// RecordDisconnection records how long a client stayed connected
func (m *OTelMetrics) RecordDisconnection(ctx context.Context, duration time.Duration, clients int64) {
	if m == nil {
		return
	}
	m.connectionDuration.Record(ctx, duration.Seconds())
	m.clientCount.Record(ctx, clients)
}

// RecordBroadcast counts one queued event
func (m *OTelMetrics) RecordBroadcast(ctx context.Context, messageType string) {
	if m == nil {
		return
	}
	m.broadcasts.Add(ctx, 1, metric.WithAttributes(attribute.String("message_type", messageType)))
}

// RecordDroppedMessage counts one event that was not queued
func (m *OTelMetrics) RecordDroppedMessage(ctx context.Context, messageType, reason string) {
	if m == nil {
		return
	}
	m.droppedMessages.Add(ctx, 1, metric.WithAttributes(
		attribute.String("message_type", messageType),
		attribute.String("reason", reason),
	))
}

// RecordMessageSent counts bytes written to one client
func (m *OTelMetrics) RecordMessageSent(ctx context.Context, size int64) {
	if m == nil {
		return
	}
	m.messageBytes.Add(ctx, size)
}
