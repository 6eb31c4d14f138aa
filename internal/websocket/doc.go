// Package websocket pushes analysis progress to dashboard clients.
//
// A Hub owns the connected clients and fans out events; each Client runs a
// read pump (heartbeats only) and a write pump. Services publish through the
// Broadcaster interface:
//
//	hub.Broadcast(ctx, events.MessageTypeFileStatus, events.FileStatus{...})
//
// Broadcast never blocks the caller. Events are dropped when the hub is
// stopped or its queue is full.
package websocket
