package websocket

import (
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientWritePump(t *testing.T) {
	conn := newFakeConn()
	client := NewClient(NewHub(nil, nil), conn, "", nil)

	client.send <- []byte(`{"type":"file_status"}`)
	client.send <- []byte(`{"type":"analysis_complete"}`)
	close(client.send)

	done := make(chan struct{})
	go func() {
		client.WritePump()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("write pump did not stop")
	}

	frames := conn.frames()
	require.Len(t, frames, 3)
	assert.Equal(t, websocket.TextMessage, frames[0].kind)
	assert.JSONEq(t, `{"type":"file_status"}`, string(frames[0].data))
	assert.JSONEq(t, `{"type":"analysis_complete"}`, string(frames[1].data))
	assert.Equal(t, websocket.CloseMessage, frames[2].kind)
	assert.True(t, conn.isClosed())
	assert.Equal(t, int64(2), client.messagesSent)
}

func TestClientWritePumpStopsOnError(t *testing.T) {
	conn := newFakeConn()
	conn.failOn = 1
	client := NewClient(NewHub(nil, nil), conn, "", nil)
	client.send <- []byte(`{}`)

	done := make(chan struct{})
	go func() {
		client.WritePump()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("write pump did not stop")
	}
	assert.Empty(t, conn.frames())
	assert.True(t, conn.isClosed())
}

func TestClientReadPumpUnregisters(t *testing.T) {
	hub := startedHub(t)
	conn := newFakeConn()
	client := NewClient(hub, conn, "", nil)
	hub.Register(client)
	receive(t, client)

	conn.reads <- frame{kind: websocket.TextMessage, data: []byte("{\"type\":\"heartbeat\"}\n")}
	conn.reads <- frame{kind: websocket.TextMessage, data: []byte(`{"type":"subscribe"}`)}
	close(conn.reads)

	client.ReadPump()

	assert.Equal(t, int64(2), client.messagesReceived)
	assert.True(t, conn.isClosed())
	assert.Eventually(t, func() bool { return hub.ClientCount() == 0 }, time.Second, 10*time.Millisecond)
}
