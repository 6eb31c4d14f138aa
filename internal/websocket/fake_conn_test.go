package websocket

import (
	"errors"
	"io"
	"sync"
	"time"
)

type frame struct {
	kind int
	data []byte
}

// fakeConn is an in-memory Connection. Reads are served from a channel
// until it is closed, after which ReadMessage returns io.EOF.
type fakeConn struct {
	mu      sync.Mutex
	written []frame
	closed  bool
	reads   chan frame
	failOn  int
}

func newFakeConn() *fakeConn {
	return &fakeConn{reads: make(chan frame, 8)}
}

func (c *fakeConn) WriteMessage(kind int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failOn > 0 && len(c.written)+1 >= c.failOn {
		return errors.New("broken pipe")
	}
	c.written = append(c.written, frame{kind: kind, data: append([]byte(nil), data...)})
	return nil
}

func (c *fakeConn) ReadMessage() (int, []byte, error) {
	f, ok := <-c.reads
	if !ok {
		return 0, nil, io.EOF
	}
	return f.kind, f.data, nil
}

func (c *fakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *fakeConn) SetReadDeadline(time.Time) error { return nil }
func (c *fakeConn) SetWriteDeadline(time.Time) error { return nil }
func (c *fakeConn) SetReadLimit(int64) {}
func (c *fakeConn) SetPongHandler(func(string) error) {}
func (c *fakeConn) RemoteAddr() string { return "127.0.0.1:50000" }

func (c *fakeConn) frames() []frame {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]frame(nil), c.written...)
}

func (c *fakeConn) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}
