// file: websocket/broadcast_test.go
package websocket

import (
	"encoding/json"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeConn records frames written to it; the read side blocks forever.
type fakeConn struct {
	mu     sync.Mutex
	frames [][]byte
}

func (f *fakeConn) WriteMessage(_ int, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.frames = append(f.frames, data)
	return nil
}
func (f *fakeConn) SetWriteDeadline(time.Time) error  { return nil }
func (f *fakeConn) ReadMessage() (int, []byte, error) { select {} }
func (f *fakeConn) Close() error                      { return nil }
func (f *fakeConn) RemoteAddr() net.Addr              { return &net.TCPAddr{} }
func (f *fakeConn) SetReadLimit(int64)                {}
func (f *fakeConn) SetReadDeadline(time.Time) error   { return nil }
func (f *fakeConn) SetPongHandler(func(string) error) {}

func (f *fakeConn) written() [][]byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([][]byte, len(f.frames))
	copy(out, f.frames)
	return out
}

func flushBroadcast() {
	for len(broadcast) > 0 {
		<-broadcast
	}
}

func addConnection(eventID string) *Connection {
	c := &Connection{conn: &fakeConn{}, send: make(chan []byte, 16), eventID: eventID}
	connectionsLock.Lock()
	connections[c] = true
	connectionsLock.Unlock()
	return c
}

func removeConnection(c *Connection) {
	connectionsLock.Lock()
	delete(connections, c)
	connectionsLock.Unlock()
}

func TestBroadcastCheckIn_Envelope(t *testing.T) {
	flushBroadcast()

	at := time.Date(2026, 10, 17, 9, 15, 0, 0, time.UTC)
	BroadcastCheckIn("ev-1", "att-1", "Ada", true, at)

	select {
	case msg := <-broadcast:
		var decoded map[string]interface{}
		require.NoError(t, json.Unmarshal(msg, &decoded))
		assert.Equal(t, "checkIn", decoded["action"])
		assert.Equal(t, "ev-1", decoded["eventId"])
		assert.Equal(t, "Ada", decoded["attendeeName"])
		assert.Equal(t, true, decoded["checkedIn"])
		assert.Equal(t, "2026-10-17T09:15:00Z", decoded["at"])
	default:
		t.Fatal("Expected message in broadcast channel, but got none")
	}
}

// Only clients watching the matching event receive the message.
func TestHandleMessages_FiltersByEvent(t *testing.T) {
	flushBroadcast()

	watching := addConnection("ev-1")
	other := addConnection("ev-2")
	defer removeConnection(watching)
	defer removeConnection(other)

	go HandleMessages()
	BroadcastCheckIn("ev-1", "att-1", "Ada", true, time.Now())

	select {
	case msg := <-watching.send:
		assert.Contains(t, string(msg), "Ada")
	case <-time.After(time.Second):
		t.Fatal("watching client never received the check-in")
	}

	select {
	case <-other.send:
		t.Fatal("client for another event must not receive the message")
	case <-time.After(50 * time.Millisecond):
	}
}
