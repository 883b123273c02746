// Package websocket provides the live check-in feed for event dashboards.
// file: websocket/connection.go
package websocket

import (
	"net"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"nexus-events/logger"
)

// WSConn is the slice of *websocket.Conn the feed uses; tests substitute
// a fake.
type WSConn interface {
	WriteMessage(messageType int, data []byte) error
	SetWriteDeadline(t time.Time) error
	ReadMessage() (int, []byte, error)
	Close() error
	RemoteAddr() net.Addr
	SetReadLimit(limit int64)
	SetReadDeadline(t time.Time) error
	SetPongHandler(h func(string) error)
}

// Connection represents one dashboard client watching one event's feed.
type Connection struct {
	conn    WSConn
	send    chan []byte
	eventID string
}

// Tuning constants.
const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 1024
)

// ServeWs upgrades the request and registers the client for the requested
// event's feed. Callers gate this route behind the helper middleware.
func ServeWs(w http.ResponseWriter, r *http.Request) {
	eventID := r.URL.Query().Get("eventId")
	if eventID == "" {
		logger.Error.Println("[ServeWs] no event id; rejecting feed connection")
		http.Error(w, "eventId required", http.StatusBadRequest)
		return
	}

	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error.Printf("[ServeWs] upgrade failed: %v", err)
		return
	}

	c := &Connection{conn: ws, send: make(chan []byte, 16), eventID: eventID}
	register(c)

	go c.writePump()
	go c.readPump()
}

func register(c *Connection) {
	connectionsLock.Lock()
	connections[c] = true
	count := len(connections)
	connectionsLock.Unlock()

	logger.Info.Printf("[register] dashboard client joined feed for event %s (total=%d)", c.eventID, count)
	PublishDashboardConnections(count)
}

func unregister(c *Connection) {
	connectionsLock.Lock()
	if _, ok := connections[c]; ok {
		delete(connections, c)
		close(c.send)
	}
	count := len(connections)
	connectionsLock.Unlock()

	logger.Info.Printf("[unregister] dashboard client left feed for event %s (total=%d)", c.eventID, count)
	PublishDashboardConnections(count)
}

// readPump discards inbound frames; the feed is one-way. It exists to
// service pongs and to notice the client going away.
func (c *Connection) readPump() {
	defer func() {
		unregister(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			logger.Debug.Printf("[readPump] client %v gone: %v", c.conn.RemoteAddr(), err)
			return
		}
	}
}

// writePump drains the send channel and keeps the connection alive with
// pings.
func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				logger.Warn.Printf("[writePump] write to %v failed: %v", c.conn.RemoteAddr(), err)
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
