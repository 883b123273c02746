// Package websocket file: websocket/broadcast.go
package websocket

import (
	"encoding/json"
	"time"

	"nexus-events/logger"
)

// HandleMessages moves messages from the broadcast channel to every
// dashboard client watching the matching event. Run once from main.
func HandleMessages() {
	for msg := range broadcast {
		var envelope map[string]interface{}
		var eventFilter string

		if err := json.Unmarshal(msg, &envelope); err == nil {
			if id, ok := envelope["eventId"].(string); ok {
				eventFilter = id
			}
		}

		connectionsLock.Lock()
		for c := range connections {
			if eventFilter != "" && c.eventID != eventFilter {
				continue
			}
			select {
			case c.send <- msg:
			default:
				logger.Warn.Printf("Dropping feed message for connection %v", c.conn.RemoteAddr())
			}
		}
		connectionsLock.Unlock()
	}
}

// BroadcastCheckIn pushes a check-in (or undo) to the event's dashboard
// feed. Fire and forget; a full channel drops the message rather than
// stalling the scan.
func BroadcastCheckIn(eventID, attendeeID, attendeeName string, checkedIn bool, at time.Time) {
	envelope := map[string]interface{}{
		"action":       "checkIn",
		"eventId":      eventID,
		"attendeeId":   attendeeID,
		"attendeeName": attendeeName,
		"checkedIn":    checkedIn,
		"at":           at.UTC().Format(time.RFC3339),
	}

	msg, err := json.Marshal(envelope)
	if err != nil {
		logger.Error.Printf("[BroadcastCheckIn] marshal failed: %v", err)
		return
	}

	select {
	case broadcast <- msg:
	default:
		logger.Warn.Println("[BroadcastCheckIn] feed backlog full, dropping message")
	}
}
