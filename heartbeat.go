// file: heartbeat.go
package main

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"nexus-events/logger"
)

// Scanner stations (the phones and tablets running the check-in UI)
// ping this endpoint so the dashboard can show which stations are live.

var (
	stationSessions = make(map[string]time.Time)
	stationLock     = sync.Mutex{}
)

const stationTimeout = 5 * time.Minute

// HeartbeatHandler updates the last seen timestamp of a scanner station.
func HeartbeatHandler(w http.ResponseWriter, r *http.Request) {
	stationID := r.URL.Query().Get("station_id")
	if stationID == "" {
		logger.Warn.Println("[HeartbeatHandler] Missing station ID in query params")
		http.Error(w, "Missing station ID", http.StatusBadRequest)
		return
	}

	stationLock.Lock()
	stationSessions[stationID] = time.Now()
	stationLock.Unlock()

	logger.Debug.Printf("[HeartbeatHandler] Updated heartbeat for station=%s at %v", stationID, time.Now())

	w.WriteHeader(http.StatusOK)
	if _, err := fmt.Fprintln(w, "Heartbeat received"); err != nil {
		logger.Warn.Printf("[HeartbeatHandler] Error writing response for station=%s: %v", stationID, err)
	}
}

// ActiveStations returns the IDs of stations seen within the timeout.
func ActiveStations() []string {
	stationLock.Lock()
	defer stationLock.Unlock()

	active := make([]string, 0, len(stationSessions))
	for id, lastSeen := range stationSessions {
		if time.Since(lastSeen) <= stationTimeout {
			active = append(active, id)
		}
	}
	return active
}

// CleanupRoutine removes stations that have stopped pinging.
func CleanupRoutine() {
	ticker := time.NewTicker(30 * time.Second)
	for range ticker.C {
		stationLock.Lock()
		for id, lastSeen := range stationSessions {
			if time.Since(lastSeen) > stationTimeout {
				logger.Info.Printf("[CleanupRoutine] Removing inactive station=%s (timeout=%v)", id, stationTimeout)
				delete(stationSessions, id)
			}
		}
		stationLock.Unlock()
	}
}
