package server

import (
	"encoding/json"
	"net/http"
	"runtime"
)

// monitorStatus is the health endpoint's response body.
type monitorStatus struct {
	Status        string `json:"status"`
	UptimeSeconds int64  `json:"uptimeSeconds"`
	Rooms         int    `json:"rooms"`
	Sessions      int    `json:"sessions"`
	Goroutines    int    `json:"goroutines"`
}

// handleMonitor writes the server's health and occupancy to the response.
func (s *Server) handleMonitor(w http.ResponseWriter, r *http.Request) {
	rooms, sessions := s.lobby.Counts()
	status := monitorStatus{
		Status:        "ok",
		UptimeSeconds: int64(s.SocketCfg.TimeFunc().Sub(s.startedAt).Seconds()),
		Rooms:         rooms,
		Sessions:      sessions,
		Goroutines:    runtime.NumGoroutine(),
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(status); err != nil {
		s.log.Printf("writing monitor response: %v", err)
	}
}
