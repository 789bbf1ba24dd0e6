package mux

import "net/http"

type healthResponse struct {
	Status       string `json:"status"`
	Version      string `json:"version"`
	LiveSessions int    `json:"liveSessions"`
}

// getHealth reports the server version and how many sessions are held in memory
func (m *Mux) getHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, healthResponse{
			Status:       "OK",
			Version:      m.version,
			LiveSessions: m.pitBoss.LiveSessions(),
		})
	}
}
