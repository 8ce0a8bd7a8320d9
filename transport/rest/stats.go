package rest

import (
	"encoding/json"
	"net/http"
)

type statsResponse struct {
	ActiveSessions int `json:"active_sessions"`
}

// stats - reports how many sessions are connected right now.
func (that *Server) getStats(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "stats")

	count, err := that.sessions.ActiveSessions(r.Context())
	if err != nil {
		log.Error("failed to count active sessions", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err = json.NewEncoder(w).Encode(statsResponse{ActiveSessions: count}); err != nil {
		log.Error("failed to write stats response", "error", err)
	}
}
