package api

import (
	"net/http"
)

func (s *Server) handleLLMStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"model": s.model,
		"stats": s.stats.Snapshot(),
	})
}

func (s *Server) handleDeclined(w http.ResponseWriter, r *http.Request) {
	declined := s.session.Declined().List()
	writeJSON(w, http.StatusOK, map[string]any{
		"declined": declined,
		"count":    len(declined),
	})
}
