package http

import (
	"net/http"
	"strconv"

	"github.com/supportkit/pathfinder/pkg/domain"
)

func (s *Server) handleLogs(w http.ResponseWriter, r *http.Request) {
	entries := s.engine.Journal().Entries()

	if user := r.URL.Query().Get("user_id"); user != "" {
		filtered := entries[:0]
		for _, e := range entries {
			if e.UserID == user {
				filtered = append(filtered, e)
			}
		}
		entries = filtered
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 1 {
			jsonError(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		if limit < len(entries) {
			entries = entries[:limit]
		}
	}
	if entries == nil {
		entries = []domain.LogEntry{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"entries": entries})
}

func (s *Server) handleUsage(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.engine.Journal().Summarize())
}
