package web

import (
	"net/http"
	"strconv"

	"github.com/JonMunkholm/leaddesk/internal/audit"
)

// handleAuditLog lists recent audit entries, newest first.
func (s *Server) handleAuditLog(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := audit.Filter{
		Action:   audit.Action(q.Get("action")),
		Resource: q.Get("resource"),
		Limit:    parseIntParam(r, "limit"),
	}
	if off, err := strconv.Atoi(q.Get("offset")); err == nil && off > 0 {
		filter.Offset = off
	}

	entries, err := s.deps.Audit.List(r.Context(), filter)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": entries})
}
