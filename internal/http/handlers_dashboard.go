package http

import (
	"net/http"
	"strings"

	"ledger/internal/log"
	"ledger/internal/services"
)

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	owner, err := ownerID(r)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: err.Error()})
		return
	}
	g := services.Monthly
	if v := strings.TrimSpace(r.URL.Query().Get("period")); v != "" {
		g = services.Granularity(strings.ToLower(v))
	}

	d, err := s.ledger.Dashboard(r.Context(), owner, g)
	if err != nil {
		s.writeError(w, r, log.OpSummary, err)
		return
	}
	writeJSON(w, http.StatusOK, toDashboardResponse(d))
}

func (s *Server) handleStatement(w http.ResponseWriter, r *http.Request) {
	owner, err := ownerID(r)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: err.Error()})
		return
	}
	spec, err := parseStatementQuery(r.URL.Query())
	if err != nil {
		s.writeError(w, r, log.OpList, err)
		return
	}

	entries, err := s.ledger.Statement(r.Context(), owner, spec)
	if err != nil {
		s.writeError(w, r, log.OpList, err)
		return
	}
	writeJSON(w, http.StatusOK, toEntriesResponse(entries))
}

func (s *Server) handleUpcoming(w http.ResponseWriter, r *http.Request) {
	owner, err := ownerID(r)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: err.Error()})
		return
	}
	entries, err := s.ledger.Upcoming(r.Context(), owner)
	if err != nil {
		s.writeError(w, r, log.OpList, err)
		return
	}
	writeJSON(w, http.StatusOK, toEntriesResponse(entries))
}
