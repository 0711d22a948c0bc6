package http

import (
	"net/http"

	"ledger/internal/log"
)

func (s *Server) handleListBanks(w http.ResponseWriter, r *http.Request) {
	owner, err := ownerID(r)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: err.Error()})
		return
	}
	cfg, err := s.ledger.OwnerConfig(r.Context(), owner)
	if err != nil {
		s.writeError(w, r, log.OpRead, err)
		return
	}
	writeJSON(w, http.StatusOK, banksResponse{Banks: cfg.SelectableBanks()})
}

func (s *Server) handleAddBank(w http.ResponseWriter, r *http.Request) {
	owner, err := ownerID(r)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: err.Error()})
		return
	}
	var req bankRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	cfg, err := s.ledger.AddBank(r.Context(), owner, sanitizeInput(req.Name))
	if err != nil {
		s.writeError(w, r, log.OpUpdate, err)
		return
	}
	writeJSON(w, http.StatusOK, banksResponse{Banks: cfg.SelectableBanks()})
}

func (s *Server) handleRemoveBank(w http.ResponseWriter, r *http.Request) {
	owner, err := ownerID(r)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: err.Error()})
		return
	}
	cfg, err := s.ledger.RemoveBank(r.Context(), owner, r.PathValue("name"))
	if err != nil {
		s.writeError(w, r, log.OpUpdate, err)
		return
	}
	writeJSON(w, http.StatusOK, banksResponse{Banks: cfg.SelectableBanks()})
}

func handleVocabulary(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, vocabulary())
}
