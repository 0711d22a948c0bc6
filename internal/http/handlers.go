package http

import (
	"net/http"

	"ledger/internal/core"
	"ledger/internal/log"
)

func (s *Server) handleRecordPurchase(w http.ResponseWriter, r *http.Request) {
	owner, err := ownerID(r)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: err.Error()})
		return
	}
	var req purchaseRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	p, err := req.toPurchase(owner, s.today())
	if err != nil {
		s.writeError(w, r, log.OpCreate, err)
		return
	}

	entries, err := s.ledger.RecordPurchase(r.Context(), p)
	if err != nil {
		s.writeError(w, r, log.OpCreate, err)
		return
	}
	s.structured.LogEntriesRecorded(r.Context(), entries)
	writeJSON(w, http.StatusCreated, toEntriesResponse(entries))
}

func (s *Server) handleRecordIncome(w http.ResponseWriter, r *http.Request) {
	owner, err := ownerID(r)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: err.Error()})
		return
	}
	var req incomeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	in, err := req.toIncome(owner, s.today())
	if err != nil {
		s.writeError(w, r, log.OpCreate, err)
		return
	}

	e, err := s.ledger.RecordIncome(r.Context(), in)
	if err != nil {
		s.writeError(w, r, log.OpCreate, err)
		return
	}
	s.structured.LogEntriesRecorded(r.Context(), []core.LedgerEntry{e})
	writeJSON(w, http.StatusCreated, toEntryResponse(e))
}

func (s *Server) handleEditEntry(w http.ResponseWriter, r *http.Request) {
	owner, err := ownerID(r)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: err.Error()})
		return
	}
	var req patchRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	patch, err := req.toPatch()
	if err != nil {
		s.writeError(w, r, log.OpUpdate, err)
		return
	}

	e, err := s.ledger.EditEntry(r.Context(), owner, r.PathValue("id"), patch)
	if err != nil {
		s.writeError(w, r, log.OpUpdate, err)
		return
	}
	writeJSON(w, http.StatusOK, toEntryResponse(e))
}

func (s *Server) handleDeleteEntry(w http.ResponseWriter, r *http.Request) {
	owner, err := ownerID(r)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: err.Error()})
		return
	}
	if err := s.ledger.DeleteEntry(r.Context(), owner, r.PathValue("id")); err != nil {
		s.writeError(w, r, log.OpDelete, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
