package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"ledger/internal/core"
	"ledger/internal/log"
	"ledger/internal/middleware/trace"
)

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeError maps ledger error kinds onto status codes. Anything unexpected
// is logged and reported as a bare 500.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, op string, err error) {
	var verr *core.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: verr.Error(), Field: verr.Field})
	case errors.Is(err, core.ErrValidation):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
	case errors.Is(err, core.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
	case errors.Is(err, core.ErrStoreUnavailable):
		s.logFailure(r, op, err, log.ErrorTypeDatabase)
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "store unavailable, try again later"})
	default:
		s.logFailure(r, op, err, log.ErrorTypeInternal)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func (s *Server) logFailure(r *http.Request, op string, err error, errorType string) {
	fields := log.NewFields().
		WithRequestID(trace.GetRequestID(r.Context())).
		WithOwner(r.Header.Get(HeaderOwnerID)).
		WithErrorType(errorType)
	s.structured.LogError(r.Context(), "Request failed", err, op, fields)
}

func writeBadRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: msg})
}
