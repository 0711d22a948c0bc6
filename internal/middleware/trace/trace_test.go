package trace

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"ledger/internal/log"
)

func TestMiddlewareAssignsRequestID(t *testing.T) {
	var buf bytes.Buffer
	cfg := log.DefaultConfig()
	cfg.Writer = &buf
	cfg.Format = "json"
	m := NewMiddleware(log.New(cfg), func(*http.Request) string { return "10.0.0.1" })

	var seen string
	h := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
		w.WriteHeader(http.StatusTeapot)
	}))

	tests := []struct {
		name     string
		incoming string
		reuse    bool
	}{
		{"generated", "", false},
		{"reused", "abc-123", true},
		{"rejected", "bad id with spaces", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf.Reset()
			req := httptest.NewRequest(http.MethodGet, "/api/v1/upcoming", nil)
			if tt.incoming != "" {
				req.Header.Set(HeaderRequestID, tt.incoming)
			}
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)

			got := rr.Header().Get(HeaderRequestID)
			if got != seen {
				t.Errorf("header %q and context %q differ", got, seen)
			}
			if tt.reuse && got != tt.incoming {
				t.Errorf("expected incoming id to be reused, got %q", got)
			}
			if !tt.reuse && !strings.HasPrefix(got, "req_") {
				t.Errorf("expected generated id, got %q", got)
			}
			if !strings.Contains(buf.String(), `"status_code":418`) {
				t.Errorf("completion log missing status: %s", buf.String())
			}
		})
	}

	if m.GetMetrics().TotalRequests != 3 {
		t.Errorf("TotalRequests = %d", m.GetMetrics().TotalRequests)
	}
}
