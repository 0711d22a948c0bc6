package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"ledger/internal/core"
	"ledger/internal/installment"
	"ledger/internal/log"
	"ledger/internal/middleware/ratelimit"
	"ledger/internal/middleware/security"
	"ledger/internal/middleware/trace"
	"ledger/internal/query"
	"ledger/internal/services"
)

// Ledger is the application surface the API exposes.
type Ledger interface {
	RecordPurchase(ctx context.Context, p installment.Purchase) ([]core.LedgerEntry, error)
	RecordIncome(ctx context.Context, req services.IncomeRequest) (core.LedgerEntry, error)
	EditEntry(ctx context.Context, ownerID, id string, patch core.EntryPatch) (core.LedgerEntry, error)
	DeleteEntry(ctx context.Context, ownerID, id string) error
	Dashboard(ctx context.Context, ownerID string, g services.Granularity) (services.Dashboard, error)
	Statement(ctx context.Context, ownerID string, spec query.Spec) ([]core.LedgerEntry, error)
	Upcoming(ctx context.Context, ownerID string) ([]core.LedgerEntry, error)
	OwnerConfig(ctx context.Context, ownerID string) (core.OwnerConfig, error)
	AddBank(ctx context.Context, ownerID, name string) (core.OwnerConfig, error)
	RemoveBank(ctx context.Context, ownerID, name string) (core.OwnerConfig, error)
}

// Pinger reports readiness of a dependency.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Options tunes the server. Zero values fall back to defaults.
type Options struct {
	Logger             *log.Logger
	Ready              Pinger
	RateLimitPerMinute int
	RequestTimeout     time.Duration
	TrustedProxies     []string
}

const defaultRequestTimeout = 30 * time.Second

type Server struct {
	http.Server
	ledger     Ledger
	ready      Pinger
	logger     *log.Logger
	structured *log.StructuredLogger
	limiter    *ratelimit.Limiter
	detector   *security.Detector
	tracer     *trace.Middleware
	timeout    time.Duration
	now        func() time.Time

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run http.Server.
func NewServer(addr string, ledger Ledger, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(log.DefaultConfig()).WithComponent(log.ComponentHTTP)
	}
	timeout := opts.RequestTimeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}

	detector := security.NewDetector()
	for _, cidr := range opts.TrustedProxies {
		if err := detector.AddTrustedProxy(cidr); err != nil {
			logger.Warn("Ignoring trusted proxy", "cidr", cidr, "error", err)
		}
	}

	s := &Server{
		ledger:     ledger,
		ready:      opts.Ready,
		logger:     logger,
		structured: log.NewStructuredLogger(logger),
		limiter:    ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: opts.RateLimitPerMinute}),
		detector:   detector,
		timeout:    timeout,
		now:        time.Now,
	}
	s.tracer = trace.NewMiddleware(logger, detector.ExtractClientIP)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	api := http.NewServeMux()
	api.HandleFunc("POST /api/v1/purchases", s.handleRecordPurchase)
	api.HandleFunc("POST /api/v1/incomes", s.handleRecordIncome)
	api.HandleFunc("PATCH /api/v1/entries/{id}", s.handleEditEntry)
	api.HandleFunc("DELETE /api/v1/entries/{id}", s.handleDeleteEntry)
	api.HandleFunc("GET /api/v1/dashboard", s.handleDashboard)
	api.HandleFunc("GET /api/v1/statement", s.handleStatement)
	api.HandleFunc("GET /api/v1/upcoming", s.handleUpcoming)
	api.HandleFunc("GET /api/v1/banks", s.handleListBanks)
	api.HandleFunc("POST /api/v1/banks", s.handleAddBank)
	api.HandleFunc("DELETE /api/v1/banks/{name}", s.handleRemoveBank)
	api.HandleFunc("GET /api/v1/vocabulary", handleVocabulary)

	limited := s.limiter.Middleware(detector.ExtractClientIP, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: "rate limit exceeded"})
	})(s.withTimeout(api))
	mux.Handle("/api/", limited)

	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	s.Server = http.Server{
		Addr:              addr,
		Handler:           s.tracer.Middleware(headers.Middleware(detector.Middleware(mux))),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       timeout,
		WriteTimeout:      timeout + 5*time.Second,
		IdleTimeout:       2 * time.Minute,
	}
	return s
}

func (s *Server) today() core.Date { return core.DateOf(s.now()) }

// withTimeout bounds every API request so store calls see a deadline.
func (s *Server) withTimeout(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
		defer cancel()
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Shutdown stops the limiter's cleanup loop and drains the server.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.ready != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.ready.Ping(ctx); err != nil {
			log.FromContext(r.Context()).WarnContext(r.Context(), "Readiness check failed", "error", err)
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
