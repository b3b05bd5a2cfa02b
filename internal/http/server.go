package http

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"time"

	"clinica/internal/amqp"
	"clinica/internal/export"
	applog "clinica/internal/log"
	"clinica/internal/middleware/ratelimit"
	"clinica/internal/middleware/security"
	"clinica/internal/middleware/trace"
	"clinica/internal/services"
	"clinica/internal/store"
)

// ReportBuilder builds a report of any kind for a clinic and month.
type ReportBuilder interface {
	Build(ctx context.Context, kind services.Kind, clinicaID, selector string) (services.Report, error)
}

// ExportRequester queues Sheets exports.
type ExportRequester interface {
	RequestExport(ctx context.Context, kind, clinicaID, month string) (*amqp.ReportExportMessage, error)
	Available() bool
}

// HealthChecker is probed by the readiness endpoint.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// Deps are the collaborators of the server. Clinics, Exports and Health
// are optional.
type Deps struct {
	Reports            ReportBuilder
	Ledger             store.TransactionPager
	Clinics            store.ClinicDirectory
	Exports            ExportRequester
	Renderer           *export.Renderer
	Health             HealthChecker
	Logger             *applog.Logger
	RateLimitPerMinute int
}

type appMetrics struct {
	reportsServed int64
	exportsQueued int64
	uptime        time.Time
}

type Server struct {
	http.Server
	reports  ReportBuilder
	ledger   store.TransactionPager
	clinics  store.ClinicDirectory
	exports  ExportRequester
	renderer *export.Renderer
	health   HealthChecker
	logger   *applog.Logger
	events   *applog.StructuredLogger

	rateLimiter      *ratelimit.Limiter
	securityDetector *security.Detector
	traceMiddleware  *trace.Middleware
	appMetrics       *appMetrics
	now              func() time.Time
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(addr string, d Deps) *Server {
	logger := d.Logger
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	logger = logger.WithComponent(applog.ComponentHTTP)

	rlCfg := ratelimit.DefaultConfig()
	if d.RateLimitPerMinute > 0 {
		rlCfg.RequestsPerMinute = d.RateLimitPerMinute
	}

	s := &Server{
		reports:          d.Reports,
		ledger:           d.Ledger,
		clinics:          d.Clinics,
		exports:          d.Exports,
		renderer:         d.Renderer,
		health:           d.Health,
		logger:           logger,
		events:           applog.NewStructuredLogger(logger),
		rateLimiter:      ratelimit.NewLimiter(rlCfg),
		securityDetector: security.NewDetector(),
		appMetrics:       &appMetrics{uptime: time.Now()},
		now:              time.Now,
	}
	s.traceMiddleware = trace.NewMiddleware(logger, s.securityDetector.ExtractClientIP)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.HandleFunc("GET /metrics", s.handleMetrics)

	noStore := func(h http.HandlerFunc) http.Handler { return security.NoStoreMiddleware(h) }
	mux.Handle("GET /api/relatorios/{tipo}", noStore(s.handleReportJSON))
	mux.Handle("GET /relatorios/{tipo}/csv", noStore(s.handleReportCSV))
	mux.Handle("GET /relatorios/{tipo}/xlsx", noStore(s.handleReportXLSX))
	mux.Handle("GET /relatorios/{tipo}/imprimir", noStore(s.handleReportPrint))
	mux.Handle("POST /relatorios/{tipo}/exportar", noStore(s.handleReportExport))
	mux.Handle("GET /api/transacoes", noStore(s.handleLedger))

	s.Server = http.Server{
		Addr:              addr,
		Handler:           s.middleware(mux),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

// middleware wraps h with logging, tracing, screening, security headers
// and per-IP rate limiting, outermost first.
func (s *Server) middleware(h http.Handler) http.Handler {
	limited := s.rateLimiter.Middleware(s.securityDetector.ExtractClientIP, func(w http.ResponseWriter, r *http.Request) {
		applog.FromContext(r.Context()).WithComponent(applog.ComponentRateLimit).WarnContext(r.Context(),
			"Rate limit exceeded",
			applog.FieldClientIP, s.securityDetector.ExtractClientIP(r),
			applog.FieldPath, r.URL.Path)
		TooManyRequestsError("Limite de requisições excedido, tente novamente em instantes").Write(w)
	})(h)

	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware(limited)
	screened := s.securityDetector.Middleware(headers)
	traced := s.traceMiddleware.Middleware(screened)
	return applog.Middleware(s.logger)(traced)
}

// Shutdown stops the rate limiter and drains open connections.
func (s *Server) Shutdown(ctx context.Context) error {
	s.rateLimiter.Stop()
	if err := s.Server.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) countReport() {
	atomic.AddInt64(&s.appMetrics.reportsServed, 1)
}
