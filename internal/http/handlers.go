package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"clinica/internal/core"
	applog "clinica/internal/log"
	"clinica/internal/report"
	"clinica/internal/services"
)

// handleHealth performs basic liveness check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	NewResponse().JSON(map[string]any{
		"status":    "ok",
		"timestamp": s.now().Format(time.RFC3339),
		"uptime":    time.Since(s.appMetrics.uptime).String(),
	}).Write(w)
}

// handleReady checks the backend and the print templates. A missing broker
// only disables exports and does not fail readiness.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := "ready"
	httpStatus := http.StatusOK
	checks := make(map[string]any)

	fail := func(name string, reason string) {
		checks[name] = "failed: " + reason
		status = "not_ready"
		httpStatus = http.StatusServiceUnavailable
	}

	if s.health != nil {
		if err := s.health.Ping(ctx); err != nil {
			fail("backend", err.Error())
		} else {
			checks["backend"] = "ok"
		}
	} else {
		checks["backend"] = "ok"
	}

	if s.renderer == nil {
		fail("templates", "templates not loaded")
	} else {
		checks["templates"] = "ok"
	}

	if s.exports != nil && s.exports.Available() {
		checks["exports"] = "ok"
	} else {
		checks["exports"] = "disabled"
	}

	checks["rate_limiter"] = map[string]any{
		"active_clients": s.rateLimiter.ActiveClients(),
		"status":         "ok",
	}

	NewResponse().Status(httpStatus).JSON(map[string]any{
		"status":    status,
		"timestamp": s.now().Format(time.RFC3339),
		"checks":    checks,
	}).Write(w)
}

// handleMetrics writes counters in the Prometheus text format.
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")

	traceMetrics := s.traceMiddleware.GetMetrics()
	rateLimitMetrics := s.rateLimiter.GetMetrics()
	securityMetrics := s.securityDetector.GetMetrics()

	metrics := []struct {
		name, help, kind string
		value            int64
	}{
		{"http_requests_total", "Total number of HTTP requests", "counter", traceMetrics.TotalRequests},
		{"reports_served_total", "Reports delivered in any format", "counter", atomic.LoadInt64(&s.appMetrics.reportsServed)},
		{"report_exports_queued_total", "Sheets exports queued", "counter", atomic.LoadInt64(&s.appMetrics.exportsQueued)},
		{"rate_limit_hits_total", "Requests rejected by the rate limiter", "counter", rateLimitMetrics.TotalHits},
		{"active_rate_limit_clients", "Currently tracked rate limit clients", "gauge", rateLimitMetrics.ClientCount},
		{"suspicious_requests_total", "Suspicious requests detected", "counter", securityMetrics.SuspiciousRequests},
		{"uptime_seconds", "Application uptime in seconds", "gauge", int64(time.Since(s.appMetrics.uptime).Seconds())},
	}

	w.WriteHeader(http.StatusOK)
	for _, m := range metrics {
		fmt.Fprintf(w, "# HELP %s %s\n# TYPE %s %s\n%s %d\n\n", m.name, m.help, m.name, m.kind, m.name, m.value)
	}
}

// writeError maps service errors to responses. Unexpected errors are
// logged and answered with 500.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error, fields applog.LogFields) {
	switch {
	case errors.Is(err, report.ErrInvalidMonthSelector):
		BadRequestError("Mês inválido, use o formato AAAA-MM").Write(w)
	case errors.Is(err, core.ErrInvalidType), errors.Is(err, core.ErrInvalidStatus):
		BadRequestError("Filtro inválido: " + err.Error()).Write(w)
	case errors.Is(err, services.ErrUnknownReport):
		NotFoundError("Relatório desconhecido").Write(w)
	case errors.Is(err, services.ErrExportUnavailable):
		ServiceUnavailableError("Exportação indisponível no momento").Write(w)
	case errors.Is(err, context.DeadlineExceeded):
		ErrorResponse(http.StatusGatewayTimeout, "Tempo esgotado ao gerar o relatório").Write(w)
	default:
		applog.NewStructuredLogger(applog.FromContext(r.Context())).
			LogError(r.Context(), "Request failed", err, applog.ComponentHTTP, r.Method+" "+r.URL.Path, fields)
		InternalServerError("Erro interno ao processar a solicitação").Write(w)
	}
}
