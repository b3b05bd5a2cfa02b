// Package services orchestrates report building, caching and export
// requests on top of the storage ports.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"clinica/internal/cache"
	"clinica/internal/core"
	"clinica/internal/report"
	"clinica/internal/store"
)

// Kind names a monthly report.
type Kind string

const (
	KindFinanceiro    Kind = "financeiro"
	KindProdutividade Kind = "produtividade"
)

// Kinds lists every report kind.
var Kinds = []Kind{KindFinanceiro, KindProdutividade}

// ErrUnknownReport is returned for report kinds other than Kinds.
var ErrUnknownReport = errors.New("unknown report")

// ParseKind validates a report kind name.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownReport, s)
}

// Report is implemented by every built report.
type Report interface {
	Kind() Kind
	Period() report.DateRange
}

type FinancialReport struct {
	Range             report.DateRange          `json:"periodo"`
	KPIs              report.FinancialKPIs      `json:"kpis"`
	PorCategoria      []report.CategoryRow      `json:"porCategoria"`
	PorFormaPagamento []report.PaymentMethodRow `json:"porFormaPagamento"`
	TotalRegistros    int                       `json:"totalRegistros"`
	GeradoEm          time.Time                 `json:"geradoEm"`
}

func (FinancialReport) Kind() Kind                 { return KindFinanceiro }
func (r FinancialReport) Period() report.DateRange { return r.Range }

type ProductivityReport struct {
	Range             report.DateRange            `json:"periodo"`
	KPIs              report.ProductivityKPIs     `json:"kpis"`
	PorProfissional   []report.ProfessionalRow    `json:"porProfissional"`
	PorTipo           []report.AppointmentTypeRow `json:"porTipo"`
	PorDiaSemana      []report.WeekdayRow         `json:"porDiaSemana"`
	GraficoTipos      []report.TypeChartPoint     `json:"graficoTipos"`
	GraficoDiasSemana []report.WeekdayChartPoint  `json:"graficoDiasSemana"`
	GraficoStatus     []report.StatusChartPoint   `json:"graficoStatus"`
	GeradoEm          time.Time                   `json:"geradoEm"`
}

func (ProductivityReport) Kind() Kind                 { return KindProdutividade }
func (r ProductivityReport) Period() report.DateRange { return r.Range }

// ReportService builds monthly reports for a clinic. Results are cached per
// clinic, kind and month.
type ReportService struct {
	txs          store.TransactionLister
	appts        store.AppointmentLister
	names        store.ProfessionalDirectory
	financial    *cache.LRU[FinancialReport]
	productivity *cache.LRU[ProductivityReport]
	now          func() time.Time
}

// ReportServiceConfig sizes the report caches.
type ReportServiceConfig struct {
	CacheSize int
	CacheTTL  time.Duration
}

func DefaultReportServiceConfig() ReportServiceConfig {
	return ReportServiceConfig{CacheSize: 100, CacheTTL: 2 * time.Minute}
}

func NewReportService(r store.Reader, cfg ReportServiceConfig) *ReportService {
	return &ReportService{
		txs:          r,
		appts:        r,
		names:        r,
		financial:    cache.NewLRU[FinancialReport](cfg.CacheSize, cfg.CacheTTL),
		productivity: cache.NewLRU[ProductivityReport](cfg.CacheSize, cfg.CacheTTL),
		now:          time.Now,
	}
}

// RegisterCaches hands the report caches to m for periodic cleanup.
func (s *ReportService) RegisterCaches(m *cache.Manager) {
	m.Register(s.financial)
	m.Register(s.productivity)
}

func cacheKey(clinicaID string, kind Kind, month string) string {
	return clinicaID + "|" + string(kind) + "|" + month
}

// Financial builds the financial report of the month named by selector.
func (s *ReportService) Financial(ctx context.Context, clinicaID, selector string) (FinancialReport, error) {
	dr, err := report.ResolveMonth(selector, s.now())
	if err != nil {
		return FinancialReport{}, err
	}
	key := cacheKey(clinicaID, KindFinanceiro, dr.CurrentMonth)
	return s.financial.GetOrLoad(ctx, key, func(ctx context.Context) (FinancialReport, error) {
		start := time.Now()
		txs, err := s.txs.ListTransactions(ctx, clinicaID, dr.Start(), dr.End())
		if err != nil {
			return FinancialReport{}, fmt.Errorf("load transactions: %w", err)
		}
		rep := FinancialReport{
			Range:             dr,
			KPIs:              report.ComputeFinancialKPIs(txs),
			PorCategoria:      report.ByCategory(txs),
			PorFormaPagamento: report.ByPaymentMethod(txs),
			TotalRegistros:    len(txs),
			GeradoEm:          s.now().UTC(),
		}
		slog.DebugContext(ctx, "Financial report built",
			"component", "report",
			"clinica_id", clinicaID,
			"month", dr.CurrentMonth,
			"records", len(txs),
			"duration", time.Since(start))
		return rep, nil
	})
}

// Productivity builds the productivity report of the month named by selector.
func (s *ReportService) Productivity(ctx context.Context, clinicaID, selector string) (ProductivityReport, error) {
	dr, err := report.ResolveMonth(selector, s.now())
	if err != nil {
		return ProductivityReport{}, err
	}
	key := cacheKey(clinicaID, KindProdutividade, dr.CurrentMonth)
	return s.productivity.GetOrLoad(ctx, key, func(ctx context.Context) (ProductivityReport, error) {
		start := time.Now()
		from, to := dr.Start(), dr.End()

		var (
			appts []core.Appointment
			names map[string]string
		)
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			appts, err = s.appts.ListAppointments(gctx, clinicaID, from, to)
			if err != nil {
				return fmt.Errorf("load appointments: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			var err error
			names, err = s.names.ProfessionalNames(gctx, clinicaID)
			if err != nil {
				return fmt.Errorf("load professionals: %w", err)
			}
			return nil
		})
		if err := g.Wait(); err != nil {
			return ProductivityReport{}, err
		}

		rep := ProductivityReport{
			Range:             dr,
			KPIs:              report.ComputeProductivityKPIs(appts, from, to),
			PorProfissional:   report.ByProfessional(appts, names),
			PorTipo:           report.ByAppointmentType(appts),
			PorDiaSemana:      report.ByWeekday(appts, from, to),
			GraficoTipos:      report.TypeChart(appts),
			GraficoDiasSemana: report.WeekdayChart(appts),
			GraficoStatus:     report.StatusChart(appts),
			GeradoEm:          s.now().UTC(),
		}
		slog.DebugContext(ctx, "Productivity report built",
			"component", "report",
			"clinica_id", clinicaID,
			"month", dr.CurrentMonth,
			"records", len(appts),
			"duration", time.Since(start))
		return rep, nil
	})
}

// Build dispatches to the builder of kind.
func (s *ReportService) Build(ctx context.Context, kind Kind, clinicaID, selector string) (Report, error) {
	var (
		rep Report
		err error
	)
	switch kind {
	case KindFinanceiro:
		rep, err = s.Financial(ctx, clinicaID, selector)
	case KindProdutividade:
		rep, err = s.Productivity(ctx, clinicaID, selector)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownReport, kind)
	}
	if err != nil {
		return nil, err
	}
	return rep, nil
}

// Invalidate drops the cached reports of a clinic for month, or for every
// month when month is empty.
func (s *ReportService) Invalidate(clinicaID, month string) {
	if month == "" {
		prefix := clinicaID + "|"
		n := s.financial.DeletePrefix(prefix) + s.productivity.DeletePrefix(prefix)
		slog.Debug("Report cache invalidated", "component", "cache", "clinica_id", clinicaID, "entries", n)
		return
	}
	s.financial.Delete(cacheKey(clinicaID, KindFinanceiro, month))
	s.productivity.Delete(cacheKey(clinicaID, KindProdutividade, month))
}
