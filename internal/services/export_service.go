package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"clinica/internal/amqp"
	"clinica/internal/report"
)

// ErrExportUnavailable is returned when no message broker is configured.
var ErrExportUnavailable = errors.New("report export unavailable")

// ExportPublisher queues export requests for the worker.
type ExportPublisher interface {
	PublishReportExport(ctx context.Context, msg *amqp.ReportExportMessage) error
}

// ExportService turns export requests into broker messages.
type ExportService struct {
	publisher ExportPublisher
	now       func() time.Time
}

// NewExportService accepts a nil publisher; every request then fails with
// ErrExportUnavailable.
func NewExportService(p ExportPublisher) *ExportService {
	return &ExportService{publisher: p, now: time.Now}
}

// Available reports whether exports can be queued.
func (s *ExportService) Available() bool {
	return s != nil && s.publisher != nil
}

// RequestExport validates kind and month and queues a manual export.
func (s *ExportService) RequestExport(ctx context.Context, kind, clinicaID, month string) (*amqp.ReportExportMessage, error) {
	return s.request(ctx, kind, clinicaID, month, amqp.ReasonManual)
}

func (s *ExportService) request(ctx context.Context, kind, clinicaID, month, reason string) (*amqp.ReportExportMessage, error) {
	k, err := ParseKind(kind)
	if err != nil {
		return nil, err
	}
	dr, err := report.ResolveMonth(month, s.now())
	if err != nil {
		return nil, err
	}
	if !s.Available() {
		return nil, ErrExportUnavailable
	}

	msg := amqp.NewReportExportMessage(string(k), clinicaID, dr.CurrentMonth, reason)
	if err := s.publisher.PublishReportExport(ctx, msg); err != nil {
		return nil, fmt.Errorf("queue %s export: %w", k, err)
	}
	slog.InfoContext(ctx, "Report export requested",
		"component", "export",
		"id", msg.ID,
		"kind", k,
		"clinica_id", clinicaID,
		"month", dr.CurrentMonth,
		"reason", reason)
	return msg, nil
}
