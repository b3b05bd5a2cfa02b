// Package worker handles queued report exports.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"clinica/internal/amqp"
	"clinica/internal/export"
	"clinica/internal/report"
	"clinica/internal/services"
)

// ReportBuilder builds a report by kind.
type ReportBuilder interface {
	Build(ctx context.Context, kind services.Kind, clinicaID, month string) (services.Report, error)
	Invalidate(clinicaID, month string)
}

// ReportWriter stores rendered tables under a tab name.
type ReportWriter interface {
	WriteReport(ctx context.Context, tab string, tables []export.Table) error
}

// TabNamer names the destination tab of a report.
type TabNamer func(clinicaID, kind, month string) string

// ExportWorker rebuilds a requested report from the database and writes it
// to the spreadsheet.
type ExportWorker struct {
	reports ReportBuilder
	writer  ReportWriter
	tabName TabNamer
}

func NewExportWorker(reports ReportBuilder, writer ReportWriter, tabName TabNamer) *ExportWorker {
	return &ExportWorker{reports: reports, writer: writer, tabName: tabName}
}

// HandleExportMessage processes one export request. Requests that can
// never succeed are wrapped in amqp.ErrDiscard.
func (w *ExportWorker) HandleExportMessage(ctx context.Context, msg *amqp.ReportExportMessage) error {
	start := time.Now()
	kind, err := services.ParseKind(msg.Kind)
	if err != nil {
		return fmt.Errorf("%w: %v", amqp.ErrDiscard, err)
	}

	// exports always read fresh data
	w.reports.Invalidate(msg.ClinicaID, msg.Month)

	rep, err := w.reports.Build(ctx, kind, msg.ClinicaID, msg.Month)
	if errors.Is(err, report.ErrInvalidMonthSelector) {
		return fmt.Errorf("%w: %v", amqp.ErrDiscard, err)
	}
	if err != nil {
		return fmt.Errorf("build %s report: %w", kind, err)
	}

	tab := w.tabName(msg.ClinicaID, string(kind), rep.Period().CurrentMonth)
	if err := w.writer.WriteReport(ctx, tab, export.Tables(rep)); err != nil {
		return fmt.Errorf("write %s: %w", tab, err)
	}

	slog.InfoContext(ctx, "Report exported",
		"component", "worker",
		"id", msg.ID,
		"kind", kind,
		"clinica_id", msg.ClinicaID,
		"month", rep.Period().CurrentMonth,
		"tab", tab,
		"reason", msg.Reason,
		"duration", time.Since(start))
	return nil
}
