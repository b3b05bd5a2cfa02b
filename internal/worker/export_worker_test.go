package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"clinica/internal/amqp"
	"clinica/internal/core"
	"clinica/internal/export"
	"clinica/internal/services"
	"clinica/internal/store/memory"
)

type fakeWriter struct {
	tabs   []string
	tables [][]export.Table
	err    error
}

func (f *fakeWriter) WriteReport(_ context.Context, tab string, tables []export.Table) error {
	if f.err != nil {
		return f.err
	}
	f.tabs = append(f.tabs, tab)
	f.tables = append(f.tables, tables)
	return nil
}

func tabName(clinicaID, kind, month string) string { return clinicaID + "/" + kind + "/" + month }

func newWorker(t *testing.T, w *fakeWriter) (*ExportWorker, *memory.Store) {
	t.Helper()
	m := memory.New()
	if err := m.AddTransaction("c1", core.Transaction{ID: "t1", Tipo: core.Receita, Valor: 300, Data: core.NewDate(2024, 6, 5), Status: core.Pago}); err != nil {
		t.Fatal(err)
	}
	reports := services.NewReportService(m, services.ReportServiceConfig{CacheSize: 10, CacheTTL: time.Minute})
	return NewExportWorker(reports, w, tabName), m
}

func TestExportWorker_WritesReport(t *testing.T) {
	w := &fakeWriter{}
	worker, _ := newWorker(t, w)

	msg := amqp.NewReportExportMessage("financeiro", "c1", "2024-06", amqp.ReasonManual)
	if err := worker.HandleExportMessage(context.Background(), msg); err != nil {
		t.Fatalf("HandleExportMessage: %v", err)
	}
	if len(w.tabs) != 1 || w.tabs[0] != "c1/financeiro/2024-06" {
		t.Fatalf("tabs = %v", w.tabs)
	}
	if got := w.tables[0][0].Texts()[0][1]; got != "R$ 300,00" {
		t.Errorf("receitas = %q", got)
	}
}

func TestExportWorker_ReadsFreshData(t *testing.T) {
	w := &fakeWriter{}
	worker, m := newWorker(t, w)
	ctx := context.Background()

	msg := amqp.NewReportExportMessage("financeiro", "c1", "2024-06", amqp.ReasonManual)
	if err := worker.HandleExportMessage(ctx, msg); err != nil {
		t.Fatal(err)
	}
	if err := m.AddTransaction("c1", core.Transaction{ID: "t2", Tipo: core.Receita, Valor: 100, Data: core.NewDate(2024, 6, 6), Status: core.Pago}); err != nil {
		t.Fatal(err)
	}
	if err := worker.HandleExportMessage(ctx, msg); err != nil {
		t.Fatal(err)
	}
	if got := w.tables[1][0].Texts()[0][1]; got != "R$ 400,00" {
		t.Errorf("second export receitas = %q, want R$ 400,00", got)
	}
}

func TestExportWorker_Errors(t *testing.T) {
	boom := errors.New("sheets quota")
	tests := []struct {
		name        string
		msg         *amqp.ReportExportMessage
		writerErr   error
		wantDiscard bool
	}{
		{"unknown kind", amqp.NewReportExportMessage("estoque", "c1", "2024-06", amqp.ReasonManual), nil, true},
		{"bad month", amqp.NewReportExportMessage("financeiro", "c1", "2024-00", amqp.ReasonManual), nil, true},
		{"writer failure is retried", amqp.NewReportExportMessage("produtividade", "c1", "2024-06", amqp.ReasonClosing), boom, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			worker, _ := newWorker(t, &fakeWriter{err: tt.writerErr})
			err := worker.HandleExportMessage(context.Background(), tt.msg)
			if err == nil {
				t.Fatal("expected error")
			}
			if errors.Is(err, amqp.ErrDiscard) != tt.wantDiscard {
				t.Errorf("discard = %v, want %v (err %v)", errors.Is(err, amqp.ErrDiscard), tt.wantDiscard, err)
			}
			if tt.writerErr != nil && !errors.Is(err, tt.writerErr) {
				t.Errorf("writer error not wrapped: %v", err)
			}
		})
	}
}
