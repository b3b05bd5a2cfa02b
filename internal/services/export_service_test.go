package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"clinica/internal/amqp"
	"clinica/internal/report"
)

type fakePublisher struct {
	mu   sync.Mutex
	msgs []*amqp.ReportExportMessage
	err  error
}

func (f *fakePublisher) PublishReportExport(_ context.Context, msg *amqp.ReportExportMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msg)
	return nil
}

func fixedNow() time.Time { return time.Date(2024, 6, 20, 10, 0, 0, 0, time.UTC) }

func TestExportService_RequestExport(t *testing.T) {
	pub := &fakePublisher{}
	svc := NewExportService(pub)
	svc.now = fixedNow

	msg, err := svc.RequestExport(context.Background(), "financeiro", "c1", "")
	if err != nil {
		t.Fatalf("RequestExport: %v", err)
	}
	if msg.Month != "2024-06" || msg.Kind != "financeiro" || msg.ClinicaID != "c1" || msg.Reason != amqp.ReasonManual {
		t.Errorf("message = %+v", msg)
	}
	if len(pub.msgs) != 1 || pub.msgs[0].ID != msg.ID {
		t.Errorf("published = %+v", pub.msgs)
	}
}

func TestExportService_Errors(t *testing.T) {
	boom := errors.New("broker down")
	tests := []struct {
		name    string
		pub     ExportPublisher
		kind    string
		month   string
		wantErr error
	}{
		{"unknown kind", &fakePublisher{}, "estoque", "2024-06", ErrUnknownReport},
		{"bad month", &fakePublisher{}, "financeiro", "junho", report.ErrInvalidMonthSelector},
		{"no broker", nil, "financeiro", "2024-06", ErrExportUnavailable},
		{"publish failure", &fakePublisher{err: boom}, "produtividade", "2024-06", boom},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewExportService(tt.pub)
			svc.now = fixedNow
			if _, err := svc.RequestExport(context.Background(), tt.kind, "c1", tt.month); !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestExportService_Available(t *testing.T) {
	var nilSvc *ExportService
	if nilSvc.Available() || NewExportService(nil).Available() {
		t.Error("service without publisher must not be available")
	}
	if !NewExportService(&fakePublisher{}).Available() {
		t.Error("service with publisher must be available")
	}
}
