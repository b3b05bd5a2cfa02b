package http

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"sync/atomic"

	"clinica/internal/export"
	applog "clinica/internal/log"
	"clinica/internal/services"
	"clinica/internal/store"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// reportAccess resolves the caller and the {tipo} path value and checks the
// caller's role for that kind.
func (s *Server) reportAccess(w http.ResponseWriter, r *http.Request) (services.Kind, Caller, bool) {
	c, fail := callerFrom(r)
	if fail != nil {
		fail.Write(w)
		return "", Caller{}, false
	}
	kind, err := services.ParseKind(r.PathValue("tipo"))
	if err != nil {
		s.writeError(w, r, err, nil)
		return "", Caller{}, false
	}
	if !c.Can(rolesFor(kind)) {
		ForbiddenError("Acesso negado para o perfil informado").Write(w)
		return "", Caller{}, false
	}
	return kind, c, true
}

func (s *Server) buildReport(w http.ResponseWriter, r *http.Request) (services.Report, Caller, bool) {
	kind, c, ok := s.reportAccess(w, r)
	if !ok {
		return nil, Caller{}, false
	}
	month := ParseMonth(r.URL.Query())
	rep, err := s.reports.Build(r.Context(), kind, c.ClinicaID, month)
	if err != nil {
		s.writeError(w, r, err, applog.NewFields().WithReport(c.ClinicaID, string(kind), month))
		return nil, Caller{}, false
	}
	return rep, c, true
}

func (s *Server) delivered(r *http.Request, c Caller, rep services.Report, format string) {
	s.countReport()
	s.events.LogReportBuilt(r.Context(), c.ClinicaID, string(rep.Kind()), rep.Period().CurrentMonth, format)
}

func (s *Server) handleReportJSON(w http.ResponseWriter, r *http.Request) {
	rep, c, ok := s.buildReport(w, r)
	if !ok {
		return
	}
	NewResponse().JSON(rep).Write(w)
	s.delivered(r, c, rep, "json")
}

func (s *Server) handleReportCSV(w http.ResponseWriter, r *http.Request) {
	rep, c, ok := s.buildReport(w, r)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, export.Tables(rep)); err != nil {
		s.writeError(w, r, err, nil)
		return
	}
	NewResponse().
		Body("text/csv; charset=utf-8", buf.Bytes()).
		Attachment(downloadName(string(rep.Kind()), rep.Period().CurrentMonth, "csv")).
		Write(w)
	s.delivered(r, c, rep, "csv")
}

func (s *Server) handleReportXLSX(w http.ResponseWriter, r *http.Request) {
	rep, c, ok := s.buildReport(w, r)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := export.WriteXLSX(&buf, export.Tables(rep)); err != nil {
		s.writeError(w, r, err, nil)
		return
	}
	NewResponse().
		Body(xlsxContentType, buf.Bytes()).
		Attachment(downloadName(string(rep.Kind()), rep.Period().CurrentMonth, "xlsx")).
		Write(w)
	s.delivered(r, c, rep, "xlsx")
}

func (s *Server) handleReportPrint(w http.ResponseWriter, r *http.Request) {
	if s.renderer == nil {
		ServiceUnavailableError("Impressão indisponível").Write(w)
		return
	}
	rep, c, ok := s.buildReport(w, r)
	if !ok {
		return
	}
	clinic, err := s.clinicName(r.Context(), c.ClinicaID)
	if err != nil {
		s.writeError(w, r, err, applog.NewFields().WithReport(c.ClinicaID, string(rep.Kind()), rep.Period().CurrentMonth))
		return
	}
	var buf bytes.Buffer
	if err := s.renderer.Render(&buf, clinic, rep); err != nil {
		s.writeError(w, r, err, nil)
		return
	}
	NewResponse().HTML(buf.Bytes()).Write(w)
	s.delivered(r, c, rep, "html")
}

// clinicName is the print heading of a clinic. Clinics without a registered
// name are shown by id.
func (s *Server) clinicName(ctx context.Context, clinicaID string) (string, error) {
	if s.clinics == nil {
		return clinicaID, nil
	}
	nome, err := s.clinics.ClinicName(ctx, clinicaID)
	if errors.Is(err, store.ErrNotFound) {
		return clinicaID, nil
	}
	if err != nil {
		return "", err
	}
	if nome == "" {
		return clinicaID, nil
	}
	return nome, nil
}

type exportAccepted struct {
	ID        string `json:"id"`
	Relatorio string `json:"relatorio"`
	Mes       string `json:"mes"`
	Status    string `json:"status"`
}

// handleReportExport queues a Sheets export and answers 202.
func (s *Server) handleReportExport(w http.ResponseWriter, r *http.Request) {
	kind, c, ok := s.reportAccess(w, r)
	if !ok {
		return
	}
	if s.exports == nil {
		s.writeError(w, r, services.ErrExportUnavailable, nil)
		return
	}

	month := ParseMonth(r.URL.Query())
	msg, err := s.exports.RequestExport(r.Context(), string(kind), c.ClinicaID, month)
	if err != nil {
		s.writeError(w, r, err, applog.NewFields().WithReport(c.ClinicaID, string(kind), month))
		return
	}

	atomic.AddInt64(&s.appMetrics.exportsQueued, 1)
	s.events.LogExportQueued(r.Context(), c.ClinicaID, msg.Kind, msg.Month, msg.ID)
	NewResponse().Status(http.StatusAccepted).JSON(exportAccepted{
		ID:        msg.ID,
		Relatorio: msg.Kind,
		Mes:       msg.Month,
		Status:    "enfileirado",
	}).Write(w)
}
