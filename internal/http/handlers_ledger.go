package http

import (
	"net/http"

	"clinica/internal/core"
	applog "clinica/internal/log"
	"clinica/internal/report"
)

type ledgerItem struct {
	ID             string  `json:"id"`
	Tipo           string  `json:"tipo"`
	Categoria      *string `json:"categoria"`
	CategoriaLabel string  `json:"categoriaLabel"`
	Valor          float64 `json:"valor"`
	Data           string  `json:"data"`
	FormaPagamento *string `json:"formaPagamento"`
	FormaLabel     string  `json:"formaPagamentoLabel"`
	Status         string  `json:"status"`
	Paciente       *string `json:"paciente"`
	Descricao      string  `json:"descricao,omitempty"`
}

type ledgerPage struct {
	Items      []ledgerItem `json:"items"`
	Page       int          `json:"page"`
	PageSize   int          `json:"pageSize"`
	TotalItems int          `json:"totalItems"`
	TotalPages int          `json:"totalPages"`
}

func toLedgerItem(t core.Transaction) ledgerItem {
	label, forma := "", ""
	if t.Categoria != nil {
		label = report.CategoryLabel(*t.Categoria)
	}
	if t.FormaPagamento != nil {
		forma = report.PaymentMethodLabel(*t.FormaPagamento)
	}
	return ledgerItem{
		ID:             t.ID,
		Tipo:           string(t.Tipo),
		Categoria:      t.Categoria,
		CategoriaLabel: label,
		Valor:          t.Valor,
		Data:           t.Data.String(),
		FormaPagamento: t.FormaPagamento,
		FormaLabel:     forma,
		Status:         string(t.Status),
		Paciente:       t.Paciente,
		Descricao:      t.Descricao,
	}
}

// handleLedger lists one page of a clinic's transactions, newest first.
func (s *Server) handleLedger(w http.ResponseWriter, r *http.Request) {
	c, fail := authorize(r, financialRoles)
	if fail != nil {
		fail.Write(w)
		return
	}

	f, err := ParseLedgerFilter(r.URL.Query(), s.now())
	if err != nil {
		s.writeError(w, r, err, nil)
		return
	}

	page, err := s.ledger.PageTransactions(r.Context(), c.ClinicaID, f)
	if err != nil {
		fields := applog.NewFields()
		fields[applog.FieldClinica] = c.ClinicaID
		s.writeError(w, r, err, fields)
		return
	}

	out := ledgerPage{
		Items:      make([]ledgerItem, 0, len(page.Items)),
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalItems: page.TotalItems,
		TotalPages: page.TotalPages(),
	}
	for _, t := range page.Items {
		out.Items = append(out.Items, toLedgerItem(t))
	}
	NewResponse().JSON(out).Write(w)
}
