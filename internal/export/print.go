package export

import (
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"time"

	"clinica/internal/report"
	"clinica/internal/services"
	"clinica/web"
)

// printPage is the data of the printable templates.
type printPage struct {
	Clinic      string
	Title       string
	Month       string
	Period      string
	GeneratedAt string
	Tables      []Table
	Statuses    []report.StatusChartPoint
}

// Renderer executes the printable report pages.
type Renderer struct {
	pages map[services.Kind]*template.Template
}

// NewRenderer parses the embedded templates.
func NewRenderer() (*Renderer, error) {
	return NewRendererFS(web.TemplatesFS)
}

// NewRendererFS parses templates/print_*.html from fsys.
func NewRendererFS(fsys fs.FS) (*Renderer, error) {
	r := &Renderer{pages: make(map[services.Kind]*template.Template)}
	for _, k := range services.Kinds {
		page := "templates/print_" + string(k) + ".html"
		t, err := template.ParseFS(fsys, "templates/print_base.html", page)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", page, err)
		}
		r.pages[k] = t
	}
	return r, nil
}

func (r *Renderer) render(w io.Writer, kind services.Kind, p printPage) error {
	t, ok := r.pages[kind]
	if !ok {
		return fmt.Errorf("%w: %q", services.ErrUnknownReport, kind)
	}
	return t.ExecuteTemplate(w, "base", p)
}

func newPrintPage(clinic, title string, dr report.DateRange, generated time.Time, tables []Table) printPage {
	return printPage{
		Clinic:      clinic,
		Title:       title,
		Month:       FormatMonthBR(dr.CurrentMonth),
		Period:      Period(dr),
		GeneratedAt: generated.Format("02/01/2006 15:04"),
		Tables:      tables,
	}
}

// RenderFinancial writes the printable financial page headed by clinic.
func (r *Renderer) RenderFinancial(w io.Writer, clinic string, rep services.FinancialReport) error {
	p := newPrintPage(clinic, "Relatório financeiro", rep.Range, rep.GeradoEm, FinancialTables(rep))
	return r.render(w, services.KindFinanceiro, p)
}

func (r *Renderer) RenderProductivity(w io.Writer, clinic string, rep services.ProductivityReport) error {
	p := newPrintPage(clinic, "Relatório de produtividade", rep.Range, rep.GeradoEm, ProductivityTables(rep))
	p.Statuses = rep.GraficoStatus
	return r.render(w, services.KindProdutividade, p)
}

// Render dispatches on the concrete report type.
func (r *Renderer) Render(w io.Writer, clinic string, rep services.Report) error {
	switch v := rep.(type) {
	case services.FinancialReport:
		return r.RenderFinancial(w, clinic, v)
	case services.ProductivityReport:
		return r.RenderProductivity(w, clinic, v)
	default:
		return fmt.Errorf("%w: %T", services.ErrUnknownReport, rep)
	}
}
