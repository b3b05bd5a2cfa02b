package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"clinica/internal/report"
	"clinica/internal/services"
)

func sampleFinancial() services.FinancialReport {
	dr, _ := report.ResolveMonth("2024-06", time.Time{})
	return services.FinancialReport{
		Range: dr,
		KPIs:  report.FinancialKPIs{TotalReceitas: 1300, TotalDespesas: 100, Saldo: 1200},
		PorCategoria: []report.CategoryRow{
			{Categoria: "consulta", Label: "Consulta", Receitas: 1300, Saldo: 1300},
			{Categoria: "aluguel", Label: "Aluguel; sala \"A\"", Despesas: 100, Saldo: -100},
		},
		PorFormaPagamento: []report.PaymentMethodRow{{FormaPagamento: "pix", Label: "PIX", Qtd: 2, Total: 1400}},
		TotalRegistros:    3,
		GeradoEm:          time.Date(2024, 6, 20, 10, 30, 0, 0, time.UTC),
	}
}

func sampleProductivity() services.ProductivityReport {
	dr, _ := report.ResolveMonth("2024-06", time.Time{})
	return services.ProductivityReport{
		Range: dr,
		KPIs:  report.ProductivityKPIs{Total: 3, Atendidos: 2, Faltas: 1, TaxaConclusao: 200.0 / 3, Receita: 400, MediaDiaria: 0.1},
		PorProfissional: []report.ProfessionalRow{
			{MedicoID: "m1", Nome: "Dra. Ana", Total: 3, Atendidos: 2, Faltas: 1, Receita: 400},
		},
		PorDiaSemana: []report.WeekdayRow{{DiaSemana: 1, Label: "Segunda", Total: 3, Atendidos: 2, MediaDiaria: 0.75}},
		GraficoStatus: []report.StatusChartPoint{
			{Status: "atendido", Label: "Atendido", Total: 2, Color: "#10b981"},
			{Status: "faltou", Label: "Faltou", Total: 1, Color: "#6b7280"},
		},
		GeradoEm: time.Date(2024, 6, 20, 10, 30, 0, 0, time.UTC),
	}
}

func TestFinancialTables(t *testing.T) {
	tables := FinancialTables(sampleFinancial())
	if len(tables) != 3 {
		t.Fatalf("got %d tables, want 3", len(tables))
	}
	summary := tables[0].Texts()
	if summary[2][0] != "Saldo" || summary[2][1] != "R$ 1.200,00" {
		t.Errorf("saldo row = %v", summary[2])
	}
	if got := tables[1].Texts()[1][3]; got != "-R$ 100,00" {
		t.Errorf("negative saldo = %q", got)
	}
	if len(Tables(sampleFinancial())) != 3 {
		t.Error("Tables should dispatch financial reports")
	}
}

func TestProductivityTables(t *testing.T) {
	tables := ProductivityTables(sampleProductivity())
	if len(tables) != 5 {
		t.Fatalf("got %d tables, want 5", len(tables))
	}
	if got := tables[0].Texts()[4][1]; got != "66,7%" {
		t.Errorf("taxa de conclusão = %q", got)
	}
	if len(tables[2].Rows) != 0 {
		t.Errorf("type table should be empty, got %v", tables[2].Rows)
	}
	if got := tables[4].Texts(); len(got) != 2 || got[0][0] != "Atendido" {
		t.Errorf("status table = %v", got)
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, FinancialTables(sampleFinancial())); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "\ufeffResumo\n") {
		t.Fatalf("missing BOM or title: %q", out[:20])
	}
	if !strings.Contains(out, "Receitas;R$ 1.300,00\n") {
		t.Errorf("missing receitas line in %q", out)
	}
	if !strings.Contains(out, "\n\nPor categoria\n") {
		t.Errorf("tables should be separated by a blank line: %q", out)
	}

	r := csv.NewReader(strings.NewReader(strings.TrimPrefix(out, "\ufeff")))
	r.Comma = ';'
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	found := false
	for _, rec := range records {
		if rec[0] == "Aluguel; sala \"A\"" {
			found = true
		}
	}
	if !found {
		t.Error("quoted label did not round trip")
	}
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteXLSX(&buf, ProductivityTables(sampleProductivity())); err != nil {
		t.Fatalf("WriteXLSX: %v", err)
	}
	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 5 || sheets[0] != "Resumo" || sheets[1] != "Por profissional" {
		t.Fatalf("sheets = %v", sheets)
	}
	if v, _ := f.GetCellValue("Por profissional", "A2"); v != "Dra. Ana" {
		t.Errorf("A2 = %q", v)
	}
	if v, _ := f.GetCellValue("Resumo", "A1"); v != "Indicador" {
		t.Errorf("header = %q", v)
	}
}

func TestSheetName(t *testing.T) {
	tests := map[string]string{
		"Resumo":                "Resumo",
		"a/b:c":                 "a-b-c",
		"   ":                   "Planilha",
		strings.Repeat("x", 40): strings.Repeat("x", 31),
	}
	for in, want := range tests {
		if got := SheetName(in); got != want {
			t.Errorf("SheetName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestRenderer(t *testing.T) {
	r, err := NewRenderer()
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}

	var fin bytes.Buffer
	if err := r.Render(&fin, "Clínica Central", sampleFinancial()); err != nil {
		t.Fatalf("Render financial: %v", err)
	}
	html := fin.String()
	for _, want := range []string{"Clínica Central", "Relatório financeiro", "Junho de 2024", "01/06/2024 a 30/06/2024", "R$ 1.300,00", "Aluguel; sala &#34;A&#34;"} {
		if !strings.Contains(html, want) {
			t.Errorf("financial page missing %q", want)
		}
	}

	var prod bytes.Buffer
	if err := r.Render(&prod, "Clínica Central", sampleProductivity()); err != nil {
		t.Fatalf("Render productivity: %v", err)
	}
	html = prod.String()
	for _, want := range []string{"Relatório de produtividade", "Dra. Ana", "#10b981", "Nenhum registro no período."} {
		if !strings.Contains(html, want) {
			t.Errorf("productivity page missing %q", want)
		}
	}
}
