package export

import (
	"strconv"

	"clinica/internal/report"
	"clinica/internal/services"
)

// Cell is one table value. Text is what CSV, HTML and Sheets show; Value
// keeps the raw number for spreadsheet cells.
type Cell struct {
	Text  string
	Value any
	Money bool
}

func textCell(s string) Cell     { return Cell{Text: s, Value: s} }
func intCell(n int) Cell         { return Cell{Text: strconv.Itoa(n), Value: n} }
func moneyCell(v float64) Cell   { return Cell{Text: FormatBRL(v), Value: v, Money: true} }
func percentCell(v float64) Cell { return Cell{Text: FormatPercent(v), Value: v} }
func numberCell(v float64) Cell  { return Cell{Text: FormatNumber(v, 1), Value: v} }

// Table is a titled section of a report ready for display.
type Table struct {
	Title  string
	Header []string
	Rows   [][]Cell
}

// Texts returns the display text of every row.
func (t Table) Texts() [][]string {
	out := make([][]string, len(t.Rows))
	for i, row := range t.Rows {
		out[i] = make([]string, len(row))
		for j, c := range row {
			out[i][j] = c.Text
		}
	}
	return out
}

// Tables renders any built report.
func Tables(r services.Report) []Table {
	switch rep := r.(type) {
	case services.FinancialReport:
		return FinancialTables(rep)
	case services.ProductivityReport:
		return ProductivityTables(rep)
	default:
		return nil
	}
}

func FinancialTables(rep services.FinancialReport) []Table {
	summary := Table{
		Title:  "Resumo",
		Header: []string{"Indicador", "Valor"},
		Rows: [][]Cell{
			{textCell("Receitas"), moneyCell(rep.KPIs.TotalReceitas)},
			{textCell("Despesas"), moneyCell(rep.KPIs.TotalDespesas)},
			{textCell("Saldo"), moneyCell(rep.KPIs.Saldo)},
			{textCell("Transações no período"), intCell(rep.TotalRegistros)},
		},
	}

	byCategory := Table{
		Title:  "Por categoria",
		Header: []string{"Categoria", "Receitas", "Despesas", "Saldo"},
	}
	for _, r := range rep.PorCategoria {
		byCategory.Rows = append(byCategory.Rows, []Cell{
			textCell(r.Label), moneyCell(r.Receitas), moneyCell(r.Despesas), moneyCell(r.Saldo),
		})
	}

	byMethod := Table{
		Title:  "Por forma de pagamento",
		Header: []string{"Forma de pagamento", "Quantidade", "Total"},
	}
	for _, r := range rep.PorFormaPagamento {
		byMethod.Rows = append(byMethod.Rows, []Cell{textCell(r.Label), intCell(r.Qtd), moneyCell(r.Total)})
	}

	return []Table{summary, byCategory, byMethod}
}

func ProductivityTables(rep services.ProductivityReport) []Table {
	k := rep.KPIs
	summary := Table{
		Title:  "Resumo",
		Header: []string{"Indicador", "Valor"},
		Rows: [][]Cell{
			{textCell("Agendamentos"), intCell(k.Total)},
			{textCell("Atendidos"), intCell(k.Atendidos)},
			{textCell("Cancelamentos"), intCell(k.Cancelamentos)},
			{textCell("Faltas"), intCell(k.Faltas)},
			{textCell("Taxa de conclusão"), percentCell(k.TaxaConclusao)},
			{textCell("Taxa de cancelamento"), percentCell(k.TaxaCancelamento)},
			{textCell("Taxa de faltas"), percentCell(k.TaxaFalta)},
			{textCell("Receita"), moneyCell(k.Receita)},
			{textCell("Média diária"), numberCell(k.MediaDiaria)},
		},
	}

	byProfessional := Table{
		Title:  "Por profissional",
		Header: []string{"Profissional", "Total", "Atendidos", "Cancelamentos", "Faltas", "Receita"},
	}
	for _, r := range rep.PorProfissional {
		byProfessional.Rows = append(byProfessional.Rows, []Cell{
			textCell(r.Nome), intCell(r.Total), intCell(r.Atendidos),
			intCell(r.Cancelamentos), intCell(r.Faltas), moneyCell(r.Receita),
		})
	}

	byType := Table{
		Title:  "Por tipo de atendimento",
		Header: []string{"Tipo", "Total", "Atendidos", "Cancelamentos", "Faltas"},
	}
	for _, r := range rep.PorTipo {
		byType.Rows = append(byType.Rows, []Cell{
			textCell(r.Label), intCell(r.Total), intCell(r.Atendidos), intCell(r.Cancelamentos), intCell(r.Faltas),
		})
	}

	byWeekday := Table{
		Title:  "Por dia da semana",
		Header: []string{"Dia", "Total", "Atendidos", "Média por dia"},
	}
	for _, r := range rep.PorDiaSemana {
		byWeekday.Rows = append(byWeekday.Rows, []Cell{
			textCell(r.Label), intCell(r.Total), intCell(r.Atendidos), numberCell(r.MediaDiaria),
		})
	}

	byStatus := Table{
		Title:  "Por status",
		Header: []string{"Status", "Total"},
	}
	for _, p := range rep.GraficoStatus {
		byStatus.Rows = append(byStatus.Rows, []Cell{textCell(p.Label), intCell(p.Total)})
	}

	return []Table{summary, byProfessional, byType, byWeekday, byStatus}
}

// Period describes a report window for headings, e.g. "01/06/2024 a 30/06/2024".
func Period(dr report.DateRange) string {
	return FormatDateBR(dr.Start()) + " a " + FormatDateBR(dr.End())
}
