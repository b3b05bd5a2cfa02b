// Package export renders built reports as display tables and writes them
// as CSV, XLSX or a printable HTML page.
package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"clinica/internal/core"
	"clinica/internal/report"
)

var monthNames = [12]string{
	"Janeiro", "Fevereiro", "Março", "Abril", "Maio", "Junho",
	"Julho", "Agosto", "Setembro", "Outubro", "Novembro", "Dezembro",
}

// FormatBRL renders v as Brazilian currency, e.g. R$ 1.234,56 or
// -R$ 10,00. Amounts are rounded half away from zero to cents.
func FormatBRL(v float64) string {
	d := decimal.NewFromFloat(v).Round(2)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	return sign + "R$ " + groupDecimal(d.StringFixed(2))
}

// FormatPercent renders a 0..100 rate with one decimal, e.g. 66,7%.
func FormatPercent(v float64) string {
	return FormatNumber(v, 1) + "%"
}

// FormatNumber renders v with the given decimal places in pt-BR notation.
func FormatNumber(v float64, places int32) string {
	d := decimal.NewFromFloat(v).Round(places)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	return sign + groupDecimal(d.StringFixed(places))
}

// groupDecimal turns "1234567.89" into "1.234.567,89".
func groupDecimal(s string) string {
	intPart, frac, hasFrac := strings.Cut(s, ".")
	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	if hasFrac {
		b.WriteByte(',')
		b.WriteString(frac)
	}
	return b.String()
}

// FormatDateBR renders d as dd/mm/yyyy.
func FormatDateBR(d core.Date) string {
	return d.Format("02/01/2006")
}

// FormatMonthBR renders a YYYY-MM selector as "Junho de 2024". Malformed
// input is returned unchanged.
func FormatMonthBR(month string) string {
	if month == "" {
		return month
	}
	dr, err := report.ResolveMonth(month, time.Time{})
	if err != nil {
		return month
	}
	return fmt.Sprintf("%s de %d", monthNames[dr.Month-1], dr.Year)
}
