package report

import "clinica/internal/core"

// FinancialKPIs summarises a month of transactions. Cancelled
// transactions never contribute.
type FinancialKPIs struct {
	TotalReceitas float64 `json:"totalReceitas"`
	TotalDespesas float64 `json:"totalDespesas"`
	Saldo         float64 `json:"saldo"`
}

// CategoryRow is one category bucket of the financial breakdown.
type CategoryRow struct {
	Categoria string  `json:"categoria"`
	Label     string  `json:"label"`
	Receitas  float64 `json:"receitas"`
	Despesas  float64 `json:"despesas"`
	Saldo     float64 `json:"saldo"`
}

// Volume is the ordering weight of the row.
func (r CategoryRow) Volume() float64 { return r.Receitas + r.Despesas }

// PaymentMethodRow is one payment method bucket.
type PaymentMethodRow struct {
	FormaPagamento string  `json:"formaPagamento"`
	Label          string  `json:"label"`
	Qtd            int     `json:"qtd"`
	Total          float64 `json:"total"`
}

// ComputeFinancialKPIs totals receitas and despesas and their balance.
func ComputeFinancialKPIs(txs []core.Transaction) FinancialKPIs {
	var k FinancialKPIs
	for _, t := range txs {
		if t.Status == core.Cancelado {
			continue
		}
		switch t.Tipo {
		case core.Receita:
			k.TotalReceitas += t.Valor
		case core.Despesa:
			k.TotalDespesas += t.Valor
		}
	}
	k.Saldo = k.TotalReceitas - k.TotalDespesas
	return k
}

type categoryAcc struct {
	receitas, despesas float64
}

// ByCategory groups non-cancelled transactions by category, largest
// receitas+despesas first.
func ByCategory(txs []core.Transaction) []CategoryRow {
	b := newBuckets[optionalKey, categoryAcc]()
	for _, t := range txs {
		if t.Status == core.Cancelado {
			continue
		}
		acc := b.get(keyOf(t.Categoria, SemCategoria))
		switch t.Tipo {
		case core.Receita:
			acc.receitas += t.Valor
		case core.Despesa:
			acc.despesas += t.Valor
		}
	}

	out := rows(b, func(k optionalKey, acc *categoryAcc) CategoryRow {
		return CategoryRow{
			Categoria: k.orSentinel(SemCategoria),
			Label:     lookupLabel(categoryLabels, k, semCategoriaL),
			Receitas:  acc.receitas,
			Despesas:  acc.despesas,
			Saldo:     acc.receitas - acc.despesas,
		}
	})
	sortDesc(out, CategoryRow.Volume)
	return out
}

type paymentAcc struct {
	qtd   int
	total float64
}

// ByPaymentMethod groups non-cancelled transactions by payment method,
// largest total first.
func ByPaymentMethod(txs []core.Transaction) []PaymentMethodRow {
	b := newBuckets[optionalKey, paymentAcc]()
	for _, t := range txs {
		if t.Status == core.Cancelado {
			continue
		}
		acc := b.get(keyOf(t.FormaPagamento, NaoInformado))
		acc.qtd++
		acc.total += t.Valor
	}

	out := rows(b, func(k optionalKey, acc *paymentAcc) PaymentMethodRow {
		return PaymentMethodRow{
			FormaPagamento: k.orSentinel(NaoInformado),
			Label:          lookupLabel(paymentMethodLabels, k, naoInformadoL),
			Qtd:            acc.qtd,
			Total:          acc.total,
		}
	})
	sortDesc(out, func(r PaymentMethodRow) float64 { return r.Total })
	return out
}
