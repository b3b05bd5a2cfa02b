package store

import (
	"math"
	"testing"

	"clinica/internal/core"
)

func TestTransactionFilter_Normalize(t *testing.T) {
	tests := []struct {
		name         string
		in           TransactionFilter
		wantPage     int
		wantPageSize int
		wantOffset   int
	}{
		{"defaults", TransactionFilter{}, 1, DefaultPageSize, 0},
		{"clamps large page size", TransactionFilter{Page: 2, PageSize: 1000}, 2, MaxPageSize, MaxPageSize},
		{"keeps valid values", TransactionFilter{Page: 3, PageSize: 10}, 3, 10, 20},
		{"clamps huge page", TransactionFilter{Page: math.MaxInt, PageSize: MaxPageSize}, MaxPage, MaxPageSize, (MaxPage - 1) * MaxPageSize},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in.Normalize()
			if got.Page != tt.wantPage || got.PageSize != tt.wantPageSize || got.Offset() != tt.wantOffset {
				t.Errorf("Normalize() = page %d size %d offset %d", got.Page, got.PageSize, got.Offset())
			}
		})
	}
}

func TestTransactionFilter_Match(t *testing.T) {
	tr := core.Transaction{
		ID:        "1",
		Tipo:      core.Receita,
		Status:    core.Pago,
		Data:      core.NewDate(2024, 6, 15),
		Categoria: core.StringPtr("consulta"),
	}
	tests := []struct {
		name string
		f    TransactionFilter
		want bool
	}{
		{"empty filter", TransactionFilter{}, true},
		{"inside range", TransactionFilter{Start: core.NewDate(2024, 6, 1), End: core.NewDate(2024, 6, 30)}, true},
		{"range end inclusive", TransactionFilter{End: core.NewDate(2024, 6, 15)}, true},
		{"before range", TransactionFilter{Start: core.NewDate(2024, 6, 16)}, false},
		{"tipo mismatch", TransactionFilter{Tipo: core.Despesa}, false},
		{"status match", TransactionFilter{Status: core.Pago}, true},
		{"categoria mismatch", TransactionFilter{Categoria: "exame"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.f.Match(tr); got != tt.want {
				t.Errorf("Match() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTransactionPage_TotalPages(t *testing.T) {
	if got := (TransactionPage{PageSize: 20, TotalItems: 41}).TotalPages(); got != 3 {
		t.Fatalf("TotalPages = %d, want 3", got)
	}
	if got := (TransactionPage{PageSize: 20}).TotalPages(); got != 1 {
		t.Fatalf("TotalPages(empty) = %d, want 1", got)
	}
}
