package export

import (
	"testing"

	"clinica/internal/core"
)

func TestFormatBRL(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "R$ 0,00"},
		{5, "R$ 5,00"},
		{99.9, "R$ 99,90"},
		{1234.56, "R$ 1.234,56"},
		{1000000, "R$ 1.000.000,00"},
		{-200, "-R$ 200,00"},
		{1.005, "R$ 1,01"},
		{-0.001, "R$ 0,00"},
		{123456.789, "R$ 123.456,79"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := FormatBRL(tt.in); got != tt.want {
				t.Errorf("FormatBRL(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestFormatPercentAndNumber(t *testing.T) {
	if got := FormatPercent(200.0 / 3); got != "66,7%" {
		t.Errorf("FormatPercent = %q", got)
	}
	if got := FormatPercent(0); got != "0,0%" {
		t.Errorf("FormatPercent(0) = %q", got)
	}
	if got := FormatNumber(1234.5, 1); got != "1.234,5" {
		t.Errorf("FormatNumber = %q", got)
	}
}

func TestFormatDates(t *testing.T) {
	if got := FormatDateBR(core.NewDate(2024, 2, 29)); got != "29/02/2024" {
		t.Errorf("FormatDateBR = %q", got)
	}
	tests := map[string]string{
		"2024-06": "Junho de 2024",
		"2023-12": "Dezembro de 2023",
		"":        "",
		"2024-13": "2024-13",
		"junho":   "junho",
	}
	for in, want := range tests {
		if got := FormatMonthBR(in); got != want {
			t.Errorf("FormatMonthBR(%q) = %q, want %q", in, got, want)
		}
	}
}
