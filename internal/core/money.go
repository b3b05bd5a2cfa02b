// Package core provides the clinic domain types and amount parsing.
//
// This file contains the parser used when amounts arrive as text (seed
// files, query strings): both 1234.56 and the Brazilian 1.234,56 forms.
package core

import (
	"strconv"
	"strings"
	"unicode"
)

// ParseValor converts a decimal string to a float amount.
//
// A comma is the decimal separator when present, in which case dots are
// treated as thousands separators. Without a comma, a single dot is the
// decimal separator. Negative values are rejected; zero is allowed.
//
// Examples:
//
//	ParseValor("150")       -> 150, nil
//	ParseValor("150.5")     -> 150.5, nil
//	ParseValor("1.234,56")  -> 1234.56, nil
//	ParseValor("R$ 99,90")  -> 99.9, nil
func ParseValor(s string) (float64, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "R$")
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return 0, ErrInvalidAmount
	}

	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	}
	if strings.Count(s, ".") > 1 {
		return 0, ErrInvalidAmount
	}
	for _, r := range s {
		if !unicode.IsDigit(r) && r != '.' {
			return 0, ErrInvalidAmount
		}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	return v, nil
}
