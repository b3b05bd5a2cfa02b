// Package http serves the clinic reports over HTTP.
//
// This file implements the parsing of query parameters shared by the
// report and ledger handlers.

package http

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"clinica/internal/core"
	"clinica/internal/report"
	"clinica/internal/store"
)

// ParseMonth returns the mes query parameter, cleaned. Empty means the
// current month.
func ParseMonth(query url.Values) string {
	return sanitizeInput(query.Get("mes"))
}

// ParseLedgerFilter builds the ledger filter from the query string. The
// month defaults to the current one; unparseable page numbers fall back to
// the defaults.
func ParseLedgerFilter(query url.Values, now time.Time) (store.TransactionFilter, error) {
	dr, err := report.ResolveMonth(ParseMonth(query), now)
	if err != nil {
		return store.TransactionFilter{}, err
	}

	f := store.TransactionFilter{
		Start:     dr.Start(),
		End:       dr.End(),
		Categoria: sanitizeInput(query.Get("categoria")),
		Page:      parseIntParam(query, "page"),
		PageSize:  parseIntParam(query, "page_size"),
	}

	if v := sanitizeInput(query.Get("tipo")); v != "" {
		f.Tipo = core.TransactionType(v)
		if !f.Tipo.Valid() {
			return store.TransactionFilter{}, fmt.Errorf("%w: %q", core.ErrInvalidType, v)
		}
	}
	if v := sanitizeInput(query.Get("status")); v != "" {
		f.Status = core.TransactionStatus(v)
		if !f.Status.Valid() {
			return store.TransactionFilter{}, fmt.Errorf("%w: %q", core.ErrInvalidStatus, v)
		}
	}

	return f.Normalize(), nil
}

func parseIntParam(query url.Values, key string) int {
	if v := strings.TrimSpace(query.Get(key)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return 0
}
