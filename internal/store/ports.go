// Package store declares the read ports the reporting service needs from
// the clinic's relational backend.
package store

import (
	"context"
	"errors"
	"math"

	"clinica/internal/core"
)

// ErrNotFound is returned when a tenant or record does not exist.
var ErrNotFound = errors.New("not found")

const (
	DefaultPageSize = 20
	MaxPageSize     = 100

	// MaxPage keeps Offset within int range for every page size.
	MaxPage = math.MaxInt / MaxPageSize
)

type (
	// TransactionLister returns every transaction of a clinic dated in [start, end].
	TransactionLister interface {
		ListTransactions(ctx context.Context, clinicaID string, start, end core.Date) ([]core.Transaction, error)
	}

	// TransactionPager serves the paginated ledger listing.
	TransactionPager interface {
		PageTransactions(ctx context.Context, clinicaID string, f TransactionFilter) (TransactionPage, error)
	}

	// AppointmentLister returns every appointment of a clinic dated in [start, end].
	AppointmentLister interface {
		ListAppointments(ctx context.Context, clinicaID string, start, end core.Date) ([]core.Appointment, error)
	}

	// ProfessionalDirectory maps professional user ids to display names.
	ProfessionalDirectory interface {
		ProfessionalNames(ctx context.Context, clinicaID string) (map[string]string, error)
	}

	// ClinicLister enumerates the tenants.
	ClinicLister interface {
		ListClinics(ctx context.Context) ([]string, error)
	}

	// ClinicDirectory resolves a clinic's display name. Unknown clinics
	// return ErrNotFound.
	ClinicDirectory interface {
		ClinicName(ctx context.Context, clinicaID string) (string, error)
	}

	// Reader bundles every port a backend provides.
	Reader interface {
		TransactionLister
		TransactionPager
		AppointmentLister
		ProfessionalDirectory
		ClinicLister
		ClinicDirectory
	}
)

// TransactionFilter narrows the ledger listing. Zero values mean "any".
type TransactionFilter struct {
	Start     core.Date
	End       core.Date
	Tipo      core.TransactionType
	Status    core.TransactionStatus
	Categoria string
	Page      int // 1-based
	PageSize  int
}

// Normalize clamps paging to sane bounds.
func (f TransactionFilter) Normalize() TransactionFilter {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Page > MaxPage {
		f.Page = MaxPage
	}
	if f.PageSize < 1 {
		f.PageSize = DefaultPageSize
	}
	if f.PageSize > MaxPageSize {
		f.PageSize = MaxPageSize
	}
	return f
}

// Offset is the number of rows skipped before the current page.
func (f TransactionFilter) Offset() int {
	return (f.Page - 1) * f.PageSize
}

// Match reports whether t passes the filter's non-paging criteria.
func (f TransactionFilter) Match(t core.Transaction) bool {
	if !f.Start.IsZero() && t.Data.Before(f.Start.Time) {
		return false
	}
	if !f.End.IsZero() && t.Data.After(f.End.Time) {
		return false
	}
	if f.Tipo != "" && t.Tipo != f.Tipo {
		return false
	}
	if f.Status != "" && t.Status != f.Status {
		return false
	}
	if f.Categoria != "" && (t.Categoria == nil || *t.Categoria != f.Categoria) {
		return false
	}
	return true
}

// TransactionPage is one page of the ledger.
type TransactionPage struct {
	Items      []core.Transaction
	Page       int
	PageSize   int
	TotalItems int
}

// TotalPages is the number of pages for TotalItems, at least 1.
func (p TransactionPage) TotalPages() int {
	if p.PageSize <= 0 || p.TotalItems == 0 {
		return 1
	}
	return (p.TotalItems + p.PageSize - 1) / p.PageSize
}
