// Package report computes the monthly financial and productivity reports
// of a clinic from records already loaded for the reporting window.
package report

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"clinica/internal/core"
)

// ErrInvalidMonthSelector is returned for selectors that are not YYYY-MM.
var ErrInvalidMonthSelector = errors.New("invalid month selector")

// DateRange is the reporting window of one calendar month.
type DateRange struct {
	CurrentMonth string `json:"currentMonth"` // YYYY-MM
	Year         int    `json:"year"`
	Month        int    `json:"month"`
	StartDate    string `json:"startDate"` // YYYY-MM-DD, first day
	EndDate      string `json:"endDate"`   // YYYY-MM-DD, last day
}

// ResolveMonth turns a YYYY-MM selector into the month's first and last
// day. An empty selector means the month of now.
func ResolveMonth(selector string, now time.Time) (DateRange, error) {
	currentMonth := strings.TrimSpace(selector)
	if currentMonth == "" {
		currentMonth = fmt.Sprintf("%d-%02d", now.Year(), int(now.Month()))
	}

	parts := strings.Split(currentMonth, "-")
	if len(parts) != 2 {
		return DateRange{}, fmt.Errorf("%w: %q", ErrInvalidMonthSelector, selector)
	}
	year, err := strconv.Atoi(parts[0])
	if err != nil || year < 1 {
		return DateRange{}, fmt.Errorf("%w: %q", ErrInvalidMonthSelector, selector)
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil || month < 1 || month > 12 {
		return DateRange{}, fmt.Errorf("%w: %q", ErrInvalidMonthSelector, selector)
	}

	// day 0 of the next month is the last day of this one
	last := time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC)

	return DateRange{
		CurrentMonth: fmt.Sprintf("%04d-%02d", year, month),
		Year:         year,
		Month:        month,
		StartDate:    fmt.Sprintf("%04d-%02d-01", year, month),
		EndDate:      fmt.Sprintf("%04d-%02d-%02d", year, month, last.Day()),
	}, nil
}

// Start returns the first day of the window.
func (r DateRange) Start() core.Date {
	return core.NewDate(r.Year, r.Month, 1)
}

// End returns the last day of the window.
func (r DateRange) End() core.Date {
	return core.NewDate(r.Year, r.Month+1, 0)
}

// Previous returns the window of the month before r.
func (r DateRange) Previous() DateRange {
	prev := time.Date(r.Year, time.Month(r.Month)-1, 1, 0, 0, 0, 0, time.UTC)
	out, _ := ResolveMonth(prev.Format("2006-01"), prev)
	return out
}
