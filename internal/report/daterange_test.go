package report

import (
	"errors"
	"testing"
	"time"
)

func TestResolveMonth(t *testing.T) {
	now := time.Date(2025, time.March, 17, 15, 4, 0, 0, time.UTC)
	tests := []struct {
		name     string
		selector string
		want     DateRange
	}{
		{
			name:     "leap february",
			selector: "2024-02",
			want:     DateRange{CurrentMonth: "2024-02", Year: 2024, Month: 2, StartDate: "2024-02-01", EndDate: "2024-02-29"},
		},
		{
			name:     "non-leap february",
			selector: "2023-02",
			want:     DateRange{CurrentMonth: "2023-02", Year: 2023, Month: 2, StartDate: "2023-02-01", EndDate: "2023-02-28"},
		},
		{
			name:     "december",
			selector: "2024-12",
			want:     DateRange{CurrentMonth: "2024-12", Year: 2024, Month: 12, StartDate: "2024-12-01", EndDate: "2024-12-31"},
		},
		{
			name:     "thirty day month",
			selector: "2024-04",
			want:     DateRange{CurrentMonth: "2024-04", Year: 2024, Month: 4, StartDate: "2024-04-01", EndDate: "2024-04-30"},
		},
		{
			name:     "century non-leap",
			selector: "1900-02",
			want:     DateRange{CurrentMonth: "1900-02", Year: 1900, Month: 2, StartDate: "1900-02-01", EndDate: "1900-02-28"},
		},
		{
			name:     "empty selector uses current month",
			selector: "",
			want:     DateRange{CurrentMonth: "2025-03", Year: 2025, Month: 3, StartDate: "2025-03-01", EndDate: "2025-03-31"},
		},
		{
			name:     "single digit month is padded",
			selector: "2024-6",
			want:     DateRange{CurrentMonth: "2024-06", Year: 2024, Month: 6, StartDate: "2024-06-01", EndDate: "2024-06-30"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveMonth(tt.selector, now)
			if err != nil {
				t.Fatalf("ResolveMonth(%q) error = %v", tt.selector, err)
			}
			if got != tt.want {
				t.Errorf("ResolveMonth(%q) = %+v, want %+v", tt.selector, got, tt.want)
			}
			if got.Start().String() != got.StartDate || got.End().String() != got.EndDate {
				t.Errorf("Start/End = %s/%s, want %s/%s", got.Start(), got.End(), got.StartDate, got.EndDate)
			}
		})
	}
}

func TestResolveMonth_Malformed(t *testing.T) {
	for _, sel := range []string{"2024", "2024-13", "2024-00", "abcd-ef", "2024-06-01", "-06"} {
		t.Run(sel, func(t *testing.T) {
			_, err := ResolveMonth(sel, time.Now())
			if !errors.Is(err, ErrInvalidMonthSelector) {
				t.Fatalf("ResolveMonth(%q) error = %v, want ErrInvalidMonthSelector", sel, err)
			}
		})
	}
}

func TestDateRange_Previous(t *testing.T) {
	r, _ := ResolveMonth("2024-01", time.Now())
	prev := r.Previous()
	if prev.CurrentMonth != "2023-12" || prev.EndDate != "2023-12-31" {
		t.Fatalf("Previous() = %+v", prev)
	}
}
