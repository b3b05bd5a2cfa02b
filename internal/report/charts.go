package report

import (
	"time"

	"clinica/internal/core"
)

// TypeChartPoint is one bar of the appointment type chart.
type TypeChartPoint struct {
	Label string `json:"label"`
	Total int    `json:"total"`
}

// WeekdayChartPoint is one weekday of the weekday chart.
type WeekdayChartPoint struct {
	Label     string `json:"label"`
	Total     int    `json:"total"`
	Atendidos int    `json:"atendidos"`
}

// StatusChartPoint is one slice of the status chart.
type StatusChartPoint struct {
	Status core.AppointmentStatus `json:"status"`
	Label  string                 `json:"label"`
	Total  int                    `json:"total"`
	Color  string                 `json:"color"`
}

// TypeChart is the bar series of appointments per type.
func TypeChart(appts []core.Appointment) []TypeChartPoint {
	byType := ByAppointmentType(appts)
	out := make([]TypeChartPoint, 0, len(byType))
	for _, r := range byType {
		out = append(out, TypeChartPoint{Label: r.Label, Total: r.Total})
	}
	return out
}

// WeekdayChart returns all seven weekdays, Monday first, so the chart axis
// does not change from month to month.
func WeekdayChart(appts []core.Appointment) []WeekdayChartPoint {
	var counts [7]statusCounts
	for _, a := range appts {
		counts[a.Data.Weekday()].add(a)
	}
	out := make([]WeekdayChartPoint, 7)
	for d := time.Sunday; d <= time.Saturday; d++ {
		out[mondayFirst(d)] = WeekdayChartPoint{
			Label:     WeekdayLabel(d),
			Total:     counts[d].total,
			Atendidos: counts[d].atendidos,
		}
	}
	return out
}

// StatusChart returns one point per status that occurs, in workflow order.
func StatusChart(appts []core.Appointment) []StatusChartPoint {
	totals := make(map[core.AppointmentStatus]int, len(core.AppointmentStatuses))
	for _, a := range appts {
		totals[a.Status]++
	}
	out := make([]StatusChartPoint, 0, len(totals))
	for _, s := range core.AppointmentStatuses {
		if totals[s] == 0 {
			continue
		}
		out = append(out, StatusChartPoint{
			Status: s,
			Label:  StatusLabel(s),
			Total:  totals[s],
			Color:  statusColors[s],
		})
	}
	return out
}
