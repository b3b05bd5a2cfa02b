package report

import (
	"sort"
	"time"

	"clinica/internal/core"
)

// ProductivityKPIs summarises a month of appointments.
type ProductivityKPIs struct {
	Total            int     `json:"total"`
	Atendidos        int     `json:"atendidos"`
	Cancelamentos    int     `json:"cancelamentos"`
	Faltas           int     `json:"faltas"`
	TaxaConclusao    float64 `json:"taxaConclusao"`
	TaxaCancelamento float64 `json:"taxaCancelamento"`
	TaxaFalta        float64 `json:"taxaFalta"`
	Receita          float64 `json:"receita"`
	MediaDiaria      float64 `json:"mediaDiaria"`
}

// ProfessionalRow is one professional bucket of the productivity report.
type ProfessionalRow struct {
	MedicoID      string  `json:"medicoId"`
	Nome          string  `json:"nome"`
	Total         int     `json:"total"`
	Atendidos     int     `json:"atendidos"`
	Cancelamentos int     `json:"cancelamentos"`
	Faltas        int     `json:"faltas"`
	Receita       float64 `json:"receita"`
}

// AppointmentTypeRow is one appointment type bucket.
type AppointmentTypeRow struct {
	Tipo          string `json:"tipo"`
	Label         string `json:"label"`
	Total         int    `json:"total"`
	Atendidos     int    `json:"atendidos"`
	Cancelamentos int    `json:"cancelamentos"`
	Faltas        int    `json:"faltas"`
}

// WeekdayRow tallies one weekday of the window.
type WeekdayRow struct {
	DiaSemana   int     `json:"diaSemana"` // 0=Sunday..6=Saturday
	Label       string  `json:"label"`
	Total       int     `json:"total"`
	Atendidos   int     `json:"atendidos"`
	MediaDiaria float64 `json:"mediaDiaria"`
}

// statusCounts is the shared accumulator of the per-dimension tallies.
type statusCounts struct {
	total, atendidos, cancelamentos, faltas int
	receita                                 float64
}

func (c *statusCounts) add(a core.Appointment) {
	c.total++
	switch a.Status {
	case core.Atendido:
		c.atendidos++
		if a.Valor != nil {
			c.receita += *a.Valor
		}
	case core.AgendamentoCancelado:
		c.cancelamentos++
	case core.Faltou:
		c.faltas++
	}
}

// daysInclusive counts the days of [start, end], never less than one.
func daysInclusive(start, end core.Date) int {
	n := start.DaysUntil(end) + 1
	if n < 1 {
		return 1
	}
	return n
}

// ComputeProductivityKPIs counts appointments by outcome. Rates are
// percentages of the total and MediaDiaria spreads the total over every
// day of [start, end].
func ComputeProductivityKPIs(appts []core.Appointment, start, end core.Date) ProductivityKPIs {
	var c statusCounts
	for _, a := range appts {
		c.add(a)
	}

	k := ProductivityKPIs{
		Total:            c.total,
		Atendidos:        c.atendidos,
		Cancelamentos:    c.cancelamentos,
		Faltas:           c.faltas,
		TaxaConclusao:    rate(c.atendidos, c.total),
		TaxaCancelamento: rate(c.cancelamentos, c.total),
		TaxaFalta:        rate(c.faltas, c.total),
		Receita:          c.receita,
	}
	if c.total > 0 {
		k.MediaDiaria = float64(c.total) / float64(daysInclusive(start, end))
	}
	return k
}

// ByProfessional groups appointments by the professional of the patient.
// names maps user ids to display names.
func ByProfessional(appts []core.Appointment, names map[string]string) []ProfessionalRow {
	b := newBuckets[optionalKey, statusCounts]()
	for _, a := range appts {
		b.get(keyOf(a.MedicoID, Desconhecido)).add(a)
	}

	out := rows(b, func(k optionalKey, c *statusCounts) ProfessionalRow {
		nome, ok := names[k.value]
		if !k.present || !ok {
			nome = ProfessionalNotIdentified
		}
		return ProfessionalRow{
			MedicoID:      k.orSentinel(Desconhecido),
			Nome:          nome,
			Total:         c.total,
			Atendidos:     c.atendidos,
			Cancelamentos: c.cancelamentos,
			Faltas:        c.faltas,
			Receita:       c.receita,
		}
	})
	sortDesc(out, func(r ProfessionalRow) float64 { return float64(r.Total) })
	return out
}

// ByAppointmentType groups appointments by type, largest total first.
func ByAppointmentType(appts []core.Appointment) []AppointmentTypeRow {
	b := newBuckets[optionalKey, statusCounts]()
	for _, a := range appts {
		b.get(keyOf(a.Tipo, SemTipo)).add(a)
	}

	out := rows(b, func(k optionalKey, c *statusCounts) AppointmentTypeRow {
		return AppointmentTypeRow{
			Tipo:          k.orSentinel(SemTipo),
			Label:         lookupLabel(appointmentTypeLabels, k, semTipoL),
			Total:         c.total,
			Atendidos:     c.atendidos,
			Cancelamentos: c.cancelamentos,
			Faltas:        c.faltas,
		}
	})
	sortDesc(out, func(r AppointmentTypeRow) float64 { return float64(r.Total) })
	return out
}

// weekdayOccurrences counts how many times each weekday falls in [start, end].
func weekdayOccurrences(start, end core.Date) [7]int {
	var occ [7]int
	for d := start; !d.After(end.Time); d = d.AddDays(1) {
		occ[d.Weekday()]++
	}
	return occ
}

// ByWeekday tallies appointments per weekday of their calendar date and
// averages them over the weekday's occurrences in the window. Empty
// weekdays are dropped; rows run Monday to Sunday.
func ByWeekday(appts []core.Appointment, start, end core.Date) []WeekdayRow {
	var counts [7]statusCounts
	for _, a := range appts {
		counts[a.Data.Weekday()].add(a)
	}
	occ := weekdayOccurrences(start, end)

	out := make([]WeekdayRow, 0, 7)
	for d := time.Sunday; d <= time.Saturday; d++ {
		c := counts[d]
		if c.total == 0 {
			continue
		}
		row := WeekdayRow{
			DiaSemana: int(d),
			Label:     WeekdayLabel(d),
			Total:     c.total,
			Atendidos: c.atendidos,
		}
		if occ[d] > 0 {
			row.MediaDiaria = float64(c.total) / float64(occ[d])
		}
		out = append(out, row)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return mondayFirst(time.Weekday(out[i].DiaSemana)) < mondayFirst(time.Weekday(out[j].DiaSemana))
	})
	return out
}
