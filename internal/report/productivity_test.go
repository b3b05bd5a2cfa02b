package report

import (
	"reflect"
	"testing"

	"clinica/internal/core"
)

func appt(id, date string, status core.AppointmentStatus, tipo, medico string, valor *float64) core.Appointment {
	d, err := core.ParseDate(date)
	if err != nil {
		panic(err)
	}
	return core.Appointment{
		ID:         id,
		Data:       d,
		HoraInicio: "09:00",
		HoraFim:    "09:30",
		Status:     status,
		Tipo:       core.StringPtr(tipo),
		MedicoID:   core.StringPtr(medico),
		Valor:      valor,
	}
}

var (
	juneStart = core.NewDate(2024, 6, 1)
	juneEnd   = core.NewDate(2024, 6, 30)
)

func TestComputeProductivityKPIs(t *testing.T) {
	appts := []core.Appointment{
		appt("1", "2024-06-03", core.Atendido, "consulta", "m1", core.FloatPtr(200)),
		appt("2", "2024-06-03", core.Atendido, "consulta", "m1", nil),
		appt("3", "2024-06-04", core.AgendamentoCancelado, "retorno", "m2", core.FloatPtr(150)),
		appt("4", "2024-06-05", core.Faltou, "exame", "", core.FloatPtr(90)),
		appt("5", "2024-06-06", core.Agendado, "", "m2", core.FloatPtr(300)),
		appt("6", "2024-06-07", core.Atendido, "exame", "m2", core.FloatPtr(100)),
	}

	got := ComputeProductivityKPIs(appts, juneStart, juneEnd)
	want := ProductivityKPIs{
		Total:            6,
		Atendidos:        3,
		Cancelamentos:    1,
		Faltas:           1,
		TaxaConclusao:    50,
		TaxaCancelamento: float64(1) / 6 * 100,
		TaxaFalta:        float64(1) / 6 * 100,
		Receita:          300,
		MediaDiaria:      6.0 / 30,
	}
	if got != want {
		t.Fatalf("ComputeProductivityKPIs =\n%+v\nwant\n%+v", got, want)
	}
}

func TestComputeProductivityKPIs_Empty(t *testing.T) {
	got := ComputeProductivityKPIs(nil, juneStart, juneEnd)
	if got != (ProductivityKPIs{}) {
		t.Fatalf("empty input = %+v, want zero", got)
	}
	if got.TaxaConclusao != 0 || got.TaxaCancelamento != 0 || got.TaxaFalta != 0 {
		t.Fatal("rates must be 0 on empty input")
	}
}

func TestComputeProductivityKPIs_DegenerateRange(t *testing.T) {
	appts := []core.Appointment{appt("1", "2024-06-03", core.Atendido, "", "", nil)}
	got := ComputeProductivityKPIs(appts, juneEnd, juneStart)
	if got.MediaDiaria != 1 {
		t.Fatalf("MediaDiaria = %v, want 1 (minimum one day)", got.MediaDiaria)
	}
}

func TestByProfessional(t *testing.T) {
	appts := []core.Appointment{
		appt("1", "2024-06-03", core.Atendido, "consulta", "m1", core.FloatPtr(200)),
		appt("2", "2024-06-03", core.AgendamentoCancelado, "consulta", "m2", core.FloatPtr(200)),
		appt("3", "2024-06-04", core.Atendido, "retorno", "m2", core.FloatPtr(80)),
		appt("4", "2024-06-05", core.Faltou, "exame", "m2", nil),
		appt("5", "2024-06-06", core.Agendado, "", "", nil),
		appt("6", "2024-06-06", core.Atendido, "", "m9", core.FloatPtr(50)),
	}
	names := map[string]string{"m1": "Dra. Ana", "m2": "Dr. Bruno"}

	got := ByProfessional(appts, names)
	want := []ProfessionalRow{
		{MedicoID: "m2", Nome: "Dr. Bruno", Total: 3, Atendidos: 1, Cancelamentos: 1, Faltas: 1, Receita: 80},
		{MedicoID: "m1", Nome: "Dra. Ana", Total: 1, Atendidos: 1, Receita: 200},
		{MedicoID: Desconhecido, Nome: ProfessionalNotIdentified, Total: 1},
		{MedicoID: "m9", Nome: ProfessionalNotIdentified, Total: 1, Atendidos: 1, Receita: 50},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ByProfessional =\n%+v\nwant\n%+v", got, want)
	}
}

func TestProductivityAggregators_LiteralSentinelMergesWithMissing(t *testing.T) {
	appts := []core.Appointment{
		appt("1", "2024-06-03", core.Atendido, "", "", core.FloatPtr(100)),
		appt("2", "2024-06-04", core.Faltou, SemTipo, Desconhecido, nil),
	}
	names := map[string]string{Desconhecido: "Nome indevido"}

	profs := ByProfessional(appts, names)
	if len(profs) != 1 || profs[0].MedicoID != Desconhecido || profs[0].Nome != ProfessionalNotIdentified || profs[0].Total != 2 {
		t.Errorf("ByProfessional = %+v", profs)
	}
	types := ByAppointmentType(appts)
	if len(types) != 1 || types[0].Tipo != SemTipo || types[0].Label != "Sem tipo" || types[0].Total != 2 {
		t.Errorf("ByAppointmentType = %+v", types)
	}
}

func TestByAppointmentType(t *testing.T) {
	appts := []core.Appointment{
		appt("1", "2024-06-03", core.Atendido, "retorno", "m1", nil),
		appt("2", "2024-06-03", core.Atendido, "consulta", "m1", nil),
		appt("3", "2024-06-04", core.Faltou, "consulta", "m1", nil),
		appt("4", "2024-06-04", core.AgendamentoCancelado, "", "m1", nil),
		appt("5", "2024-06-05", core.Atendido, "laser", "m1", nil),
	}

	got := ByAppointmentType(appts)
	want := []AppointmentTypeRow{
		{Tipo: "consulta", Label: "Consulta", Total: 2, Atendidos: 1, Faltas: 1},
		{Tipo: "retorno", Label: "Retorno", Total: 1, Atendidos: 1},
		{Tipo: SemTipo, Label: "Sem tipo", Total: 1, Cancelamentos: 1},
		{Tipo: "laser", Label: "laser", Total: 1, Atendidos: 1},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ByAppointmentType =\n%+v\nwant\n%+v", got, want)
	}
	for i := 1; i < len(got); i++ {
		if got[i].Total > got[i-1].Total {
			t.Fatalf("rows not sorted at %d", i)
		}
	}
}

func TestByWeekday_MondayBeforeThursday(t *testing.T) {
	appts := []core.Appointment{
		appt("1", "2024-06-13", core.Atendido, "", "", nil), // Thursday
		appt("2", "2024-06-10", core.Agendado, "", "", nil), // Monday
	}
	got := ByWeekday(appts, juneStart, juneEnd)
	if len(got) != 2 {
		t.Fatalf("expected 2 rows, got %+v", got)
	}
	if got[0].Label != "Segunda" || got[1].Label != "Quinta" {
		t.Fatalf("order = %s, %s; want Segunda, Quinta", got[0].Label, got[1].Label)
	}
}

func TestByWeekday_SundayLastAndAverages(t *testing.T) {
	// June 2024 has five Saturdays and five Sundays, four of every other weekday.
	appts := []core.Appointment{
		appt("1", "2024-06-02", core.Atendido, "", "", nil), // Sunday
		appt("2", "2024-06-09", core.Faltou, "", "", nil),   // Sunday
		appt("3", "2024-06-01", core.Atendido, "", "", nil), // Saturday
		appt("4", "2024-06-04", core.Atendido, "", "", nil), // Tuesday
		appt("5", "2024-06-11", core.Atendido, "", "", nil), // Tuesday
		appt("6", "2024-06-18", core.AgendamentoCancelado, "", "", nil),
	}
	got := ByWeekday(appts, juneStart, juneEnd)
	want := []WeekdayRow{
		{DiaSemana: 2, Label: "Terça", Total: 3, Atendidos: 2, MediaDiaria: 3.0 / 4},
		{DiaSemana: 6, Label: "Sábado", Total: 1, Atendidos: 1, MediaDiaria: 1.0 / 5},
		{DiaSemana: 0, Label: "Domingo", Total: 2, Atendidos: 1, MediaDiaria: 2.0 / 5},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ByWeekday =\n%+v\nwant\n%+v", got, want)
	}
}

func TestByWeekday_OutsideWindowHasNoAverage(t *testing.T) {
	start := core.NewDate(2024, 6, 10) // Monday
	end := core.NewDate(2024, 6, 11)   // Tuesday
	// Friday, outside the window
	appts := []core.Appointment{appt("1", "2024-06-14", core.Atendido, "", "", nil)}
	got := ByWeekday(appts, start, end)
	if len(got) != 1 || got[0].MediaDiaria != 0 {
		t.Fatalf("ByWeekday = %+v, want one row with zero average", got)
	}
}

func TestProductivityAggregators_EmptyAndIdempotent(t *testing.T) {
	if got := ByProfessional(nil, nil); got == nil || len(got) != 0 {
		t.Fatalf("ByProfessional(nil) = %#v", got)
	}
	if got := ByAppointmentType(nil); got == nil || len(got) != 0 {
		t.Fatalf("ByAppointmentType(nil) = %#v", got)
	}
	if got := ByWeekday(nil, juneStart, juneEnd); got == nil || len(got) != 0 {
		t.Fatalf("ByWeekday(nil) = %#v", got)
	}

	appts := []core.Appointment{
		appt("1", "2024-06-03", core.Atendido, "consulta", "m1", core.FloatPtr(10)),
		appt("2", "2024-06-09", core.Faltou, "retorno", "m2", nil),
	}
	names := map[string]string{"m1": "A"}
	if !reflect.DeepEqual(ByProfessional(appts, names), ByProfessional(appts, names)) {
		t.Fatal("ByProfessional not idempotent")
	}
	if !reflect.DeepEqual(ByWeekday(appts, juneStart, juneEnd), ByWeekday(appts, juneStart, juneEnd)) {
		t.Fatal("ByWeekday not idempotent")
	}
}
