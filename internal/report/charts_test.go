package report

import (
	"reflect"
	"testing"

	"clinica/internal/core"
)

func TestTypeChart(t *testing.T) {
	appts := []core.Appointment{
		appt("1", "2024-06-03", core.Atendido, "retorno", "", nil),
		appt("2", "2024-06-03", core.Atendido, "consulta", "", nil),
		appt("3", "2024-06-04", core.Faltou, "consulta", "", nil),
	}
	got := TypeChart(appts)
	want := []TypeChartPoint{{Label: "Consulta", Total: 2}, {Label: "Retorno", Total: 1}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("TypeChart = %+v, want %+v", got, want)
	}
}

func TestWeekdayChart(t *testing.T) {
	appts := []core.Appointment{
		appt("1", "2024-06-09", core.Atendido, "", "", nil), // Sunday
		appt("2", "2024-06-10", core.Atendido, "", "", nil), // Monday
		appt("3", "2024-06-10", core.Faltou, "", "", nil),
	}
	got := WeekdayChart(appts)
	if len(got) != 7 {
		t.Fatalf("expected 7 points, got %d", len(got))
	}
	if got[0] != (WeekdayChartPoint{Label: "Segunda", Total: 2, Atendidos: 1}) {
		t.Fatalf("first point = %+v", got[0])
	}
	if got[6] != (WeekdayChartPoint{Label: "Domingo", Total: 1, Atendidos: 1}) {
		t.Fatalf("last point = %+v", got[6])
	}
	if got[3].Total != 0 || got[3].Label != "Quinta" {
		t.Fatalf("thursday point = %+v", got[3])
	}
}

func TestStatusChart(t *testing.T) {
	appts := []core.Appointment{
		appt("1", "2024-06-03", core.Faltou, "", "", nil),
		appt("2", "2024-06-03", core.Atendido, "", "", nil),
		appt("3", "2024-06-04", core.Atendido, "", "", nil),
		appt("4", "2024-06-04", core.Agendado, "", "", nil),
	}
	got := StatusChart(appts)
	want := []StatusChartPoint{
		{Status: core.Agendado, Label: "Agendado", Total: 1, Color: "#3b82f6"},
		{Status: core.Atendido, Label: "Atendido", Total: 2, Color: "#10b981"},
		{Status: core.Faltou, Label: "Faltou", Total: 1, Color: "#6b7280"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("StatusChart = %+v, want %+v", got, want)
	}
	if got := StatusChart(nil); len(got) != 0 {
		t.Fatalf("StatusChart(nil) = %+v", got)
	}
}

func TestLabels(t *testing.T) {
	if CategoryLabel(SemCategoria) != "Sem categoria" || CategoryLabel("aluguel") != "Aluguel" || CategoryLabel("x") != "x" {
		t.Fatal("CategoryLabel mismatch")
	}
	if PaymentMethodLabel(NaoInformado) != "Não informado" || PaymentMethodLabel("pix") != "PIX" {
		t.Fatal("PaymentMethodLabel mismatch")
	}
	if StatusLabel(core.EmAtendimento) != "Em atendimento" {
		t.Fatal("StatusLabel mismatch")
	}
}
