package report

import (
	"time"

	"clinica/internal/core"
)

// Sentinel keys used when a categorical field is absent.
const (
	SemCategoria  = "sem_categoria"
	NaoInformado  = "nao_informado"
	SemTipo       = "sem_tipo"
	Desconhecido  = "desconhecido"
	semCategoriaL = "Sem categoria"
	naoInformadoL = "Não informado"
	semTipoL      = "Sem tipo"

	ProfessionalNotIdentified = "Profissional não identificado"
)

var categoryLabels = map[string]string{
	"consulta":     "Consulta",
	"exame":        "Exame",
	"procedimento": "Procedimento",
	"convenio":     "Repasse de convênio",
	"aluguel":      "Aluguel",
	"salarios":     "Salários",
	"materiais":    "Materiais",
	"equipamentos": "Equipamentos",
	"impostos":     "Impostos",
	"manutencao":   "Manutenção",
	"marketing":    "Marketing",
	"servicos":     "Serviços",
	"outros":       "Outros",
}

var paymentMethodLabels = map[string]string{
	"dinheiro":       "Dinheiro",
	"pix":            "PIX",
	"cartao_credito": "Cartão de Crédito",
	"cartao_debito":  "Cartão de Débito",
	"boleto":         "Boleto",
	"transferencia":  "Transferência",
	"convenio":       "Convênio",
}

var appointmentTypeLabels = map[string]string{
	"consulta":     "Consulta",
	"retorno":      "Retorno",
	"exame":        "Exame",
	"procedimento": "Procedimento",
	"avaliacao":    "Avaliação",
	"teleconsulta": "Teleconsulta",
}

var statusLabels = map[core.AppointmentStatus]string{
	core.Agendado:             "Agendado",
	core.Confirmado:           "Confirmado",
	core.EmAtendimento:        "Em atendimento",
	core.Atendido:             "Atendido",
	core.AgendamentoCancelado: "Cancelado",
	core.Faltou:               "Faltou",
}

var statusColors = map[core.AppointmentStatus]string{
	core.Agendado:             "#3b82f6",
	core.Confirmado:           "#8b5cf6",
	core.EmAtendimento:        "#f59e0b",
	core.Atendido:             "#10b981",
	core.AgendamentoCancelado: "#ef4444",
	core.Faltou:               "#6b7280",
}

var weekdayLabels = [7]string{"Domingo", "Segunda", "Terça", "Quarta", "Quinta", "Sexta", "Sábado"}

func lookupLabel(table map[string]string, key optionalKey, sentinelLabel string) string {
	if !key.present {
		return sentinelLabel
	}
	if l, ok := table[key.value]; ok {
		return l
	}
	return key.value
}

// CategoryLabel returns the display label of a category key.
func CategoryLabel(key string) string {
	if key == SemCategoria {
		return semCategoriaL
	}
	return lookupLabel(categoryLabels, optionalKey{value: key, present: true}, semCategoriaL)
}

// PaymentMethodLabel returns the display label of a payment method key.
func PaymentMethodLabel(key string) string {
	if key == NaoInformado {
		return naoInformadoL
	}
	return lookupLabel(paymentMethodLabels, optionalKey{value: key, present: true}, naoInformadoL)
}

// StatusLabel returns the display label of an appointment status.
func StatusLabel(s core.AppointmentStatus) string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return string(s)
}

// WeekdayLabel returns the Portuguese weekday name.
func WeekdayLabel(d time.Weekday) string {
	return weekdayLabels[d]
}
