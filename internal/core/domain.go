package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	Receita TransactionType = "receita"
	Despesa TransactionType = "despesa"
)

const (
	Pago      TransactionStatus = "pago"
	Pendente  TransactionStatus = "pendente"
	Cancelado TransactionStatus = "cancelado"
)

const (
	Agendado             AppointmentStatus = "agendado"
	Confirmado           AppointmentStatus = "confirmado"
	EmAtendimento        AppointmentStatus = "em_atendimento"
	Atendido             AppointmentStatus = "atendido"
	AgendamentoCancelado AppointmentStatus = "cancelado"
	Faltou               AppointmentStatus = "faltou"
)

const dateLayout = "2006-01-02"

type (
	TransactionType   string
	TransactionStatus string
	AppointmentStatus string

	// Date is a calendar date without time of day. The wall clock is always
	// midnight UTC so weekday and day arithmetic never shift across zones.
	Date struct {
		time.Time
	}

	Transaction struct {
		ID             string
		Tipo           TransactionType
		Categoria      *string
		Valor          float64
		Data           Date
		FormaPagamento *string
		Status         TransactionStatus
		Paciente       *string // display only
		Descricao      string
	}

	Appointment struct {
		ID         string
		Data       Date
		HoraInicio string
		HoraFim    string
		Tipo       *string
		Status     AppointmentStatus
		Valor      *float64
		MedicoID   *string // resolved through the patient record
		Paciente   *string
	}
)

var (
	ErrInvalidDate   = errors.New("invalid date")
	ErrInvalidAmount = errors.New("invalid amount")
	ErrInvalidType   = errors.New("invalid transaction type")
	ErrInvalidStatus = errors.New("invalid status")
)

// AppointmentStatuses lists every appointment status in workflow order.
var AppointmentStatuses = []AppointmentStatus{Agendado, Confirmado, EmAtendimento, Atendido, AgendamentoCancelado, Faltou}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string. The year, month and day are taken
// as a calendar date; no zone conversion happens.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if len(s) > len(dateLayout) {
		// tolerate timestamps stored by older rows ("2024-06-10T00:00:00Z")
		s = s[:len(dateLayout)]
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return Date{Time: t}, nil
}

// String returns the ISO form YYYY-MM-DD.
func (d Date) String() string {
	return d.Format(dateLayout)
}

// AddDays returns the date n calendar days later.
func (d Date) AddDays(n int) Date {
	return Date{Time: d.AddDate(0, 0, n)}
}

// DaysUntil returns the number of calendar days from d to other.
func (d Date) DaysUntil(other Date) int {
	return int(other.Sub(d.Time).Hours() / 24)
}

func (t TransactionType) Valid() bool {
	return t == Receita || t == Despesa
}

func (s TransactionStatus) Valid() bool {
	switch s {
	case Pago, Pendente, Cancelado:
		return true
	}
	return false
}

func (s AppointmentStatus) Valid() bool {
	for _, v := range AppointmentStatuses {
		if v == s {
			return true
		}
	}
	return false
}

func (t Transaction) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return errors.New("empty transaction id")
	}
	if !t.Tipo.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidType, t.Tipo)
	}
	if !t.Status.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, t.Status)
	}
	if t.Valor < 0 {
		return ErrInvalidAmount
	}
	if t.Data.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

func (a Appointment) Validate() error {
	if strings.TrimSpace(a.ID) == "" {
		return errors.New("empty appointment id")
	}
	if !a.Status.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, a.Status)
	}
	if a.Valor != nil && *a.Valor < 0 {
		return ErrInvalidAmount
	}
	if a.Data.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// StringPtr returns nil for blank strings, otherwise a pointer to the trimmed value.
func StringPtr(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// FloatPtr returns a pointer to v.
func FloatPtr(v float64) *float64 {
	return &v
}
