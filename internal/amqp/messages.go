package amqp

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Export reasons.
const (
	ReasonManual  = "manual"
	ReasonClosing = "closing"
)

// ReportExportMessage asks the worker to rebuild one monthly report and
// write it to the clinic's spreadsheet. The report itself is not carried;
// the worker recomputes it from the database.
type ReportExportMessage struct {
	ID          string    `json:"id"`
	Kind        string    `json:"kind"`
	ClinicaID   string    `json:"clinica_id"`
	Month       string    `json:"month"` // YYYY-MM
	Reason      string    `json:"reason"`
	RequestedAt time.Time `json:"requested_at"`
}

func NewReportExportMessage(kind, clinicaID, month, reason string) *ReportExportMessage {
	return &ReportExportMessage{
		ID:          uuid.NewString(),
		Kind:        kind,
		ClinicaID:   clinicaID,
		Month:       month,
		Reason:      reason,
		RequestedAt: time.Now().UTC(),
	}
}

// Validate checks the fields the worker cannot do without.
func (m *ReportExportMessage) Validate() error {
	var errs []error
	if _, err := uuid.Parse(m.ID); err != nil {
		errs = append(errs, errors.New("id must be a uuid"))
	}
	if m.Kind == "" {
		errs = append(errs, errors.New("kind is required"))
	}
	if m.ClinicaID == "" {
		errs = append(errs, errors.New("clinica_id is required"))
	}
	if m.Month == "" {
		errs = append(errs, errors.New("month is required"))
	}
	return errors.Join(errs...)
}

func (m *ReportExportMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func ReportExportMessageFromJSON(data []byte) (*ReportExportMessage, error) {
	var msg ReportExportMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
