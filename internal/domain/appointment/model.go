package appointment

import (
	"time"

	"github.com/google/uuid"
)

// Status is the appointment lifecycle state.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

// Wire formats for the calendar fields. Date and time travel as strings end
// to end; the database stores them as DATE and TIME columns.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// Appointment is a booking between a patient and a specialist for a
// treatment. Status is mutated only through the role-gated update operation;
// rows are never deleted.
type Appointment struct {
	ID           uuid.UUID `db:"id" json:"id"`
	PatientID    uuid.UUID `db:"patient_id" json:"patient_id"`
	SpecialistID uuid.UUID `db:"specialist_id" json:"specialist_id"`
	TreatmentID  uuid.UUID `db:"treatment_id" json:"treatment_id"`
	Date         string    `db:"date" json:"date"`
	Time         string    `db:"time" json:"time"`
	Status       Status    `db:"status" json:"status"`
	Notes        *string   `db:"notes" json:"notes,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}
