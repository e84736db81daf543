package history

import (
	"time"

	"github.com/google/uuid"
)

// Entry is one medical-history record written by a specialist about a
// patient visit.
type Entry struct {
	ID            uuid.UUID  `db:"id" json:"id"`
	PatientID     uuid.UUID  `db:"patient_id" json:"patient_id"`
	SpecialistID  uuid.UUID  `db:"specialist_id" json:"specialist_id"`
	AppointmentID *uuid.UUID `db:"appointment_id" json:"appointment_id,omitempty"`
	Diagnosis     string     `db:"diagnosis" json:"diagnosis"`
	Prescription  *string    `db:"prescription" json:"prescription,omitempty"`
	Notes         *string    `db:"notes" json:"notes,omitempty"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
}

// PatientSummary heads the history view with the patient's basic details.
type PatientSummary struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	Mobile    string    `json:"mobile"`
	City      string    `json:"city"`
	State     string    `json:"state"`
}
