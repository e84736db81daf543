package review

import (
	"time"

	"github.com/google/uuid"
)

// Review is the single review attached to an appointment. Patient, specialist
// and treatment references are denormalized copies taken from the appointment
// when the review is written.
type Review struct {
	ID            uuid.UUID `db:"id" json:"id"`
	AppointmentID uuid.UUID `db:"appointment_id" json:"appointment_id"`
	PatientID     uuid.UUID `db:"patient_id" json:"patient_id"`
	SpecialistID  uuid.UUID `db:"specialist_id" json:"specialist_id"`
	TreatmentID   uuid.UUID `db:"treatment_id" json:"treatment_id"`
	Rating        int       `db:"rating" json:"rating"`
	Comment       *string   `db:"comment" json:"comment,omitempty"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// Detail is a review expanded with display names for the admin listing.
type Detail struct {
	Review
	PatientName    string `json:"patient_name"`
	SpecialistName string `json:"specialist_name"`
	TreatmentName  string `json:"treatment_name"`
}
