package appointment

import (
	"context"

	"github.com/google/uuid"

	"github.com/derma/clinic/internal/domain/identity"
)

// Repository persists appointments. List results are ordered by date
// ascending then time ascending.
type Repository interface {
	Create(ctx context.Context, a *Appointment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status) (*Appointment, error)
	ListAll(ctx context.Context) ([]*Appointment, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*Appointment, error)
	ListBySpecialist(ctx context.Context, specialistID uuid.UUID) ([]*Appointment, error)
}

// UserDirectory resolves user ids to persisted roles. Authorization decisions
// use the stored role, never a caller-asserted one.
type UserDirectory interface {
	RoleOf(ctx context.Context, id uuid.UUID) (identity.Role, error)
}

// TreatmentDirectory answers existence checks for treatment ids at booking
// time.
type TreatmentDirectory interface {
	TreatmentExists(ctx context.Context, id uuid.UUID) (bool, error)
}
