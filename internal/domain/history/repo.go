package history

import (
	"context"

	"github.com/google/uuid"

	"github.com/derma/clinic/internal/domain/identity"
)

// Repository persists history entries. Lists are newest first.
type Repository interface {
	Create(ctx context.Context, e *Entry) error
	ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*Entry, error)
}

// PatientDirectory resolves patient ids for the history view header.
type PatientDirectory interface {
	GetByID(ctx context.Context, id uuid.UUID) (*identity.User, error)
}
