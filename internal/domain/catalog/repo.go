package catalog

import (
	"context"

	"github.com/google/uuid"
)

type TreatmentRepository interface {
	Create(ctx context.Context, t *Treatment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Treatment, error)
	Update(ctx context.Context, t *Treatment) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]*Treatment, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

type LabTestRepository interface {
	Create(ctx context.Context, lt *LabTest) error
	GetByID(ctx context.Context, id uuid.UUID) (*LabTest, error)
	Update(ctx context.Context, lt *LabTest) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]*LabTest, error)
}
