package catalog

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/derma/clinic/internal/platform/apperror"
)

// ItemInput is the shared create/update form for treatments and lab tests.
// Category applies to treatments, Preparation to lab tests; the other is
// ignored.
type ItemInput struct {
	Name        string
	Description *string
	Category    *string
	Preparation *string
	Price       float64
}

func (in ItemInput) validate() error {
	fields := map[string]string{}
	if strings.TrimSpace(in.Name) == "" {
		fields["name"] = "is required"
	}
	if in.Price < 0 {
		fields["price"] = "must not be negative"
	}
	if len(fields) > 0 {
		return apperror.Validation(fields)
	}
	return nil
}

type Service struct {
	treatments TreatmentRepository
	labTests   LabTestRepository
}

func NewService(treatments TreatmentRepository, labTests LabTestRepository) *Service {
	return &Service{treatments: treatments, labTests: labTests}
}

// TreatmentExists reports whether a treatment id resolves. The booking flow
// uses it to validate foreign references.
func (s *Service) TreatmentExists(ctx context.Context, id uuid.UUID) (bool, error) {
	return s.treatments.Exists(ctx, id)
}

func (s *Service) ListTreatments(ctx context.Context) ([]*Treatment, error) {
	return s.treatments.List(ctx)
}

func (s *Service) GetTreatment(ctx context.Context, id uuid.UUID) (*Treatment, error) {
	return s.treatments.GetByID(ctx, id)
}

func (s *Service) CreateTreatment(ctx context.Context, in ItemInput) (*Treatment, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	t := &Treatment{Name: in.Name, Description: in.Description, Category: in.Category, Price: in.Price}
	if err := s.treatments.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *Service) UpdateTreatment(ctx context.Context, id uuid.UUID, in ItemInput) (*Treatment, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	t, err := s.treatments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	t.Name, t.Description, t.Category, t.Price = in.Name, in.Description, in.Category, in.Price
	if err := s.treatments.Update(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *Service) DeleteTreatment(ctx context.Context, id uuid.UUID) error {
	return s.treatments.Delete(ctx, id)
}

func (s *Service) ListLabTests(ctx context.Context) ([]*LabTest, error) {
	return s.labTests.List(ctx)
}

func (s *Service) GetLabTest(ctx context.Context, id uuid.UUID) (*LabTest, error) {
	return s.labTests.GetByID(ctx, id)
}

func (s *Service) CreateLabTest(ctx context.Context, in ItemInput) (*LabTest, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	lt := &LabTest{Name: in.Name, Description: in.Description, Preparation: in.Preparation, Price: in.Price}
	if err := s.labTests.Create(ctx, lt); err != nil {
		return nil, err
	}
	return lt, nil
}

func (s *Service) UpdateLabTest(ctx context.Context, id uuid.UUID, in ItemInput) (*LabTest, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	lt, err := s.labTests.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	lt.Name, lt.Description, lt.Preparation, lt.Price = in.Name, in.Description, in.Preparation, in.Price
	if err := s.labTests.Update(ctx, lt); err != nil {
		return nil, err
	}
	return lt, nil
}

func (s *Service) DeleteLabTest(ctx context.Context, id uuid.UUID) error {
	return s.labTests.Delete(ctx, id)
}
