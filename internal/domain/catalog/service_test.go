package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/derma/clinic/internal/platform/apperror"
)

type mockTreatmentRepo struct {
	items map[uuid.UUID]*Treatment
}

func newMockTreatmentRepo() *mockTreatmentRepo {
	return &mockTreatmentRepo{items: make(map[uuid.UUID]*Treatment)}
}

func (m *mockTreatmentRepo) Create(_ context.Context, t *Treatment) error {
	t.ID = uuid.New()
	cp := *t
	m.items[t.ID] = &cp
	return nil
}

func (m *mockTreatmentRepo) GetByID(_ context.Context, id uuid.UUID) (*Treatment, error) {
	t, ok := m.items[id]
	if !ok {
		return nil, apperror.NotFound("Treatment not found")
	}
	cp := *t
	return &cp, nil
}

func (m *mockTreatmentRepo) Update(_ context.Context, t *Treatment) error {
	if _, ok := m.items[t.ID]; !ok {
		return apperror.NotFound("Treatment not found")
	}
	cp := *t
	m.items[t.ID] = &cp
	return nil
}

func (m *mockTreatmentRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.items[id]; !ok {
		return apperror.NotFound("Treatment not found")
	}
	delete(m.items, id)
	return nil
}

func (m *mockTreatmentRepo) List(_ context.Context) ([]*Treatment, error) {
	var out []*Treatment
	for _, t := range m.items {
		cp := *t
		out = append(out, &cp)
	}
	return out, nil
}

func (m *mockTreatmentRepo) Exists(_ context.Context, id uuid.UUID) (bool, error) {
	_, ok := m.items[id]
	return ok, nil
}

type mockLabTestRepo struct {
	items map[uuid.UUID]*LabTest
}

func newMockLabTestRepo() *mockLabTestRepo {
	return &mockLabTestRepo{items: make(map[uuid.UUID]*LabTest)}
}

func (m *mockLabTestRepo) Create(_ context.Context, lt *LabTest) error {
	lt.ID = uuid.New()
	cp := *lt
	m.items[lt.ID] = &cp
	return nil
}

func (m *mockLabTestRepo) GetByID(_ context.Context, id uuid.UUID) (*LabTest, error) {
	lt, ok := m.items[id]
	if !ok {
		return nil, apperror.NotFound("Lab test not found")
	}
	cp := *lt
	return &cp, nil
}

func (m *mockLabTestRepo) Update(_ context.Context, lt *LabTest) error {
	if _, ok := m.items[lt.ID]; !ok {
		return apperror.NotFound("Lab test not found")
	}
	cp := *lt
	m.items[lt.ID] = &cp
	return nil
}

func (m *mockLabTestRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.items[id]; !ok {
		return apperror.NotFound("Lab test not found")
	}
	delete(m.items, id)
	return nil
}

func (m *mockLabTestRepo) List(_ context.Context) ([]*LabTest, error) {
	var out []*LabTest
	for _, lt := range m.items {
		cp := *lt
		out = append(out, &cp)
	}
	return out, nil
}

func newTestService() *Service {
	return NewService(newMockTreatmentRepo(), newMockLabTestRepo())
}

func TestTreatmentCRUD(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	created, err := svc.CreateTreatment(ctx, ItemInput{Name: "Acne Therapy", Price: 1500})
	if err != nil {
		t.Fatalf("CreateTreatment: %v", err)
	}

	ok, err := svc.TreatmentExists(ctx, created.ID)
	if err != nil || !ok {
		t.Errorf("TreatmentExists = %v, %v", ok, err)
	}

	updated, err := svc.UpdateTreatment(ctx, created.ID, ItemInput{Name: "Acne Therapy Plus", Price: 2000})
	if err != nil {
		t.Fatalf("UpdateTreatment: %v", err)
	}
	if updated.Name != "Acne Therapy Plus" || updated.Price != 2000 {
		t.Errorf("updated = %+v", updated)
	}

	if err := svc.DeleteTreatment(ctx, created.ID); err != nil {
		t.Fatalf("DeleteTreatment: %v", err)
	}
	ok, _ = svc.TreatmentExists(ctx, created.ID)
	if ok {
		t.Error("treatment still exists after delete")
	}

	var nf *apperror.NotFoundError
	if _, err := svc.GetTreatment(ctx, created.ID); !errors.As(err, &nf) {
		t.Errorf("deleted get: err = %v, want NotFoundError", err)
	}
}

func TestItemValidation(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	var ve *apperror.ValidationError
	if _, err := svc.CreateTreatment(ctx, ItemInput{Name: "  "}); !errors.As(err, &ve) {
		t.Errorf("blank name: err = %v, want ValidationError", err)
	}
	if _, err := svc.CreateLabTest(ctx, ItemInput{Name: "CBC", Price: -1}); !errors.As(err, &ve) {
		t.Errorf("negative price: err = %v, want ValidationError", err)
	}
}

func TestLabTestCRUD(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	created, err := svc.CreateLabTest(ctx, ItemInput{Name: "CBC", Price: 800})
	if err != nil {
		t.Fatalf("CreateLabTest: %v", err)
	}
	got, err := svc.GetLabTest(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetLabTest: %v", err)
	}
	if got.Name != "CBC" {
		t.Errorf("Name = %q", got.Name)
	}

	list, err := svc.ListLabTests(ctx)
	if err != nil || len(list) != 1 {
		t.Errorf("ListLabTests = %d items, err %v", len(list), err)
	}

	if err := svc.DeleteLabTest(ctx, created.ID); err != nil {
		t.Fatalf("DeleteLabTest: %v", err)
	}
	var nf *apperror.NotFoundError
	if err := svc.DeleteLabTest(ctx, created.ID); !errors.As(err, &nf) {
		t.Errorf("double delete: err = %v, want NotFoundError", err)
	}
}
