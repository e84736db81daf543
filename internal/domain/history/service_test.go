package history

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/derma/clinic/internal/domain/identity"
	"github.com/derma/clinic/internal/platform/apperror"
	"github.com/derma/clinic/internal/platform/auth"
)

type mockRepo struct {
	entries []*Entry
}

func (m *mockRepo) Create(_ context.Context, e *Entry) error {
	e.ID = uuid.New()
	e.CreatedAt = time.Now()
	cp := *e
	m.entries = append(m.entries, &cp)
	return nil
}

func (m *mockRepo) ListByPatient(_ context.Context, patientID uuid.UUID) ([]*Entry, error) {
	var out []*Entry
	for _, e := range m.entries {
		if e.PatientID == patientID {
			cp := *e
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

type mockPatients struct {
	users map[uuid.UUID]*identity.User
}

func (m *mockPatients) GetByID(_ context.Context, id uuid.UUID) (*identity.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, apperror.NotFound("User not found")
	}
	cp := *u
	return &cp, nil
}

type fixture struct {
	svc        *Service
	repo       *mockRepo
	patient    *identity.User
	specialist auth.Principal
}

func newFixture() *fixture {
	patient := &identity.User{
		ID: uuid.New(), FirstName: "Sara", LastName: "Ahmed",
		Email: "sara@example.com", Mobile: "03001234567",
		City: "Lahore", State: "Punjab", Role: identity.RolePatient,
	}
	specialistUser := &identity.User{ID: uuid.New(), Role: identity.RoleSpecialist}
	repo := &mockRepo{}
	patients := &mockPatients{users: map[uuid.UUID]*identity.User{
		patient.ID:        patient,
		specialistUser.ID: specialistUser,
	}}
	return &fixture{
		svc:        NewService(repo, patients),
		repo:       repo,
		patient:    patient,
		specialist: auth.Principal{ID: specialistUser.ID, Role: "specialist"},
	}
}

func TestCreateEntry(t *testing.T) {
	f := newFixture()

	e, err := f.svc.Create(context.Background(), f.specialist, CreateInput{
		PatientID: f.patient.ID,
		Diagnosis: "Mild eczema",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if e.SpecialistID != f.specialist.ID {
		t.Error("author is not the caller")
	}
}

func TestCreateValidation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	var ve *apperror.ValidationError
	if _, err := f.svc.Create(ctx, f.specialist, CreateInput{PatientID: f.patient.ID}); !errors.As(err, &ve) {
		t.Errorf("missing diagnosis: err = %v, want ValidationError", err)
	}

	// unknown id and a non-patient id fail the same way
	for _, id := range []uuid.UUID{uuid.New(), f.specialist.ID} {
		_, err := f.svc.Create(ctx, f.specialist, CreateInput{PatientID: id, Diagnosis: "x"})
		if !errors.As(err, &ve) || ve.Message != "Invalid patient ID" {
			t.Errorf("id %s: err = %v, want Invalid patient ID", id, err)
		}
	}
}

func TestForPatientView(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	first, err := f.svc.Create(ctx, f.specialist, CreateInput{PatientID: f.patient.ID, Diagnosis: "Visit one"})
	if err != nil {
		t.Fatal(err)
	}
	// age the first entry so ordering is deterministic
	f.repo.entries[0].CreatedAt = time.Now().Add(-time.Hour)
	second, err := f.svc.Create(ctx, f.specialist, CreateInput{PatientID: f.patient.ID, Diagnosis: "Visit two"})
	if err != nil {
		t.Fatal(err)
	}

	view, err := f.svc.ForPatient(ctx, f.specialist, f.patient.ID)
	if err != nil {
		t.Fatalf("ForPatient: %v", err)
	}
	if view.Patient.FirstName != "Sara" {
		t.Errorf("Patient = %+v", view.Patient)
	}
	if len(view.Entries) != 2 || view.Entries[0].ID != second.ID || view.Entries[1].ID != first.ID {
		t.Error("entries not newest first")
	}
}

func TestForPatientAccess(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	self := auth.Principal{ID: f.patient.ID, Role: "patient"}
	if _, err := f.svc.ForPatient(ctx, self, f.patient.ID); err != nil {
		t.Errorf("own history: %v", err)
	}

	stranger := auth.Principal{ID: uuid.New(), Role: "patient"}
	var ae *apperror.AuthorizationError
	if _, err := f.svc.ForPatient(ctx, stranger, f.patient.ID); !errors.As(err, &ae) {
		t.Errorf("stranger: err = %v, want AuthorizationError", err)
	}

	admin := auth.Principal{ID: uuid.New(), Role: "admin"}
	if _, err := f.svc.ForPatient(ctx, admin, f.patient.ID); err != nil {
		t.Errorf("admin: %v", err)
	}
}

func TestForPatientRejectsNonPatient(t *testing.T) {
	f := newFixture()

	_, err := f.svc.ForPatient(context.Background(), f.specialist, f.specialist.ID)
	var ve *apperror.ValidationError
	if !errors.As(err, &ve) || ve.Message != "Invalid patient ID" {
		t.Errorf("err = %v, want Invalid patient ID", err)
	}
}
