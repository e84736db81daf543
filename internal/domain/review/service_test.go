package review

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/derma/clinic/internal/domain/appointment"
	"github.com/derma/clinic/internal/platform/apperror"
)

type mockRepo struct {
	byAppointment map[uuid.UUID]*Review
}

func newMockRepo() *mockRepo {
	return &mockRepo{byAppointment: make(map[uuid.UUID]*Review)}
}

func (m *mockRepo) Upsert(_ context.Context, r *Review) (*Review, error) {
	if existing, ok := m.byAppointment[r.AppointmentID]; ok {
		existing.Rating = r.Rating
		existing.Comment = r.Comment
		existing.UpdatedAt = time.Now()
		cp := *existing
		return &cp, nil
	}
	r.ID = uuid.New()
	r.CreatedAt = time.Now()
	r.UpdatedAt = r.CreatedAt
	cp := *r
	m.byAppointment[r.AppointmentID] = &cp
	return r, nil
}

func (m *mockRepo) GetByAppointment(_ context.Context, appointmentID uuid.UUID) (*Review, error) {
	r, ok := m.byAppointment[appointmentID]
	if !ok {
		return nil, apperror.NotExists("No review found")
	}
	cp := *r
	return &cp, nil
}

func (m *mockRepo) ListAll(_ context.Context) ([]*Detail, error) {
	var out []*Detail
	for _, r := range m.byAppointment {
		out = append(out, &Detail{Review: *r})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

type mockAppointments struct {
	appts map[uuid.UUID]*appointment.Appointment
}

func (m *mockAppointments) GetByID(_ context.Context, id uuid.UUID) (*appointment.Appointment, error) {
	a, ok := m.appts[id]
	if !ok {
		return nil, apperror.NotFound("Appointment not found")
	}
	cp := *a
	return &cp, nil
}

func passthroughTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func newTestService() (*Service, *mockRepo, *appointment.Appointment) {
	repo := newMockRepo()
	appt := &appointment.Appointment{
		ID:           uuid.New(),
		PatientID:    uuid.New(),
		SpecialistID: uuid.New(),
		TreatmentID:  uuid.New(),
		Status:       appointment.StatusCompleted,
	}
	appts := &mockAppointments{appts: map[uuid.UUID]*appointment.Appointment{appt.ID: appt}}
	return NewService(repo, appts, passthroughTx), repo, appt
}

func strptr(s string) *string { return &s }

func TestSubmitCopiesReferences(t *testing.T) {
	svc, _, appt := newTestService()

	rv, err := svc.Submit(context.Background(), appt.ID, 5, strptr("great"))
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if rv.PatientID != appt.PatientID || rv.SpecialistID != appt.SpecialistID || rv.TreatmentID != appt.TreatmentID {
		t.Error("references not copied from appointment")
	}
	if rv.Rating != 5 || rv.Comment == nil || *rv.Comment != "great" {
		t.Errorf("rating/comment = %d/%v", rv.Rating, rv.Comment)
	}
}

func TestSubmitUpsertsInPlace(t *testing.T) {
	svc, repo, appt := newTestService()
	ctx := context.Background()

	first, err := svc.Submit(ctx, appt.ID, 5, strptr("great"))
	if err != nil {
		t.Fatal(err)
	}
	second, err := svc.Submit(ctx, appt.ID, 2, strptr("actually bad"))
	if err != nil {
		t.Fatal(err)
	}
	if second.ID != first.ID {
		t.Error("upsert did not preserve the review id")
	}
	if len(repo.byAppointment) != 1 {
		t.Errorf("rows = %d, want 1", len(repo.byAppointment))
	}

	got, err := svc.GetByAppointment(ctx, appt.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Rating != 2 || *got.Comment != "actually bad" {
		t.Errorf("got rating %d comment %q", got.Rating, *got.Comment)
	}
}

func TestSubmitUnknownAppointment(t *testing.T) {
	svc, repo, _ := newTestService()

	_, err := svc.Submit(context.Background(), uuid.New(), 4, nil)
	var nf *apperror.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("err = %v, want NotFoundError", err)
	}
	if len(repo.byAppointment) != 0 {
		t.Error("review written despite missing appointment")
	}
}

func TestGetMissingReviewIsExpectedMiss(t *testing.T) {
	svc, _, appt := newTestService()

	_, err := svc.GetByAppointment(context.Background(), appt.ID)
	var ne *apperror.NotExistsError
	if !errors.As(err, &ne) {
		t.Fatalf("err = %v, want NotExistsError", err)
	}
	if ne.Message != "No review found" {
		t.Errorf("message = %q", ne.Message)
	}
}

func TestListAllNewestFirst(t *testing.T) {
	svc, repo, appt := newTestService()
	ctx := context.Background()

	if _, err := svc.Submit(ctx, appt.ID, 4, nil); err != nil {
		t.Fatal(err)
	}
	// age the first review so ordering is deterministic
	repo.byAppointment[appt.ID].CreatedAt = time.Now().Add(-time.Hour)

	other := &appointment.Appointment{
		ID: uuid.New(), PatientID: uuid.New(), SpecialistID: uuid.New(), TreatmentID: uuid.New(),
	}
	svc.appts.(*mockAppointments).appts[other.ID] = other
	newest, err := svc.Submit(ctx, other.ID, 3, nil)
	if err != nil {
		t.Fatal(err)
	}

	got, err := svc.ListAll(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].ID != newest.ID {
		t.Error("newest review not first")
	}
}
