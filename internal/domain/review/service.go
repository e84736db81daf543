package review

import (
	"context"

	"github.com/google/uuid"
)

type Service struct {
	repo  Repository
	appts AppointmentSource
	runTx TxRunner
}

func NewService(repo Repository, appts AppointmentSource, runTx TxRunner) *Service {
	return &Service{repo: repo, appts: appts, runTx: runTx}
}

// Submit upserts the review for an appointment. The appointment read and the
// review write share one transaction so the denormalized references cannot be
// copied from a row mutated mid-flight. Any authenticated caller may review
// any appointment; the rating is stored as given.
func (s *Service) Submit(ctx context.Context, appointmentID uuid.UUID, rating int, comment *string) (*Review, error) {
	var out *Review
	err := s.runTx(ctx, func(ctx context.Context) error {
		a, err := s.appts.GetByID(ctx, appointmentID)
		if err != nil {
			return err
		}
		out, err = s.repo.Upsert(ctx, &Review{
			AppointmentID: a.ID,
			PatientID:     a.PatientID,
			SpecialistID:  a.SpecialistID,
			TreatmentID:   a.TreatmentID,
			Rating:        rating,
			Comment:       comment,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// GetByAppointment returns the appointment's review. A missing review is an
// expected miss, signalled as exists:false at the boundary.
func (s *Service) GetByAppointment(ctx context.Context, appointmentID uuid.UUID) (*Review, error) {
	return s.repo.GetByAppointment(ctx, appointmentID)
}

func (s *Service) ListAll(ctx context.Context) ([]*Detail, error) {
	return s.repo.ListAll(ctx)
}
