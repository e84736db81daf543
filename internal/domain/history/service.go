package history

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/derma/clinic/internal/domain/identity"
	"github.com/derma/clinic/internal/platform/apperror"
	"github.com/derma/clinic/internal/platform/auth"
)

// CreateInput is the form a specialist files after a visit.
type CreateInput struct {
	PatientID     uuid.UUID
	AppointmentID *uuid.UUID
	Diagnosis     string
	Prescription  *string
	Notes         *string
}

// View is the history page payload: the patient header plus their entries,
// newest first.
type View struct {
	Patient PatientSummary `json:"patient"`
	Entries []*Entry       `json:"history"`
}

type Service struct {
	repo     Repository
	patients PatientDirectory
}

func NewService(repo Repository, patients PatientDirectory) *Service {
	return &Service{repo: repo, patients: patients}
}

// resolvePatient loads the id and insists it belongs to a patient. A valid
// uuid pointing at a specialist or admin is as wrong as an unknown one.
func (s *Service) resolvePatient(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	u, err := s.patients.GetByID(ctx, id)
	var nf *apperror.NotFoundError
	if errors.As(err, &nf) {
		return nil, apperror.ValidationMsg("Invalid patient ID")
	}
	if err != nil {
		return nil, err
	}
	if u.Role != identity.RolePatient {
		return nil, apperror.ValidationMsg("Invalid patient ID")
	}
	return u, nil
}

// Create files a new history entry. Only specialists and admins reach this
// through the route gate; the author is always the caller.
func (s *Service) Create(ctx context.Context, caller auth.Principal, in CreateInput) (*Entry, error) {
	fields := map[string]string{}
	if in.PatientID == uuid.Nil {
		fields["patient_id"] = "is required"
	}
	if strings.TrimSpace(in.Diagnosis) == "" {
		fields["diagnosis"] = "is required"
	}
	if len(fields) > 0 {
		return nil, apperror.Validation(fields)
	}

	if _, err := s.resolvePatient(ctx, in.PatientID); err != nil {
		return nil, err
	}

	e := &Entry{
		PatientID:     in.PatientID,
		SpecialistID:  caller.ID,
		AppointmentID: in.AppointmentID,
		Diagnosis:     in.Diagnosis,
		Prescription:  in.Prescription,
		Notes:         in.Notes,
	}
	if err := s.repo.Create(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

// ForPatient returns a patient's history view. Patients may read their own
// history; specialists and admins may read anyone's.
func (s *Service) ForPatient(ctx context.Context, caller auth.Principal, patientID uuid.UUID) (*View, error) {
	if caller.Role == string(identity.RolePatient) && caller.ID != patientID {
		return nil, apperror.Forbidden("Not authorized to view this history")
	}

	u, err := s.resolvePatient(ctx, patientID)
	if err != nil {
		return nil, err
	}
	entries, err := s.repo.ListByPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []*Entry{}
	}

	return &View{
		Patient: PatientSummary{
			ID: u.ID, FirstName: u.FirstName, LastName: u.LastName,
			Email: u.Email, Mobile: u.Mobile, City: u.City, State: u.State,
		},
		Entries: entries,
	}, nil
}
