package appointment

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/derma/clinic/internal/domain/identity"
	"github.com/derma/clinic/internal/platform/apperror"
)

// CreateInput carries the booking form. Date and time are wire strings
// validated against DateLayout and TimeLayout.
type CreateInput struct {
	PatientID    uuid.UUID
	SpecialistID uuid.UUID
	TreatmentID  uuid.UUID
	Date         string
	Time         string
	Notes        *string
}

type Service struct {
	repo       Repository
	users      UserDirectory
	treatments TreatmentDirectory
	now        func() time.Time
}

func NewService(repo Repository, users UserDirectory, treatments TreatmentDirectory) *Service {
	return &Service{repo: repo, users: users, treatments: treatments, now: time.Now}
}

// Create books a new appointment in pending status. The specialist id must
// resolve to a user whose stored role is specialist; the patient id only has
// to exist.
func (s *Service) Create(ctx context.Context, in CreateInput) (*Appointment, error) {
	fields := map[string]string{}
	if in.PatientID == uuid.Nil {
		fields["patient_id"] = "is required"
	}
	if in.SpecialistID == uuid.Nil {
		fields["specialist_id"] = "is required"
	}
	if in.TreatmentID == uuid.Nil {
		fields["treatment_id"] = "is required"
	}

	if strings.TrimSpace(in.Date) == "" {
		fields["date"] = "is required"
	} else if _, err := time.Parse(DateLayout, in.Date); err != nil {
		fields["date"] = "must be a valid date (YYYY-MM-DD)"
	} else if in.Date < s.now().Format(DateLayout) {
		// lexicographic compare is safe for YYYY-MM-DD
		fields["date"] = "must be today or later"
	}
	if strings.TrimSpace(in.Time) == "" {
		fields["time"] = "is required"
	} else if _, err := time.Parse(TimeLayout, in.Time); err != nil {
		fields["time"] = "must be a valid time (HH:MM)"
	}
	if len(fields) > 0 {
		return nil, apperror.Validation(fields)
	}

	var nf *apperror.NotFoundError

	role, err := s.users.RoleOf(ctx, in.SpecialistID)
	if errors.As(err, &nf) || (err == nil && role != identity.RoleSpecialist) {
		return nil, apperror.ValidationMsg("Invalid specialist selected")
	}
	if err != nil {
		return nil, err
	}

	if _, err := s.users.RoleOf(ctx, in.PatientID); errors.As(err, &nf) {
		return nil, apperror.Validation(map[string]string{"patient_id": "does not exist"})
	} else if err != nil {
		return nil, err
	}

	ok, err := s.treatments.TreatmentExists(ctx, in.TreatmentID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperror.Validation(map[string]string{"treatment_id": "does not exist"})
	}

	a := &Appointment{
		PatientID:    in.PatientID,
		SpecialistID: in.SpecialistID,
		TreatmentID:  in.TreatmentID,
		Date:         in.Date,
		Time:         in.Time,
		Notes:        in.Notes,
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// ListForCaller projects appointments by the caller's stored role: admins see
// everything, specialists their own schedule, everyone else their bookings as
// a patient.
func (s *Service) ListForCaller(ctx context.Context, callerID uuid.UUID) ([]*Appointment, error) {
	role, err := s.users.RoleOf(ctx, callerID)
	if err != nil {
		return nil, err
	}
	switch role {
	case identity.RoleAdmin:
		return s.repo.ListAll(ctx)
	case identity.RoleSpecialist:
		return s.repo.ListBySpecialist(ctx, callerID)
	default:
		return s.repo.ListByPatient(ctx, callerID)
	}
}

// GetByID returns a single appointment.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return s.repo.GetByID(ctx, id)
}

// statusRule is one row of the status policy: which target statuses a role
// may set, and whose appointments it may touch.
type statusRule struct {
	targets map[Status]bool              // nil allows any status
	owner   func(*Appointment) uuid.UUID // nil means no ownership check
	denyMsg string
}

// statusPolicy maps a caller's stored role to its status rule. Patients may
// only cancel their own appointments; specialists may confirm, cancel or
// complete theirs; admins may set any status on any appointment. No
// transition graph constrains which status may follow which.
func statusPolicy(role identity.Role) statusRule {
	switch role {
	case identity.RolePatient:
		return statusRule{
			targets: map[Status]bool{StatusCancelled: true},
			owner:   func(a *Appointment) uuid.UUID { return a.PatientID },
			denyMsg: "Patients can only cancel appointments",
		}
	case identity.RoleSpecialist:
		return statusRule{
			targets: map[Status]bool{StatusConfirmed: true, StatusCancelled: true, StatusCompleted: true},
			owner:   func(a *Appointment) uuid.UUID { return a.SpecialistID },
			denyMsg: "Invalid status update for specialist",
		}
	case identity.RoleAdmin:
		return statusRule{}
	default:
		return statusRule{
			targets: map[Status]bool{},
			denyMsg: "Not authorized to update this appointment",
		}
	}
}

// UpdateStatus applies the status write gated by statusPolicy. The write is
// unconditional beyond the role gate.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, newStatus Status, callerID uuid.UUID) (*Appointment, error) {
	if !newStatus.Valid() {
		return nil, apperror.ValidationMsg("Invalid status value")
	}

	role, err := s.users.RoleOf(ctx, callerID)
	if err != nil {
		return nil, err
	}
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	rule := statusPolicy(role)
	if rule.owner != nil && rule.owner(a) != callerID {
		return nil, apperror.Forbidden("Not authorized to update this appointment")
	}
	if rule.targets != nil && !rule.targets[newStatus] {
		return nil, apperror.Forbidden(rule.denyMsg)
	}

	return s.repo.UpdateStatus(ctx, id, newStatus)
}
