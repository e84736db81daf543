package review

import (
	"context"

	"github.com/google/uuid"

	"github.com/derma/clinic/internal/domain/appointment"
)

// Repository persists reviews with an at-most-one-per-appointment guarantee.
type Repository interface {
	// Upsert creates the review for r.AppointmentID or overwrites the existing
	// one's rating and comment, preserving its id.
	Upsert(ctx context.Context, r *Review) (*Review, error)
	GetByAppointment(ctx context.Context, appointmentID uuid.UUID) (*Review, error)
	// ListAll returns every review expanded for display, newest first.
	ListAll(ctx context.Context) ([]*Detail, error)
}

// AppointmentSource resolves appointment ids so the review can copy its
// references.
type AppointmentSource interface {
	GetByID(ctx context.Context, id uuid.UUID) (*appointment.Appointment, error)
}

// TxRunner executes fn atomically. The production runner wraps db.WithTx;
// tests substitute a passthrough.
type TxRunner func(ctx context.Context, fn func(ctx context.Context) error) error
