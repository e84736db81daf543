package review

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/derma/clinic/internal/platform/apperror"
	"github.com/derma/clinic/internal/platform/db"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) conn(ctx context.Context) db.Queryable {
	if q := db.ConnFromContext(ctx); q != nil {
		return q
	}
	return r.pool
}

const reviewCols = `id, appointment_id, patient_id, specialist_id, treatment_id,
	rating, comment, created_at, updated_at`

func scanReview(row pgx.Row) (*Review, error) {
	var rv Review
	err := row.Scan(&rv.ID, &rv.AppointmentID, &rv.PatientID, &rv.SpecialistID, &rv.TreatmentID,
		&rv.Rating, &rv.Comment, &rv.CreatedAt, &rv.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperror.NotExists("No review found")
	}
	if err != nil {
		return nil, err
	}
	return &rv, nil
}

func (r *repoPG) Upsert(ctx context.Context, rv *Review) (*Review, error) {
	// the conflict arm leaves id and created_at alone so a rewrite keeps the
	// original row identity
	return scanReview(r.conn(ctx).QueryRow(ctx, `
		INSERT INTO reviews (id, appointment_id, patient_id, specialist_id, treatment_id, rating, comment)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		ON CONFLICT (appointment_id) DO UPDATE
		SET rating = EXCLUDED.rating, comment = EXCLUDED.comment, updated_at = NOW()
		RETURNING `+reviewCols,
		uuid.New(), rv.AppointmentID, rv.PatientID, rv.SpecialistID, rv.TreatmentID, rv.Rating, rv.Comment))
}

func (r *repoPG) GetByAppointment(ctx context.Context, appointmentID uuid.UUID) (*Review, error) {
	return scanReview(r.conn(ctx).QueryRow(ctx,
		`SELECT `+reviewCols+` FROM reviews WHERE appointment_id = $1`, appointmentID))
}

func (r *repoPG) ListAll(ctx context.Context) ([]*Detail, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT r.id, r.appointment_id, r.patient_id, r.specialist_id, r.treatment_id,
			r.rating, r.comment, r.created_at, r.updated_at,
			p.first_name || ' ' || p.last_name,
			s.first_name || ' ' || s.last_name,
			t.name
		FROM reviews r
		JOIN users p ON p.id = r.patient_id
		JOIN users s ON s.id = r.specialist_id
		JOIN treatments t ON t.id = r.treatment_id
		ORDER BY r.created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var details []*Detail
	for rows.Next() {
		var d Detail
		if err := rows.Scan(&d.ID, &d.AppointmentID, &d.PatientID, &d.SpecialistID, &d.TreatmentID,
			&d.Rating, &d.Comment, &d.CreatedAt, &d.UpdatedAt,
			&d.PatientName, &d.SpecialistName, &d.TreatmentName); err != nil {
			return nil, err
		}
		details = append(details, &d)
	}
	return details, rows.Err()
}
