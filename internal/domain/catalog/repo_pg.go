package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/derma/clinic/internal/platform/apperror"
	"github.com/derma/clinic/internal/platform/db"
)

type treatmentRepoPG struct{ pool *pgxpool.Pool }

func NewTreatmentRepoPG(pool *pgxpool.Pool) TreatmentRepository {
	return &treatmentRepoPG{pool: pool}
}

func (r *treatmentRepoPG) conn(ctx context.Context) db.Queryable {
	if q := db.ConnFromContext(ctx); q != nil {
		return q
	}
	return r.pool
}

func (r *treatmentRepoPG) Create(ctx context.Context, t *Treatment) error {
	t.ID = uuid.New()
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO treatments (id, name, description, category, price)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING created_at, updated_at`,
		t.ID, t.Name, t.Description, t.Category, t.Price,
	).Scan(&t.CreatedAt, &t.UpdatedAt)
}

func (r *treatmentRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Treatment, error) {
	var t Treatment
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT id, name, description, category, price, created_at, updated_at
		FROM treatments WHERE id = $1`, id,
	).Scan(&t.ID, &t.Name, &t.Description, &t.Category, &t.Price, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperror.NotFound("Treatment not found")
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *treatmentRepoPG) Update(ctx context.Context, t *Treatment) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE treatments SET name=$2, description=$3, category=$4, price=$5, updated_at=NOW()
		WHERE id = $1`,
		t.ID, t.Name, t.Description, t.Category, t.Price)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperror.NotFound("Treatment not found")
	}
	return nil
}

func (r *treatmentRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM treatments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperror.NotFound("Treatment not found")
	}
	return nil
}

func (r *treatmentRepoPG) List(ctx context.Context) ([]*Treatment, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT id, name, description, category, price, created_at, updated_at
		FROM treatments ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var treatments []*Treatment
	for rows.Next() {
		var t Treatment
		if err := rows.Scan(&t.ID, &t.Name, &t.Description, &t.Category, &t.Price, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		treatments = append(treatments, &t)
	}
	return treatments, rows.Err()
}

func (r *treatmentRepoPG) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM treatments WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}

type labTestRepoPG struct{ pool *pgxpool.Pool }

func NewLabTestRepoPG(pool *pgxpool.Pool) LabTestRepository {
	return &labTestRepoPG{pool: pool}
}

func (r *labTestRepoPG) conn(ctx context.Context) db.Queryable {
	if q := db.ConnFromContext(ctx); q != nil {
		return q
	}
	return r.pool
}

func (r *labTestRepoPG) Create(ctx context.Context, lt *LabTest) error {
	lt.ID = uuid.New()
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO lab_tests (id, name, description, preparation, price)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING created_at, updated_at`,
		lt.ID, lt.Name, lt.Description, lt.Preparation, lt.Price,
	).Scan(&lt.CreatedAt, &lt.UpdatedAt)
}

func (r *labTestRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*LabTest, error) {
	var lt LabTest
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT id, name, description, preparation, price, created_at, updated_at
		FROM lab_tests WHERE id = $1`, id,
	).Scan(&lt.ID, &lt.Name, &lt.Description, &lt.Preparation, &lt.Price, &lt.CreatedAt, &lt.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperror.NotFound("Lab test not found")
	}
	if err != nil {
		return nil, err
	}
	return &lt, nil
}

func (r *labTestRepoPG) Update(ctx context.Context, lt *LabTest) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE lab_tests SET name=$2, description=$3, preparation=$4, price=$5, updated_at=NOW()
		WHERE id = $1`,
		lt.ID, lt.Name, lt.Description, lt.Preparation, lt.Price)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperror.NotFound("Lab test not found")
	}
	return nil
}

func (r *labTestRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM lab_tests WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperror.NotFound("Lab test not found")
	}
	return nil
}

func (r *labTestRepoPG) List(ctx context.Context) ([]*LabTest, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT id, name, description, preparation, price, created_at, updated_at
		FROM lab_tests ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tests []*LabTest
	for rows.Next() {
		var lt LabTest
		if err := rows.Scan(&lt.ID, &lt.Name, &lt.Description, &lt.Preparation, &lt.Price, &lt.CreatedAt, &lt.UpdatedAt); err != nil {
			return nil, err
		}
		tests = append(tests, &lt)
	}
	return tests, rows.Err()
}
