package identity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/derma/clinic/internal/platform/apperror"
	"github.com/derma/clinic/internal/platform/db"
)

type userRepoPG struct{ pool *pgxpool.Pool }

func NewUserRepoPG(pool *pgxpool.Pool) UserRepository { return &userRepoPG{pool: pool} }

func (r *userRepoPG) conn(ctx context.Context) db.Queryable {
	if q := db.ConnFromContext(ctx); q != nil {
		return q
	}
	return r.pool
}

const userCols = `id, first_name, last_name, username, email, password_hash, mobile, cnic,
	state, city, user_type, specialty, has_certificate, has_license, created_at, updated_at`

func scanUser(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Username, &u.Email, &u.PasswordHash,
		&u.Mobile, &u.CNIC, &u.State, &u.City, &u.Role, &u.Specialty,
		&u.HasCertificate, &u.HasLicense, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperror.NotFound("User not found")
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepoPG) Create(ctx context.Context, u *User) error {
	u.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO users (id, first_name, last_name, username, email, password_hash,
			mobile, cnic, state, city, user_type, specialty, has_certificate, has_license)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)`,
		u.ID, u.FirstName, u.LastName, u.Username, u.Email, u.PasswordHash,
		u.Mobile, u.CNIC, u.State, u.City, u.Role, u.Specialty, u.HasCertificate, u.HasLicense)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return apperror.Validation(map[string]string{uniqueField(pgErr.ConstraintName): "has already been taken"})
	}
	return err
}

// uniqueField maps a unique-constraint name to the form field it guards.
func uniqueField(constraint string) string {
	switch constraint {
	case "users_email_key":
		return "email"
	case "users_cnic_key":
		return "cnic"
	default:
		return "username"
	}
}

func (r *userRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	return scanUser(r.conn(ctx).QueryRow(ctx, `SELECT `+userCols+` FROM users WHERE id = $1`, id))
}

func (r *userRepoPG) GetByUsername(ctx context.Context, username string) (*User, error) {
	return scanUser(r.conn(ctx).QueryRow(ctx, `SELECT `+userCols+` FROM users WHERE username = $1`, username))
}

func (r *userRepoPG) GetByEmail(ctx context.Context, email string) (*User, error) {
	return scanUser(r.conn(ctx).QueryRow(ctx, `SELECT `+userCols+` FROM users WHERE email = $1`, email))
}

func (r *userRepoPG) Update(ctx context.Context, u *User) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE users SET first_name=$2, last_name=$3, mobile=$4, state=$5, city=$6,
			specialty=$7, has_certificate=$8, has_license=$9, updated_at=NOW()
		WHERE id = $1`,
		u.ID, u.FirstName, u.LastName, u.Mobile, u.State, u.City,
		u.Specialty, u.HasCertificate, u.HasLicense)
	return err
}

func (r *userRepoPG) List(ctx context.Context) ([]*User, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+userCols+` FROM users ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *userRepoPG) ListSpecialists(ctx context.Context) ([]*PublicSpecialist, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT id, first_name, last_name, email, specialty, city, state
		FROM users WHERE user_type = 'specialist' ORDER BY last_name, first_name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var specialists []*PublicSpecialist
	for rows.Next() {
		var s PublicSpecialist
		if err := rows.Scan(&s.ID, &s.FirstName, &s.LastName, &s.Email, &s.Specialty, &s.City, &s.State); err != nil {
			return nil, err
		}
		specialists = append(specialists, &s)
	}
	return specialists, rows.Err()
}

type refreshTokenRepoPG struct{ pool *pgxpool.Pool }

func NewRefreshTokenRepoPG(pool *pgxpool.Pool) RefreshTokenRepository {
	return &refreshTokenRepoPG{pool: pool}
}

func (r *refreshTokenRepoPG) Create(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) (uuid.UUID, error) {
	id := uuid.New()
	_, err := r.pool.Exec(ctx,
		`INSERT INTO refresh_tokens (id, user_id, token_hash, expires_at) VALUES ($1,$2,$3,$4)`,
		id, userID, tokenHash, expiresAt)
	return id, err
}

func (r *refreshTokenRepoPG) GetByHash(ctx context.Context, tokenHash string) (*RefreshToken, error) {
	rt := &RefreshToken{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, user_id, token_hash, expires_at, revoked, replaced_by, created_at
		 FROM refresh_tokens WHERE token_hash = $1`, tokenHash,
	).Scan(&rt.ID, &rt.UserID, &rt.TokenHash, &rt.ExpiresAt, &rt.Revoked, &rt.ReplacedBy, &rt.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperror.NotFound("refresh token not found")
	}
	if err != nil {
		return nil, err
	}
	return rt, nil
}

func (r *refreshTokenRepoPG) Rotate(ctx context.Context, oldID, newID, userID uuid.UUID, newHash string, newExpiry time.Time) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err = tx.Exec(ctx,
		`UPDATE refresh_tokens SET revoked = true, replaced_by = $1 WHERE id = $2`,
		newID, oldID); err != nil {
		return err
	}
	if _, err = tx.Exec(ctx,
		`INSERT INTO refresh_tokens (id, user_id, token_hash, expires_at) VALUES ($1,$2,$3,$4)`,
		newID, userID, newHash, newExpiry); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *refreshTokenRepoPG) RevokeAll(ctx context.Context, userID uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE refresh_tokens SET revoked = true WHERE user_id = $1 AND revoked = false`,
		userID)
	return err
}
