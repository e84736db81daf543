package identity

import (
	"time"

	"github.com/google/uuid"
)

// Role is the closed set of user roles. Every authorization decision in the
// system keys off it.
type Role string

const (
	RolePatient    Role = "patient"
	RoleSpecialist Role = "specialist"
	RoleAdmin      Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RolePatient, RoleSpecialist, RoleAdmin:
		return true
	}
	return false
}

// User maps to the users table.
type User struct {
	ID             uuid.UUID `db:"id" json:"id"`
	FirstName      string    `db:"first_name" json:"first_name"`
	LastName       string    `db:"last_name" json:"last_name"`
	Username       string    `db:"username" json:"username"`
	Email          string    `db:"email" json:"email"`
	PasswordHash   string    `db:"password_hash" json:"-"`
	Mobile         string    `db:"mobile" json:"mobile"`
	CNIC           string    `db:"cnic" json:"cnic"`
	State          string    `db:"state" json:"state"`
	City           string    `db:"city" json:"city"`
	Role           Role      `db:"user_type" json:"user_type"`
	Specialty      *string   `db:"specialty" json:"specialty,omitempty"`
	HasCertificate bool      `db:"has_certificate" json:"has_certificate"`
	HasLicense     bool      `db:"has_license" json:"has_license"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// PublicSpecialist is the subset of specialist fields exposed to the booking
// form.
type PublicSpecialist struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	Specialty *string   `json:"specialty,omitempty"`
	City      string    `json:"city"`
	State     string    `json:"state"`
}

// RefreshToken maps to the refresh_tokens table. Only the sha256 hash of the
// opaque token is stored.
type RefreshToken struct {
	ID         uuid.UUID  `db:"id"`
	UserID     uuid.UUID  `db:"user_id"`
	TokenHash  string     `db:"token_hash"`
	ExpiresAt  time.Time  `db:"expires_at"`
	Revoked    bool       `db:"revoked"`
	ReplacedBy *uuid.UUID `db:"replaced_by"`
	CreatedAt  time.Time  `db:"created_at"`
}
