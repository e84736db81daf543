package identity

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type UserRepository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, u *User) error
	List(ctx context.Context) ([]*User, error)
	ListSpecialists(ctx context.Context) ([]*PublicSpecialist, error)
}

type RefreshTokenRepository interface {
	Create(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) (uuid.UUID, error)
	GetByHash(ctx context.Context, tokenHash string) (*RefreshToken, error)
	// Rotate revokes the old token, inserts the new one and links them.
	Rotate(ctx context.Context, oldID, newID, userID uuid.UUID, newHash string, newExpiry time.Time) error
	RevokeAll(ctx context.Context, userID uuid.UUID) error
}
