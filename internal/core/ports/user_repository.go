package ports

import (
	"context"
	"time"

	"github.com/mentorny/user-api/internal/core/domain"
)

// UpdateUserFields carries a partial profile update. Nil fields are left
// untouched. Password is already hashed by the caller.
type UpdateUserFields struct {
	Email        *string
	Name         *string
	Age          *int
	PasswordHash *string
	Roles        []domain.Role
}

// UserRepository defines user persistence, including the single-slot refresh
// token state stored on the user row.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindAll(ctx context.Context) ([]*domain.User, error)
	Update(ctx context.Context, id string, fields UpdateUserFields) (*domain.User, error)
	Delete(ctx context.Context, id string) error

	// UpdateRefreshToken overwrites the stored refresh-token hash and expiry.
	UpdateRefreshToken(ctx context.Context, id, tokenHash string, expiresAt time.Time) error
	// ClearRefreshToken resets the slot so no future token can match.
	ClearRefreshToken(ctx context.Context, id string) error
	// FindWithRefreshToken returns all users holding a non-empty token hash.
	FindWithRefreshToken(ctx context.Context) ([]*domain.User, error)

	// AddSkills associates the given skill ids, skipping ones already linked.
	AddSkills(ctx context.Context, id string, skillIDs []string) error
}
