package ports

import (
	"context"

	"github.com/mentorny/user-api/internal/core/domain"
)

// UpdateUserInput carries a partial profile update with the plaintext
// password; the service hashes it before persisting.
type UpdateUserInput struct {
	Email    *string
	Name     *string
	Age      *int
	Password *string
}

// UserService implements user management adjacent to the auth core.
type UserService interface {
	FindAll(ctx context.Context) ([]*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	Update(ctx context.Context, id string, in UpdateUserInput) (*domain.User, error)
	Remove(ctx context.Context, actorID, targetID string) error
	AddSkills(ctx context.Context, userID string, names []string) (*domain.User, error)
	ListSkills(ctx context.Context) ([]*domain.Skill, error)
	// BootstrapSuperAdmin seeds the first super-admin account if the email is
	// not taken yet. Idempotent; the only path that grants SUPER_ADMIN.
	BootstrapSuperAdmin(ctx context.Context, email, password, name string, age int) (*domain.User, error)
}
