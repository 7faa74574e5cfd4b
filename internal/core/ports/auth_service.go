package ports

import (
	"context"

	"github.com/mentorny/user-api/internal/core/domain"
)

// AuthResult is returned by the workflows that establish a session.
type AuthResult struct {
	User         *domain.User
	AccessToken  string
	RefreshToken string
}

// AuthService implements the authentication workflows.
type AuthService interface {
	Register(ctx context.Context, email, password, name string, age int) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	RefreshTokens(ctx context.Context, refreshToken string) (*AuthResult, error)
	Logout(ctx context.Context, userID string) error
	Profile(ctx context.Context, userID string) (*domain.User, error)
	UpdateUserRoles(ctx context.Context, actorID, targetID string, roles []domain.Role) (*domain.User, error)
}
