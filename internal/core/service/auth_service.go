package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/mentorny/user-api/internal/api/metrics"
	"github.com/mentorny/user-api/internal/core/domain"
	"github.com/mentorny/user-api/internal/core/ports"
)

// AuthService implements registration, login, refresh-token rotation, logout,
// and the role-update workflow.
type AuthService struct {
	users      ports.UserRepository
	hasher     ports.PasswordHasher
	tokens     ports.TokenIssuer
	refreshTTL time.Duration
	audit      ports.AuditRecorder
	log        zerolog.Logger
}

func NewAuthService(
	users ports.UserRepository,
	hasher ports.PasswordHasher,
	tokens ports.TokenIssuer,
	refreshTTL time.Duration,
	audit ports.AuditRecorder,
	log zerolog.Logger,
) *AuthService {
	if refreshTTL <= 0 {
		refreshTTL = 7 * 24 * time.Hour
	}
	return &AuthService{
		users:      users,
		hasher:     hasher,
		tokens:     tokens,
		refreshTTL: refreshTTL,
		audit:      audit,
		log:        log,
	}
}

// Register creates an account with the base USER role and opens a session.
func (s *AuthService) Register(ctx context.Context, email, password, name string, age int) (*ports.AuthResult, error) {
	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		metrics.RegistrationsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("register: lookup email: %w", err)
	}
	if existing != nil {
		metrics.RegistrationsTotal.WithLabelValues("duplicate_email").Inc()
		return nil, domain.ErrEmailExists
	}

	passwordHash, err := s.hashSecret(password)
	if err != nil {
		metrics.RegistrationsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("register: hash password: %w", err)
	}

	now := time.Now().UTC()
	user, err := s.users.Create(ctx, &domain.User{
		Email:        email,
		PasswordHash: passwordHash,
		Name:         name,
		Age:          age,
		Roles:        []domain.Role{domain.RoleUser},
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		if errors.Is(err, domain.ErrEmailExists) {
			metrics.RegistrationsTotal.WithLabelValues("duplicate_email").Inc()
			return nil, domain.ErrEmailExists
		}
		metrics.RegistrationsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("register: create user: %w", err)
	}

	result, err := s.issueSession(ctx, user)
	if err != nil {
		metrics.RegistrationsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("register: %w", err)
	}

	metrics.RegistrationsTotal.WithLabelValues("success").Inc()
	s.recordAudit(user, domain.AuditRegister, "")
	s.log.Info().Str("user_id", user.ID).Msg("user registered")
	return result, nil
}

// Login verifies credentials and opens a session. Every internal cause (no
// such user, wrong password, store fault) collapses into
// ErrInvalidCredentials so callers cannot enumerate accounts.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			s.log.Error().Err(err).Msg("login: user lookup failed")
		}
		metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
		return nil, domain.ErrInvalidCredentials
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
		return nil, domain.ErrInvalidCredentials
	}

	result, err := s.issueSession(ctx, user)
	if err != nil {
		s.log.Error().Err(err).Str("user_id", user.ID).Msg("login: session issuance failed")
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return nil, domain.ErrInvalidCredentials
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	s.recordAudit(user, domain.AuditLogin, "")
	s.log.Info().Str("user_id", user.ID).Msg("user logged in")
	return result, nil
}

// RefreshTokens exchanges a valid refresh token for a brand-new pair. The
// presented token is matched by verifying it against every stored hash: an
// O(active sessions) scan, acceptable at this scale. Rotation makes the old
// token unusable immediately, so a stolen token survives at most one use.
func (s *AuthService) RefreshTokens(ctx context.Context, refreshToken string) (*ports.AuthResult, error) {
	if refreshToken == "" {
		metrics.TokenRefreshesTotal.WithLabelValues("invalid").Inc()
		return nil, domain.ErrInvalidRefreshToken
	}

	candidates, err := s.users.FindWithRefreshToken(ctx)
	if err != nil {
		metrics.TokenRefreshesTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("refresh: list candidates: %w", err)
	}

	var user *domain.User
	for _, c := range candidates {
		if c.HasActiveRefreshToken() && s.hasher.Verify(refreshToken, c.RefreshTokenHash) {
			user = c
			break
		}
	}
	if user == nil {
		metrics.TokenRefreshesTotal.WithLabelValues("invalid").Inc()
		return nil, domain.ErrInvalidRefreshToken
	}

	if time.Now().After(user.RefreshTokenExpiresAt) {
		// Fail closed: clear the slot so the token cannot match again.
		if err := s.users.ClearRefreshToken(ctx, user.ID); err != nil {
			s.log.Error().Err(err).Str("user_id", user.ID).Msg("refresh: failed to clear expired token")
		}
		metrics.TokenRefreshesTotal.WithLabelValues("expired").Inc()
		return nil, domain.ErrRefreshTokenExpired
	}

	result, err := s.issueSession(ctx, user)
	if err != nil {
		metrics.TokenRefreshesTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("refresh: %w", err)
	}

	metrics.TokenRefreshesTotal.WithLabelValues("success").Inc()
	s.recordAudit(user, domain.AuditTokenRefresh, "")
	return result, nil
}

// Logout clears the user's refresh-token slot. Idempotent: logging out twice
// is not an error.
func (s *AuthService) Logout(ctx context.Context, userID string) error {
	if err := s.users.ClearRefreshToken(ctx, userID); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	metrics.LogoutsTotal.Inc()
	s.recordAudit(&domain.User{ID: userID}, domain.AuditLogout, "")
	s.log.Info().Str("user_id", userID).Msg("user logged out")
	return nil
}

// Profile returns the authenticated user's record.
func (s *AuthService) Profile(ctx context.Context, userID string) (*domain.User, error) {
	return s.users.FindByID(ctx, userID)
}

// UpdateUserRoles applies a role-update request through the role policy. The
// route is gated to super admins, but the policy invariants are re-validated
// here as well.
func (s *AuthService) UpdateUserRoles(ctx context.Context, actorID, targetID string, roles []domain.Role) (*domain.User, error) {
	target, err := s.users.FindByID(ctx, targetID)
	if err != nil {
		return nil, err
	}

	newRoles, err := domain.NormalizeRoleUpdate(target.Roles, roles)
	if err != nil {
		metrics.RoleUpdatesTotal.WithLabelValues("forbidden").Inc()
		return nil, err
	}

	updated, err := s.users.Update(ctx, targetID, ports.UpdateUserFields{Roles: newRoles})
	if err != nil {
		return nil, fmt.Errorf("update roles: %w", err)
	}

	metrics.RoleUpdatesTotal.WithLabelValues("success").Inc()
	s.recordAudit(updated, domain.AuditRolesUpdated, actorID)
	s.log.Info().Str("user_id", targetID).Str("actor_id", actorID).Msg("user roles updated")
	return updated, nil
}

// issueSession mints a token pair and rotates the stored refresh-token slot.
// The plaintext refresh token leaves this function exactly once, in the
// result; only its hash is persisted.
func (s *AuthService) issueSession(ctx context.Context, user *domain.User) (*ports.AuthResult, error) {
	access, err := s.tokens.IssueAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}

	refresh, err := s.tokens.IssueRefreshToken()
	if err != nil {
		return nil, fmt.Errorf("issue refresh token: %w", err)
	}

	refreshHash, err := s.hashSecret(refresh)
	if err != nil {
		return nil, fmt.Errorf("hash refresh token: %w", err)
	}

	expiresAt := time.Now().Add(s.refreshTTL)
	if err := s.users.UpdateRefreshToken(ctx, user.ID, refreshHash, expiresAt); err != nil {
		return nil, fmt.Errorf("persist refresh token: %w", err)
	}

	user.RefreshTokenHash = refreshHash
	user.RefreshTokenExpiresAt = expiresAt

	return &ports.AuthResult{
		User:         user,
		AccessToken:  access,
		RefreshToken: refresh,
	}, nil
}

func (s *AuthService) hashSecret(secret string) (string, error) {
	timer := prometheus.NewTimer(metrics.PasswordHashDuration)
	defer timer.ObserveDuration()
	return s.hasher.Hash(secret)
}

func (s *AuthService) recordAudit(user *domain.User, action, actorID string) {
	if s.audit == nil {
		return
	}
	s.audit.Enqueue(ports.AuditEventInput{
		UserID:    user.ID,
		Email:     user.Email,
		Action:    action,
		ActorID:   actorID,
		Timestamp: time.Now().UTC(),
	})
}
