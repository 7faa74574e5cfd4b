package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/mentorny/user-api/internal/api/metrics"
	"github.com/mentorny/user-api/internal/core/domain"
	"github.com/mentorny/user-api/internal/core/ports"
)

// UserService implements user management: lookup, profile updates, the
// guarded delete, and the user-skill association.
type UserService struct {
	users  ports.UserRepository
	skills ports.SkillRepository
	hasher ports.PasswordHasher
	audit  ports.AuditRecorder
	log    zerolog.Logger
}

func NewUserService(
	users ports.UserRepository,
	skills ports.SkillRepository,
	hasher ports.PasswordHasher,
	audit ports.AuditRecorder,
	log zerolog.Logger,
) *UserService {
	return &UserService{
		users:  users,
		skills: skills,
		hasher: hasher,
		audit:  audit,
		log:    log,
	}
}

func (s *UserService) FindAll(ctx context.Context) ([]*domain.User, error) {
	return s.users.FindAll(ctx)
}

func (s *UserService) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return s.users.FindByID(ctx, id)
}

// Update applies a partial profile update. A changed email is re-checked for
// uniqueness; a new password is hashed before it goes anywhere near storage.
func (s *UserService) Update(ctx context.Context, id string, in ports.UpdateUserInput) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	fields := ports.UpdateUserFields{Name: in.Name, Age: in.Age}

	if in.Email != nil && *in.Email != user.Email {
		existing, err := s.users.FindByEmail(ctx, *in.Email)
		if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
			return nil, fmt.Errorf("update user: lookup email: %w", err)
		}
		if existing != nil {
			return nil, domain.ErrEmailExists
		}
		fields.Email = in.Email
	}

	if in.Password != nil {
		passwordHash, err := s.hasher.Hash(*in.Password)
		if err != nil {
			return nil, fmt.Errorf("update user: hash password: %w", err)
		}
		fields.PasswordHash = &passwordHash
	}

	updated, err := s.users.Update(ctx, id, fields)
	if err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}

	s.log.Info().Str("user_id", id).Msg("user updated")
	return updated, nil
}

// Remove deletes an account. Super-admin targets are never deletable, no
// matter who asks.
func (s *UserService) Remove(ctx context.Context, actorID, targetID string) error {
	target, err := s.users.FindByID(ctx, targetID)
	if err != nil {
		return err
	}

	if err := domain.CheckRemovable(target); err != nil {
		return err
	}

	if err := s.users.Delete(ctx, targetID); err != nil {
		return fmt.Errorf("remove user: %w", err)
	}

	metrics.UsersDeletedTotal.Inc()
	if s.audit != nil {
		s.audit.Enqueue(ports.AuditEventInput{
			UserID:    target.ID,
			Email:     target.Email,
			Action:    domain.AuditUserDeleted,
			ActorID:   actorID,
			Timestamp: time.Now().UTC(),
		})
	}
	s.log.Info().Str("user_id", targetID).Str("actor_id", actorID).Msg("user deleted")
	return nil
}

// AddSkills associates named skills with a user, creating any names not seen
// before. Already-associated skills are skipped, so the call is idempotent.
func (s *UserService) AddSkills(ctx context.Context, userID string, names []string) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	existing, err := s.skills.FindByNames(ctx, names)
	if err != nil {
		return nil, fmt.Errorf("add skills: lookup: %w", err)
	}

	known := make(map[string]struct{}, len(existing))
	for _, sk := range existing {
		known[sk.Name] = struct{}{}
	}
	var missing []string
	for _, name := range names {
		if _, ok := known[name]; !ok {
			known[name] = struct{}{}
			missing = append(missing, name)
		}
	}

	created, err := s.skills.CreateMany(ctx, missing)
	if err != nil {
		return nil, fmt.Errorf("add skills: create: %w", err)
	}

	ids := make([]string, 0, len(existing)+len(created))
	for _, sk := range existing {
		ids = append(ids, sk.ID)
	}
	for _, sk := range created {
		ids = append(ids, sk.ID)
	}

	if err := s.users.AddSkills(ctx, userID, ids); err != nil {
		return nil, fmt.Errorf("add skills: associate: %w", err)
	}

	s.log.Info().Str("user_id", userID).Int("skills", len(ids)).Msg("skills associated")
	return s.users.FindByID(ctx, user.ID)
}

func (s *UserService) ListSkills(ctx context.Context) ([]*domain.Skill, error) {
	return s.skills.FindAll(ctx)
}

// BootstrapSuperAdmin seeds the first super-admin account at startup. Safe to
// run on every boot: an existing account with the email short-circuits.
func (s *UserService) BootstrapSuperAdmin(ctx context.Context, email, password, name string, age int) (*domain.User, error) {
	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("bootstrap admin: lookup: %w", err)
	}
	if existing != nil {
		return existing, nil
	}

	passwordHash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("bootstrap admin: hash password: %w", err)
	}

	now := time.Now().UTC()
	admin, err := s.users.Create(ctx, &domain.User{
		Email:        email,
		PasswordHash: passwordHash,
		Name:         name,
		Age:          age,
		Roles:        []domain.Role{domain.RoleSuperAdmin, domain.RoleAdmin, domain.RoleUser},
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		// Another instance may have seeded concurrently.
		if errors.Is(err, domain.ErrEmailExists) {
			return s.users.FindByEmail(ctx, email)
		}
		return nil, fmt.Errorf("bootstrap admin: create: %w", err)
	}

	s.log.Info().Str("user_id", admin.ID).Msg("super admin seeded")
	return admin, nil
}
