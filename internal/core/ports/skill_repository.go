package ports

import (
	"context"

	"github.com/mentorny/user-api/internal/core/domain"
)

// SkillRepository defines skill persistence for the user-skill association.
type SkillRepository interface {
	FindByNames(ctx context.Context, names []string) ([]*domain.Skill, error)
	CreateMany(ctx context.Context, names []string) ([]*domain.Skill, error)
	FindAll(ctx context.Context) ([]*domain.Skill, error)
}
