package service

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"testing"

	"github.com/mentorny/user-api/internal/core/domain"
	"github.com/mentorny/user-api/internal/core/ports"
	"github.com/mentorny/user-api/internal/pkg/hash"
)

type stubSkillRepo struct {
	skills map[string]*domain.Skill // by name
	seq    int

	createCalls [][]string
}

func newStubSkillRepo() *stubSkillRepo {
	return &stubSkillRepo{skills: make(map[string]*domain.Skill)}
}

func (r *stubSkillRepo) FindByNames(_ context.Context, names []string) ([]*domain.Skill, error) {
	var out []*domain.Skill
	for _, name := range names {
		if sk, ok := r.skills[name]; ok {
			out = append(out, sk)
		}
	}
	return out, nil
}

func (r *stubSkillRepo) CreateMany(_ context.Context, names []string) ([]*domain.Skill, error) {
	r.createCalls = append(r.createCalls, names)
	out := make([]*domain.Skill, 0, len(names))
	for _, name := range names {
		r.seq++
		sk := &domain.Skill{ID: fmt.Sprintf("skill_%d", r.seq), Name: name}
		r.skills[name] = sk
		out = append(out, sk)
	}
	return out, nil
}

func (r *stubSkillRepo) FindAll(_ context.Context) ([]*domain.Skill, error) {
	out := make([]*domain.Skill, 0, len(r.skills))
	for _, sk := range r.skills {
		out = append(out, sk)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func newUserService(users *stubUserRepo, skills *stubSkillRepo) *UserService {
	return NewUserService(users, skills, hash.NewBcrypt(4), nil, testLogger())
}

func TestUserService_Update_PartialFields(t *testing.T) {
	repo := newStubUserRepo()
	svc := newUserService(repo, newStubSkillRepo())

	created, _ := repo.Create(context.Background(), &domain.User{
		Email: "alice@example.com", Name: "Alice", Age: 30,
		Roles: []domain.Role{domain.RoleUser},
	})

	name := "Alicia"
	updated, err := svc.Update(context.Background(), created.ID, ports.UpdateUserInput{Name: &name})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if updated.Name != "Alicia" {
		t.Fatalf("name not updated: %q", updated.Name)
	}
	if updated.Email != "alice@example.com" || updated.Age != 30 {
		t.Fatalf("untouched fields changed: %+v", updated)
	}
}

func TestUserService_Update_EmailConflict(t *testing.T) {
	repo := newStubUserRepo()
	svc := newUserService(repo, newStubSkillRepo())

	repo.Create(context.Background(), &domain.User{Email: "taken@example.com"})
	created, _ := repo.Create(context.Background(), &domain.User{Email: "bob@example.com"})

	email := "taken@example.com"
	if _, err := svc.Update(context.Background(), created.ID, ports.UpdateUserInput{Email: &email}); !errors.Is(err, domain.ErrEmailExists) {
		t.Fatalf("expected ErrEmailExists, got %v", err)
	}

	// Re-submitting the user's own email is not a conflict.
	own := "bob@example.com"
	if _, err := svc.Update(context.Background(), created.ID, ports.UpdateUserInput{Email: &own}); err != nil {
		t.Fatalf("own email rejected: %v", err)
	}
}

func TestUserService_Update_RehashesPassword(t *testing.T) {
	repo := newStubUserRepo()
	hasher := hash.NewBcrypt(4)
	svc := NewUserService(repo, newStubSkillRepo(), hasher, nil, testLogger())

	created, _ := repo.Create(context.Background(), &domain.User{Email: "carol@example.com"})

	password := "newpassword1"
	updated, err := svc.Update(context.Background(), created.ID, ports.UpdateUserInput{Password: &password})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if updated.PasswordHash == password {
		t.Fatalf("password stored in plaintext")
	}
	if !hasher.Verify(password, updated.PasswordHash) {
		t.Fatalf("stored hash does not verify")
	}
}

func TestUserService_Remove(t *testing.T) {
	repo := newStubUserRepo()
	svc := newUserService(repo, newStubSkillRepo())

	created, _ := repo.Create(context.Background(), &domain.User{
		Email: "dave@example.com",
		Roles: []domain.Role{domain.RoleUser},
	})

	if err := svc.Remove(context.Background(), "actor", created.ID); err != nil {
		t.Fatalf("Remove returned error: %v", err)
	}
	if _, err := repo.FindByID(context.Background(), created.ID); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("user still present after Remove")
	}

	if err := svc.Remove(context.Background(), "actor", created.ID); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserService_Remove_SuperAdminProtected(t *testing.T) {
	repo := newStubUserRepo()
	svc := newUserService(repo, newStubSkillRepo())

	created, _ := repo.Create(context.Background(), &domain.User{
		Email: "root@example.com",
		Roles: []domain.Role{domain.RoleSuperAdmin, domain.RoleAdmin, domain.RoleUser},
	})

	if err := svc.Remove(context.Background(), "actor", created.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if _, err := repo.FindByID(context.Background(), created.ID); err != nil {
		t.Fatalf("super admin was deleted")
	}
}

func TestUserService_AddSkills(t *testing.T) {
	users := newStubUserRepo()
	skills := newStubSkillRepo()
	svc := newUserService(users, skills)

	skills.CreateMany(context.Background(), []string{"go"})
	skills.createCalls = nil

	created, _ := users.Create(context.Background(), &domain.User{Email: "erin@example.com"})

	updated, err := svc.AddSkills(context.Background(), created.ID, []string{"go", "mongodb", "mongodb"})
	if err != nil {
		t.Fatalf("AddSkills returned error: %v", err)
	}

	// Only the genuinely new name is created, once.
	if len(skills.createCalls) != 1 || !reflect.DeepEqual(skills.createCalls[0], []string{"mongodb"}) {
		t.Fatalf("unexpected create calls: %v", skills.createCalls)
	}
	if len(updated.SkillIDs) != 2 {
		t.Fatalf("expected 2 skill ids, got %v", updated.SkillIDs)
	}

	// Re-adding the same skills does not duplicate the association.
	again, err := svc.AddSkills(context.Background(), created.ID, []string{"go", "mongodb"})
	if err != nil {
		t.Fatalf("second AddSkills returned error: %v", err)
	}
	if len(again.SkillIDs) != 2 {
		t.Fatalf("association duplicated: %v", again.SkillIDs)
	}
}

func TestUserService_AddSkills_UnknownUser(t *testing.T) {
	svc := newUserService(newStubUserRepo(), newStubSkillRepo())

	if _, err := svc.AddSkills(context.Background(), "missing", []string{"go"}); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserService_BootstrapSuperAdmin(t *testing.T) {
	repo := newStubUserRepo()
	hasher := hash.NewBcrypt(4)
	svc := NewUserService(repo, newStubSkillRepo(), hasher, nil, testLogger())

	admin, err := svc.BootstrapSuperAdmin(context.Background(), "admin@example.com", "bootpass1", "Admin", 99)
	if err != nil {
		t.Fatalf("BootstrapSuperAdmin returned error: %v", err)
	}
	want := []domain.Role{domain.RoleSuperAdmin, domain.RoleAdmin, domain.RoleUser}
	if !reflect.DeepEqual(admin.Roles, want) {
		t.Fatalf("expected roles %v, got %v", want, admin.Roles)
	}
	if !hasher.Verify("bootpass1", admin.PasswordHash) {
		t.Fatalf("seeded password does not verify")
	}

	// A second boot finds the existing account instead of failing.
	again, err := svc.BootstrapSuperAdmin(context.Background(), "admin@example.com", "otherpass", "Admin", 99)
	if err != nil {
		t.Fatalf("second bootstrap returned error: %v", err)
	}
	if again.ID != admin.ID {
		t.Fatalf("bootstrap created a second account")
	}
	if len(repo.users) != 1 {
		t.Fatalf("expected one user, got %d", len(repo.users))
	}
}
