package domain

import (
	"errors"
	"reflect"
	"testing"
)

func TestParseRole(t *testing.T) {
	cases := []struct {
		in   string
		want Role
		ok   bool
	}{
		{"user", RoleUser, true},
		{"admin", RoleAdmin, true},
		{"super_admin", RoleSuperAdmin, true},
		{"superadmin", "", false},
		{"ADMIN", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, ok := ParseRole(tc.in)
		if got != tc.want || ok != tc.ok {
			t.Errorf("ParseRole(%q) = %q, %v; want %q, %v", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestNormalizeRoleUpdate(t *testing.T) {
	cases := []struct {
		name      string
		current   []Role
		requested []Role
		want      []Role
		wantErr   error
	}{
		{
			name:      "admin grant keeps user",
			current:   []Role{RoleUser},
			requested: []Role{RoleAdmin},
			want:      []Role{RoleAdmin, RoleUser},
		},
		{
			name:      "explicit user preserved in order",
			current:   []Role{RoleUser},
			requested: []Role{RoleUser, RoleAdmin},
			want:      []Role{RoleUser, RoleAdmin},
		},
		{
			name:      "admin revocation",
			current:   []Role{RoleAdmin, RoleUser},
			requested: []Role{RoleUser},
			want:      []Role{RoleUser},
		},
		{
			name:      "empty request falls back to user",
			current:   []Role{RoleAdmin, RoleUser},
			requested: nil,
			want:      []Role{RoleUser},
		},
		{
			name:      "duplicates collapsed",
			current:   []Role{RoleUser},
			requested: []Role{RoleAdmin, RoleAdmin, RoleUser},
			want:      []Role{RoleAdmin, RoleUser},
		},
		{
			name:      "super admin target immutable",
			current:   []Role{RoleSuperAdmin, RoleAdmin, RoleUser},
			requested: []Role{RoleUser},
			wantErr:   ErrForbidden,
		},
		{
			name:      "super admin target immutable even for no-op",
			current:   []Role{RoleSuperAdmin, RoleAdmin, RoleUser},
			requested: []Role{RoleAdmin, RoleUser},
			wantErr:   ErrForbidden,
		},
		{
			name:      "super admin never grantable",
			current:   []Role{RoleUser},
			requested: []Role{RoleSuperAdmin},
			wantErr:   ErrForbidden,
		},
		{
			name:      "super admin never grantable alongside others",
			current:   []Role{RoleAdmin, RoleUser},
			requested: []Role{RoleAdmin, RoleSuperAdmin, RoleUser},
			wantErr:   ErrForbidden,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := NormalizeRoleUpdate(tc.current, tc.requested)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("expected %v, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestCheckRemovable(t *testing.T) {
	if err := CheckRemovable(&User{Roles: []Role{RoleAdmin, RoleUser}}); err != nil {
		t.Fatalf("admin should be removable: %v", err)
	}
	if err := CheckRemovable(&User{Roles: []Role{RoleSuperAdmin, RoleUser}}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for super admin, got %v", err)
	}
}

func TestUser_HasActiveRefreshToken(t *testing.T) {
	u := &User{}
	if u.HasActiveRefreshToken() {
		t.Fatalf("empty slot reported active")
	}
	u.RefreshTokenHash = "some-hash"
	if !u.HasActiveRefreshToken() {
		t.Fatalf("populated slot reported inactive")
	}
}
