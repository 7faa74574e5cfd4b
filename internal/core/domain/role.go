package domain

// Role is the closed set of privilege levels, ordered
// USER < ADMIN < SUPER_ADMIN.
type Role string

const (
	RoleUser       Role = "user"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "super_admin"
)

// ParseRole maps a wire value to a known Role.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleUser, RoleAdmin, RoleSuperAdmin:
		return Role(s), true
	}
	return "", false
}

// RolesInclude reports whether roles contains role.
func RolesInclude(roles []Role, role Role) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}

// NormalizeRoleUpdate decides the outcome of a role-update request against a
// target's current role set. The rules hold regardless of who asks:
//
//  1. A target holding SUPER_ADMIN is immutable; reject.
//  2. SUPER_ADMIN can never be granted through this path; reject.
//  3. USER is always retained; a request that omits it gets it re-added.
//
// Rules 1–2 are re-checked here even though the route guard already limits the
// operation to super admins: a misconfigured guard must not be able to mint or
// strip super-admin privilege.
func NormalizeRoleUpdate(current, requested []Role) ([]Role, error) {
	if RolesInclude(current, RoleSuperAdmin) {
		return nil, ErrForbidden
	}
	if RolesInclude(requested, RoleSuperAdmin) {
		return nil, ErrForbidden
	}

	roles := make([]Role, 0, len(requested)+1)
	seen := make(map[Role]struct{}, len(requested)+1)
	for _, r := range requested {
		if _, dup := seen[r]; dup {
			continue
		}
		seen[r] = struct{}{}
		roles = append(roles, r)
	}
	if _, ok := seen[RoleUser]; !ok {
		roles = append(roles, RoleUser)
	}
	return roles, nil
}

// CheckRemovable rejects deletion of super-admin accounts. This is a standing
// invariant, not an authorization check: no actor role may delete a super
// admin.
func CheckRemovable(target *User) error {
	if target.HasRole(RoleSuperAdmin) {
		return ErrForbidden
	}
	return nil
}
