package domain

import "time"

// User models an account in the system: identity, credentials, and the
// single-slot refresh token state.
type User struct {
	ID                    string    `json:"id"`
	Email                 string    `json:"email"`
	PasswordHash          string    `json:"-"`
	Name                  string    `json:"name"`
	Age                   int       `json:"age"`
	Roles                 []Role    `json:"roles"`
	RefreshTokenHash      string    `json:"-"`
	RefreshTokenExpiresAt time.Time `json:"-"`
	SkillIDs              []string  `json:"-"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}

// HasRole reports whether the user holds the given role.
func (u *User) HasRole(role Role) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// HasActiveRefreshToken reports whether the refresh slot is populated.
// A cleared slot (empty hash) never matches any presented token.
func (u *User) HasActiveRefreshToken() bool {
	return u.RefreshTokenHash != ""
}
