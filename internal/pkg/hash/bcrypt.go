// Package hash provides the bcrypt-backed PasswordHasher used for both login
// passwords and refresh tokens. bcrypt salts internally and its comparison is
// constant-time, which is what makes it safe for credential verification.
package hash

import "golang.org/x/crypto/bcrypt"

type Bcrypt struct {
	cost int
}

// NewBcrypt returns a hasher with the given work factor. Costs outside the
// bcrypt range fall back to bcrypt.DefaultCost.
func NewBcrypt(cost int) *Bcrypt {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Bcrypt{cost: cost}
}

func (b *Bcrypt) Hash(secret string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(secret), b.cost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

func (b *Bcrypt) Verify(secret, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(secret)) == nil
}
