package ports

// PasswordHasher is the one-way hashing capability used for login secrets and
// refresh tokens. Implementations must be salted, adaptive (tunable work
// factor), and timing-safe on Verify.
type PasswordHasher interface {
	Hash(secret string) (string, error)
	Verify(secret, digest string) bool
}
