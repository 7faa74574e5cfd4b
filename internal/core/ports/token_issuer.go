package ports

import "github.com/mentorny/user-api/internal/core/domain"

// TokenIssuer mints the session artifacts: signed, time-bound access tokens
// and opaque high-entropy refresh tokens. Access tokens are stateless and
// never stored; refresh tokens are returned in plaintext exactly once.
type TokenIssuer interface {
	IssueAccessToken(user *domain.User) (string, error)
	IssueRefreshToken() (string, error)
}
