package service

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mentorny/user-api/internal/core/domain"
)

// refreshTokenBytes gives 256 bits of entropy per refresh token.
const refreshTokenBytes = 32

// JWTIssuer mints HS256-signed access tokens and opaque random refresh
// tokens. The signing secret is held in memory only.
type JWTIssuer struct {
	secret    []byte
	accessTTL time.Duration
}

func NewJWTIssuer(secret string, accessTTL time.Duration) *JWTIssuer {
	if accessTTL <= 0 {
		accessTTL = 15 * time.Minute
	}
	return &JWTIssuer{secret: []byte(secret), accessTTL: accessTTL}
}

// IssueAccessToken signs {sub, email, roles} with the configured TTL. The
// token is stateless and independently verifiable by the auth middleware.
func (i *JWTIssuer) IssueAccessToken(user *domain.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   user.ID,
		"email": user.Email,
		"roles": user.Roles,
		"iat":   now.Unix(),
		"exp":   now.Add(i.accessTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(i.secret)
}

// IssueRefreshToken generates a cryptographically secure opaque token. The
// plaintext is returned to the caller exactly once; only its bcrypt hash is
// ever persisted.
func (i *JWTIssuer) IssueRefreshToken() (string, error) {
	b := make([]byte, refreshTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate refresh token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
