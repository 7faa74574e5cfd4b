package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mentorny/user-api/internal/core/domain"
)

func TestJWTIssuer_IssueAccessToken(t *testing.T) {
	issuer := NewJWTIssuer("secret", 15*time.Minute)
	user := &domain.User{
		ID:    "user_1",
		Email: "alice@example.com",
		Roles: []domain.Role{domain.RoleUser, domain.RoleAdmin},
	}

	token, err := issuer.IssueAccessToken(user)
	if err != nil {
		t.Fatalf("IssueAccessToken returned error: %v", err)
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte("secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token invalid: %v", err)
	}
	if claims["sub"] != "user_1" || claims["email"] != "alice@example.com" {
		t.Fatalf("unexpected claims: %+v", claims)
	}

	roles, ok := claims["roles"].([]any)
	if !ok || len(roles) != 2 {
		t.Fatalf("expected two roles in claims, got %v", claims["roles"])
	}

	exp, ok := claims["exp"].(float64)
	if !ok {
		t.Fatalf("missing exp claim")
	}
	ttl := time.Until(time.Unix(int64(exp), 0))
	if ttl <= 0 || ttl > 15*time.Minute {
		t.Fatalf("exp outside expected window: %v", ttl)
	}
}

func TestJWTIssuer_AccessTokenRejectedWithWrongSecret(t *testing.T) {
	issuer := NewJWTIssuer("secret", time.Minute)
	token, err := issuer.IssueAccessToken(&domain.User{ID: "u", Roles: []domain.Role{domain.RoleUser}})
	if err != nil {
		t.Fatalf("IssueAccessToken returned error: %v", err)
	}

	_, err = jwt.Parse(token, func(token *jwt.Token) (interface{}, error) {
		return []byte("other-secret"), nil
	})
	if err == nil {
		t.Fatalf("expected verification failure with wrong secret")
	}
}

func TestJWTIssuer_IssueRefreshToken(t *testing.T) {
	issuer := NewJWTIssuer("secret", time.Minute)

	seen := make(map[string]struct{})
	for i := 0; i < 64; i++ {
		token, err := issuer.IssueRefreshToken()
		if err != nil {
			t.Fatalf("IssueRefreshToken returned error: %v", err)
		}
		// 32 bytes base64url-encoded without padding is 43 characters.
		if len(token) != 43 {
			t.Fatalf("unexpected token length %d", len(token))
		}
		if _, dup := seen[token]; dup {
			t.Fatalf("refresh token repeated")
		}
		seen[token] = struct{}{}
	}
}
