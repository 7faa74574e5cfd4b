package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/mentorny/user-api/internal/core/domain"
)

func renderError(t *testing.T, err error) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := NewHTTPErrorHandler(zerolog.Nop())
	handler(err, c)
	return rec
}

func TestHTTPErrorHandler_DomainErrors(t *testing.T) {
	cases := []struct {
		err      error
		wantCode int
		wantMsg  string
	}{
		{domain.ErrInvalidCredentials, http.StatusUnauthorized, "invalid credentials"},
		{domain.ErrInvalidRefreshToken, http.StatusUnauthorized, "invalid refresh token"},
		{domain.ErrRefreshTokenExpired, http.StatusUnauthorized, "refresh token expired"},
		{domain.ErrEmailExists, http.StatusConflict, "email already exists"},
		{domain.ErrForbidden, http.StatusForbidden, "access forbidden"},
		{domain.ErrUserNotFound, http.StatusNotFound, "user not found"},
	}

	for _, tc := range cases {
		t.Run(tc.wantMsg, func(t *testing.T) {
			rec := renderError(t, tc.err)
			if rec.Code != tc.wantCode {
				t.Fatalf("expected %d, got %d", tc.wantCode, rec.Code)
			}
			if !strings.Contains(rec.Body.String(), tc.wantMsg) {
				t.Fatalf("expected %q in body, got %s", tc.wantMsg, rec.Body.String())
			}
		})
	}
}

func TestHTTPErrorHandler_WrappedDomainError(t *testing.T) {
	rec := renderError(t, fmt.Errorf("refresh: %w", domain.ErrRefreshTokenExpired))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for wrapped error, got %d", rec.Code)
	}
}

func TestHTTPErrorHandler_EchoHTTPError(t *testing.T) {
	rec := renderError(t, echo.NewHTTPError(http.StatusBadRequest, "invalid payload"))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "invalid payload") {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestHTTPErrorHandler_UnexpectedErrorIsOpaque(t *testing.T) {
	rec := renderError(t, errors.New("mongo: connection reset by peer"))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "mongo") {
		t.Fatalf("internal detail leaked: %s", rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "internal server error") {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}
