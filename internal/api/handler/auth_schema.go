package handler

import "github.com/mentorny/user-api/internal/core/domain"

// errorResponse is the standard error envelope returned on all 4xx/5xx
// responses (rendered by the central HTTP error handler).
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request / Response types ---

type registerRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name"     validate:"required"`
	Age      int    `json:"age"      validate:"required,gt=0"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// The refresh token travels in the request body, not a header.
type refreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

type updateRolesRequest struct {
	Roles []string `json:"roles" validate:"required,min=1,dive,oneof=user admin super_admin"`
}

type authResponse struct {
	User         *domain.User `json:"user"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
}

type messageResponse struct {
	Message string `json:"message"`
}
