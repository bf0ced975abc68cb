package dto

import "github.com/travelog/travelog/internal/model"

// LoginRequest is decoded loosely so that type mismatches surface as field errors.
type LoginRequest struct {
	Email    any `json:"email"`
	Password any `json:"password"`
}

// LoginData is the payload of a successful login.
type LoginData struct {
	Token     string      `json:"token"`
	TokenType string      `json:"token_type"`
	ExpiresIn int64       `json:"expires_in"`
	User      *model.User `json:"user"`
}

// LoginResponse is the body of a successful login.
type LoginResponse struct {
	Success bool      `json:"success"`
	Message string    `json:"message"`
	Data    LoginData `json:"data"`
}

// RefreshResponse is the body of a successful refresh.
type RefreshResponse struct {
	Success   bool   `json:"success"`
	Token     string `json:"token"`
	TokenType string `json:"token_type"`
	ExpiresIn int64  `json:"expires_in"`
}

// MeResponse is the body of GET /auth/me.
type MeResponse struct {
	Success bool        `json:"success"`
	User    *model.User `json:"user"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}
