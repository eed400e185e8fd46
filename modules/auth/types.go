package auth

import (
	"time"

	"github.com/kalviumcommunity/Medical-Appointments/domain/user"
)

// SignupRequest represents a signup request.
type SignupRequest struct {
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	Password string    `json:"password"`
	Role     user.Role `json:"role,omitempty"`
}

// SignupResponse represents a signup response.
type SignupResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      user.Role `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// LoginRequest represents a login request.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse represents a login response with the issued token and the
// safe identity.
type LoginResponse struct {
	Token string         `json:"token"`
	User  SignupResponse `json:"user"`
}

// ValidateTokenRequest represents a token validation request.
type ValidateTokenRequest struct {
	Token string `json:"token"`
}

// ValidateTokenResponse represents a token validation response. Code carries
// the verification failure class so callers can map it without parsing
// messages.
type ValidateTokenResponse struct {
	Valid  bool      `json:"valid"`
	UserID string    `json:"user_id,omitempty"`
	Role   user.Role `json:"role,omitempty"`
	Code   string    `json:"code,omitempty"`
}

// Token verification failure codes.
const (
	CodeTokenMissing = "TOKEN_MISSING"
	CodeTokenInvalid = "TOKEN_INVALID"
	CodeTokenExpired = "TOKEN_EXPIRED"
)

// GetUserRequest represents a get-user request.
type GetUserRequest struct {
	UserID string `json:"user_id"`
}

// GetUserResponse represents a get-user response.
type GetUserResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      user.Role `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func toSignupResponse(u *user.User) SignupResponse {
	return SignupResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}
