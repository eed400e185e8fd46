package auth

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"

	"github.com/kalviumcommunity/Medical-Appointments/domain/user"
)

// Port is the interface other modules use to access auth functionality.
type Port interface {
	Signup(ctx context.Context, req SignupRequest) (SignupResponse, error)
	Login(ctx context.Context, req LoginRequest) (LoginResponse, error)
	ValidateToken(ctx context.Context, token string) (*user.Claims, error)
	GetUser(ctx context.Context, userID string) (*user.User, error)
}

// Adapter implements Port over the service container.
type Adapter struct {
	container mono.ServiceContainer
}

var _ Port = (*Adapter)(nil)

// NewAdapter creates a new Adapter.
func NewAdapter(container mono.ServiceContainer) *Adapter {
	return &Adapter{container: container}
}

// Signup creates a new user account.
func (a *Adapter) Signup(ctx context.Context, req SignupRequest) (SignupResponse, error) {
	var resp SignupResponse
	if err := helper.CallRequestReplyService(
		ctx, a.container, "signup", json.Marshal, json.Unmarshal, &req, &resp,
	); err != nil {
		return SignupResponse{}, err
	}
	return resp, nil
}

// Login authenticates a user and returns the issued token.
func (a *Adapter) Login(ctx context.Context, req LoginRequest) (LoginResponse, error) {
	var resp LoginResponse
	if err := helper.CallRequestReplyService(
		ctx, a.container, "login", json.Marshal, json.Unmarshal, &req, &resp,
	); err != nil {
		return LoginResponse{}, err
	}
	return resp, nil
}

// ValidateToken validates an identity token and returns the embedded claims.
// Verification failures come back as the jwt sentinel errors so callers can
// branch with errors.Is.
func (a *Adapter) ValidateToken(ctx context.Context, token string) (*user.Claims, error) {
	req := ValidateTokenRequest{Token: token}
	var resp ValidateTokenResponse

	if err := helper.CallRequestReplyService(
		ctx, a.container, "validate-token", json.Marshal, json.Unmarshal, &req, &resp,
	); err != nil {
		return nil, fmt.Errorf("validate-token request failed: %w", err)
	}

	if !resp.Valid {
		switch resp.Code {
		case CodeTokenMissing:
			return nil, ErrTokenMissing
		case CodeTokenExpired:
			return nil, ErrExpiredToken
		default:
			return nil, ErrInvalidToken
		}
	}

	return &user.Claims{
		UserID: resp.UserID,
		Role:   resp.Role,
	}, nil
}

// GetUser retrieves a user by ID.
func (a *Adapter) GetUser(ctx context.Context, userID string) (*user.User, error) {
	req := GetUserRequest{UserID: userID}
	var resp GetUserResponse

	if err := helper.CallRequestReplyService(
		ctx, a.container, "get-user", json.Marshal, json.Unmarshal, &req, &resp,
	); err != nil {
		return nil, fmt.Errorf("get-user request failed: %w", err)
	}

	return &user.User{
		ID:        resp.ID,
		Name:      resp.Name,
		Email:     resp.Email,
		Role:      resp.Role,
		CreatedAt: resp.CreatedAt,
	}, nil
}
