package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"

	"github.com/kalviumcommunity/Medical-Appointments/config"
	storemod "github.com/kalviumcommunity/Medical-Appointments/modules/store"
)

// AuthModule provides authentication services.
type AuthModule struct {
	cfg     config.AuthConfig
	stores  *storemod.Module
	service *AuthService
}

// Compile-time interface checks.
var (
	_ mono.Module                = (*AuthModule)(nil)
	_ mono.ServiceProviderModule = (*AuthModule)(nil)
	_ mono.DependentModule       = (*AuthModule)(nil)
	_ mono.HealthCheckableModule = (*AuthModule)(nil)
)

// NewModule creates a new AuthModule backed by the given store module.
func NewModule(cfg config.AuthConfig, stores *storemod.Module) *AuthModule {
	return &AuthModule{
		cfg:    cfg,
		stores: stores,
	}
}

// Name returns the module name.
func (m *AuthModule) Name() string {
	return "auth"
}

// Dependencies returns the list of module dependencies.
func (m *AuthModule) Dependencies() []string {
	return []string{"store"}
}

// SetDependencyServiceContainer receives service containers from dependencies.
// The store module exposes its stores directly, so nothing is consumed here.
func (m *AuthModule) SetDependencyServiceContainer(_ string, _ mono.ServiceContainer) {}

// Start wires the auth service.
func (m *AuthModule) Start(_ context.Context) error {
	users := m.stores.Users()
	if users == nil {
		return fmt.Errorf("store dependency not started")
	}

	if m.cfg.JWTSecret == "" {
		log.Println("[auth] WARNING: JWT_SECRET not set; token issuance will fail with CONFIG_ERROR")
	}

	m.service = NewAuthService(users, NewPasswordHasher(), NewJWTManager(m.cfg))
	log.Println("[auth] Module started")
	return nil
}

// Stop shuts down the module.
func (m *AuthModule) Stop(_ context.Context) error {
	log.Println("[auth] Module stopped")
	return nil
}

// Health returns the health status of the module.
func (m *AuthModule) Health(_ context.Context) mono.HealthStatus {
	if m.service == nil {
		return mono.HealthStatus{Healthy: false, Message: "service not initialized"}
	}
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"token_duration": m.cfg.TokenDuration.String(),
			"secret_set":     m.cfg.JWTSecret != "",
		},
	}
}

// Service returns the auth service.
func (m *AuthModule) Service() *AuthService {
	return m.service
}

// RegisterServices registers request-reply services in the service container.
func (m *AuthModule) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container, "signup", json.Unmarshal, json.Marshal, m.handleSignup,
	); err != nil {
		return fmt.Errorf("failed to register signup service: %w", err)
	}
	if err := helper.RegisterTypedRequestReplyService(
		container, "login", json.Unmarshal, json.Marshal, m.handleLogin,
	); err != nil {
		return fmt.Errorf("failed to register login service: %w", err)
	}
	if err := helper.RegisterTypedRequestReplyService(
		container, "validate-token", json.Unmarshal, json.Marshal, m.handleValidateToken,
	); err != nil {
		return fmt.Errorf("failed to register validate-token service: %w", err)
	}
	if err := helper.RegisterTypedRequestReplyService(
		container, "get-user", json.Unmarshal, json.Marshal, m.handleGetUser,
	); err != nil {
		return fmt.Errorf("failed to register get-user service: %w", err)
	}

	log.Printf("[auth] Registered services: signup, login, validate-token, get-user")
	return nil
}

// handleSignup handles user signup.
func (m *AuthModule) handleSignup(ctx context.Context, req SignupRequest, _ *mono.Msg) (SignupResponse, error) {
	u, err := m.service.Signup(ctx, req.Name, req.Email, req.Password, req.Role)
	if err != nil {
		return SignupResponse{}, err
	}
	return toSignupResponse(u), nil
}

// handleLogin handles user login.
func (m *AuthModule) handleLogin(ctx context.Context, req LoginRequest, _ *mono.Msg) (LoginResponse, error) {
	token, u, err := m.service.Login(ctx, req.Email, req.Password)
	if err != nil {
		return LoginResponse{}, err
	}
	return LoginResponse{
		Token: token,
		User:  toSignupResponse(u),
	}, nil
}

// handleValidateToken handles token validation. Verification failures are
// returned as a response with a failure code, not as an error, so the caller
// can distinguish missing, invalid and expired tokens.
func (m *AuthModule) handleValidateToken(ctx context.Context, req ValidateTokenRequest, _ *mono.Msg) (ValidateTokenResponse, error) {
	claims, err := m.service.ValidateToken(ctx, req.Token)
	if err != nil {
		code := CodeTokenInvalid
		switch {
		case errors.Is(err, ErrTokenMissing):
			code = CodeTokenMissing
		case errors.Is(err, ErrExpiredToken):
			code = CodeTokenExpired
		}
		return ValidateTokenResponse{Valid: false, Code: code}, nil
	}

	return ValidateTokenResponse{
		Valid:  true,
		UserID: claims.UserID,
		Role:   claims.Role,
	}, nil
}

// handleGetUser handles get-user requests.
func (m *AuthModule) handleGetUser(ctx context.Context, req GetUserRequest, _ *mono.Msg) (GetUserResponse, error) {
	u, err := m.service.GetUser(ctx, req.UserID)
	if err != nil {
		return GetUserResponse{}, err
	}
	return GetUserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}, nil
}
